package mojang

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aabss/mojang-go/routes"
)

// Endpoints are the base URLs of the non-realms services.
type Endpoints struct {
	// Services is the Minecraft services API (profiles, skins, attributes).
	Services string
	// Mojang is the legacy Mojang API used for name lookups.
	Mojang string
	// SessionServer serves public profiles and the blocked server list.
	SessionServer string
}

// DefaultEndpoints returns the production base URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Services:      routes.MinecraftServices,
		Mojang:        routes.MojangAPI,
		SessionServer: routes.SessionServer,
	}
}

// Option configures a Client or RealmsClient.
type Option func(*options)

type options struct {
	httpClient  Doer
	endpoints   Endpoints
	environment Environment
	logger      *zap.Logger
	telemetry   TelemetryHooks
	userAgent   string
	limiter     *rate.Limiter
}

func defaultOptions() options {
	return options{
		endpoints:   DefaultEndpoints(),
		environment: EnvironmentProduction,
		userAgent:   defaultUserAgent,
	}
}

// WithHTTPClient overrides the transport. Callers impose timeouts here.
func WithHTTPClient(c Doer) Option {
	return func(o *options) { o.httpClient = c }
}

// WithEndpoints overrides base URLs; empty fields keep their defaults.
func WithEndpoints(e Endpoints) Option {
	return func(o *options) {
		if e.Services != "" {
			o.endpoints.Services = e.Services
		}
		if e.Mojang != "" {
			o.endpoints.Mojang = e.Mojang
		}
		if e.SessionServer != "" {
			o.endpoints.SessionServer = e.SessionServer
		}
	}
}

// WithRealmsEnvironment selects the realms deployment a RealmsClient talks to.
func WithRealmsEnvironment(env Environment) Option {
	return func(o *options) { o.environment = env }
}

// WithLogger sets the logger for request diagnostics. Credentials are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTelemetry installs request and metric hooks.
func WithTelemetry(t TelemetryHooks) Option {
	return func(o *options) { o.telemetry = t }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithRateLimiter makes every request wait on l before it is sent. The limiter may be
// shared between clients to respect an account-wide quota.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(o *options) { o.limiter = l }
}
