// Package auth derives a Minecraft session credential from a Microsoft access token.
//
// The derivation is a chain of three dependent exchanges: the Microsoft token is traded
// for an Xbox Live user token, that for an XSTS token scoped to the Minecraft services,
// and the XSTS identity for the Minecraft access token. Each hop's request is built from
// the previous hop's response, so the chain is strictly sequential.
package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/aabss/mojang-go/headers"
	"github.com/aabss/mojang-go/routes"
)

const (
	defaultUserAgent = "mojang-go-auth/1"

	// defaultHTTPTimeout bounds each hop when no client is injected.
	defaultHTTPTimeout = 30 * time.Second

	// maxResponseBodySize caps how much of a hop response is read (1 MiB).
	maxResponseBodySize = 1 << 20

	redactedPlaceholder = "[REDACTED]"
	emptyPlaceholder    = "<empty>"
)

// ErrDelegatedCredentialRequired is returned before any I/O when no Microsoft token is given.
var ErrDelegatedCredentialRequired = errors.New("mojang/auth: delegated credential required")

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var defaultHTTPClient = &http.Client{Timeout: defaultHTTPTimeout}

// Endpoints are the absolute URLs of the three hops.
type Endpoints struct {
	XboxLive string
	XSTS     string
	Login    string
}

// DefaultEndpoints returns the production hop URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		XboxLive: routes.XboxLiveUserHost + routes.XboxLiveAuthenticate,
		XSTS:     routes.XSTSHost + routes.XSTSAuthorize,
		Login:    routes.MinecraftServices + routes.LoginWithXbox,
	}
}

func (e Endpoints) withDefaults() Endpoints {
	def := DefaultEndpoints()
	if strings.TrimSpace(e.XboxLive) == "" {
		e.XboxLive = def.XboxLive
	}
	if strings.TrimSpace(e.XSTS) == "" {
		e.XSTS = def.XSTS
	}
	if strings.TrimSpace(e.Login) == "" {
		e.Login = def.Login
	}
	return e
}

func (e Endpoints) validate() error {
	for name, raw := range map[string]string{"xbox live": e.XboxLive, "xsts": e.XSTS, "login": e.Login} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("mojang/auth: invalid %s endpoint: %w", name, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("mojang/auth: %s endpoint must be an absolute URL", name)
		}
	}
	return nil
}

// Config controls how the Exchanger reaches the identity services. The zero value
// targets production with a 30 second per-hop timeout.
type Config struct {
	HTTPClient   Doer
	Endpoints    Endpoints
	RelyingParty string
	UserAgent    string
	Logger       *zap.Logger
}

// Exchanger runs the token exchange chain. It holds no per-exchange state and may be
// shared by concurrent callers.
type Exchanger struct {
	httpClient   Doer
	endpoints    Endpoints
	relyingParty string
	userAgent    string
	logger       *zap.Logger
}

// NewExchanger validates cfg and returns a ready Exchanger.
func NewExchanger(cfg Config) (*Exchanger, error) {
	endpoints := cfg.Endpoints.withDefaults()
	if err := endpoints.validate(); err != nil {
		return nil, err
	}
	client := cfg.HTTPClient
	if client == nil {
		client = defaultHTTPClient
	}
	rp := strings.TrimSpace(cfg.RelyingParty)
	if rp == "" {
		rp = MinecraftRelyingParty
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exchanger{
		httpClient:   client,
		endpoints:    endpoints,
		relyingParty: rp,
		userAgent:    ua,
		logger:       logger.Named("auth"),
	}, nil
}

// Authenticate runs the exchange against production with default settings.
func Authenticate(ctx context.Context, delegated string) (SessionCredential, error) {
	e, err := NewExchanger(Config{})
	if err != nil {
		return SessionCredential{}, err
	}
	return e.Exchange(ctx, delegated)
}

// Exchange turns a Microsoft access token into a Minecraft session credential.
//
// The first failing hop aborts the chain and is reported as *Error; no hop is retried
// and no partial credential is returned. Retrying is up to the caller, with a fresh
// delegated credential.
func (e *Exchanger) Exchange(ctx context.Context, delegated string) (SessionCredential, error) {
	if e == nil {
		return SessionCredential{}, errors.New("mojang/auth: exchanger not initialized")
	}
	if strings.TrimSpace(delegated) == "" {
		return SessionCredential{}, ErrDelegatedCredentialRequired
	}
	start := time.Now()

	xbl, err := e.xboxLive(ctx, delegated)
	if err != nil {
		return SessionCredential{}, err
	}
	xsts, err := e.xsts(ctx, xbl.Token)
	if err != nil {
		return SessionCredential{}, err
	}
	accessToken, err := e.login(ctx, xbl.UserHash, xsts)
	if err != nil {
		return SessionCredential{}, err
	}

	e.logger.Debug("token exchange complete", zap.Duration("latency", time.Since(start)))
	return SessionCredential{AccessToken: accessToken}, nil
}

// ExchangeTokenSource runs Exchange with the access token of a caller-owned
// oauth2.TokenSource, such as one produced by a Microsoft device-code flow.
func (e *Exchanger) ExchangeTokenSource(ctx context.Context, ts oauth2.TokenSource) (SessionCredential, error) {
	if ts == nil {
		return SessionCredential{}, ErrDelegatedCredentialRequired
	}
	tok, err := ts.Token()
	if err != nil {
		return SessionCredential{}, fmt.Errorf("mojang/auth: delegated token source: %w", err)
	}
	if tok == nil || !tok.Valid() {
		return SessionCredential{}, fmt.Errorf("mojang/auth: delegated token is missing or expired")
	}
	return e.Exchange(ctx, tok.AccessToken)
}

func (e *Exchanger) xboxLive(ctx context.Context, delegated string) (xblToken, error) {
	body, err := e.post(ctx, HopXboxLive, e.endpoints.XboxLive, buildXboxLiveRequest(delegated))
	if err != nil {
		return xblToken{}, err
	}
	tok, err := parseXboxLiveResponse(body)
	if err != nil {
		return xblToken{}, &Error{Hop: HopXboxLive, Err: err}
	}
	return tok, nil
}

func (e *Exchanger) xsts(ctx context.Context, userToken string) (string, error) {
	body, err := e.post(ctx, HopXSTS, e.endpoints.XSTS, buildXSTSRequest(userToken, e.relyingParty))
	if err != nil {
		return "", err
	}
	tok, err := parseXSTSResponse(body)
	if err != nil {
		return "", &Error{Hop: HopXSTS, Err: err}
	}
	return tok, nil
}

func (e *Exchanger) login(ctx context.Context, userHash, xstsToken string) (string, error) {
	body, err := e.post(ctx, HopMinecraft, e.endpoints.Login, buildLoginRequest(userHash, xstsToken))
	if err != nil {
		return "", err
	}
	tok, err := parseLoginResponse(body)
	if err != nil {
		return "", &Error{Hop: HopMinecraft, Err: err}
	}
	return tok, nil
}

// post sends one hop and returns the body of a 2xx response. Every failure is an *Error.
func (e *Exchanger) post(ctx context.Context, hop Hop, endpoint string, payload any) ([]byte, error) {
	data, err := encodeJSON(payload)
	if err != nil {
		return nil, &Error{Hop: hop, Err: fmt.Errorf("encode request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Hop: hop, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", e.userAgent)
	if hop != HopMinecraft {
		req.Header.Set(headers.XboxContractVersion, "1")
	}

	log := e.logger.With(zap.Int("hop", int(hop)), zap.Stringer("step", hop))
	log.Debug("token exchange request", zap.String("url", endpoint))

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	if err != nil {
		log.Debug("token exchange transport failure", zap.Error(err))
		return nil, &Error{Hop: hop, Err: NewTransportError("request failed", err)}
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, &Error{Hop: hop, Err: NewTransportError("read response", err)}
	}
	log.Debug("token exchange response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Hop: hop, Err: parseRejection(resp.StatusCode, body)}
	}
	return body, nil
}
