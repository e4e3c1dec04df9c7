// Package mojang is a client for the Minecraft account services and Realms APIs.
//
// A Client carries one session credential for its whole lifetime and attaches it to
// every request: as a bearer token on the account services, or as the realms session
// cookie on a RealmsClient. Session credentials come from the token exchange in the
// auth package or from the caller. Clients are immutable and safe for concurrent use.
package mojang

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aabss/mojang-go/auth"
)

const (
	defaultConnectTO = 10 * time.Second
	defaultRequestTO = 30 * time.Second

	maxResponseBodySize = 4 << 20
	maxErrorBodySize    = 64 << 10
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues requests against the Minecraft services API.
type Client struct {
	httpClient Doer
	auth       authStrategy
	endpoints  Endpoints
	logger     *zap.Logger
	telemetry  TelemetryHooks
	userAgent  string
	limiter    *rate.Limiter

	// Grouped service clients.
	Account  *AccountClient
	Profiles *ProfilesClient
}

// NewClient builds a bearer-authenticated client from a raw access token. A leading
// "Bearer " is stripped.
func NewClient(accessToken string, opts ...Option) (*Client, error) {
	cred, err := auth.NewSessionCredential(accessToken)
	if err != nil {
		return nil, ConfigError{Reason: "access token required"}
	}
	return NewClientFromCredential(cred, opts...)
}

// NewClientFromCredential builds a bearer-authenticated client from the result of
// auth.Exchanger.Exchange.
func NewClientFromCredential(cred auth.SessionCredential, opts ...Option) (*Client, error) {
	if cred.IsZero() {
		return nil, ConfigError{Reason: "session credential required"}
	}
	return newClient(bearerAuth{token: cred.AccessToken}, buildOptions(opts))
}

// NewPublicClient builds a client without a credential. Only the public lookups on
// Profiles work; Account calls return ErrNotAuthenticated.
func NewPublicClient(opts ...Option) (*Client, error) {
	return newClient(nil, buildOptions(opts))
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func newClient(strategy authStrategy, o options) (*Client, error) {
	endpoints := o.endpoints
	for _, base := range []*string{&endpoints.Services, &endpoints.Mojang, &endpoints.SessionServer} {
		normalized, err := normalizeBaseURL(*base)
		if err != nil {
			return nil, err
		}
		*base = normalized
	}
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = newHTTPClient(defaultConnectTO, defaultRequestTO)
	}
	logger := o.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ua := o.userAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	client := &Client{
		httpClient: httpClient,
		auth:       strategy,
		endpoints:  endpoints,
		logger:     logger.Named("mojang"),
		telemetry:  o.telemetry,
		userAgent:  ua,
		limiter:    o.limiter,
	}
	client.Account = &AccountClient{client: client}
	client.Profiles = &ProfilesClient{client: client}
	return client, nil
}

func newHTTPClient(connectTimeout, requestTimeout time.Duration) *http.Client {
	// http.DefaultTransport may have been replaced, for example by instrumentation.
	var transport *http.Transport
	if base, ok := http.DefaultTransport.(*http.Transport); ok {
		transport = base.Clone()
	} else {
		transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			ExpectContinueTimeout: time.Second,
		}
	}
	transport.DialContext = (&net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = connectTimeout
	return &http.Client{Transport: transport, Timeout: requestTimeout}
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ConfigError{Reason: "base URL required"}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", ConfigError{Reason: fmt.Sprintf("invalid base URL: %v", err)}
	}
	if u.Scheme == "" {
		return "", ConfigError{Reason: "base URL missing scheme (http/https)"}
	}
	if u.Host == "" {
		return "", ConfigError{Reason: "base URL missing host"}
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

// Authenticated reports whether the client carries a session credential.
func (c *Client) Authenticated() bool {
	return c != nil && c.auth != nil
}

func joinURL(base, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (c *Client) newJSONRequest(ctx context.Context, method, endpoint string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	injectTraceparent(ctx, req)
	return req, nil
}

// send dispatches req. Authenticated requests carry the client's credential; public
// ones carry none. Non-2xx responses are closed and returned as errors.
func (c *Client) send(req *http.Request, authenticated bool) (*http.Response, error) {
	if authenticated && c.auth == nil {
		return nil, ErrNotAuthenticated
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if authenticated {
		c.auth.Apply(req)
	}
	ctx := req.Context()
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, auth.NewTransportError("rate limiter", err)
		}
	}
	if c.telemetry.OnHTTPRequest != nil {
		c.telemetry.OnHTTPRequest(ctx, req)
	}
	c.logger.Debug("http request",
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Bool("authenticated", authenticated),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if c.telemetry.OnHTTPResponse != nil {
		c.telemetry.OnHTTPResponse(ctx, req, resp, err, latency)
	}
	// Paths carry player, realm and invite ids, so they stay out of metric labels.
	c.telemetry.metric(ctx, "mojang_http_request_latency_ms", float64(latency.Milliseconds()), map[string]string{
		"method": req.Method,
		"host":   req.URL.Host,
	})
	if err != nil {
		c.logger.Debug("http transport failure", zap.String("path", req.URL.Path), zap.Error(err))
		return nil, auth.NewTransportError(req.Method+" "+req.URL.Path, err)
	}
	c.logger.Debug("http response",
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", latency),
	)
	if resp.StatusCode >= 400 {
		//nolint:errcheck // best-effort cleanup on return
		defer func() { _ = resp.Body.Close() }()
		apiErr := decodeAPIError(resp)
		if authenticated && resp.StatusCode == http.StatusUnauthorized {
			return nil, &StaleCredentialError{Surface: c.auth.surface(), Status: resp.StatusCode, Cause: apiErr}
		}
		return nil, apiErr
	}
	return resp, nil
}

// call sends a request and decodes a JSON response into out when out is non-nil.
func (c *Client) call(ctx context.Context, method, endpoint string, payload any, authenticated bool, out any) error {
	req, err := c.newJSONRequest(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	resp, err := c.send(req, authenticated)
	if err != nil {
		return err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize)).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("mojang: decode %s: empty response body", req.URL.Path)
		}
		return fmt.Errorf("mojang: decode %s: %w", req.URL.Path, err)
	}
	return nil
}

// callText sends a request and returns the trimmed response body.
func (c *Client) callText(ctx context.Context, method, endpoint string, authenticated bool) (string, int, error) {
	req, err := c.newJSONRequest(ctx, method, endpoint, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.send(req, authenticated)
	if err != nil {
		return "", 0, err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return "", resp.StatusCode, auth.NewTransportError("read response", err)
	}
	return strings.TrimSpace(string(data)), resp.StatusCode, nil
}
