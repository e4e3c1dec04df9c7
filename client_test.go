package mojang

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"

	"github.com/aabss/mojang-go/auth"
	"github.com/aabss/mojang-go/headers"
	"github.com/aabss/mojang-go/routes"
	"github.com/aabss/mojang-go/testutil"
)

const testEndpoint = "https://services.test"

func testEndpoints() Endpoints {
	return Endpoints{
		Services:      testEndpoint,
		Mojang:        "https://mojang.test",
		SessionServer: "https://session.test",
	}
}

func newTestClient(t *testing.T, token string, transport *testutil.Transport, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithHTTPClient(transport), WithEndpoints(testEndpoints())}, opts...)
	client, err := NewClient(token, opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresToken(t *testing.T) {
	t.Parallel()

	_, err := NewClient("   ")
	var cfgErr ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = NewClientFromCredential(auth.SessionCredential{})
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewClient_StripsBearerPrefix(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport(testutil.JSON(http.StatusOK, PlayerProfile{ID: "abc", Name: "Alice"}))
	client := newTestClient(t, "Bearer T3", transport)

	_, err := client.Account.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer T3", transport.Requests()[0].Header.Get(headers.Authorization))
}

func TestClient_SameAuthorizationOnEveryCall(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransportFunc(func(r testutil.Request) testutil.Response {
		switch r.Path {
		case routes.Profile:
			return testutil.JSON(http.StatusOK, PlayerProfile{ID: "abc", Name: "Alice"})
		case routes.PlayerAttributes:
			return testutil.JSON(http.StatusOK, Attributes{})
		case routes.PrivacyBlocklist:
			return testutil.JSON(http.StatusOK, map[string]any{"blockedProfiles": []string{}})
		}
		return testutil.Response{Status: http.StatusNotFound}
	})
	client := newTestClient(t, "T3", transport)
	ctx := context.Background()

	_, err := client.Account.Profile(ctx)
	require.NoError(t, err)
	_, err = client.Account.Attributes(ctx)
	require.NoError(t, err)
	_, err = client.Account.Blocklist(ctx)
	require.NoError(t, err)

	reqs := transport.Requests()
	require.Len(t, reqs, 3)
	for _, r := range reqs {
		assert.Equal(t, "Bearer T3", r.Header.Get(headers.Authorization))
		assert.Empty(t, r.Header.Get(headers.Cookie))
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
	}
}

func TestClient_ConcurrentClientsDoNotShareCredentials(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransportFunc(func(r testutil.Request) testutil.Response {
		return testutil.JSON(http.StatusOK, PlayerProfile{ID: r.Header.Get(headers.Authorization)})
	})
	const clients = 8
	var wg sync.WaitGroup
	errs := make(chan error, clients*10)
	for i := range clients {
		token := fmt.Sprintf("token-%d", i)
		client := newTestClient(t, token, transport)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				p, err := client.Account.Profile(context.Background())
				if err != nil {
					errs <- err
					return
				}
				if p.ID != "Bearer "+token {
					errs <- fmt.Errorf("client %s saw %s", token, p.ID)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, clients*10, transport.Calls())
}

func TestClient_UnauthorizedIsStaleCredential(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport(testutil.JSON(http.StatusUnauthorized, map[string]string{
		"path":         routes.Profile,
		"errorType":    "UNAUTHORIZED",
		"errorMessage": "token expired",
	}))
	client := newTestClient(t, "T3", transport)

	_, err := client.Account.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, IsStaleCredential(err))

	var stale *StaleCredentialError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, SurfaceAccount, stale.Surface)
	assert.Equal(t, http.StatusUnauthorized, stale.Status)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "token expired", apiErr.Message)
	assert.NotContains(t, err.Error(), "T3")
}

func TestClient_ForbiddenIsAPIError(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport(testutil.Response{Status: http.StatusForbidden, Body: "nope"})
	client := newTestClient(t, "T3", transport)

	_, err := client.Account.Profile(context.Background())
	require.Error(t, err)
	assert.False(t, IsStaleCredential(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "nope", apiErr.Message)
}

func TestClient_TransportFailure(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport(testutil.Response{Err: errors.New("connection reset")})
	client := newTestClient(t, "T3", transport)

	_, err := client.Account.Profile(context.Background())
	var transportErr *auth.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, auth.TransportErrorOther, transportErr.Kind)
}

func TestPublicClient_AccountCallsNotAuthenticated(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport()
	client, err := NewPublicClient(WithHTTPClient(transport), WithEndpoints(testEndpoints()))
	require.NoError(t, err)
	assert.False(t, client.Authenticated())

	_, err = client.Account.Profile(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, transport.Calls())
}

func TestClient_TelemetryHooks(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport(testutil.JSON(http.StatusOK, PlayerProfile{ID: "abc"}))
	var (
		mu       sync.Mutex
		seenAuth string
		status   int
		metrics  []Metric
	)
	hooks := TelemetryHooks{
		OnHTTPRequest: func(_ context.Context, req *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			seenAuth = req.Header.Get(headers.Authorization)
		},
		OnHTTPResponse: func(_ context.Context, _ *http.Request, resp *http.Response, err error, _ time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				status = resp.StatusCode
			}
		},
		OnMetric: func(_ context.Context, m Metric) {
			mu.Lock()
			defer mu.Unlock()
			metrics = append(metrics, m)
		},
	}
	client := newTestClient(t, "T3", transport, WithTelemetry(hooks))

	_, err := client.Account.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer T3", seenAuth)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, metrics, 1)
	assert.Equal(t, "mojang_http_request_latency_ms", metrics[0].Name)
	assert.Equal(t, map[string]string{"method": http.MethodGet, "host": "services.test"}, metrics[0].Labels)
}

func TestClient_LogsNeverContainCredential(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	transport := testutil.NewTransport(testutil.JSON(http.StatusOK, PlayerProfile{ID: "abc"}))
	client := newTestClient(t, "secret-token", transport, WithLogger(zap.New(core)))

	_, err := client.Account.Profile(context.Background())
	require.NoError(t, err)
	require.NotZero(t, logs.Len())
	for _, entry := range logs.All() {
		assert.NotContains(t, entry.Message, "secret-token")
		for _, v := range entry.ContextMap() {
			assert.NotContains(t, fmt.Sprint(v), "secret-token")
		}
	}
}

func TestClient_RateLimiterCanceled(t *testing.T) {
	t.Parallel()

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	transport := testutil.NewTransportFunc(func(testutil.Request) testutil.Response {
		return testutil.JSON(http.StatusOK, PlayerProfile{ID: "abc"})
	})
	client := newTestClient(t, "T3", transport, WithRateLimiter(limiter))

	_, err := client.Account.Profile(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Account.Profile(ctx)
	var transportErr *auth.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 1, transport.Calls())
}

func TestNormalizeBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "trailing slash", raw: "https://api.test/", want: "https://api.test"},
		{name: "path kept", raw: "https://api.test/v1/", want: "https://api.test/v1"},
		{name: "empty", raw: " ", wantErr: true},
		{name: "no scheme", raw: "api.test", wantErr: true},
		{name: "no host", raw: "https://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				var cfgErr ConfigError
				require.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithEndpoints_KeepsDefaultsForEmptyFields(t *testing.T) {
	t.Parallel()

	client, err := NewPublicClient(WithEndpoints(Endpoints{Services: "https://services.test/"}))
	require.NoError(t, err)
	assert.Equal(t, "https://services.test", client.endpoints.Services)
	assert.Equal(t, routes.MojangAPI, client.endpoints.Mojang)
	assert.Equal(t, routes.SessionServer, client.endpoints.SessionServer)
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// Swaps the process-wide default transport, so it must not run in parallel.
func TestNewClient_ReplacedDefaultTransport(t *testing.T) {
	original := http.DefaultTransport
	http.DefaultTransport = roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("not used")
	})
	t.Cleanup(func() { http.DefaultTransport = original })

	require.NotPanics(t, func() {
		client, err := NewClient("T3")
		require.NoError(t, err)
		httpClient, ok := client.httpClient.(*http.Client)
		require.True(t, ok)
		transport, ok := httpClient.Transport.(*http.Transport)
		require.True(t, ok)
		assert.NotNil(t, transport.DialContext)
		assert.Equal(t, defaultConnectTO, transport.TLSHandshakeTimeout)
		assert.Equal(t, defaultRequestTO, httpClient.Timeout)
	})
	require.NotPanics(t, func() {
		_, err := NewPublicClient()
		require.NoError(t, err)
	})
}
