// Package testutil provides an in-memory HTTP transport for SDK tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

// ErrNoResponse is returned when a Transport runs out of queued responses.
var ErrNoResponse = errors.New("testutil: no response configured")

// Response is a canned reply. A non-nil Err simulates a transport failure.
type Response struct {
	Status int
	Body   string
	Header map[string]string
	Err    error
}

// JSON returns a Response carrying v encoded as JSON.
func JSON(status int, v any) Response {
	data, err := json.Marshal(v)
	if err != nil {
		panic("testutil: encode json response: " + err.Error())
	}
	return Response{
		Status: status,
		Body:   string(data),
		Header: map[string]string{"Content-Type": "application/json"},
	}
}

// Request is a recorded outgoing request.
type Request struct {
	Method string
	URL    string
	Path   string
	Header http.Header
	Body   string
}

// Transport records every request and answers from a queue or a handler. It
// satisfies both the SDK's Doer interface and http.RoundTripper, and is safe for
// concurrent use.
type Transport struct {
	mu       sync.Mutex
	queue    []Response
	handler  func(Request) Response
	requests []Request
}

// NewTransport answers requests with responses in order.
func NewTransport(responses ...Response) *Transport {
	return &Transport{queue: append([]Response(nil), responses...)}
}

// NewTransportFunc answers every request with fn.
func NewTransportFunc(fn func(Request) Response) *Transport {
	return &Transport{handler: fn}
}

// Do records req and returns the next response.
func (t *Transport) Do(req *http.Request) (*http.Response, error) {
	return t.RoundTrip(req)
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	recorded := Request{
		Method: req.Method,
		URL:    req.URL.String(),
		Path:   req.URL.Path,
		Header: req.Header.Clone(),
	}
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		_ = req.Body.Close()
		recorded.Body = string(data)
	}
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.requests = append(t.requests, recorded)
	var res Response
	switch {
	case t.handler != nil:
		t.mu.Unlock()
		res = t.handler(recorded)
	case len(t.queue) > 0:
		res = t.queue[0]
		t.queue = t.queue[1:]
		t.mu.Unlock()
	default:
		t.mu.Unlock()
		return nil, ErrNoResponse
	}

	if res.Err != nil {
		return nil, res.Err
	}
	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	header := make(http.Header, len(res.Header))
	for k, v := range res.Header {
		header.Set(k, v)
	}
	return &http.Response{
		StatusCode:    status,
		Status:        http.StatusText(status),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader([]byte(res.Body))),
		ContentLength: int64(len(res.Body)),
		Request:       req,
	}, nil
}

// Calls returns how many requests were sent.
func (t *Transport) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}

// Requests returns a copy of the recorded requests in send order.
func (t *Transport) Requests() []Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Request(nil), t.requests...)
}

// RequestsTo returns the recorded requests whose path starts with prefix.
func (t *Transport) RequestsTo(prefix string) []Request {
	var out []Request
	for _, r := range t.Requests() {
		if strings.HasPrefix(r.Path, prefix) {
			out = append(out, r)
		}
	}
	return out
}
