package mojang

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/aabss/mojang-go/headers"
)

// injectTraceparent forwards the caller's span, if any, so realms and services calls
// join the caller's trace.
func injectTraceparent(ctx context.Context, req *http.Request) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return
	}
	req.Header.Set(headers.Traceparent, traceparent(sc))
	if state := sc.TraceState().String(); state != "" {
		req.Header.Set(headers.Tracestate, state)
	}
}

// traceparent renders a W3C version 00 header, keeping the sampled flag.
func traceparent(sc trace.SpanContext) string {
	return "00-" + sc.TraceID().String() + "-" + sc.SpanID().String() + "-" + sc.TraceFlags().String()
}
