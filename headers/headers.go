// Package headers defines the HTTP header names and fixed values used on requests to the
// Xbox Live, Minecraft services and Realms APIs.
package headers

const (
	// Authorization carries the session credential on the account-services surface.
	Authorization = "Authorization"

	// Cookie carries the realms session cookie on the realms surface.
	Cookie = "Cookie"

	// BearerPrefix precedes the session credential in the Authorization header.
	BearerPrefix = "Bearer "

	// XboxContractVersion is sent to the XSTS service; version 1 keeps the legacy response shape.
	XboxContractVersion = "x-xbl-contract-version"

	// Traceparent propagates W3C trace context to downstream calls.
	Traceparent = "Traceparent"

	// Tracestate carries vendor trace state alongside Traceparent.
	Tracestate = "Tracestate"
)
