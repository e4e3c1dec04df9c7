package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Hop identifies one exchange of the token chain.
type Hop int

const (
	// HopXboxLive exchanges the delegated Microsoft credential for an Xbox Live user token.
	HopXboxLive Hop = iota + 1
	// HopXSTS exchanges the Xbox Live user token for an XSTS token.
	HopXSTS
	// HopMinecraft exchanges the XSTS identity for the Minecraft session credential.
	HopMinecraft
)

func (h Hop) String() string {
	switch h {
	case HopXboxLive:
		return "xbox live"
	case HopXSTS:
		return "xsts"
	case HopMinecraft:
		return "minecraft login"
	default:
		return fmt.Sprintf("hop(%d)", int(h))
	}
}

// Error reports which hop of the exchange failed. Err is a *TransportError,
// *MalformedResponseError or *RemoteRejectionError.
type Error struct {
	Hop Hop
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("mojang/auth: hop %d (%s): %v", int(e.Hop), e.Hop, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// TransportErrorKind classifies a failure to get any response at all.
type TransportErrorKind string

const (
	TransportErrorTimeout    TransportErrorKind = "timeout"
	TransportErrorConnection TransportErrorKind = "connection"
	TransportErrorCanceled   TransportErrorKind = "canceled"
	TransportErrorOther      TransportErrorKind = "other"
)

// TransportError means the request never produced a usable response.
type TransportError struct {
	Kind    TransportErrorKind
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if e.Cause == nil {
		return fmt.Sprintf("transport %s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("transport %s: %s: %v", e.Kind, msg, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// NewTransportError wraps err with its classified kind.
func NewTransportError(message string, err error) *TransportError {
	return &TransportError{
		Kind:    ClassifyTransportError(err),
		Message: message,
		Cause:   err,
	}
}

// ClassifyTransportError maps a client error onto a TransportErrorKind.
func ClassifyTransportError(err error) TransportErrorKind {
	if err == nil {
		return TransportErrorOther
	}
	if errors.Is(err, context.Canceled) {
		return TransportErrorCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TransportErrorTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TransportErrorTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return TransportErrorConnection
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return TransportErrorConnection
	}
	return TransportErrorOther
}

// MalformedResponseError means a response arrived but lacked the expected shape.
type MalformedResponseError struct {
	Field string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("malformed response: missing %s", e.Field)
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }

// RemoteRejectionError means the remote service answered with a non-success status.
// XErr is only set by the XSTS service.
type RemoteRejectionError struct {
	Status  int
	XErr    int64
	Message string
	Body    string
}

func (e *RemoteRejectionError) Error() string {
	reason := e.Message
	if reason == "" {
		reason = xstsReason(e.XErr)
	}
	if reason == "" {
		reason = strings.TrimSpace(e.Body)
	}
	if e.XErr != 0 {
		return fmt.Sprintf("rejected with status %d (XErr %d): %s", e.Status, e.XErr, reason)
	}
	return fmt.Sprintf("rejected with status %d: %s", e.Status, reason)
}

// XSTS error codes documented for the Xbox authorize endpoint.
const (
	XErrNoXboxAccount         int64 = 2148916233
	XErrCountryUnavailable    int64 = 2148916235
	XErrAdultVerification     int64 = 2148916236
	XErrAdultVerificationKR   int64 = 2148916237
	XErrChildAccount          int64 = 2148916238
	XErrAccountBanned         int64 = 2148916227
	XErrTermsOfUseNotAccepted int64 = 2148916229
)

func xstsReason(code int64) string {
	switch code {
	case XErrNoXboxAccount:
		return "the account has no Xbox profile"
	case XErrCountryUnavailable:
		return "Xbox Live is not available in the account's country"
	case XErrAdultVerification, XErrAdultVerificationKR:
		return "the account needs adult verification"
	case XErrChildAccount:
		return "child accounts must be added to a family by an adult"
	case XErrAccountBanned:
		return "the account is banned from Xbox"
	case XErrTermsOfUseNotAccepted:
		return "the account has not accepted the Xbox terms of use"
	default:
		return ""
	}
}
