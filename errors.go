package mojang

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrNotAuthenticated is returned when an authenticated operation is called on a
	// public client.
	ErrNotAuthenticated = errors.New("mojang: client has no session credential")

	// ErrProfileNotFound is returned when a player name or UUID does not exist.
	ErrProfileNotFound = errors.New("mojang: profile not found")
)

// ConfigError reports an invalid client configuration.
type ConfigError struct {
	Reason string
}

func (e ConfigError) Error() string { return "mojang: config: " + e.Reason }

// APIError captures a non-success response from the Minecraft services or Realms APIs.
type APIError struct {
	Status           int
	Code             string
	Message          string
	DeveloperMessage string
	Path             string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	code := e.Code
	if code == "" {
		code = "UNKNOWN"
	}
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("%s (%d)", code, e.Status)
	}
	return fmt.Sprintf("mojang: %s: %s", code, msg)
}

// StaleCredentialError means the service rejected the client's session credential,
// usually because it expired or was revoked after the exchange. The client never
// recovers from it; run the exchange again with a fresh delegated credential and build
// a new client.
type StaleCredentialError struct {
	Surface Surface
	Status  int
	Cause   *APIError
}

func (e *StaleCredentialError) Error() string {
	return fmt.Sprintf("mojang: %s session credential rejected (status %d): %v", e.Surface, e.Status, e.Cause)
}

func (e *StaleCredentialError) Unwrap() error { return e.Cause }

// IsStaleCredential reports whether err means the session credential must be replaced.
func IsStaleCredential(err error) bool {
	var stale *StaleCredentialError
	return errors.As(err, &stale)
}

// IsNotFound reports whether err is a 404 from the API or ErrProfileNotFound.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrProfileNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func decodeAPIError(resp *http.Response) *APIError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	apiErr := &APIError{Status: resp.StatusCode}
	if resp.Request != nil && resp.Request.URL != nil {
		apiErr.Path = resp.Request.URL.Path
	}
	if len(data) == 0 {
		apiErr.Message = resp.Status
		return apiErr
	}
	// Minecraft services answer with error/errorMessage, Realms with errorCode/errorMsg.
	var payload struct {
		Path             string          `json:"path"`
		Error            string          `json:"error"`
		ErrorType        string          `json:"errorType"`
		ErrorMessage     string          `json:"errorMessage"`
		DeveloperMessage string          `json:"developerMessage"`
		ErrorCode        json.RawMessage `json:"errorCode"`
		ErrorMsg         string          `json:"errorMsg"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}
	apiErr.Code = firstNonEmpty(payload.ErrorType, payload.Error, strings.Trim(string(payload.ErrorCode), `"`))
	apiErr.Message = firstNonEmpty(payload.ErrorMessage, payload.ErrorMsg)
	apiErr.DeveloperMessage = payload.DeveloperMessage
	if payload.Path != "" {
		apiErr.Path = payload.Path
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
