package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// ErrorKind classifies a provider-level failure.
type ErrorKind string

const (
	// ErrInvalidRequest is synthetic: the caller supplied no identifying
	// field, so no provider was invoked. Orchestrator-level only.
	ErrInvalidRequest ErrorKind = "invalid_request"

	ErrAuth        ErrorKind = "auth_error"
	ErrRateLimited ErrorKind = "rate_limited"
	ErrTimeout     ErrorKind = "timeout"
	ErrUpstream    ErrorKind = "upstream_error"
	ErrUnsupported ErrorKind = "unsupported_request"
)

// Error is an expected per-provider failure. It is a result value, not
// an exception: one adapter failing never aborts the overall enrichment.
type Error struct {
	Provider string
	Kind     ErrorKind
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

// Unsupported builds an unsupported_request error; adapters return it
// before making any network call when the ref lacks a required field.
func Unsupported(providerName, msg string) *Error {
	return &Error{Provider: providerName, Kind: ErrUnsupported, Message: msg}
}

// statusError is implemented by the vendor clients' APIError types.
type statusError interface {
	HTTPStatus() int
}

// Classify maps a vendor client error onto the provider failure
// taxonomy: 401/403 to auth, 429 to rate limited, deadline/network
// timeouts to timeout, everything else to upstream. Cancellation also
// counts as a timeout, since the fan-out cancels in-flight calls when
// its ceiling fires.
func Classify(providerName string, err error) *Error {
	if err == nil {
		return nil
	}

	var se statusError
	if errors.As(err, &se) {
		switch code := se.HTTPStatus(); {
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return &Error{Provider: providerName, Kind: ErrAuth, Message: err.Error()}
		case code == http.StatusTooManyRequests:
			return &Error{Provider: providerName, Kind: ErrRateLimited, Message: err.Error()}
		case code == http.StatusRequestTimeout:
			return &Error{Provider: providerName, Kind: ErrTimeout, Message: err.Error()}
		default:
			return &Error{Provider: providerName, Kind: ErrUpstream, Message: err.Error()}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Provider: providerName, Kind: ErrTimeout, Message: err.Error()}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Provider: providerName, Kind: ErrTimeout, Message: err.Error()}
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return &Error{Provider: providerName, Kind: ErrUpstream, Message: err.Error()}
	}

	return &Error{Provider: providerName, Kind: ErrUpstream, Message: err.Error()}
}
