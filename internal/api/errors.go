package api

import (
	"errors"
	"fmt"
)

// Kind classifies every error that crosses the remote boundary. Nothing
// escapes this package as a raw transport error.
type Kind int

const (
	// KindUnauthenticated: operation attempted with no active session;
	// rejected before any network call.
	KindUnauthenticated Kind = iota
	// KindUnauthorized: the server rejected the credential (401). The
	// session is dead and must be force-invalidated.
	KindUnauthorized
	// KindValidation: the server rejected the request (4xx other than 401).
	KindValidation
	// KindNotFound: a local lookup failed; no network call was issued.
	KindNotFound
	// KindNetwork: transport-level failure or server unavailable (5xx).
	// Not retried automatically.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error is the taxonomy error surfaced to callers.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.cause }

// NewError builds a taxonomy error with a caller-facing message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the taxonomy kind from err, or (0, false) if err is not
// a taxonomy error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsUnauthorized reports whether err is a remote 401.
func IsUnauthorized(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindUnauthorized
}
