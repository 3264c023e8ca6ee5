package auth

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of authentication / authorization failure
// classes. Handlers translate kinds into HTTP statuses; nothing outside this
// set crosses the package boundary.
type ErrorKind string

const (
	KindEmailTaken            ErrorKind = "EMAIL_TAKEN"
	KindInvalidCredentials    ErrorKind = "INVALID_CREDENTIALS"
	KindTokenExpired          ErrorKind = "TOKEN_EXPIRED"
	KindTokenInvalidSignature ErrorKind = "TOKEN_INVALID_SIGNATURE"
	KindForbidden             ErrorKind = "FORBIDDEN"
	KindRoleRequired          ErrorKind = "ROLE_REQUIRED"
	KindResetExpired          ErrorKind = "RESET_EXPIRED"
	KindResetMismatched       ErrorKind = "RESET_MISMATCHED"
	KindResetSamePassword     ErrorKind = "RESET_SAME_PASSWORD"
	KindInternal              ErrorKind = "INTERNAL"
)

// AuthError is a recoverable, structured failure. Kind drives dispatch,
// Message is safe to show to users, and Cause (internal faults only) keeps
// the original error for diagnostics without leaking it outward.
type AuthError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AuthError) Unwrap() error { return e.Cause }

// Fail builds a recoverable failure of the given kind.
func Fail(kind ErrorKind, message string) *AuthError {
	return &AuthError{Kind: kind, Message: message}
}

// Internal wraps an unexpected fault (store connectivity, hashing failure)
// with its cause attached. Callers log it and show a generic message.
func Internal(message string, cause error) *AuthError {
	return &AuthError{Kind: KindInternal, Message: message, Cause: cause}
}

// KindOf extracts the failure class from any error, returning KindInternal
// for errors that did not originate in this package.
func KindOf(err error) ErrorKind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given failure class.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
