package access

import (
	"errors"
	"fmt"
)

// Kind identifies a failure class in the closed error taxonomy.
//
// Every failure surfaced to a caller is one of these kinds; adding a new
// kind requires extending the display table below, which keeps the mapping
// exhaustive at compile time via displayMessage.
type Kind string

const (
	// KindUnauthenticated means no valid session was presented.
	KindUnauthenticated Kind = "unauthenticated"

	// KindForbidden means the session is valid but the caller lacks rights
	// or does not own the resource.
	KindForbidden Kind = "forbidden"

	// KindNotFound means the resource does not exist.
	KindNotFound Kind = "not_found"

	// KindConflict means a uniqueness constraint was violated.
	KindConflict Kind = "conflict"

	// KindValidationFailed means the input violates a stated constraint.
	KindValidationFailed Kind = "validation_failed"

	// KindInvalidRange means a time range has from after to.
	KindInvalidRange Kind = "invalid_range"

	// KindInvalidCredentials is the single, intentionally unspecific
	// failure for login: unknown email and wrong password are not
	// distinguished.
	KindInvalidCredentials Kind = "invalid_credentials"

	// KindInternal means an unexpected failure in the persistence engine
	// or hashing function. Underlying detail is logged, never returned.
	KindInternal Kind = "internal"
)

// displayMessages is the exhaustive default display text per kind.
var displayMessages = map[Kind]string{
	KindUnauthenticated:    "authentication required",
	KindForbidden:          "you don't have permission to access this resource",
	KindNotFound:           "resource not found",
	KindConflict:           "resource already exists",
	KindValidationFailed:   "invalid input",
	KindInvalidRange:       "invalid time range",
	KindInvalidCredentials: "invalid email or password",
	KindInternal:           "internal error",
}

// Error is a tagged error carrying a taxonomy kind, a user-displayable
// message, and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, &Error{Kind: k}) match on kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// NewError creates an Error with an explicit message.
// An empty message falls back to the kind's default display text.
func NewError(kind Kind, message string) *Error {
	if message == "" {
		message = displayMessages[kind]
	}
	return &Error{Kind: kind, Message: message}
}

// Unauthenticated returns the canonical no-session error.
func Unauthenticated() *Error {
	return NewError(KindUnauthenticated, "")
}

// Forbidden returns a forbidden error with the given display message.
func Forbidden(message string) *Error {
	return NewError(KindForbidden, message)
}

// NotFound returns a not-found error for the named resource.
func NotFound(resource string) *Error {
	return NewError(KindNotFound, resource+" not found")
}

// Conflict returns a conflict error with the given display message.
func Conflict(message string) *Error {
	return NewError(KindConflict, message)
}

// Validation returns a validation error with the given display message.
func Validation(message string) *Error {
	return NewError(KindValidationFailed, message)
}

// InvalidRange returns an invalid-range error for a time window whose
// start falls after its end.
func InvalidRange(message string) *Error {
	return NewError(KindInvalidRange, message)
}

// InvalidCredentials returns the single generic login failure.
// The message never varies between unknown-email and wrong-password.
func InvalidCredentials() *Error {
	return NewError(KindInvalidCredentials, "")
}

// Internal wraps an unexpected failure. The cause is retained for logging
// via Unwrap but the display message stays generic.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: displayMessages[KindInternal], Err: err}
}

// KindOf extracts the taxonomy kind from an error chain.
// Errors that are not *Error report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// DisplayMessage returns the user-displayable text for an error.
// Non-taxonomy errors display the generic internal message.
func DisplayMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return displayMessages[KindInternal]
}
