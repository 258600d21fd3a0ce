package guardhttp

import "fmt"

// ErrorType represents the category of error that occurred.
type ErrorType int

const (
	ErrTypeInvalidArgument ErrorType = iota
	ErrTypeAuthentication
	ErrTypeTimeout
	ErrTypeTransport
	ErrTypeUnexpectedStatus
	ErrTypeDecode
	ErrTypeUnknown
)

// String returns a human-readable description of the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeInvalidArgument:
		return "invalid argument"
	case ErrTypeAuthentication:
		return "authentication error"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeTransport:
		return "transport error"
	case ErrTypeUnexpectedStatus:
		return "unexpected status"
	case ErrTypeDecode:
		return "decode error"
	default:
		return "unknown error"
	}
}

// Error represents a detection client error with additional context.
//
// Only invalid-argument errors ever escape the client's Detect method;
// every other type is folded into a fail-open response. The remaining
// types exist so loggers and metrics can classify what was folded.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status: %d)", e.Type.String(), e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
}

// Is implements error equality checking for errors.Is.
// Two Errors match when their types match, so callers can test against
// the exported sentinels without caring about the message text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidArgument = &Error{Type: ErrTypeInvalidArgument}
	ErrTimeout         = &Error{Type: ErrTypeTimeout}
)

// NewInvalidArgumentError creates a new invalid argument error.
func NewInvalidArgumentError(message string) *Error {
	return &Error{
		Type:    ErrTypeInvalidArgument,
		Message: message,
	}
}

// NewAuthenticationError creates a new authentication error.
func NewAuthenticationError(message string, statusCode int) *Error {
	return &Error{
		Type:       ErrTypeAuthentication,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(message string) *Error {
	return &Error{
		Type:    ErrTypeTimeout,
		Message: message,
	}
}

// NewTransportError creates a new transport error.
func NewTransportError(message string) *Error {
	return &Error{
		Type:    ErrTypeTransport,
		Message: message,
	}
}

// NewUnexpectedStatusError creates a new unexpected status error.
func NewUnexpectedStatusError(message string, statusCode int) *Error {
	return &Error{
		Type:       ErrTypeUnexpectedStatus,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewDecodeError creates a new decode error.
func NewDecodeError(message string) *Error {
	return &Error{
		Type:    ErrTypeDecode,
		Message: message,
	}
}
