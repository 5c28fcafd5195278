package errors

import "net/http"

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches an underlying cause that is logged but never shown to clients.
func Wrap(code int, message string, err error) *HTTPError {
	return &HTTPError{Code: code, Message: message, Err: err}
}

// Client-facing messages.
const (
	MsgMethodNotAllowed  = "Method not allowed"
	MsgInvalidBody       = "Invalid request body"
	MsgMissingFields     = "Missing required fields. Please fill out all required fields."
	MsgInvalidEmail      = "Invalid email format"
	MsgInvalidSchedule   = "Invalid date, time or timezone"
	MsgNotConfigured     = "Calendar service is not configured. Please contact support."
	MsgCreateEventFailed = "Failed to create calendar event. Please try again or contact support."
	MsgInternal          = "Internal server error. Please try again later."
	MsgUnauthorized      = "Unauthorized"
	MsgTooManyRequests   = "Rate limit exceeded. Try again later."
	MsgNotFound          = "Not found"
)

// Helpers for common errors
var (
	ErrUnauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
	ErrBadRequest   = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
	ErrNotFound     = func(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, msg) }
)
