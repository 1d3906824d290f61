package errors

import "fmt"

// ErrorType classifies failures from the remote APIs this service talks to.
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error is an API error carrying its classification and the HTTP status
// code that produced it (0 for transport-level failures).
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New builds a typed API error.
func New(t ErrorType, code int, format string, args ...interface{}) *Error {
	return &Error{
		Type:    t,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	}
}

// IsRetryable reports whether an error type is worth retrying.
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode reports whether an HTTP status code indicates a
// transient failure.
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // network error
		return true
	case 429:
		return true
	case 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}

// FromStatusCode maps an HTTP status code to a typed error.
func FromStatusCode(statusCode int, url string) *Error {
	switch {
	case statusCode == 401 || statusCode == 403:
		return New(ErrorTypeAuth, statusCode, "authentication failed for %s", url)
	case statusCode == 404:
		return New(ErrorTypeNotFound, statusCode, "resource not found: %s", url)
	case statusCode == 429:
		return New(ErrorTypeRateLimit, statusCode, "rate limit exceeded for %s", url)
	case statusCode >= 500:
		return New(ErrorTypeServerError, statusCode, "server error from %s", url)
	default:
		return New(ErrorTypeUnknown, statusCode, "unexpected status %d from %s", statusCode, url)
	}
}
