package core

import (
	"errors"
	"fmt"
)

// ErrorKind is the failure category of a request.
type ErrorKind int

// Error kinds. The set is closed; every failure returned by the client carries one of them.
const (
	// KindEncoding indicates a parameter could not be rendered into the query string.
	KindEncoding ErrorKind = iota
	// KindTransport indicates a connection, write, read or timeout failure.
	KindTransport
	// KindDeserialization indicates a response body did not match the expected shape.
	KindDeserialization
	// KindUnauthorized indicates a 401 response.
	KindUnauthorized
	// KindInternalServerError indicates a 500 response.
	KindInternalServerError
	// KindServiceUnavailable indicates a 503 response.
	KindServiceUnavailable
	// KindUnexpectedStatus indicates a status code outside the handled set.
	KindUnexpectedStatus
	// KindInvalidPrice indicates the exchange rejected the order price.
	KindInvalidPrice
	// KindInvalidListenKey indicates the listen key does not exist or expired.
	KindInvalidListenKey
	// KindBusiness indicates any other structured {code, msg} rejection.
	KindBusiness
	// KindMissingCredentials indicates an authenticated call on a client without credentials.
	KindMissingCredentials
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

var kindNames = [...]string{
	"ENCODING",
	"TRANSPORT",
	"DESERIALIZATION",
	"UNAUTHORIZED",
	"INTERNAL_SERVER_ERROR",
	"SERVICE_UNAVAILABLE",
	"UNEXPECTED_STATUS",
	"INVALID_PRICE",
	"INVALID_LISTEN_KEY",
	"BUSINESS",
	"MISSING_CREDENTIALS",
}

// Sentinel errors for common error conditions.
var (
	// ErrNoCredentials is returned when an authenticated call is made without API credentials.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrNonFinite is returned when a float or decimal parameter is NaN or infinite.
	ErrNonFinite = errors.New("non-finite number")
)

// ContentError is the structured error body the exchange returns with a 400 status.
type ContentError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Error is a classified request failure.
type Error struct {
	// Kind categorizes the failure for programmatic handling.
	Kind ErrorKind `json:"kind"`
	// StatusCode is the HTTP status, zero for local failures.
	StatusCode int `json:"status_code,omitempty"`
	// Code is the exchange error code from a ContentError body.
	Code int `json:"code,omitempty"`
	// Message is the exchange message or a local description.
	Message string `json:"message,omitempty"`
	// Err is the underlying cause, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Code != 0:
		return fmt.Sprintf("%s (%d/%d): %s", e.Kind, e.StatusCode, e.Code, e.Message)
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s (%d): %v", e.Kind, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s (%d)", e.Kind, e.StatusCode)
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// ContentError returns the structured body this error was built from.
func (e *Error) ContentError() ContentError {
	return ContentError{Code: e.Code, Msg: e.Message}
}

// NewError creates an Error of the given kind wrapping err.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// NewStatusError creates an Error for a response status.
func NewStatusError(kind ErrorKind, statusCode int) *Error {
	return &Error{Kind: kind, StatusCode: statusCode}
}

// KindOf returns the kind of err and whether err is a classified *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a classified error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsRetryable returns true if resubmitting the call, with a fresh timestamp and signature,
// may succeed.
func IsRetryable(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	return k == KindTransport || k == KindInternalServerError || k == KindServiceUnavailable
}

// IsTerminal returns true if the same call will keep failing until the caller changes it.
func IsTerminal(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	switch k {
	case KindEncoding, KindDeserialization, KindUnauthorized, KindMissingCredentials,
		KindInvalidPrice, KindInvalidListenKey, KindBusiness:
		return true
	}
	return false
}

// IsBusinessError returns true for any 400-class structured rejection, matched or not.
func IsBusinessError(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	return k == KindInvalidPrice || k == KindInvalidListenKey || k == KindBusiness
}
