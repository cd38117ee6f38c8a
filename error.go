package docsnap

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT    = "conflict"
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	EUNAVAILABLE = "unavailable"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("docsnap error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrEmptySnapshot is returned when a source's crawl finished without
// capturing a single page. Promoting it would replace a good production
// snapshot with nothing.
var ErrEmptySnapshot = errors.New("no pages captured")

// FetchErrorKind classifies a fetch failure for the retry policy.
type FetchErrorKind int

const (
	// Permanent failures are not retried: bad status, malformed response,
	// refused connections and anything unrecognised.
	Permanent FetchErrorKind = iota
	// Transient failures are retried: connection resets, hang ups,
	// timeouts and DNS resolution failures.
	Transient
)

// String returns the kind's name.
func (k FetchErrorKind) String() string {
	if k == Transient {
		return "transient"
	}
	return "permanent"
}

// FetchError describes a failed page fetch.
type FetchError struct {
	URL        string
	Kind       FetchErrorKind
	StatusCode int // zero unless the server answered
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a FetchError worth retrying.
func IsTransient(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind == Transient
	}
	return false
}
