package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind represents the category of a provider-side failure
type ErrorKind string

const (
	// ErrorKindNetwork indicates a network-level error (connection refused, DNS, etc.)
	ErrorKindNetwork ErrorKind = "network"
	// ErrorKindTimeout indicates the request timed out or its context expired
	ErrorKindTimeout ErrorKind = "timeout"
	// ErrorKindRateLimit indicates the provider rejected the call due to rate limiting
	ErrorKindRateLimit ErrorKind = "rate_limit"
	// ErrorKindServer indicates a server error (HTTP 5xx)
	ErrorKindServer ErrorKind = "server"
	// ErrorKindClient indicates a client error (HTTP 4xx except 401, 403, 404 and 429)
	ErrorKindClient ErrorKind = "client"
	// ErrorKindAuth indicates missing or rejected credentials
	ErrorKindAuth ErrorKind = "auth"
	// ErrorKindNotFound indicates the provider does not know the symbol
	ErrorKindNotFound ErrorKind = "not_found"
	// ErrorKindNoData indicates the provider answered but returned nothing usable
	ErrorKindNoData ErrorKind = "no_data"
	// ErrorKindInvalidResponse indicates the response could not be decoded or normalized
	ErrorKindInvalidResponse ErrorKind = "invalid_response"
	// ErrorKindUnknown indicates an error of unknown type
	ErrorKindUnknown ErrorKind = "unknown"
)

// FetchError is returned when an upstream provider call fails.
type FetchError struct {
	Kind       ErrorKind
	Source     string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s error (status %d): %s", e.Source, e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Source, e.Kind, msg)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewFetchError creates a FetchError of the given kind
func NewFetchError(source string, kind ErrorKind, message string) *FetchError {
	return &FetchError{
		Kind:    kind,
		Source:  source,
		Message: message,
	}
}

// NewNetworkError creates a network error, or a timeout error when the
// cause is a deadline.
func NewNetworkError(source string, cause error) *FetchError {
	kind := ErrorKindNetwork
	if isTimeout(cause) {
		kind = ErrorKindTimeout
	}
	return &FetchError{
		Kind:    kind,
		Source:  source,
		Message: "request failed",
		Cause:   cause,
	}
}

// NewNoDataError reports an empty but otherwise successful provider answer
func NewNoDataError(source, message string) *FetchError {
	return NewFetchError(source, ErrorKindNoData, message)
}

// NewInvalidResponseError reports a response that could not be normalized
func NewInvalidResponseError(source, message string, cause error) *FetchError {
	return &FetchError{
		Kind:    ErrorKindInvalidResponse,
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}

// ClassifyHTTPError classifies an HTTP status code into an appropriate FetchError
func ClassifyHTTPError(source string, statusCode int) *FetchError {
	e := &FetchError{
		Source:     source,
		StatusCode: statusCode,
	}
	switch {
	case statusCode == http.StatusTooManyRequests:
		e.Kind, e.Message = ErrorKindRateLimit, "rate limit exceeded"
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Kind, e.Message = ErrorKindAuth, "credentials rejected"
	case statusCode == http.StatusNotFound:
		e.Kind, e.Message = ErrorKindNotFound, "resource not found"
	case statusCode >= 500:
		e.Kind, e.Message = ErrorKindServer, "server returned an error"
	case statusCode >= 400:
		e.Kind, e.Message = ErrorKindClient, fmt.Sprintf("client error: HTTP %d", statusCode)
	default:
		e.Kind, e.Message = ErrorKindUnknown, fmt.Sprintf("unexpected status code: %d", statusCode)
	}
	return e
}

// ValidationError reports malformed caller input. It is raised before any
// cache or network access and Error returns Message verbatim.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error for field with the offending value
func NewValidationError(field, value, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}

// CacheCorruptionError reports a cache file that exists but cannot be decoded.
type CacheCorruptionError struct {
	Path  string
	Cause error
}

// Error implements the error interface
func (e *CacheCorruptionError) Error() string {
	return fmt.Sprintf("corrupted cache file %s: %v", e.Path, e.Cause)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *CacheCorruptionError) Unwrap() error {
	return e.Cause
}

// IsValidationError reports whether err wraps a *ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsFetchError reports whether err wraps a *FetchError
func IsFetchError(err error) bool {
	var f *FetchError
	return errors.As(err, &f)
}

// IsCacheCorruption reports whether err wraps a *CacheCorruptionError
func IsCacheCorruption(err error) bool {
	var c *CacheCorruptionError
	return errors.As(err, &c)
}

// FetchErrorKind returns the kind of the wrapped *FetchError, or "" if there is none
func FetchErrorKind(err error) ErrorKind {
	var f *FetchError
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
