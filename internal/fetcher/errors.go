package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeNetwork indicates a network-level error (connection refused, DNS, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeRateLimit indicates the request was rejected due to rate limiting (HTTP 429)
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeServer indicates a server error (HTTP 5xx)
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient indicates a client error (HTTP 4xx except 429)
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeValidation indicates the response was received but its shape was not usable
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeParse indicates the response body could not be decoded
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeTimeout indicates the request timed out
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeUnknown indicates an error of unknown type
	ErrorTypeUnknown ErrorType = "unknown"
)

// FetchError describes why a source could not provide data for a row.
type FetchError struct {
	Source     string
	Type       ErrorType
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	prefix := string(e.Type)
	if e.Source != "" {
		prefix = e.Source + " " + prefix
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", prefix, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", prefix, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a network error
func NewNetworkError(source string, cause error) *FetchError {
	return &FetchError{
		Source:  source,
		Type:    ErrorTypeNetwork,
		Message: "network request failed",
		Cause:   cause,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(source string, cause error) *FetchError {
	return &FetchError{
		Source:  source,
		Type:    ErrorTypeTimeout,
		Message: "request timed out",
		Cause:   cause,
	}
}

// NewValidationError creates a validation error
func NewValidationError(source, message string) *FetchError {
	return &FetchError{
		Source:  source,
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewParseError creates a parse error
func NewParseError(source string, cause error) *FetchError {
	return &FetchError{
		Source:  source,
		Type:    ErrorTypeParse,
		Message: "failed to decode response",
		Cause:   cause,
	}
}

// ClassifyHTTPError classifies a non-success HTTP status code into a FetchError
func ClassifyHTTPError(source string, statusCode int) *FetchError {
	e := &FetchError{
		Source:     source,
		StatusCode: statusCode,
	}

	switch {
	case statusCode == http.StatusTooManyRequests:
		e.Type = ErrorTypeRateLimit
		e.Message = "rate limit exceeded"
	case statusCode >= 500:
		e.Type = ErrorTypeServer
		e.Message = "server returned an error"
	case statusCode >= 400:
		e.Type = ErrorTypeClient
		e.Message = fmt.Sprintf("client error: HTTP %d", statusCode)
	default:
		e.Type = ErrorTypeUnknown
		e.Message = fmt.Sprintf("unexpected status code: %d", statusCode)
	}
	return e
}

// ClassifyTransportError wraps an error returned before any HTTP status was
// received, separating timeouts from other network failures.
func ClassifyTransportError(source string, err error) *FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError(source, err)
	}
	return NewNetworkError(source, err)
}
