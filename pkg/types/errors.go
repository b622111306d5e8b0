package types

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a structured error response from the AGHIMS
// backend. Detail carries the server-supplied message when the body
// could be parsed; Cause carries the transport error when there was no
// response at all.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
	Method     string `json:"method,omitempty"`
	Path       string `json:"path,omitempty"`
	Cause      error  `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %s (caused by: %v)", e.Method, e.Path, e.Detail, e.Cause)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Detail)
}

// Unwrap returns the underlying cause error
func (e *APIError) Unwrap() error {
	return e.Cause
}

// IsTransport reports whether the error had no HTTP response at all
// (network failure, timeout).
func (e *APIError) IsTransport() bool {
	return e.StatusCode == 0
}

// Message returns the server detail, or the given fallback when the
// server supplied none.
func (e *APIError) Message(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// StatusOf extracts the HTTP status code from an error chain, returning
// 0 for transport errors and non-API errors.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether the error chain carries a 401 response
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsNotFound reports whether the error chain carries a 404 response
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// DetailOf returns the server-supplied detail from an error chain, or
// the fallback for transport and non-API errors.
func DetailOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message(fallback)
	}
	return fallback
}
