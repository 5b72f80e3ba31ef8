// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Sentinel errors matched with errors.Is against any *Error of the same class.
var (
	ErrNotFound    = errors.New("location not found")
	ErrUnavailable = errors.New("geocoding service unavailable")
)

// ErrorType classifies geocoding failures.
type ErrorType int

const (
	// ErrorTypeUnknown is an unclassified failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNotFound means the service answered without a location.
	ErrorTypeNotFound
	// ErrorTypeUnavailable covers network errors, timeouts and 5xx answers.
	ErrorTypeUnavailable
	// ErrorTypeRateLimit means the service asked us to slow down.
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded means the quota is exhausted or access was denied.
	ErrorTypeQuotaExceeded
	// ErrorTypeInvalidRequest means the service rejected the query.
	ErrorTypeInvalidRequest
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeUnknown:        "unknown",
	ErrorTypeNotFound:       "not_found",
	ErrorTypeUnavailable:    "unavailable",
	ErrorTypeRateLimit:      "rate_limit",
	ErrorTypeQuotaExceeded:  "quota_exceeded",
	ErrorTypeInvalidRequest: "invalid_request",
}

func (t ErrorType) String() string {
	if s, ok := errorTypeNames[t]; ok {
		return s
	}

	return fmt.Sprintf("ErrorType(%d)", int(t))
}

// Error is a classified geocoding failure.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the ErrNotFound and ErrUnavailable sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Type == ErrorTypeNotFound
	case ErrUnavailable:
		return e.Type == ErrorTypeUnavailable
	}

	return false
}

// NotFound builds the error returned when a place has no match.
func NotFound(place string) *Error {
	return &Error{Type: ErrorTypeNotFound, Message: fmt.Sprintf("no results found for %q", place)}
}

// TypeOf returns the class of err, ErrorTypeUnknown when it isn't a geocoding error.
func TypeOf(err error) ErrorType {
	var geoErr *Error
	if errors.As(err, &geoErr) {
		return geoErr.Type
	}

	return ErrorTypeUnknown
}

// IsNotFound reports whether err means the place has no match.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable reports whether err means the service couldn't be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// ClassifyHTTPError turns a non 200 status code into a geocoding error.
func ClassifyHTTPError(statusCode int) *Error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return &Error{Type: ErrorTypeRateLimit, Message: "rate limit reached"}
	case statusCode == http.StatusForbidden:
		return &Error{Type: ErrorTypeQuotaExceeded, Message: "quota exceeded or access denied"}
	case statusCode == http.StatusBadRequest:
		return &Error{Type: ErrorTypeInvalidRequest, Message: "invalid request"}
	case statusCode == http.StatusNotFound:
		return &Error{Type: ErrorTypeNotFound, Message: "location not found"}
	case statusCode >= 500:
		return &Error{Type: ErrorTypeUnavailable, Message: fmt.Sprintf("service unavailable (status %d)", statusCode)}
	default:
		return &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("HTTP error %d", statusCode)}
	}
}

// classifyTransportError wraps an error returned by http.Client.Do. Context
// cancellation is returned untouched so callers can stop.
func classifyTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Type: ErrorTypeUnavailable, Message: "request timed out", Err: err}
	}

	return &Error{Type: ErrorTypeUnavailable, Message: "request failed", Err: err}
}
