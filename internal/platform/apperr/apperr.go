// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

/*
Package apperr defines the centralized error handling framework for Brandgate.

It provides a rich error type that bridges the gap between low-level domain
errors (validation, brand resolution, backend transport) and high-level HTTP
responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Forwarding: Brand-backend errors keep their upstream status and message verbatim.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the Brandgate API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., upstream URLs).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "INVALID_EMAIL_DOMAIN").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Brand") // Returns "Brand not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// InvalidEmailDomain creates a 400 [AppError] for an email whose domain is not
// claimed by any registered brand.
//
// It is deliberately distinct from VALIDATION_ERROR so that callers can render
// the specific "use your company email" guidance instead of a generic schema
// failure. Sign-up must never fall back to a default brand on this error, as
// that would mis-tenant the account.
func InvalidEmailDomain() *AppError {
	return &AppError{
		Code:       "INVALID_EMAIL_DOMAIN",
		Message:    "This email domain is not registered with any brand. Please use your company email address.",
		HTTPStatus: http.StatusBadRequest,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// UnknownBrand creates a 500 [AppError] for a brand identifier that is not
// present in the registry.
//
// This is a configuration-class failure: the registry is validated at boot,
// so hitting it at runtime means a stale reference or a misconfigured deploy.
func UnknownBrand(brandID string) *AppError {
	return &AppError{
		Code:       "UNKNOWN_BRAND",
		Message:    "Brand \"" + brandID + "\" is not registered",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NotInitialized creates a 500 [AppError] representing a programmer error:
// an auth operation was invoked before the session controller finished Init.
func NotInitialized() *AppError {
	return &AppError{
		Code:       "NOT_INITIALIZED",
		Message:    "AuthClient not initialized",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// ServiceUnavailable creates a 503 [AppError] for maintenance mode.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Upstream Forwarding

// Backend wraps an error payload returned by a brand backend.
//
// The upstream status and message are forwarded verbatim (never reinterpreted)
// so UIs can show backend-provided messages such as "Invalid login credentials"
// or "User already registered".
func Backend(status int, msg string) *AppError {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &AppError{
		Code:       "BACKEND_ERROR",
		Message:    msg,
		HTTPStatus: status,
	}
}

// Unreachable creates a 502 [AppError] for a brand backend that could not be
// reached at the transport level.
func Unreachable(cause error) *AppError {
	return &AppError{
		Code:       "BACKEND_UNREACHABLE",
		Message:    "The brand backend could not be reached",
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err is an [*AppError] carrying the given code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
