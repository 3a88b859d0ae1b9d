// Package errors defines the structured error responses the HTTP layer
// renders, and the mapping from pipeline errors onto them.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"revxcli/internal/dataprocessing"
)

// APIError represents a structured API error response.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// NewWithDetails creates a new APIError with additional details.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

// Predefined error types for common scenarios
var (
	ErrInvalidRequest    = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrValidationFailed  = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	ErrNotFound          = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrPayloadTooLarge   = New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Uploaded table is too large")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
	ErrInternalServer    = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// SchemaErrorDetails carries the full missing-column list to the client.
type SchemaErrorDetails struct {
	MissingColumns []string `json:"missing_columns"`
	Source         string   `json:"source,omitempty"`
}

// CoercionErrorDetails pinpoints the unparseable cell.
type CoercionErrorDetails struct {
	RowIndex int    `json:"row_index"`
	Column   string `json:"column"`
	RawValue string `json:"raw_value"`
	Source   string `json:"source,omitempty"`
}

// FromPipelineError maps comparison pipeline errors onto API errors.
// Schema and coercion failures are client problems (the uploaded table
// is malformed) and render as 422 with a precise location; anything else
// is a 500.
func FromPipelineError(err error) *APIError {
	var schemaErr *dataprocessing.SchemaError
	if errors.As(err, &schemaErr) {
		return NewWithDetails(
			http.StatusUnprocessableEntity,
			"SCHEMA_VALIDATION_FAILED",
			err.Error(),
			SchemaErrorDetails{MissingColumns: schemaErr.MissingColumns, Source: schemaErr.Source},
		)
	}

	var coercionErr *dataprocessing.CoercionError
	if errors.As(err, &coercionErr) {
		return NewWithDetails(
			http.StatusUnprocessableEntity,
			"TYPE_COERCION_FAILED",
			err.Error(),
			CoercionErrorDetails{
				RowIndex: coercionErr.RowIndex,
				Column:   coercionErr.Column,
				RawValue: coercionErr.RawValue,
				Source:   coercionErr.Source,
			},
		)
	}

	return NewWithDetails(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", err.Error())
}

// InvalidRequestWithError creates an invalid request error with details.
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrValidation creates a validation error with field details.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// NotFoundError creates a not found error with details.
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), resource)
}

// ErrorResponse represents a standard error response envelope.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{Success: false, Error: err}
}

// Render implements the render.Renderer interface.
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}
