package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"law-ai-api/internal/identity"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error            string            `json:"error"`
	Message          string            `json:"message,omitempty"`
	Code             string            `json:"code,omitempty"`
	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
}

// NotFoundResponse is the body returned when no route matches
type NotFoundResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
	Method  string `json:"method"`
}

// ValidationError represents a validation error with field details
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// APIError is an explicit HTTP error result returned by a route handler
type APIError struct {
	StatusCode int
	Title      string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %s: %v", e.StatusCode, e.Title, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Title, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, title, message string) *APIError {
	return &APIError{StatusCode: statusCode, Title: title, Message: message}
}

// BadRequest creates a 400 APIError
func BadRequest(message string, err error) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Title: "Bad Request", Message: message, Err: err}
}

// errorResult maps a handler error onto a status code and body. The second
// return value reports whether the error is an unhandled fault.
func (d *Dispatcher) errorResult(err error) (*Result, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		body := ErrorResponse{Error: apiErr.Title, Message: apiErr.Message}
		var verrs validator.ValidationErrors
		if errors.As(apiErr.Err, &verrs) {
			body.ValidationErrors = formatValidationErrors(verrs)
		}
		return &Result{StatusCode: apiErr.StatusCode, Body: body}, false
	}

	if errors.Is(err, identity.ErrInvalidRequest) {
		body := ErrorResponse{Error: "Bad Request", Message: "Request validation failed"}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			body.ValidationErrors = formatValidationErrors(verrs)
		}
		return &Result{StatusCode: http.StatusBadRequest, Body: body}, false
	}

	var cfgErr *identity.ConfigurationError
	if errors.As(err, &cfgErr) {
		return &Result{
			StatusCode: http.StatusInternalServerError,
			Body:       ErrorResponse{Error: "Configuration error", Message: cfgErr.Error()},
		}, false
	}

	var providerErr *identity.ProviderError
	if errors.As(err, &providerErr) {
		return &Result{
			StatusCode: http.StatusBadGateway,
			Body: ErrorResponse{
				Error:   "Identity provider error",
				Message: d.safeMessage(providerErr.Message),
				Code:    providerErr.Code,
			},
		}, false
	}

	return internalError(), true
}

// internalError builds the generic 500 body. Error text never reaches the
// client; the caller logs it.
func internalError() *Result {
	return &Result{
		StatusCode: http.StatusInternalServerError,
		Body: ErrorResponse{
			Error:   "Internal server error",
			Message: genericErrorMessage,
		},
	}
}

func formatValidationErrors(validationErrors validator.ValidationErrors) []ValidationError {
	var out []ValidationError

	for _, err := range validationErrors {
		var message string

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("%s is invalid", err.Field())
		}

		out = append(out, ValidationError{
			Field:   err.Field(),
			Tag:     err.Tag(),
			Message: message,
		})
	}

	return out
}
