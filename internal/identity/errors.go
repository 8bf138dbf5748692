package identity

import (
	"errors"
	"fmt"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// Common identity error types
var (
	ErrInvalidRequest = errors.New("invalid request")
)

// ConfigurationError reports a required identifier that was missing before
// any call to the identity provider was attempted.
type ConfigurationError struct {
	Field string // Configuration key that was missing (e.g. COGNITO_USER_POOL_ID)
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Field)
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(field string) *ConfigurationError {
	return &ConfigurationError{Field: field}
}

// ProviderError represents a call the identity provider rejected or could not
// service. The provider's code and message are kept intact.
type ProviderError struct {
	Op         string // Provider operation that failed (e.g. "AdminSetUserPassword")
	Code       string // Provider error code (e.g. "UserNotFoundException")
	Message    string // Provider error message
	Fault      string // "client", "server" or "unknown"
	RequestID  string // Provider request ID, when the transport exposed one
	HTTPStatus int    // HTTP status of the provider response, 0 if none
	Err        error  // Underlying error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("identity provider %s failed: %s: %s", e.Op, e.Code, e.Message)
	if e.RequestID != "" {
		msg += fmt.Sprintf(" (request id: %s)", e.RequestID)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps an error returned by the identity provider, pulling
// out the API error code and any transport metadata.
func NewProviderError(op string, err error) *ProviderError {
	var existing *ProviderError
	if errors.As(err, &existing) {
		return existing
	}

	pe := &ProviderError{
		Op:      op,
		Code:    "Unknown",
		Message: err.Error(),
		Fault:   smithy.FaultUnknown.String(),
		Err:     err,
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		pe.Code = apiErr.ErrorCode()
		pe.Message = apiErr.ErrorMessage()
		pe.Fault = apiErr.ErrorFault().String()
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		pe.RequestID = respErr.ServiceRequestID()
		pe.HTTPStatus = respErr.HTTPStatusCode()
	}

	return pe
}

// IsConfigurationError returns true if the error is a ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsProviderError returns true if the error came from the identity provider
func IsProviderError(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr)
}
