package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// UpstreamError carries a non-200 Fitbit API response through to the caller.
// Details holds the parsed JSON error body, or {"raw": <text>} when the body
// is not valid JSON.
type UpstreamError struct {
	StatusCode int
	Details    interface{}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fitbit API request failed with status %d", e.StatusCode)
}

// Entity Not Found Errors
var (
	ErrAccountNotFound = &NotFoundError{Entity: "account"}
	ErrTokenNotFound   = &NotFoundError{Entity: "fitbit token"}
)

// Already Exists Errors
var (
	ErrUsernameExists = &AlreadyExistsError{Entity: "account", Context: "with this username"}
)

// Fitbit Proxy Errors
var (
	// ErrNoTokenFound means no Fitbit authorization was ever completed for
	// the account; the caller must start the flow at /fitbit/login.
	ErrNoTokenFound = errors.New("no Fitbit token found, please login at /fitbit/login")

	// ErrRefreshFailed means the stored refresh token was rejected by the
	// provider token endpoint; the caller must re-authorize.
	ErrRefreshFailed = errors.New("token expired and refresh failed, please re-login")

	ErrOAuthExchangeFailed = errors.New("failed to exchange authorization code for access token")
)

// Authentication Errors
var (
	ErrInvalidCredentials     = &AuthenticationError{Message: "invalid credentials"}
	ErrAuthenticationRequired = &AuthenticationError{Message: "authentication required"}
	ErrInvalidSessionToken    = &AuthenticationError{Message: "invalid session token"}
	ErrInvalidStateToken      = &AuthenticationError{Message: "invalid or expired state parameter"}
)

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// AsUpstream extracts an UpstreamError if err carries one
func AsUpstream(err error) (*UpstreamError, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}

// NewUpstreamError creates an UpstreamError for a failed Fitbit API call
func NewUpstreamError(statusCode int, details interface{}) error {
	return &UpstreamError{StatusCode: statusCode, Details: details}
}
