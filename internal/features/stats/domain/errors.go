package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds, matchable with errors.Is against any of the typed errors below.
var (
	// ErrValidation marks a malformed phone number.
	ErrValidation = errors.New("validation error")
	// ErrConfig marks missing or unusable provider credentials.
	ErrConfig = errors.New("config error")
	// ErrAuth marks a failed login or session establishment.
	ErrAuth = errors.New("auth error")
	// ErrAPI marks a failed or malformed authenticated call.
	ErrAPI = errors.New("api error")
)

// ValidationError is returned when a phone number does not match the local format.
type ValidationError struct {
	// Number is the rejected input.
	Number string
	// Message is the human-readable reason.
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is reports ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConfigError is returned when a provider client is built without its credentials.
type ConfigError struct {
	Provider Provider
	// Missing lists the absent configuration keys.
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: missing required configuration: %s", e.Provider, strings.Join(e.Missing, ", "))
}

// Is reports ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// AuthError is returned when a provider login fails.
type AuthError struct {
	Provider Provider
	Message  string
	// Err is the underlying cause, if any.
	Err error
}

// NewAuthError builds an AuthError with a formatted message.
func NewAuthError(provider Provider, err error, format string, args ...any) *AuthError {
	return &AuthError{Provider: provider, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is reports ErrAuth.
func (e *AuthError) Is(target error) bool { return target == ErrAuth }

// APIError is returned when an authenticated stats call fails or returns an unexpected shape.
type APIError struct {
	Provider Provider
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int
	Message    string
	// Err is the underlying cause, if any.
	Err error
}

// NewAPIError builds an APIError with a formatted message.
func NewAPIError(provider Provider, status int, err error, format string, args ...any) *APIError {
	return &APIError{Provider: provider, StatusCode: status, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is reports ErrAPI.
func (e *APIError) Is(target error) bool { return target == ErrAPI }
