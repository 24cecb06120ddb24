package shipping

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a connector or service that is not set up well
// enough to take part in a selection. It is never retried.
type ConfigurationError struct {
	Component string
	Setting   string
	Message   string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Setting != "" {
		return fmt.Sprintf("configuration error: %s: %s: %s", e.Component, e.Setting, e.Message)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Component, e.Message)
}

// Is makes every ConfigurationError match ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(component, setting, message string) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Setting:   setting,
		Message:   message,
	}
}

// InvalidRequestError reports a cost query that is missing required fields.
type InvalidRequestError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid cost query: %s: %s", e.Field, e.Message)
}

// Is makes every InvalidRequestError match ErrInvalidRequest.
func (e *InvalidRequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// Sentinel errors.
var (
	// ErrConfiguration matches any *ConfigurationError.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidRequest matches any *InvalidRequestError.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSupplierNotFound indicates the requested supplier is not registered.
	ErrSupplierNotFound = errors.New("supplier not found")
)

// IsConfigurationError returns true if err is, or wraps, a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
