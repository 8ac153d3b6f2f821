package errors

import (
	"fmt"
)

// AuthadmError is the base error type for all authadm errors
type AuthadmError struct {
	message string
	cause   error
}

// Error implements the error interface
func (e *AuthadmError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	if e.message != "" {
		return e.message
	}
	return "Authadm Error"
}

// Unwrap returns the underlying error
func (e *AuthadmError) Unwrap() error {
	return e.cause
}

// New creates a new AuthadmError
func New(message string) *AuthadmError {
	return &AuthadmError{message: message}
}

// Wrap wraps an error with an AuthadmError
func Wrap(err error, message string) *AuthadmError {
	return &AuthadmError{message: message, cause: err}
}

// CommandError indicates a management command failed and the CLI should
// exit non-zero. The message is intended for the operator, not for logs.
type CommandError struct {
	Message string
	Cause   error
}

// Error implements the error interface
func (e *CommandError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *CommandError) Unwrap() error {
	return e.Cause
}

// NewCommandError creates a new CommandError
func NewCommandError(format string, args ...interface{}) *CommandError {
	return &CommandError{Message: fmt.Sprintf(format, args...)}
}

// WrapCommandError wraps an underlying error in a CommandError
func WrapCommandError(cause error, format string, args ...interface{}) *CommandError {
	return &CommandError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("Configuration error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("Configuration error: %s", e.Message)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// ValidationError indicates that a model definition is inconsistent
type ValidationError struct {
	Object  string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Object != "" {
		return fmt.Sprintf("%s: %s", e.Object, e.Message)
	}
	return e.Message
}

// NewValidationError creates a new ValidationError
func NewValidationError(object, message string) *ValidationError {
	return &ValidationError{Object: object, Message: message}
}

// NotFoundError indicates a record was not found in the store
type NotFoundError struct {
	Kind string
	Key  string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' does not exist", e.Kind, e.Key)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, key string) *NotFoundError {
	return &NotFoundError{Kind: kind, Key: key}
}

// StoreError indicates a database operation failed
type StoreError struct {
	Op    string
	Cause error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError creates a new StoreError
func NewStoreError(op string, cause error) *StoreError {
	return &StoreError{Op: op, Cause: cause}
}
