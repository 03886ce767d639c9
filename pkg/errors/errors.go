package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents the category of error for handling
type ErrorCategory string

const (
	CategoryDeclined       ErrorCategory = "declined"
	CategoryHeld           ErrorCategory = "held_for_review"
	CategorySystemError    ErrorCategory = "system_error"
	CategoryNetworkError   ErrorCategory = "network_error"
	CategoryInvalidRequest ErrorCategory = "invalid_request"
)

// GatewayError represents a failed exchange with the payment gateway
type GatewayError struct {
	Code           string
	Message        string
	GatewayMessage string
	Category       ErrorCategory
	Err            error
}

func (e *GatewayError) Error() string {
	if e.GatewayMessage != "" {
		return fmt.Sprintf("%s: %s (gateway: %s)", e.Code, e.Message, e.GatewayMessage)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewGatewayError creates a new gateway error
func NewGatewayError(code, message string, category ErrorCategory) *GatewayError {
	return &GatewayError{
		Code:     code,
		Message:  message,
		Category: category,
	}
}

// WithGatewayMessage attaches the text the gateway returned.
func (e *GatewayError) WithGatewayMessage(msg string) *GatewayError {
	e.GatewayMessage = msg
	return e
}

// WithCause attaches the underlying transport or decode error.
func (e *GatewayError) WithCause(err error) *GatewayError {
	e.Err = err
	return e
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ValidationErrors collects field errors from a form.
type ValidationErrors map[string][]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Add records a message against a field.
func (e ValidationErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}
