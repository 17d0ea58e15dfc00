package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the streamkit library

var (
	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrBufferOverrun indicates a synchronous write past the buffer limit
	ErrBufferOverrun = errors.New("buffer overrun")

	// ErrInvalidOperation indicates an operation not allowed in the current state
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidType indicates an argument of an unacceptable type or shape
	ErrInvalidType = errors.New("invalid type")

	// ErrArgumentNil indicates a required argument was nil
	ErrArgumentNil = errors.New("argument is nil")

	// ErrArgumentOutOfRange indicates an argument outside its permitted range
	ErrArgumentOutOfRange = errors.New("argument out of range")

	// ErrInvalidFormat indicates malformed encoded input
	ErrInvalidFormat = errors.New("invalid format")
)

// ValidationError describes a rejected argument or configuration value.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string

	// Kind is the sentinel this error unwraps to. Nil means ErrInvalidConfiguration.
	Kind error
}

// NewValidationError creates a ValidationError for a configuration value.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// NewArgumentError creates a ValidationError of the given kind for a call argument.
func NewArgumentError(kind error, module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
		Kind:   kind,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	if e.Kind != nil {
		return e.Kind
	}
	return ErrInvalidConfiguration
}

// OperationError records which operation of which module failed and why.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError wrapping cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches extra detail and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if the error indicates a condition that might
// be resolved by retrying the operation
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsTerminal reports whether err is a fault that moves a stream into its
// error state.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrBufferOverrun) || errors.Is(err, ErrTimeout)
}
