// Package util provides utility functions and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for builder and assembly failures
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrMandatoryField   = errors.New("mandatory field missing")
	ErrUnknownField     = errors.New("unknown field")
	ErrUnflushed        = errors.New("unflushed accumulator entries")
	ErrUnsupported      = errors.New("operation not supported")
	ErrFinalized        = errors.New("task already finalized")
	ErrNotFinalized     = errors.New("task not finalized")
	ErrAssembly         = errors.New("playbook assembly failed")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// ValidationError reports a field assignment rejected by the field's validator.
// The field keeps its previous value.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Expect string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s %v: expected %s", e.Module, e.Field, e.Value, e.Expect)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error for a rejected field value
func NewValidationError(module, field string, value interface{}, expect string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Expect: expect,
	}
}

// MandatoryFieldError reports final-verification failures found at commit
type MandatoryFieldError struct {
	Module   string
	Problems []string
}

func (e *MandatoryFieldError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", e.Module, e.Problems[0])
	}
	return fmt.Sprintf("%s: commit failed:\n  - %s", e.Module, strings.Join(e.Problems, "\n  - "))
}

func (e *MandatoryFieldError) Unwrap() error {
	return ErrMandatoryField
}

// NewMandatoryFieldError creates a mandatory field error from problem messages
func NewMandatoryFieldError(module string, problems ...string) *MandatoryFieldError {
	return &MandatoryFieldError{Module: module, Problems: problems}
}

// UnknownFieldError reports a property name that is not part of a module's schema
type UnknownFieldError struct {
	Module string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: unknown field '%s'", e.Module, e.Field)
}

func (e *UnknownFieldError) Unwrap() error {
	return ErrUnknownField
}

// NewUnknownFieldError creates an unknown field error
func NewUnknownFieldError(module, field string) *UnknownFieldError {
	return &UnknownFieldError{Module: module, Field: field}
}

// UnflushedError reports accumulated entries that were never closed into
// their enclosing level before commit.
type UnflushedError struct {
	Module  string
	Level   string
	Pending int
	Closer  string
}

func (e *UnflushedError) Error() string {
	return fmt.Sprintf("%s: %d %s entries pending, call %s before commit", e.Module, e.Pending, e.Level, e.Closer)
}

func (e *UnflushedError) Unwrap() error {
	return ErrUnflushed
}

// AssemblyError represents a playbook that cannot be written
type AssemblyError struct {
	Reason string
	Err    error
}

func (e *AssemblyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("playbook: %s: %v", e.Reason, e.Err)
	}
	return "playbook: " + e.Reason
}

// Is matches ErrAssembly in addition to the wrapped cause.
func (e *AssemblyError) Is(target error) bool {
	return target == ErrAssembly
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// NewAssemblyError creates an assembly error, optionally wrapping a cause
func NewAssemblyError(reason string, err error) *AssemblyError {
	return &AssemblyError{Reason: reason, Err: err}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddError adds an error message unconditionally
func (v *ValidationBuilder) AddError(message string) *ValidationBuilder {
	v.errors = append(v.errors, message)
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the accumulated errors wrapped in ErrInvalidConfig, or nil
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	if len(v.errors) == 1 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, v.errors[0])
	}
	return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(v.errors, "\n  - "))
}
