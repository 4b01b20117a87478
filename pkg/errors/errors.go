// Package errors provides custom error types for the ivyrecon system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the ivyrecon system
var (
	// ErrMissingColumns indicates a source table lacks required columns
	ErrMissingColumns = errors.New("missing required columns")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrNotEnoughSources indicates fewer than two source tables were supplied
	ErrNotEnoughSources = errors.New("at least two source tables required")

	// ErrUnsupportedFormat indicates a file format the loader cannot read
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// MissingColumnsError reports which required canonical columns a source
// table lacks. This is fatal for the offending table; the engine never
// attempts partial reconciliation with an invalid table.
type MissingColumnsError struct {
	Source  string
	Columns []string
}

// Error implements the error interface
func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Source, strings.Join(e.Columns, ", "))
}

// Is implements errors.Is support
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// NewMissingColumnsError creates a new MissingColumnsError
func NewMissingColumnsError(source string, columns []string) *MissingColumnsError {
	return &MissingColumnsError{Source: source, Columns: columns}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// LoadError represents an error reading a source file into a table
type LoadError struct {
	Path    string
	Format  string // "csv", "xlsx"
	Message string
	Err     error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("failed to load %s file %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to load %s: %s", e.Path, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError
func NewLoadError(path, format string, err error) *LoadError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &LoadError{
		Path:    path,
		Format:  format,
		Message: message,
		Err:     err,
	}
}

// ExportError represents an error assembling or writing a report
type ExportError struct {
	Target  string // "xlsx", "console", "json"
	Message string
	Err     error
}

// Error implements the error interface
func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s failed: %s", e.Target, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates a new ExportError
func NewExportError(target string, err error) *ExportError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ExportError{Target: target, Message: message, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Option  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("configuration error for %s: %s", e.Option, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewConfigError creates a new ConfigError
func NewConfigError(option, message string, err error) *ConfigError {
	return &ConfigError{Option: option, Message: message, Err: err}
}

// Helper functions for error checking

// IsMissingColumns checks if an error reports missing required columns
func IsMissingColumns(err error) bool {
	return errors.Is(err, ErrMissingColumns)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapLoad wraps an error as a LoadError
func WrapLoad(path, format string, err error) error {
	if err == nil {
		return nil
	}
	return NewLoadError(path, format, err)
}

// WrapExport wraps an error as an ExportError
func WrapExport(target string, err error) error {
	if err == nil {
		return nil
	}
	return NewExportError(target, err)
}
