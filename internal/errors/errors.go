// Package errors provides a structured error type hierarchy for stepwise.
//
// This package defines base error types for common error conditions, wrapped error
// types that add contextual information, and helper functions for error wrapping
// and type checking.
//
// # Error Types
//
// Base errors (sentinel errors):
//   - ErrNotFound - no step definition or file found
//   - ErrInvalid - validation failed
//   - ErrAmbiguous - more than one definition claims a step
//   - ErrIO - file I/O error
//   - ErrCanceled - user canceled operation
//
// Wrapped error types (add context):
//   - TemplateError{Op, Err, Content} - template construction errors
//   - StepError{Op, Err, Text} - step resolution errors
//   - CatalogError{Path, Err} - step catalog errors
//   - ConfigError{Path, Err} - configuration errors
//
// Matching itself never fails: a step that matches nothing is a zero weight
// chain, and only the resolver turns that into ErrNotFound.
//
// # Usage
//
//	// Use sentinel errors directly
//	return errors.ErrNotFound
//
//	// Wrap with context using Wrap
//	return errors.Wrap(err, "loadCatalog")
//
//	// Use structured error types
//	return &errors.StepError{Op: "resolve", Err: errors.ErrNotFound, Text: "I have 5 cucumbers"}
//
//	// Check error types
//	if errors.IsNotFound(err) {
//	    // handle not found
//	}
package errors

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = baseError("not found")

	// ErrInvalid indicates validation failed.
	ErrInvalid = baseError("invalid")

	// ErrAmbiguous indicates several definitions resolve a step equally well.
	ErrAmbiguous = baseError("ambiguous")

	// ErrIO indicates a file I/O error.
	ErrIO = baseError("I/O error")

	// ErrCanceled indicates the user canceled an operation.
	ErrCanceled = baseError("canceled")
)

// baseError is a string that implements error.
type baseError string

func (e baseError) Error() string { return string(e) }

// TemplateError represents an error building a parametrized template.
type TemplateError struct {
	// Op is the operation being performed (e.g., "new", "parse").
	Op string
	// Err is the underlying error.
	Err error
	// Content is the template text (optional).
	Content string
}

func (e *TemplateError) Error() string {
	if e.Content != "" {
		return fmt.Sprintf("template %s %q: %s", e.Op, e.Content, e.Err)
	}
	return fmt.Sprintf("template %s: %s", e.Op, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// StepError represents an error that occurred while resolving a step.
type StepError struct {
	// Op is the operation being performed (e.g., "resolve", "complete").
	Op string
	// Err is the underlying error.
	Err error
	// Text is the step text (optional).
	Text string
}

func (e *StepError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("step %s %q: %s", e.Op, e.Text, e.Err)
	}
	return fmt.Sprintf("step %s: %s", e.Op, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// CatalogError represents an error reading or validating a step catalog.
type CatalogError struct {
	// Path is the catalog file path (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *CatalogError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("catalog %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("catalog: %s", e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// ConfigError represents an error related to configuration.
type ConfigError struct {
	// Path is the configuration file path (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Wrap adds context to an error by wrapping it with an operation name.
// The returned error implements Unwrap() allowing errors.Is and errors.As
// to work with the wrapped error.
func Wrap(err error, op string) error {
	return &wrappedError{op: op, err: err}
}

// wrappedError is an error with an operation context.
type wrappedError struct {
	op  string
	err error
}

func (e *wrappedError) Error() string { return fmt.Sprintf("%s: %s", e.op, e.err) }
func (e *wrappedError) Unwrap() error { return e.err }

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalid reports whether err is or wraps ErrInvalid.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// IsAmbiguous reports whether err is or wraps ErrAmbiguous.
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguous)
}

// IsIO reports whether err is or wraps ErrIO.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsCanceled reports whether err is or wraps ErrCanceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// AsTemplateError reports whether err can be typed as a *TemplateError.
func AsTemplateError(err error) (*TemplateError, bool) {
	var te *TemplateError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// AsStepError reports whether err can be typed as a *StepError.
func AsStepError(err error) (*StepError, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsCatalogError reports whether err can be typed as a *CatalogError.
func AsCatalogError(err error) (*CatalogError, bool) {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AsConfigError reports whether err can be typed as a *ConfigError.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
