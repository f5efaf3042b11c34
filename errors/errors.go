// Package errors provides error handling for invokegen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints for the developer running the generator
//
// Generation failures are classified by marking them with one of the
// sentinel errors below. The message stays specific to the failure while
// errors.Is matches the category:
//
//	err := errors.Mark(errors.Newf("clone index %d out of range", i), errors.ErrConfiguration)
//	errors.IsConfigurationError(err) // true
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Join combines errors; used where every failure of a batch is reported.
var Join = crdb.Join

// Sentinel error categories. Wrap or Mark these to add context while
// preserving the category for errors.Is.
var (
	// ErrConfiguration indicates invalid generator options (name suffix, clone indices)
	ErrConfiguration = New("configuration error")

	// ErrSignatureMismatch indicates members of a group disagree on their signature shape
	ErrSignatureMismatch = New("signature mismatch")

	// ErrUnsupportedShape indicates a member shape the generator cannot express
	ErrUnsupportedShape = New("unsupported shape")

	// ErrDirective indicates a malformed //invokegen:group directive
	ErrDirective = New("invalid directive")

	// ErrStale indicates generated files are out of date with their sources
	ErrStale = New("generated files are stale")
)

// IsConfigurationError checks if an error is or wraps ErrConfiguration
func IsConfigurationError(err error) bool {
	return err != nil && Is(err, ErrConfiguration)
}

// IsSignatureMismatchError checks if an error is or wraps ErrSignatureMismatch
func IsSignatureMismatchError(err error) bool {
	return err != nil && Is(err, ErrSignatureMismatch)
}

// IsUnsupportedShapeError checks if an error is or wraps ErrUnsupportedShape
func IsUnsupportedShapeError(err error) bool {
	return err != nil && Is(err, ErrUnsupportedShape)
}

// IsDirectiveError checks if an error is or wraps ErrDirective
func IsDirectiveError(err error) bool {
	return err != nil && Is(err, ErrDirective)
}

// IsStaleError checks if an error is or wraps ErrStale
func IsStaleError(err error) bool {
	return err != nil && Is(err, ErrStale)
}

// NewConfigurationError creates a configuration error with a formatted message
func NewConfigurationError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConfiguration)
}

// NewSignatureMismatchError creates a signature-mismatch error with a formatted message
func NewSignatureMismatchError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrSignatureMismatch)
}

// NewUnsupportedShapeError creates an unsupported-shape error with a formatted message
func NewUnsupportedShapeError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrUnsupportedShape)
}

// NewDirectiveError creates a directive error with a formatted message
func NewDirectiveError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrDirective)
}

// WrapDirective wraps an error as a directive error with context
func WrapDirective(err error, context string) error {
	return Mark(Wrap(err, context), ErrDirective)
}
