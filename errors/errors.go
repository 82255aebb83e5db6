// Package errors provides error handling for PDT.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := analyze(); err != nil {
//	    return errors.Wrap(err, "failed to analyze stackup")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrValidation) {
//	    // handle bad input
//	}
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
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for use across PDT.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrValidation indicates analysis input that fails validation: a missing
	// required field, a negative tolerance, USL <= LSL, missing 3D geometry on
	// a referenced feature, or a chain-order mismatch. Inputs are rejected
	// before any computation; a validation failure never produces a partially
	// filled result.
	ErrValidation = New("invalid input")

	// ErrConfig indicates bad analysis configuration: sigma_level <= 0, a
	// Monte Carlo iteration count <= 0, or an unsupported enum value.
	ErrConfig = New("invalid configuration")

	// ErrPartialComputation indicates an analysis was aborted by its
	// iteration/time budget. The partial state is discarded, never reported.
	ErrPartialComputation = New("analysis aborted before completion")

	// ErrNotFound indicates a requested entity file does not exist
	ErrNotFound = New("not found")
)

// NewValidationError creates a validation error with a formatted message.
// The message should name the offending contributor and field so the caller
// can correct the input.
func NewValidationError(format string, args ...interface{}) error {
	return Wrap(ErrValidation, Newf(format, args...).Error())
}

// NewConfigError creates a configuration error with a formatted message
func NewConfigError(format string, args ...interface{}) error {
	return Wrap(ErrConfig, Newf(format, args...).Error())
}

// IsValidationError checks if an error is or wraps ErrValidation
func IsValidationError(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// IsConfigError checks if an error is or wraps ErrConfig
func IsConfigError(err error) bool {
	return err != nil && Is(err, ErrConfig)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}
