package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)
	ErrSheetNotFound  = fmt.Errorf("%w: sheet", ErrNotFound)

	// Validation errors
	ErrInvalidRange     = errors.New("invalid range: min exceeds max")
	ErrEmptySelection   = errors.New("no records match the selected ranges")
	ErrInsufficientData = errors.New("insufficient data for the selected range")
	ErrZeroSpread       = errors.New("standard deviation is zero")
	ErrNotFinite        = errors.New("value is not a finite number")
)

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
}

func NewInsufficientDataError(count int) error {
	return fmt.Errorf("%w: fewer than 2 matching records (got %d)", ErrInsufficientData, count)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDataError(err error) bool {
	return errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrZeroSpread)
}
