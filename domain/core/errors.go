package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrStudentNotFound = fmt.Errorf("%w: student", ErrNotFound)

	// Data shape errors
	ErrNoStudentColumn  = errors.New("no student identifier column found")
	ErrNoTermColumn     = errors.New("no term column found")
	ErrEmptyTable       = errors.New("table has no data rows")
	ErrMalformedNumeric = errors.New("value is not numeric")
	ErrUnsupportedInput = errors.New("unsupported input format")
)

// NewStudentNotFoundError reports a student key with no matching rows.
func NewStudentNotFoundError(studentID string) error {
	return fmt.Errorf("%w with id %q", ErrStudentNotFound, studentID)
}

// NewMalformedNumericError reports a present cell that is not a number.
func NewMalformedNumericError(column, value string) error {
	return fmt.Errorf("%w: column %s value %q", ErrMalformedNumeric, column, value)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsShapeError(err error) bool {
	return errors.Is(err, ErrNoStudentColumn) ||
		errors.Is(err, ErrNoTermColumn) ||
		errors.Is(err, ErrEmptyTable)
}
