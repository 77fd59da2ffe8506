package review

import (
	"errors"
	"fmt"
)

// Sentinel errors for the review package. Check them with errors.Is.
var (
	ErrInvalidReview  = errors.New("review: invalid review")
	ErrInvalidQuality = fmt.Errorf("%w: unknown answer quality", ErrInvalidReview)
	ErrInvalidSpeed   = fmt.Errorf("%w: unknown answer speed", ErrInvalidReview)
	ErrTimeReversed   = fmt.Errorf("%w: answer time before last answer", ErrInvalidReview)
	ErrInvalidState   = fmt.Errorf("%w: malformed card state", ErrInvalidReview)
	ErrInvalidParams  = errors.New("review: invalid scheduler parameters")
)

// ValidationError reports a caller contract violation on a single field.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%s=%v)", e.Err, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, value any, err error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Err: err}
}
