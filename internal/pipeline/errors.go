package pipeline

import (
	"errors"
	"fmt"
)

// ErrAnswerTimeout indicates a Q&A completion exceeded its wall-clock
// ceiling. The message is user-facing.
var ErrAnswerTimeout = errors.New("the answer timed out, try a simpler question")

// ValidationError indicates a required input was missing or unusable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation returns true if the error is a validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
