package leads

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSubmissionPending is returned when Submit is called while a previous
// submission of the same form is still in flight.
var ErrSubmissionPending = errors.New("lead submission already pending")

// ValidationError reports required fields that are missing or malformed.
// It is raised before any network call.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid lead fields: %s", strings.Join(e.Fields, ", "))
}

// SubmissionError wraps any failure of the remote insert. Users only ever
// see the generic failure message; the cause is kept for logs.
type SubmissionError struct {
	Cause error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("lead submission failed: %v", e.Cause)
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsSubmissionError reports whether err is a SubmissionError
func IsSubmissionError(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}
