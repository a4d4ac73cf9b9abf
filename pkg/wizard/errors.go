package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmissionPending is returned when a transition is requested while
	// the sink is still processing the final record.
	ErrSubmissionPending = errors.New("wizard: submission pending")
	// ErrAlreadySubmitted is returned by Advance once the form is submitted.
	// Reset starts a new form.
	ErrAlreadySubmitted = errors.New("wizard: already submitted")
	// ErrNotEditing is returned by navigation outside the editing state.
	ErrNotEditing = errors.New("wizard: not editing")
	// ErrNilSink is returned when a controller is built without a sink.
	ErrNilSink = errors.New("wizard: submission sink is required")
	// ErrStepCount is returned when a registry does not hold exactly
	// schema.StepCount steps.
	ErrStepCount = errors.New("wizard: wrong number of steps")
)

// SubmissionError wraps a sink failure. The controller stays on the last
// step with its data intact so the user can retry.
type SubmissionError struct {
	SubmissionID string
	Err          error
}

func (e *SubmissionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("wizard: submission %s failed: %v", e.SubmissionID, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
