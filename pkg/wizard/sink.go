package wizard

import (
	"context"
	"time"

	"github.com/goliatone/go-stepform/pkg/formdata"
	"github.com/goliatone/go-stepform/pkg/model"
)

// Submission is the complete record handed to a Sink.
type Submission struct {
	ID          string          `json:"id"`
	Values      formdata.Values `json:"values"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// Application decodes the values into the typed record of the default form.
func (s Submission) Application() (model.Application, error) {
	return model.ApplicationFromValues(s.Values)
}

// Sink receives the final record. It may block (e.g. network I/O); the
// controller rejects further transitions until it returns. A non-nil error
// leaves the form on its last step.
type Sink interface {
	Submit(ctx context.Context, submission Submission) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, submission Submission) error

// Submit implements Sink.
func (f SinkFunc) Submit(ctx context.Context, submission Submission) error {
	return f(ctx, submission)
}
