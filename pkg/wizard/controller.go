package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/goliatone/go-stepform/pkg/formdata"
	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/navigator"
	"github.com/goliatone/go-stepform/pkg/schema"
)

// Status is the coarse state of a Controller.
type Status int

const (
	// StatusEditing accepts Advance, Retreat and Reset.
	StatusEditing Status = iota
	// StatusSubmitting is held while the sink runs. Only reads are allowed.
	StatusSubmitting
	// StatusSubmitted is terminal until Reset.
	StatusSubmitted
)

func (s Status) String() string {
	switch s {
	case StatusEditing:
		return "editing"
	case StatusSubmitting:
		return "submitting"
	case StatusSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result describes the outcome of Advance.
type Result struct {
	// Step is the active ordinal after the call.
	Step int
	// Advanced is set when the navigator moved forward.
	Advanced bool
	// Submitted is set when the sink accepted the record; Submission then
	// holds what the sink received.
	Submitted    bool
	SubmissionID string
	Submission   *Submission
	// Errors holds the field messages when validation rejected the input.
	Errors schema.FieldErrors
}

// Valid reports whether the input passed validation.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Snapshot is a read-only copy of everything a presentation adapter needs.
type Snapshot struct {
	Step         int
	StepCount    int
	StepID       string
	StepName     string
	IsFirst      bool
	IsLast       bool
	Status       Status
	Data         formdata.Values
	Errors       schema.FieldErrors
	SubmissionID string
	LastErr      error
}

// Submitted reports whether the sink accepted the record.
func (s Snapshot) Submitted() bool {
	return s.Status == StatusSubmitted
}

// Controller is the only mutator of the navigation and form state. It
// validates a step, merges the accepted fields and then either advances or,
// on the last step, hands the full record to the sink. It is safe for
// concurrent use; the lock is released while the sink runs so reads never
// wait on I/O, and the submitting status keeps submissions single-flight.
type Controller struct {
	mu sync.Mutex

	registry *schema.Registry
	nav      *navigator.Navigator
	data     *formdata.Accumulator
	sink     Sink

	status       Status
	lastErrors   schema.FieldErrors
	lastErr      error
	submissionID string
	// pendingID is the id minted for the first delivery attempt of the
	// current record. Retries after a failure reuse it.
	pendingID string

	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// New builds a controller positioned on the first step with no data.
func New(sink Sink, options ...Option) (*Controller, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	c := &Controller{
		sink:   sink,
		data:   formdata.NewAccumulator(),
		logger: discardLogger(),
		now:    time.Now,
		newID:  defaultID,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.registry == nil {
		c.registry = schema.Default()
	}
	if n := c.registry.Len(); n != schema.StepCount {
		return nil, fmt.Errorf("%w: registry has %d steps, want %d", ErrStepCount, n, schema.StepCount)
	}
	c.nav = navigator.New(c.registry.Len())
	return c, nil
}

// Advance validates input against the current step. Invalid input leaves
// all state untouched and is reported through Result.Errors with a nil
// error. Valid input is merged; the form then moves to the next step or, on
// the last step, is submitted. A sink failure returns *SubmissionError and
// keeps the form on the last step.
func (c *Controller) Advance(ctx context.Context, input map[string]string) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("wizard: context is required")
	}

	c.mu.Lock()
	switch c.status {
	case StatusSubmitting:
		c.mu.Unlock()
		return Result{}, ErrSubmissionPending
	case StatusSubmitted:
		step := c.nav.Current()
		c.mu.Unlock()
		return Result{Step: step}, ErrAlreadySubmitted
	}

	ordinal := c.nav.Current()
	accepted, errs := c.schemaFor(ordinal).Validate(input)
	if len(errs) > 0 {
		c.lastErrors = errs
		c.mu.Unlock()
		c.logger.Debug("step rejected",
			slog.Int("step", ordinal),
			slog.Any("fields", errs.Fields()),
		)
		return Result{Step: ordinal, Errors: maps.Clone(errs)}, nil
	}

	c.lastErrors = nil
	c.data.Merge(accepted)

	if !c.nav.IsLast() {
		c.nav.Next()
		next := c.nav.Current()
		c.mu.Unlock()
		c.logger.Info("step advanced",
			slog.Int("from", ordinal),
			slog.Int("to", next),
		)
		return Result{Step: next, Advanced: true}, nil
	}

	c.status = StatusSubmitting
	c.lastErr = nil
	if c.pendingID == "" {
		c.pendingID = c.newID()
	}
	sub := Submission{
		ID:          c.pendingID,
		Values:      c.data.Current(),
		SubmittedAt: c.now(),
	}
	c.mu.Unlock()

	start := time.Now()
	err := c.deliver(ctx, sub)
	elapsed := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.status = StatusEditing
		c.lastErr = &SubmissionError{SubmissionID: sub.ID, Err: err}
		c.logger.Error("submission failed",
			slog.String("submission_id", sub.ID),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
		return Result{Step: ordinal}, c.lastErr
	}

	c.status = StatusSubmitted
	c.submissionID = sub.ID
	c.pendingID = ""
	c.logger.Info("submission accepted",
		slog.String("submission_id", sub.ID),
		slog.Int("fields", len(sub.Values)),
		slog.Duration("elapsed", elapsed),
	)
	return Result{Step: ordinal, Submitted: true, SubmissionID: sub.ID, Submission: &sub}, nil
}

// deliver calls the sink, turning a panic into an error so the controller
// never stays stuck in StatusSubmitting.
func (c *Controller) deliver(ctx context.Context, sub Submission) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("wizard: sink panicked: %v", r)
		}
	}()
	return c.sink.Submit(ctx, sub)
}

// Retreat moves back one step, keeping every collected field. It is a
// no-op on the first step.
func (c *Controller) Retreat() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status {
	case StatusSubmitting:
		return ErrSubmissionPending
	case StatusSubmitted:
		return ErrNotEditing
	}
	c.nav.Previous()
	c.lastErrors = nil
	c.lastErr = nil
	return nil
}

// Reset discards all data and returns to the first step. It is rejected
// while a submission is in flight.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusSubmitting {
		return ErrSubmissionPending
	}
	c.nav.Reset()
	c.data.Reset()
	c.status = StatusEditing
	c.lastErrors = nil
	c.lastErr = nil
	c.submissionID = ""
	c.pendingID = ""
	return nil
}

// Check validates input against the current step without changing any
// state. Adapters use it for inline feedback while a step is being edited.
func (c *Controller) Check(input map[string]string) schema.FieldErrors {
	c.mu.Lock()
	s := c.schemaFor(c.nav.Current())
	c.mu.Unlock()

	_, errs := s.Validate(input)
	return errs
}

// CurrentSchema returns the schema of the active step.
func (c *Controller) CurrentSchema() schema.StepSchema {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schemaFor(c.nav.Current())
}

// CurrentStep returns the description of the active step.
func (c *Controller) CurrentStep() model.Step {
	return c.CurrentSchema().Step()
}

// Steps lists every step in order.
func (c *Controller) Steps() []model.Step {
	return c.registry.Steps()
}

// Current returns the active ordinal.
func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Current()
}

// IsFirstStep reports whether the first step is active.
func (c *Controller) IsFirstStep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.IsFirst()
}

// IsLastStep reports whether the last step is active.
func (c *Controller) IsLastStep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.IsLast()
}

// Data returns a copy of the accumulated record.
func (c *Controller) Data() formdata.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Current()
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Snapshot copies the full observable state in one consistent read.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	ordinal := c.nav.Current()
	step := c.schemaFor(ordinal).Step()
	return Snapshot{
		Step:         ordinal,
		StepCount:    c.nav.Count(),
		StepID:       step.ID,
		StepName:     step.Name,
		IsFirst:      c.nav.IsFirst(),
		IsLast:       c.nav.IsLast(),
		Status:       c.status,
		Data:         c.data.Current(),
		Errors:       maps.Clone(c.lastErrors),
		SubmissionID: c.submissionID,
		LastErr:      c.lastErr,
	}
}

// schemaFor must be called with mu held. The navigator keeps the ordinal in
// range, so a lookup failure is an invariant violation.
func (c *Controller) schemaFor(ordinal int) schema.StepSchema {
	s, err := c.registry.SchemaForStep(ordinal)
	if err != nil {
		panic(fmt.Sprintf("wizard: %v", err))
	}
	return s
}
