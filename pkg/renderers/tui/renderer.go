// Package tui presents the step form in a terminal. It is a thin adapter over
// wizard.Controller: it prompts for the active step's fields, offers the
// navigation actions the controller allows and reports validation and
// submission errors. All state lives in the controller.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/sanitize"
	"github.com/goliatone/go-stepform/pkg/widgets"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

// Action labels offered after each step.
const (
	ActionNext     = "Next"
	ActionSubmit   = "Submit"
	ActionPrevious = "Previous"
	ActionReset    = "Reset"
	ActionQuit     = "Quit"
)

// actionPrompt is the Name scripted drivers see for the action select.
const actionPrompt = "action"

// repeatPrompt is the Name scripted drivers see for the restart confirm.
const repeatPrompt = "restart"

// Outcome reports how a session ended.
type Outcome struct {
	Submitted    bool
	SubmissionID string
	Submissions  int
}

// Renderer drives a wizard.Controller from terminal prompts.
type Renderer struct {
	controller *wizard.Controller
	driver     PromptDriver
	receipt    render.Renderer
	out        io.Writer
	repeat     bool
	theme      Theme
	widgets    *widgets.Registry
	logger     *slog.Logger
}

// New constructs a TUI renderer with defaults (survey driver, JSON receipt on
// stdout).
func New(controller *wizard.Controller, options ...Option) (*Renderer, error) {
	if controller == nil {
		return nil, errors.New("tui: controller is required")
	}
	r := &Renderer{
		controller: controller,
		receipt:    render.NewJSON(),
		out:        os.Stdout,
		theme:      DefaultTheme,
		widgets:    widgets.NewRegistry(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Run prompts until the form is submitted (and, with WithRepeat, the user
// declines another) or the user quits. Quitting returns ErrAborted.
func (r *Renderer) Run(ctx context.Context) (Outcome, error) {
	if ctx == nil {
		return Outcome{}, errors.New("tui: context is required")
	}
	var outcome Outcome
	// draft keeps what was typed on the active step across a rejected
	// attempt; it is dropped whenever the step changes.
	var draft map[string]string
	draftStep := -1

	for {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}
		snap := r.controller.Snapshot()

		if snap.Submitted() {
			outcome.Submitted = true
			outcome.SubmissionID = snap.SubmissionID
			outcome.Submissions++
			if !r.repeat {
				return outcome, nil
			}
			again, err := r.driver.Confirm(ctx, ConfirmConfig{
				Name:    repeatPrompt,
				Message: "Start a new application?",
			})
			if err != nil {
				return outcome, err
			}
			if !again {
				return outcome, nil
			}
			if err := r.controller.Reset(); err != nil {
				return outcome, err
			}
			draft, draftStep = nil, -1
			continue
		}

		if snap.Step != draftStep {
			draft, draftStep = nil, snap.Step
		}
		step := r.widgets.Decorate(r.controller.CurrentStep())
		if err := r.showStep(ctx, snap, step); err != nil {
			return outcome, err
		}

		input, err := r.promptStep(ctx, step, snap.Data, draft)
		if err != nil {
			return outcome, err
		}
		draft = input

		action, err := r.chooseAction(ctx, snap)
		if err != nil {
			return outcome, err
		}

		switch action {
		case ActionNext, ActionSubmit:
			if err := r.advance(ctx, input); err != nil {
				return outcome, err
			}
		case ActionPrevious:
			if err := r.controller.Retreat(); err != nil {
				return outcome, err
			}
		case ActionReset:
			if err := r.controller.Reset(); err != nil {
				return outcome, err
			}
			draft, draftStep = nil, -1
		case ActionQuit:
			return outcome, ErrAborted
		}
	}
}

func (r *Renderer) advance(ctx context.Context, input map[string]string) error {
	res, err := r.controller.Advance(ctx, sanitize.Values(input))
	var subErr *wizard.SubmissionError
	switch {
	case errors.As(err, &subErr):
		// stay on the last step; the snapshot carries the error
		r.logger.Warn("submission rejected", slog.String("submission_id", subErr.SubmissionID))
		return nil
	case err != nil:
		return err
	}
	if res.Submitted && res.Submission != nil {
		return r.printReceipt(ctx, *res.Submission)
	}
	return nil
}

func (r *Renderer) printReceipt(ctx context.Context, sub wizard.Submission) error {
	summary := render.SubmissionSummary(r.controller.Steps(), sub)
	out, err := r.receipt.Render(ctx, summary)
	if err != nil {
		return fmt.Errorf("tui: render receipt: %w", err)
	}
	_, err = r.out.Write(out)
	return err
}

func (r *Renderer) showStep(ctx context.Context, snap wizard.Snapshot, step model.Step) error {
	title := step.Title
	if title == "" {
		title = step.Name
	}
	header := fmt.Sprintf("Step %d of %d: %s", snap.Step+1, snap.StepCount, title)
	if err := r.driver.Info(ctx, strings.TrimSpace(r.theme.StepPrefix+" "+header)); err != nil {
		return err
	}

	mapping := render.MapStepErrors(step, snap.Errors)
	for _, fm := range mapping.Fields {
		if err := r.driver.Info(ctx, r.errorLine(fmt.Sprintf("%s: %s", fm.Label, fm.Message))); err != nil {
			return err
		}
	}
	for _, msg := range mapping.Form {
		if err := r.driver.Info(ctx, r.errorLine(msg)); err != nil {
			return err
		}
	}
	if snap.LastErr != nil {
		var subErr *wizard.SubmissionError
		msg := snap.LastErr.Error()
		if errors.As(snap.LastErr, &subErr) {
			msg = "Submission failed: " + subErr.Err.Error()
		}
		if err := r.driver.Info(ctx, r.errorLine(msg)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) errorLine(msg string) string {
	return strings.TrimSpace(r.theme.ErrorPrefix + " " + msg)
}

// promptStep asks for every field of step. Defaults come from the draft of a
// rejected attempt, then from data already accepted by the controller.
func (r *Renderer) promptStep(ctx context.Context, step model.Step, data, draft map[string]string) (map[string]string, error) {
	input := make(map[string]string, len(step.Fields))
	for _, field := range step.Fields {
		def, ok := draft[field.Name]
		if !ok {
			def = data[field.Name]
		}
		value, err := r.promptField(ctx, field, def)
		if err != nil {
			return nil, err
		}
		input[field.Name] = value
	}
	return input, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, def string) (string, error) {
	label := field.Label
	if label == "" {
		label = model.DefaultLabeler(field.Name)
	}

	switch field.Widget {
	case widgets.WidgetSelect:
		options := widgets.EnumOptions(field)
		if len(options) == 0 {
			break
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Name:         field.Name,
			Message:      label,
			Options:      options,
			DefaultIndex: indexOf(options, def),
			Help:         field.Placeholder,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(options) {
			return "", nil
		}
		return options[idx], nil
	case widgets.WidgetPassword:
		return r.driver.Password(ctx, r.inputConfig(field, label, def))
	}
	return r.driver.Input(ctx, r.inputConfig(field, label, def))
}

func (r *Renderer) inputConfig(field model.Field, label, def string) InputConfig {
	return InputConfig{
		Name:      field.Name,
		Message:   label,
		Default:   def,
		Help:      fieldHelp(field),
		Validator: inputHint(field),
	}
}

// chooseAction offers Next (Submit on the last step), Previous when there is
// a step to go back to, Reset and Quit.
func (r *Renderer) chooseAction(ctx context.Context, snap wizard.Snapshot) (string, error) {
	primary := ActionNext
	if snap.IsLast {
		primary = ActionSubmit
	}
	options := []string{primary}
	if !snap.IsFirst {
		options = append(options, ActionPrevious)
	}
	options = append(options, ActionReset, ActionQuit)

	idx, err := r.driver.Select(ctx, SelectConfig{
		Name:    actionPrompt,
		Message: "Continue",
		Options: options,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("tui: unknown action index %d", idx)
	}
	return options[idx], nil
}

func fieldHelp(field model.Field) string {
	if field.Placeholder != "" {
		return field.Placeholder
	}
	switch field.Format {
	case "email":
		return "Email address"
	case "tel":
		return "Phone number"
	}
	if field.MaxLength > 0 {
		return fmt.Sprintf("Up to %d characters", field.MaxLength)
	}
	return ""
}

// inputHint mirrors the browser maxLength attribute: it stops overlong input
// at the prompt. The step schema still owns validation.
func inputHint(field model.Field) func(string) error {
	if field.MaxLength <= 0 {
		return nil
	}
	limit := field.MaxLength
	return func(s string) error {
		if utf8.RuneCountInString(s) > limit {
			return fmt.Errorf("at most %d characters", limit)
		}
		return nil
	}
}
