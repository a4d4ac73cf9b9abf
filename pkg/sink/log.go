package sink

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-stepform/pkg/wizard"
)

// Log records that a submission happened. Values are never written.
type Log struct {
	Logger *slog.Logger
}

var _ wizard.Sink = (*Log)(nil)

// NewLog returns a log sink writing to logger, or slog.Default when nil.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{Logger: logger}
}

// Submit implements wizard.Sink.
func (l *Log) Submit(ctx context.Context, sub wizard.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.Logger.InfoContext(ctx, "form submitted",
		slog.String("submission_id", sub.ID),
		slog.Time("submitted_at", sub.SubmittedAt),
		slog.Any("fields", sub.Values.Keys()),
	)
	return nil
}
