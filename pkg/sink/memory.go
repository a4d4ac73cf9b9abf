package sink

import (
	"context"
	"sync"

	"github.com/goliatone/go-stepform/pkg/wizard"
)

// Memory keeps submissions in process. Useful for embedding and demos.
type Memory struct {
	mu    sync.RWMutex
	items []wizard.Submission
}

var _ wizard.Sink = (*Memory)(nil)

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Submit implements wizard.Sink. Values are copied so later mutation by the
// caller does not leak into the stored record.
func (m *Memory) Submit(ctx context.Context, sub wizard.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sub.Values = sub.Values.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, sub)
	return nil
}

// Submissions returns a copy of everything received, oldest first.
func (m *Memory) Submissions() []wizard.Submission {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]wizard.Submission, len(m.items))
	copy(out, m.items)
	return out
}

// Last returns the most recent submission.
func (m *Memory) Last() (wizard.Submission, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.items) == 0 {
		return wizard.Submission{}, false
	}
	return m.items[len(m.items)-1], true
}
