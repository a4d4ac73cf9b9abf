package testsupport

import (
	"bytes"
	"context"
	"io"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

// PersonalInput returns input that passes the personal step.
func PersonalInput() map[string]string {
	return map[string]string{
		model.FieldFirstName:   "Jane",
		model.FieldLastName:    "Doe",
		model.FieldEmail:       "jane@example.com",
		model.FieldPhoneNumber: "5551234567",
	}
}

// ProfessionalInput returns input that passes the professional step.
func ProfessionalInput() map[string]string {
	return map[string]string{
		model.FieldCompany:    "Acme",
		model.FieldPosition:   "Engineer",
		model.FieldExperience: string(model.Experience2To5),
		model.FieldIndustry:   "Software",
	}
}

// BillingInput returns input that passes the billing step.
func BillingInput() map[string]string {
	return map[string]string{
		model.FieldCardNumber:         "4111111111111111",
		model.FieldCardHolderName:     "Jane Doe",
		model.FieldCardExpirationDate: "12/29",
		model.FieldCardCVV:            "123",
	}
}

// StepInputs returns valid input for every step in order.
func StepInputs() []map[string]string {
	return []map[string]string{PersonalInput(), ProfessionalInput(), BillingInput()}
}

// FullRecord is the union of StepInputs.
func FullRecord() map[string]string {
	out := make(map[string]string, 12)
	for _, in := range StepInputs() {
		maps.Copy(out, in)
	}
	return out
}

// With returns a copy of in with key set to value.
func With(in map[string]string, key, value string) map[string]string {
	out := maps.Clone(in)
	out[key] = value
	return out
}

// RecordingSink captures every submission it receives. Err, when set, is
// returned from Submit after recording.
type RecordingSink struct {
	mu          sync.Mutex
	submissions []wizard.Submission
	Err         error
}

// Submit implements wizard.Sink.
func (s *RecordingSink) Submit(_ context.Context, sub wizard.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, sub)
	return s.Err
}

// Submissions returns the recorded submissions.
func (s *RecordingSink) Submissions() []wizard.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]wizard.Submission(nil), s.submissions...)
}

// CompareGolden returns a diff of two decoded goldens, empty when equal.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput runs render against a buffer and returns what it wrote.
func CaptureOutput(t *testing.T, render func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}
