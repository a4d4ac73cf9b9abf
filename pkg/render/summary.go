package render

import (
	"strings"
	"time"

	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

// Row is one field in a summary section. Value is already masked.
type Row struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section groups the rows of one step.
type Section struct {
	StepID string `json:"stepId"`
	Title  string `json:"title"`
	Rows   []Row  `json:"rows"`
}

// Summary is the review view of a form record.
type Summary struct {
	Title        string    `json:"title"`
	SubmissionID string    `json:"submissionId,omitempty"`
	SubmittedAt  time.Time `json:"submittedAt,omitzero"`
	Sections     []Section `json:"sections"`
}

// DefaultTitle heads summaries that do not set one.
const DefaultTitle = "Review"

// NewSummary builds sections for every step in order. Fields missing from
// values are skipped, so a partial record yields a partial summary.
func NewSummary(steps []model.Step, values map[string]string) Summary {
	summary := Summary{Title: DefaultTitle}
	for _, step := range steps {
		section := Section{StepID: step.ID, Title: stepTitle(step)}
		for _, field := range step.Fields {
			value, ok := values[field.Name]
			if !ok {
				continue
			}
			section.Rows = append(section.Rows, Row{
				Field: field.Name,
				Label: field.Label,
				Value: Mask(field.Mask, value),
			})
		}
		summary.Sections = append(summary.Sections, section)
	}
	return summary
}

// SubmissionSummary builds the receipt for a submission.
func SubmissionSummary(steps []model.Step, sub wizard.Submission) Summary {
	summary := NewSummary(steps, sub.Values)
	summary.Title = "Submission received"
	summary.SubmissionID = sub.ID
	summary.SubmittedAt = sub.SubmittedAt
	return summary
}

func stepTitle(step model.Step) string {
	if step.Title != "" {
		return step.Title
	}
	if step.Name != "" {
		return step.Name
	}
	return step.ID
}

// Mask hides a value according to kind. MaskLast4 keeps the last four
// characters; MaskFull replaces the value with a fixed placeholder so its
// length is not revealed.
func Mask(kind model.MaskKind, value string) string {
	switch kind {
	case model.MaskFull:
		if value == "" {
			return ""
		}
		return "***"
	case model.MaskLast4:
		runes := []rune(value)
		if len(runes) <= 4 {
			return strings.Repeat("*", len(runes))
		}
		return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
	default:
		return value
	}
}
