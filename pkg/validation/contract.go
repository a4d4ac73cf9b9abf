// Package validation checks submission payloads against the OpenAPI contract
// exported for the step catalog. It is meant for payloads that arrive from
// outside the controller, such as rows read back from a sink.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

// SchemaIssue represents a validation error with optional location metadata.
type SchemaIssue struct {
	Step    string `json:"step,omitempty"`
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult captures validation outcomes for a payload.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

type stepContract struct {
	id     string
	schema *openapi3.Schema
}

// Contract holds one exported object schema per step.
type Contract struct {
	steps []stepContract
}

// NewContract exports every step of reg with schema.StepOpenAPISchema.
func NewContract(reg *schema.Registry) *Contract {
	c := &Contract{}
	if reg == nil {
		return c
	}
	for _, step := range reg.Steps() {
		c.steps = append(c.steps, stepContract{id: step.ID, schema: schema.StepOpenAPISchema(step)})
	}
	return c
}

// ContractFromDocument reads the step schemas named by stepIDs from the
// components of an exported document.
func ContractFromDocument(doc *openapi3.T, stepIDs ...string) (*Contract, error) {
	if doc == nil || doc.Components == nil {
		return nil, errors.New("validation: document has no components")
	}
	c := &Contract{}
	for _, id := range stepIDs {
		ref, ok := doc.Components.Schemas[id]
		if !ok || ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("validation: document has no schema %q", id)
		}
		c.steps = append(c.steps, stepContract{id: id, schema: ref.Value})
	}
	return c, nil
}

// Validate checks values against every step schema and reports all issues,
// ordered by step.
func (c *Contract) Validate(values map[string]string) SchemaValidationResult {
	result := SchemaValidationResult{Valid: true}
	payload := make(map[string]any, len(values))
	for k, v := range values {
		payload[k] = v
	}
	for _, step := range c.steps {
		err := step.schema.VisitJSON(payload, openapi3.MultiErrors())
		if err == nil {
			continue
		}
		result.Valid = false
		for _, issue := range flatten(err) {
			issue.Step = step.id
			result.Issues = append(result.Issues, issue)
		}
	}
	return result
}

// ValidateSubmission is Validate over sub.Values.
func (c *Contract) ValidateSubmission(sub wizard.Submission) SchemaValidationResult {
	return c.Validate(sub.Values)
}

// DecodeSubmissions reads either one submission object or an array of them.
func DecodeSubmissions(r io.Reader) ([]wizard.Submission, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("validation: read submissions: %w", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, errors.New("validation: no submissions")
	}
	if strings.HasPrefix(trimmed, "[") {
		var subs []wizard.Submission
		if err := json.Unmarshal(data, &subs); err != nil {
			return nil, fmt.Errorf("validation: decode submissions: %w", err)
		}
		return subs, nil
	}
	var sub wizard.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("validation: decode submission: %w", err)
	}
	return []wizard.Submission{sub}, nil
}

func flatten(err error) []SchemaIssue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []SchemaIssue
		for _, inner := range multi {
			out = append(out, flatten(inner)...)
		}
		return out
	}
	return []SchemaIssue{issueFromError(err)}
}

func issueFromError(err error) SchemaIssue {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return SchemaIssue{Message: strings.TrimSpace(err.Error())}
	}
	pointer := schemaErr.JSONPointer()
	issue := SchemaIssue{Message: strings.TrimSpace(schemaErr.Reason)}
	if len(pointer) > 0 {
		issue.Path = "/" + strings.Join(escapePointer(pointer), "/")
		issue.Field = strings.Join(pointer, ".")
	}
	return issue
}

func escapePointer(parts []string) []string {
	out := make([]string, len(parts))
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~", "~0")
		out[i] = strings.ReplaceAll(part, "/", "~1")
	}
	return out
}
