package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-stepform/pkg/formdata"
	"github.com/goliatone/go-stepform/pkg/model"
)

// RequiredMessage is reported for a field that is absent from the input.
const RequiredMessage = "Required"

// FieldErrors maps field names to the single message describing the first
// rule each field violated.
type FieldErrors map[string]string

// Fields returns the failing field names in sorted order.
func (e FieldErrors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, name := range e.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e[name]))
	}
	return "schema: validation failed: " + strings.Join(parts, "; ")
}

// StepSchema validates the input of one step. Implementations must be pure:
// the same input always yields the same result and nothing is mutated.
type StepSchema interface {
	Step() model.Step
	// Validate returns the accepted fields, or a non-empty FieldErrors when
	// any field fails. Input keys the step does not declare are dropped.
	Validate(input map[string]string) (formdata.Values, FieldErrors)
}

type fieldValidator struct {
	name  string
	rules []Rule
}

func (v fieldValidator) validate(input map[string]string) (string, string, bool) {
	value, ok := input[v.name]
	if !ok {
		return "", RequiredMessage, false
	}
	for _, rule := range v.rules {
		if !rule.Check(value) {
			return value, rule.Message(value), false
		}
	}
	return value, "", true
}

// RuleSchema is the StepSchema built from a declarative model.Step.
type RuleSchema struct {
	step       model.Step
	validators []fieldValidator
}

var _ StepSchema = (*RuleSchema)(nil)

// NewRuleSchema compiles every field's validation rules.
func NewRuleSchema(step model.Step) (*RuleSchema, error) {
	s := &RuleSchema{step: step}
	for _, field := range step.Fields {
		v := fieldValidator{name: field.Name}
		for _, decl := range field.Validations {
			rule, err := CompileRule(field, decl)
			if err != nil {
				return nil, fmt.Errorf("schema: step %q: %w", step.ID, err)
			}
			v.rules = append(v.rules, rule)
		}
		s.validators = append(s.validators, v)
	}
	return s, nil
}

// Step returns the step description the schema was compiled from.
func (s *RuleSchema) Step() model.Step {
	return s.step
}

// Validate runs each field's rules in declaration order.
func (s *RuleSchema) Validate(input map[string]string) (formdata.Values, FieldErrors) {
	accepted := make(formdata.Values, len(s.validators))
	var errs FieldErrors
	for _, v := range s.validators {
		value, msg, ok := v.validate(input)
		if !ok {
			if errs == nil {
				errs = make(FieldErrors)
			}
			errs[v.name] = msg
			continue
		}
		accepted[v.name] = value
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return accepted, nil
}
