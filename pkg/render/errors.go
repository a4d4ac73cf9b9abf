package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-stepform/pkg/model"
)

// FieldMessage pairs a validation message with the field it belongs to.
type FieldMessage struct {
	Field   string
	Label   string
	Message string
}

// ErrorMapping splits a set of messages into those that belong to a field of
// the step and form-level messages.
type ErrorMapping struct {
	Fields []FieldMessage
	Form   []string
}

// MapStepErrors orders errs by the step's field declaration. Keys the step
// does not declare become form-level messages prefixed by the key, so no
// message is lost.
func MapStepErrors(step model.Step, errs map[string]string) ErrorMapping {
	var mapping ErrorMapping
	if len(errs) == 0 {
		return mapping
	}

	known := make(map[string]struct{}, len(step.Fields))
	for _, field := range step.Fields {
		known[field.Name] = struct{}{}
		msg := strings.TrimSpace(errs[field.Name])
		if msg == "" {
			continue
		}
		label := field.Label
		if label == "" {
			label = model.DefaultLabeler(field.Name)
		}
		mapping.Fields = append(mapping.Fields, FieldMessage{Field: field.Name, Label: label, Message: msg})
	}

	var extra []string
	for key, msg := range errs {
		if _, ok := known[key]; ok {
			continue
		}
		msg = strings.TrimSpace(msg)
		if msg == "" {
			continue
		}
		if key = strings.TrimSpace(key); key != "" {
			msg = key + ": " + msg
		}
		extra = append(extra, msg)
	}
	sort.Strings(extra)
	mapping.Form = MergeFormErrors(nil, extra...)
	return mapping
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)

	out := make([]string, 0, len(combined))
	seen := make(map[string]struct{}, len(combined))
	for _, message := range combined {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
