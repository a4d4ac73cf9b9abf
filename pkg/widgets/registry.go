package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-stepform/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetInput    = "input"
	WidgetSelect   = "select"
	WidgetPassword = "password"
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit hints or registered
// matchers. Higher priority wins; ties fall back to registration order. An
// empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. Callers should avoid duplicate names; the
// latest registration wins during resolution.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit Widget hint on the
// field is honoured before matcher evaluation.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if explicit := strings.TrimSpace(field.Widget); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate sets Widget on every field of step that resolves to one, keeping
// hints that are already present.
func (r *Registry) Decorate(step model.Step) model.Step {
	if len(step.Fields) == 0 {
		return step
	}
	fields := make([]model.Field, len(step.Fields))
	for idx, field := range step.Fields {
		if widget, ok := r.Resolve(field); ok {
			field.Widget = widget
		}
		fields[idx] = field
	}
	step.Fields = fields
	return step
}

// EnumOptions lists the choices offered for a select widget: the field's Enum,
// else the members of its enum rule.
func EnumOptions(field model.Field) []string {
	if len(field.Enum) > 0 {
		return field.Enum
	}
	for _, rule := range field.Validations {
		if rule.Kind == model.ValidationRuleEnum && len(rule.Values) > 0 {
			return rule.Values
		}
	}
	return nil
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetPassword, 90, func(field model.Field) bool {
		return field.Mask == model.MaskFull
	})

	r.Register(WidgetSelect, 70, func(field model.Field) bool {
		return field.Type == model.FieldTypeEnum || len(EnumOptions(field)) > 0
	})

	r.Register(WidgetInput, 0, func(model.Field) bool {
		return true
	})
}
