package schema

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-stepform/pkg/model"
)

var (
	// ErrOutOfRange is returned for a step ordinal outside the registry.
	ErrOutOfRange = errors.New("schema: step ordinal out of range")
	// ErrEmptyRegistry is returned when a registry is built without steps.
	ErrEmptyRegistry = errors.New("schema: registry needs at least one step")
)

// Registry is the ordered, immutable list of step schemas. The ordinal of a
// step is its index.
type Registry struct {
	schemas []StepSchema
}

// NewRegistry wraps pre-built schemas, one per step, in step order.
func NewRegistry(schemas ...StepSchema) (*Registry, error) {
	if len(schemas) == 0 {
		return nil, ErrEmptyRegistry
	}
	for i, s := range schemas {
		if s == nil {
			return nil, fmt.Errorf("schema: step %d has a nil schema", i)
		}
	}
	return &Registry{schemas: append([]StepSchema(nil), schemas...)}, nil
}

// FromSteps compiles declarative steps into a registry.
func FromSteps(steps ...model.Step) (*Registry, error) {
	schemas := make([]StepSchema, 0, len(steps))
	for _, step := range steps {
		s, err := NewRuleSchema(step)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return NewRegistry(schemas...)
}

// Default returns the registry for the built-in personal, professional and
// billing steps.
func Default() *Registry {
	reg, err := FromSteps(DefaultSteps()...)
	if err != nil {
		panic(fmt.Sprintf("schema: default catalog: %v", err))
	}
	return reg
}

// Len reports the number of steps.
func (r *Registry) Len() int {
	return len(r.schemas)
}

// SchemaForStep returns the schema bound to ordinal.
func (r *Registry) SchemaForStep(ordinal int) (StepSchema, error) {
	if ordinal < 0 || ordinal >= len(r.schemas) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, ordinal, len(r.schemas))
	}
	return r.schemas[ordinal], nil
}

// Step returns the step description for ordinal.
func (r *Registry) Step(ordinal int) (model.Step, error) {
	s, err := r.SchemaForStep(ordinal)
	if err != nil {
		return model.Step{}, err
	}
	return s.Step(), nil
}

// Steps returns every step description in order.
func (r *Registry) Steps() []model.Step {
	out := make([]model.Step, len(r.schemas))
	for i, s := range r.schemas {
		out[i] = s.Step()
	}
	return out
}
