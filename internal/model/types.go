package model

// FieldType is the simplified enum for form-friendly field kinds. Every field
// collected by the step form is entered as text; enum-backed fields are still
// strings but render as a select.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeEnum   FieldType = "enum"
)

const (
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleEmail     = "email"
	ValidationRuleEnum      = "enum"
	ValidationRuleExpr      = "expr"
)

// MaskKind controls how a field's value is shown in summaries and logs.
type MaskKind string

const (
	MaskNone  MaskKind = ""
	MaskLast4 MaskKind = "last4"
	MaskFull  MaskKind = "full"
)

// Valid reports whether m is a known mask.
func (m MaskKind) Valid() bool {
	switch m {
	case MaskNone, MaskLast4, MaskFull:
		return true
	}
	return false
}

// ValidationRule represents a single validation constraint applied to a field.
// Length limits encode their threshold in Params["value"], pattern rules keep
// the expression in Params["pattern"], expr rules keep the program source in
// Params["expr"] and enum rules list their members in Values. Message overrides
// the generated error text when set.
type ValidationRule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Values  []string          `json:"values,omitempty" yaml:"values,omitempty"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
}

// Field models an individual input inside a step. Format, MaxLength, Mask and
// Widget are hints for presentation adapters (e.g. "email", "tel"); they are
// never enforced by validation on their own.
type Field struct {
	Name        string           `json:"name" yaml:"name"`
	Type        FieldType        `json:"type" yaml:"type"`
	Label       string           `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Format      string           `json:"format,omitempty" yaml:"format,omitempty"`
	MaxLength   int              `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Enum        []string         `json:"enum,omitempty" yaml:"enum,omitempty"`
	Mask        MaskKind         `json:"mask,omitempty" yaml:"mask,omitempty"`
	Widget      string           `json:"widget,omitempty" yaml:"widget,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty" yaml:"validations,omitempty"`
}

// Step is one page of the form. Its ordinal is implied by its position in the
// registry that owns it.
type Step struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// FieldNames lists the step's field names in declaration order.
func (s Step) FieldNames() []string {
	out := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		out = append(out, field.Name)
	}
	return out
}
