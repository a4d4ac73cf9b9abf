package widgets

import (
	"testing"

	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/schema"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := model.Field{
		Type:   model.FieldTypeString,
		Mask:   model.MaskFull,
		Widget: "pin-pad",
	}

	if got, ok := reg.Resolve(field); !ok || got != "pin-pad" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  model.Field
		expect string
	}{
		{
			name:   "plain string",
			field:  model.Field{Type: model.FieldTypeString},
			expect: WidgetInput,
		},
		{
			name:   "enum type",
			field:  model.Field{Type: model.FieldTypeEnum, Enum: []string{"a", "b"}},
			expect: WidgetSelect,
		},
		{
			name: "enum rule values",
			field: model.Field{
				Type:        model.FieldTypeString,
				Validations: []model.ValidationRule{{Kind: model.ValidationRuleEnum, Values: []string{"x"}}},
			},
			expect: WidgetSelect,
		},
		{
			name:   "fully masked",
			field:  model.Field{Type: model.FieldTypeString, Mask: model.MaskFull},
			expect: WidgetPassword,
		},
		{
			name:   "last4 mask stays visible",
			field:  model.Field{Type: model.FieldTypeString, Mask: model.MaskLast4},
			expect: WidgetInput,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := reg.Resolve(tc.field)
			if !ok || got != tc.expect {
				t.Fatalf("expected %q, got %q (ok=%v)", tc.expect, got, ok)
			}
		})
	}
}

func TestRegister_PriorityAndOrder(t *testing.T) {
	reg := &Registry{}
	reg.Register("first", 10, func(model.Field) bool { return true })
	reg.Register("second", 10, func(model.Field) bool { return true })
	reg.Register("high", 20, func(f model.Field) bool { return f.Format == "tel" })

	if got, _ := reg.Resolve(model.Field{}); got != "first" {
		t.Fatalf("expected registration order to break ties, got %q", got)
	}
	if got, _ := reg.Resolve(model.Field{Format: "tel"}); got != "high" {
		t.Fatalf("expected higher priority, got %q", got)
	}
	reg.Register("  ", 99, func(model.Field) bool { return true })
	if got, _ := reg.Resolve(model.Field{}); got != "first" {
		t.Fatalf("blank names must be ignored, got %q", got)
	}
}

func TestResolve_EmptyRegistry(t *testing.T) {
	var reg *Registry
	if _, ok := reg.Resolve(model.Field{}); ok {
		t.Fatalf("nil registry should not resolve")
	}
	if _, ok := (&Registry{}).Resolve(model.Field{}); ok {
		t.Fatalf("empty registry should not resolve")
	}
}

func TestDecorate_DefaultCatalog(t *testing.T) {
	reg := NewRegistry()
	got := map[string]string{}
	for _, step := range schema.DefaultSteps() {
		for _, field := range reg.Decorate(step).Fields {
			got[field.Name] = field.Widget
		}
	}

	want := map[string]string{
		model.FieldExperience: WidgetSelect,
		model.FieldCardCVV:    WidgetPassword,
		model.FieldCardNumber: WidgetInput,
		model.FieldEmail:      WidgetInput,
	}
	for name, widget := range want {
		if got[name] != widget {
			t.Fatalf("%s: expected %q, got %q", name, widget, got[name])
		}
	}
}
