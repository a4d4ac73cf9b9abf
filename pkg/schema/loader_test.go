package schema_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/schema"
)

const catalogYAML = `
steps:
  - id: personal
    name: Personal Info
    fields:
      - name: firstName
        validations:
          - kind: minLength
            params: { value: "3" }
            message: First name needs three letters
  - id: professional
    fields:
      - name: experience
        enum: ["junior", "senior"]
        validations:
          - kind: enum
  - id: billing
    name: Billing Info
    fields:
      - name: cardCvv
        label: CVV
        validations:
          - kind: expr
            params: { expr: 'value matches "^[0-9]{3,4}$"' }
`

func TestLoadCatalog_FromFS(t *testing.T) {
	fsys := fstest.MapFS{"catalog.yaml": {Data: []byte(catalogYAML)}}
	reg, err := schema.LoadCatalog(context.Background(), schema.SourceFromFS("catalog.yaml"), fsys)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	steps := reg.Steps()
	if got := steps[1].Name; got != "Professional" {
		t.Fatalf("expected derived step name, got %q", got)
	}
	if got := steps[0].Fields[0].Label; got != "First name" {
		t.Fatalf("expected derived field label, got %q", got)
	}

	personal, _ := reg.SchemaForStep(0)
	_, errs := personal.Validate(map[string]string{"firstName": "Jo"})
	if diff := cmp.Diff(schema.FieldErrors{"firstName": "First name needs three letters"}, errs); diff != "" {
		t.Fatalf("custom message mismatch (-want +got):\n%s", diff)
	}

	professional, _ := reg.SchemaForStep(1)
	_, errs = professional.Validate(map[string]string{"experience": "mid"})
	want := "Invalid enum value. Expected 'junior' | 'senior', received 'mid'"
	if got := errs["experience"]; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	billing, _ := reg.SchemaForStep(2)
	if _, errs := billing.Validate(map[string]string{"cardCvv": "123"}); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	_, errs = billing.Validate(map[string]string{"cardCvv": "12x"})
	if got := errs["cardCvv"]; got != "CVV is invalid" {
		t.Fatalf("unexpected expr message %q", got)
	}
}

func TestLoadCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	reg, err := schema.LoadCatalog(context.Background(), schema.SourceFromFile(path), nil)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if reg.Len() != schema.StepCount {
		t.Fatalf("expected %d steps, got %d", schema.StepCount, reg.Len())
	}
}

func TestParseCatalog_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"two steps":   "steps: [{id: a, fields: [{name: x}]}, {id: b, fields: [{name: y}]}]",
		"missing id":  "steps: [{fields: [{name: x}]}, {id: b, fields: [{name: y}]}, {id: c, fields: [{name: z}]}]",
		"dup step":    "steps: [{id: a, fields: [{name: x}]}, {id: a, fields: [{name: y}]}, {id: c, fields: [{name: z}]}]",
		"dup field":   "steps: [{id: a, fields: [{name: x}]}, {id: b, fields: [{name: x}]}, {id: c, fields: [{name: z}]}]",
		"no fields":   "steps: [{id: a}, {id: b, fields: [{name: y}]}, {id: c, fields: [{name: z}]}]",
		"bad yaml":    "steps: [",
		"nameless":    "steps: [{id: a, fields: [{label: X}]}, {id: b, fields: [{name: y}]}, {id: c, fields: [{name: z}]}]",
		"bad mask":    "steps: [{id: a, fields: [{name: x, mask: stars}]}, {id: b, fields: [{name: y}]}, {id: c, fields: [{name: z}]}]",
		"unknown key": "steps: [{id: a, fields: [{name: x, validation: [{kind: minLength, params: {value: \"2\"}}]}]}, {id: b, fields: [{name: y}]}, {id: c, fields: [{name: z}]}]",
		"unknown top": "stepz: []\nsteps: [{id: a, fields: [{name: x}]}, {id: b, fields: [{name: y}]}, {id: c, fields: [{name: z}]}]",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := schema.ParseCatalog([]byte(doc)); !errors.Is(err, schema.ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestParseCatalog_MisspelledKeyDoesNotDropRules(t *testing.T) {
	doc := `
steps:
  - id: personal
    fields:
      - name: firstName
        validation:
          - kind: minLength
            params: { value: "2" }
  - id: professional
    fields: [{name: company}]
  - id: billing
    fields: [{name: cardCvv}]
`
	_, err := schema.ParseCatalog([]byte(doc))
	if !errors.Is(err, schema.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
	if !strings.Contains(err.Error(), "validation") {
		t.Fatalf("expected the unknown key in the error, got %v", err)
	}
}

func TestLoadCatalog_BadRuleFailsCompilation(t *testing.T) {
	doc := `
steps:
  - id: a
    fields: [{name: x, validations: [{kind: minLength, params: {value: "two"}}]}]
  - id: b
    fields: [{name: y}]
  - id: c
    fields: [{name: z}]
`
	fsys := fstest.MapFS{"c.yaml": {Data: []byte(doc)}}
	if _, err := schema.LoadCatalog(context.Background(), schema.SourceFromFS("c.yaml"), fsys); err == nil {
		t.Fatalf("expected compile error for non-numeric length")
	}
}

func TestLoadCatalog_NilSource(t *testing.T) {
	if _, err := schema.LoadCatalog(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}
