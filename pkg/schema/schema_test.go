package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/formdata"
	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/schema"
)

func personalInput() map[string]string {
	return map[string]string{
		model.FieldFirstName:   "Jane",
		model.FieldLastName:    "Doe",
		model.FieldEmail:       "jane@x.com",
		model.FieldPhoneNumber: "1234567890",
	}
}

func professionalInput() map[string]string {
	return map[string]string{
		model.FieldCompany:    "Acme",
		model.FieldPosition:   "Eng",
		model.FieldExperience: "2-5 years",
		model.FieldIndustry:   "Tech",
	}
}

func billingInput() map[string]string {
	return map[string]string{
		model.FieldCardNumber:         "1234567890123456",
		model.FieldCardHolderName:     "Jane Doe",
		model.FieldCardExpirationDate: "12/29",
		model.FieldCardCVV:            "123",
	}
}

func mustSchema(t *testing.T, ordinal int) schema.StepSchema {
	t.Helper()
	s, err := schema.Default().SchemaForStep(ordinal)
	if err != nil {
		t.Fatalf("schema for step %d: %v", ordinal, err)
	}
	return s
}

func with(base map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(base))
	for k, v := range base {
		out[k] = v
	}
	out[key] = value
	return out
}

func TestDefault_ValidInputsPass(t *testing.T) {
	inputs := []map[string]string{personalInput(), professionalInput(), billingInput()}
	for ordinal, input := range inputs {
		got, errs := mustSchema(t, ordinal).Validate(input)
		if errs != nil {
			t.Fatalf("step %d: unexpected errors %v", ordinal, errs)
		}
		if diff := cmp.Diff(formdata.Values(input), got); diff != "" {
			t.Fatalf("step %d accepted values mismatch (-want +got):\n%s", ordinal, diff)
		}
	}
}

func TestDefault_RuleMessages(t *testing.T) {
	cases := []struct {
		name    string
		ordinal int
		input   map[string]string
		field   string
		want    string
	}{
		{"first name", 0, with(personalInput(), model.FieldFirstName, "J"), model.FieldFirstName, "First name must be at least 2 characters long"},
		{"last name", 0, with(personalInput(), model.FieldLastName, ""), model.FieldLastName, "Last name must be at least 2 characters long"},
		{"email", 0, with(personalInput(), model.FieldEmail, "jane@"), model.FieldEmail, "Invalid email"},
		{"phone", 0, with(personalInput(), model.FieldPhoneNumber, "123456789"), model.FieldPhoneNumber, "Phone number must be at least 10 characters long"},
		{"company", 1, with(professionalInput(), model.FieldCompany, "A"), model.FieldCompany, "Company name must be at least 2 characters long"},
		{"position", 1, with(professionalInput(), model.FieldPosition, "E"), model.FieldPosition, "Position must be at least 2 characters long"},
		{"industry", 1, with(professionalInput(), model.FieldIndustry, "T"), model.FieldIndustry, "Industry must be at least 2 characters long"},
		{
			"experience", 1, with(professionalInput(), model.FieldExperience, "3 years"), model.FieldExperience,
			"Invalid enum value. Expected '0-2 years' | '2-5 years' | '5-10 years' | '10+ years', received '3 years'",
		},
		{"card holder", 2, with(billingInput(), model.FieldCardHolderName, "J"), model.FieldCardHolderName, "Card holder name must be at least 2 characters long"},
		{"expiration", 2, with(billingInput(), model.FieldCardExpirationDate, "1/29"), model.FieldCardExpirationDate, "Card expiration date must be at least 5 characters long"},
		{"cvv short", 2, with(billingInput(), model.FieldCardCVV, "12"), model.FieldCardCVV, "Card CVV must be at least 3 characters long"},
		{"cvv long", 2, with(billingInput(), model.FieldCardCVV, "12345"), model.FieldCardCVV, "Card CVV must be at most 4 characters long"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, errs := mustSchema(t, tc.ordinal).Validate(tc.input)
			if got != nil {
				t.Fatalf("expected no accepted values on failure, got %v", got)
			}
			want := schema.FieldErrors{tc.field: tc.want}
			if diff := cmp.Diff(want, errs); diff != "" {
				t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefault_CardNumberBoundaries(t *testing.T) {
	s := mustSchema(t, 2)
	cases := []struct {
		length int
		want   string
	}{
		{15, "Card number must be at least 16 characters long"},
		{16, ""},
		{17, "Card number must be at most 16 characters long"},
	}
	for _, tc := range cases {
		_, errs := s.Validate(with(billingInput(), model.FieldCardNumber, strings.Repeat("4", tc.length)))
		if got := errs[model.FieldCardNumber]; got != tc.want {
			t.Fatalf("length %d: expected %q, got %q", tc.length, tc.want, got)
		}
	}
}

func TestDefault_OneMessagePerFieldFirstFailureWins(t *testing.T) {
	// An empty CVV violates only the min rule; the max rule never runs.
	_, errs := mustSchema(t, 2).Validate(with(billingInput(), model.FieldCardCVV, ""))
	if diff := cmp.Diff(schema.FieldErrors{model.FieldCardCVV: "Card CVV must be at least 3 characters long"}, errs); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestDefault_MultipleFailingFields(t *testing.T) {
	input := with(with(personalInput(), model.FieldFirstName, "J"), model.FieldEmail, "nope")
	_, errs := mustSchema(t, 0).Validate(input)
	if diff := cmp.Diff([]string{model.FieldEmail, model.FieldFirstName}, errs.Fields()); diff != "" {
		t.Fatalf("failing fields mismatch (-want +got):\n%s", diff)
	}
}

func TestDefault_MissingFieldIsRequired(t *testing.T) {
	input := personalInput()
	delete(input, model.FieldPhoneNumber)
	_, errs := mustSchema(t, 0).Validate(input)
	if got := errs[model.FieldPhoneNumber]; got != schema.RequiredMessage {
		t.Fatalf("expected %q, got %q", schema.RequiredMessage, got)
	}
}

func TestDefault_UnknownKeysAreDropped(t *testing.T) {
	got, errs := mustSchema(t, 0).Validate(with(personalInput(), "company", "Acme"))
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := got["company"]; ok {
		t.Fatalf("field from another step leaked into the personal step: %v", got)
	}
}

func TestEmailRule(t *testing.T) {
	rule := schema.Email("Invalid email")
	valid := []string{"jane@x.com", "jane.doe+tag@mail.example.org", "J_D@EXAMPLE.IO"}
	invalid := []string{"", "jane", "jane@", "@x.com", ".jane@x.com", "jane..doe@x.com", "jane@x.c", "jane@-x.com", "jane.@x.com"}
	for _, v := range valid {
		if !rule.Check(v) {
			t.Errorf("expected %q to be a valid email", v)
		}
	}
	for _, v := range invalid {
		if rule.Check(v) {
			t.Errorf("expected %q to be rejected", v)
		}
	}
}

func TestLengthRulesCountCharacters(t *testing.T) {
	rule := schema.MinLength(2, "too short")
	if !rule.Check("Zoë") || rule.Check("ë") {
		t.Fatalf("length rules should count characters, not bytes")
	}
}

func TestExprRule(t *testing.T) {
	rule, err := schema.Expr(`value matches "^[0-9]+$"`, "digits only")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !rule.Check("1234") {
		t.Fatalf("expected digits to pass")
	}
	if rule.Check("12a4") {
		t.Fatalf("expected letters to fail")
	}
	if got := rule.Message("12a4"); got != "digits only" {
		t.Fatalf("unexpected message %q", got)
	}

	if _, err := schema.Expr(`len(value)`, "not a bool"); err == nil {
		t.Fatalf("expected non-boolean program to be rejected")
	}
}

func TestCompileRule_DefaultMessages(t *testing.T) {
	field := model.Field{Name: "nickName"}
	rule, err := schema.CompileRule(field, model.ValidationRule{
		Kind:   model.ValidationRuleMinLength,
		Params: map[string]string{"value": "3"},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := rule.Message("ab"); got != "Nick name must be at least 3 characters long" {
		t.Fatalf("unexpected default message %q", got)
	}

	if _, err := schema.CompileRule(field, model.ValidationRule{Kind: "bogus"}); err == nil {
		t.Fatalf("expected unknown rule kind to fail")
	}
	if _, err := schema.CompileRule(field, model.ValidationRule{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "x"}}); err == nil {
		t.Fatalf("expected non-numeric length to fail")
	}
}

func TestRegistry_SchemaForStepOutOfRange(t *testing.T) {
	reg := schema.Default()
	if reg.Len() != 3 {
		t.Fatalf("expected 3 steps, got %d", reg.Len())
	}
	for _, ordinal := range []int{-1, 3, 42} {
		if _, err := reg.SchemaForStep(ordinal); !errors.Is(err, schema.ErrOutOfRange) {
			t.Fatalf("ordinal %d: expected ErrOutOfRange, got %v", ordinal, err)
		}
	}
}

func TestRegistry_StepsOrder(t *testing.T) {
	var ids []string
	for _, step := range schema.Default().Steps() {
		ids = append(ids, step.ID)
	}
	if diff := cmp.Diff([]string{"personal", "professional", "billing"}, ids); diff != "" {
		t.Fatalf("step order mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRegistry_RejectsEmpty(t *testing.T) {
	if _, err := schema.NewRegistry(); !errors.Is(err, schema.ErrEmptyRegistry) {
		t.Fatalf("expected ErrEmptyRegistry, got %v", err)
	}
}
