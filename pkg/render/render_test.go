package render_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/formdata"
	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/testsupport"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

func receipt() render.Summary {
	sub := wizard.Submission{
		ID:          "sub-1",
		Values:      formdata.Values(testsupport.FullRecord()),
		SubmittedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	return render.SubmissionSummary(schema.DefaultSteps(), sub)
}

func TestMask(t *testing.T) {
	cases := []struct {
		kind  model.MaskKind
		value string
		want  string
	}{
		{model.MaskNone, "Jane", "Jane"},
		{model.MaskLast4, "4111111111111111", "************1111"},
		{model.MaskLast4, "123", "***"},
		{model.MaskFull, "1234", "***"},
		{model.MaskFull, "", ""},
	}
	for _, tc := range cases {
		if got := render.Mask(tc.kind, tc.value); got != tc.want {
			t.Fatalf("Mask(%q, %q): want %q, got %q", tc.kind, tc.value, tc.want, got)
		}
	}
}

func TestNewSummaryMasksCardFields(t *testing.T) {
	summary := receipt()

	if len(summary.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(summary.Sections))
	}
	billing := summary.Sections[2]
	want := render.Section{
		StepID: "billing",
		Title:  "Billing Information",
		Rows: []render.Row{
			{Field: model.FieldCardNumber, Label: "Card Number", Value: "************1111"},
			{Field: model.FieldCardHolderName, Label: "Card Holder Name", Value: "Jane Doe"},
			{Field: model.FieldCardExpirationDate, Label: "Card Expiration Date", Value: "12/29"},
			{Field: model.FieldCardCVV, Label: "Card CVV", Value: "***"},
		},
	}
	if diff := cmp.Diff(want, billing); diff != "" {
		t.Fatalf("billing section mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSummarySkipsMissingFields(t *testing.T) {
	summary := render.NewSummary(schema.DefaultSteps(), testsupport.PersonalInput())
	if summary.Title != render.DefaultTitle {
		t.Fatalf("unexpected title %q", summary.Title)
	}
	if n := len(summary.Sections[0].Rows); n != 4 {
		t.Fatalf("expected 4 personal rows, got %d", n)
	}
	if n := len(summary.Sections[1].Rows); n != 0 {
		t.Fatalf("expected empty professional section, got %d rows", n)
	}
}

func TestJSONRenderer(t *testing.T) {
	out, err := render.NewJSON().Render(context.Background(), receipt())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "4111111111111111") {
		t.Fatalf("card number leaked: %s", out)
	}

	var decoded render.Summary
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(receipt(), decoded); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONRendererMatchesGolden(t *testing.T) {
	path := filepath.Join("testdata", "receipt.golden.json")
	out := testsupport.CaptureOutput(t, func(w io.Writer) error {
		data, err := render.NewJSON().Render(testsupport.Context(), receipt())
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
	if testsupport.WriteMaybeGolden(t, path, []byte(out)) {
		return
	}

	var want, got render.Summary
	if err := json.Unmarshal(testsupport.MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("decode golden: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("receipt mismatch (-want +got):\n%s", diff)
	}
}

func TestTextRendererUsesEmbeddedTemplate(t *testing.T) {
	text, err := render.NewText()
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	out, err := text.Render(context.Background(), receipt())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)

	for _, want := range []string{
		"Submission received",
		"Submission: sub-1",
		"Personal Information",
		"Billing Information",
		"************1111",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "4111111111111111") {
		t.Fatalf("card number leaked:\n%s", got)
	}
	for _, line := range strings.Split(got, "\n") {
		if strings.Contains(line, "Card CVV") && !strings.HasSuffix(strings.TrimSpace(line), "***") {
			t.Fatalf("cvv not masked: %q", line)
		}
	}
}

func TestTextRendererDoesNotHTMLEscape(t *testing.T) {
	values := testsupport.With(testsupport.PersonalInput(), model.FieldLastName, "O'Brien & Sons")
	summary := render.NewSummary(schema.DefaultSteps(), values)

	text, err := render.NewText()
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	out, err := text.Render(context.Background(), summary)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "O'Brien & Sons") {
		t.Fatalf("expected raw text, got:\n%s", out)
	}
}

func TestTextRendererCustomTemplateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.tpl")
	tpl := `{{ summary.SubmissionID }}{% for s in summary.Sections %}|{{ s.StepID }}={{ s.Rows|length }}{% endfor %}`
	if err := os.WriteFile(path, []byte(tpl), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	text, err := render.NewText(render.WithTemplateFile(path))
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	out, err := text.Render(context.Background(), receipt())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, want := string(out), "sub-1|personal=4|professional=4|billing=4"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestTextRendererRejectsBrokenTemplate(t *testing.T) {
	if _, err := render.NewText(render.WithTemplateString("{% for %}")); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := render.NewText(render.WithTemplateFile(filepath.Join(t.TempDir(), "missing.tpl"))); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestEngineGlobals(t *testing.T) {
	engine, err := render.NewEngine(render.WithGlobals(map[string]any{"product": "stepform"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	out, err := engine.RenderString("{{ product }}:{{ name }}", map[string]any{"name": "Jane"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "stepform:Jane" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg, err := render.DefaultRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if diff := cmp.Diff([]string{render.FormatJSON, render.FormatPretty}, reg.List()); diff != "" {
		t.Fatalf("formats mismatch (-want +got):\n%s", diff)
	}
	if _, err := reg.Get("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if err := reg.Register(render.NewJSON()); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestMapStepErrors(t *testing.T) {
	step := schema.DefaultSteps()[0]
	errs := map[string]string{
		model.FieldPhoneNumber: "Phone number must be at least 10 characters long",
		model.FieldFirstName:   "First name must be at least 2 characters long",
		"server":               "rate limited",
	}

	got := render.MapStepErrors(step, errs)
	want := render.ErrorMapping{
		Fields: []render.FieldMessage{
			{Field: model.FieldFirstName, Label: "First Name", Message: "First name must be at least 2 characters long"},
			{Field: model.FieldPhoneNumber, Label: "Phone Number", Message: "Phone number must be at least 10 characters long"},
		},
		Form: []string{"server: rate limited"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
