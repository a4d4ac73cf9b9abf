package sanitize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTextStripsMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Jane", "Jane"},
		{"empty", "", ""},
		{"bold", "<b>Jane</b>", "Jane"},
		{"script", `Acme<script>alert("x")</script>`, "Acme"},
		{"ampersand", "Smith & Sons", "Smith & Sons"},
		{"apostrophe", "O'Brien", "O'Brien"},
		{"email", "jane@example.com", "jane@example.com"},
		{"date", "12/29", "12/29"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.in); got != tc.want {
				t.Fatalf("Text(%q): want %q, got %q", tc.in, tc.want, got)
			}
		})
	}
}

func TestValuesCopiesInput(t *testing.T) {
	in := map[string]string{"company": "<i>Acme</i>", "position": "Lead"}
	got := Values(in)

	want := map[string]string{"company": "Acme", "position": "Lead"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if in["company"] != "<i>Acme</i>" {
		t.Fatalf("input was mutated: %v", in)
	}
	if Values(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
}
