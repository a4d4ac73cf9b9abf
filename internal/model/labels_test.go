package model

import "testing"

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"firstName":          "First name",
		"cardCvv":            "Card CVV",
		"cardExpirationDate": "Card expiration date",
		"professional":       "Professional",
		"billing_info":       "Billing info",
		"step-id":            "Step ID",
		"  email ":           "Email",
	}
	for in, want := range cases {
		if got := DefaultLabeler(in); got != want {
			t.Errorf("DefaultLabeler(%q) = %q, want %q", in, got, want)
		}
	}
}
