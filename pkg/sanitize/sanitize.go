// Package sanitize strips markup from raw field input before it reaches
// validation, storage or rendered summaries.
package sanitize

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func textPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text removes every HTML element from raw and decodes the entities the
// policy escaped, so plain text such as "Smith & Sons" survives unchanged.
func Text(raw string) string {
	if raw == "" {
		return ""
	}
	return html.UnescapeString(textPolicy().Sanitize(raw))
}

// Values returns a copy of input with Text applied to every value. A nil
// input yields nil so "field absent" stays distinguishable from "empty".
func Values(input map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		out[key] = Text(value)
	}
	return out
}
