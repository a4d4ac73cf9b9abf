// Package render turns a completed (or in-progress) form into a review
// summary and renders it as JSON or through pongo2 templates.
package render

import (
	"context"
)

// Renderer converts a Summary into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, summary Summary) ([]byte, error)
}

// Output format names understood by DefaultRegistry.
const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
)
