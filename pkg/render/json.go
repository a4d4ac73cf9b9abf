package render

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSON renders the summary as indented JSON.
type JSON struct{}

var _ Renderer = JSON{}

// NewJSON returns the JSON renderer.
func NewJSON() JSON { return JSON{} }

func (JSON) Name() string        { return FormatJSON }
func (JSON) ContentType() string { return "application/json" }

// Render implements Renderer.
func (JSON) Render(ctx context.Context, summary Summary) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: encode summary: %w", err)
	}
	return append(out, '\n'), nil
}
