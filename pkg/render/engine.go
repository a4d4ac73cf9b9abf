package render

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// EngineOption configures an Engine before construction.
type EngineOption func(*engineConfig)

type engineConfig struct {
	baseDir string
	files   fs.FS
	globals map[string]any
}

// WithBaseDir loads templates from a directory on disk in addition to the
// embedded defaults. Files in dir win over embedded ones with the same name.
func WithBaseDir(dir string) EngineOption {
	return func(cfg *engineConfig) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS replaces the embedded templates with files.
func WithFS(files fs.FS) EngineOption {
	return func(cfg *engineConfig) {
		if files != nil {
			cfg.files = files
		}
	}
}

// WithGlobals seeds values available to every template.
func WithGlobals(data map[string]any) EngineOption {
	return func(cfg *engineConfig) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			if key = strings.TrimSpace(key); key != "" {
				cfg.globals[key] = value
			}
		}
	}
}

// Engine renders pongo2 templates from a template set. Parsed files are
// cached by the set.
type Engine struct {
	set *pongo2.TemplateSet
}

// NewEngine constructs an Engine. Without options it serves the embedded
// templates.
func NewEngine(options ...EngineOption) (*Engine, error) {
	defaults, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("render: embedded templates: %w", err)
	}
	cfg := &engineConfig{files: defaults}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("render: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	loaders = append(loaders, pongo2.NewFSLoader(cfg.files))

	set := pongo2.NewSet("stepform", loaders...)
	set.Globals = make(pongo2.Context, len(cfg.globals))
	set.Globals.Update(cfg.globals)
	return &Engine{set: set}, nil
}

// RenderTemplate executes the named template with data as its context.
func (e *Engine) RenderTemplate(name string, data pongo2.Context) ([]byte, error) {
	if e == nil || e.set == nil {
		return nil, errors.New("render: engine is nil")
	}
	tmpl, err := e.set.FromCache(name)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", name, err)
	}
	return execute(tmpl, data, name)
}

// RenderString parses and executes content.
func (e *Engine) RenderString(content string, data pongo2.Context) ([]byte, error) {
	if e == nil || e.set == nil {
		return nil, errors.New("render: engine is nil")
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return nil, fmt.Errorf("render: parse template string: %w", err)
	}
	return execute(tmpl, data, "string")
}

func execute(tmpl *pongo2.Template, data pongo2.Context, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(data, &buf); err != nil {
		return nil, fmt.Errorf("render: execute template %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Text renders the summary through a pongo2 template.
type Text struct {
	engine   *Engine
	name     string
	template string
	custom   *pongo2.Template
}

var _ Renderer = (*Text)(nil)

// TextOption configures a Text renderer.
type TextOption func(*Text) error

// WithTemplateFile renders with the template at path instead of the
// embedded summary.
func WithTemplateFile(path string) TextOption {
	return func(t *Text) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("render: read template: %w", err)
		}
		t.template = string(data)
		return nil
	}
}

// WithTemplateString renders with content instead of the embedded summary.
func WithTemplateString(content string) TextOption {
	return func(t *Text) error {
		t.template = content
		return nil
	}
}

// WithEngine shares an engine between renderers.
func WithEngine(engine *Engine) TextOption {
	return func(t *Text) error {
		if engine != nil {
			t.engine = engine
		}
		return nil
	}
}

// NewText returns the "pretty" renderer.
func NewText(options ...TextOption) (*Text, error) {
	t := &Text{name: "summary.tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	if t.engine == nil {
		engine, err := NewEngine()
		if err != nil {
			return nil, err
		}
		t.engine = engine
	}
	if t.template != "" {
		custom, err := t.engine.set.FromString(t.template)
		if err != nil {
			return nil, fmt.Errorf("render: parse template: %w", err)
		}
		t.custom = custom
	}
	return t, nil
}

func (t *Text) Name() string        { return FormatPretty }
func (t *Text) ContentType() string { return "text/plain; charset=utf-8" }

// Render implements Renderer.
func (t *Text) Render(ctx context.Context, summary Summary) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := pongo2.Context{"summary": summary}
	if t.custom != nil {
		return execute(t.custom, data, "custom")
	}
	return t.engine.RenderTemplate(t.name, data)
}
