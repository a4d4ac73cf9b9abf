package schema

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-stepform/pkg/model"
)

// StepCount is the fixed number of steps a catalog must declare.
const StepCount = 3

// ErrInvalidCatalog wraps every structural problem found in a catalog file.
var ErrInvalidCatalog = errors.New("schema: invalid catalog")

// catalogDocument is the on-disk shape of a catalog (YAML or JSON, which is a
// YAML subset).
type catalogDocument struct {
	Steps []model.Step `yaml:"steps"`
}

// LoadCatalog reads a catalog from src and compiles it into a registry.
// Files may be YAML or JSON. fsys is only consulted for SourceKindFS.
func LoadCatalog(ctx context.Context, src Source, fsys fs.FS) (*Registry, error) {
	if src == nil {
		return nil, errors.New("schema loader: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case SourceKindFS:
		data, err = loadFromFS(ctx, fsys, src.Location())
	default:
		err = errors.New("schema loader: unsupported source kind")
	}
	if err != nil {
		return nil, err
	}

	steps, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Location(), err)
	}
	return FromSteps(steps...)
}

// ParseCatalog decodes and checks a catalog document. Unknown keys are
// rejected. Missing field labels are derived from the field name.
func ParseCatalog(data []byte) ([]model.Step, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: document is empty", ErrInvalidCatalog)
	}

	var doc catalogDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if len(doc.Steps) != StepCount {
		return nil, fmt.Errorf("%w: expected %d steps, got %d", ErrInvalidCatalog, StepCount, len(doc.Steps))
	}

	seenSteps := make(map[string]struct{}, len(doc.Steps))
	seenFields := make(map[string]string)
	for i := range doc.Steps {
		step := &doc.Steps[i]
		step.ID = strings.TrimSpace(step.ID)
		if step.ID == "" {
			return nil, fmt.Errorf("%w: step %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := seenSteps[step.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate step id %q", ErrInvalidCatalog, step.ID)
		}
		seenSteps[step.ID] = struct{}{}
		if step.Name == "" {
			step.Name = model.DefaultLabeler(step.ID)
		}
		if len(step.Fields) == 0 {
			return nil, fmt.Errorf("%w: step %q declares no fields", ErrInvalidCatalog, step.ID)
		}

		for j := range step.Fields {
			field := &step.Fields[j]
			field.Name = strings.TrimSpace(field.Name)
			if field.Name == "" {
				return nil, fmt.Errorf("%w: step %q field %d has no name", ErrInvalidCatalog, step.ID, j)
			}
			if owner, dup := seenFields[field.Name]; dup {
				return nil, fmt.Errorf("%w: field %q declared by steps %q and %q", ErrInvalidCatalog, field.Name, owner, step.ID)
			}
			seenFields[field.Name] = step.ID
			if field.Label == "" {
				field.Label = model.DefaultLabeler(field.Name)
			}
			if !field.Mask.Valid() {
				return nil, fmt.Errorf("%w: field %q has unknown mask %q", ErrInvalidCatalog, field.Name, field.Mask)
			}
			if field.Type == "" {
				field.Type = model.FieldTypeString
				if len(field.Enum) > 0 {
					field.Type = model.FieldTypeEnum
				}
			}
		}
	}
	return doc.Steps, nil
}

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("schema loader: file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("schema loader: fs path is required")
	}
	if files == nil {
		return nil, errors.New("schema loader: fs is nil")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return fs.ReadFile(files, name)
}
