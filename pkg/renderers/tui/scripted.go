package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

// ScriptPage answers one pass over a step: the field values and the action
// chosen afterwards. Fields left out keep the prompt default, which is the
// value the form already holds.
type ScriptPage struct {
	Values  map[string]string `yaml:"values,omitempty"`
	Action  string            `yaml:"action,omitempty"`
	Restart *bool             `yaml:"restart,omitempty"`
}

// Script is the document read by LoadScript.
type Script struct {
	Pages []ScriptPage `yaml:"pages"`
}

// LoadScript decodes a YAML answer script. Unknown keys are rejected.
func LoadScript(r io.Reader) (Script, error) {
	var script Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil {
		if errors.Is(err, io.EOF) {
			return Script{}, fmt.Errorf("tui: answer script is empty")
		}
		return Script{}, fmt.Errorf("tui: decode answer script: %w", err)
	}
	return script, nil
}

// LoadScriptFile reads a YAML answer script from path.
func LoadScriptFile(path string) (Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return Script{}, fmt.Errorf("tui: open answer script: %w", err)
	}
	defer f.Close()
	return LoadScript(f)
}

// ScriptedDriver answers prompts from a Script so the form can run without a
// terminal. Each action prompt moves to the next page.
type ScriptedDriver struct {
	pages []ScriptPage
	pos   int
	out   io.Writer
}

var _ PromptDriver = (*ScriptedDriver)(nil)

// NewScriptedDriver returns a driver replaying script. Info messages go to
// out; nil discards them.
func NewScriptedDriver(script Script, out io.Writer) *ScriptedDriver {
	if out == nil {
		out = io.Discard
	}
	return &ScriptedDriver{pages: script.Pages, out: out}
}

// Remaining reports how many pages have not been consumed.
func (d *ScriptedDriver) Remaining() int {
	return len(d.pages) - d.pos
}

func (d *ScriptedDriver) page() (ScriptPage, error) {
	if d.pos >= len(d.pages) {
		return ScriptPage{}, ErrScriptExhausted
	}
	return d.pages[d.pos], nil
}

func (d *ScriptedDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	page, err := d.page()
	if err != nil {
		return "", err
	}
	value, ok := page.Values[cfg.Name]
	if !ok {
		value = cfg.Default
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(value); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrInvalidAnswer, cfg.Name, err)
		}
	}
	return value, nil
}

func (d *ScriptedDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

// Confirm consumes the current page when it sets restart; otherwise it
// answers with the prompt default.
func (d *ScriptedDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	page, err := d.page()
	if err != nil || page.Restart == nil {
		return cfg.Default, nil
	}
	d.pos++
	return *page.Restart, nil
}

func (d *ScriptedDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	page, err := d.page()
	if err != nil {
		return 0, err
	}
	if cfg.Name == actionPrompt {
		d.pos++
		return matchAction(page.Action, cfg.Options)
	}

	value, ok := page.Values[cfg.Name]
	if !ok {
		return cfg.DefaultIndex, nil
	}
	if idx := indexOf(cfg.Options, value); idx >= 0 {
		return idx, nil
	}
	return -1, unknownOption(cfg.Name, value, cfg.Options)
}

func (d *ScriptedDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

// matchAction maps a scripted action onto the offered options. An empty
// action, "next" and "submit" all pick the primary (first) option.
func matchAction(action string, options []string) (int, error) {
	action = strings.TrimSpace(action)
	switch strings.ToLower(action) {
	case "", "next", "submit":
		return 0, nil
	}
	for i, option := range options {
		if strings.EqualFold(option, action) {
			return i, nil
		}
	}
	return -1, unknownOption(actionPrompt, action, options)
}

func unknownOption(name, value string, options []string) error {
	if hint, ok := closest(value, options); ok {
		return fmt.Errorf("%w: %q is not an option for %s; did you mean %q?", ErrInvalidAnswer, value, name, hint)
	}
	return fmt.Errorf("%w: %q is not an option for %s (options: %s)", ErrInvalidAnswer, value, name, strings.Join(options, ", "))
}

// closest returns the option nearest to value by edit distance, when it is
// near enough to be a plausible typo.
func closest(value string, options []string) (string, bool) {
	best, bestDist := "", -1
	needle := strings.ToLower(value)
	for _, option := range options {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(option))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = option, dist
		}
	}
	if bestDist < 0 {
		return "", false
	}
	limit := max(2, len([]rune(value))/3)
	return best, bestDist <= limit
}
