// Package preset handles loading built-in quality map presets.
package preset

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/qualitymap/internal/scorecard"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Preset defines the slot layout and starter criteria for a new quality map.
type Preset struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	ChatCount   int         `yaml:"chat_count"`
	CallCount   int         `yaml:"call_count"`
	Criteria    []Criterion `yaml:"criteria"`
}

// Criterion is a starter criterion; Category is a category name.
type Criterion struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

// Validate checks slot counts against the column kind bounds.
func (p *Preset) Validate() error {
	for _, c := range []struct {
		kind scorecard.ColumnKind
		n    int
	}{{scorecard.KindChat, p.ChatCount}, {scorecard.KindCall, p.CallCount}} {
		lo, hi := c.kind.SlotBounds()
		if c.n < lo || c.n > hi {
			return fmt.Errorf("preset %q: %s count %d outside %d-%d", p.Name, c.kind, c.n, lo, hi)
		}
	}
	return nil
}

// Categories returns the distinct category names in first-seen order.
func (p *Preset) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range p.Criteria {
		if c.Category == "" || seen[c.Category] {
			continue
		}
		seen[c.Category] = true
		out = append(out, c.Category)
	}
	return out
}

// LoadBuiltin loads a built-in preset by name.
func LoadBuiltin(name string) (*Preset, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("preset.LoadBuiltin: unknown preset %q: %w", name, err)
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("preset.LoadBuiltin: parse %q: %w", name, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("preset.LoadBuiltin: %w", err)
	}
	return &p, nil
}

// List returns the names of all built-in presets, sorted.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") {
			names = append(names, strings.TrimSuffix(n, ".yaml"))
		}
	}
	sort.Strings(names)
	return names, nil
}
