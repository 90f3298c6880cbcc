// Package snapshot reads scorecard snapshots (a quality map plus its
// criteria catalog) from YAML or JSON files.
package snapshot

import (
	"crypto/sha256"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/scorecard"
)

// Snapshot is a self-contained scorecard: everything the engine needs to
// evaluate one quality map offline.
type Snapshot struct {
	FilePath   string                `yaml:"-"`
	Hash       string                `yaml:"-"`
	QualityMap qualitymap.QualityMap `yaml:"quality_map"`
	Criteria   []scorecard.Criterion `yaml:"criteria"`
}

// Load reads a snapshot file and computes its SHA-256 hash. JSON files
// parse as YAML.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot.Load: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot.Load: %s: %w", path, err)
	}
	s.FilePath = path
	return s, nil
}

// Parse decodes snapshot bytes.
func Parse(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	h := sha256.Sum256(data)
	s.Hash = fmt.Sprintf("sha256:%x", h)
	return &s, nil
}

// Kinds returns the column kinds present: chats always, calls only when
// the map has call slots.
func (s *Snapshot) Kinds() []scorecard.ColumnKind {
	kinds := []scorecard.ColumnKind{scorecard.KindChat}
	if s.QualityMap.Slots(scorecard.KindCall) > 0 {
		kinds = append(kinds, scorecard.KindCall)
	}
	return kinds
}

// Input assembles the engine input for kind.
func (s *Snapshot) Input(kind scorecard.ColumnKind, editable bool) scorecard.Input {
	return qualitymap.Input(&s.QualityMap, kind, s.Criteria, editable)
}
