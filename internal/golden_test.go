package internal

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dshills/qualitymap/internal/render"
	"github.com/dshills/qualitymap/internal/scorecard"
	"github.com/dshills/qualitymap/internal/schema"
	"github.com/dshills/qualitymap/internal/snapshot"
)

func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(filename))
}

type expectKind struct {
	Scores        []float64 `yaml:"scores"`
	Filled        []bool    `yaml:"filled"`
	Average       float64   `yaml:"average"`
	TotalDeducted float64   `yaml:"total_deducted"`
}

type expectation struct {
	Expect struct {
		Order          []int64     `yaml:"order"`
		Chat           *expectKind `yaml:"chat"`
		Call           *expectKind `yaml:"call"`
		OverallAverage *float64    `yaml:"overall_average"`
	} `yaml:"expect"`
}

func TestGoldenSnapshots(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join(projectRoot(), "testdata", "snapshots", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no golden snapshots found")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			snap, err := snapshot.Load(path)
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range schema.Validate(snap) {
				t.Errorf("validation error: %s", e)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			var exp expectation
			if err := yaml.Unmarshal(data, &exp); err != nil {
				t.Fatal(err)
			}

			var sections []render.Section
			for _, kind := range snap.Kinds() {
				res := scorecard.Evaluate(snap.Input(kind, false))
				sections = append(sections, render.Section{Kind: kind, Result: res})

				want := exp.Expect.Chat
				if kind == scorecard.KindCall {
					want = exp.Expect.Call
				}
				if want == nil {
					continue
				}
				checkKind(t, kind, res, want)

				// Evaluating twice yields the same figures.
				again := scorecard.Evaluate(snap.Input(kind, false))
				if again.Stats != res.Stats {
					t.Errorf("%s: non-deterministic stats %+v vs %+v", kind, res.Stats, again.Stats)
				}
			}

			if len(exp.Expect.Order) > 0 {
				rows := sections[0].Result.Matrix.Rows
				if len(rows) != len(exp.Expect.Order)+1 {
					t.Fatalf("rows = %d, want %d", len(rows), len(exp.Expect.Order)+1)
				}
				for i, id := range exp.Expect.Order {
					if rows[i].CriterionID != id {
						t.Errorf("row %d = criterion %d, want %d", i, rows[i].CriterionID, id)
					}
				}
				if !rows[len(rows)-1].IsTotal {
					t.Error("last row is not the total row")
				}
			}

			if exp.Expect.OverallAverage != nil {
				report := render.NewReport(&snap.QualityMap, snap.Hash, sections...)
				if report.Overall.AverageScore != *exp.Expect.OverallAverage {
					t.Errorf("overall average = %g, want %g", report.Overall.AverageScore, *exp.Expect.OverallAverage)
				}
			}
		})
	}
}

func checkKind(t *testing.T, kind scorecard.ColumnKind, res *scorecard.Result, want *expectKind) {
	t.Helper()
	if len(res.Scores) != len(want.Scores) {
		t.Fatalf("%s: %d scores, want %d", kind, len(res.Scores), len(want.Scores))
	}
	for i, cs := range res.Scores {
		if cs.Score != want.Scores[i] || cs.Filled != want.Filled[i] {
			t.Errorf("%s column %d = %g filled=%v, want %g filled=%v", kind, i, cs.Score, cs.Filled, want.Scores[i], want.Filled[i])
		}
	}
	if res.Stats.AverageScore != want.Average {
		t.Errorf("%s average = %g, want %g", kind, res.Stats.AverageScore, want.Average)
	}
	if res.Stats.TotalDeducted != want.TotalDeducted {
		t.Errorf("%s total deducted = %g, want %g", kind, res.Stats.TotalDeducted, want.TotalDeducted)
	}
}
