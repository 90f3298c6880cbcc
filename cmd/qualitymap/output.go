package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/render"
	"github.com/dshills/qualitymap/internal/scorecard"
)

// parseKinds resolves --kind: chat, call or all. "all" includes calls only
// when the map has call slots.
func parseKinds(flag string, q *qualitymap.QualityMap) ([]scorecard.ColumnKind, error) {
	switch strings.ToLower(flag) {
	case "", "all":
		kinds := []scorecard.ColumnKind{scorecard.KindChat}
		if q.Slots(scorecard.KindCall) > 0 {
			kinds = append(kinds, scorecard.KindCall)
		}
		return kinds, nil
	default:
		k := scorecard.ColumnKind(strings.ToLower(flag))
		if !k.Valid() {
			return nil, fmt.Errorf("unknown kind %q: must be chat, call or all", flag)
		}
		return []scorecard.ColumnKind{k}, nil
	}
}

func parseKind(flag string) (scorecard.ColumnKind, error) {
	k := scorecard.ColumnKind(strings.ToLower(flag))
	if !k.Valid() {
		return "", fmt.Errorf("unknown kind %q: must be chat or call", flag)
	}
	return k, nil
}

func evaluate(q *qualitymap.QualityMap, criteria []scorecard.Criterion, kinds []scorecard.ColumnKind, editable bool) []render.Section {
	sections := make([]render.Section, 0, len(kinds))
	for _, k := range kinds {
		sections = append(sections, render.Section{
			Kind:   k,
			Result: scorecard.Evaluate(qualitymap.Input(q, k, criteria, editable)),
		})
	}
	return sections
}

// writeReport renders to --out when set, else stdout. Spreadsheets need a file.
func (a *app) writeReport(r *render.Report, out string) error {
	format := a.cfg.Format
	if format == "xlsx" && out == "" {
		return exitError(exitInput, "--format xlsx requires --out")
	}
	var buf bytes.Buffer
	if err := render.Write(&buf, format, r); err != nil {
		return exitError(exitInput, "%v", err)
	}
	if out == "" {
		_, err := a.stdout.Write(buf.Bytes())
		return err
	}
	a.log.Debug("writing output", "path", out, "format", format)
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func parseMapID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, exitError(exitInput, "invalid quality map id %q", arg)
	}
	return id, nil
}
