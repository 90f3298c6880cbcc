// Package schema validates scorecard snapshots before they are evaluated
// or imported.
package schema

import (
	"fmt"
	"math"

	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/scorecard"
	"github.com/dshills/qualitymap/internal/snapshot"
)

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a snapshot for structural validity.
func Validate(s *snapshot.Snapshot) []ValidationError {
	var errs []ValidationError
	q := &s.QualityMap

	critIDs := make(map[int64]bool)
	for i, c := range s.Criteria {
		prefix := fmt.Sprintf("criteria[%d]", i)
		if c.ID == 0 {
			errs = append(errs, ValidationError{prefix + ".id", "required"})
		} else if critIDs[c.ID] {
			errs = append(errs, ValidationError{prefix + ".id", fmt.Sprintf("duplicate ID: %d", c.ID)})
		} else {
			critIDs[c.ID] = true
		}
		if c.Name == "" {
			errs = append(errs, ValidationError{prefix + ".name", "required"})
		}
	}

	for _, kind := range []scorecard.ColumnKind{scorecard.KindChat, scorecard.KindCall} {
		errs = append(errs, validateKind(q, kind, critIDs)...)
	}
	return errs
}

func validateKind(q *qualitymap.QualityMap, kind scorecard.ColumnKind, critIDs map[int64]bool) []ValidationError {
	var errs []ValidationError

	count, ids, field := q.ChatCount, q.ChatIDs, "quality_map.chat_count"
	recs, recField := q.ChatDeductions, "quality_map.deductions"
	if kind == scorecard.KindCall {
		count, ids, field = q.CallCount, q.CallIDs, "quality_map.call_count"
		recs, recField = q.CallDeductions, "quality_map.call_deductions"
	}

	lo, hi := kind.SlotBounds()
	slots := q.Slots(kind)
	if slots < lo || slots > hi {
		errs = append(errs, ValidationError{field, fmt.Sprintf("%d outside %d-%d", slots, lo, hi)})
	}
	idsField := "quality_map." + kind.IDsField()
	if count > 0 && len(ids) > count {
		errs = append(errs, ValidationError{idsField, fmt.Sprintf("%d entries exceed %s %d", len(ids), field, count)})
	}

	assigned := make(map[string]bool)
	for i, id := range ids {
		if id == "" {
			continue
		}
		if assigned[id] {
			errs = append(errs, ValidationError{fmt.Sprintf("%s[%d]", idsField, i), fmt.Sprintf("duplicate ID: %q", id)})
		}
		assigned[id] = true
	}

	pairs := make(map[string]bool)
	for i, r := range recs {
		prefix := fmt.Sprintf("%s[%d]", recField, i)
		col := r.ColumnID(kind)
		if col == "" {
			errs = append(errs, ValidationError{prefix + "." + kind.IDField(), "required"})
		} else if !assigned[col] {
			errs = append(errs, ValidationError{prefix + "." + kind.IDField(), fmt.Sprintf("%q is not an assigned column", col)})
		}
		if !critIDs[r.CriteriaID] {
			errs = append(errs, ValidationError{prefix + ".criteria_id", fmt.Sprintf("unknown criterion %d", r.CriteriaID)})
		}
		// Stored values above the maximum are legal; the column score clamps at zero.
		if math.IsNaN(r.Deduction) || math.IsInf(r.Deduction, 0) {
			errs = append(errs, ValidationError{prefix + ".deduction", "must be a finite number"})
		} else if r.Deduction < 0 {
			errs = append(errs, ValidationError{prefix + ".deduction", fmt.Sprintf("%g is negative", r.Deduction)})
		}
		key := scorecard.IndexKey(r.CriteriaID, col)
		if pairs[key] {
			errs = append(errs, ValidationError{prefix, fmt.Sprintf("duplicate deduction for criterion %d and %s %q", r.CriteriaID, kind.IDField(), col)})
		}
		pairs[key] = true
	}
	return errs
}
