package scorecard

import "strconv"

// Index maps "<criteria_id>_<column_id>" to the effective deduction.
type Index map[string]Deduction

// IndexKey builds the lookup key for a (criterion, column) pair.
func IndexKey(criteriaID int64, columnID string) string {
	return strconv.FormatInt(criteriaID, 10) + "_" + columnID
}

// BuildIndex indexes deductions by pair. A later entry with the same pair
// overwrites an earlier one. Entries without a criterion or column id are skipped.
func BuildIndex(deductions []Deduction) Index {
	idx := make(Index, len(deductions))
	for _, d := range deductions {
		if d.CriteriaID == 0 || d.ColumnID == "" {
			continue
		}
		idx[IndexKey(d.CriteriaID, d.ColumnID)] = d
	}
	return idx
}

// Lookup returns the deduction recorded for the pair, if any.
func (idx Index) Lookup(criteriaID int64, columnID string) (Deduction, bool) {
	d, ok := idx[IndexKey(criteriaID, columnID)]
	return d, ok
}

// Amount returns the deducted points for the pair, or 0.
func (idx Index) Amount(criteriaID int64, columnID string) float64 {
	return idx[IndexKey(criteriaID, columnID)].Deduction
}
