package scorecard

import "math"

// MaxScore is the score of a filled column with no deductions.
const MaxScore = 100

// ColumnScore is the derived score of one column. An unfilled column
// reports zero score and zero deduction; callers check Filled before display.
type ColumnScore struct {
	Index     int     `json:"index"`
	ColumnID  string  `json:"column_id"`
	Filled    bool    `json:"filled"`
	Score     float64 `json:"score"`
	Deduction float64 `json:"deduction"`
}

// ScoreColumn sums the column's deductions across criteria and derives
// 100 minus the total, clamped at 0. The total itself is not capped.
func ScoreColumn(col Column, criteria []Criterion, idx Index) ColumnScore {
	cs := ColumnScore{Index: col.Index, ColumnID: col.ID}
	if !col.Filled() {
		return cs
	}
	cs.Filled = true
	for _, c := range criteria {
		cs.Deduction += idx.Amount(c.ID, col.ID)
	}
	cs.Score = math.Max(0, MaxScore-cs.Deduction)
	return cs
}

// ValidAmount reports whether v is a finite deduction within 0..MaxScore.
func ValidAmount(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= 0 && v <= MaxScore
}

// ScoreColumns scores every column in order.
func ScoreColumns(cols []Column, criteria []Criterion, idx Index) []ColumnScore {
	out := make([]ColumnScore, len(cols))
	for i, col := range cols {
		out[i] = ScoreColumn(col, criteria, idx)
	}
	return out
}

// Stats summarises the filled columns of a scorecard.
type Stats struct {
	FilledCount   int     `json:"filled_count"`
	ScoreSum      float64 `json:"score_sum"`
	TotalDeducted float64 `json:"total_deducted"`
	AverageScore  float64 `json:"average_score"`
}

// Aggregate averages scores over filled columns only and rounds half up.
// With nothing filled every figure is zero.
func Aggregate(scores []ColumnScore) Stats {
	var st Stats
	for _, cs := range scores {
		if !cs.Filled {
			continue
		}
		st.FilledCount++
		st.ScoreSum += cs.Score
		st.TotalDeducted += cs.Deduction
	}
	st.AverageScore = average(st.ScoreSum, st.FilledCount)
	return st
}

// Combine merges stats of several column kinds into one overall figure,
// averaging over all filled columns rather than averaging the averages.
func Combine(stats ...Stats) Stats {
	var out Stats
	for _, st := range stats {
		out.FilledCount += st.FilledCount
		out.ScoreSum += st.ScoreSum
		out.TotalDeducted += st.TotalDeducted
	}
	out.AverageScore = average(out.ScoreSum, out.FilledCount)
	return out
}

func average(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return roundHalfUp(sum / float64(n))
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
