// Package scorecard implements the quality-scorecard engine: a matrix of
// criteria × chat/call columns with per-cell deductions, category grouping,
// column identity editing and derived scoring.
package scorecard

import "time"

// Category is a grouping key for criteria.
type Category struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Criterion is a named scoring rule. Global criteria apply to every team.
type Criterion struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	MaxScore    float64   `json:"max_score" yaml:"max_score"`
	IsActive    bool      `json:"is_active" yaml:"is_active"`
	IsGlobal    bool      `json:"is_global" yaml:"is_global"`
	TeamID      *int64    `json:"team_id,omitempty" yaml:"team_id,omitempty"`
	CategoryID  *int64    `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	Category    *Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// Deduction is a recorded point subtraction for one (criterion, column) pair.
// ColumnID holds the chat id or call id depending on the column kind.
type Deduction struct {
	ID           int64     `json:"id"`
	QualityMapID int64     `json:"quality_map_id"`
	CriteriaID   int64     `json:"criteria_id"`
	ColumnID     string    `json:"column_id"`
	Deduction    float64   `json:"deduction"`
	Comment      string    `json:"comment"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Column is one chat or call slot. Index is fixed; ID is the assignable
// external identifier and is empty while the slot is unassigned.
type Column struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
}

// Filled reports whether the column has an identifier.
func (c Column) Filled() bool { return c.ID != "" }

// ColumnsFromIDs turns a persisted identifier array into positioned columns.
func ColumnsFromIDs(ids []string) []Column {
	cols := make([]Column, len(ids))
	for i, id := range ids {
		cols[i] = Column{Index: i, ID: id}
	}
	return cols
}

// Blank returns an all-empty identifier array of length n, used when a
// scorecard has no persisted identifiers yet.
func Blank(n int) []string {
	if n < 0 {
		n = 0
	}
	return make([]string, n)
}
