package scorecard

import "strconv"

// TotalRowKey is the key of the synthetic trailing row.
const TotalRowKey = "total_row"

// Row is a criterion row or the single trailing total row.
type Row struct {
	Key               string `json:"key"`
	CriterionID       int64  `json:"id,omitempty"`
	Name              string `json:"name,omitempty"`
	Description       string `json:"description,omitempty"`
	CategoryName      string `json:"category_name,omitempty"`
	IsFirstInCategory bool   `json:"is_first_in_category,omitempty"`
	IsLastInCategory  bool   `json:"is_last_in_category,omitempty"`
	IsTotal           bool   `json:"is_total,omitempty"`
}

// Cell is a row resolved against one column.
type Cell struct {
	State     CellState `json:"state"`
	Deduction float64   `json:"deduction,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	Score     float64   `json:"score,omitempty"`
	Editable  bool      `json:"editable"`
}

// Input is everything the matrix is derived from.
type Input struct {
	Kind       ColumnKind
	Editable   bool
	Criteria   []Criterion
	Columns    []string
	Deductions []Deduction
}

// Matrix is the renderable criteria × columns grid.
type Matrix struct {
	Kind     ColumnKind `json:"kind"`
	Editable bool       `json:"editable"`
	Columns  []Column   `json:"columns"`
	Rows     []Row      `json:"rows"`

	criteria []Criterion
	index    Index
	scores   []ColumnScore
}

// BuildMatrix emits one row per criterion in category order followed by
// exactly one total row. Empty inputs yield a matrix holding only the total row.
func BuildMatrix(in Input) *Matrix {
	cols := ColumnsFromIDs(in.Columns)
	idx := BuildIndex(in.Deductions)
	ordered := Order(in.Criteria)

	m := &Matrix{
		Kind:     in.Kind,
		Editable: in.Editable,
		Columns:  cols,
		Rows:     make([]Row, 0, len(ordered)+1),
		index:    idx,
	}
	for _, g := range ordered {
		c := g.Criterion
		m.criteria = append(m.criteria, c)
		m.Rows = append(m.Rows, Row{
			Key:               strconv.FormatInt(c.ID, 10),
			CriterionID:       c.ID,
			Name:              c.Name,
			Description:       c.Description,
			CategoryName:      g.CategoryName,
			IsFirstInCategory: g.IsFirstInCategory,
			IsLastInCategory:  g.IsLastInCategory,
		})
	}
	m.Rows = append(m.Rows, Row{Key: TotalRowKey, IsTotal: true})
	m.scores = ScoreColumns(cols, m.criteria, idx)
	return m
}

// Scores returns the per-column scores.
func (m *Matrix) Scores() []ColumnScore {
	out := make([]ColumnScore, len(m.scores))
	copy(out, m.scores)
	return out
}

// Cell resolves a criterion row against column col. Total rows resolve
// through Total.
func (m *Matrix) Cell(row Row, col int) Cell {
	if row.IsTotal {
		return m.Total(col)
	}
	if col < 0 || col >= len(m.Columns) || !m.Columns[col].Filled() {
		return Cell{State: CellUnassigned}
	}
	cell := Cell{State: CellEmpty, Editable: m.Editable}
	d, ok := m.index.Lookup(row.CriterionID, m.Columns[col].ID)
	if ok && d.Deduction > 0 {
		cell.State = CellDeducted
		cell.Deduction = d.Deduction
		cell.Comment = d.Comment
	}
	return cell
}

// Total resolves the total row for column col.
func (m *Matrix) Total(col int) Cell {
	if col < 0 || col >= len(m.scores) || !m.scores[col].Filled {
		return Cell{State: CellNoScore}
	}
	return Cell{State: CellScored, Score: m.scores[col].Score, Deduction: m.scores[col].Deduction}
}

// Result bundles the matrix with its derived statistics.
type Result struct {
	Matrix *Matrix       `json:"matrix"`
	Scores []ColumnScore `json:"scores"`
	Stats  Stats         `json:"stats"`
}

// Evaluate builds the matrix and its statistics from scratch. It is pure:
// the same input always yields the same result.
func Evaluate(in Input) *Result {
	m := BuildMatrix(in)
	scores := m.Scores()
	return &Result{Matrix: m, Scores: scores, Stats: Aggregate(scores)}
}
