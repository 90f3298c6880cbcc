package scorecard

import "testing"

func TestBuildMatrixRowCount(t *testing.T) {
	tests := []struct {
		name     string
		criteria []Criterion
	}{
		{"empty", nil},
		{"one", greeting()},
		{"several", []Criterion{
			{ID: 1, Category: &Category{ID: 1, Name: "B"}},
			{ID: 2},
			{ID: 3, Category: &Category{ID: 2, Name: "A"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildMatrix(Input{Kind: KindChat, Criteria: tt.criteria, Columns: []string{"a"}})
			if len(m.Rows) != len(tt.criteria)+1 {
				t.Fatalf("got %d rows, want %d", len(m.Rows), len(tt.criteria)+1)
			}
			last := m.Rows[len(m.Rows)-1]
			if !last.IsTotal || last.Key != TotalRowKey {
				t.Errorf("last row = %+v, want total row", last)
			}
			for _, r := range m.Rows[:len(m.Rows)-1] {
				if r.IsTotal {
					t.Errorf("unexpected total row before the end: %+v", r)
				}
			}
		})
	}
}

func TestBuildMatrixRowOrder(t *testing.T) {
	m := BuildMatrix(Input{
		Kind: KindChat,
		Criteria: []Criterion{
			{ID: 1, Name: "late", Category: &Category{ID: 1, Name: "Б"}},
			{ID: 2, Name: "loose"},
			{ID: 3, Name: "early", Category: &Category{ID: 2, Name: "А"}},
		},
	})
	want := []int64{3, 1, 2}
	for i, id := range want {
		if m.Rows[i].CriterionID != id {
			t.Errorf("row[%d].CriterionID = %d, want %d", i, m.Rows[i].CriterionID, id)
		}
		if !m.Rows[i].IsFirstInCategory {
			t.Errorf("row[%d] should be first in its category", i)
		}
	}
	if m.Rows[0].CategoryName != "А" {
		t.Errorf("row[0].CategoryName = %q", m.Rows[0].CategoryName)
	}
}

func TestMatrixCellStates(t *testing.T) {
	m := BuildMatrix(Input{
		Kind:     KindChat,
		Editable: true,
		Criteria: []Criterion{{ID: 1, Name: "Greeting"}, {ID: 2, Name: "Closing"}},
		Columns:  []string{"abc", "", "def"},
		Deductions: []Deduction{
			{CriteriaID: 1, ColumnID: "abc", Deduction: 15, Comment: "late greeting"},
			{CriteriaID: 2, ColumnID: "abc", Deduction: 0, Comment: "cleared"},
		},
	})
	greetingRow, closingRow := m.Rows[0], m.Rows[1]

	tests := []struct {
		name      string
		row       Row
		col       int
		wantState CellState
		editable  bool
	}{
		{"deducted", greetingRow, 0, CellDeducted, true},
		{"zero deduction is empty", closingRow, 0, CellEmpty, true},
		{"no record", greetingRow, 2, CellEmpty, true},
		{"unassigned", greetingRow, 1, CellUnassigned, false},
		{"out of range", greetingRow, 9, CellUnassigned, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := m.Cell(tt.row, tt.col)
			if c.State != tt.wantState {
				t.Errorf("state = %q, want %q", c.State, tt.wantState)
			}
			if c.Editable != tt.editable {
				t.Errorf("editable = %v, want %v", c.Editable, tt.editable)
			}
		})
	}

	c := m.Cell(greetingRow, 0)
	if c.Deduction != 15 || c.Comment != "late greeting" {
		t.Errorf("deducted cell = %+v", c)
	}
}

func TestMatrixViewOnly(t *testing.T) {
	m := BuildMatrix(Input{Kind: KindCall, Criteria: greeting(), Columns: []string{"call-1"}})
	if c := m.Cell(m.Rows[0], 0); c.Editable {
		t.Error("view-only matrix must not produce editable cells")
	}
}

func TestMatrixTotalRow(t *testing.T) {
	m := BuildMatrix(Input{
		Kind:       KindChat,
		Criteria:   greeting(),
		Columns:    []string{"abc", ""},
		Deductions: []Deduction{{CriteriaID: 1, ColumnID: "abc", Deduction: 30}},
	})
	total := m.Rows[len(m.Rows)-1]

	c := m.Cell(total, 0)
	if c.State != CellScored || c.Score != 70 || c.Deduction != 30 {
		t.Errorf("total for column 0 = %+v, want scored 70", c)
	}
	if c := m.Cell(total, 1); c.State != CellNoScore {
		t.Errorf("total for unassigned column = %q, want %q", c.State, CellNoScore)
	}
}

func TestMatrixNoColumns(t *testing.T) {
	res := Evaluate(Input{Kind: KindCall, Criteria: greeting()})
	if len(res.Matrix.Columns) != 0 || len(res.Scores) != 0 {
		t.Errorf("expected no columns, got %d", len(res.Matrix.Columns))
	}
	if res.Stats != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", res.Stats)
	}
}
