package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/scorecard"
)

func sampleReport() *Report {
	cat := &scorecard.Category{ID: 1, Name: "Сервис"}
	criteria := []scorecard.Criterion{
		{ID: 1, Name: "Greeting", IsActive: true, Category: cat},
		{ID: 2, Name: "Tone", IsActive: true},
	}
	q := &qualitymap.QualityMap{
		ID:        7,
		Employee:  "Anna",
		ChatCount: 3,
		CallCount: 1,
		ChatIDs:   []string{"abc", "def", ""},
		CallIDs:   []string{"c1"},
		ChatDeductions: []qualitymap.DeductionRecord{
			{CriteriaID: 1, ChatID: "abc", Deduction: 30, Comment: "late reply"},
		},
		CallDeductions: []qualitymap.DeductionRecord{
			{CriteriaID: 2, CallID: "c1", Deduction: 5, Comment: "hold"},
		},
	}
	var sections []Section
	for _, kind := range []scorecard.ColumnKind{scorecard.KindChat, scorecard.KindCall} {
		sections = append(sections, Section{Kind: kind, Result: scorecard.Evaluate(qualitymap.Input(q, kind, criteria, false))})
	}
	return NewReport(q, "test", sections...)
}

func TestNewReportOverall(t *testing.T) {
	r := sampleReport()
	// chats 70 and 100, call 95
	if r.Overall.FilledCount != 3 || r.Overall.AverageScore != 88 || r.Overall.TotalDeducted != 35 {
		t.Errorf("overall = %+v", r.Overall)
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	checks := []string{
		"# Quality Map 7",
		"**Employee:** Anna",
		"**Average:** 88",
		"## Chats",
		"## Calls",
		"| Criterion | Chat 1: abc | Chat 2: def | Chat 3 |",
		"| _Сервис_ |",
		"| Greeting | -30 | - |  |",
		"| **Total** | 70 | 100 | n/a |",
		"### Comments",
		"Greeting / Chat 1: abc (-30): late reply",
		"Tone / Call 1: c1 (-5): hold",
	}
	for _, want := range checks {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
}

func TestMarkdownNoCriteria(t *testing.T) {
	q := &qualitymap.QualityMap{ID: 1, ChatCount: 1, ChatIDs: []string{""}}
	r := NewReport(q, "", Section{Kind: scorecard.KindChat, Result: scorecard.Evaluate(qualitymap.Input(q, scorecard.KindChat, nil, false))})
	if md := Markdown(r); !strings.Contains(md, "No criteria.") {
		t.Errorf("expected 'No criteria.' in\n%s", md)
	}
}

func TestCellText(t *testing.T) {
	tests := []struct {
		cell scorecard.Cell
		want string
	}{
		{scorecard.Cell{State: scorecard.CellUnassigned}, ""},
		{scorecard.Cell{State: scorecard.CellEmpty}, "-"},
		{scorecard.Cell{State: scorecard.CellDeducted, Deduction: 12.5}, "-12.5"},
		{scorecard.Cell{State: scorecard.CellNoScore}, "n/a"},
		{scorecard.Cell{State: scorecard.CellScored, Score: 0}, "0"},
	}
	for _, tt := range tests {
		if got := CellText(tt.cell); got != tt.want {
			t.Errorf("CellText(%+v) = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		QualityMapID int64 `json:"quality_map_id"`
		Sections     []struct {
			Kind string `json:"kind"`
			Rows []struct {
				Key   string           `json:"key"`
				Cells []scorecard.Cell `json:"cells"`
			} `json:"rows"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.QualityMapID != 7 || len(out.Sections) != 2 {
		t.Fatalf("unexpected report %+v", out)
	}
	chats := out.Sections[0]
	total := chats.Rows[len(chats.Rows)-1]
	if total.Key != scorecard.TotalRowKey || total.Cells[0].Score != 70 || total.Cells[2].State != scorecard.CellNoScore {
		t.Errorf("total row = %+v", total)
	}
}

func TestConsole(t *testing.T) {
	out := Console(sampleReport())
	for _, want := range []string{"Quality map 7", "Chats", "Calls", "Greeting", "Сервис", "Total", "-30", "Chat 1: abc"} {
		if !strings.Contains(out, want) {
			t.Errorf("console missing %q\n%s", want, out)
		}
	}
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := XLSX(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != "Summary" || sheets[1] != "Chats" || sheets[2] != "Calls" {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := f.GetRows("Chats")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0][2] != "Chat 1: abc" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "Greeting" || rows[1][2] != "-30" || rows[1][5] != "abc: late reply" {
		t.Errorf("greeting row = %v", rows[1])
	}
	last := rows[len(rows)-1]
	if last[1] != "Total" || last[2] != "70" || last[3] != "100" {
		t.Errorf("total row = %v", last)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "pdf", sampleReport()); err == nil {
		t.Error("expected error for unknown format")
	}
}
