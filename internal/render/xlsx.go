package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/qualitymap/internal/scorecard"
)

const summarySheet = "Summary"

// XLSX writes the report as a workbook: a summary sheet followed by one
// sheet per column kind. Deducted cells hold negative numbers; their
// comments are collected in the trailing Comments column.
func XLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("render.XLSX: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("render.XLSX: %w", err)
	}

	summary := [][]any{
		{"Quality map", r.QualityMapID},
		{"Employee", r.Employee},
		{"Average", r.Overall.AverageScore},
		{"Filled columns", r.Overall.FilledCount},
		{"Total deducted", r.Overall.TotalDeducted},
	}
	for _, s := range r.Sections {
		summary = append(summary, []any{s.Kind.Label() + " average", s.Result.Stats.AverageScore})
	}
	for i, line := range summary {
		if err := setRow(f, summarySheet, i+1, line); err != nil {
			return fmt.Errorf("render.XLSX: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return fmt.Errorf("render.XLSX: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 18); err != nil {
		return fmt.Errorf("render.XLSX: %w", err)
	}

	for _, s := range r.Sections {
		if err := writeSection(f, s, bold); err != nil {
			return fmt.Errorf("render.XLSX: %s: %w", s.Kind, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("render.XLSX: %w", err)
	}
	return nil
}

// SheetName is the worksheet holding kind's matrix.
func SheetName(kind scorecard.ColumnKind) string {
	return kind.Label() + "s"
}

func writeSection(f *excelize.File, s Section, bold int) error {
	sheet := SheetName(s.Kind)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	m := s.Result.Matrix

	header := []any{"Category", "Criterion"}
	for _, c := range m.Columns {
		header = append(header, ColumnHeader(s.Kind, c))
	}
	header = append(header, "Comments")
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}

	for i, row := range m.Rows {
		line := []any{row.CategoryName, row.Name}
		if row.IsTotal {
			line = []any{"", "Total"}
		}
		var comments []string
		for c, col := range m.Columns {
			cell := m.Cell(row, c)
			line = append(line, cellValue(cell))
			if cell.Comment != "" {
				comments = append(comments, fmt.Sprintf("%s: %s", col.ID, cell.Comment))
			}
		}
		line = append(line, strings.Join(comments, "; "))
		if err := setRow(f, sheet, i+2, line); err != nil {
			return err
		}
		if row.IsTotal {
			first, _ := excelize.CoordinatesToCellName(1, i+2)
			end, _ := excelize.CoordinatesToCellName(len(line), i+2)
			if err := f.SetCellStyle(sheet, first, end, bold); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(sheet, "A", "B", 24)
}

func cellValue(c scorecard.Cell) any {
	switch c.State {
	case scorecard.CellDeducted:
		return -c.Deduction
	case scorecard.CellScored:
		return c.Score
	case scorecard.CellEmpty:
		return 0
	default:
		return ""
	}
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
