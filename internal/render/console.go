package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	categoryStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	deductStyle   = cellStyle.Foreground(lipgloss.Color("9"))
	mutedStyle    = cellStyle.Foreground(lipgloss.Color("8"))
	totalStyle    = cellStyle.Bold(true).Foreground(lipgloss.Color("10"))
)

// Console renders the report as bordered terminal tables.
func Console(r *Report) string {
	var b strings.Builder

	title := fmt.Sprintf("Quality map %d", r.QualityMapID)
	if r.Employee != "" {
		title += " · " + r.Employee
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Average %s over %d filled columns, %s points deducted\n\n",
		formatNumber(r.Overall.AverageScore), r.Overall.FilledCount, formatNumber(r.Overall.TotalDeducted))

	for _, s := range r.Sections {
		b.WriteString(titleStyle.Render(s.Kind.Label() + "s"))
		fmt.Fprintf(&b, "  average %s (%d/%d filled)\n",
			formatNumber(s.Result.Stats.AverageScore), s.Result.Stats.FilledCount, len(s.Result.Matrix.Columns))
		b.WriteString(consoleTable(s))
		b.WriteString("\n\n")
	}
	return b.String()
}

func consoleTable(s Section) string {
	m := s.Result.Matrix
	headers := []string{"Criterion"}
	for _, c := range m.Columns {
		headers = append(headers, ColumnHeader(s.Kind, c))
	}

	var rows [][]string
	var kinds []rowKind
	for _, row := range m.Rows {
		if !row.IsTotal && row.IsFirstInCategory {
			rows = append(rows, append([]string{row.CategoryName}, make([]string, len(m.Columns))...))
			kinds = append(kinds, rowCategory)
		}
		name := row.Name
		kind := rowCriterion
		if row.IsTotal {
			name, kind = "Total", rowTotal
		}
		line := []string{name}
		for i := range m.Columns {
			line = append(line, CellText(m.Cell(row, i)))
		}
		rows = append(rows, line)
		kinds = append(kinds, kind)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || row < 0 || row >= len(kinds) {
				return headerStyle
			}
			switch kinds[row] {
			case rowCategory:
				return categoryStyle
			case rowTotal:
				return totalStyle
			}
			if col == 0 {
				return cellStyle
			}
			switch rows[row][col] {
			case "", "-":
				return mutedStyle
			}
			return deductStyle
		})
	return t.String()
}

type rowKind int

const (
	rowCriterion rowKind = iota
	rowCategory
	rowTotal
)
