// Package render produces Markdown, JSON, console and spreadsheet output
// from evaluated scorecards.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/scorecard"
)

// Section is one evaluated column kind.
type Section struct {
	Kind   scorecard.ColumnKind
	Result *scorecard.Result
}

// Report is a quality map evaluated for one or more column kinds.
type Report struct {
	QualityMapID int64
	TeamID       int64
	Employee     string
	Source       string
	Sections     []Section
	Overall      scorecard.Stats
}

// NewReport assembles a report and computes the overall statistics across
// all sections.
func NewReport(q *qualitymap.QualityMap, source string, sections ...Section) *Report {
	r := &Report{
		QualityMapID: q.ID,
		TeamID:       q.TeamID,
		Employee:     q.Employee,
		Source:       source,
		Sections:     sections,
	}
	stats := make([]scorecard.Stats, 0, len(sections))
	for _, s := range sections {
		stats = append(stats, s.Result.Stats)
	}
	r.Overall = scorecard.Combine(stats...)
	return r
}

// Write renders r to w in the named format.
func Write(w io.Writer, format string, r *Report) error {
	switch format {
	case "markdown", "md":
		_, err := io.WriteString(w, Markdown(r))
		return err
	case "json":
		data, err := JSON(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "xlsx":
		return XLSX(w, r)
	case "console", "":
		_, err := io.WriteString(w, Console(r))
		return err
	default:
		return fmt.Errorf("render: unknown format %q", format)
	}
}

// Markdown renders a report as a Markdown document with one table per
// column kind.
func Markdown(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Quality Map %d\n\n", r.QualityMapID)
	if r.Employee != "" {
		fmt.Fprintf(&b, "**Employee:** %s\n", r.Employee)
	}
	fmt.Fprintf(&b, "**Average:** %s\n", formatNumber(r.Overall.AverageScore))
	fmt.Fprintf(&b, "**Filled columns:** %d\n", r.Overall.FilledCount)
	fmt.Fprintf(&b, "**Total deducted:** %s\n\n", formatNumber(r.Overall.TotalDeducted))

	for _, s := range r.Sections {
		m := s.Result.Matrix
		fmt.Fprintf(&b, "## %ss\n\n", s.Kind.Label())
		fmt.Fprintf(&b, "Average %s over %d filled of %d\n\n",
			formatNumber(s.Result.Stats.AverageScore), s.Result.Stats.FilledCount, len(m.Columns))

		if len(m.Rows) == 1 {
			b.WriteString("No criteria.\n\n")
			continue
		}

		b.WriteString("| Criterion |")
		for _, c := range m.Columns {
			fmt.Fprintf(&b, " %s |", escapePipe(ColumnHeader(s.Kind, c)))
		}
		b.WriteString("\n|---|")
		b.WriteString(strings.Repeat("---|", len(m.Columns)))
		b.WriteString("\n")

		for _, row := range m.Rows {
			name := row.Name
			if row.IsTotal {
				name = "**Total**"
			} else if row.IsFirstInCategory {
				fmt.Fprintf(&b, "| _%s_ |%s\n", escapePipe(row.CategoryName), strings.Repeat(" |", len(m.Columns)))
			}
			fmt.Fprintf(&b, "| %s |", escapePipe(name))
			for i := range m.Columns {
				fmt.Fprintf(&b, " %s |", escapePipe(CellText(m.Cell(row, i))))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")

		comments := commentLines(s)
		if len(comments) > 0 {
			b.WriteString("### Comments\n\n")
			for _, c := range comments {
				fmt.Fprintf(&b, "- %s\n", c)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ColumnHeader labels column c, e.g. "Chat 2: abc" or "Call 1".
func ColumnHeader(kind scorecard.ColumnKind, c scorecard.Column) string {
	label := kind.Label() + " " + strconv.Itoa(c.Index+1)
	if c.Filled() {
		label += ": " + c.ID
	}
	return label
}

// CellText is the short textual form of a cell.
func CellText(c scorecard.Cell) string {
	switch c.State {
	case scorecard.CellDeducted:
		return "-" + formatNumber(c.Deduction)
	case scorecard.CellEmpty:
		return "-"
	case scorecard.CellScored:
		return formatNumber(c.Score)
	case scorecard.CellNoScore:
		return "n/a"
	default:
		return ""
	}
}

func commentLines(s Section) []string {
	m := s.Result.Matrix
	var out []string
	for _, row := range m.Rows {
		if row.IsTotal {
			continue
		}
		for i, col := range m.Columns {
			cell := m.Cell(row, i)
			if cell.State != scorecard.CellDeducted || cell.Comment == "" {
				continue
			}
			out = append(out, fmt.Sprintf("%s / %s (-%s): %s",
				row.Name, ColumnHeader(s.Kind, col), formatNumber(cell.Deduction), cell.Comment))
		}
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapePipe(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
