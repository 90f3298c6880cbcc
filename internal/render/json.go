package render

import (
	"encoding/json"

	"github.com/dshills/qualitymap/internal/scorecard"
)

type jsonReport struct {
	QualityMapID int64           `json:"quality_map_id"`
	TeamID       int64           `json:"team_id,omitempty"`
	Employee     string          `json:"employee,omitempty"`
	Source       string          `json:"source,omitempty"`
	Overall      scorecard.Stats `json:"overall"`
	Sections     []jsonSection   `json:"sections"`
}

type jsonSection struct {
	Kind     scorecard.ColumnKind    `json:"kind"`
	Editable bool                    `json:"editable"`
	Columns  []scorecard.Column      `json:"columns"`
	Rows     []jsonRow               `json:"rows"`
	Scores   []scorecard.ColumnScore `json:"scores"`
	Stats    scorecard.Stats         `json:"stats"`
}

type jsonRow struct {
	scorecard.Row
	Cells []scorecard.Cell `json:"cells"`
}

// JSON renders the report with every cell resolved.
func JSON(r *Report) ([]byte, error) {
	out := jsonReport{
		QualityMapID: r.QualityMapID,
		TeamID:       r.TeamID,
		Employee:     r.Employee,
		Source:       r.Source,
		Overall:      r.Overall,
		Sections:     make([]jsonSection, 0, len(r.Sections)),
	}
	for _, s := range r.Sections {
		m := s.Result.Matrix
		js := jsonSection{
			Kind:     s.Kind,
			Editable: m.Editable,
			Columns:  m.Columns,
			Rows:     make([]jsonRow, 0, len(m.Rows)),
			Scores:   s.Result.Scores,
			Stats:    s.Result.Stats,
		}
		for _, row := range m.Rows {
			jr := jsonRow{Row: row, Cells: make([]scorecard.Cell, len(m.Columns))}
			for i := range m.Columns {
				jr.Cells[i] = m.Cell(row, i)
			}
			js.Rows = append(js.Rows, jr)
		}
		out.Sections = append(out.Sections, js)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
