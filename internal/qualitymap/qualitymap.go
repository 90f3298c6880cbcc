// Package qualitymap defines the JSON shapes exchanged with the quality-map
// backend and converts them to scorecard engine types.
package qualitymap

import (
	"errors"
	"time"

	"github.com/dshills/qualitymap/internal/scorecard"
)

var (
	// ErrNotFound is returned when a quality map or criterion does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid wraps requests the backend rejects as malformed.
	ErrInvalid = errors.New("invalid request")
)

// QualityMap is one employee's persisted scorecard.
type QualityMap struct {
	ID             int64             `json:"id" yaml:"id"`
	TeamID         int64             `json:"team_id" yaml:"team_id"`
	Employee       string            `json:"employee,omitempty" yaml:"employee,omitempty"`
	ChatCount      int               `json:"chat_count" yaml:"chat_count"`
	CallCount      int               `json:"call_count" yaml:"call_count"`
	ChatIDs        []string          `json:"chat_ids" yaml:"chat_ids"`
	CallIDs        []string          `json:"call_ids" yaml:"call_ids"`
	ChatDeductions []DeductionRecord `json:"deductions" yaml:"deductions"`
	CallDeductions []DeductionRecord `json:"call_deductions" yaml:"call_deductions"`
	CreatedAt      time.Time         `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// DeductionRecord is a deduction as the backend returns it: chat
// deductions carry chat_id, call deductions carry call_id.
type DeductionRecord struct {
	ID           int64     `json:"id" yaml:"id"`
	QualityMapID int64     `json:"quality_map_id" yaml:"quality_map_id"`
	CriteriaID   int64     `json:"criteria_id" yaml:"criteria_id"`
	ChatID       string    `json:"chat_id,omitempty" yaml:"chat_id,omitempty"`
	CallID       string    `json:"call_id,omitempty" yaml:"call_id,omitempty"`
	Deduction    float64   `json:"deduction" yaml:"deduction"`
	Comment      string    `json:"comment" yaml:"comment"`
	CreatedBy    string    `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// UpsertRequest is the create-or-update deduction payload.
type UpsertRequest struct {
	QualityMapID int64   `json:"quality_map_id"`
	CriteriaID   int64   `json:"criteria_id"`
	ChatID       string  `json:"chat_id,omitempty"`
	CallID       string  `json:"call_id,omitempty"`
	Deduction    float64 `json:"deduction"`
	Comment      string  `json:"comment"`
}

// ColumnUpdate replaces a quality map's identifier array. Exactly one of
// the fields is set.
type ColumnUpdate struct {
	ChatIDs []string `json:"chat_ids,omitempty"`
	CallIDs []string `json:"call_ids,omitempty"`
}

// Slots returns the configured slot count for kind, falling back to the
// persisted array length for maps created before counts were stored.
func (q *QualityMap) Slots(kind scorecard.ColumnKind) int {
	n, ids := q.ChatCount, q.ChatIDs
	if kind == scorecard.KindCall {
		n, ids = q.CallCount, q.CallIDs
	}
	if n == 0 {
		return len(ids)
	}
	return n
}

// Columns returns the identifier array for kind, blank-initialised when
// nothing has been persisted yet.
func (q *QualityMap) Columns(kind scorecard.ColumnKind) []string {
	ids := q.ChatIDs
	if kind == scorecard.KindCall {
		ids = q.CallIDs
	}
	if len(ids) == 0 {
		return scorecard.Blank(q.Slots(kind))
	}
	return append([]string(nil), ids...)
}

// SetColumns replaces the identifier array for kind.
func (q *QualityMap) SetColumns(kind scorecard.ColumnKind, ids []string) {
	cp := append([]string(nil), ids...)
	if kind == scorecard.KindCall {
		q.CallIDs = cp
		return
	}
	q.ChatIDs = cp
}

// Deductions converts the records of kind into engine deductions.
func (q *QualityMap) Deductions(kind scorecard.ColumnKind) []scorecard.Deduction {
	recs := q.ChatDeductions
	if kind == scorecard.KindCall {
		recs = q.CallDeductions
	}
	out := make([]scorecard.Deduction, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ToDeduction(kind))
	}
	return out
}

// ColumnID returns the identifier matching kind.
func (r DeductionRecord) ColumnID(kind scorecard.ColumnKind) string {
	if kind == scorecard.KindCall {
		return r.CallID
	}
	return r.ChatID
}

// ToDeduction converts the record to an engine deduction.
func (r DeductionRecord) ToDeduction(kind scorecard.ColumnKind) scorecard.Deduction {
	return scorecard.Deduction{
		ID:           r.ID,
		QualityMapID: r.QualityMapID,
		CriteriaID:   r.CriteriaID,
		ColumnID:     r.ColumnID(kind),
		Deduction:    r.Deduction,
		Comment:      r.Comment,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
	}
}

// FromDeduction builds the wire record for an engine deduction.
func FromDeduction(kind scorecard.ColumnKind, d scorecard.Deduction) DeductionRecord {
	r := DeductionRecord{
		ID:           d.ID,
		QualityMapID: d.QualityMapID,
		CriteriaID:   d.CriteriaID,
		Deduction:    d.Deduction,
		Comment:      d.Comment,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt,
	}
	if kind == scorecard.KindCall {
		r.CallID = d.ColumnID
	} else {
		r.ChatID = d.ColumnID
	}
	return r
}

// NewUpsert builds the wire payload for an engine upsert request.
func NewUpsert(req scorecard.UpsertRequest) UpsertRequest {
	out := UpsertRequest{
		QualityMapID: req.QualityMapID,
		CriteriaID:   req.CriteriaID,
		Deduction:    req.Deduction,
		Comment:      req.Comment,
	}
	if req.Kind == scorecard.KindCall {
		out.CallID = req.ColumnID
	} else {
		out.ChatID = req.ColumnID
	}
	return out
}

// Kind reports which column family the payload targets.
func (u UpsertRequest) Kind() scorecard.ColumnKind {
	if u.CallID != "" {
		return scorecard.KindCall
	}
	return scorecard.KindChat
}

// ToEngine converts the payload back to an engine request for kind.
func (u UpsertRequest) ToEngine(kind scorecard.ColumnKind) scorecard.UpsertRequest {
	columnID := u.ChatID
	if kind == scorecard.KindCall {
		columnID = u.CallID
	}
	return scorecard.UpsertRequest{
		QualityMapID: u.QualityMapID,
		Kind:         kind,
		CriteriaID:   u.CriteriaID,
		ColumnID:     columnID,
		Deduction:    u.Deduction,
		Comment:      u.Comment,
	}
}

// NewColumnUpdate builds the update payload for kind.
func NewColumnUpdate(kind scorecard.ColumnKind, ids []string) ColumnUpdate {
	cp := append([]string{}, ids...)
	if kind == scorecard.KindCall {
		return ColumnUpdate{CallIDs: cp}
	}
	return ColumnUpdate{ChatIDs: cp}
}

// Input assembles the engine input for one column kind.
func Input(q *QualityMap, kind scorecard.ColumnKind, criteria []scorecard.Criterion, editable bool) scorecard.Input {
	return scorecard.Input{
		Kind:       kind,
		Editable:   editable,
		Criteria:   criteria,
		Columns:    q.Columns(kind),
		Deductions: q.Deductions(kind),
	}
}
