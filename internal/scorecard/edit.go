package scorecard

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// UpsertRequest creates or replaces the deduction for one (criterion, column) pair.
type UpsertRequest struct {
	QualityMapID int64      `json:"quality_map_id"`
	Kind         ColumnKind `json:"kind"`
	CriteriaID   int64      `json:"criteria_id"`
	ColumnID     string     `json:"column_id"`
	Deduction    float64    `json:"deduction"`
	Comment      string     `json:"comment"`
}

// DeductionUpserter writes a single deduction. The same call serves create
// and update.
type DeductionUpserter interface {
	UpsertDeduction(ctx context.Context, req UpsertRequest) (Deduction, error)
}

// Form holds the values being edited for the selected cell.
type Form struct {
	CriterionID int64
	Column      int
	ColumnID    string
	Deduction   float64
	Comment     string
	Existing    bool
}

// Editor drives the deduction edit flow for one scorecard and column kind:
// Idle → CellSelected → FormOpen → Submitting → Idle, or back to FormOpen
// with an error.
type Editor struct {
	mu         sync.Mutex
	columns    *IdentityStore
	criteria   []Criterion
	deductions []Deduction
	upserter   DeductionUpserter

	// Refetch, when set, reloads the deduction list after a successful submit.
	Refetch func(ctx context.Context) ([]Deduction, error)

	state EditState
	form  Form
	err   error
}

// NewEditor creates an editor in the Idle state.
func NewEditor(columns *IdentityStore, criteria []Criterion, deductions []Deduction, upserter DeductionUpserter) *Editor {
	ds := make([]Deduction, len(deductions))
	copy(ds, deductions)
	return &Editor{
		columns:    columns,
		criteria:   criteria,
		deductions: ds,
		upserter:   upserter,
		state:      StateIdle,
	}
}

// State returns the current edit state.
func (e *Editor) State() EditState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Form returns the open form values.
func (e *Editor) Form() Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

// Err returns the error shown inline on the open form, if any.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Deductions returns a copy of the editor's current deduction list.
func (e *Editor) Deductions() []Deduction {
	e.mu.Lock()
	defer e.mu.Unlock()
	ds := make([]Deduction, len(e.deductions))
	copy(ds, e.deductions)
	return ds
}

// Reload replaces the deduction list with freshly fetched data.
func (e *Editor) Reload(deductions []Deduction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deductions = append([]Deduction(nil), deductions...)
}

// Input returns the current matrix input so callers can re-evaluate.
func (e *Editor) Input(editable bool) Input {
	return Input{
		Kind:       e.columns.Kind(),
		Editable:   editable,
		Criteria:   e.criteria,
		Columns:    e.columns.IDs(),
		Deductions: e.Deductions(),
	}
}

// Select targets the cell for criterionID in column. The column must already
// have an identifier; otherwise the editor stays put and a precondition
// error is returned without any network call.
func (e *Editor) Select(criterionID int64, column int) error {
	const op = "scorecard.Select"
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateSubmitting {
		return validation(op, ErrInvalidState)
	}
	if !e.knownCriterion(criterionID) {
		return validation(op, fmt.Errorf("%w: %d", ErrUnknownCriterion, criterionID))
	}
	if column < 0 || column >= e.columns.Len() {
		return validation(op, fmt.Errorf("%w: %d", ErrColumnOutOfRange, column))
	}
	columnID := e.columns.Get(column)
	if columnID == "" {
		return precondition(op, fmt.Errorf("%s %d: %w", e.columns.Kind().Label(), column+1, ErrColumnUnassigned))
	}
	e.state = StateCellSelected
	e.form = Form{CriterionID: criterionID, Column: column, ColumnID: columnID}
	e.err = nil
	return nil
}

// Open moves the selected cell into the form, prefilled with the existing
// deduction for the pair or zero values.
func (e *Editor) Open() (Form, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateCellSelected {
		return Form{}, validation("scorecard.Open", ErrInvalidState)
	}
	idx := BuildIndex(e.deductions)
	if d, ok := idx.Lookup(e.form.CriterionID, e.form.ColumnID); ok {
		e.form.Deduction = d.Deduction
		e.form.Comment = d.Comment
		e.form.Existing = true
	}
	e.state = StateFormOpen
	return e.form, nil
}

// Cancel abandons the current selection or form.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateSubmitting {
		return
	}
	e.state = StateIdle
	e.form = Form{}
	e.err = nil
}

// Submit validates the form values and upserts the deduction. On success
// the editor returns to Idle with the record merged into its list. On
// failure it stays in FormOpen and the error is kept for inline display.
func (e *Editor) Submit(ctx context.Context, deduction float64, comment string) (Deduction, error) {
	const op = "scorecard.Submit"
	e.mu.Lock()
	if e.state != StateFormOpen {
		e.mu.Unlock()
		return Deduction{}, validation(op, ErrInvalidState)
	}
	comment = strings.TrimSpace(comment)
	e.form.Deduction = deduction
	e.form.Comment = comment
	if err := validateDeduction(deduction, comment); err != nil {
		e.err = validation(op, err)
		e.mu.Unlock()
		return Deduction{}, e.err
	}
	columnID := e.columns.Get(e.form.Column)
	if columnID == "" {
		e.state = StateIdle
		e.mu.Unlock()
		return Deduction{}, precondition(op, ErrColumnUnassigned)
	}
	req := UpsertRequest{
		QualityMapID: e.columns.QualityMapID(),
		Kind:         e.columns.Kind(),
		CriteriaID:   e.form.CriterionID,
		ColumnID:     columnID,
		Deduction:    deduction,
		Comment:      comment,
	}
	e.state = StateSubmitting
	e.err = nil
	e.mu.Unlock()

	saved, err := e.upsert(ctx, req)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = StateFormOpen
		e.err = mutation(op, err)
		return Deduction{}, e.err
	}
	e.deductions = mergeDeduction(e.deductions, saved)
	e.state = StateIdle
	e.form = Form{}
	return saved, nil
}

func (e *Editor) upsert(ctx context.Context, req UpsertRequest) (Deduction, error) {
	if e.upserter == nil {
		return Deduction{}, fmt.Errorf("no deduction gateway configured")
	}
	saved, err := e.upserter.UpsertDeduction(ctx, req)
	if err != nil {
		return Deduction{}, err
	}
	// Fill the pair when the backend echoes a partial record.
	if saved.CriteriaID == 0 {
		saved.CriteriaID = req.CriteriaID
	}
	if saved.ColumnID == "" {
		saved.ColumnID = req.ColumnID
	}
	if saved.QualityMapID == 0 {
		saved.QualityMapID = req.QualityMapID
	}
	if e.Refetch != nil {
		if fresh, ferr := e.Refetch(ctx); ferr == nil {
			e.mu.Lock()
			e.deductions = append([]Deduction(nil), fresh...)
			e.mu.Unlock()
		}
	}
	return saved, nil
}

func (e *Editor) knownCriterion(id int64) bool {
	for _, c := range e.criteria {
		if c.ID == id {
			return true
		}
	}
	return false
}

func validateDeduction(deduction float64, comment string) error {
	if !ValidAmount(deduction) {
		return fmt.Errorf("%w: got %g", ErrInvalidDeduction, deduction)
	}
	if deduction > 0 && comment == "" {
		return ErrCommentRequired
	}
	return nil
}

// mergeDeduction replaces the entry for the same pair or appends it.
func mergeDeduction(list []Deduction, d Deduction) []Deduction {
	out := make([]Deduction, 0, len(list)+1)
	replaced := false
	for _, cur := range list {
		if cur.CriteriaID == d.CriteriaID && cur.ColumnID == d.ColumnID {
			if !replaced {
				out = append(out, d)
				replaced = true
			}
			continue
		}
		out = append(out, cur)
	}
	if !replaced {
		out = append(out, d)
	}
	return out
}
