package scorecard

// ColumnKind selects which family of slots a matrix is built over.
type ColumnKind string

const (
	KindChat ColumnKind = "chat"
	KindCall ColumnKind = "call"
)

// Slot bounds fixed at scorecard creation.
const (
	MinChats = 1
	MaxChats = 50
	MinCalls = 0
	MaxCalls = 50
)

func (k ColumnKind) Valid() bool {
	switch k {
	case KindChat, KindCall:
		return true
	}
	return false
}

// IDField is the wire name of a deduction's column identifier.
func (k ColumnKind) IDField() string {
	if k == KindCall {
		return "call_id"
	}
	return "chat_id"
}

// IDsField is the wire name of the quality map's identifier array.
func (k ColumnKind) IDsField() string {
	if k == KindCall {
		return "call_ids"
	}
	return "chat_ids"
}

// Label is the human-facing column prefix.
func (k ColumnKind) Label() string {
	if k == KindCall {
		return "Call"
	}
	return "Chat"
}

// SlotBounds returns the inclusive slot count range for the kind.
func (k ColumnKind) SlotBounds() (lo, hi int) {
	if k == KindCall {
		return MinCalls, MaxCalls
	}
	return MinChats, MaxChats
}

// CellState is the resolved state of a criterion cell.
type CellState string

const (
	CellUnassigned CellState = "unassigned"
	CellEmpty      CellState = "empty"
	CellDeducted   CellState = "deducted"
	CellNoScore    CellState = "no_score"
	CellScored     CellState = "scored"
)

// EditState is a state of the deduction edit flow.
type EditState string

const (
	StateIdle         EditState = "idle"
	StateCellSelected EditState = "cell_selected"
	StateFormOpen     EditState = "form_open"
	StateSubmitting   EditState = "submitting"
)
