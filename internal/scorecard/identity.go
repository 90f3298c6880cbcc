package scorecard

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ColumnUpdater persists a scorecard's full identifier array.
type ColumnUpdater interface {
	UpdateColumnIDs(ctx context.Context, qualityMapID int64, kind ColumnKind, ids []string) error
}

// IdentityStore holds the column identifiers of one kind for one scorecard.
// Renames always write the whole array and are serialised, so two renames
// through the same store cannot drop each other.
type IdentityStore struct {
	mu      sync.RWMutex
	mapID   int64
	kind    ColumnKind
	ids     []string
	updater ColumnUpdater
}

// NewIdentityStore initialises the store from the persisted array. When
// nothing has been persisted yet (nil or empty ids) it starts with slots
// empty identifiers. A persisted array is never resized.
func NewIdentityStore(qualityMapID int64, kind ColumnKind, ids []string, slots int, updater ColumnUpdater) *IdentityStore {
	if len(ids) == 0 {
		ids = Blank(slots)
	}
	cp := make([]string, len(ids))
	copy(cp, ids)
	return &IdentityStore{mapID: qualityMapID, kind: kind, ids: cp, updater: updater}
}

func (s *IdentityStore) QualityMapID() int64 { return s.mapID }
func (s *IdentityStore) Kind() ColumnKind    { return s.kind }

// Len returns the fixed slot count.
func (s *IdentityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Get returns the identifier at index, or "" when out of range.
func (s *IdentityStore) Get(index int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.ids) {
		return ""
	}
	return s.ids[index]
}

// Filled reports whether the column at index has an identifier.
func (s *IdentityStore) Filled(index int) bool { return s.Get(index) != "" }

// IDs returns a copy of the identifier array.
func (s *IdentityStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]string, len(s.ids))
	copy(cp, s.ids)
	return cp
}

// Columns returns the identifiers as positioned columns.
func (s *IdentityStore) Columns() []Column { return ColumnsFromIDs(s.IDs()) }

// Rename sets the identifier at index to the trimmed value. The complete
// array is sent to the updater; local state changes only if it succeeds.
// Renaming to the current value is a no-op.
func (s *IdentityStore) Rename(ctx context.Context, index int, value string) error {
	const op = "scorecard.Rename"
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.ids) {
		return validation(op, fmt.Errorf("%w: %d of %d", ErrColumnOutOfRange, index, len(s.ids)))
	}
	value = strings.TrimSpace(value)
	if s.ids[index] == value {
		return nil
	}

	next := make([]string, len(s.ids))
	copy(next, s.ids)
	next[index] = value

	if s.updater == nil {
		return mutation(op, fmt.Errorf("no column updater configured"))
	}
	if err := s.updater.UpdateColumnIDs(ctx, s.mapID, s.kind, next); err != nil {
		return mutation(op, err)
	}
	s.ids = next
	return nil
}
