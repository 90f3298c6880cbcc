package gateway

import (
	"context"
	"sync"

	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/scorecard"
)

// MockGateway is an in-memory test double. Deductions upsert by
// (kind, criterion, column) and column updates replace the whole array.
type MockGateway struct {
	mu       sync.Mutex
	Criteria []scorecard.Criterion
	Maps     map[int64]*qualitymap.QualityMap

	FetchErr  error
	UpsertErr error
	UpdateErr error

	Upserts []scorecard.UpsertRequest
	Updates [][]string
	nextID  int64
}

// NewMock returns a mock holding the given map and criteria.
func NewMock(q *qualitymap.QualityMap, criteria []scorecard.Criterion) *MockGateway {
	m := &MockGateway{Criteria: criteria, Maps: map[int64]*qualitymap.QualityMap{}}
	if q != nil {
		m.Maps[q.ID] = q
	}
	return m
}

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) FetchCriteria(_ context.Context, _ int64) ([]scorecard.Criterion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return append([]scorecard.Criterion(nil), m.Criteria...), nil
}

func (m *MockGateway) FetchQualityMap(_ context.Context, id int64) (*qualitymap.QualityMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	q, ok := m.Maps[id]
	if !ok {
		return nil, qualitymap.ErrNotFound
	}
	cp := *q
	cp.ChatIDs = append([]string(nil), q.ChatIDs...)
	cp.CallIDs = append([]string(nil), q.CallIDs...)
	cp.ChatDeductions = append([]qualitymap.DeductionRecord(nil), q.ChatDeductions...)
	cp.CallDeductions = append([]qualitymap.DeductionRecord(nil), q.CallDeductions...)
	return &cp, nil
}

func (m *MockGateway) UpsertDeduction(_ context.Context, req scorecard.UpsertRequest) (scorecard.Deduction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Upserts = append(m.Upserts, req)
	if m.UpsertErr != nil {
		return scorecard.Deduction{}, m.UpsertErr
	}
	q, ok := m.Maps[req.QualityMapID]
	if !ok {
		return scorecard.Deduction{}, qualitymap.ErrNotFound
	}
	list := &q.ChatDeductions
	if req.Kind == scorecard.KindCall {
		list = &q.CallDeductions
	}
	for i, r := range *list {
		if r.CriteriaID == req.CriteriaID && r.ColumnID(req.Kind) == req.ColumnID {
			r.Deduction = req.Deduction
			r.Comment = req.Comment
			(*list)[i] = r
			return r.ToDeduction(req.Kind), nil
		}
	}
	m.nextID++
	d := scorecard.Deduction{
		ID:           m.nextID,
		QualityMapID: req.QualityMapID,
		CriteriaID:   req.CriteriaID,
		ColumnID:     req.ColumnID,
		Deduction:    req.Deduction,
		Comment:      req.Comment,
	}
	*list = append(*list, qualitymap.FromDeduction(req.Kind, d))
	return d, nil
}

func (m *MockGateway) UpdateColumnIDs(_ context.Context, id int64, kind scorecard.ColumnKind, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates = append(m.Updates, append([]string(nil), ids...))
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	q, ok := m.Maps[id]
	if !ok {
		return qualitymap.ErrNotFound
	}
	q.SetColumns(kind, ids)
	return nil
}
