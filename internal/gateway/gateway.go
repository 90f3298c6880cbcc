// Package gateway defines the external capabilities the scorecard engine
// consumes and the implementations that talk to a quality-map backend.
package gateway

import (
	"context"

	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/scorecard"
)

// Gateway reads scorecard data and writes deductions and column identifiers.
type Gateway interface {
	FetchCriteria(ctx context.Context, teamID int64) ([]scorecard.Criterion, error)
	FetchQualityMap(ctx context.Context, id int64) (*qualitymap.QualityMap, error)
	UpsertDeduction(ctx context.Context, req scorecard.UpsertRequest) (scorecard.Deduction, error)
	UpdateColumnIDs(ctx context.Context, qualityMapID int64, kind scorecard.ColumnKind, ids []string) error
	Name() string
}

// Refetcher returns a function that reloads the deductions of one kind,
// suitable for scorecard.Editor.Refetch.
func Refetcher(g Gateway, qualityMapID int64, kind scorecard.ColumnKind) func(context.Context) ([]scorecard.Deduction, error) {
	return func(ctx context.Context) ([]scorecard.Deduction, error) {
		q, err := g.FetchQualityMap(ctx, qualityMapID)
		if err != nil {
			return nil, err
		}
		return q.Deductions(kind), nil
	}
}
