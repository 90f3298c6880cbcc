package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/scorecard"
	"github.com/dshills/qualitymap/internal/snapshot"
)

// CreateCategory inserts a category and returns it with its id.
func (s *Store) CreateCategory(ctx context.Context, name string) (scorecard.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return scorecard.Category{}, fmt.Errorf("store.CreateCategory: %w: name is required", qualitymap.ErrInvalid)
	}
	row := Category{Name: name}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return scorecard.Category{}, fmt.Errorf("store.CreateCategory: %w", err)
	}
	return scorecard.Category{ID: row.ID, Name: row.Name}, nil
}

// CreateCriterion inserts c. The returned criterion carries the new id.
func (s *Store) CreateCriterion(ctx context.Context, c scorecard.Criterion) (scorecard.Criterion, error) {
	if strings.TrimSpace(c.Name) == "" {
		return scorecard.Criterion{}, fmt.Errorf("store.CreateCriterion: %w: name is required", qualitymap.ErrInvalid)
	}
	row := fromEngine(c)
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return scorecard.Criterion{}, fmt.Errorf("store.CreateCriterion: %w", err)
	}
	c.ID = row.ID
	return c, nil
}

// CreateQualityMap creates an empty quality map with blank identifier
// arrays sized to the slot counts.
func (s *Store) CreateQualityMap(ctx context.Context, teamID int64, employee string, chats, calls int) (*qualitymap.QualityMap, error) {
	if err := checkSlots(chats, calls); err != nil {
		return nil, fmt.Errorf("store.CreateQualityMap: %w", err)
	}
	row := QualityMap{
		TeamID:    teamID,
		Employee:  strings.TrimSpace(employee),
		ChatCount: chats,
		CallCount: calls,
		ChatIDs:   datatypes.NewJSONSlice(scorecard.Blank(chats)),
		CallIDs:   datatypes.NewJSONSlice(scorecard.Blank(calls)),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("store.CreateQualityMap: %w", err)
	}
	s.log.Info("quality map created", "quality_map_id", row.ID, "team_id", teamID, "chats", chats, "calls", calls)
	return row.toWire(nil), nil
}

// ImportResult counts the rows written by Import.
type ImportResult struct {
	QualityMapID int64
	Categories   int
	Criteria     int
	Deductions   int
}

// Import writes a snapshot in one transaction. Existing rows with the same
// ids are overwritten so re-importing a snapshot is idempotent.
func (s *Store) Import(ctx context.Context, snap *snapshot.Snapshot) (ImportResult, error) {
	qm := snap.QualityMap
	if err := checkSlots(qm.Slots(scorecard.KindChat), qm.Slots(scorecard.KindCall)); err != nil {
		return ImportResult{}, fmt.Errorf("store.Import: %w", err)
	}
	var res ImportResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := map[int64]bool{}
		for _, c := range snap.Criteria {
			if c.Category == nil || seen[c.Category.ID] {
				continue
			}
			seen[c.Category.ID] = true
			cat := Category{ID: c.Category.ID, Name: c.Category.Name}
			if err := overwrite(tx).Create(&cat).Error; err != nil {
				return fmt.Errorf("category %d: %w", cat.ID, err)
			}
			res.Categories++
		}
		for _, c := range snap.Criteria {
			row := fromEngine(c)
			if err := overwrite(tx).Omit(clause.Associations).Create(&row).Error; err != nil {
				return fmt.Errorf("criterion %d: %w", c.ID, err)
			}
			res.Criteria++
		}

		row := QualityMap{
			ID:        qm.ID,
			TeamID:    qm.TeamID,
			Employee:  qm.Employee,
			ChatCount: qm.Slots(scorecard.KindChat),
			CallCount: qm.Slots(scorecard.KindCall),
			ChatIDs:   datatypes.NewJSONSlice(qm.Columns(scorecard.KindChat)),
			CallIDs:   datatypes.NewJSONSlice(qm.Columns(scorecard.KindCall)),
		}
		if err := overwrite(tx).Create(&row).Error; err != nil {
			return fmt.Errorf("quality map %d: %w", qm.ID, err)
		}
		res.QualityMapID = row.ID

		if err := tx.Where("quality_map_id = ?", row.ID).Delete(&Deduction{}).Error; err != nil {
			return fmt.Errorf("clear deductions: %w", err)
		}
		for _, kind := range []scorecard.ColumnKind{scorecard.KindChat, scorecard.KindCall} {
			for _, d := range qm.Deductions(kind) {
				if d.ColumnID == "" {
					continue
				}
				dr := Deduction{
					QualityMapID: row.ID,
					Kind:         string(kind),
					CriteriaID:   d.CriteriaID,
					ColumnID:     d.ColumnID,
					Deduction:    d.Deduction,
					Comment:      d.Comment,
					CreatedBy:    d.CreatedBy,
				}
				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "quality_map_id"}, {Name: "kind"}, {Name: "criteria_id"}, {Name: "column_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"deduction", "comment", "created_by", "updated_at"}),
				}).Create(&dr).Error
				if err != nil {
					return fmt.Errorf("%s deduction %d/%s: %w", kind, d.CriteriaID, d.ColumnID, err)
				}
				res.Deductions++
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("store.Import: %w", err)
	}
	s.log.Info("snapshot imported", "quality_map_id", res.QualityMapID,
		"criteria", res.Criteria, "deductions", res.Deductions)
	return res, nil
}

func overwrite(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.OnConflict{UpdateAll: true})
}

func checkSlots(chats, calls int) error {
	for _, c := range []struct {
		kind scorecard.ColumnKind
		n    int
	}{{scorecard.KindChat, chats}, {scorecard.KindCall, calls}} {
		lo, hi := c.kind.SlotBounds()
		if c.n < lo || c.n > hi {
			return fmt.Errorf("%w: %s count %d outside %d-%d", qualitymap.ErrInvalid, c.kind, c.n, lo, hi)
		}
	}
	return nil
}

func fromEngine(c scorecard.Criterion) Criterion {
	return Criterion{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		MaxScore:    c.MaxScore,
		IsActive:    c.IsActive,
		IsGlobal:    c.IsGlobal,
		TeamID:      c.TeamID,
		CategoryID:  categoryID(c),
	}
}

func categoryID(c scorecard.Criterion) *int64 {
	if c.CategoryID != nil {
		return c.CategoryID
	}
	if c.Category != nil {
		id := c.Category.ID
		return &id
	}
	return nil
}
