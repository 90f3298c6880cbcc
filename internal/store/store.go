// Package store is a gorm-backed local quality-map backend. It implements
// the same contract as the remote REST API so the CLI and the local server
// can run without one.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/dshills/qualitymap/internal/platform/logger"
	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/scorecard"
)

type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to the database for driver ("sqlite" or "postgres").
func Open(driver, dsn string, log *logger.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("store.Open: unsupported driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("store.Open: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db, log), nil
}

// New wraps an existing gorm handle.
func New(db *gorm.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{db: db, log: log.With("component", "store")}
}

func (s *Store) Name() string { return "local" }

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB { return s.db }

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates all tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("store.Migrate: %w", err)
	}
	return nil
}

// FetchCriteria returns active criteria for the team plus global ones. A
// zero team id returns every active criterion.
func (s *Store) FetchCriteria(ctx context.Context, teamID int64) ([]scorecard.Criterion, error) {
	var rows []Criterion
	q := s.db.WithContext(ctx).Preload("Category").Where("is_active = ?", true)
	if teamID != 0 {
		q = q.Where("team_id = ? OR is_global = ?", teamID, true)
	}
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store.FetchCriteria: %w", err)
	}
	out := make([]scorecard.Criterion, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEngine())
	}
	return out, nil
}

// FetchQualityMap returns the map with both deduction lists.
func (s *Store) FetchQualityMap(ctx context.Context, id int64) (*qualitymap.QualityMap, error) {
	db := s.db.WithContext(ctx)
	qm, err := findMap(db, id)
	if err != nil {
		return nil, fmt.Errorf("store.FetchQualityMap: %w", err)
	}
	var ds []Deduction
	if err := db.Where("quality_map_id = ?", id).Order("id").Find(&ds).Error; err != nil {
		return nil, fmt.Errorf("store.FetchQualityMap: deductions: %w", err)
	}
	return qm.toWire(ds), nil
}

// UpsertDeduction creates the deduction for the pair or updates it in place.
// The column must be assigned on the map and the criterion must exist.
func (s *Store) UpsertDeduction(ctx context.Context, req scorecard.UpsertRequest) (scorecard.Deduction, error) {
	if !req.Kind.Valid() {
		return scorecard.Deduction{}, fmt.Errorf("store.UpsertDeduction: %w: kind %q", qualitymap.ErrInvalid, req.Kind)
	}
	if !scorecard.ValidAmount(req.Deduction) {
		return scorecard.Deduction{}, fmt.Errorf("store.UpsertDeduction: %w: %w", qualitymap.ErrInvalid, scorecard.ErrInvalidDeduction)
	}
	columnID := strings.TrimSpace(req.ColumnID)
	if columnID == "" {
		return scorecard.Deduction{}, fmt.Errorf("store.UpsertDeduction: %w: %w", qualitymap.ErrInvalid, scorecard.ErrColumnUnassigned)
	}

	var saved Deduction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qm, err := findMap(tx, req.QualityMapID)
		if err != nil {
			return err
		}
		ids, _ := qm.columns(req.Kind)
		if !contains(ids, columnID) {
			return fmt.Errorf("%w: %s %q is not assigned on quality map %d", qualitymap.ErrInvalid, req.Kind.IDField(), columnID, qm.ID)
		}
		var n int64
		if err := tx.Model(&Criterion{}).Where("id = ?", req.CriteriaID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: criterion %d", qualitymap.ErrNotFound, req.CriteriaID)
		}

		row := Deduction{
			QualityMapID: req.QualityMapID,
			Kind:         string(req.Kind),
			CriteriaID:   req.CriteriaID,
			ColumnID:     columnID,
			Deduction:    req.Deduction,
			Comment:      req.Comment,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "quality_map_id"}, {Name: "kind"}, {Name: "criteria_id"}, {Name: "column_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"deduction", "comment", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		return tx.Where("quality_map_id = ? AND kind = ? AND criteria_id = ? AND column_id = ?",
			req.QualityMapID, string(req.Kind), req.CriteriaID, columnID).First(&saved).Error
	})
	if err != nil {
		return scorecard.Deduction{}, fmt.Errorf("store.UpsertDeduction: %w", err)
	}
	s.log.Debug("deduction upserted",
		"quality_map_id", saved.QualityMapID, "kind", saved.Kind,
		"criteria_id", saved.CriteriaID, "column_id", saved.ColumnID, "deduction", saved.Deduction)
	return saved.toRecord().ToDeduction(req.Kind), nil
}

// UpdateColumnIDs replaces the whole identifier array of kind. The array
// length is fixed at creation and must not change.
func (s *Store) UpdateColumnIDs(ctx context.Context, qualityMapID int64, kind scorecard.ColumnKind, ids []string) error {
	if !kind.Valid() {
		return fmt.Errorf("store.UpdateColumnIDs: %w: kind %q", qualitymap.ErrInvalid, kind)
	}
	clean := make([]string, len(ids))
	for i, id := range ids {
		clean[i] = strings.TrimSpace(id)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qm, err := findMap(tx, qualityMapID)
		if err != nil {
			return err
		}
		_, slots := qm.columns(kind)
		if len(clean) != slots {
			return fmt.Errorf("%w: %s must have %d entries, got %d", qualitymap.ErrInvalid, kind.IDsField(), slots, len(clean))
		}
		if dup := firstDuplicate(clean); dup != "" {
			return fmt.Errorf("%w: duplicate %s %q", qualitymap.ErrInvalid, kind.IDField(), dup)
		}
		column := "chat_ids"
		if kind == scorecard.KindCall {
			column = "call_ids"
		}
		return tx.Model(qm).Update(column, datatypes.NewJSONSlice(clean)).Error
	})
	if err != nil {
		return fmt.Errorf("store.UpdateColumnIDs: %w", err)
	}
	s.log.Debug("column ids updated", "quality_map_id", qualityMapID, "kind", string(kind), "count", len(clean))
	return nil
}

func findMap(db *gorm.DB, id int64) (*QualityMap, error) {
	var qm QualityMap
	if err := db.First(&qm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: quality map %d", qualitymap.ErrNotFound, id)
		}
		return nil, err
	}
	return &qm, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func firstDuplicate(ids []string) string {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if seen[id] {
			return id
		}
		seen[id] = true
	}
	return ""
}
