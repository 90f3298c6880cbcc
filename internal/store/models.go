package store

import (
	"time"

	"gorm.io/datatypes"

	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/scorecard"
)

type Category struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(255);not null"`
}

func (Category) TableName() string { return "quality_categories" }

type Criterion struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	MaxScore    float64   `gorm:"not null;default:0"`
	IsActive    bool      `gorm:"not null"`
	IsGlobal    bool      `gorm:"not null;default:false;index"`
	TeamID      *int64    `gorm:"index"`
	CategoryID  *int64    `gorm:"index"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time
}

func (Criterion) TableName() string { return "quality_criteria" }

type QualityMap struct {
	ID        int64                       `gorm:"primaryKey"`
	TeamID    int64                       `gorm:"not null;index"`
	Employee  string                      `gorm:"type:varchar(255)"`
	ChatCount int                         `gorm:"not null"`
	CallCount int                         `gorm:"not null;default:0"`
	ChatIDs   datatypes.JSONSlice[string] `gorm:"not null"`
	CallIDs   datatypes.JSONSlice[string] `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (QualityMap) TableName() string { return "quality_maps" }

// Deduction rows are unique per (map, kind, criterion, column).
type Deduction struct {
	ID           int64   `gorm:"primaryKey"`
	QualityMapID int64   `gorm:"not null;uniqueIndex:idx_deduction_pair,priority:1"`
	Kind         string  `gorm:"type:varchar(8);not null;uniqueIndex:idx_deduction_pair,priority:2"`
	CriteriaID   int64   `gorm:"not null;uniqueIndex:idx_deduction_pair,priority:3"`
	ColumnID     string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_deduction_pair,priority:4"`
	Deduction    float64 `gorm:"not null"`
	Comment      string  `gorm:"type:text;not null;default:''"`
	CreatedBy    string  `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	QualityMap *QualityMap `gorm:"foreignKey:QualityMapID;constraint:OnDelete:CASCADE"`
}

func (Deduction) TableName() string { return "quality_deductions" }

func (c *Criterion) toEngine() scorecard.Criterion {
	out := scorecard.Criterion{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		MaxScore:    c.MaxScore,
		IsActive:    c.IsActive,
		IsGlobal:    c.IsGlobal,
		TeamID:      c.TeamID,
		CategoryID:  c.CategoryID,
	}
	if c.Category != nil {
		out.Category = &scorecard.Category{ID: c.Category.ID, Name: c.Category.Name}
	}
	return out
}

func (d *Deduction) toRecord() qualitymap.DeductionRecord {
	return qualitymap.FromDeduction(scorecard.ColumnKind(d.Kind), scorecard.Deduction{
		ID:           d.ID,
		QualityMapID: d.QualityMapID,
		CriteriaID:   d.CriteriaID,
		ColumnID:     d.ColumnID,
		Deduction:    d.Deduction,
		Comment:      d.Comment,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt,
	})
}

func (q *QualityMap) toWire(deductions []Deduction) *qualitymap.QualityMap {
	out := &qualitymap.QualityMap{
		ID:             q.ID,
		TeamID:         q.TeamID,
		Employee:       q.Employee,
		ChatCount:      q.ChatCount,
		CallCount:      q.CallCount,
		ChatIDs:        append([]string{}, q.ChatIDs...),
		CallIDs:        append([]string{}, q.CallIDs...),
		ChatDeductions: []qualitymap.DeductionRecord{},
		CallDeductions: []qualitymap.DeductionRecord{},
		CreatedAt:      q.CreatedAt,
	}
	for i := range deductions {
		rec := deductions[i].toRecord()
		if deductions[i].Kind == string(scorecard.KindCall) {
			out.CallDeductions = append(out.CallDeductions, rec)
		} else {
			out.ChatDeductions = append(out.ChatDeductions, rec)
		}
	}
	return out
}

func (q *QualityMap) columns(kind scorecard.ColumnKind) ([]string, int) {
	if kind == scorecard.KindCall {
		return q.CallIDs, q.CallCount
	}
	return q.ChatIDs, q.ChatCount
}

// AllModels lists the tables Migrate creates.
func AllModels() []any {
	return []any{&Category{}, &Criterion{}, &QualityMap{}, &Deduction{}}
}
