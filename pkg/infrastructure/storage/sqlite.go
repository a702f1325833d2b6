package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// domainRow is the gorm model of a stored result
type domainRow struct {
	ID                uint   `gorm:"primaryKey"`
	Domain            string `gorm:"index"`
	Extension         string `gorm:"index"`
	Price             float64
	TrendScore        int
	BrandabilityScore int
	MarketValue       int
	Keyword           string
	FoundAt           time.Time
	ROIPotential      float64
	CreatedAt         time.Time
}

func (domainRow) TableName() string { return "domains" }

func newDomainRow(r entity.DomainResult) domainRow {
	return domainRow{
		Domain:            r.Domain,
		Extension:         r.Extension,
		Price:             r.Price,
		TrendScore:        r.TrendScore,
		BrandabilityScore: r.BrandabilityScore,
		MarketValue:       r.MarketValue,
		Keyword:           r.Keyword,
		FoundAt:           r.FoundAt,
		ROIPotential:      r.ROIPotential,
	}
}

func (d domainRow) result() entity.DomainResult {
	return entity.DomainResult{
		Domain:            d.Domain,
		Extension:         d.Extension,
		Price:             d.Price,
		TrendScore:        d.TrendScore,
		BrandabilityScore: d.BrandabilityScore,
		MarketValue:       d.MarketValue,
		Keyword:           d.Keyword,
		FoundAt:           d.FoundAt,
		ROIPotential:      d.ROIPotential,
	}
}

// searchRow is the gorm model of a finished hunt
type searchRow struct {
	ID         string `gorm:"primaryKey"`
	Config     string
	State      string
	Checked    int64
	Found      int64
	StartedAt  time.Time
	FinishedAt time.Time
}

func (searchRow) TableName() string { return "searches" }

// SQLiteStore implements repository.ResultStore on SQLite through gorm
type SQLiteStore struct {
	db *gorm.DB
}

// Compile-time interface checks.
var (
	_ repository.ResultStore    = (*SQLiteStore)(nil)
	_ repository.SearchRecorder = (*SQLiteStore)(nil)
)

// NewSQLiteStore opens (or creates) the database at path and migrates the schema
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&domainRow{}, &searchRow{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append adds a single result
func (s *SQLiteStore) Append(ctx context.Context, result entity.DomainResult) error {
	if err := result.Validate(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidResult, err)
	}
	row := newDomainRow(result)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert domain: %w", err)
	}
	return nil
}

// All returns every result in insertion order
func (s *SQLiteStore) All(ctx context.Context) ([]entity.DomainResult, error) {
	return s.QueryRecent(ctx, 0)
}

// QueryRecent returns the last limit results in insertion order
func (s *SQLiteStore) QueryRecent(ctx context.Context, limit int) ([]entity.DomainResult, error) {
	var rows []domainRow
	query := s.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query domains: %w", err)
	}

	results := make([]entity.DomainResult, len(rows))
	for i, row := range rows {
		results[len(rows)-1-i] = row.result()
	}
	return results, nil
}

// Aggregate summarizes the stored results
func (s *SQLiteStore) Aggregate(ctx context.Context) (entity.Aggregate, error) {
	results, err := s.All(ctx)
	if err != nil {
		return entity.Aggregate{}, err
	}
	return entity.ComputeAggregate(results), nil
}

// Clear deletes every result and search record in one transaction
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domainRow{}).Error; err != nil {
			return fmt.Errorf("clear domains: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&searchRow{}).Error; err != nil {
			return fmt.Errorf("clear searches: %w", err)
		}
		return nil
	})
}

// SaveSearch records a finished hunt
func (s *SQLiteStore) SaveSearch(ctx context.Context, record entity.SearchRecord) error {
	config, err := json.Marshal(record.Config)
	if err != nil {
		return fmt.Errorf("encode search config: %w", err)
	}
	row := searchRow{
		ID:         record.ID,
		Config:     string(config),
		State:      record.State,
		Checked:    record.Checked,
		Found:      record.Found,
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

// Searches returns every recorded hunt, oldest first
func (s *SQLiteStore) Searches(ctx context.Context) ([]entity.SearchRecord, error) {
	var rows []searchRow
	if err := s.db.WithContext(ctx).Order("started_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query searches: %w", err)
	}

	records := make([]entity.SearchRecord, 0, len(rows))
	for _, row := range rows {
		record := entity.SearchRecord{
			ID:         row.ID,
			State:      row.State,
			Checked:    row.Checked,
			Found:      row.Found,
			StartedAt:  row.StartedAt,
			FinishedAt: row.FinishedAt,
		}
		if err := json.Unmarshal([]byte(row.Config), &record.Config); err != nil {
			return nil, fmt.Errorf("decode search config %s: %w", row.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Close closes the underlying connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
