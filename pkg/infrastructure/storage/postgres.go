package storage

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements repository.ResultStore on PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Compile-time interface checks.
var (
	_ repository.ResultStore    = (*PostgresStore)(nil)
	_ repository.SearchRecorder = (*PostgresStore)(nil)
)

// NewPostgresStore connects to dsn and applies the embedded migrations
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// migrate applies all embedded SQL files in lexical order; they are idempotent
func (s *PostgresStore) migrate(ctx context.Context) error {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("read embedded migrations: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		data, err := fs.ReadFile(migrationsFS, "migrations/"+file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := s.pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}
	return nil
}

// Append adds a single result
func (s *PostgresStore) Append(ctx context.Context, r entity.DomainResult) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidResult, err)
	}

	query := `
		INSERT INTO domains (
			domain, extension, price, trend_score, brandability_score,
			market_value, keyword, found_at, roi_potential
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.pool.Exec(ctx, query,
		r.Domain,
		r.Extension,
		r.Price,
		r.TrendScore,
		r.BrandabilityScore,
		r.MarketValue,
		r.Keyword,
		r.FoundAt,
		r.ROIPotential,
	)
	if err != nil {
		return fmt.Errorf("insert domain: %w", err)
	}
	return nil
}

// All returns every result in insertion order
func (s *PostgresStore) All(ctx context.Context) ([]entity.DomainResult, error) {
	return s.QueryRecent(ctx, 0)
}

// QueryRecent returns the last limit results in insertion order
func (s *PostgresStore) QueryRecent(ctx context.Context, limit int) ([]entity.DomainResult, error) {
	query := `
		SELECT domain, extension, price, trend_score, brandability_score,
			market_value, keyword, found_at, roi_potential
		FROM (
			SELECT * FROM domains ORDER BY id DESC LIMIT $1
		) recent
		ORDER BY id ASC
	`
	var bound *int
	if limit > 0 {
		bound = &limit
	}

	rows, err := s.pool.Query(ctx, query, bound)
	if err != nil {
		return nil, fmt.Errorf("query domains: %w", err)
	}
	defer rows.Close()

	var results []entity.DomainResult
	for rows.Next() {
		var r entity.DomainResult
		if err := rows.Scan(
			&r.Domain,
			&r.Extension,
			&r.Price,
			&r.TrendScore,
			&r.BrandabilityScore,
			&r.MarketValue,
			&r.Keyword,
			&r.FoundAt,
			&r.ROIPotential,
		); err != nil {
			return nil, fmt.Errorf("scan domain: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate domains: %w", err)
	}
	return results, nil
}

// Aggregate summarizes the stored results
func (s *PostgresStore) Aggregate(ctx context.Context) (entity.Aggregate, error) {
	results, err := s.All(ctx)
	if err != nil {
		return entity.Aggregate{}, err
	}
	return entity.ComputeAggregate(results), nil
}

// Clear deletes every result and search record in one transaction
func (s *PostgresStore) Clear(ctx context.Context) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM domains`); err != nil {
			return fmt.Errorf("clear domains: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM searches`); err != nil {
			return fmt.Errorf("clear searches: %w", err)
		}
		return nil
	})
}

// SaveSearch records a finished hunt
func (s *PostgresStore) SaveSearch(ctx context.Context, record entity.SearchRecord) error {
	config, err := json.Marshal(record.Config)
	if err != nil {
		return fmt.Errorf("encode search config: %w", err)
	}

	query := `
		INSERT INTO searches (id, config, state, checked, found, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := s.pool.Exec(ctx, query,
		record.ID,
		config,
		record.State,
		record.Checked,
		record.Found,
		record.StartedAt,
		record.FinishedAt,
	); err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

// Searches returns every recorded hunt, oldest first
func (s *PostgresStore) Searches(ctx context.Context) ([]entity.SearchRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, config, state, checked, found, started_at, finished_at
		FROM searches
		ORDER BY started_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query searches: %w", err)
	}
	defer rows.Close()

	var records []entity.SearchRecord
	for rows.Next() {
		var record entity.SearchRecord
		var config []byte
		if err := rows.Scan(
			&record.ID,
			&config,
			&record.State,
			&record.Checked,
			&record.Found,
			&record.StartedAt,
			&record.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		if err := json.Unmarshal(config, &record.Config); err != nil {
			return nil, fmt.Errorf("decode search config %s: %w", record.ID, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate searches: %w", err)
	}
	return records, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
