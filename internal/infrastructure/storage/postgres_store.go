package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq" // postgres driver

	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/ports"
)

// PostgresStore persists article records into Postgres. The record body is
// stored as JSON alongside its slug key so the file and SQL stores stay
// byte-compatible.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArticleStore = (*PostgresStore)(nil)

// OpenPostgres opens a connection pool for the given DSN.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Slugs lists every published slug, sorted.
func (s *PostgresStore) Slugs(ctx context.Context) ([]string, error) {
	query, args, err := s.builder.
		Select("slug").
		From("published_articles").
		OrderBy("slug").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build slugs query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("scan slug: %w", err)
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return slugs, nil
}

// Load reads one record by slug.
func (s *PostgresStore) Load(ctx context.Context, slug string) (domain.Record, error) {
	query, args, err := s.builder.
		Select("record").
		From("published_articles").
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return domain.Record{}, fmt.Errorf("build load query: %w", err)
	}

	var raw []byte
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		return domain.Record{}, fmt.Errorf("load article %s: %w", slug, err)
	}

	var rec domain.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Record{}, fmt.Errorf("parse article %s: %w", slug, err)
	}
	return rec, nil
}

// LoadAll reads every record, in slug order.
func (s *PostgresStore) LoadAll(ctx context.Context) ([]domain.Record, error) {
	query, args, err := s.builder.
		Select("record").
		From("published_articles").
		OrderBy("slug").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load-all query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		var rec domain.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("parse article: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return records, nil
}

// Save upserts the record keyed by slug.
func (s *PostgresStore) Save(ctx context.Context, rec domain.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal article %s: %w", rec.Slug, err)
	}

	query, args, err := s.builder.
		Insert("published_articles").
		Columns("slug", "record").
		Values(rec.Slug, raw).
		Suffix("ON CONFLICT (slug) DO UPDATE SET record = EXCLUDED.record, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert article %s: %w", rec.Slug, err)
	}
	return nil
}
