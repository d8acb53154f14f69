package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/ports"
)

// FileStore keeps one JSON record per article under a directory, named
// <slug>.json. This is the shape the site frontend consumes directly.
type FileStore struct {
	dir string
}

var _ ports.ArticleStore = (*FileStore)(nil)

// NewFileStore wires the articles directory.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Slugs lists every published slug, sorted.
func (s *FileStore) Slugs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read articles dir: %w", err)
	}

	var slugs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Load reads one record by slug.
func (s *FileStore) Load(ctx context.Context, slug string) (domain.Record, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, slug+".json"))
	if err != nil {
		return domain.Record{}, fmt.Errorf("read article %s: %w", slug, err)
	}

	var rec domain.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Record{}, fmt.Errorf("parse article %s: %w", slug, err)
	}
	if rec.Slug == "" {
		rec.Slug = slug
	}
	return rec, nil
}

// LoadAll reads every record, in slug order.
func (s *FileStore) LoadAll(ctx context.Context) ([]domain.Record, error) {
	slugs, err := s.Slugs(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(slugs))
	for _, slug := range slugs {
		rec, err := s.Load(ctx, slug)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Save writes the record as indented JSON keyed by its slug.
func (s *FileStore) Save(ctx context.Context, rec domain.Record) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create articles dir: %w", err)
	}

	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal article %s: %w", rec.Slug, err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, rec.Slug+".json"), raw, 0o644); err != nil {
		return fmt.Errorf("write article %s: %w", rec.Slug, err)
	}
	return nil
}
