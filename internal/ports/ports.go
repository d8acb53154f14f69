package ports

import (
	"context"

	"ArticlePublisher/internal/domain"
)

// ArticleStore persists finalized articles as structured records keyed by
// slug, and answers which slugs are already published.
type ArticleStore interface {
	Slugs(ctx context.Context) ([]string, error)
	Load(ctx context.Context, slug string) (domain.Record, error)
	LoadAll(ctx context.Context) ([]domain.Record, error)
	Save(ctx context.Context, rec domain.Record) error
}

// Notifier delivers pipeline outcome digests to an external channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}
