package database

import (
	"context"
	"time"
)

// ArticleRepository is the store contract consumed by the query layer and
// the ingestion tasks. All methods are context-aware so caller timeouts
// abort the statement and return the pooled connection.
type ArticleRepository interface {
	// Retrieval
	Select(ctx context.Context, q ArticleQuery) ([]Article, error)

	// Aggregates
	CountAll(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	CountBySource(ctx context.Context) ([]SourceCount, error)
	LatestCreatedAt(ctx context.Context) (*time.Time, error)

	// Ingestion (not reachable from the tool surface)
	UpsertArticle(ctx context.Context, article Article) (bool, error)
	ArticlesMissingSummary(ctx context.Context, source string, limit int) ([]Article, error)
	ArticlesMissingAISummary(ctx context.Context, limit int) ([]Article, error)
	SetSummary(ctx context.Context, id, summary string) error
	SetAISummary(ctx context.Context, id, summary string) error
}
