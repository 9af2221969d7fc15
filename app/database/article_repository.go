package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PgArticleRepository implements ArticleRepository on Postgres.
type PgArticleRepository struct {
	db *DB
}

var _ ArticleRepository = (*PgArticleRepository)(nil)

func NewArticleRepository(db *DB) *PgArticleRepository {
	return &PgArticleRepository{db: db}
}

func (r *PgArticleRepository) Select(ctx context.Context, q ArticleQuery) ([]Article, error) {
	query, args, err := q.SQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build article query: %w", err)
	}

	articles := []Article{}
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select articles: %w", err)
	}

	return articles, nil
}

func (r *PgArticleRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

func (r *PgArticleRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM articles WHERE created_at >= $1", since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles since %s: %w", since.Format(time.RFC3339), err)
	}
	return count, nil
}

func (r *PgArticleRepository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	counts := []CategoryCount{}
	err := r.db.SelectContext(ctx, &counts, `
		SELECT category, COUNT(*) AS count
		FROM articles
		GROUP BY category
		ORDER BY count DESC, category ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles by category: %w", err)
	}
	return counts, nil
}

func (r *PgArticleRepository) CountBySource(ctx context.Context) ([]SourceCount, error) {
	counts := []SourceCount{}
	err := r.db.SelectContext(ctx, &counts, `
		SELECT source, COUNT(*) AS count
		FROM articles
		GROUP BY source
		ORDER BY count DESC, source ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles by source: %w", err)
	}
	return counts, nil
}

func (r *PgArticleRepository) LatestCreatedAt(ctx context.Context) (*time.Time, error) {
	var latest sql.NullTime
	err := r.db.QueryRowContext(ctx, "SELECT MAX(created_at) FROM articles").Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest article timestamp: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	t := latest.Time
	return &t, nil
}

// UpsertArticle inserts an article, keyed by URL. Returns true when a new
// row was created; a conflicting URL refreshes scores and summary only.
func (r *PgArticleRepository) UpsertArticle(ctx context.Context, article Article) (bool, error) {
	var inserted bool
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO articles (id, title, url, summary, ai_summary, source, category, quality_score, hot_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (url) DO UPDATE SET
			summary = CASE WHEN EXCLUDED.summary <> '' THEN EXCLUDED.summary ELSE articles.summary END,
			quality_score = EXCLUDED.quality_score,
			hot_score = EXCLUDED.hot_score,
			updated_at = NOW()
		RETURNING (xmax = 0)
	`, article.ID, article.Title, article.URL, article.Summary, article.AISummary,
		article.Source, article.Category, article.QualityScore, article.HotScore,
		article.CreatedAt).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert article %s: %w", article.URL, err)
	}
	return inserted, nil
}

func (r *PgArticleRepository) ArticlesMissingSummary(ctx context.Context, source string, limit int) ([]Article, error) {
	articles := []Article{}
	err := r.db.SelectContext(ctx, &articles, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE source = $1 AND summary = ''
		ORDER BY created_at DESC
		LIMIT $2
	`, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles missing summary: %w", err)
	}
	return articles, nil
}

func (r *PgArticleRepository) ArticlesMissingAISummary(ctx context.Context, limit int) ([]Article, error) {
	articles := []Article{}
	err := r.db.SelectContext(ctx, &articles, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE ai_summary = '' AND (title <> '' OR summary <> '')
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles missing AI summary: %w", err)
	}
	return articles, nil
}

func (r *PgArticleRepository) SetSummary(ctx context.Context, id, summary string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE articles SET summary = $2, updated_at = NOW() WHERE id = $1", id, summary)
	if err != nil {
		return fmt.Errorf("failed to set summary for article %s: %w", id, err)
	}
	return nil
}

func (r *PgArticleRepository) SetAISummary(ctx context.Context, id, summary string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE articles SET ai_summary = $2, updated_at = NOW() WHERE id = $1", id, summary)
	if err != nil {
		return fmt.Errorf("failed to set AI summary for article %s: %w", id, err)
	}
	return nil
}
