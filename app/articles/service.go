package articles

import (
	"context"
	"time"

	"github.com/fastinfo/newsboy/app/database"
)

const (
	DefaultLimit     = 10
	DefaultMaxLimit  = 100
	DefaultDigestMax = 20
)

// Options bound result sizes. Zero values fall back to the defaults above.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	DigestSize   int
}

// Service answers read-only article queries and aggregations against an
// ArticleRepository. It holds no per-request state; every call validates its
// parameters first, then issues structured queries against the store.
type Service struct {
	repo         database.ArticleRepository
	defaultLimit int
	maxLimit     int
	digestSize   int
}

func NewService(repo database.ArticleRepository, opts Options) *Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = DefaultMaxLimit
	}
	if opts.DigestSize <= 0 {
		opts.DigestSize = DefaultDigestMax
	}
	return &Service{
		repo:         repo,
		defaultLimit: opts.DefaultLimit,
		maxLimit:     opts.MaxLimit,
		digestSize:   opts.DigestSize,
	}
}

// Search returns articles whose title, summary or AI summary contains the
// query, case-insensitive, in relevance order.
func (s *Service) Search(ctx context.Context, query string, limit *int) ([]database.Article, error) {
	term, err := normalizeTerm("query", query)
	if err != nil {
		return nil, err
	}
	n, err := s.normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	return s.selectArticles(ctx, "search", database.ArticleQuery{
		Predicate: database.TextContains{Term: term},
		Order:     database.OrderRelevance,
		Limit:     n,
	})
}

// FilterByCategory returns articles of one category in recency order.
func (s *Service) FilterByCategory(ctx context.Context, category string, limit *int) ([]database.Article, error) {
	if err := ValidateCategory(category); err != nil {
		return nil, err
	}
	n, err := s.normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	return s.selectArticles(ctx, "filter_by_category", database.ArticleQuery{
		Predicate: database.CategoryIs{Category: category},
		Order:     database.OrderRecency,
		Limit:     n,
	})
}

// FilterByDate returns articles created within the window named by the
// range token ("today", "week" or "month"), in recency order.
func (s *Service) FilterByDate(ctx context.Context, rangeToken string, limit *int) ([]database.Article, error) {
	since, err := WindowStart(rangeToken, time.Now())
	if err != nil {
		return nil, err
	}
	n, err := s.normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	return s.selectArticles(ctx, "filter_by_date", database.ArticleQuery{
		Predicate: database.CreatedSince{Since: since},
		Order:     database.OrderRecency,
		Limit:     n,
	})
}

// FilterBySource returns articles whose source contains the given term,
// case-insensitive, in recency order.
func (s *Service) FilterBySource(ctx context.Context, source string, limit *int) ([]database.Article, error) {
	term, err := normalizeTerm("source", source)
	if err != nil {
		return nil, err
	}
	n, err := s.normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	return s.selectArticles(ctx, "filter_by_source", database.ArticleQuery{
		Predicate: database.SourceContains{Term: term},
		Order:     database.OrderRecency,
		Limit:     n,
	})
}

// Trending returns the highest hot_score articles, recency breaking ties.
func (s *Service) Trending(ctx context.Context, limit *int) ([]database.Article, error) {
	n, err := s.normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	return s.selectArticles(ctx, "trending", database.ArticleQuery{
		Predicate: database.All{},
		Order:     database.OrderRelevance,
		Limit:     n,
	})
}

// Sources returns source names with article counts, ordered by count
// descending.
func (s *Service) Sources(ctx context.Context) ([]database.SourceCount, error) {
	counts, err := s.repo.CountBySource(ctx)
	if err != nil {
		return nil, &StoreError{Op: "sources", Err: err}
	}
	return counts, nil
}

func (s *Service) selectArticles(ctx context.Context, op string, q database.ArticleQuery) ([]database.Article, error) {
	rows, err := s.repo.Select(ctx, q)
	if err != nil {
		return nil, &StoreError{Op: op, Err: err}
	}
	return rows, nil
}
