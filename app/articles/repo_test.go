package articles

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/fastinfo/newsboy/app/database"
)

// fakeRepo is an in-memory substitute for the Postgres repository. It
// evaluates the same predicate/order/limit semantics so service tests can
// assert on real result shapes.
type fakeRepo struct {
	articles []database.Article
	queries  []database.ArticleQuery
	err      error
}

var _ database.ArticleRepository = (*fakeRepo)(nil)

func (f *fakeRepo) Select(ctx context.Context, q database.ArticleQuery) ([]database.Article, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}

	matched := []database.Article{}
	for _, a := range f.articles {
		if predicateMatches(q.Predicate, a) {
			matched = append(matched, a)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if q.Order == database.OrderRelevance {
			if matched[i].HotScore != matched[j].HotScore {
				return matched[i].HotScore > matched[j].HotScore
			}
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func predicateMatches(p database.Predicate, a database.Article) bool {
	switch pred := p.(type) {
	case database.All, nil:
		return true
	case database.CategoryIs:
		return a.Category == pred.Category
	case database.CreatedSince:
		return !a.CreatedAt.Before(pred.Since)
	case database.SourceContains:
		return containsFold(a.Source, pred.Term)
	case database.TextContains:
		return containsFold(a.Title, pred.Term) ||
			containsFold(a.Summary, pred.Term) ||
			containsFold(a.AISummary, pred.Term)
	default:
		return false
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (f *fakeRepo) CountAll(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.articles), nil
}

func (f *fakeRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, a := range f.articles {
		if !a.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CountByCategory(ctx context.Context) ([]database.CategoryCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	byName := map[string]int{}
	for _, a := range f.articles {
		byName[a.Category]++
	}
	counts := []database.CategoryCount{}
	for name, count := range byName {
		counts = append(counts, database.CategoryCount{Category: name, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})
	return counts, nil
}

func (f *fakeRepo) CountBySource(ctx context.Context) ([]database.SourceCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	byName := map[string]int{}
	for _, a := range f.articles {
		byName[a.Source]++
	}
	counts := []database.SourceCount{}
	for name, count := range byName {
		counts = append(counts, database.SourceCount{Source: name, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Source < counts[j].Source
	})
	return counts, nil
}

func (f *fakeRepo) LatestCreatedAt(ctx context.Context) (*time.Time, error) {
	if f.err != nil {
		return nil, f.err
	}
	var latest *time.Time
	for i := range f.articles {
		t := f.articles[i].CreatedAt
		if latest == nil || t.After(*latest) {
			latest = &t
		}
	}
	return latest, nil
}

func (f *fakeRepo) UpsertArticle(ctx context.Context, article database.Article) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for i := range f.articles {
		if f.articles[i].URL == article.URL {
			f.articles[i] = article
			return false, nil
		}
	}
	f.articles = append(f.articles, article)
	return true, nil
}

func (f *fakeRepo) ArticlesMissingSummary(ctx context.Context, source string, limit int) ([]database.Article, error) {
	out := []database.Article{}
	for _, a := range f.articles {
		if a.Source == source && a.Summary == "" {
			out = append(out, a)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, f.err
}

func (f *fakeRepo) ArticlesMissingAISummary(ctx context.Context, limit int) ([]database.Article, error) {
	out := []database.Article{}
	for _, a := range f.articles {
		if a.AISummary == "" {
			out = append(out, a)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, f.err
}

func (f *fakeRepo) SetSummary(ctx context.Context, id, summary string) error {
	for i := range f.articles {
		if f.articles[i].ID == id {
			f.articles[i].Summary = summary
		}
	}
	return f.err
}

func (f *fakeRepo) SetAISummary(ctx context.Context, id, summary string) error {
	for i := range f.articles {
		if f.articles[i].ID == id {
			f.articles[i].AISummary = summary
		}
	}
	return f.err
}
