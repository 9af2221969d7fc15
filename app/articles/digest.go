package articles

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/fastinfo/newsboy/app/database"
)

// CategoryGroup is one digest group: a category and its articles in ranked
// order.
type CategoryGroup struct {
	Category string
	Articles []database.Article
}

// ArticleGroups preserves the order in which each category first appears in
// the ranked input. It marshals to a JSON object with keys in that order.
type ArticleGroups []CategoryGroup

func (g ArticleGroups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.Category)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(group.Articles)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DigestResult is today's top articles, flat and grouped by category.
type DigestResult struct {
	Date       string             `json:"date"`
	Total      int                `json:"total"`
	Articles   []database.Article `json:"articles"`
	ByCategory ArticleGroups      `json:"by_category"`
}

// DailyDigest retrieves today's articles in relevance order (up to the
// configured digest size) and groups them by category. Group keys keep the
// order in which each category first appears in the ranked list.
func (s *Service) DailyDigest(ctx context.Context) (*DigestResult, error) {
	now := time.Now()

	rows, err := s.repo.Select(ctx, database.ArticleQuery{
		Predicate: database.CreatedSince{Since: startOfDay(now)},
		Order:     database.OrderRelevance,
		Limit:     s.digestSize,
	})
	if err != nil {
		return nil, &StoreError{Op: "daily_digest", Err: err}
	}

	return &DigestResult{
		Date:       now.Format("2006-01-02"),
		Total:      len(rows),
		Articles:   rows,
		ByCategory: groupByCategory(rows),
	}, nil
}

func groupByCategory(rows []database.Article) ArticleGroups {
	groups := ArticleGroups{}
	index := make(map[string]int)

	for _, article := range rows {
		i, seen := index[article.Category]
		if !seen {
			i = len(groups)
			index[article.Category] = i
			groups = append(groups, CategoryGroup{Category: article.Category})
		}
		groups[i].Articles = append(groups[i].Articles, article)
	}

	return groups
}
