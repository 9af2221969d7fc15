package articles

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/fastinfo/newsboy/app/database"
)

// CategoryCounts marshals to a JSON object preserving the repository's
// count-descending order.
type CategoryCounts []database.CategoryCount

func (c CategoryCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, row := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(row.Category)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(row.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SourceCounts marshals like CategoryCounts, keyed by source.
type SourceCounts []database.SourceCount

func (c SourceCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, row := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(row.Source)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(row.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StatsResult summarizes the article collection. LatestUpdate is nil when
// the store is empty.
type StatsResult struct {
	Total        int            `json:"total"`
	TodayCount   int            `json:"today_count"`
	ByCategory   CategoryCounts `json:"by_category"`
	BySource     SourceCounts   `json:"by_source"`
	LatestUpdate *time.Time     `json:"latest_update"`
}

// Stats composes independent aggregate queries into a single snapshot.
// Consistency across the sub-queries is best-effort; articles ingested
// mid-request may skew individual counts.
func (s *Service) Stats(ctx context.Context) (*StatsResult, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, &StoreError{Op: "stats", Err: err}
	}

	byCategory, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, &StoreError{Op: "stats", Err: err}
	}

	bySource, err := s.repo.CountBySource(ctx)
	if err != nil {
		return nil, &StoreError{Op: "stats", Err: err}
	}

	latest, err := s.repo.LatestCreatedAt(ctx)
	if err != nil {
		return nil, &StoreError{Op: "stats", Err: err}
	}

	todayCount, err := s.repo.CountSince(ctx, startOfDay(time.Now()))
	if err != nil {
		return nil, &StoreError{Op: "stats", Err: err}
	}

	return &StatsResult{
		Total:        total,
		TodayCount:   todayCount,
		ByCategory:   CategoryCounts(byCategory),
		BySource:     SourceCounts(bySource),
		LatestUpdate: latest,
	}, nil
}
