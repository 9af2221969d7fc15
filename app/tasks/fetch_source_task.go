package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fastinfo/newsboy/app/database"
	"github.com/fastinfo/newsboy/app/ingest"
	"github.com/fastinfo/newsboy/app/sources"
)

type FetchSourceTask struct {
	Task
	SourceConfig *sources.Config
	httpClient   *http.Client
	parser       *ingest.Parser
	articleRepo  database.ArticleRepository
	userAgent    string
}

func NewFetchSourceTask(sourceName string, sourceConfig *sources.Config, httpClient *http.Client, parser *ingest.Parser, articleRepo database.ArticleRepository, userAgent string) *FetchSourceTask {
	return &FetchSourceTask{
		Task:         NewTask(TaskTypeFetchSource, sourceName),
		SourceConfig: sourceConfig,
		httpClient:   httpClient,
		parser:       parser,
		articleRepo:  articleRepo,
		userAgent:    userAgent,
	}
}

func (t *FetchSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	data, err := t.fetchFeed(ctx, t.SourceConfig.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	items, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	if max := t.SourceConfig.Settings.MaxItems; len(items) > max {
		items = items[:max]
	}

	newCount := 0
	updatedCount := 0
	skippedCount := 0

	now := time.Now().UTC()
	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if item.Link == "" || item.Title == "" {
			skippedCount++
			continue
		}

		article := t.buildArticle(item, now)
		inserted, err := t.articleRepo.UpsertArticle(ctx, article)
		if err != nil {
			return fmt.Errorf("failed to store article: %w", err)
		}

		if inserted {
			newCount++
		} else {
			updatedCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", len(items),
		"new", newCount,
		"updated", updatedCount,
		"skipped", skippedCount)

	return nil
}

func (t *FetchSourceTask) buildArticle(item ingest.Item, now time.Time) database.Article {
	createdAt := item.PublishedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	return database.Article{
		ID:           uuid.New().String(),
		Title:        item.Title,
		URL:          item.Link,
		Summary:      item.Summary,
		Source:       t.SourceName,
		Category:     ingest.Categorize(item.Title, item.Summary, t.SourceConfig.Category),
		QualityScore: ingest.QualityScore(item, t.SourceConfig.Weight),
		HotScore:     ingest.HotScore(item, now),
		CreatedAt:    createdAt,
	}
}

func (t *FetchSourceTask) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.SourceConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
