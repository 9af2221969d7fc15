package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fastinfo/newsboy/app/database"
	"github.com/fastinfo/newsboy/app/ingest"
	"github.com/fastinfo/newsboy/app/sources"
)

type ExtractSummaryTask struct {
	Task
	SourceConfig     *sources.Config
	httpClient       *http.Client
	summaryExtractor *ingest.SummaryExtractor
	articleRepo      database.ArticleRepository
	userAgent        string
}

func NewExtractSummaryTask(sourceName string, sourceConfig *sources.Config, httpClient *http.Client, summaryExtractor *ingest.SummaryExtractor, articleRepo database.ArticleRepository, userAgent string) *ExtractSummaryTask {
	return &ExtractSummaryTask{
		Task:             NewTask(TaskTypeExtractSummary, sourceName),
		SourceConfig:     sourceConfig,
		httpClient:       httpClient,
		summaryExtractor: summaryExtractor,
		articleRepo:      articleRepo,
		userAgent:        userAgent,
	}
}

func (t *ExtractSummaryTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.ExtractSummary {
		slog.Debug("Summary extraction disabled for source", "source", t.SourceName)
		return nil
	}

	articles, err := t.articleRepo.ArticlesMissingSummary(ctx, t.SourceName, t.SourceConfig.Settings.MaxItems)
	if err != nil {
		return fmt.Errorf("failed to get articles missing summaries: %w", err)
	}

	if len(articles) == 0 {
		slog.Debug("No articles need summary extraction", "source", t.SourceName)
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, article := range articles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		extractCtx, cancel := context.WithTimeout(ctx, time.Duration(t.SourceConfig.Settings.Timeout)*time.Second)
		err := t.extractSummaryForArticle(extractCtx, article)
		cancel()

		if err != nil {
			slog.Error("Failed to extract summary for article", "article_id", article.ID, "url", article.URL, "error", err)
			errorCount++
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractSummaryTask) extractSummaryForArticle(ctx context.Context, article database.Article) error {
	if article.URL == "" {
		return fmt.Errorf("article has no URL")
	}

	data, err := t.fetchArticlePage(ctx, article.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch article page: %w", err)
	}

	summary, err := t.summaryExtractor.Run(data)
	if err != nil {
		return fmt.Errorf("failed to extract summary: %w", err)
	}

	if err := t.articleRepo.SetSummary(ctx, article.ID, summary); err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}

	slog.Debug("Summary extracted successfully", "article_id", article.ID, "url", article.URL, "summary_length", len(summary))
	return nil
}

func (t *ExtractSummaryTask) fetchArticlePage(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.SourceConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
