package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fastinfo/newsboy/app/database"
	"github.com/fastinfo/newsboy/app/ingest"
)

// summarizeBatchSize limits how many articles one task run sends to the
// LLM, keeping a single run well inside the task timeout.
const summarizeBatchSize = 10

type SummarizeArticlesTask struct {
	Task
	summarizer  *ingest.Summarizer
	articleRepo database.ArticleRepository
}

func NewSummarizeArticlesTask(summarizer *ingest.Summarizer, articleRepo database.ArticleRepository) *SummarizeArticlesTask {
	return &SummarizeArticlesTask{
		Task:        NewTask(TaskTypeSummarizeArticles, ""),
		summarizer:  summarizer,
		articleRepo: articleRepo,
	}
}

func (t *SummarizeArticlesTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	articles, err := t.articleRepo.ArticlesMissingAISummary(ctx, summarizeBatchSize)
	if err != nil {
		return fmt.Errorf("failed to get articles missing AI summaries: %w", err)
	}

	if len(articles) == 0 {
		slog.Debug("No articles need AI summaries")
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

		summary, err := t.summarizer.Run(ctx, article.Title, article.Summary)
		if err != nil {
			slog.Error("Failed to generate AI summary", "article_id", article.ID, "error", err)
			errorCount++
			continue
		}

		if err := t.articleRepo.SetAISummary(ctx, article.ID, summary); err != nil {
			slog.Error("Failed to store AI summary", "article_id", article.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}
