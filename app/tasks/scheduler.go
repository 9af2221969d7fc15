package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fastinfo/newsboy/app/cfg"
	"github.com/fastinfo/newsboy/app/database"
	"github.com/fastinfo/newsboy/app/ingest"
	"github.com/fastinfo/newsboy/app/sources"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	articleRepo      database.ArticleRepository
	configCache      *sources.ConfigCache
	httpClient       *http.Client
	parser           *ingest.Parser
	summaryExtractor *ingest.SummaryExtractor
	summarizer       *ingest.Summarizer
	userAgent        string
	interval         time.Duration
	workerCount      int
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface

	// nextFetch tracks per-source refresh deadlines in memory. Sources
	// are re-fetched from scratch after a restart.
	nextFetchMu sync.Mutex
	nextFetch   map[string]time.Time
}

// NewScheduler creates the background worker pool. The summarizer may be
// nil when no LLM endpoint is configured; AI summary tasks are then
// never scheduled.
func NewScheduler(configCache *sources.ConfigCache, articleRepo database.ArticleRepository,
	httpClient *http.Client, parser *ingest.Parser, summaryExtractor *ingest.SummaryExtractor,
	summarizer *ingest.Summarizer) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		articleRepo:      articleRepo,
		configCache:      configCache,
		httpClient:       httpClient,
		parser:           parser,
		summaryExtractor: summaryExtractor,
		summarizer:       summarizer,
		userAgent:        cfg.UserAgent,
		interval:         time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:      cfg.WorkerCount,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 300),
		nextFetch:        make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	// Checked before the send so a stopped scheduler never risks a send
	// on the closed queue.
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueTasks() {
	sourceConfigs := s.configCache.GetEnabledConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	slog.Debug("Processing enabled source configurations for task scheduling", "count", len(sourceConfigs))

	for _, sourceConfig := range sourceConfigs {
		if s.sourceDue(sourceConfig) {
			fetchTask := NewFetchSourceTask(sourceConfig.Name, sourceConfig, s.httpClient, s.parser, s.articleRepo, s.userAgent)
			if err := s.EnqueueTask(fetchTask); err != nil {
				slog.Warn("Failed to enqueue FetchSourceTask", "source", sourceConfig.Name, "error", err)
				continue
			}
			s.markFetched(sourceConfig)
		} else {
			slog.Debug("Source not due for refresh yet", "source", sourceConfig.Name)
		}

		if sourceConfig.Settings.ExtractSummary {
			extractTask := NewExtractSummaryTask(sourceConfig.Name, sourceConfig, s.httpClient, s.summaryExtractor, s.articleRepo, s.userAgent)
			if err := s.EnqueueTask(extractTask); err != nil {
				slog.Warn("Failed to enqueue ExtractSummaryTask", "source", sourceConfig.Name, "error", err)
			}
		}
	}

	if s.summarizer != nil {
		summarizeTask := NewSummarizeArticlesTask(s.summarizer, s.articleRepo)
		if err := s.EnqueueTask(summarizeTask); err != nil {
			slog.Warn("Failed to enqueue SummarizeArticlesTask", "error", err)
		}
	}
}

func (s *Scheduler) sourceDue(sourceConfig *sources.Config) bool {
	s.nextFetchMu.Lock()
	defer s.nextFetchMu.Unlock()

	deadline, ok := s.nextFetch[sourceConfig.Name]
	return !ok || !deadline.After(time.Now().UTC())
}

func (s *Scheduler) markFetched(sourceConfig *sources.Config) {
	s.nextFetchMu.Lock()
	defer s.nextFetchMu.Unlock()

	refreshInterval := time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second
	s.nextFetch[sourceConfig.Name] = time.Now().UTC().Add(refreshInterval)
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			// The retry goroutine joins the WaitGroup so Stop cannot
			// close the queue while a re-enqueue is still pending.
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
