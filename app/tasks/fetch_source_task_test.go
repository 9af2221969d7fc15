package tasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fastinfo/newsboy/app/database"
	"github.com/fastinfo/newsboy/app/ingest"
	"github.com/fastinfo/newsboy/app/sources"
)

// stubArticleRepo records upserts and serves canned rows for the
// ingestion-side repository methods.
type stubArticleRepo struct {
	upserted       []database.Article
	missingSummary []database.Article
	summaries      map[string]string
	aiSummaries    map[string]string
}

func newStubArticleRepo() *stubArticleRepo {
	return &stubArticleRepo{
		summaries:   make(map[string]string),
		aiSummaries: make(map[string]string),
	}
}

func (s *stubArticleRepo) Select(ctx context.Context, q database.ArticleQuery) ([]database.Article, error) {
	return nil, nil
}

func (s *stubArticleRepo) CountAll(ctx context.Context) (int, error)   { return 0, nil }
func (s *stubArticleRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	return 0, nil
}

func (s *stubArticleRepo) CountByCategory(ctx context.Context) ([]database.CategoryCount, error) {
	return nil, nil
}

func (s *stubArticleRepo) CountBySource(ctx context.Context) ([]database.SourceCount, error) {
	return nil, nil
}

func (s *stubArticleRepo) LatestCreatedAt(ctx context.Context) (*time.Time, error) {
	return nil, nil
}

func (s *stubArticleRepo) UpsertArticle(ctx context.Context, article database.Article) (bool, error) {
	for _, existing := range s.upserted {
		if existing.URL == article.URL {
			return false, nil
		}
	}
	s.upserted = append(s.upserted, article)
	return true, nil
}

func (s *stubArticleRepo) ArticlesMissingSummary(ctx context.Context, source string, limit int) ([]database.Article, error) {
	return s.missingSummary, nil
}

func (s *stubArticleRepo) ArticlesMissingAISummary(ctx context.Context, limit int) ([]database.Article, error) {
	return s.missingSummary, nil
}

func (s *stubArticleRepo) SetSummary(ctx context.Context, id, summary string) error {
	s.summaries[id] = summary
	return nil
}

func (s *stubArticleRepo) SetAISummary(ctx context.Context, id, summary string) error {
	s.aiSummaries[id] = summary
	return nil
}

func testSourceConfig(url string) *sources.Config {
	return &sources.Config{
		Name:     "testsource",
		URL:      url,
		Category: "dev",
		Weight:   5,
		Settings: sources.ConfigSettings{
			Enabled:         true,
			RefreshInterval: 3600,
			MaxItems:        100,
			Timeout:         5,
		},
	}
}

func TestFetchSourceTaskExecute(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>Debugging a backend API</title>
      <link>https://example.com/item1</link>
      <description>A tutorial on testing and performance</description>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Item without link</title>
      <description>Should be skipped</description>
    </item>
  </channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected custom user agent, got: %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssData))
	}))
	defer server.Close()

	repo := newStubArticleRepo()
	task := NewFetchSourceTask("testsource", testSourceConfig(server.URL), server.Client(), ingest.NewParser(), repo, "test-agent")

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(repo.upserted) != 1 {
		t.Fatalf("Expected 1 stored article, got %d", len(repo.upserted))
	}

	article := repo.upserted[0]
	if article.ID == "" {
		t.Error("Expected generated article ID")
	}
	if article.Title != "Debugging a backend API" {
		t.Errorf("Unexpected title: %s", article.Title)
	}
	if article.Source != "testsource" {
		t.Errorf("Expected source 'testsource', got: %s", article.Source)
	}
	if article.Category != "dev" {
		t.Errorf("Expected category 'dev', got: %s", article.Category)
	}
	if article.QualityScore <= 0 {
		t.Errorf("Expected positive quality score, got: %v", article.QualityScore)
	}
	if article.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}
}

func TestFetchSourceTaskDisabledSource(t *testing.T) {
	config := testSourceConfig("https://example.com/feed.xml")
	config.Settings.Enabled = false

	repo := newStubArticleRepo()
	task := NewFetchSourceTask("testsource", config, http.DefaultClient, ingest.NewParser(), repo, "test-agent")

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error for disabled source, got: %v", err)
	}

	if len(repo.upserted) != 0 {
		t.Errorf("Expected no stored articles, got %d", len(repo.upserted))
	}
}

func TestFetchSourceTaskHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	repo := newStubArticleRepo()
	task := NewFetchSourceTask("testsource", testSourceConfig(server.URL), server.Client(), ingest.NewParser(), repo, "test-agent")

	if err := task.Execute(context.Background()); err == nil {
		t.Fatal("Expected error for HTTP failure")
	}
}

func TestSummarizeArticlesTaskExecute(t *testing.T) {
	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"An AI summary."}}]}`))
	}))
	defer llmServer.Close()

	repo := newStubArticleRepo()
	repo.missingSummary = []database.Article{
		{ID: "a1", Title: "First", Summary: "First summary"},
		{ID: "a2", Title: "Second", Summary: "Second summary"},
	}

	summarizer := ingest.NewSummarizer(llmServer.URL, "key", "model", llmServer.Client())
	task := NewSummarizeArticlesTask(summarizer, repo)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(repo.aiSummaries) != 2 {
		t.Fatalf("Expected 2 AI summaries, got %d", len(repo.aiSummaries))
	}
	if repo.aiSummaries["a1"] != "An AI summary." {
		t.Errorf("Unexpected summary: %q", repo.aiSummaries["a1"])
	}
}
