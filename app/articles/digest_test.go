package articles

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fastinfo/newsboy/app/database"
)

func TestDailyDigest_GroupsByFirstAppearance(t *testing.T) {
	now := time.Now()
	repo := &fakeRepo{articles: []database.Article{
		{ID: "1", Category: "dev", HotScore: 95, CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "2", Category: "tech", HotScore: 80, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "3", Category: "dev", HotScore: 60, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "4", Category: "academic", HotScore: 40, CreatedAt: now.Add(-4 * time.Hour)},
	}}
	svc := NewService(repo, Options{})

	digest, err := svc.DailyDigest(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if digest.Total != 4 {
		t.Errorf("Expected total 4, got %d", digest.Total)
	}
	if digest.Total != len(digest.Articles) {
		t.Errorf("Total (%d) must equal flat list length (%d)", digest.Total, len(digest.Articles))
	}

	// Group keys follow first appearance in the ranked list, not
	// alphabetical or enumeration order.
	if len(digest.ByCategory) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(digest.ByCategory))
	}
	expectOrder := []string{"dev", "tech", "academic"}
	for i, group := range digest.ByCategory {
		if group.Category != expectOrder[i] {
			t.Errorf("Group %d: expected %q, got %q", i, expectOrder[i], group.Category)
		}
	}

	grouped := 0
	for _, group := range digest.ByCategory {
		grouped += len(group.Articles)
	}
	if grouped != digest.Total {
		t.Errorf("Sum of group sizes (%d) must equal total (%d)", grouped, digest.Total)
	}

	// dev group keeps ranked order
	dev := digest.ByCategory[0].Articles
	if dev[0].ID != "1" || dev[1].ID != "3" {
		t.Errorf("Expected dev group [1 3], got [%s %s]", dev[0].ID, dev[1].ID)
	}
}

func TestDailyDigest_OnlyTodaysArticles(t *testing.T) {
	now := time.Now()
	repo := &fakeRepo{articles: []database.Article{
		{ID: "old", Category: "tech", HotScore: 100, CreatedAt: now.AddDate(0, 0, -2)},
		{ID: "new", Category: "dev", HotScore: 10, CreatedAt: now},
	}}
	svc := NewService(repo, Options{})

	digest, err := svc.DailyDigest(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if digest.Total != 1 {
		t.Fatalf("Expected 1 article from today, got %d", digest.Total)
	}
	if digest.Articles[0].ID != "new" {
		t.Errorf("Expected today's article, got %q", digest.Articles[0].ID)
	}
	if len(digest.ByCategory) != 1 || digest.ByCategory[0].Category != "dev" {
		t.Errorf("Expected single 'dev' group, got %v", digest.ByCategory)
	}
}

func TestDailyDigest_EmptyStore(t *testing.T) {
	svc := NewService(&fakeRepo{}, Options{})

	digest, err := svc.DailyDigest(context.Background())
	if err != nil {
		t.Fatalf("Empty store must not be an error, got: %v", err)
	}

	if digest.Total != 0 {
		t.Errorf("Expected total 0, got %d", digest.Total)
	}
	if len(digest.Articles) != 0 {
		t.Errorf("Expected empty flat list, got %d items", len(digest.Articles))
	}
	if len(digest.ByCategory) != 0 {
		t.Errorf("Expected empty grouping, got %d groups", len(digest.ByCategory))
	}
	if digest.Date == "" {
		t.Error("Expected a date stamp even for an empty digest")
	}
}

func TestDailyDigest_RespectsDigestSize(t *testing.T) {
	now := time.Now()
	repo := &fakeRepo{}
	for i := 0; i < 30; i++ {
		repo.articles = append(repo.articles, database.Article{
			ID: string(rune('a' + i)), Category: "tech", HotScore: float64(i),
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	svc := NewService(repo, Options{DigestSize: 20})

	digest, err := svc.DailyDigest(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if digest.Total != 20 {
		t.Errorf("Expected digest capped at 20 articles, got %d", digest.Total)
	}
}

func TestArticleGroups_MarshalPreservesOrder(t *testing.T) {
	groups := ArticleGroups{
		{Category: "dev", Articles: []database.Article{{ID: "1"}}},
		{Category: "academic", Articles: []database.Article{{ID: "2"}}},
	}

	data, err := json.Marshal(groups)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	s := string(data)
	if !strings.HasPrefix(s, `{"dev":`) {
		t.Errorf("Expected 'dev' key first, got: %s", s)
	}
	if strings.Index(s, `"dev"`) > strings.Index(s, `"academic"`) {
		t.Errorf("Expected insertion order preserved, got: %s", s)
	}

	empty, err := json.Marshal(ArticleGroups{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(empty) != "{}" {
		t.Errorf("Expected empty groups to marshal as {}, got: %s", empty)
	}
}
