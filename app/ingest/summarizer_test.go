package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSummarizerRun(t *testing.T) {
	var gotPath, gotAuth string
	var gotRequest chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  A concise summary.  "}},
			},
		})
	}))
	defer server.Close()

	summarizer := NewSummarizer(server.URL, "test-key", "test-model", server.Client())
	summary, err := summarizer.Run(context.Background(), "Some Title", "Some content.")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if summary != "A concise summary." {
		t.Errorf("Expected trimmed summary, got: %q", summary)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("Expected path '/chat/completions', got: %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth header, got: %s", gotAuth)
	}
	if gotRequest.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got: %s", gotRequest.Model)
	}
	if len(gotRequest.Messages) != 2 || gotRequest.Messages[0].Role != "system" {
		t.Errorf("Expected system plus user messages, got: %+v", gotRequest.Messages)
	}
	if !strings.Contains(gotRequest.Messages[1].Content, "Some Title") {
		t.Errorf("Expected title in user message, got: %s", gotRequest.Messages[1].Content)
	}
}

func TestSummarizerErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	summarizer := NewSummarizer(server.URL, "test-key", "test-model", server.Client())
	_, err := summarizer.Run(context.Background(), "Title", "Content")
	if err == nil {
		t.Fatal("Expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("Expected status code in error, got: %v", err)
	}
}

func TestSummarizerEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	summarizer := NewSummarizer(server.URL, "test-key", "test-model", server.Client())
	_, err := summarizer.Run(context.Background(), "Title", "Content")
	if err == nil {
		t.Fatal("Expected error for empty choices")
	}
}

func TestSummarizerContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summarizer := NewSummarizer(server.URL, "test-key", "test-model", server.Client())
	_, err := summarizer.Run(ctx, "Title", "Content")
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}
