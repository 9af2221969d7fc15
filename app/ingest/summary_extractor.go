package ingest

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
)

const maxSummaryLength = 500

type SummaryExtractor struct{}

func NewSummaryExtractor() *SummaryExtractor {
	return &SummaryExtractor{}
}

// Run extracts a plain-text summary from an article page. Readability
// isolates the main content; the leading text becomes the summary.
func (e *SummaryExtractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	if text == "" {
		text = strings.Join(strings.Fields(article.Excerpt), " ")
	}
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	text = truncateSummary(text)

	slog.Debug("Summary extracted successfully",
		"title", article.Title,
		"summary_length", len(text))

	return text, nil
}

// truncateSummary caps the text at maxSummaryLength bytes, preferring a
// word break. The cut point always lands on a rune boundary so text
// without spaces, such as CJK prose, stays valid UTF-8.
func truncateSummary(text string) string {
	if len(text) <= maxSummaryLength {
		return text
	}

	cut := maxSummaryLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	truncated := text[:cut]
	if i := strings.LastIndex(truncated, " "); i > 0 {
		truncated = truncated[:i]
	}

	return truncated + "..."
}
