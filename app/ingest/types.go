package ingest

import (
	"time"
)

// Item is a normalized feed entry, ready for categorization and scoring.
type Item struct {
	GUID        string
	Title       string
	Link        string
	Summary     string
	Author      string
	PublishedAt time.Time

	// Engagement counters. Most feeds carry none of these, in which
	// case the hot score depends on recency alone.
	Likes    int
	Comments int
	Views    int

	ContentHash string
}
