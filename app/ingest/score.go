package ingest

import (
	"math"
	"strings"
	"time"
)

// clickbaitKeywords lower the quality score when found in a title.
var clickbaitKeywords = []string{
	"shocking", "unbelievable", "you won't believe",
	"mind-blowing", "will blow your mind", "must see", "must read",
}

// QualityScore rates an item 0-100. The base is 50, adjusted by the
// source's reputation weight, title and summary quality, engagement
// counters, and author presence.
func QualityScore(item Item, sourceWeight int) float64 {
	score := 50.0

	score += float64(sourceWeight)

	if item.Title != "" {
		title := strings.ToLower(item.Title)
		for _, keyword := range clickbaitKeywords {
			if strings.Contains(title, keyword) {
				score -= 20
				break
			}
		}

		if n := len(item.Title); n >= 10 && n <= 100 {
			score += 5
		}
	}

	switch {
	case len(item.Summary) > 50:
		score += 10
	case len(item.Summary) > 20:
		score += 5
	}

	switch {
	case item.Likes > 500:
		score += 10
	case item.Likes > 100:
		score += 8
	case item.Likes > 50:
		score += 5
	case item.Likes > 10:
		score += 3
	}

	switch {
	case item.Comments > 100:
		score += 10
	case item.Comments > 20:
		score += 6
	case item.Comments > 5:
		score += 3
	}

	switch {
	case item.Views > 10000:
		score += 5
	case item.Views > 1000:
		score += 3
	case item.Views > 100:
		score += 1
	}

	if strings.TrimSpace(item.Author) != "" {
		score += 5
	}

	return math.Min(100, math.Max(0, math.Round(score)))
}

// HotScore combines engagement with time decay, in the style of the
// Hacker News ranking formula:
//
//	(likes*2 + views*0.01 + comments*5) / (age_hours + 2)^1.8
//
// The +2 guards against division by very small ages; 1.8 is the decay
// exponent. The result keeps two decimal places.
func HotScore(item Item, now time.Time) float64 {
	publishedAt := item.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = now
	}

	ageHours := now.Sub(publishedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}

	rawScore := float64(item.Likes)*2 + float64(item.Views)*0.01 + float64(item.Comments)*5

	hotScore := rawScore / math.Pow(ageHours+2, 1.8)

	return math.Round(hotScore*100) / 100
}
