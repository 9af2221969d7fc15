package articles

import (
	"strconv"
	"strings"
	"time"

	"github.com/fastinfo/newsboy/app/database"
)

// Categories is the closed set of article categories, in enumeration order.
var Categories = database.Categories

// DateRanges is the closed set of date-range tokens.
var DateRanges = []string{"today", "week", "month"}

// ValidateCategory checks the category against the enumeration,
// case-sensitive.
func ValidateCategory(category string) error {
	for _, c := range Categories {
		if category == c {
			return nil
		}
	}
	return &ValidationError{Field: "category", Value: category, Allowed: Categories}
}

// WindowStart resolves a date-range token to the inclusive lower bound of
// its window, relative to now. "today" is anchored at midnight in now's
// location; "week" and "month" are rolling windows.
func WindowStart(token string, now time.Time) (time.Time, error) {
	switch token {
	case "today":
		return startOfDay(now), nil
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, 0, -30), nil
	default:
		return time.Time{}, &ValidationError{Field: "range", Value: token, Allowed: DateRanges}
	}
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// normalizeLimit applies the default for an absent (nil) limit and rejects
// non-positive or over-cap values, explicit zero included. The cap is
// rejected, not clamped, so callers learn the bound.
func (s *Service) normalizeLimit(limit *int) (int, error) {
	if limit == nil {
		return s.defaultLimit, nil
	}
	if *limit <= 0 || *limit > s.maxLimit {
		return 0, &ValidationError{
			Field:   "limit",
			Value:   strconv.Itoa(*limit),
			Allowed: []string{"1-" + strconv.Itoa(s.maxLimit)},
		}
	}
	return *limit, nil
}

// normalizeTerm trims whitespace and rejects empty search/source terms.
func normalizeTerm(field, term string) (string, error) {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return "", &ValidationError{Field: field, Value: term}
	}
	return trimmed, nil
}
