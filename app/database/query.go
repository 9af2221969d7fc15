package database

import (
	"fmt"
	"strings"
	"time"
)

// ArticleQuery is a structured retrieval specification: one predicate, one
// ordering, one limit. SQL is assembled from these enumerated shapes only;
// caller-supplied values are always bind parameters, never query text.
type ArticleQuery struct {
	Predicate Predicate
	Order     Order
	Limit     int
}

type Order int

const (
	// OrderRelevance sorts by hot_score descending, created_at descending
	// as the tie-break.
	OrderRelevance Order = iota
	// OrderRecency sorts by created_at descending only.
	OrderRecency
)

// Predicate is a closed set of filter shapes. Adding a new filter means
// adding a new variant here, not a new string-building path.
type Predicate interface {
	isPredicate()
}

// All matches every article.
type All struct{}

// CategoryIs matches articles whose category equals Category exactly.
type CategoryIs struct {
	Category string
}

// CreatedSince matches articles with created_at >= Since.
type CreatedSince struct {
	Since time.Time
}

// SourceContains matches articles whose source contains Term,
// case-insensitive, anywhere in the field.
type SourceContains struct {
	Term string
}

// TextContains matches articles whose title, summary or ai_summary contains
// Term, case-insensitive, anywhere in the field.
type TextContains struct {
	Term string
}

func (All) isPredicate()            {}
func (CategoryIs) isPredicate()     {}
func (CreatedSince) isPredicate()   {}
func (SourceContains) isPredicate() {}
func (TextContains) isPredicate()   {}

const articleColumns = "id, title, url, summary, ai_summary, source, category, quality_score, hot_score, created_at, updated_at"

// SQL renders the query to a parameterized statement and its arguments.
func (q ArticleQuery) SQL() (string, []interface{}, error) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString("SELECT ")
	sb.WriteString(articleColumns)
	sb.WriteString(" FROM articles")

	switch p := q.Predicate.(type) {
	case All, nil:
		// no WHERE clause
	case CategoryIs:
		args = append(args, p.Category)
		fmt.Fprintf(&sb, " WHERE category = $%d", len(args))
	case CreatedSince:
		args = append(args, p.Since)
		fmt.Fprintf(&sb, " WHERE created_at >= $%d", len(args))
	case SourceContains:
		args = append(args, likePattern(p.Term))
		fmt.Fprintf(&sb, " WHERE source ILIKE $%d", len(args))
	case TextContains:
		args = append(args, likePattern(p.Term))
		n := len(args)
		fmt.Fprintf(&sb, " WHERE title ILIKE $%d OR summary ILIKE $%d OR ai_summary ILIKE $%d", n, n, n)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type %T", q.Predicate)
	}

	switch q.Order {
	case OrderRelevance:
		sb.WriteString(" ORDER BY hot_score DESC, created_at DESC")
	case OrderRecency:
		sb.WriteString(" ORDER BY created_at DESC")
	default:
		return "", nil, fmt.Errorf("unsupported order %d", q.Order)
	}

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	return sb.String(), args, nil
}

// likePattern builds an unanchored match pattern, escaping LIKE
// metacharacters in the term so they match literally.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}
