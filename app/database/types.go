package database

import (
	"time"
)

// Category values form a closed set; the check constraint in the articles
// table and the validation layer both enforce it.
const (
	CategoryTech       = "tech"
	CategoryDev        = "dev"
	CategoryAcademic   = "academic"
	CategoryProduct    = "product"
	CategoryOpensource = "opensource"
)

// Categories lists the category values in enumeration order.
var Categories = []string{
	CategoryTech,
	CategoryDev,
	CategoryAcademic,
	CategoryProduct,
	CategoryOpensource,
}

type Article struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	URL          string    `db:"url" json:"url"`
	Summary      string    `db:"summary" json:"summary"`
	AISummary    string    `db:"ai_summary" json:"ai_summary"`
	Source       string    `db:"source" json:"source"`
	Category     string    `db:"category" json:"category"`
	QualityScore float64   `db:"quality_score" json:"quality_score"`
	HotScore     float64   `db:"hot_score" json:"hot_score"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CategoryCount is one row of a count-by-category aggregate, ordered by the
// repository (count descending, name ascending on ties).
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}

// SourceCount is one row of a count-by-source aggregate.
type SourceCount struct {
	Source string `db:"source" json:"source"`
	Count  int    `db:"count" json:"count"`
}
