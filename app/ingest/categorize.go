package ingest

import (
	"strings"

	"github.com/fastinfo/newsboy/app/database"
)

// categoryKeywords maps each category to the phrases that vote for it.
// Matching is case-insensitive substring matching over title plus summary.
var categoryKeywords = map[string][]string{
	database.CategoryTech: {
		"artificial intelligence", "machine learning", "deep learning",
		"llm", "large language model", "neural network",
		"quantum", "semiconductor", "chip", "gpu",
		"autonomous", "self-driving", "electric vehicle", "tesla",
		"blockchain", "crypto", "bitcoin", "web3", "metaverse",
		"iot", "wearable", "robotics",
		"startup", "funding", "ipo", "acquisition",
	},
	database.CategoryDev: {
		"programming", "coding", "developer", "engineer",
		"javascript", "typescript", "python", "rust", "golang",
		"react", "vue", "angular", "node.js",
		"docker", "kubernetes", "devops", "ci/cd",
		"frontend", "backend", "fullstack", "microservices",
		"api", "database", "sql", "nosql", "redis",
		"algorithm", "data structure", "design pattern",
		"performance", "refactoring", "testing", "debugging",
		"framework", "library", "tutorial", "guide",
	},
	database.CategoryOpensource: {
		"open source", "open-source", "opensource",
		"repository", "repo", "github", "gitlab",
		"fork", "contributor", "contributors", "maintainer",
		"license", "mit license", "apache", "gpl",
		"pull request", "commit", "changelog",
		"trending", "awesome",
	},
	database.CategoryAcademic: {
		"paper", "research", "study", "journal", "conference",
		"experiment", "theory", "methodology",
		"university", "laboratory", "professor", "phd",
		"publication", "peer review", "citation", "preprint",
		"arxiv", "ieee", "acm", "neurips", "cvpr",
		"biology", "physics", "chemistry", "mathematics",
		"computer science", "neuroscience",
	},
	database.CategoryProduct: {
		"product", "tool", "app", "application", "software",
		"launch", "release", "update", "version",
		"free", "paid", "pricing", "subscription",
		"feature", "beta", "saas", "platform",
		"ai tool", "ai assistant", "ai app",
	},
}

// Categorize picks the category whose keywords match the title and
// summary most often. Ties go to the category with more matches first
// in enumeration order. With no matches at all, the source's default
// category wins.
func Categorize(title, summary, sourceDefault string) string {
	text := strings.ToLower(title + " " + summary)

	best := ""
	bestScore := 0
	for _, category := range database.Categories {
		score := 0
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = category
			bestScore = score
		}
	}

	if bestScore > 0 {
		return best
	}
	if sourceDefault != "" {
		return sourceDefault
	}
	return database.CategoryTech
}
