package api

import (
	"github.com/fastinfo/newsboy/app/articles"
	"github.com/fastinfo/newsboy/app/cache"
	"github.com/fastinfo/newsboy/app/database"
	"github.com/fastinfo/newsboy/app/tools"
)

type Handler struct {
	svc      *articles.Service
	registry *tools.Registry
	repo     database.ArticleRepository
	cache    *cache.Cache // nil when response caching is disabled
}
