package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fastinfo/newsboy/app/articles"
	"github.com/fastinfo/newsboy/app/cache"
	"github.com/fastinfo/newsboy/app/cfg"
	"github.com/fastinfo/newsboy/app/database"
	"github.com/fastinfo/newsboy/app/tools"
)

func NewHandler(svc *articles.Service, registry *tools.Registry,
	repo database.ArticleRepository, responseCache *cache.Cache) *Handler {
	return &Handler{
		svc:      svc,
		registry: registry,
		repo:     repo,
		cache:    responseCache,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"version":   cfg.Get().Version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.repo.CountAll(c.Request.Context()); err == nil {
		health["articles"] = count
	}

	c.JSON(http.StatusOK, health)
}

// ListTools: GET /tools
func (h *Handler) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.registry.Definitions()})
}

// CallTool: POST /tools/:name with a JSON arguments object as body.
func (h *Handler) CallTool(c *gin.Context) {
	name := c.Param("name")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body: " + err.Error()})
		return
	}

	result, err := h.registry.Call(c.Request.Context(), name, json.RawMessage(body))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tool":   name,
		"result": result,
	})
}

// SearchArticles: GET /api/articles/search?q=...&limit=10
func (h *Handler) SearchArticles(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	results, err := h.svc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"query": c.Query("q"), "count": len(results)},
		"data": results,
	})
}

// ArticlesByCategory: GET /api/articles/category/:category?limit=10
func (h *Handler) ArticlesByCategory(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	category := c.Param("category")
	results, err := h.svc.FilterByCategory(c.Request.Context(), category, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"category": category, "count": len(results)},
		"data": results,
	})
}

// ArticlesByDate: GET /api/articles/date/:range?limit=10
func (h *Handler) ArticlesByDate(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	rangeToken := c.Param("range")
	results, err := h.svc.FilterByDate(c.Request.Context(), rangeToken, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"range": rangeToken, "count": len(results)},
		"data": results,
	})
}

// ArticlesBySource: GET /api/articles/source/:source?limit=10
func (h *Handler) ArticlesBySource(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	source := c.Param("source")
	results, err := h.svc.FilterBySource(c.Request.Context(), source, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"source": source, "count": len(results)},
		"data": results,
	})
}

// TrendingArticles: GET /api/articles/trending?limit=10
func (h *Handler) TrendingArticles(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	cacheKey := "trending:default"
	if limit != nil {
		cacheKey = "trending:" + strconv.Itoa(*limit)
	}
	h.cachedJSON(c, cacheKey, func(ctx context.Context) (interface{}, error) {
		results, err := h.svc.Trending(ctx, limit)
		if err != nil {
			return nil, err
		}
		return gin.H{
			"meta": gin.H{"count": len(results)},
			"data": results,
		}, nil
	})
}

// ListSources: GET /api/sources
func (h *Handler) ListSources(c *gin.Context) {
	h.cachedJSON(c, "sources", func(ctx context.Context) (interface{}, error) {
		counts, err := h.svc.Sources(ctx)
		if err != nil {
			return nil, err
		}
		return gin.H{
			"meta": gin.H{"count": len(counts)},
			"data": counts,
		}, nil
	})
}

// GetDigest: GET /digest
func (h *Handler) GetDigest(c *gin.Context) {
	h.cachedJSON(c, "digest:"+time.Now().Format("2006-01-02"), func(ctx context.Context) (interface{}, error) {
		return h.svc.DailyDigest(ctx)
	})
}

// GetStats: GET /stats
func (h *Handler) GetStats(c *gin.Context) {
	h.cachedJSON(c, "stats", func(ctx context.Context) (interface{}, error) {
		return h.svc.Stats(ctx)
	})
}

// cachedJSON serves the payload from the response cache when one is
// configured, computing and storing it on a miss. Cache failures fall back
// to computing the response.
func (h *Handler) cachedJSON(c *gin.Context, key string, compute func(ctx context.Context) (interface{}, error)) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if payload, err := h.cache.Get(ctx, key); err != nil {
			slog.Warn("Response cache read failed", "key", key, "error", err)
		} else if payload != nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			return
		}
	}

	result, err := compute(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, payload); err != nil {
			slog.Warn("Response cache write failed", "key", key, "error", err)
		}
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *articles.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   verr.Error(),
			"field":   verr.Field,
			"allowed": verr.Allowed,
		})
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		slog.Error("Request timed out", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
		return
	}

	var serr *articles.StoreError
	if errors.As(err, &serr) {
		slog.Error("Store error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "article store unavailable"})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// queryLimit parses the optional limit query parameter. Absent means nil,
// letting the service apply its default; a non-integer fails validation.
// Explicit values, zero included, are passed through for validation.
func queryLimit(c *gin.Context) (*int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return nil, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &articles.ValidationError{Field: "limit", Value: raw}
	}
	return &limit, nil
}
