package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fastinfo/newsboy/app/cfg"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Routes
	setupRoutes(r, handler)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler) {
	// Health and status endpoints
	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)
	r.GET("/digest", handler.GetDigest)

	// Agent tool surface
	r.GET("/tools", handler.ListTools)
	r.POST("/tools/:name", handler.CallTool)

	// REST article endpoints
	api := r.Group("/api")
	{
		api.GET("/articles/search", handler.SearchArticles)
		api.GET("/articles/category/:category", handler.ArticlesByCategory)
		api.GET("/articles/date/:range", handler.ArticlesByDate)
		api.GET("/articles/source/:source", handler.ArticlesBySource)
		api.GET("/articles/trending", handler.TrendingArticles)
		api.GET("/sources", handler.ListSources)
	}

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "Newsboy",
			"version":     cfg.Get().Version,
			"description": "Read-only query and aggregation service over ingested news articles",
			"endpoints": map[string]string{
				"health":   "/health",
				"stats":    "/stats",
				"digest":   "/digest",
				"tools":    "/tools",
				"call":     "/tools/<name> (POST)",
				"search":   "/api/articles/search?q=<query>",
				"category": "/api/articles/category/<category>",
				"date":     "/api/articles/date/<today|week|month>",
				"source":   "/api/articles/source/<source>",
				"trending": "/api/articles/trending",
				"sources":  "/api/sources",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
