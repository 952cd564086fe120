package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/jamboard-api/api/auth"
	"github.com/killallgit/jamboard-api/api/categories"
	"github.com/killallgit/jamboard-api/api/clips"
	"github.com/killallgit/jamboard-api/api/health"
	"github.com/killallgit/jamboard-api/api/recorder"
	"github.com/killallgit/jamboard-api/api/types"
	"github.com/killallgit/jamboard-api/api/version"
	_ "github.com/killallgit/jamboard-api/docs/swagger"
	"github.com/killallgit/jamboard-api/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil || deps.Board == nil || deps.Tokens == nil {
		return errors.New("board and token service are required")
	}
	if deps.Config == nil {
		cfg, err := config.GetConfig()
		if err != nil {
			return err
		}
		deps.Config = cfg
	}
	limits := deps.Config.RateLimiting

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")
	var analyzeLimit gin.HandlerFunc = passThrough
	if limits.Enabled {
		v1.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, "general", limits.RequestsPerS, limits.Burst))
		analyzeLimit = PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, "analyze", limits.AnalyzeRPS, limits.AnalyzeBurst)
	}

	requireSession := auth.RequireSession(deps)

	auth.RegisterRoutes(v1, deps, requireSession)
	categories.RegisterRoutes(v1)
	clips.RegisterRoutes(v1.Group("/clips"), deps, requireSession, analyzeLimit)

	recorderGroup := v1.Group("/recorder")
	recorderGroup.Use(requireSession)
	recorder.RegisterRoutes(recorderGroup, deps)

	return nil
}

func passThrough(c *gin.Context) {
	c.Next()
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
