package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/api/types"
	"github.com/killallgit/jamboard-api/internal/services/store"
)

// Get handles health check requests
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} types.HealthResponse
// @Failure 503 {object} types.HealthResponse
// @Router /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Database:  getDatabaseStatus(deps),
			Store:     getStoreStatus(c, deps),
			Media:     getMediaStatus(deps),
		}

		status := http.StatusOK
		if response.Database["status"] == "unhealthy" {
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, response)
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(deps *types.Dependencies) map[string]any {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return map[string]any{"status": "not configured"}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return map[string]any{"status": "unhealthy", "error": err.Error()}
	}

	return map[string]any{"status": "healthy"}
}

// getStoreStatus reports how much of the record quota is in use
func getStoreStatus(c *gin.Context, deps *types.Dependencies) map[string]any {
	if deps == nil || deps.Store == nil {
		return nil
	}
	usage, err := deps.Store.Usage(c.Request.Context())
	if err != nil {
		return map[string]any{"status": "unhealthy", "error": err.Error()}
	}
	out := map[string]any{"status": "healthy", "usage_bytes": usage}
	if deps.Config != nil {
		out["quota_bytes"] = deps.Config.Store.QuotaBytes
	}
	if sp, ok := deps.Store.(store.StatsProvider); ok {
		out["stats"] = sp.Stats()
	}
	return out
}

// getMediaStatus reports whether ffmpeg and ffprobe are installed. Missing
// tools only disable recording, waveforms and duration probing.
func getMediaStatus(deps *types.Dependencies) map[string]any {
	if deps == nil || deps.Media == nil {
		return nil
	}
	if err := deps.Media.ValidateBinaries(); err != nil {
		return map[string]any{"status": "unavailable", "error": err.Error()}
	}
	return map[string]any{"status": "healthy"}
}
