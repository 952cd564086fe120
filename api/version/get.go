package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/api/types"
)

// Get handles version requests
// @Summary API version
// @Tags health
// @Produce json
// @Success 200 {object} types.VersionResponse
// @Router /version [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	version := "dev"
	if deps != nil && deps.Version != "" {
		version = deps.Version
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.VersionResponse{
			Name:        "JamBoard API",
			Version:     version,
			Description: "Record, share and tag short audio ideas",
			Status:      "running",
		})
	}
}
