package recorder

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/api/types"
)

// RegisterRoutes registers recorder routes; all of them act for the signed-in user
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", Status(deps))
	router.POST("/start", Start(deps))
	router.POST("/stop", Stop(deps))
	router.POST("/cancel", Cancel(deps))
}
