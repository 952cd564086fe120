package categories

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/api/types"
	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/clips"
)

// Get lists the clip categories and the board tabs
// @Summary List categories
// @Description Tabs are All, My Clips and then every category.
// @Tags categories
// @Produce json
// @Success 200 {object} types.CategoriesResponse
// @Router /api/v1/categories [get]
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		types.SendSuccess(c, types.CategoriesResponse{
			Categories: models.Categories(),
			Tabs:       clips.Tabs(),
		})
	}
}

// RegisterRoutes registers category routes
func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/categories", Get())
}
