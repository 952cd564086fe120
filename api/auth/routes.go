package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/api/types"
)

// RegisterRoutes registers account and profile routes. requireSession guards
// the routes that act as the signed-in user.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, requireSession gin.HandlerFunc) {
	router.POST("/auth/signup", SignUp(deps))
	router.POST("/auth/login", LogIn(deps))
	router.POST("/auth/logout", requireSession, LogOut(deps))

	router.GET("/me", requireSession, Me(deps))
	router.PUT("/me", requireSession, UpdateMe(deps))
}
