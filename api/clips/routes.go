package clips

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/api/types"
)

// RegisterRoutes registers clip and comment routes. Reads are public,
// changes go through requireSession; analyze carries its own stricter limit.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, requireSession, analyzeLimit gin.HandlerFunc) {
	router.GET("", ListClips(deps))
	router.GET("/:id", GetClip(deps))
	router.GET("/:id/audio", DownloadAudio(deps))
	router.GET("/:id/waveform", GetWaveform(deps))

	router.POST("", requireSession, CreateClip(deps))
	router.PATCH("/:id", requireSession, UpdateClip(deps))
	router.DELETE("/:id", requireSession, DeleteClip(deps))
	router.POST("/:id/analyze", analyzeLimit, requireSession, AnalyzeClip(deps))

	router.POST("/:id/comments", requireSession, AddComment(deps))
	router.DELETE("/:id/comments/:commentId", requireSession, DeleteComment(deps))
}
