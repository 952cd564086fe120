package recorder

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/api/types"
)

// Status reports the recorder state and visualizer levels
// @Summary Recorder status
// @Description Levels hold one bar height per visualizer bar; idle bars sit at the minimum.
// @Tags recorder
// @Security BearerAuth
// @Produce json
// @Success 200 {object} types.RecorderResponse
// @Router /api/v1/recorder [get]
func Status(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		types.SendSuccess(c, types.RecorderResponse{Snapshot: deps.Board.RecorderStatus()})
	}
}

// Start opens the microphone
// @Summary Start recording
// @Tags recorder
// @Security BearerAuth
// @Produce json
// @Success 200 {object} types.RecorderResponse
// @Failure 403 {object} types.ErrorResponse "Microphone permission denied"
// @Failure 409 {object} types.ErrorResponse "Already recording"
// @Failure 503 {object} types.ErrorResponse "No input device"
// @Router /api/v1/recorder/start [post]
func Start(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The capture outlives this request; it ends on stop or cancel
		if err := deps.Board.StartRecording(context.WithoutCancel(c.Request.Context())); err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.RecorderResponse{Snapshot: deps.Board.RecorderStatus()})
	}
}

// Stop finishes the recording and saves it as a clip
// @Summary Stop recording
// @Tags recorder
// @Security BearerAuth
// @Produce json
// @Success 201 {object} types.ClipResponse
// @Failure 409 {object} types.ErrorResponse "Not recording"
// @Router /api/v1/recorder/stop [post]
func Stop(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		clip, err := deps.Board.StopRecording(c.Request.Context())
		warning, err := types.SplitWarning(err)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendCreated(c, types.ClipResponse{Clip: clip, Warning: warning})
	}
}

// Cancel discards the recording
// @Summary Cancel recording
// @Tags recorder
// @Security BearerAuth
// @Produce json
// @Success 200 {object} types.RecorderResponse
// @Router /api/v1/recorder/cancel [post]
func Cancel(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Board.CancelRecording()
		types.SendSuccess(c, types.RecorderResponse{Snapshot: deps.Board.RecorderStatus()})
	}
}
