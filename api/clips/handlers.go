package clips

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/api/types"
	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/clips"
)

const defaultMimeType = "audio/webm"

// PatchClipRequest represents an owner's edit of a clip
// @Description Tags may be a list or a comma separated string
type PatchClipRequest struct {
	Title    *string          `json:"title,omitempty" example:"Night Riff"`
	Category *models.Category `json:"category,omitempty" example:"Riffs"`
	Tags     json.RawMessage  `json:"tags,omitempty" swaggertype:"array,string" example:"Lofi,Chill"`
}

// toPatch normalizes the request into a clip patch
func (r PatchClipRequest) toPatch() (models.ClipPatch, error) {
	patch := models.ClipPatch{Title: r.Title, Category: r.Category}
	if len(r.Tags) == 0 || string(r.Tags) == "null" {
		return patch, nil
	}

	var list []string
	if err := json.Unmarshal(r.Tags, &list); err == nil {
		tags := make([]string, 0, len(list))
		for _, tag := range list {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		patch.Tags = &tags
		return patch, nil
	}
	var input string
	if err := json.Unmarshal(r.Tags, &input); err != nil {
		return patch, errors.New("tags must be a list or a comma separated string")
	}
	tags := models.ParseTags(input)
	patch.Tags = &tags
	return patch, nil
}

// ListClips returns the filtered board
// @Summary List clips
// @Description Newest first. The query matches title or tag substrings case-insensitively; the tab is All, My Clips or a category.
// @Tags clips
// @Produce json
// @Param q query string false "Search text"
// @Param tab query string false "All, My Clips or a category" default(All)
// @Success 200 {object} types.ClipsResponse
// @Router /api/v1/clips [get]
func ListClips(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		tab := c.DefaultQuery("tab", clips.TabAll)

		result := deps.Board.ListClips(query, tab)
		types.SendSuccess(c, types.ClipsResponse{
			Clips: result,
			Count: len(result),
			Query: query,
			Tab:   tab,
		})
	}
}

// GetClip returns one clip
// @Summary Get clip
// @Tags clips
// @Produce json
// @Param id path string true "Clip ID"
// @Success 200 {object} types.ClipResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/clips/{id} [get]
func GetClip(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		clip, err := deps.Board.GetClip(c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.ClipResponse{Clip: clip})
	}
}

// CreateClip uploads a recording as a new clip
// @Summary Upload a clip
// @Description Accepts the raw audio as the body with its Content-Type, or a multipart form with an "audio" file.
// @Description The duration in seconds comes from the "duration" form field or query parameter. Without one it is read from the audio.
// @Tags clips
// @Security BearerAuth
// @Accept audio/webm
// @Accept multipart/form-data
// @Produce json
// @Param duration query number false "Duration in seconds"
// @Success 201 {object} types.ClipResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 413 {object} types.ErrorResponse
// @Router /api/v1/clips [post]
func CreateClip(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, mimeType, err := readAudio(c)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{
					Status:  types.StatusError,
					Message: fmt.Sprintf("Recording exceeds %d bytes", tooLarge.Limit),
					Error:   "STORAGE_QUOTA",
				})
				return
			}
			types.SendBadRequest(c, err.Error())
			return
		}

		duration, err := parseDuration(c)
		if err != nil {
			types.SendBadRequest(c, err.Error())
			return
		}

		clip, err := deps.Board.CreateClip(c.Request.Context(), data, mimeType, duration)
		warning, err := types.SplitWarning(err)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendCreated(c, types.ClipResponse{Clip: clip, Warning: warning})
	}
}

// UpdateClip applies an owner's edit
// @Summary Edit clip
// @Tags clips
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Clip ID"
// @Param request body PatchClipRequest true "Fields to change"
// @Success 200 {object} types.ClipResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 403 {object} types.ErrorResponse "Not the owner"
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/clips/{id} [patch]
func UpdateClip(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PatchClipRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		patch, err := req.toPatch()
		if err != nil {
			types.SendBadRequest(c, err.Error())
			return
		}

		clip, err := deps.Board.UpdateClip(c.Request.Context(), c.Param("id"), patch)
		warning, err := types.SplitWarning(err)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.ClipResponse{Clip: clip, Warning: warning})
	}
}

// DeleteClip removes an owned clip
// @Summary Delete clip
// @Description Irreversible. Without confirm=true the request is answered 428 with the prompt to show.
// @Tags clips
// @Security BearerAuth
// @Produce json
// @Param id path string true "Clip ID"
// @Param confirm query bool false "Confirm the deletion"
// @Success 200 {object} types.MessageResponse
// @Failure 403 {object} types.ErrorResponse "Not the owner"
// @Failure 428 {object} types.ErrorResponse "Confirmation required"
// @Router /api/v1/clips/{id} [delete]
func DeleteClip(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		confirmer := types.NewQueryConfirmer(c)
		err := confirmer.Resolve(deps.Board.DeleteClip(c.Request.Context(), c.Param("id"), confirmer))
		warning, err := types.SplitWarning(err)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.MessageResponse{
			Status:  types.StatusOK,
			Message: "Clip deleted",
			Warning: warning,
		})
	}
}

// DownloadAudio serves the clip's audio as an attachment
// @Summary Download clip audio
// @Tags clips
// @Produce audio/webm
// @Param id path string true "Clip ID"
// @Success 200 {file} binary
// @Failure 404 {object} types.ErrorResponse
// @Failure 422 {object} types.ErrorResponse "Remote audio"
// @Router /api/v1/clips/{id}/audio [get]
func DownloadAudio(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename, payload, err := deps.Board.ExportClip(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		mimeType := payload.MimeType
		if mimeType == "" {
			mimeType = defaultMimeType
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, mimeType, payload.Data)
	}
}

// GetWaveform returns the peaks for a clip, generating them on first request
// @Summary Get clip waveform
// @Tags clips
// @Produce json
// @Param id path string true "Clip ID"
// @Success 200 {object} types.WaveformResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/clips/{id}/waveform [get]
func GetWaveform(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		waveform, err := deps.Board.Waveform(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		peaks, err := waveform.Peaks()
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.WaveformResponse{
			ClipID:     waveform.ClipID,
			Peaks:      peaks,
			Duration:   waveform.Duration,
			Resolution: waveform.Resolution,
			SampleRate: waveform.SampleRate,
		})
	}
}

// AnalyzeClip starts an AI analysis of the clip
// @Summary Analyze clip
// @Description Runs in the background; the clip reports isAnalyzing until the tags and description are merged.
// @Tags clips
// @Security BearerAuth
// @Produce json
// @Param id path string true "Clip ID"
// @Success 202 {object} types.ClipResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 422 {object} types.ErrorResponse "Remote audio cannot be analyzed"
// @Router /api/v1/clips/{id}/analyze [post]
func AnalyzeClip(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		clip, err := deps.Board.Analyze(c.Request.Context(), c.Param("id"))
		warning, err := types.SplitWarning(err)
		if err != nil {
			types.SendError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, types.ClipResponse{Clip: clip, Warning: warning})
	}
}

// readAudio extracts the upload from a multipart form or the raw body
func readAudio(c *gin.Context) ([]byte, string, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		header, err := c.FormFile("audio")
		if err != nil {
			return nil, "", fmt.Errorf("missing audio file: %w", err)
		}
		data, err := readFormFile(header)
		if err != nil {
			return nil, "", err
		}
		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = defaultMimeType
		}
		return data, mimeType, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, "", err
	}
	mimeType := c.GetHeader("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = defaultMimeType
	}
	return data, mimeType, nil
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// parseDuration reads the duration from the form or query. Absent means zero,
// which the board replaces with the probed length.
func parseDuration(c *gin.Context) (float64, error) {
	raw := c.PostForm("duration")
	if raw == "" {
		raw = c.Query("duration")
	}
	if raw == "" {
		return 0, nil
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil || !clips.ValidDuration(d) {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return d, nil
}
