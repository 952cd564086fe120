package types

import (
	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/recorder"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Error   string         `json:"error,omitempty"`   // Error code
	Details map[string]any `json:"details,omitempty"` // Additional error details
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Warning string      `json:"warning,omitempty"`
}

// UserResponse wraps a profile
type UserResponse struct {
	models.User
	Warning string `json:"warning,omitempty"`
}

// ClipResponse wraps a single clip
type ClipResponse struct {
	models.Clip
	Warning string `json:"warning,omitempty"`
}

// ClipsResponse for clip lists
type ClipsResponse struct {
	Clips []models.Clip `json:"clips"`
	Count int           `json:"count"`
	Query string        `json:"query,omitempty"`
	Tab   string        `json:"tab"`
}

// CommentResponse wraps a created comment
type CommentResponse struct {
	models.Comment
	Warning string `json:"warning,omitempty"`
}

// MessageResponse acknowledges an action with no body of its own
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

// RecorderResponse reports the recorder state and visualizer levels
type RecorderResponse struct {
	recorder.Snapshot
}

// CategoriesResponse lists clip categories and board tabs
type CategoriesResponse struct {
	Categories []models.Category `json:"categories"`
	Tabs       []string          `json:"tabs"`
}

// WaveformResponse for waveform data
type WaveformResponse struct {
	ClipID     string    `json:"clipId"`
	Peaks      []float32 `json:"peaks"`
	Duration   float64   `json:"duration"`
	Resolution int       `json:"resolution"`
	SampleRate int       `json:"sampleRate,omitempty"`
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Database  map[string]any `json:"database"`
	Store     map[string]any `json:"store,omitempty"`
	Media     map[string]any `json:"media,omitempty"`
}

// VersionResponse describes the running build
type VersionResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
