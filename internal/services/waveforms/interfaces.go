package waveforms

import (
	"context"

	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/pkg/ffmpeg"
)

// WaveformService defines the interface for waveform operations
type WaveformService interface {
	// GetWaveform returns the cached waveform of a clip, computing it on a miss
	GetWaveform(ctx context.Context, clip models.Clip) (*models.Waveform, error)

	// DeleteWaveform drops the cached waveform of a clip
	DeleteWaveform(ctx context.Context, clipID string) error
}

// WaveformRepository defines the interface for waveform data access
type WaveformRepository interface {
	// GetByClipID retrieves waveform by clip ID
	GetByClipID(ctx context.Context, clipID string) (*models.Waveform, error)

	// Save creates or replaces a waveform
	Save(ctx context.Context, waveform *models.Waveform) error

	// Delete removes a waveform by clip ID
	Delete(ctx context.Context, clipID string) error
}

// PeakGenerator computes peaks from an encoded payload; *ffmpeg.FFmpeg implements it
type PeakGenerator interface {
	GenerateWaveform(ctx context.Context, audio []byte, options ffmpeg.ProcessingOptions) (*ffmpeg.WaveformData, error)
}
