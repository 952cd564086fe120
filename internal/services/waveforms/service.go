package waveforms

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/audio"
	"github.com/killallgit/jamboard-api/pkg/ffmpeg"
	"github.com/rs/zerolog"
)

// service implements WaveformService
type service struct {
	repo      WaveformRepository
	audio     audio.Store
	generator PeakGenerator
	options   ffmpeg.ProcessingOptions
	log       zerolog.Logger
}

// NewService creates a new waveform service
func NewService(repo WaveformRepository, audioStore audio.Store, generator PeakGenerator, options ffmpeg.ProcessingOptions, log zerolog.Logger) WaveformService {
	return &service{
		repo:      repo,
		audio:     audioStore,
		generator: generator,
		options:   options,
		log:       log.With().Str("component", "waveforms").Logger(),
	}
}

// GetWaveform returns cached peaks or computes them from the clip's audio
func (s *service) GetWaveform(ctx context.Context, clip models.Clip) (*models.Waveform, error) {
	if clip.ID == "" {
		return nil, ErrInvalidClipID
	}

	waveform, err := s.repo.GetByClipID(ctx, clip.ID)
	if err == nil {
		return waveform, nil
	}
	if !errors.Is(err, ErrWaveformNotFound) {
		return nil, err
	}

	payload, err := s.audio.Load(ctx, clip.AudioURL)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("clip_id", clip.ID).Int("bytes", len(payload.Data)).Msg("generating waveform")
	data, err := s.generator.GenerateWaveform(ctx, payload.Data, s.options)
	if err != nil {
		return nil, fmt.Errorf("generate waveform: %w", err)
	}
	if len(data.Peaks) == 0 {
		return nil, ErrInvalidPeaksData
	}

	waveform = &models.Waveform{
		ClipID:     clip.ID,
		Duration:   data.Duration,
		SampleRate: data.SampleRate,
	}
	if err := waveform.SetPeaks(data.Peaks); err != nil {
		return nil, fmt.Errorf("encode peaks: %w", err)
	}

	// A cache write failure still returns the computed peaks
	if err := s.repo.Save(ctx, waveform); err != nil {
		s.log.Warn().Err(err).Str("clip_id", clip.ID).Msg("failed to cache waveform")
	}
	return waveform, nil
}

// DeleteWaveform removes cached peaks for a clip
func (s *service) DeleteWaveform(ctx context.Context, clipID string) error {
	if clipID == "" {
		return ErrInvalidClipID
	}
	return s.repo.Delete(ctx, clipID)
}
