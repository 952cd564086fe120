package board

import (
	"context"
	"fmt"

	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/clips"
	"github.com/killallgit/jamboard-api/internal/services/recorder"
)

// StartRecording opens the microphone for the session user
func (b *Board) StartRecording(ctx context.Context) error {
	if _, err := b.CurrentUser(); err != nil {
		return err
	}
	return b.recorder.Start(ctx)
}

// StopRecording finishes the recording and saves it as a new clip. The clip
// is returned with a *store.PersistError when the mirror write fails.
func (b *Board) StopRecording(ctx context.Context) (models.Clip, error) {
	user, err := b.CurrentUser()
	if err != nil {
		b.recorder.Cancel()
		return models.Clip{}, err
	}

	blob, duration, err := b.recorder.Stop()
	if err != nil && blob == nil {
		return models.Clip{}, err
	}
	if err != nil {
		b.log.Warn().Err(err).Msg("device release reported an error")
	}
	if blob == nil {
		return models.Clip{}, ErrNotRecording
	}

	audioURL, err := b.audio.Save(ctx, blob.Data, blob.MimeType)
	if err != nil {
		return models.Clip{}, fmt.Errorf("save recording: %w", err)
	}
	return b.clips.Create(ctx, clips.NewClip{
		AudioURL: audioURL,
		MimeType: blob.MimeType,
		Duration: duration,
	}, user)
}

// CancelRecording discards the active recording
func (b *Board) CancelRecording() {
	b.recorder.Cancel()
}

// RecorderStatus reports what the recorder is doing
func (b *Board) RecorderStatus() recorder.Snapshot {
	return b.recorder.Snapshot()
}
