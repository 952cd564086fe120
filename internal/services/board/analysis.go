package board

import (
	"context"
	"errors"

	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/audio"
	"github.com/killallgit/jamboard-api/internal/services/clips"
	"github.com/killallgit/jamboard-api/internal/services/store"
)

// Analyze marks the clip analyzing and starts a background analysis. A
// request for a clip already being analyzed is a no-op. Remote audio cannot
// be analyzed: the flag is cleared and audio.ErrRemoteAudio returned.
func (b *Board) Analyze(ctx context.Context, clipID string) (models.Clip, error) {
	if _, err := b.CurrentUser(); err != nil {
		return models.Clip{}, err
	}
	clip, err := b.clips.Get(clipID)
	if err != nil {
		return models.Clip{}, err
	}
	if b.runner.Running(clipID) {
		return clip, nil
	}

	on, off := true, false
	clip, err = b.clips.Update(ctx, clipID, models.ClipPatch{IsAnalyzing: &on})
	if err != nil && !store.IsWarning(err) {
		return models.Clip{}, err
	}

	payload, loadErr := b.audio.Load(ctx, clip.AudioURL)
	if loadErr != nil {
		clip, err = b.clips.Update(ctx, clipID, models.ClipPatch{IsAnalyzing: &off})
		if err != nil && !store.IsWarning(err) {
			return models.Clip{}, err
		}
		if !errors.Is(loadErr, audio.ErrRemoteAudio) {
			b.log.Error().Err(loadErr).Str("clip_id", clipID).Msg("failed to load clip audio")
		}
		return clip, loadErr
	}

	submitted := b.runner.Submit(clipID, func(taskCtx context.Context) {
		b.runAnalysis(taskCtx, clipID, payload)
	})
	if submitted || b.runner.Running(clipID) {
		return clip, nil
	}

	// The runner is stopped; nothing will ever clear the flag
	clip, err = b.clips.Update(ctx, clipID, models.ClipPatch{IsAnalyzing: &off})
	if err != nil && !store.IsWarning(err) {
		return models.Clip{}, err
	}
	return clip, ErrClosed
}

// WaitAnalysis blocks until the clip's analysis finishes
func (b *Board) WaitAnalysis(ctx context.Context, clipID string) error {
	return b.runner.Wait(ctx, clipID)
}

// runAnalysis merges the result last-write-wins. A cancelled task only clears
// the flag, and only while the clip still exists.
func (b *Board) runAnalysis(ctx context.Context, clipID string, payload audio.Payload) {
	result := b.analyzer.Analyze(ctx, payload)

	// The task context may be done; the final write must still happen
	writeCtx := context.WithoutCancel(ctx)
	if ctx.Err() != nil {
		off := false
		_, err := b.clips.Update(writeCtx, clipID, models.ClipPatch{IsAnalyzing: &off})
		if err != nil && !errors.Is(err, clips.ErrClipNotFound) {
			b.log.Warn().Err(err).Str("clip_id", clipID).Msg("failed to clear analyzing flag")
		}
		b.log.Info().Str("clip_id", clipID).Msg("analysis cancelled")
		return
	}

	_, err := b.clips.MergeAnalysis(writeCtx, clipID, result)
	switch {
	case errors.Is(err, clips.ErrClipNotFound):
		b.log.Debug().Str("clip_id", clipID).Msg("clip deleted during analysis")
	case err != nil:
		b.log.Warn().Err(err).Str("clip_id", clipID).Msg("analysis merged but not persisted")
	default:
		b.log.Info().Str("clip_id", clipID).Strs("tags", result.Tags).Msg("analysis merged")
	}
}
