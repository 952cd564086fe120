// Package board is the application context of one instance. It holds the
// session, clip repository, recorder and analysis runner and implements the
// flows that cross them.
package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/analyzer"
	"github.com/killallgit/jamboard-api/internal/services/audio"
	"github.com/killallgit/jamboard-api/internal/services/clips"
	"github.com/killallgit/jamboard-api/internal/services/confirm"
	"github.com/killallgit/jamboard-api/internal/services/recorder"
	"github.com/killallgit/jamboard-api/internal/services/session"
	"github.com/killallgit/jamboard-api/internal/services/store"
	"github.com/killallgit/jamboard-api/internal/services/waveforms"
	"github.com/killallgit/jamboard-api/internal/services/workers"
	"github.com/killallgit/jamboard-api/pkg/ffmpeg"
	"github.com/rs/zerolog"
)

// Prober reads container metadata from encoded audio
type Prober interface {
	GetMetadata(ctx context.Context, audio []byte) (*ffmpeg.AudioMetadata, error)
}

// Deps are the services a board is assembled from
type Deps struct {
	Session   session.SessionService
	Clips     clips.Repository
	Recorder  *recorder.Recorder
	Runner    *workers.Runner
	Audio     audio.Store
	Analyzer  analyzer.Analyzer
	Waveforms waveforms.WaveformService
	Prober    Prober
	Logger    zerolog.Logger
}

// Board coordinates the services of one instance
type Board struct {
	session   session.SessionService
	clips     clips.Repository
	recorder  *recorder.Recorder
	runner    *workers.Runner
	audio     audio.Store
	analyzer  analyzer.Analyzer
	waveforms waveforms.WaveformService
	prober    Prober
	log       zerolog.Logger
}

// New creates a board. Call Init before serving.
func New(d Deps) *Board {
	return &Board{
		session:   d.Session,
		clips:     d.Clips,
		recorder:  d.Recorder,
		runner:    d.Runner,
		audio:     d.Audio,
		analyzer:  d.Analyzer,
		waveforms: d.Waveforms,
		prober:    d.Prober,
		log:       d.Logger.With().Str("component", "board").Logger(),
	}
}

// Init restores the session and loads the clips. Mirror write failures are
// logged; the instance still starts.
func (b *Board) Init(ctx context.Context) error {
	if err := b.session.Restore(ctx); err != nil {
		return err
	}
	if _, err := b.clips.Initialize(ctx); err != nil {
		if !store.IsWarning(err) {
			return err
		}
		b.log.Warn().Err(err).Msg("clips loaded but not persisted")
	}
	return nil
}

// Close cancels recording and analysis and waits for them to end
func (b *Board) Close() error {
	err := b.recorder.Close()
	b.runner.Stop()
	return err
}

// Session exposes the session service for token checks
func (b *Board) Session() session.SessionService {
	return b.session
}

// CurrentUser returns the signed-in user
func (b *Board) CurrentUser() (models.User, error) {
	u, ok := b.session.Current()
	if !ok {
		return models.User{}, session.ErrNoSession
	}
	return u, nil
}

func (b *Board) SignUp(ctx context.Context, name, email, secret string) (models.User, error) {
	b.recorder.Cancel()
	return b.session.SignUp(ctx, name, email, secret)
}

func (b *Board) LogIn(ctx context.Context, email, secret string) (models.User, error) {
	b.recorder.Cancel()
	return b.session.LogIn(ctx, email, secret)
}

// LogOut cancels any recording before clearing the session
func (b *Board) LogOut(ctx context.Context) error {
	b.recorder.Cancel()
	return b.session.LogOut(ctx)
}

// UpdateProfile edits the session user and refreshes the owner snapshot on
// their clips. Comment snapshots keep the name they were written under.
func (b *Board) UpdateProfile(ctx context.Context, userID string, patch models.UserPatch) (models.User, error) {
	user, err := b.session.UpdateProfile(ctx, userID, patch)
	if err != nil && !store.IsWarning(err) {
		return models.User{}, err
	}
	n, ownerErr := b.clips.UpdateOwner(ctx, user)
	b.log.Debug().Str("user_id", user.ID).Int("clips", n).Msg("owner snapshots refreshed")
	return user, errors.Join(err, ownerErr)
}

// ListClips filters the board for the signed-in viewer
func (b *Board) ListClips(query, tab string) []models.Clip {
	viewer := ""
	if u, ok := b.session.Current(); ok {
		viewer = u.ID
	}
	return clips.Filter(b.clips.List(), query, tab, viewer)
}

func (b *Board) GetClip(id string) (models.Clip, error) {
	return b.clips.Get(id)
}

// CreateClip stores uploaded audio as a new clip of the session user
func (b *Board) CreateClip(ctx context.Context, data []byte, mimeType string, duration float64) (models.Clip, error) {
	user, err := b.CurrentUser()
	if err != nil {
		return models.Clip{}, err
	}
	if !clips.ValidDuration(duration) {
		return models.Clip{}, fmt.Errorf("%w: %v", clips.ErrInvalidDuration, duration)
	}
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	if duration == 0 {
		duration = b.probeDuration(ctx, data)
	}
	audioURL, err := b.audio.Save(ctx, data, mimeType)
	if err != nil {
		return models.Clip{}, fmt.Errorf("save audio: %w", err)
	}
	return b.clips.Create(ctx, clips.NewClip{AudioURL: audioURL, MimeType: mimeType, Duration: duration}, user)
}

// probeDuration reads the length of an upload that arrived without one.
// Zero is kept when there is no prober or ffprobe cannot tell.
func (b *Board) probeDuration(ctx context.Context, data []byte) float64 {
	if b.prober == nil || len(data) == 0 {
		return 0
	}
	meta, err := b.prober.GetMetadata(ctx, data)
	if err != nil {
		b.log.Warn().Err(err).Int("bytes", len(data)).Msg("failed to probe clip duration")
		return 0
	}
	if !clips.ValidDuration(meta.Duration) {
		return 0
	}
	return meta.Duration
}

// UpdateClip applies an owner's edit
func (b *Board) UpdateClip(ctx context.Context, clipID string, patch models.ClipPatch) (models.Clip, error) {
	if patch.IsEmpty() {
		return models.Clip{}, ErrEmptyPatch
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return models.Clip{}, fmt.Errorf("%w: %q", ErrInvalidCategory, *patch.Category)
	}
	if _, err := b.ownedClip(clipID); err != nil {
		return models.Clip{}, err
	}
	return b.clips.Update(ctx, clipID, patch)
}

// DeleteClip removes an owned clip after confirmation. Running analysis is
// cancelled and the stored audio and waveform are dropped.
func (b *Board) DeleteClip(ctx context.Context, clipID string, c confirm.Confirmer) error {
	clip, err := b.ownedClip(clipID)
	if err != nil {
		return err
	}
	if err := confirm.Require(ctx, c, confirm.DeleteClip); err != nil {
		return err
	}

	b.runner.Cancel(clipID)
	_, warn := b.clips.Delete(ctx, clipID)
	if warn != nil && !store.IsWarning(warn) {
		return warn
	}
	if err := b.audio.Delete(ctx, clip.AudioURL); err != nil {
		b.log.Warn().Err(err).Str("clip_id", clipID).Msg("failed to delete clip audio")
	}
	if err := b.waveforms.DeleteWaveform(ctx, clipID); err != nil {
		b.log.Warn().Err(err).Str("clip_id", clipID).Msg("failed to drop cached waveform")
	}
	return warn
}

// AddComment appends a comment by the session user
func (b *Board) AddComment(ctx context.Context, clipID, text string) (models.Comment, error) {
	var author *models.User
	if u, ok := b.session.Current(); ok {
		author = &u
	}
	return b.clips.AddComment(ctx, clipID, text, author)
}

// DeleteComment removes the session user's own comment after confirmation
func (b *Board) DeleteComment(ctx context.Context, clipID, commentID string, c confirm.Confirmer) error {
	user, err := b.CurrentUser()
	if err != nil {
		return err
	}
	clip, err := b.clips.Get(clipID)
	if err != nil {
		return err
	}
	i := clip.FindComment(commentID)
	if i < 0 {
		return clips.ErrCommentNotFound
	}
	if clip.Comments[i].UserID != user.ID {
		return ErrNotOwner
	}
	if err := confirm.Require(ctx, c, confirm.DeleteComment); err != nil {
		return err
	}
	return b.clips.DeleteComment(ctx, clipID, commentID)
}

// ExportClip returns the download name and audio of a clip
func (b *Board) ExportClip(ctx context.Context, clipID string) (string, audio.Payload, error) {
	clip, err := b.clips.Get(clipID)
	if err != nil {
		return "", audio.Payload{}, err
	}
	payload, err := b.audio.Load(ctx, clip.AudioURL)
	if err != nil {
		return "", audio.Payload{}, err
	}
	if payload.MimeType == "" {
		payload.MimeType = clip.MimeType
	}
	return clip.ExportFilename(), payload, nil
}

// Waveform returns the peak data of a clip
func (b *Board) Waveform(ctx context.Context, clipID string) (*models.Waveform, error) {
	clip, err := b.clips.Get(clipID)
	if err != nil {
		return nil, err
	}
	return b.waveforms.GetWaveform(ctx, clip)
}

// ownedClip loads a clip and checks that the session user owns it
func (b *Board) ownedClip(clipID string) (models.Clip, error) {
	user, err := b.CurrentUser()
	if err != nil {
		return models.Clip{}, err
	}
	clip, err := b.clips.Get(clipID)
	if err != nil {
		return models.Clip{}, err
	}
	if clip.UserID != user.ID {
		return models.Clip{}, ErrNotOwner
	}
	return clip, nil
}
