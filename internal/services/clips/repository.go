package clips

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/killallgit/jamboard-api/internal/ids"
	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/store"
	"github.com/rs/zerolog"
)

// Default values of a freshly saved recording
var (
	newClipTags     = []string{"New", UntaggedTag}
	newClipCategory = models.CategoryOther
)

// repository keeps the ordered clip list in memory and mirrors it to the store
type repository struct {
	mu    sync.RWMutex
	store store.Store
	ids   *ids.Generator
	log   zerolog.Logger
	clips []models.Clip
}

// NewRepository creates a clip repository. Call Initialize before use.
func NewRepository(st store.Store, gen *ids.Generator, log zerolog.Logger) Repository {
	return &repository{
		store: st,
		ids:   gen,
		log:   log.With().Str("component", "clips").Logger(),
		clips: []models.Clip{},
	}
}

// Initialize loads jamboard_clips. A missing or unparsable record falls back
// to the demo dataset, which is then written back.
func (r *repository) Initialize(ctx context.Context) ([]models.Clip, error) {
	raw, ok, err := r.store.Get(ctx, store.KeyClips)
	if err != nil {
		return nil, fmt.Errorf("load clips: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var loaded []models.Clip
	if ok {
		if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
			r.log.Error().Err(err).Msg("failed to parse stored clips, using demo data")
			loaded = nil
			ok = false
		}
	}
	if !ok || loaded == nil {
		loaded = DemoClips(r.ids.NowMillis())
	}
	for i := range loaded {
		if loaded[i].Tags == nil {
			loaded[i].Tags = []string{}
		}
		if loaded[i].Comments == nil {
			loaded[i].Comments = []models.Comment{}
		}
	}
	r.clips = loaded
	r.log.Debug().Int("count", len(loaded)).Bool("demo", !ok).Msg("clips loaded")

	return r.snapshot(), r.persist(ctx)
}

func (r *repository) List() []models.Clip {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

func (r *repository) Get(id string) (models.Clip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return models.Clip{}, ErrClipNotFound
	}
	return r.clips[i].Clone(), nil
}

func (r *repository) Create(ctx context.Context, in NewClip, owner models.User) (models.Clip, error) {
	if !ValidDuration(in.Duration) {
		return models.Clip{}, fmt.Errorf("%w: %v", ErrInvalidDuration, in.Duration)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clip := models.Clip{
		ID: r.ids.Next("c", func(id string) bool {
			return r.indexOf(id) >= 0
		}),
		Title:     fmt.Sprintf("New Idea #%d", len(r.clips)+1),
		AudioURL:  in.AudioURL,
		MimeType:  in.MimeType,
		Duration:  in.Duration,
		Tags:      append([]string{}, newClipTags...),
		Category:  newClipCategory,
		CreatedAt: r.ids.NowMillis(),
		UserID:    owner.ID,
		User:      owner,
		Comments:  []models.Comment{},
	}
	next := append([]models.Clip{clip}, r.clips...)
	raw, err := encodeClips(next)
	if err != nil {
		return models.Clip{}, err
	}
	r.clips = next
	r.log.Info().Str("clip_id", clip.ID).Str("user_id", owner.ID).Float64("duration", clip.Duration).Msg("clip created")

	return clip.Clone(), r.write(ctx, raw)
}

func (r *repository) Update(ctx context.Context, id string, patch models.ClipPatch) (models.Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Clip{}, ErrClipNotFound
	}
	patch.Apply(&r.clips[i])
	return r.clips[i].Clone(), r.persist(ctx)
}

func (r *repository) Delete(ctx context.Context, id string) (models.Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Clip{}, ErrClipNotFound
	}
	removed := r.clips[i]
	r.clips = append(r.clips[:i:i], r.clips[i+1:]...)
	r.log.Info().Str("clip_id", id).Msg("clip deleted")

	return removed, r.persist(ctx)
}

func (r *repository) AddComment(ctx context.Context, clipID, text string, author *models.User) (models.Comment, error) {
	if author == nil {
		return models.Comment{}, ErrNoAuthor
	}
	if strings.TrimSpace(text) == "" {
		return models.Comment{}, ErrEmptyComment
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(clipID)
	if i < 0 {
		return models.Comment{}, ErrClipNotFound
	}
	clip := &r.clips[i]
	comment := models.Comment{
		ID: r.ids.Next("cm", func(id string) bool {
			return clip.FindComment(id) >= 0
		}),
		UserID:     author.ID,
		UserName:   author.Name,
		UserAvatar: author.AvatarURL,
		Text:       text,
		Timestamp:  r.ids.NowMillis(),
	}
	clip.Comments = append(clip.Comments, comment)

	return comment, r.persist(ctx)
}

func (r *repository) DeleteComment(ctx context.Context, clipID, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(clipID)
	if i < 0 {
		return ErrClipNotFound
	}
	clip := &r.clips[i]
	j := clip.FindComment(commentID)
	if j < 0 {
		return ErrCommentNotFound
	}
	clip.Comments = append(clip.Comments[:j:j], clip.Comments[j+1:]...)

	return r.persist(ctx)
}

func (r *repository) MergeAnalysis(ctx context.Context, id string, result models.Analysis) (models.Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Clip{}, ErrClipNotFound
	}
	clip := &r.clips[i]
	clip.Tags = MergeTags(clip.Tags, result.Tags)
	clip.AIAnalysis = result.Description
	clip.IsAnalyzing = false

	return clip.Clone(), r.persist(ctx)
}

func (r *repository) UpdateOwner(ctx context.Context, user models.User) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for i := range r.clips {
		if r.clips[i].UserID == user.ID {
			r.clips[i].User = user
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, r.persist(ctx)
}

// indexOf finds a clip by id; callers hold mu
func (r *repository) indexOf(id string) int {
	for i := range r.clips {
		if r.clips[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *repository) snapshot() []models.Clip {
	out := make([]models.Clip, len(r.clips))
	for i := range r.clips {
		out[i] = r.clips[i].Clone()
	}
	return out
}

// persist rewrites the whole list; callers hold mu. A failed store write
// never rolls memory back.
func (r *repository) persist(ctx context.Context) error {
	raw, err := encodeClips(r.clips)
	if err != nil {
		return err
	}
	return r.write(ctx, raw)
}

func (r *repository) write(ctx context.Context, raw []byte) error {
	if err := r.store.Set(ctx, store.KeyClips, string(raw)); err != nil {
		r.log.Error().Err(err).Int("bytes", len(raw)).Msg("failed to persist clips")
		return &store.PersistError{Key: store.KeyClips, Err: err}
	}
	return nil
}

func encodeClips(list []models.Clip) ([]byte, error) {
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode clips: %w", err)
	}
	return raw, nil
}
