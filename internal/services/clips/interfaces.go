package clips

import (
	"context"

	"github.com/killallgit/jamboard-api/internal/models"
)

// NewClip carries the audio of a freshly saved recording
type NewClip struct {
	AudioURL string
	MimeType string
	Duration float64
}

// Repository defines the clip board operations. Every mutation rewrites the
// whole list to the store; a failed write comes back as a *store.PersistError
// next to the successful result.
type Repository interface {
	// Initialize loads the persisted clips, falling back to the demo set
	Initialize(ctx context.Context) ([]models.Clip, error)

	// List returns the clips newest first
	List() []models.Clip

	// Get returns a single clip
	Get(id string) (models.Clip, error)

	// Create prepends a new clip owned by owner
	Create(ctx context.Context, in NewClip, owner models.User) (models.Clip, error)

	// Update shallow-merges patch into the clip
	Update(ctx context.Context, id string, patch models.ClipPatch) (models.Clip, error)

	// Delete removes the clip and returns it
	Delete(ctx context.Context, id string) (models.Clip, error)

	// AddComment appends a comment authored by author
	AddComment(ctx context.Context, clipID, text string, author *models.User) (models.Comment, error)

	// DeleteComment removes exactly one comment
	DeleteComment(ctx context.Context, clipID, commentID string) error

	// MergeAnalysis folds an AI result into the clip and clears its analyzing flag
	MergeAnalysis(ctx context.Context, id string, result models.Analysis) (models.Clip, error)

	// UpdateOwner refreshes the owner snapshot of every clip owned by user
	UpdateOwner(ctx context.Context, user models.User) (int, error)
}
