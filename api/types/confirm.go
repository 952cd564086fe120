package types

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/internal/services/confirm"
	apperrors "github.com/killallgit/jamboard-api/pkg/errors"
)

// QueryConfirmer answers a prompt from the request's ?confirm flag and keeps
// the prompt so an unconfirmed request can be answered with it
type QueryConfirmer struct {
	confirmed bool
	asked     *confirm.Prompt
}

// NewQueryConfirmer reads ?confirm=true from the request
func NewQueryConfirmer(c *gin.Context) *QueryConfirmer {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	return &QueryConfirmer{confirmed: confirmed}
}

func (q *QueryConfirmer) Confirm(_ context.Context, p confirm.Prompt) (bool, error) {
	q.asked = &p
	return q.confirmed, nil
}

// Resolve turns a declined prompt into a confirmation-required error that
// carries the prompt text. Other errors pass through.
func (q *QueryConfirmer) Resolve(err error) error {
	if err == nil || q.asked == nil || !errors.Is(err, confirm.ErrDeclined) {
		return err
	}
	return apperrors.ConfirmationRequired(q.asked.Title, q.asked.Message).
		WithDetail("confirm", "repeat the request with ?confirm=true").
		WithCause(err)
}
