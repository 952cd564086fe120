// Package confirm gates destructive actions behind an explicit yes.
package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrDeclined is returned when the user does not confirm
var ErrDeclined = errors.New("action not confirmed")

// Prompt is the question shown before a destructive action
type Prompt struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Prompts used by the board
var (
	DeleteClip = Prompt{
		Title:   "Delete Clip",
		Message: "Are you sure you want to delete this clip? This action is irreversible.",
	}
	DeleteComment = Prompt{
		Title:   "Delete Comment",
		Message: "Are you sure you want to delete this comment? This action is irreversible.",
	}
)

// Confirmer asks the user to approve a prompt
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// Func adapts a function to Confirmer
type Func func(ctx context.Context, p Prompt) (bool, error)

func (f Func) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// Static answers every prompt the same way; HTTP handlers use it once the
// client has passed confirm=true
type Static bool

func (s Static) Confirm(context.Context, Prompt) (bool, error) {
	return bool(s), nil
}

// Terminal asks on a line-oriented terminal. Only y or yes confirms.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

func (t Terminal) Confirm(ctx context.Context, p Prompt) (bool, error) {
	if _, err := fmt.Fprintf(t.Out, "%s\n%s [y/N]: ", p.Title, p.Message); err != nil {
		return false, err
	}

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(t.In).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// Require runs c and turns a refusal into ErrDeclined
func Require(ctx context.Context, c Confirmer, p Prompt) error {
	if c == nil {
		return ErrDeclined
	}
	ok, err := c.Confirm(ctx, p)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}
