package clips

import (
	"errors"
	"math"
)

var (
	// ErrClipNotFound is returned when no clip has the requested id
	ErrClipNotFound = errors.New("clip not found")

	// ErrCommentNotFound is returned when the clip has no comment with the requested id
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNoAuthor is returned when a comment is added without a signed-in user
	ErrNoAuthor = errors.New("comment requires a signed-in author")

	// ErrEmptyComment is returned for comment text that is blank after trimming
	ErrEmptyComment = errors.New("comment text is empty")

	// ErrInvalidDuration is returned for a negative or non-finite clip duration
	ErrInvalidDuration = errors.New("invalid duration")
)

// ValidDuration reports whether d seconds can be stored on a clip
func ValidDuration(d float64) bool {
	return d >= 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}
