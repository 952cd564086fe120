package audio

import "errors"

var (
	// ErrRemoteAudio is returned for audio that only exists behind a remote URL
	ErrRemoteAudio = errors.New("remote audio cannot be loaded; record your own clip")

	// ErrInvalidDataURL is returned for a malformed inline data URL
	ErrInvalidDataURL = errors.New("invalid data url")

	// ErrUnknownHandle is returned for an object handle this store does not own
	ErrUnknownHandle = errors.New("unknown audio handle")

	// ErrEmptyAudio is returned when saving a recording with no bytes
	ErrEmptyAudio = errors.New("audio payload is empty")
)
