package audio

import (
	"context"
	"fmt"
)

// InlineStore embeds audio in the clip record as a data URL
type InlineStore struct{}

// NewInlineStore creates the default audio store
func NewInlineStore() *InlineStore {
	return &InlineStore{}
}

var _ Store = (*InlineStore)(nil)

func (s *InlineStore) Save(_ context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyAudio
	}
	return EncodeDataURL(data, mimeType), nil
}

func (s *InlineStore) Load(_ context.Context, audioURL string) (Payload, error) {
	switch {
	case IsDataURL(audioURL):
		return DecodeDataURL(audioURL)
	case isRemote(audioURL):
		return Payload{}, ErrRemoteAudio
	default:
		return Payload{}, fmt.Errorf("%w: %q", ErrUnknownHandle, truncate(audioURL))
	}
}

func (s *InlineStore) Delete(context.Context, string) error {
	return nil
}

func truncate(s string) string {
	const limit = 48
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
