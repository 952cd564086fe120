package audio

import "context"

// Payload is a clip's decoded audio
type Payload struct {
	Data     []byte
	MimeType string
}

// Store decides where clip audio lives. The returned URL is what a clip
// carries in its audioUrl field.
type Store interface {
	// Save stores a recording and returns its audio URL
	Save(ctx context.Context, data []byte, mimeType string) (string, error)

	// Load resolves an audio URL to bytes. Remote http(s) URLs fail with ErrRemoteAudio.
	Load(ctx context.Context, audioURL string) (Payload, error)

	// Delete drops the payload behind an audio URL; inline audio needs no cleanup
	Delete(ctx context.Context, audioURL string) error
}

// Backend names accepted by audio.backend
const (
	BackendInline = "inline"
	BackendMinIO  = "minio"
)
