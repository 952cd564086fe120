package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrFFmpegNotFound    = errors.New("ffmpeg binary not found")
	ErrFFprobeNotFound   = errors.New("ffprobe binary not found")
	ErrInvalidAudio      = errors.New("invalid or unsupported audio data")
	ErrAudioTooLong      = errors.New("audio exceeds maximum duration")
	ErrPermissionDenied  = errors.New("microphone permission denied")
	ErrDeviceUnavailable = errors.New("audio input device unavailable")
)

// ProcessingError represents an error during audio processing
type ProcessingError struct {
	Operation string // The operation that failed (e.g., "metadata_extraction", "capture")
	Input     string // The input being processed
	Err       error  // The underlying error
	Stderr    string // stderr output from ffmpeg/ffprobe
}

func (e *ProcessingError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffmpeg %s failed for %s: %v (stderr: %s)", e.Operation, e.Input, e.Err, e.Stderr)
	}
	return fmt.Sprintf("ffmpeg %s failed for %s: %v", e.Operation, e.Input, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewProcessingError creates a new ProcessingError
func NewProcessingError(operation, input string, err error, stderr string) *ProcessingError {
	return &ProcessingError{
		Operation: operation,
		Input:     input,
		Err:       err,
		Stderr:    stderr,
	}
}

// classifyCaptureFailure maps ffmpeg stderr from a failed capture onto a device error
func classifyCaptureFailure(stderr string) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "permission denied"),
		strings.Contains(lower, "access denied"),
		strings.Contains(lower, "operation not permitted"):
		return ErrPermissionDenied
	default:
		return ErrDeviceUnavailable
	}
}
