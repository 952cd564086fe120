package recorder

import (
	"errors"

	"github.com/killallgit/jamboard-api/pkg/ffmpeg"
)

var (
	// ErrPermissionDenied is returned when the host refuses microphone access
	ErrPermissionDenied = ffmpeg.ErrPermissionDenied

	// ErrDeviceUnavailable is returned when no usable input device exists
	ErrDeviceUnavailable = ffmpeg.ErrDeviceUnavailable

	// ErrAlreadyRecording is returned by Start during an active session
	ErrAlreadyRecording = errors.New("recording already in progress")

	// ErrClosed is returned after the recorder has been shut down
	ErrClosed = errors.New("recorder is closed")
)
