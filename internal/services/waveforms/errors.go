package waveforms

import "errors"

var (
	// ErrWaveformNotFound is returned when a waveform is not cached
	ErrWaveformNotFound = errors.New("waveform not found")

	// ErrInvalidClipID is returned when a clip ID is empty
	ErrInvalidClipID = errors.New("invalid clip ID")

	// ErrInvalidPeaksData is returned when peaks data is invalid
	ErrInvalidPeaksData = errors.New("invalid peaks data")
)
