package ffmpeg

import "time"

// AudioMetadata represents metadata extracted from an audio payload
type AudioMetadata struct {
	Duration   float64 `json:"duration"`    // Duration in seconds
	SampleRate int     `json:"sample_rate"` // Sample rate in Hz
	Channels   int     `json:"channels"`    // Number of audio channels
	Format     string  `json:"format"`      // Container format (webm, ogg, etc.)
	Codec      string  `json:"codec"`       // Audio codec
}

// WaveformData represents audio waveform peak data
type WaveformData struct {
	Peaks      []float32 `json:"peaks"`       // Peak values (0.0 - 1.0)
	Duration   float64   `json:"duration"`    // Duration in seconds
	Resolution int       `json:"resolution"`  // Number of peaks
	SampleRate int       `json:"sample_rate"` // Sample rate the peaks were computed at
}

// ProcessingOptions defines options for audio processing
type ProcessingOptions struct {
	WaveformResolution int           `json:"waveform_resolution"` // Number of peaks to generate
	MaxDuration        time.Duration `json:"max_duration"`        // Maximum duration to process
}

// DefaultProcessingOptions returns defaults sized for short clips
func DefaultProcessingOptions() ProcessingOptions {
	return ProcessingOptions{
		WaveformResolution: 200,
		MaxDuration:        10 * time.Minute,
	}
}

// CaptureOptions selects the input ffmpeg records from
type CaptureOptions struct {
	InputFormat  string        // ffmpeg demuxer, e.g. "pulse", "alsa", "avfoundation"
	InputDevice  string        // device name passed to -i
	ReadyTimeout time.Duration // how long to wait for the first PCM bytes
}

// DefaultCaptureOptions returns options for the default PulseAudio source
func DefaultCaptureOptions() CaptureOptions {
	return CaptureOptions{
		InputFormat:  "pulse",
		InputDevice:  "default",
		ReadyTimeout: 3 * time.Second,
	}
}

const (
	// CaptureMimeType is the container produced on the encoded stream
	CaptureMimeType = "audio/webm"
	// AnalysisSampleRate is the rate of the mono s16le tap used for visualization
	AnalysisSampleRate = 8000
	// peakSampleRate is the rate audio is resampled to before peak extraction
	peakSampleRate = 8000
)
