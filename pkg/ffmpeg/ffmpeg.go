package ffmpeg

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"time"
)

// FFmpeg wraps ffmpeg and ffprobe functionality
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
}

// New creates a new FFmpeg instance. A zero timeout means no limit.
func New(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		timeout:     timeout,
	}
}

// ValidateBinaries checks if ffmpeg and ffprobe are available
func (f *FFmpeg) ValidateBinaries() error {
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath)
	}
	if _, err := exec.LookPath(f.ffprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, f.ffprobePath)
	}
	return nil
}

func (f *FFmpeg) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.timeout)
}

// GenerateWaveform decodes an in-memory audio payload and returns normalized peaks
func (f *FFmpeg) GenerateWaveform(ctx context.Context, audio []byte, options ProcessingOptions) (*WaveformData, error) {
	if len(audio) == 0 {
		return nil, ErrInvalidAudio
	}
	if options.WaveformResolution <= 0 {
		options.WaveformResolution = DefaultProcessingOptions().WaveformResolution
	}

	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	pcm, err := f.decodePCM(ctx, audio)
	if err != nil {
		return nil, err
	}

	totalSamples := len(pcm) / 4
	if totalSamples == 0 {
		return nil, NewProcessingError("pcm_conversion", "stdin", ErrInvalidAudio, "")
	}
	duration := float64(totalSamples) / peakSampleRate

	if options.MaxDuration > 0 && time.Duration(duration*float64(time.Second)) > options.MaxDuration {
		return nil, fmt.Errorf("%w: duration %.1fs exceeds limit %.1fs",
			ErrAudioTooLong, duration, options.MaxDuration.Seconds())
	}

	peaks := analyzePCMData(pcm, options.WaveformResolution)

	return &WaveformData{
		Peaks:      peaks,
		Duration:   duration,
		Resolution: len(peaks),
		SampleRate: peakSampleRate,
	}, nil
}

// decodePCM converts the payload on stdin into mono 32-bit float PCM on stdout
func (f *FFmpeg) decodePCM(ctx context.Context, audio []byte) ([]byte, error) {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-f", "f32le", // 32-bit float little-endian
		"-ac", "1", // Convert to mono
		"-ar", strconv.Itoa(peakSampleRate),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(audio)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, NewProcessingError("pcm_conversion", "stdin", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// analyzePCMData splits float32 samples into resolution windows and
// returns the absolute peak of each, normalized to the loudest window
func analyzePCMData(pcm []byte, resolution int) []float32 {
	totalSamples := len(pcm) / 4
	if resolution <= 0 || totalSamples == 0 {
		return []float32{}
	}

	samplesPerPeak := totalSamples / resolution
	if samplesPerPeak < 1 {
		samplesPerPeak = 1
	}

	peaks := make([]float32, 0, resolution)
	var globalMaxPeak float32

	for start := 0; start < totalSamples && len(peaks) < resolution; start += samplesPerPeak {
		end := start + samplesPerPeak
		if end > totalSamples {
			end = totalSamples
		}

		var maxPeak float32
		for i := start; i < end; i++ {
			sample := abs(bytesToFloat32(pcm[i*4 : i*4+4]))
			if sample > maxPeak {
				maxPeak = sample
			}
		}

		peaks = append(peaks, maxPeak)
		if maxPeak > globalMaxPeak {
			globalMaxPeak = maxPeak
		}
	}

	// All silence keeps the zeros
	if globalMaxPeak > 0 {
		for i := range peaks {
			peaks[i] /= globalMaxPeak
		}
	}

	return peaks
}

// Helper functions

// bytesToFloat32 converts 4 bytes to a float32 in little-endian format
func bytesToFloat32(b []byte) float32 {
	if len(b) < 4 {
		return 0
	}
	f := math.Float32frombits(binary.LittleEndian.Uint32(b))
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return 0
	}
	return f
}

// abs returns the absolute value of a float32
func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
