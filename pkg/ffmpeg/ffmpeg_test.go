package ffmpeg

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ff := New("ffmpeg", "ffprobe", 30*time.Second)
	assert.Equal(t, "ffmpeg", ff.ffmpegPath)
	assert.Equal(t, "ffprobe", ff.ffprobePath)
	assert.Equal(t, 30*time.Second, ff.timeout)
}

func TestDefaultProcessingOptions(t *testing.T) {
	opts := DefaultProcessingOptions()
	assert.Equal(t, 200, opts.WaveformResolution)
	assert.Equal(t, 10*time.Minute, opts.MaxDuration)
}

func TestAbs(t *testing.T) {
	tests := []struct {
		input    float32
		expected float32
	}{
		{1.5, 1.5},
		{-1.5, 1.5},
		{0, 0},
		{-0.001, 0.001},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, abs(test.input))
	}
}

func f32le(samples ...float32) []byte {
	buf := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	return buf
}

func TestAnalyzePCMData(t *testing.T) {
	tests := []struct {
		name       string
		pcm        []byte
		resolution int
		expected   []float32
	}{
		{
			name:       "normalizes to loudest window",
			pcm:        f32le(0.1, -0.2, 0.5, 0.25),
			resolution: 2,
			expected:   []float32{0.4, 1},
		},
		{
			name:       "silence stays zero",
			pcm:        f32le(0, 0, 0, 0),
			resolution: 2,
			expected:   []float32{0, 0},
		},
		{
			name:       "resolution above sample count",
			pcm:        f32le(0.5, -1),
			resolution: 10,
			expected:   []float32{0.5, 1},
		},
		{
			name:       "empty input",
			pcm:        nil,
			resolution: 4,
			expected:   []float32{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzePCMData(tt.pcm, tt.resolution)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], got[i], 1e-6)
			}
		})
	}
}

func TestBytesToFloat32(t *testing.T) {
	assert.Equal(t, float32(0.75), bytesToFloat32(f32le(0.75)))
	assert.Equal(t, float32(0), bytesToFloat32([]byte{1, 2}))
	assert.Equal(t, float32(0), bytesToFloat32(f32le(float32(math.NaN()))))
}

func TestParseMetadata(t *testing.T) {
	var out ffprobeOutput
	out.Format.FormatName = "matroska,webm"
	out.Streams = append(out.Streams, struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
		Duration   string `json:"duration"`
	}{CodecType: "audio", CodecName: "opus", SampleRate: "48000", Channels: 1, Duration: "4.2"})

	meta, err := parseMetadata(&out)
	require.NoError(t, err)
	assert.Equal(t, "opus", meta.Codec)
	assert.Equal(t, 48000, meta.SampleRate)
	assert.InDelta(t, 4.2, meta.Duration, 1e-9)

	_, err = parseMetadata(&ffprobeOutput{})
	assert.ErrorIs(t, err, ErrInvalidAudio)
}

func TestClassifyCaptureFailure(t *testing.T) {
	assert.ErrorIs(t, classifyCaptureFailure("default: Permission denied"), ErrPermissionDenied)
	assert.ErrorIs(t, classifyCaptureFailure("Connection refused"), ErrDeviceUnavailable)
	assert.ErrorIs(t, classifyCaptureFailure(""), ErrDeviceUnavailable)
}

func TestCaptureArgs(t *testing.T) {
	args := captureArgs(CaptureOptions{InputFormat: "alsa", InputDevice: "hw:0"})
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-f alsa -i hw:0")
	assert.Contains(t, joined, "-f webm pipe:1")
	assert.Contains(t, joined, "-ar 8000 -f s16le pipe:3")
}

func TestStartCapture_MissingBinary(t *testing.T) {
	ff := New("/nonexistent/ffmpeg", "/nonexistent/ffprobe", time.Second)
	_, err := ff.StartCapture(context.Background(), DefaultCaptureOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceUnavailable)

	var procErr *ProcessingError
	assert.True(t, errors.As(err, &procErr))
	assert.Equal(t, "capture", procErr.Operation)
}

func TestGenerateWaveform_EmptyInput(t *testing.T) {
	ff := New("ffmpeg", "ffprobe", time.Second)
	_, err := ff.GenerateWaveform(context.Background(), nil, DefaultProcessingOptions())
	assert.ErrorIs(t, err, ErrInvalidAudio)

	_, err = ff.GetMetadata(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidAudio)
}

// wavFile builds a mono 16-bit WAV with a full-scale square wave
func wavFile(sampleRate, samples int) []byte {
	var buf bytes.Buffer
	dataLen := samples * 2
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	for i := 0; i < samples; i++ {
		v := int16(math.MaxInt16)
		if (i/20)%2 == 1 {
			v = -v
		}
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

// Integration test - only runs if ffmpeg/ffprobe are available
func TestGenerateWaveformWithRealAudio(t *testing.T) {
	ff := New("ffmpeg", "ffprobe", 30*time.Second)
	if err := ff.ValidateBinaries(); err != nil {
		t.Skipf("FFmpeg binaries not available: %v", err)
	}

	audio := wavFile(8000, 8000)

	waveform, err := ff.GenerateWaveform(context.Background(), audio, ProcessingOptions{WaveformResolution: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, waveform.Resolution)
	assert.InDelta(t, 1.0, waveform.Duration, 0.05)
	for _, p := range waveform.Peaks {
		assert.GreaterOrEqual(t, p, float32(0))
		assert.LessOrEqual(t, p, float32(1))
	}

	meta, err := ff.GetMetadata(context.Background(), audio)
	require.NoError(t, err)
	assert.Equal(t, 8000, meta.SampleRate)
	assert.Equal(t, 1, meta.Channels)
}
