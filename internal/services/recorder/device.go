package recorder

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/killallgit/jamboard-api/pkg/ffmpeg"
	"github.com/rs/zerolog"
)

// Device opens the microphone. Open fails with ErrPermissionDenied or
// ErrDeviceUnavailable when capture cannot start.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open capture session
type Stream interface {
	// MimeType of the encoded bytes
	MimeType() string

	// Flush returns the encoded bytes produced since the previous call
	Flush() []byte

	// Samples copies the most recent PCM samples into dst, oldest first,
	// and returns how many were written
	Samples(dst []int16) int

	// Close releases the device. Encoded bytes produced during shutdown
	// remain available to Flush.
	Close() error
}

// FFmpegDevice captures from the host input through an ffmpeg process
type FFmpegDevice struct {
	ffmpeg  *ffmpeg.FFmpeg
	options ffmpeg.CaptureOptions
	log     zerolog.Logger
}

// NewFFmpegDevice creates a device for the given input
func NewFFmpegDevice(f *ffmpeg.FFmpeg, options ffmpeg.CaptureOptions, log zerolog.Logger) *FFmpegDevice {
	return &FFmpegDevice{
		ffmpeg:  f,
		options: options,
		log:     log.With().Str("component", "device").Str("input", options.InputDevice).Logger(),
	}
}

var _ Device = (*FFmpegDevice)(nil)

// Open starts ffmpeg and begins draining both of its outputs
func (d *FFmpegDevice) Open(ctx context.Context) (Stream, error) {
	capture, err := d.ffmpeg.StartCapture(ctx, d.options)
	if err != nil {
		return nil, err
	}

	s := &ffmpegStream{capture: capture, log: d.log}
	s.wg.Add(2)
	go s.drainEncoded()
	go s.drainPCM()
	d.log.Debug().Msg("capture started")
	return s, nil
}

// ffmpegStream buffers encoded output and keeps a ring of recent PCM samples
type ffmpegStream struct {
	capture *ffmpeg.Capture
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu      sync.Mutex
	pending bytes.Buffer
	ring    [FFTSize]int16
	next    int
	filled  bool

	closeOnce sync.Once
	closeErr  error
}

func (s *ffmpegStream) MimeType() string {
	return ffmpeg.CaptureMimeType
}

func (s *ffmpegStream) Flush() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending.Len() == 0 {
		return nil
	}
	out := bytes.Clone(s.pending.Bytes())
	s.pending.Reset()
	return out
}

func (s *ffmpegStream) Samples(dst []int16) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.next
	start := 0
	if s.filled {
		count = FFTSize
		start = s.next
	}
	if count > len(dst) {
		start = (start + count - len(dst)) % FFTSize
		count = len(dst)
	}
	for i := 0; i < count; i++ {
		dst[i] = s.ring[(start+i)%FFTSize]
	}
	return count
}

// Close stops ffmpeg, waits for both drains to reach EOF and closes the pipes
func (s *ffmpegStream) Close() error {
	s.closeOnce.Do(func() {
		stopErr := s.capture.Stop()
		s.wg.Wait()
		s.closeErr = errors.Join(stopErr, s.capture.Close())
		s.log.Debug().Err(s.closeErr).Msg("capture released")
	})
	return s.closeErr
}

func (s *ffmpegStream) drainEncoded() {
	defer s.wg.Done()
	buf := make([]byte, 32*1024)
	for {
		n, err := s.capture.Encoded.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.pending.Write(buf[:n])
			s.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Warn().Err(err).Msg("encoded stream read failed")
			}
			return
		}
	}
}

func (s *ffmpegStream) drainPCM() {
	defer s.wg.Done()
	buf := make([]byte, 2*FFTSize)
	var carry []byte
	for {
		n, err := s.capture.PCM.Read(buf)
		if n > 0 {
			data := append(carry, buf[:n]...)
			whole := len(data) &^ 1
			s.push(data[:whole])
			carry = append([]byte(nil), data[whole:]...)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Warn().Err(err).Msg("pcm stream read failed")
			}
			return
		}
	}
}

func (s *ffmpegStream) push(pcm []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i+1 < len(pcm); i += 2 {
		s.ring[s.next] = int16(binary.LittleEndian.Uint16(pcm[i:]))
		s.next = (s.next + 1) % FFTSize
		if s.next == 0 {
			s.filled = true
		}
	}
}
