package recorder

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State of the recorder. Paused exists for completeness; nothing enters it.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
)

// Default loop intervals
const (
	DefaultChunkInterval = 100 * time.Millisecond
	DefaultFrameInterval = 16 * time.Millisecond
)

// Blob is a finished recording
type Blob struct {
	Data     []byte
	MimeType string
}

// Snapshot is what a polling UI shows
type Snapshot struct {
	State   State         `json:"state"`
	Elapsed time.Duration `json:"-"`
	Seconds float64       `json:"elapsed"`
	Levels  []float64     `json:"levels"`
}

// Options configures the capture loops
type Options struct {
	ChunkInterval time.Duration
	FrameInterval time.Duration
	Clock         func() time.Time
}

// Recorder owns at most one capture session. The chunk loop collects encoded
// audio and the frame loop samples the spectrum; both stop exactly once per
// session and never outlive the recorder. A new session cannot open the
// device until the previous one has released it.
type Recorder struct {
	mu        sync.Mutex
	device    Device
	opts      Options
	log       zerolog.Logger
	current   *session
	releasing chan struct{} // closed once the detached session let go of the device
	closed    bool
}

type session struct {
	stream  Stream
	started time.Time
	cancel  context.CancelFunc
	loops   sync.WaitGroup
	release sync.Once

	mu     sync.Mutex
	chunks [][]byte
	levels []float64
}

// New creates an idle recorder bound to device
func New(device Device, opts Options, log zerolog.Logger) *Recorder {
	if opts.ChunkInterval <= 0 {
		opts.ChunkInterval = DefaultChunkInterval
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Recorder{
		device: device,
		opts:   opts,
		log:    log.With().Str("component", "recorder").Logger(),
	}
}

// Start opens the device and launches both loops. Device errors leave the
// recorder idle. A device still being released by the last session is
// waited for.
func (r *Recorder) Start(ctx context.Context) error {
	if err := r.lockReleased(ctx); err != nil {
		return err
	}
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.current != nil {
		return ErrAlreadyRecording
	}

	stream, err := r.device.Open(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("could not access microphone")
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s := &session{
		stream:  stream,
		started: r.opts.Clock(),
		cancel:  cancel,
		levels:  IdleLevels(),
	}
	s.loops.Add(2)
	go r.chunkLoop(loopCtx, s)
	go r.frameLoop(loopCtx, s)
	r.current = s

	r.log.Info().Msg("recording started")
	return nil
}

// Stop ends the session and returns the recording and its length in
// seconds. Stopping an idle recorder returns a nil blob and no error.
func (r *Recorder) Stop() (*Blob, float64, error) {
	r.mu.Lock()
	s, done := r.detach()
	r.mu.Unlock()

	if s == nil {
		return nil, 0, nil
	}

	duration := r.opts.Clock().Sub(s.started).Seconds()
	err := r.teardown(s)
	r.released(done)

	// Bytes flushed while the device shut down belong to the recording
	s.mu.Lock()
	if tail := s.stream.Flush(); len(tail) > 0 {
		s.chunks = append(s.chunks, tail)
	}
	data := bytes.Join(s.chunks, nil)
	s.mu.Unlock()

	r.log.Info().Float64("duration", duration).Int("bytes", len(data)).Msg("recording stopped")
	return &Blob{Data: data, MimeType: s.stream.MimeType()}, duration, err
}

// Cancel discards the active session, if any
func (r *Recorder) Cancel() {
	r.mu.Lock()
	s, done := r.detach()
	r.mu.Unlock()

	if s != nil {
		r.discard(s, done)
	}
}

// Close cancels any session and refuses further starts. It returns once the
// device is released, including by a Stop still in progress. It is idempotent.
func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	s, done := r.detach()
	pending := r.releasing
	r.mu.Unlock()

	if s != nil {
		r.discard(s, done)
	}
	if pending != nil {
		<-pending
	}
	return nil
}

// Snapshot reports the state, elapsed time and current levels
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	s := r.current
	r.mu.Unlock()

	if s == nil {
		return Snapshot{State: StateIdle, Levels: IdleLevels()}
	}
	elapsed := r.opts.Clock().Sub(s.started)
	s.mu.Lock()
	levels := append([]float64(nil), s.levels...)
	s.mu.Unlock()
	return Snapshot{State: StateRecording, Elapsed: elapsed, Seconds: elapsed.Seconds(), Levels: levels}
}

// Recording reports whether a session is active
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

// lockReleased acquires mu once no detached session still holds the device
func (r *Recorder) lockReleased(ctx context.Context) error {
	r.mu.Lock()
	for r.releasing != nil {
		done := r.releasing
		r.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		r.mu.Lock()
	}
	return nil
}

// detach takes the active session and marks its release in flight; callers hold mu
func (r *Recorder) detach() (*session, chan struct{}) {
	s := r.current
	if s == nil {
		return nil, nil
	}
	r.current = nil
	done := make(chan struct{})
	r.releasing = done
	return s, done
}

// released ends the in-flight release started by detach
func (r *Recorder) released(done chan struct{}) {
	r.mu.Lock()
	if r.releasing == done {
		r.releasing = nil
	}
	r.mu.Unlock()
	close(done)
}

func (r *Recorder) discard(s *session, done chan struct{}) {
	err := r.teardown(s)
	r.released(done)
	if err != nil {
		r.log.Warn().Err(err).Msg("device release failed")
	}
	r.log.Info().Msg("recording cancelled")
}

// teardown stops the loops and releases the device exactly once
func (r *Recorder) teardown(s *session) error {
	s.cancel()
	s.loops.Wait()
	var err error
	s.release.Do(func() {
		err = s.stream.Close()
	})
	return err
}

func (r *Recorder) chunkLoop(ctx context.Context, s *session) {
	defer s.loops.Done()
	ticker := time.NewTicker(r.opts.ChunkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if chunk := s.stream.Flush(); len(chunk) > 0 {
				s.mu.Lock()
				s.chunks = append(s.chunks, chunk)
				s.mu.Unlock()
			}
		}
	}
}

func (r *Recorder) frameLoop(ctx context.Context, s *session) {
	defer s.loops.Done()
	ticker := time.NewTicker(r.opts.FrameInterval)
	defer ticker.Stop()

	analyser := NewAnalyser()
	raw := make([]int16, FFTSize)
	samples := make([]float64, 0, FFTSize)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.stream.Samples(raw)
			samples = normalize(samples, raw[:n])
			levels := Levels(analyser.ByteFrequencyData(samples))
			s.mu.Lock()
			s.levels = levels
			s.mu.Unlock()
		}
	}
}
