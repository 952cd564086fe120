package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// stopGrace is how long a capture gets to finalize its container after SIGINT
const stopGrace = 5 * time.Second

// Capture is a running microphone capture. Encoded carries the compressed
// webm/opus stream, PCM carries a mono s16le tap at AnalysisSampleRate.
// Both readers must be drained, otherwise ffmpeg stalls on a full pipe.
type Capture struct {
	Encoded io.Reader
	PCM     io.Reader

	cmd      *exec.Cmd
	pipes    []*os.File
	stderr   *lockedBuffer
	done     chan struct{}
	waitErr  error
	stopOnce sync.Once
	stopErr  error
}

// captureArgs builds the ffmpeg command line: encoded audio on fd 1, PCM tap on fd 3
func captureArgs(opts CaptureOptions) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-f", opts.InputFormat,
		"-i", opts.InputDevice,
		"-map", "0:a", "-c:a", "libopus", "-f", "webm", "pipe:1",
		"-map", "0:a", "-ac", "1", "-ar", strconv.Itoa(AnalysisSampleRate), "-f", "s16le", "pipe:3",
	}
}

// StartCapture launches ffmpeg against the configured input and waits until
// the device produces its first samples. A process that exits before that is
// reported as ErrPermissionDenied or ErrDeviceUnavailable.
func (f *FFmpeg) StartCapture(ctx context.Context, opts CaptureOptions) (*Capture, error) {
	defaults := DefaultCaptureOptions()
	if opts.InputFormat == "" {
		opts.InputFormat = defaults.InputFormat
	}
	if opts.InputDevice == "" {
		opts.InputDevice = defaults.InputDevice
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = defaults.ReadyTimeout
	}

	// Plain os pipes rather than StdoutPipe: Wait runs concurrently with the
	// readers and must not close them under us.
	encRead, encWrite, err := os.Pipe()
	if err != nil {
		return nil, NewProcessingError("capture", opts.InputDevice, err, "")
	}
	pcmRead, pcmWrite, err := os.Pipe()
	if err != nil {
		encRead.Close()
		encWrite.Close()
		return nil, NewProcessingError("capture", opts.InputDevice, err, "")
	}

	cmd := exec.Command(f.ffmpegPath, captureArgs(opts)...)
	stderr := &lockedBuffer{}
	cmd.Stdout = encWrite
	cmd.Stderr = stderr
	cmd.ExtraFiles = []*os.File{pcmWrite} // becomes fd 3 in the child

	startErr := cmd.Start()
	// The parent's write ends must go so the readers see EOF on exit
	encWrite.Close()
	pcmWrite.Close()
	if startErr != nil {
		encRead.Close()
		pcmRead.Close()
		cause := ErrDeviceUnavailable
		if errors.Is(startErr, exec.ErrNotFound) || errors.Is(startErr, os.ErrNotExist) {
			cause = fmt.Errorf("%w: %w", ErrDeviceUnavailable, ErrFFmpegNotFound)
		}
		return nil, NewProcessingError("capture", opts.InputDevice, cause, startErr.Error())
	}

	pcm := bufio.NewReader(pcmRead)
	c := &Capture{
		Encoded: encRead,
		PCM:     pcm,
		cmd:     cmd,
		pipes:   []*os.File{encRead, pcmRead},
		stderr:  stderr,
		done:    make(chan struct{}),
	}
	go func() {
		c.waitErr = cmd.Wait()
		close(c.done)
	}()

	ready := make(chan error, 1)
	go func() {
		_, err := pcm.Peek(1)
		ready <- err
	}()

	timer := time.NewTimer(opts.ReadyTimeout)
	defer timer.Stop()

	var failure error
	select {
	case err := <-ready:
		if err == nil {
			return c, nil
		}
		<-c.done
		failure = classifyCaptureFailure(stderr.String())
	case <-c.done:
		failure = classifyCaptureFailure(stderr.String())
	case <-timer.C:
		c.kill()
		failure = fmt.Errorf("%w: no samples within %s", ErrDeviceUnavailable, opts.ReadyTimeout)
	case <-ctx.Done():
		c.kill()
		c.Close()
		return nil, ctx.Err()
	}

	c.Close()
	return nil, NewProcessingError("capture", opts.InputDevice, failure, stderr.String())
}

// Stop asks ffmpeg to finalize the stream and waits for it to exit.
// It is safe to call more than once; only the first call signals the process.
// Readers return io.EOF once the remaining output has been consumed.
func (c *Capture) Stop() error {
	c.stopOnce.Do(func() {
		select {
		case <-c.done:
		default:
			if err := c.cmd.Process.Signal(os.Interrupt); err != nil {
				_ = c.cmd.Process.Kill()
			}
			select {
			case <-c.done:
			case <-time.After(stopGrace):
				_ = c.cmd.Process.Kill()
				<-c.done
			}
		}
		// A non-zero exit after the interrupt is expected
		var exitErr *exec.ExitError
		if c.waitErr != nil && !errors.As(c.waitErr, &exitErr) {
			c.stopErr = NewProcessingError("capture", "stop", c.waitErr, c.stderr.String())
		}
	})
	return c.stopErr
}

// Close releases the read ends of both pipes. Call after the readers are drained.
func (c *Capture) Close() error {
	var errs []error
	for _, p := range c.pipes {
		if err := p.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Done is closed when the ffmpeg process has exited
func (c *Capture) Done() <-chan struct{} {
	return c.done
}

func (c *Capture) kill() {
	select {
	case <-c.done:
	default:
		_ = c.cmd.Process.Kill()
		<-c.done
	}
}

// lockedBuffer collects stderr while the process runs
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
