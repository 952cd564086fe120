package cmd

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/audio"
	"github.com/killallgit/jamboard-api/internal/services/recorder"
	"github.com/killallgit/jamboard-api/internal/services/session"
	"github.com/killallgit/jamboard-api/internal/services/store"
	"github.com/killallgit/jamboard-api/internal/services/waveforms"
	"github.com/killallgit/jamboard-api/pkg/config"
	"github.com/killallgit/jamboard-api/pkg/ffmpeg"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type fixedAnalyzer struct{}

func (fixedAnalyzer) Analyze(context.Context, audio.Payload) models.Analysis {
	return models.Analysis{Tags: []string{"Lofi"}, Description: "Warm keys."}
}

type micStream struct {
	mu   sync.Mutex
	data bytes.Buffer
}

func (s *micStream) MimeType() string    { return "audio/webm" }
func (s *micStream) Samples([]int16) int { return 0 }
func (s *micStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.WriteString("take")
	return nil
}
func (s *micStream) Flush() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := bytes.Clone(s.data.Bytes())
	s.data.Reset()
	return out
}

type mic struct{}

func (mic) Open(context.Context) (recorder.Stream, error) {
	return &micStream{}, nil
}

type flatPeaks struct{}

func (flatPeaks) GenerateWaveform(context.Context, []byte, ffmpeg.ProcessingOptions) (*ffmpeg.WaveformData, error) {
	return &ffmpeg.WaveformData{Peaks: []float32{0.25, 0.5}, Duration: 2}, nil
}

// fixedProber reports every upload as nine seconds long
type fixedProber struct{}

func (fixedProber) GetMetadata(context.Context, []byte) (*ffmpeg.AudioMetadata, error) {
	return &ffmpeg.AudioMetadata{Duration: 9, Codec: "opus"}, nil
}

// useTestInstance swaps config loading and app construction for in-memory
// fakes. Every command run sees the same store, like separate processes
// sharing one database file.
func useTestInstance(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Logging: config.LoggingConfig{Level: "error"},
		Server:  config.ServerConfig{Host: "127.0.0.1"},
	}
	st := store.NewMemoryStore(0)
	inline := audio.NewInlineStore()
	cache := waveforms.NewMemoryRepository()

	prevLoad, prevOpen := loadConfig, openApp
	loadConfig = func() (*config.Config, error) { return cfg, nil }
	openApp = func(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
		return assemble(ctx, cfg, log, components{
			store:       st,
			audio:       inline,
			device:      mic{},
			analyzer:    fixedAnalyzer{},
			peaks:       flatPeaks{},
			prober:      fixedProber{},
			waveforms:   cache,
			processing:  ffmpeg.DefaultProcessingOptions(),
			sessionOpts: []session.Option{session.WithBcryptCost(bcrypt.MinCost)},
		})
	}
	t.Cleanup(func() {
		loadConfig, openApp = prevLoad, prevOpen
	})
	return cfg
}

// run executes one command line and returns stdout
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return runContext(context.Background(), t, stdin, args...)
}

func runContext(ctx context.Context, t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}
