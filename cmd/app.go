package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/killallgit/jamboard-api/api/types"
	"github.com/killallgit/jamboard-api/internal/database"
	"github.com/killallgit/jamboard-api/internal/ids"
	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/analyzer"
	"github.com/killallgit/jamboard-api/internal/services/audio"
	"github.com/killallgit/jamboard-api/internal/services/auth"
	"github.com/killallgit/jamboard-api/internal/services/board"
	"github.com/killallgit/jamboard-api/internal/services/clips"
	"github.com/killallgit/jamboard-api/internal/services/recorder"
	"github.com/killallgit/jamboard-api/internal/services/session"
	"github.com/killallgit/jamboard-api/internal/services/store"
	"github.com/killallgit/jamboard-api/internal/services/waveforms"
	"github.com/killallgit/jamboard-api/internal/services/workers"
	"github.com/killallgit/jamboard-api/pkg/config"
	"github.com/killallgit/jamboard-api/pkg/ffmpeg"
	"github.com/rs/zerolog"
)

// app is one running instance: the board and everything it was built from
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	db     *database.DB
	store  store.Store
	board  *board.Board
	tokens *auth.Service
	media  types.BinaryChecker
}

// components are the swappable backends of an instance
type components struct {
	db          *database.DB
	store       store.Store
	audio       audio.Store
	device      recorder.Device
	analyzer    analyzer.Analyzer
	peaks       waveforms.PeakGenerator
	prober      board.Prober
	media       types.BinaryChecker
	waveforms   waveforms.WaveformRepository
	processing  ffmpeg.ProcessingOptions
	sessionOpts []session.Option
}

// openApp builds an instance from the config. Tests replace it.
var openApp = newApp

// migrationModels are the tables the instance owns
func migrationModels() []any {
	return []any{&models.Record{}, &models.Waveform{}}
}

func openDatabase(cfg *config.Config, log zerolog.Logger) (*database.DB, error) {
	db, err := database.Initialize(cfg.Database.Path, database.Options{
		Verbose:           cfg.Database.Verbose,
		EnableWAL:         cfg.Database.EnableWAL,
		EnableForeignKeys: cfg.Database.EnableForeignKeys,
		Logger:            log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.AutoMigrate(migrationModels()...); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newAudioStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (audio.Store, error) {
	switch cfg.Audio.Backend {
	case "", "inline":
		return audio.NewInlineStore(), nil
	case "minio":
		s, err := audio.NewMinIOStore(ctx, cfg.Audio.MinIO, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize minio audio store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q", cfg.Audio.Backend)
	}
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	db, err := openDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	audioStore, err := newAudioStore(ctx, cfg, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	capture := ffmpeg.DefaultCaptureOptions()
	if cfg.Recorder.InputFormat != "" {
		capture.InputFormat = cfg.Recorder.InputFormat
	}
	if cfg.Recorder.InputDevice != "" {
		capture.InputDevice = cfg.Recorder.InputDevice
	}

	processing := ffmpeg.DefaultProcessingOptions()
	if cfg.Waveform.Resolution > 0 {
		processing.WaveformResolution = cfg.Waveform.Resolution
	}

	media := ffmpeg.New(cfg.Waveform.FFmpegPath, cfg.Waveform.FFprobePath, processing.MaxDuration)

	a, err := assemble(ctx, cfg, log, components{
		db:         db,
		store:      store.NewRepository(db.DB, cfg.Store.QuotaBytes),
		audio:      audioStore,
		device:     recorder.NewFFmpegDevice(ffmpeg.New(cfg.Recorder.FFmpegPath, cfg.Waveform.FFprobePath, 0), capture, log),
		analyzer:   analyzer.NewGeminiAnalyzer(cfg.Analyzer, log),
		peaks:      media,
		prober:     media,
		media:      media,
		waveforms:  waveforms.NewRepository(db.DB),
		processing: processing,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// assemble wires the services over c and restores the persisted state
func assemble(ctx context.Context, cfg *config.Config, log zerolog.Logger, c components) (*app, error) {
	gen := ids.NewGenerator()

	b := board.New(board.Deps{
		Session: session.NewService(c.store, gen, log, c.sessionOpts...),
		Clips:   clips.NewRepository(c.store, gen, log),
		Recorder: recorder.New(c.device, recorder.Options{
			ChunkInterval: cfg.Recorder.ChunkInterval,
			FrameInterval: cfg.Recorder.FrameInterval,
		}, log),
		Runner:    workers.NewRunner(cfg.Analyzer.Timeout, log),
		Audio:     c.audio,
		Analyzer:  c.analyzer,
		Waveforms: waveforms.NewService(c.waveforms, c.audio, c.peaks, c.processing, log),
		Prober:    c.prober,
		Logger:    log,
	})
	if err := b.Init(ctx); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to restore board: %w", err)
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn().Msg("auth.jwt_secret is not set, tokens will not survive a restart")
	}

	return &app{
		cfg:    cfg,
		log:    log,
		db:     c.db,
		store:  c.store,
		board:  b,
		tokens: auth.NewService(secret, cfg.Auth.TokenTTL),
		media:  c.media,
	}, nil
}

// Close stops the board and releases the database
func (a *app) Close() error {
	err := a.board.Close()
	if a.db != nil {
		err = errors.Join(err, a.db.Close())
	}
	return err
}
