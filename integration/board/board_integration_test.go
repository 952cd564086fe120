package board_test

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/killallgit/jamboard-api/internal/database"
	"github.com/killallgit/jamboard-api/internal/ids"
	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/analyzer"
	"github.com/killallgit/jamboard-api/internal/services/audio"
	"github.com/killallgit/jamboard-api/internal/services/board"
	"github.com/killallgit/jamboard-api/internal/services/clips"
	"github.com/killallgit/jamboard-api/internal/services/confirm"
	"github.com/killallgit/jamboard-api/internal/services/recorder"
	"github.com/killallgit/jamboard-api/internal/services/session"
	"github.com/killallgit/jamboard-api/internal/services/store"
	"github.com/killallgit/jamboard-api/internal/services/waveforms"
	"github.com/killallgit/jamboard-api/internal/services/workers"
	"github.com/killallgit/jamboard-api/pkg/config"
	"github.com/killallgit/jamboard-api/pkg/ffmpeg"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type countingPeaks struct {
	calls atomic.Int32
}

func (p *countingPeaks) GenerateWaveform(context.Context, []byte, ffmpeg.ProcessingOptions) (*ffmpeg.WaveformData, error) {
	p.calls.Add(1)
	return &ffmpeg.WaveformData{Peaks: []float32{0.1, 0.9, 0.4}, Duration: 3, SampleRate: 44100}, nil
}

type noDevice struct{}

func (noDevice) Open(context.Context) (recorder.Stream, error) {
	return nil, recorder.ErrDeviceUnavailable
}

// DBTestSuite opens one sqlite file and builds boards over it, the way a
// process restart would
type DBTestSuite struct {
	t      *testing.T
	dbPath string
	inline *audio.InlineStore
	peaks  *countingPeaks
}

func setupDBTestSuite(t *testing.T) *DBTestSuite {
	return &DBTestSuite{
		t:      t,
		dbPath: filepath.Join(t.TempDir(), "jamboard.db"),
		inline: audio.NewInlineStore(),
		peaks:  &countingPeaks{},
	}
}

// open migrates the database and restores a board from it
func (suite *DBTestSuite) open() (*board.Board, func()) {
	suite.t.Helper()
	log := zerolog.Nop()

	db, err := database.Initialize(suite.dbPath, database.Options{EnableWAL: true, EnableForeignKeys: true, Logger: log})
	require.NoError(suite.t, err)
	require.NoError(suite.t, db.AutoMigrate(&models.Record{}, &models.Waveform{}))

	st := store.NewRepository(db.DB, 0)
	gen := ids.NewGenerator()
	b := board.New(board.Deps{
		Session:   session.NewService(st, gen, log, session.WithBcryptCost(bcrypt.MinCost)),
		Clips:     clips.NewRepository(st, gen, log),
		Recorder:  recorder.New(noDevice{}, recorder.Options{}, log),
		Runner:    workers.NewRunner(time.Second, log),
		Audio:     suite.inline,
		Analyzer:  analyzer.NewGeminiAnalyzer(config.AnalyzerConfig{}, log),
		Waveforms: waveforms.NewService(waveforms.NewRepository(db.DB), suite.inline, suite.peaks, ffmpeg.DefaultProcessingOptions(), log),
		Logger:    log,
	})
	require.NoError(suite.t, b.Init(context.Background()))

	return b, func() {
		assert.NoError(suite.t, b.Close())
		assert.NoError(suite.t, db.Close())
	}
}

func TestBoardSurvivesRestart(t *testing.T) {
	suite := setupDBTestSuite(t)
	ctx := context.Background()

	b, closeBoard := suite.open()
	user, err := b.SignUp(ctx, "Ava", "ava@example.com", "pw")
	require.NoError(t, err)
	clip, err := b.CreateClip(ctx, []byte("riff"), "audio/webm", 2.5)
	require.NoError(t, err)
	_, err = b.AddComment(ctx, clip.ID, "keeper")
	require.NoError(t, err)
	closeBoard()

	b, closeBoard = suite.open()
	defer closeBoard()

	current, err := b.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)

	restored, err := b.GetClip(clip.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, restored.Duration)
	require.Len(t, restored.Comments, 1)
	assert.Equal(t, "keeper", restored.Comments[0].Text)

	mine := b.ListClips("", clips.TabMyClips)
	require.Len(t, mine, 1)
	assert.Equal(t, clip.ID, mine[0].ID)
}

func TestLogoutSurvivesRestart(t *testing.T) {
	suite := setupDBTestSuite(t)
	ctx := context.Background()

	b, closeBoard := suite.open()
	_, err := b.SignUp(ctx, "Ava", "ava@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, b.LogOut(ctx))
	closeBoard()

	b, closeBoard = suite.open()
	defer closeBoard()

	_, err = b.CurrentUser()
	assert.ErrorIs(t, err, session.ErrNoSession)

	_, err = b.LogIn(ctx, "ava@example.com", "pw")
	assert.NoError(t, err)
}

func TestWaveformCachedInDatabase(t *testing.T) {
	suite := setupDBTestSuite(t)
	ctx := context.Background()

	b, closeBoard := suite.open()
	_, err := b.SignUp(ctx, "Ava", "ava@example.com", "pw")
	require.NoError(t, err)
	clip, err := b.CreateClip(ctx, []byte("riff"), "audio/webm", 3)
	require.NoError(t, err)

	w, err := b.Waveform(ctx, clip.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, w.Resolution)
	closeBoard()

	// A fresh board reads the cached row instead of decoding again
	b, closeBoard = suite.open()
	w, err = b.Waveform(ctx, clip.ID)
	require.NoError(t, err)
	peaks, err := w.Peaks()
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.9, 0.4}, peaks)
	assert.Equal(t, int32(1), suite.peaks.calls.Load())

	require.NoError(t, b.DeleteClip(ctx, clip.ID, confirm.Static(true)))
	closeBoard()

	b, closeBoard = suite.open()
	defer closeBoard()
	_, err = b.Waveform(ctx, clip.ID)
	assert.ErrorIs(t, err, clips.ErrClipNotFound)
}

func TestAnalyzeWithoutKeyFallsBack(t *testing.T) {
	suite := setupDBTestSuite(t)
	ctx := context.Background()

	b, closeBoard := suite.open()
	defer closeBoard()

	_, err := b.SignUp(ctx, "Ava", "ava@example.com", "pw")
	require.NoError(t, err)
	clip, err := b.CreateClip(ctx, []byte("riff"), "audio/webm", 1)
	require.NoError(t, err)

	_, err = b.Analyze(ctx, clip.ID)
	require.NoError(t, err)
	require.NoError(t, b.WaitAnalysis(ctx, clip.ID))

	analyzed, err := b.GetClip(clip.ID)
	require.NoError(t, err)
	assert.False(t, analyzed.IsAnalyzing)
	assert.Equal(t, analyzer.MissingKeyResult().Description, analyzed.AIAnalysis)
}
