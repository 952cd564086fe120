package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/api/types"
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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixedAnalyzer struct{}

func (fixedAnalyzer) Analyze(context.Context, audio.Payload) models.Analysis {
	return models.Analysis{Tags: []string{"Lofi"}, Description: "Warm keys."}
}

var _ analyzer.Analyzer = fixedAnalyzer{}

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

type mic struct{ err error }

func (m mic) Open(context.Context) (recorder.Stream, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &micStream{}, nil
}

type flatPeaks struct{}

func (flatPeaks) GenerateWaveform(context.Context, []byte, ffmpeg.ProcessingOptions) (*ffmpeg.WaveformData, error) {
	return &ffmpeg.WaveformData{Peaks: []float32{0.25, 0.5}, Duration: 2}, nil
}

type testServer struct {
	engine *gin.Engine
	board  *board.Board
	store  store.Store
}

func newTestServer(t *testing.T, device recorder.Device, cfg *config.Config) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zerolog.Nop()
	st := store.NewMemoryStore(0)
	gen := ids.NewGeneratorWithClock(func() time.Time { return time.UnixMilli(1700000000000) })
	inline := audio.NewInlineStore()
	if device == nil {
		device = mic{}
	}

	b := board.New(board.Deps{
		Session:   session.NewService(st, gen, log, session.WithBcryptCost(bcrypt.MinCost)),
		Clips:     clips.NewRepository(st, gen, log),
		Recorder:  recorder.New(device, recorder.Options{ChunkInterval: time.Millisecond, FrameInterval: time.Millisecond}, log),
		Runner:    workers.NewRunner(0, log),
		Audio:     inline,
		Analyzer:  fixedAnalyzer{},
		Waveforms: waveforms.NewService(waveforms.NewMemoryRepository(), inline, flatPeaks{}, ffmpeg.DefaultProcessingOptions(), log),
		Logger:    log,
	})
	require.NoError(t, b.Init(context.Background()))
	t.Cleanup(func() { b.Close() })

	if cfg == nil {
		cfg = &config.Config{Security: config.SecurityConfig{EnableCORS: true}}
	}
	server := NewServer(":0", cfg.Server)
	server.SetDependencies(&types.Dependencies{
		Board:  b,
		Tokens: auth.NewService("test-secret", time.Hour),
		Store:  st,
		Config: cfg,
		Logger: log,
	})
	require.NoError(t, server.Initialize())
	t.Cleanup(func() { server.Shutdown(context.Background()) })

	return &testServer{engine: server.Engine(), board: b, store: st}
}

func (s *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return s.do(t, method, path, token, body, "application/json")
}

func (s *testServer) signUp(t *testing.T, name, email string) types.AuthResponse {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "pw",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp types.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *testServer) logIn(t *testing.T, email string) string {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp types.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func (s *testServer) upload(t *testing.T, token string) models.Clip {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/clips?duration=2.5", token, bytes.NewReader([]byte("webm-bytes")), "audio/webm")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var clip models.Clip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &clip))
	return clip
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, nil, nil)

	signed := s.signUp(t, "Sam Lee", "sam@example.com")
	assert.NotEmpty(t, signed.Token)
	assert.Equal(t, "Sam Lee", signed.User.Name)

	w := s.doJSON(t, http.MethodGet, "/api/v1/me", signed.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, signed.User, me)

	assert.Equal(t, http.StatusUnauthorized, s.doJSON(t, http.MethodGet, "/api/v1/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.doJSON(t, http.MethodGet, "/api/v1/me", "garbage", nil).Code)

	w = s.doJSON(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"name": "Other", "email": "sam@example.com", "password": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_EXISTS", decodeError(t, w).Error)

	w = s.doJSON(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"name": "", "email": "a@example.com", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "sam@example.com", "password": "PW"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, w).Error)

	// A fresh login starts a new session; the old token no longer works
	fresh := s.logIn(t, "sam@example.com")
	assert.Equal(t, http.StatusUnauthorized, s.doJSON(t, http.MethodGet, "/api/v1/me", signed.Token, nil).Code)
	assert.Equal(t, http.StatusOK, s.doJSON(t, http.MethodGet, "/api/v1/me", fresh, nil).Code)

	assert.Equal(t, http.StatusOK, s.doJSON(t, http.MethodPost, "/api/v1/auth/logout", fresh, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.doJSON(t, http.MethodGet, "/api/v1/me", fresh, nil).Code)
}

func TestUpdateProfileCascadesToClips(t *testing.T) {
	s := newTestServer(t, nil, nil)
	signed := s.signUp(t, "Sam", "sam@example.com")
	clip := s.upload(t, signed.Token)

	w := s.doJSON(t, http.MethodPut, "/api/v1/me", signed.Token, map[string]string{"name": "Samantha"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.doJSON(t, http.MethodGet, "/api/v1/clips/"+clip.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Clip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Samantha", got.User.Name)
}

func TestClipLifecycle(t *testing.T) {
	s := newTestServer(t, nil, nil)
	owner := s.signUp(t, "Sam", "sam@example.com")

	assert.Equal(t, http.StatusUnauthorized,
		s.do(t, http.MethodPost, "/api/v1/clips", "", bytes.NewReader([]byte("x")), "audio/webm").Code)

	clip := s.upload(t, owner.Token)
	assert.Equal(t, "New Idea #3", clip.Title)
	assert.Equal(t, []string{"New", "Untagged"}, clip.Tags)
	assert.Equal(t, 2.5, clip.Duration)
	assert.Equal(t, owner.User.ID, clip.UserID)

	w := s.doJSON(t, http.MethodGet, "/api/v1/clips?tab=My+Clips", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list types.ClipsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, clip.ID, list.Clips[0].ID)

	w = s.doJSON(t, http.MethodPatch, "/api/v1/clips/"+clip.ID, owner.Token, map[string]any{
		"title":    "Night Riff",
		"category": "Riffs",
		"tags":     " Lofi, ,Chill ",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var edited models.Clip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &edited))
	assert.Equal(t, "Night Riff", edited.Title)
	assert.Equal(t, models.CategoryRiffs, edited.Category)
	assert.Equal(t, []string{"Lofi", "Chill"}, edited.Tags)

	w = s.doJSON(t, http.MethodPatch, "/api/v1/clips/"+clip.ID, owner.Token, map[string]any{"category": "Jazz"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/clips/"+clip.ID+"/audio", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "webm-bytes", w.Body.String())
	assert.Equal(t, "audio/webm", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Night_Riff.webm"`, w.Header().Get("Content-Disposition"))

	w = s.doJSON(t, http.MethodGet, "/api/v1/clips/"+clip.ID+"/waveform", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var wf types.WaveformResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wf))
	assert.Equal(t, []float32{0.25, 0.5}, wf.Peaks)

	// Someone else cannot edit or delete it
	s.signUp(t, "Kim", "kim@example.com")
	other := s.logIn(t, "kim@example.com")
	assert.Equal(t, http.StatusForbidden,
		s.doJSON(t, http.MethodPatch, "/api/v1/clips/"+clip.ID, other, map[string]any{"title": "Mine"}).Code)
	assert.Equal(t, http.StatusForbidden,
		s.doJSON(t, http.MethodDelete, "/api/v1/clips/"+clip.ID+"?confirm=true", other, nil).Code)

	ownerToken := s.logIn(t, "sam@example.com")

	w = s.doJSON(t, http.MethodDelete, "/api/v1/clips/"+clip.ID, ownerToken, nil)
	require.Equal(t, http.StatusPreconditionRequired, w.Code)
	prompt := decodeError(t, w)
	assert.Equal(t, "CONFIRMATION_REQUIRED", prompt.Error)
	assert.Equal(t, "Delete Clip", prompt.Details["title"])
	assert.Equal(t, "Are you sure you want to delete this clip? This action is irreversible.", prompt.Details["message"])
	assert.Equal(t, http.StatusOK, s.doJSON(t, http.MethodGet, "/api/v1/clips/"+clip.ID, "", nil).Code)

	w = s.doJSON(t, http.MethodDelete, "/api/v1/clips/"+clip.ID+"?confirm=true", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusNotFound, s.doJSON(t, http.MethodGet, "/api/v1/clips/"+clip.ID, "", nil).Code)
}

func TestCreateClipMultipart(t *testing.T) {
	s := newTestServer(t, nil, nil)
	owner := s.signUp(t, "Sam", "sam@example.com")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("duration", "4"))
	part, err := mw.CreateFormFile("audio", "take.webm")
	require.NoError(t, err)
	_, err = part.Write([]byte("form-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := s.do(t, http.MethodPost, "/api/v1/clips", owner.Token, &body, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var clip models.Clip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &clip))
	assert.Equal(t, 4.0, clip.Duration)
	assert.Equal(t, "audio/webm", clip.MimeType)

	for _, d := range []string{"abc", "NaN", "Inf", "-Inf", "-1"} {
		w = s.do(t, http.MethodPost, "/api/v1/clips?duration="+d, owner.Token, bytes.NewReader([]byte("x")), "audio/webm")
		assert.Equal(t, http.StatusBadRequest, w.Code, "duration %s", d)
	}

	w = s.doJSON(t, http.MethodPatch, "/api/v1/clips/"+clip.ID, owner.Token, map[string]any{"title": "After Bad Uploads"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stored []models.Clip
	raw, ok, err := s.store.Get(context.Background(), store.KeyClips)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 3)
	assert.Equal(t, "After Bad Uploads", stored[0].Title)

	w = s.do(t, http.MethodPost, "/api/v1/clips", owner.Token, bytes.NewReader(nil), "audio/webm")
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty recordings are rejected")
}

func TestPatchClipTags(t *testing.T) {
	s := newTestServer(t, nil, nil)
	owner := s.signUp(t, "Sam", "sam@example.com")
	clip := s.upload(t, owner.Token)

	tests := []struct {
		name string
		tags any
		want []string
	}{
		{"list entries are kept whole", []string{"Bass, Riff", " Lofi ", ""}, []string{"Bass, Riff", "Lofi"}},
		{"string is split on commas", "Bass, Riff", []string{"Bass", "Riff"}},
		{"empty list clears", []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.doJSON(t, http.MethodPatch, "/api/v1/clips/"+clip.ID, owner.Token, map[string]any{"tags": tt.tags})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var edited models.Clip
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &edited))
			assert.Equal(t, tt.want, edited.Tags)
		})
	}

	w := s.doJSON(t, http.MethodPatch, "/api/v1/clips/"+clip.ID, owner.Token, map[string]any{"tags": 42})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComments(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.signUp(t, "Sam", "sam@example.com")
	s.signUp(t, "Kim", "kim@example.com")
	kim := s.logIn(t, "kim@example.com")

	assert.Equal(t, http.StatusUnauthorized,
		s.doJSON(t, http.MethodPost, "/api/v1/clips/c1/comments", "", map[string]string{"text": "hi"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		s.doJSON(t, http.MethodPost, "/api/v1/clips/c1/comments", kim, map[string]string{"text": "   "}).Code)
	assert.Equal(t, http.StatusNotFound,
		s.doJSON(t, http.MethodPost, "/api/v1/clips/nope/comments", kim, map[string]string{"text": "hi"}).Code)

	w := s.doJSON(t, http.MethodPost, "/api/v1/clips/c1/comments", kim, map[string]string{"text": "Great groove"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var comment models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))
	assert.Equal(t, "Kim", comment.UserName)

	// The demo comment belongs to someone else
	assert.Equal(t, http.StatusForbidden,
		s.doJSON(t, http.MethodDelete, "/api/v1/clips/c1/comments/cm1?confirm=true", kim, nil).Code)

	w = s.doJSON(t, http.MethodDelete, "/api/v1/clips/c1/comments/"+comment.ID, kim, nil)
	require.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Equal(t, "Delete Comment", decodeError(t, w).Details["title"])

	w = s.doJSON(t, http.MethodDelete, "/api/v1/clips/c1/comments/"+comment.ID+"?confirm=true", kim, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	clip, err := s.board.GetClip("c1")
	require.NoError(t, err)
	assert.Equal(t, -1, clip.FindComment(comment.ID))
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t, nil, nil)
	owner := s.signUp(t, "Sam", "sam@example.com")

	w := s.doJSON(t, http.MethodPost, "/api/v1/clips/c1/analyze", owner.Token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "demo clips only have remote audio")
	clip, err := s.board.GetClip("c1")
	require.NoError(t, err)
	assert.False(t, clip.IsAnalyzing)

	own := s.upload(t, owner.Token)
	w = s.doJSON(t, http.MethodPost, "/api/v1/clips/"+own.ID+"/analyze", owner.Token, nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	require.NoError(t, s.board.WaitAnalysis(context.Background(), own.ID))
	clip, err = s.board.GetClip(own.ID)
	require.NoError(t, err)
	assert.False(t, clip.IsAnalyzing)
	assert.Equal(t, []string{"New", "Lofi"}, clip.Tags)
	assert.Equal(t, "Warm keys.", clip.AIAnalysis)
}

func TestRecorderRoutes(t *testing.T) {
	s := newTestServer(t, nil, nil)
	owner := s.signUp(t, "Sam", "sam@example.com")

	assert.Equal(t, http.StatusUnauthorized, s.doJSON(t, http.MethodPost, "/api/v1/recorder/start", "", nil).Code)

	w := s.doJSON(t, http.MethodPost, "/api/v1/recorder/stop", owner.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.doJSON(t, http.MethodPost, "/api/v1/recorder/start", owner.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.doJSON(t, http.MethodPost, "/api/v1/recorder/start", owner.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.doJSON(t, http.MethodGet, "/api/v1/recorder", owner.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "recording", status["state"])
	assert.Len(t, status["levels"], recorder.LevelCount)

	w = s.doJSON(t, http.MethodPost, "/api/v1/recorder/stop", owner.Token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var clip models.Clip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &clip))
	assert.Equal(t, "New Idea #3", clip.Title)

	_, payload, err := s.board.ExportClip(context.Background(), clip.ID)
	require.NoError(t, err)
	assert.Equal(t, "take", string(payload.Data))
}

func TestRecorderPermissionDenied(t *testing.T) {
	s := newTestServer(t, mic{err: recorder.ErrPermissionDenied}, nil)
	owner := s.signUp(t, "Sam", "sam@example.com")

	w := s.doJSON(t, http.MethodPost, "/api/v1/recorder/start", owner.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "PERMISSION_DENIED", decodeError(t, w).Error)
	assert.Equal(t, recorder.StateIdle, s.board.RecorderStatus().State)
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.doJSON(t, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cats types.CategoriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	assert.Equal(t, models.Categories(), cats.Categories)
	assert.Equal(t, clips.Tabs(), cats.Tabs)

	w = s.doJSON(t, http.MethodGet, "/api/v1/clips?q=riff", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list types.ClipsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "c2", list.Clips[0].ID)

	assert.Equal(t, http.StatusOK, s.doJSON(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.doJSON(t, http.MethodGet, "/version", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.doJSON(t, http.MethodGet, "/nope", "", nil).Code)
}

func TestAnalyzeRateLimit(t *testing.T) {
	cfg := &config.Config{RateLimiting: config.RateLimitConfig{
		Enabled:      true,
		RequestsPerS: 100,
		Burst:        100,
		AnalyzeRPS:   0.001,
		AnalyzeBurst: 1,
	}}
	s := newTestServer(t, nil, cfg)
	owner := s.signUp(t, "Sam", "sam@example.com")
	own := s.upload(t, owner.Token)

	first := s.doJSON(t, http.MethodPost, "/api/v1/clips/"+own.ID+"/analyze", owner.Token, nil)
	assert.Equal(t, http.StatusAccepted, first.Code)
	second := s.doJSON(t, http.MethodPost, "/api/v1/clips/"+own.ID+"/analyze", owner.Token, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Other routes keep their own budget
	assert.Equal(t, http.StatusOK, s.doJSON(t, http.MethodGet, "/api/v1/clips", "", nil).Code)
	require.NoError(t, s.board.WaitAnalysis(context.Background(), own.ID))
}
