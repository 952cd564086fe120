package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/pkg/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		method          string
		cfg             config.SecurityConfig
		expectedStatus  int
		expectedHeaders map[string]string
	}{
		{
			name:           "preflight request",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			expectedHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "*",
				"Access-Control-Allow-Methods": "GET, POST, PUT, PATCH, DELETE, OPTIONS",
				"Access-Control-Allow-Headers": "Content-Type, Authorization",
			},
		},
		{
			name:           "configured origins",
			method:         http.MethodGet,
			cfg:            config.SecurityConfig{CORSOrigins: []string{"https://jam.example.com"}},
			expectedStatus: http.StatusOK,
			expectedHeaders: map[string]string{
				"Access-Control-Allow-Origin":   "https://jam.example.com",
				"Access-Control-Expose-Headers": "Content-Disposition",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			_, router := gin.CreateTestContext(w)
			router.Use(CORS(tt.cfg))
			router.Any("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for header, value := range tt.expectedHeaders {
				assert.Equal(t, value, w.Header().Get(header), header)
			}
		})
	}
}

func TestRequestSizeLimitWithSize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const limit = 1024

	tests := []struct {
		name           string
		bodySize       int
		expectedStatus int
	}{
		{"under limit", 100, http.StatusOK},
		{"at limit", limit, http.StatusOK},
		{"over limit", limit + 1, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			_, router := gin.CreateTestContext(w)
			router.Use(RequestSizeLimitWithSize(limit))
			router.POST("/test", func(c *gin.Context) {
				if _, err := io.ReadAll(c.Request.Body); err != nil {
					c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
					return
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("a", tt.bodySize)))
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestPerClientRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiters := &sync.Map{}
	stop := make(chan struct{})
	defer close(stop)
	var once sync.Once

	router := gin.New()
	router.GET("/a", PerClientRateLimit(limiters, stop, &once, "a", 1, 2), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/b", PerClientRateLimit(limiters, stop, &once, "b", 1, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(path, ip string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("/a", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("/a", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("/a", "10.0.0.1"))

	// Another client and another bucket are unaffected
	assert.Equal(t, http.StatusOK, hit("/a", "10.0.0.2"))
	assert.Equal(t, http.StatusOK, hit("/b", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("/b", "10.0.0.1"))
}

func TestCleanupOldRateLimiters_Stops(t *testing.T) {
	limiters := &sync.Map{}
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		cleanupOldRateLimiters(limiters, stop)
		close(done)
	}()
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine did not stop")
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(zerolog.New(&buf)))
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	line := buf.String()
	require.NotEmpty(t, line)
	assert.Contains(t, line, `"level":"warn"`)
	assert.Contains(t, line, `"component":"http"`)
	assert.Contains(t, line, `"path":"/missing"`)
	assert.Contains(t, line, `"status":404`)
}
