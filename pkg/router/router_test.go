package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"character-chat-demo/backend/internal/catalog"
	"character-chat-demo/backend/internal/history"
	"character-chat-demo/backend/internal/llm"
	"character-chat-demo/backend/internal/models"
	"character-chat-demo/backend/internal/service"
	"character-chat-demo/backend/internal/storage"
	"character-chat-demo/backend/pkg/config"
	"character-chat-demo/backend/pkg/di"
	"character-chat-demo/backend/pkg/logger"
)

// testContainer wires a container by hand: demo completions, no object
// storage, no redis.
func testContainer() *di.Container {
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Security.RateLimit = 1000
	cfg.Security.RateLimitBurst = 1000
	cfg.Security.AllowedOrigins = []string{"*"}
	cfg.Storage.PresignExpiry = time.Hour

	cat := catalog.New([]models.Character{
		{Name: "Naruto", Universe: "Naruto"},
		{Name: "IronMan", Universe: "Marvel"},
	})
	store := history.NewStore(nil, log)
	completions := llm.New(llm.Config{DemoMode: true, Timeout: time.Second}, log)

	return &di.Container{
		Config:  cfg,
		Logger:  log,
		Catalog: cat,
		History: store,
		Avatars: storage.NewAvatarResolver(nil, nil, time.Hour, log),
		LLM:     completions,
		Chat:    service.NewChatService(cat, store, completions, log),
	}
}

func TestRoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(testContainer())
	r.SetupRoutes()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/check_s3", http.StatusOK},
		{http.MethodGet, "/check_s3_config", http.StatusOK},
		{http.MethodGet, "/test_s3", http.StatusOK},
	}

	for _, tc := range tests {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(tc.method, tc.path, nil)
		r.Engine.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestHealthBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(testContainer())
	r.SetupRoutes()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	r.Engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestChatThroughFullMiddlewareChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(testContainer())
	r.SetupRoutes()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/chat", nil)
	r.Engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reply":"As Naruto: `)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(testContainer())
	r.SetupRoutes()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://example.com")
	r.Engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
