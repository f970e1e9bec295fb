package api

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
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
	apperrors "character-chat-demo/backend/pkg/errors"
	"character-chat-demo/backend/pkg/logger"
)

func diagTestConfig(bucket, region string) *config.Config {
	cfg := &config.Config{}
	cfg.Storage.Bucket = bucket
	cfg.Storage.Region = region
	cfg.Storage.AccessKeyID = "key-id"
	cfg.Storage.SecretAccessKey = "secret-value"
	return cfg
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard})
}

func testEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(apperrors.ErrorHandler())
	return engine
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]models.Character{
		{Name: "Naruto", Universe: "Naruto", Traits: "energetic", Style: "informal", Avatar: "character_images/naruto.png"},
		{Name: "IronMan", Universe: "Marvel", Traits: "sarcastic", Style: "witty", Avatar: "character_images/ironman.png"},
	})
}

func demoChatService() *service.ChatService {
	completions := llm.New(llm.Config{DemoMode: true, Timeout: time.Second}, testLogger())
	store := history.NewStore(nil, testLogger())
	return service.NewChatService(testCatalog(), store, completions, testLogger())
}

type fakeImageStore struct {
	exists     bool
	existsErr  error
	presignErr error
}

func (f *fakeImageStore) ObjectExists(_ context.Context, _ string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeImageStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://bucket.example.com/" + key + "?signed=1", nil
}

func TestHealth(t *testing.T) {
	engine := testEngine()
	engine.GET("/health", Health)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestChatDemoMode(t *testing.T) {
	engine := testEngine()
	engine.POST("/chat", NewChatController(demoChatService()).Chat)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi","character":"Naruto"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reply":"As Naruto: `)
}

func TestChatUnknownCharacterStillAnswers(t *testing.T) {
	engine := testEngine()
	engine.POST("/chat", NewChatController(demoChatService()).Chat)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi","character":"Batman"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	// Falls back to the first catalog entry instead of erroring
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reply":"As Naruto: `)
}

func TestChatEmptyBodyStillAnswers(t *testing.T) {
	engine := testEngine()
	engine.POST("/chat", NewChatController(demoChatService()).Chat)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/chat", strings.NewReader(``))
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reply":"As Naruto: `)
}

func TestGetCharacterImageValidation(t *testing.T) {
	engine := testEngine()
	engine.POST("/get_character_image", NewImageController(&fakeImageStore{exists: true}, time.Hour).GetCharacterImage)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/get_character_image", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "character is required")
}

func TestGetCharacterImageStorageUnconfigured(t *testing.T) {
	engine := testEngine()
	engine.POST("/get_character_image", NewImageController(nil, time.Hour).GetCharacterImage)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/get_character_image", strings.NewReader(`{"character":"Naruto"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}

func TestGetCharacterImageNotFound(t *testing.T) {
	engine := testEngine()
	engine.POST("/get_character_image", NewImageController(&fakeImageStore{exists: false}, time.Hour).GetCharacterImage)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/get_character_image", strings.NewReader(`{"character":"Naruto"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCharacterImageSuccess(t *testing.T) {
	engine := testEngine()
	engine.POST("/get_character_image", NewImageController(&fakeImageStore{exists: true}, time.Hour).GetCharacterImage)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/get_character_image", strings.NewReader(`{"character":"Sherlock Holmes"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// Key derived from the name: lower-cased, spaces to underscores
	assert.Contains(t, w.Body.String(), "character_images/sherlock_holmes.png")
}

func TestGetCharacterImageStorageError(t *testing.T) {
	engine := testEngine()
	store := &fakeImageStore{existsErr: errors.New("endpoint unreachable")}
	engine.POST("/get_character_image", NewImageController(store, time.Hour).GetCharacterImage)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/get_character_image", strings.NewReader(`{"character":"Naruto"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestIndexAssignsUserCookie(t *testing.T) {
	engine := testEngine()
	engine.SetHTMLTemplate(template.Must(template.New("index.html").Parse(
		`{{range .characters}}{{.Name}} {{end}}threads:{{len .threads}}`,
	)))

	avatars := storage.NewAvatarResolver(nil, nil, time.Hour, testLogger())
	pages := NewPageController(testCatalog(), avatars, demoChatService())
	engine.GET("/", pages.Index)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Naruto")
	assert.Contains(t, w.Body.String(), "IronMan")

	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == "user_id" {
			found = true
			assert.NotEmpty(t, c.Value)
		}
	}
	assert.True(t, found, "expected a user_id cookie to be assigned")
}

func TestIndexKeepsExistingUserCookie(t *testing.T) {
	engine := testEngine()
	engine.SetHTMLTemplate(template.Must(template.New("index.html").Parse(`ok`)))

	avatars := storage.NewAvatarResolver(nil, nil, time.Hour, testLogger())
	pages := NewPageController(testCatalog(), avatars, demoChatService())
	engine.GET("/", pages.Index)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "user_id", Value: "existing-user"})
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		assert.NotEqual(t, "user_id", c.Name, "no new cookie should be set")
	}
}

func TestUserIDFromCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, UserIDFromCookie(c))

	c.Request.AddCookie(&http.Cookie{Name: "user_id", Value: "u-42"})
	assert.Equal(t, "u-42", UserIDFromCookie(c))
}

func TestDiagnosticsConfigEcho(t *testing.T) {
	cfg := diagTestConfig("my-bucket", "eu-west-1")
	engine := testEngine()
	engine.GET("/check_s3_config", NewDiagnosticsController(cfg, nil).CheckConfig)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/check_s3_config", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"bucket":"my-bucket"`)
	assert.Contains(t, body, `"region":"eu-west-1"`)
	// Secrets are never echoed
	assert.NotContains(t, body, "secret-value")
}

func TestDiagnosticsUnconfigured(t *testing.T) {
	cfg := diagTestConfig("", "us-east-1")
	engine := testEngine()
	diag := NewDiagnosticsController(cfg, nil)
	engine.GET("/check_s3", diag.CheckConnectivity)
	engine.GET("/test_s3", diag.TestStorage)

	for _, path := range []string{"/check_s3", "/test_s3"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "unconfigured", path)
	}
}
