package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sshamanello/reelflow/infrastructure/cache"
	"github.com/sshamanello/reelflow/infrastructure/configuration"
	httpHandler "github.com/sshamanello/reelflow/interfaces/http"
	"github.com/sshamanello/reelflow/usecase"
)

// newRouter wires real usecases over an in-memory store; the platform
// clients are nil because these routes never reach them.
func newRouter(cfg *configuration.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := cache.NewMemoryStore()
	oauthUC := usecase.NewOAuthUsecase(store, nil, nil)
	publishUC := usecase.NewPublishUsecase(store, nil, nil)
	libraryUC := usecase.NewLibraryUsecase(store)

	return InitiateRouter(
		httpHandler.NewOAuthHandler(oauthUC, cfg.Session.CookieName, cfg.Session.TTLDays),
		httpHandler.NewTikTokHandler(publishUC),
		httpHandler.NewYouTubeHandler(publishUC),
		httpHandler.NewLibraryHandler(libraryUC),
		cfg,
	)
}

func testConfig(origins ...string) *configuration.Config {
	return &configuration.Config{
		Session: configuration.Session{CookieName: "rf_sid", TTLDays: 30},
		CORS:    configuration.CORS{AllowedOrigins: origins},
	}
}

func TestRouter_Health(t *testing.T) {
	router := newRouter(testConfig("https://sshamanello.ru"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestRouter_CORSAllowList(t *testing.T) {
	router := newRouter(testConfig("https://sshamanello.ru"))

	req := httptest.NewRequest(http.MethodOptions, "/api/me", nil)
	req.Header.Set("Origin", "https://sshamanello.ru")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://sshamanello.ru", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Session")
}

func TestRouter_CORSRejectsUnknownOrigin(t *testing.T) {
	router := newRouter(testConfig("https://sshamanello.ru"))

	req := httptest.NewRequest(http.MethodOptions, "/api/me", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_CORSWildcard(t *testing.T) {
	router := newRouter(testConfig("*"))

	req := httptest.NewRequest(http.MethodOptions, "/api/me", nil)
	req.Header.Set("Origin", "https://anything.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_LegacyTikTokRoutes(t *testing.T) {
	router := newRouter(testConfig("*"))

	// legacy alias answers like the canonical route
	req := httptest.NewRequest(http.MethodGet, "/api/tiktok/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
