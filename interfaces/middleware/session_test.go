package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "/api/me", nil)
	assert.NoError(t, err)
	return req
}

func TestResolveSID_BearerWinsOverEverything(t *testing.T) {
	req := newRequest(t)
	req.Header.Set("Authorization", "Bearer sid-bearer")
	req.Header.Set(SessionHeader, "sid-header")
	req.AddCookie(&http.Cookie{Name: "rf_sid", Value: "sid-cookie"})

	assert.Equal(t, "sid-bearer", ResolveSID(req, "rf_sid"))
}

func TestResolveSID_BearerCaseInsensitive(t *testing.T) {
	req := newRequest(t)
	req.Header.Set("Authorization", "bearer   sid-lower")

	assert.Equal(t, "sid-lower", ResolveSID(req, "rf_sid"))
}

func TestResolveSID_HeaderBeforeCookie(t *testing.T) {
	req := newRequest(t)
	req.Header.Set(SessionHeader, "sid-header")
	req.AddCookie(&http.Cookie{Name: "rf_sid", Value: "sid-cookie"})

	assert.Equal(t, "sid-header", ResolveSID(req, "rf_sid"))
}

func TestResolveSID_CookieFallback(t *testing.T) {
	req := newRequest(t)
	req.AddCookie(&http.Cookie{Name: "rf_sid", Value: "sid-cookie"})

	assert.Equal(t, "sid-cookie", ResolveSID(req, "rf_sid"))
}

func TestResolveSID_NothingPresent(t *testing.T) {
	assert.Equal(t, "", ResolveSID(newRequest(t), "rf_sid"))
}

func TestResolveSID_NonBearerAuthorizationIgnored(t *testing.T) {
	req := newRequest(t)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	assert.Equal(t, "", ResolveSID(req, "rf_sid"))
}

func TestSessionMiddleware_StoresSIDInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Session("rf_sid"))
	router.GET("/api/me", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, SID(ctx))
	})

	req := newRequest(t)
	req.Header.Set(SessionHeader, "sid-from-header")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sid-from-header", rec.Body.String())
}
