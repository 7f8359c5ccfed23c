package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Zh4nibek/LinguaLink/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Env:         env,
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
	}
}

func findJWTCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "jwt" {
			return cookie
		}
	}
	t.Fatal("jwt cookie not set")
	return nil
}

func TestSessionCookieFlags(t *testing.T) {
	dev := &AuthHandler{Config: testConfig("development")}
	cookie := dev.sessionCookie("token-value", 3600)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	// Cross-origin frontend in production needs Secure + SameSite=None.
	prod := &AuthHandler{Config: testConfig("production")}
	cookie = prod.sessionCookie("token-value", 3600)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
}

func TestLogoutClearsCookie(t *testing.T) {
	handler := &AuthHandler{Config: testConfig("development")}

	rec := httptest.NewRecorder()
	handler.LogoutHandler(rec, httptest.NewRequest("POST", "/api/auth/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := findJWTCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge, "cookie must be expired")
}

func TestMeHandlerUnauthenticated(t *testing.T) {
	handler := &AuthHandler{Config: testConfig("development")}

	rec := httptest.NewRecorder()
	handler.MeHandler(rec, httptest.NewRequest("GET", "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
