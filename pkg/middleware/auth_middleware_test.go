package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	jwtutil "github.com/Zh4nibek/LinguaLink/pkg/jwt"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserFromContext(r.Context())
		require.NotNil(t, claims)
		w.Write([]byte(claims.UserID))
	}))
}

func TestAuthMiddlewareNoToken(t *testing.T) {
	rec := httptest.NewRecorder()
	protectedEcho(t).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	rec := httptest.NewRecorder()
	protectedEcho(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareCookieToken(t *testing.T) {
	token, err := jwtutil.GenerateToken("user-1", "a@b.com", testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})

	rec := httptest.NewRecorder()
	protectedEcho(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestAuthMiddlewareBearerToken(t *testing.T) {
	token, err := jwtutil.GenerateToken("user-2", "b@c.com", testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	protectedEcho(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-2", rec.Body.String())
}

func TestGetUserFromContextMissing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Nil(t, GetUserFromContext(req.Context()))
}
