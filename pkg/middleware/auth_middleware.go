package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtutil "github.com/Zh4nibek/LinguaLink/pkg/jwt"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthMiddleware verifies the session token and stores the claims in
// the request context. The token is read from the "jwt" cookie (the
// web client) or from the Authorization header (everything else).
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				logger.Log.Warn("Request without auth token rejected")
				http.Error(w, "Unauthorized: no token provided", http.StatusUnauthorized)
				return
			}

			claims, err := jwtutil.ValidateToken(token, jwtSecret)
			if err != nil {
				logger.Log.WithError(err).Warn("Rejected invalid auth token")
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie("jwt"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetUserFromContext returns the claims stored by AuthMiddleware, or
// nil on unauthenticated requests.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, _ := ctx.Value(userContextKey).(*jwtutil.Claims)
	return claims
}
