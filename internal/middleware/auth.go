package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const UserKey contextKey = "uid"

// TokenVerifier resolves a session token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// BearerAuth validates the session token from the Authorization header
func BearerAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			// Support both "Bearer <token>" and "<token>" formats
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				writeError(w, http.StatusUnauthorized, "invalid Authorization header format")
				return
			}

			uid, err := verifier.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), uid)))
		})
	}
}

func WithUser(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, UserKey, uid)
}

// GetUserFromContext extracts the user id set by BearerAuth
func GetUserFromContext(ctx context.Context) string {
	if uid, ok := ctx.Value(UserKey).(string); ok {
		return uid
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
