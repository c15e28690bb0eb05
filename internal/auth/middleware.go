package auth

import (
	"context"
	"net/http"
	"strings"

	"financas/internal/log"
)

type contextKey string

const userIDKey contextKey = "auth.userID"

// UserIDFromContext returns the authenticated user id, or 0 when the
// request never passed through Middleware.
func UserIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// WithUserID is the test hook for handlers that expect an authenticated
// context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Middleware rejects requests without a valid bearer token and stores
// the token's user id on the request context.
func Middleware(issuer *Issuer, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				logger.InfoContext(r.Context(), "request without bearer token",
					log.FieldPath, r.URL.Path)
				writeUnauthorized(w)
				return
			}

			userID, err := issuer.Verify(token)
			if err != nil {
				logger.InfoContext(r.Context(), "rejected token",
					log.FieldPath, r.URL.Path)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}
