package middleware

import (
	"context"
	"net/http"
	"strings"
)

type userKey string

const userIDKey userKey = "user_id"

const subjectHeader = "X-Subject-ID"

// Subject resolves the calling user from the X-Subject-ID header. Requests
// without one are rejected; identity verification happens upstream at the
// gateway.
func Subject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(subjectHeader))
		if userID == "" {
			http.Error(w, "missing subject", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
	})
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if strings.TrimSpace(userID) == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}
