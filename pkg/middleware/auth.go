package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKeyType string

const memberIDKey contextKeyType = "member_id"

// MemberIDHeader carries the authenticated member identity, set by the
// upstream auth gateway after validating the session.
const MemberIDHeader = "X-Member-ID"

// RequireMember rejects requests that do not carry an authenticated member
// identity and injects the member ID into the request context. Authentication
// itself happens upstream; this service only trusts the forwarded header.
func RequireMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		memberID := r.Header.Get(MemberIDHeader)
		if memberID == "" {
			writeAuthError(w, "missing member identity")
			return
		}

		ctx := context.WithValue(r.Context(), memberIDKey, memberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MemberIDFromContext extracts the member ID from the request context.
func MemberIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(memberIDKey).(string); ok {
		return id
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "UNAUTHORIZED",
		"message": message,
	})
}
