package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Varun5711/attendly/internal/auth"
	"github.com/Varun5711/attendly/internal/logger"
)

type contextKey string

const SessionKey contextKey = "session"

type AuthMiddleware struct {
	sessions *auth.SessionManager
	log      *logger.Logger
}

func NewAuthMiddleware(sessions *auth.SessionManager, log *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		log:      log,
	}
}

// RequireSession rejects requests without a valid session cookie and stores
// the caller's claims in the request context.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := m.sessions.GetSession(r)
		if claims == nil {
			m.log.Debug("Unauthenticated request to %s", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}

		ctx := WithSession(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithSession(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, SessionKey, claims)
}

// GetSession returns the claims stored by RequireSession, or nil.
func GetSession(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(SessionKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
