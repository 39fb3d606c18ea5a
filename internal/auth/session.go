package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Varun5711/attendly/internal/logger"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "session"

// TokenCodec issues and verifies session tokens. JWTManager is the
// production implementation.
type TokenCodec interface {
	GenerateToken(userID, email, name string) (string, time.Time, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// SessionManager is the only place that turns a request into an identity.
//
// Sessions are stateless: DeleteSession only clears the client's cookie, so a
// copied token stays valid until it expires.
type SessionManager struct {
	tokens TokenCodec
	secure bool
	log    *logger.Logger
}

func NewSessionManager(tokens TokenCodec, secure bool, log *logger.Logger) *SessionManager {
	return &SessionManager{
		tokens: tokens,
		secure: secure,
		log:    log,
	}
}

// CreateSession mints a token for the identity and sets it as the session
// cookie. Nothing is written to w when token creation fails.
func (m *SessionManager) CreateSession(w http.ResponseWriter, userID, email, name string) error {
	token, expiresAt, err := m.tokens.GenerateToken(userID, email, name)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// GetSession returns the caller's claims, or nil when the request carries no
// valid session.
func (m *SessionManager) GetSession(r *http.Request) *Claims {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, err := m.tokens.ValidateToken(cookie.Value)
	if err != nil {
		if m.log != nil {
			m.log.Debug("Rejected session token: %v", err)
		}
		return nil
	}
	return claims
}

// DeleteSession instructs the client to drop its session cookie.
func (m *SessionManager) DeleteSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
