package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Varun5711/attendly/internal/auth"
	"github.com/Varun5711/attendly/internal/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferedLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logger.NewWithConfig("middleware-test", logger.Config{Out: buf}), buf
}

func TestRequireSession(t *testing.T) {
	log, _ := bufferedLogger()
	sessions := auth.NewSessionManager(auth.NewJWTManager("test-secret-key", auth.SessionDuration), false, log)
	mw := NewAuthMiddleware(sessions, log)

	var seen *auth.Claims
	protected := mw.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attendance", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	assert.Nil(t, seen)

	login := httptest.NewRecorder()
	require.NoError(t, sessions.CreateSession(login, "user-123", "ann@example.com", "Ann"))

	req := httptest.NewRequest(http.MethodGet, "/api/attendance", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}

	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-123", seen.UserID)
}

func TestGetSession_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetSession(req.Context()))
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "max-age=63072000; includeSubDomains; preload", rec.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "camera=(), microphone=(), geolocation=()", rec.Header().Get("Permissions-Policy"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestRequestLogger(t *testing.T) {
	log, buf := bufferedLogger()

	handler := chimw.RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Record not found"}`))
	})))

	req := httptest.NewRequest(http.MethodDelete, "/api/attendance/abc", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, "WARN")
	assert.Contains(t, line, "DELETE /api/attendance/abc 404")
	assert.Contains(t, line, "ip=203.0.113.7")
	assert.Contains(t, line, "browser=Chrome")
	assert.Contains(t, line, "device=desktop")
	assert.Regexp(t, `req=\S+`, line)
}

func TestRequestLogger_DefaultStatus(t *testing.T) {
	log, buf := bufferedLogger()

	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Contains(t, buf.String(), "GET /health 200 2B")
	assert.Contains(t, buf.String(), "INFO")
}
