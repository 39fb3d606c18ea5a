package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Varun5711/attendly/internal/logger"
	"github.com/Varun5711/attendly/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewWithConfig("handlers-test", logger.Config{Out: buf})
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized"},
		{"input message", &service.InputError{Message: "Invalid record ID"}, http.StatusBadRequest, "Invalid record ID"},
		{"wrapped input", fmt.Errorf("parse: %w", &service.InputError{Message: "Invalid date"}), http.StatusBadRequest, "Invalid date"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"exists", service.ErrAlreadyExists, http.StatusBadRequest, "User already exists"},
		{"not found", service.ErrNotFound, http.StatusNotFound, "Record not found"},
		{"internal", errors.New("connection reset by peer"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rec := httptest.NewRecorder()

			handleServiceError(rec, testLogger(&buf), "Test", tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.body), rec.Body.String())
		})
	}
}

func TestHandleServiceError_InternalDetailOnlyInLog(t *testing.T) {
	var buf bytes.Buffer
	rec := httptest.NewRecorder()

	handleServiceError(rec, testLogger(&buf), "List attendance", errors.New("pq: relation missing"))

	assert.NotContains(t, rec.Body.String(), "relation missing")
	assert.Contains(t, buf.String(), "List attendance error: pq: relation missing")
}

func TestDecodeJSON_Invalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))

	var dst map[string]string
	ok := decodeJSON(rec, req, testLogger(&bytes.Buffer{}), &dst)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON"}`, rec.Body.String())
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dst map[string]string
	assert.False(t, decodeJSON(rec, req, testLogger(&bytes.Buffer{}), &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// brokenWriter fails every body write, like a connection the client closed.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (w brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("write: broken pipe")
}

func TestRespondBody_LogsWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	w := brokenWriter{httptest.NewRecorder()}

	respondBody(w, testLogger(&buf), http.StatusOK, "image/png", []byte("png"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, buf.String(), "Failed to write 3-byte image/png response: write: broken pipe")
}

func TestRespondJSON_UnencodableValue(t *testing.T) {
	var buf bytes.Buffer
	rec := httptest.NewRecorder()

	respondJSON(rec, testLogger(&buf), http.StatusOK, map[string]interface{}{"c": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "Failed to encode map[string]interface {} response")
}

func TestQueryInt(t *testing.T) {
	assert.Equal(t, 3, queryInt("3"))
	assert.Equal(t, 0, queryInt(""))
	assert.Equal(t, 0, queryInt("abc"))
	assert.Equal(t, -2, queryInt("-2"))
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		db     Pinger
		status int
		body   string
	}{
		{"no store", nil, http.StatusOK, `{"status":"ok"}`},
		{"store up", stubPinger{}, http.StatusOK, `{"status":"ok"}`},
		{"store down", stubPinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, `{"status":"unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewSystemHandler(tt.db, testLogger(&buf))

			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestCSPReport(t *testing.T) {
	var buf bytes.Buffer
	h := NewSystemHandler(nil, testLogger(&buf))

	report := `{"csp-report":{"blocked-uri":"https://evil.example","violated-directive":"script-src"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/csp-report", strings.NewReader(report))
	req.Header.Set("User-Agent", "csp-test")
	rec := httptest.NewRecorder()

	h.CSPReport(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Contains(t, buf.String(), "CSP violation from csp-test")
	assert.Contains(t, buf.String(), "evil.example")
}

func TestSwagger_ServesEmbeddedSpec(t *testing.T) {
	h := NewSwaggerHandler()

	rec := httptest.NewRecorder()
	h.ServeSpec(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "/api/attendance/{id}/report.png")

	rec = httptest.NewRecorder()
	h.ServeSwaggerUI(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Contains(t, rec.Body.String(), `url: "/openapi.yaml"`)
}
