package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Varun5711/attendly/internal/logger"
	"github.com/Varun5711/attendly/internal/models"
	"github.com/Varun5711/attendly/internal/service"
)

const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, log *logger.Logger, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Error("Failed to encode %T response: %v", data, err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error"}`)
	}

	respondBody(w, log, status, "application/json", body)
}

// respondBody writes a complete response. A failed write means the client
// went away mid-response, so it is only worth a debug line.
func respondBody(w http.ResponseWriter, log *logger.Logger, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Debug("Failed to write %d-byte %s response: %v", len(body), contentType, err)
	}
}

func respondError(w http.ResponseWriter, log *logger.Logger, status int, message string) {
	respondJSON(w, log, status, models.ErrorResponse{Error: message})
}

func respondSuccess(w http.ResponseWriter, log *logger.Logger) {
	respondJSON(w, log, http.StatusOK, models.SuccessResponse{Success: true})
}

// decodeJSON reads a bounded JSON body into dst. On failure it writes a 400
// and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, log *logger.Logger, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, log, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

// handleServiceError maps service sentinels to status codes. Anything
// unrecognised is logged and reported as a generic 500.
func handleServiceError(w http.ResponseWriter, log *logger.Logger, op string, err error) {
	var inputErr *service.InputError

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		respondError(w, log, http.StatusUnauthorized, "Unauthorized")
	case errors.As(err, &inputErr):
		respondError(w, log, http.StatusBadRequest, inputErr.Message)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, log, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, log, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrAlreadyExists):
		respondError(w, log, http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrNotFound):
		respondError(w, log, http.StatusNotFound, "Record not found")
	default:
		log.Error("%s error: %v", op, err)
		respondError(w, log, http.StatusInternalServerError, "Internal server error")
	}
}
