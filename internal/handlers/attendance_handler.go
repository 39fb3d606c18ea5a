package handlers

import (
	"net/http"
	"strconv"

	"github.com/Varun5711/attendly/internal/logger"
	"github.com/Varun5711/attendly/internal/middleware"
	"github.com/Varun5711/attendly/internal/models"
	"github.com/Varun5711/attendly/internal/service"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler struct {
	attendance *service.AttendanceService
	log        *logger.Logger
}

func NewAttendanceHandler(attendance *service.AttendanceService, log *logger.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendance: attendance,
		log:        log,
	}
}

func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.AttendanceFilters{
		Search:    q.Get("search"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Page:      queryInt(q.Get("page")),
		Limit:     queryInt(q.Get("limit")),
	}

	res, err := h.attendance.List(r.Context(), middleware.GetSession(r.Context()), filters)
	if err != nil {
		handleServiceError(w, h.log, "List attendance", err)
		return
	}

	respondJSON(w, h.log, http.StatusOK, res)
}

func (h *AttendanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		handleServiceError(w, h.log, "Record attendance", service.ErrUnauthenticated)
		return
	}

	var req models.AttendanceRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	if _, err := h.attendance.Record(r.Context(), session, req); err != nil {
		handleServiceError(w, h.log, "Record attendance", err)
		return
	}

	respondSuccess(w, h.log)
}

func (h *AttendanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendance.Get(r.Context(), middleware.GetSession(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, "Get attendance", err)
		return
	}

	respondJSON(w, h.log, http.StatusOK, record)
}

func (h *AttendanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		handleServiceError(w, h.log, "Update attendance", service.ErrUnauthenticated)
		return
	}

	var req models.AttendanceRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	if _, err := h.attendance.Update(r.Context(), session, chi.URLParam(r, "id"), req); err != nil {
		handleServiceError(w, h.log, "Update attendance", err)
		return
	}

	respondSuccess(w, h.log)
}

func (h *AttendanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendance.Delete(r.Context(), middleware.GetSession(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, "Delete attendance", err)
		return
	}

	respondSuccess(w, h.log)
}

func (h *AttendanceHandler) Report(w http.ResponseWriter, r *http.Request) {
	text, err := h.attendance.Report(r.Context(), middleware.GetSession(r.Context()), chi.URLParam(r, "id"), r.URL.Query().Get("type"))
	if err != nil {
		handleServiceError(w, h.log, "Report", err)
		return
	}

	respondBody(w, h.log, http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (h *AttendanceHandler) ReportQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.attendance.ReportQR(r.Context(), middleware.GetSession(r.Context()), chi.URLParam(r, "id"), r.URL.Query().Get("type"))
	if err != nil {
		handleServiceError(w, h.log, "Report QR", err)
		return
	}

	w.Header().Set("Cache-Control", "private, no-store")
	respondBody(w, h.log, http.StatusOK, "image/png", png)
}

// queryInt parses a paging parameter; anything unparsable becomes 0 and
// falls back to the default.
func queryInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
