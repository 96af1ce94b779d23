package handler

import (
	"net/http"
	"strconv"

	"clothier/internal/model"
	"clothier/internal/service"

	"github.com/rs/zerolog"
)

// ReportHandler handles sales reporting HTTP requests.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("handler", "report").Logger(),
	}
}

// Daily handles GET /api/reports/daily requests. The optional "date"
// query parameter selects a day as "2006-01-02"; default is today.
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.DailyEarnings(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report, h.logger)
}

// Monthly handles GET /api/reports/monthly requests. Optional "year"
// and "month" query parameters default to the current month.
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	year, ok := parseIntParam(w, r, "year", h.logger)
	if !ok {
		return
	}
	month, ok := parseIntParam(w, r, "month", h.logger)
	if !ok {
		return
	}

	report, err := h.service.MonthlyEarnings(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report, h.logger)
}

// TopProducts handles GET /api/reports/top-products requests. Optional
// "limit" caps the ranking size and "period" selects the trailing
// window (week, month, year, or all).
func (h *ReportHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseIntParam(w, r, "limit", h.logger)
	if !ok {
		return
	}

	report, err := h.service.TopProducts(r.Context(), limit, r.URL.Query().Get("period"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report, h.logger)
}

// Summary handles GET /api/reports/summary requests.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report, h.logger)
}

func parseIntParam(w http.ResponseWriter, r *http.Request, name string, logger zerolog.Logger) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid "+name+" parameter", logger)
		return 0, false
	}
	return value, true
}
