package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clothier/internal/model"
	"clothier/internal/service"

	"github.com/rs/zerolog"
)

// DiscountHandler handles discount administration HTTP requests.
type DiscountHandler struct {
	service service.DiscountService
	logger  zerolog.Logger
}

// NewDiscountHandler creates a new discount handler.
func NewDiscountHandler(service service.DiscountService, logger zerolog.Logger) *DiscountHandler {
	return &DiscountHandler{
		service: service,
		logger:  logger.With().Str("handler", "discount").Logger(),
	}
}

// Create handles POST /api/discounts requests.
func (h *DiscountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.DiscountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	discount, err := h.service.Create(r.Context(), &input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, discount, h.logger)
}

// SetActive handles PATCH /api/discounts/{id} requests. The body
// carries a single "active" flag.
func (h *DiscountHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	discountID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "discount ID must be an integer", h.logger)
		return
	}

	var req struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "request body must set the active flag", h.logger)
		return
	}

	discount, err := h.service.SetActive(r.Context(), discountID, *req.Active)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, discount, h.logger)
}
