package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clothier/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code. The
// status line is already on the wire if encoding fails, so the failure
// is logged and nothing more reaches the client.
func writeJSON(w http.ResponseWriter, status int, data interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Int("status", status).Msg("failed to encode response")
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message}, logger)
}

// writeServiceError maps service-layer errors onto HTTP responses.
// Domain errors carry their own codes; anything unrecognised is an
// internal error with no detail leaked.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusBadRequest
		switch domainErr.Code {
		case model.ErrCodeNotFound:
			status = http.StatusNotFound
		case model.ErrCodeProductReferenced:
			status = http.StatusConflict
		case model.ErrCodeTransactionFailed:
			status = http.StatusInternalServerError
		}
		writeError(w, status, domainErr.Code, domainErr.Message, logger)
		return
	}

	var notFound *model.ProductNotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, notFound.Error(), logger)
		return
	}

	var insufficient *model.InsufficientStockError
	if errors.As(err, &insufficient) {
		writeError(w, http.StatusBadRequest, model.ErrCodeInsufficientStock, insufficient.Error(), logger)
		return
	}

	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}
