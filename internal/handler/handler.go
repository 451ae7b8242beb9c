package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mishki-store/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError maps the domain error families onto HTTP statuses:
// missing delivery fields become a 400 listing the fields, stock
// shortfalls a 409 naming the reference, known domain codes their
// conventional statuses and everything else a 500.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		logger.Warn().Strs("fields", verr.Fields).Msg("validation failed")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "missing required fields",
			Code:   model.ErrCodeMissingField,
			Fields: verr.Fields,
		})
		return
	}

	var serr *model.StockError
	if errors.As(err, &serr) {
		logger.Warn().
			Str("reference", serr.Reference).
			Int("requested", serr.Requested).
			Int("available", serr.Available).
			Msg("stock conflict")
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error: fmt.Sprintf("insufficient stock for %s (requested %d, available %d)",
				serr.Reference, serr.Requested, serr.Available),
			Code: model.ErrCodeStockConflict,
		})
		return
	}

	var derr *model.DomainError
	if errors.As(err, &derr) {
		status := http.StatusBadRequest
		switch derr.Code {
		case model.ErrCodeOrderNotFound, model.ErrCodeProductNotFound:
			status = http.StatusNotFound
		case model.ErrCodeSeedDisabled:
			status = http.StatusForbidden
		case model.ErrCodeStockConflict:
			status = http.StatusConflict
		case model.ErrCodeSMTPUnavailable, model.ErrCodeInternalError:
			status = http.StatusInternalServerError
		}
		logger.Warn().Str("code", derr.Code).Int("status", status).Msg(derr.Message)
		writeJSON(w, status, ErrorResponse{Error: derr.Message, Code: derr.Code})
		return
	}

	logger.Error().Err(err).Msg("handler error")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "internal error",
		Code:  model.ErrCodeInternalError,
	})
}
