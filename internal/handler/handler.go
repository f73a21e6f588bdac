package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"vendora/internal/model"

	"github.com/rs/zerolog"
)

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
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeDomainError maps a service error onto an HTTP status and a
// structured error body. Anything that is not a DomainError is an internal
// failure.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, http.StatusInternalServerError, "internal error", logger)
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeValidation, model.ErrCodeMissingPaymentRef:
		status = http.StatusBadRequest
	case model.ErrCodeInvalidState:
		status = http.StatusConflict
	case model.ErrCodeOrderNotFound:
		status = http.StatusNotFound
	case model.ErrCodeUpload, model.ErrCodeFetch:
		status = http.StatusBadGateway
	}

	logger.Warn().
		Str("code", domainErr.Code).
		Int("status", status).
		Msg(domainErr.Message)

	writeJSON(w, status, model.ErrorResponse{
		Error:   domainErr.Code,
		Message: domainErr.Message,
	})
}
