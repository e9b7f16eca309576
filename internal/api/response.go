package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"ezexport/internal/exporter"
	"ezexport/internal/logger"
	"ezexport/internal/validator"
)

// Error messages returned to clients.
const (
	msgNotFound    = "Not found"
	msgTypeMissing = "type missing"
	msgURLsMissing = "urls missing"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string, log *logger.Logger) {
	writeJSON(w, status, errorBody{Error: message}, log)
}

// handleError maps request errors to 400 and everything else to 500.
func handleError(w http.ResponseWriter, err error, log *logger.Logger) {
	switch {
	case errors.Is(err, exporter.ErrTypeMissing):
		writeError(w, http.StatusBadRequest, msgTypeMissing, log)
	case errors.Is(err, exporter.ErrURLsMissing):
		writeError(w, http.StatusBadRequest, msgURLsMissing, log)
	case errors.Is(err, validator.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error(), log)
	default:
		log.Error("export request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error(), log)
	}
}
