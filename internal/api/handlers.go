package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ezexport/internal/exporter"
	"ezexport/internal/models"
)

const maxRequestBytes = 4 << 20

// ContentRequest is the body of POST /api/export/content.
type ContentRequest struct {
	URLs          []string        `json:"urls" validate:"required,min=1,dive,required"`
	ImportDetails json.RawMessage `json:"importDetails,omitempty"`
}

// ContentResponse echoes importDetails alongside the exported pages.
type ContentResponse struct {
	ImportDetails json.RawMessage       `json:"importDetails,omitempty"`
	Pages         []models.PageEnvelope `json:"pages"`
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

func (s *Server) handleTypeMissing(w http.ResponseWriter, _ *http.Request) {
	handleError(w, exporter.ErrTypeMissing, s.logger)
}

// handleListURLs lists manifest paths of one category. "all" lists every category.
func (s *Server) handleListURLs(w http.ResponseWriter, r *http.Request) {
	category := models.Category(chi.URLParam(r, "type"))
	query := r.URL.Query()

	listing, err := s.exporter.ListURLs(r.Context(), category, query.Get("org"), isSet(query.Get("debug")))
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, listing, s.logger)
}

// handleContent exports the pages behind the requested paths.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), s.logger)
		return
	}

	if len(req.URLs) == 0 {
		handleError(w, exporter.ErrURLsMissing, s.logger)
		return
	}

	if err := s.validator.Validate(&req); err != nil {
		handleError(w, err, s.logger)
		return
	}

	pages, err := s.exporter.Content(r.Context(), req.URLs)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, ContentResponse{
		ImportDetails: req.ImportDetails,
		Pages:         pages,
	}, s.logger)
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound, s.logger)
}

// isSet reports whether a flag-like query value is switched on.
func isSet(v string) bool {
	return v != "" && v != "0" && v != "false"
}
