package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/groblegark/exptrack/internal/model"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *ExperimentServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/experiments", s.handleCreateExperiment)
	mux.HandleFunc("GET /v1/experiments", s.handleListExperiments)
	mux.HandleFunc("GET /v1/experiments/{id}", s.handleGetExperiment)
	mux.HandleFunc("PATCH /v1/experiments/{id}", s.handleUpdateExperiment)
	mux.HandleFunc("DELETE /v1/experiments/{id}", s.handleDeleteExperiment)
	mux.HandleFunc("GET /v1/experiments/{id}/versions", s.handleListVersions)
	mux.HandleFunc("POST /v1/experiments/{id}/versions", s.handleAddVersion)
	mux.HandleFunc("POST /v1/experiments/{id}/sync", s.handleSyncExperiment)
	mux.HandleFunc("POST /v1/experiments/{id}/link", s.handleLinkFeature)
	mux.HandleFunc("DELETE /v1/experiments/{id}/link", s.handleUnlinkFeature)
	mux.HandleFunc("GET /v1/growthbook/features", s.handleSearchFeatures)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health. It pings the database by counting
// experiments.
func (s *ExperimentServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountExperiments(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":   "error",
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"database":        "connected",
		"experimentCount": count,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps service-layer errors to HTTP responses: invalid input
// and validation failures become 400, missing rows 404, everything else 500.
func writeStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	var ie inputError
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Error())
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, notFoundMsg)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
