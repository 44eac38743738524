package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/groblegark/exptrack/internal/events"
	"github.com/groblegark/exptrack/internal/idgen"
	"github.com/groblegark/exptrack/internal/model"
)

type addVersionInput struct {
	ChangeDate time.Time `json:"changeDate"`
	Changes    string    `json:"changes"`
}

// handleListVersions handles GET /v1/experiments/{id}/versions.
func (s *ExperimentServer) handleListVersions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	versions, err := s.store.ListVersions(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list versions")
		return
	}

	if versions == nil {
		versions = []*model.Version{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"versions": versions,
		"total":    len(versions),
	})
}

// handleAddVersion handles POST /v1/experiments/{id}/versions.
func (s *ExperimentServer) handleAddVersion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in addVersionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	version, err := s.addVersion(r.Context(), id, in)
	if err != nil {
		writeStoreError(w, err, "experiment not found")
		return
	}

	writeJSON(w, http.StatusCreated, version)
}

func (s *ExperimentServer) addVersion(ctx context.Context, experimentID string, in addVersionInput) (*model.Version, error) {
	now := s.now()
	version := &model.Version{
		ExperimentID: experimentID,
		ChangeDate:   in.ChangeDate,
		Changes:      in.Changes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := model.ValidateVersion(version); err != nil {
		return nil, err
	}

	// Verify the experiment exists before appending to its change log.
	if _, err := s.store.GetExperiment(ctx, experimentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get experiment: %w", err)
	}

	id, err := idgen.NewVersionID()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}
	version.ID = id

	if err := s.store.CreateVersion(ctx, version); err != nil {
		return nil, fmt.Errorf("create version: %w", err)
	}

	s.publish(ctx, events.TopicVersionAdded, events.VersionAdded{Version: version})

	return version, nil
}
