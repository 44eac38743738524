package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/groblegark/exptrack/internal/events"
	"github.com/groblegark/exptrack/internal/growthbook"
)

type linkFeatureInput struct {
	GrowthbookFeatureID string `json:"growthbookFeatureId"`
}

// linkedTo identifies the experiment a remote feature is linked to.
type linkedTo struct {
	ExperimentID   string `json:"experimentId"`
	ExperimentName string `json:"experimentName"`
}

// searchResult is one annotated entry in the feature search response.
type searchResult struct {
	ID             string               `json:"id"`
	Key            string               `json:"key"`
	ValueType      growthbook.ValueType `json:"valueType"`
	DefaultValue   any                  `json:"defaultValue"`
	Description    string               `json:"description"`
	Enabled        bool                 `json:"enabled"`
	Tags           []string             `json:"tags"`
	HasExperiments bool                 `json:"hasExperiments"`
	HasRollouts    bool                 `json:"hasRollouts"`
	RuleCount      int                  `json:"ruleCount"`
	AlreadyLinked  bool                 `json:"alreadyLinked"`
	LinkedTo       *linkedTo            `json:"linkedTo"`
}

// handleSyncExperiment handles POST /v1/experiments/{id}/sync. Unlike the
// read path, a sync ignores the TTL gate and surfaces remote failures.
func (s *ExperimentServer) handleSyncExperiment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	exp, err := s.store.GetExperiment(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "experiment not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get experiment")
		return
	}

	if !exp.IsLinked() {
		writeError(w, http.StatusBadRequest, "experiment is not linked to GrowthBook")
		return
	}
	if !s.features.IsConfigured() {
		writeError(w, http.StatusServiceUnavailable, "GrowthBook API is not configured")
		return
	}

	featureID := *exp.GrowthbookFeatureID
	feature, err := s.features.GetFeature(r.Context(), featureID)
	if errors.Is(err, growthbook.ErrFeatureNotFound) {
		writeError(w, http.StatusNotFound, "feature not found in GrowthBook")
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to sync with GrowthBook",
			"message": err.Error(),
		})
		return
	}

	now := s.now()
	if err := s.store.MarkSynced(r.Context(), id, now); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record sync timestamp")
		return
	}

	s.publish(r.Context(), events.TopicFeatureSynced, events.FeatureSynced{
		ExperimentID: id,
		FeatureID:    featureID,
		SyncedAt:     now,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"lastSyncedAt": now,
		"growthbook":   buildRemoteFeature(feature),
	})
}

// handleLinkFeature handles POST /v1/experiments/{id}/link. The target
// feature must exist in GrowthBook at link time; it is not re-validated
// afterwards.
func (s *ExperimentServer) handleLinkFeature(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in linkFeatureInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.GrowthbookFeatureID == "" {
		writeError(w, http.StatusBadRequest, "growthbookFeatureId is required")
		return
	}

	if !s.features.IsConfigured() {
		writeError(w, http.StatusServiceUnavailable, "GrowthBook API is not configured")
		return
	}

	feature, err := s.features.GetFeature(r.Context(), in.GrowthbookFeatureID)
	if errors.Is(err, growthbook.ErrFeatureNotFound) {
		writeError(w, http.StatusNotFound, "feature not found in GrowthBook")
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to link to GrowthBook",
			"message": err.Error(),
		})
		return
	}

	now := s.now()
	if err := s.store.LinkFeature(r.Context(), id, in.GrowthbookFeatureID, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "experiment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to link experiment")
		return
	}

	exp, err := s.store.GetExperiment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get experiment")
		return
	}

	s.publish(r.Context(), events.TopicFeatureLinked, events.FeatureLinked{
		ExperimentID: id,
		FeatureID:    in.GrowthbookFeatureID,
	})

	status := feature.Status(growthbook.DefaultEnvironment)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"experiment": exp,
		"feature": map[string]any{
			"key":       feature.Key,
			"enabled":   status.Enabled,
			"valueType": feature.ValueType,
		},
	})
}

// handleUnlinkFeature handles DELETE /v1/experiments/{id}/link. Clears the
// feature id and sync timestamp unconditionally; no remote call involved.
func (s *ExperimentServer) handleUnlinkFeature(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.UnlinkFeature(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "experiment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to unlink experiment")
		return
	}

	exp, err := s.store.GetExperiment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get experiment")
		return
	}

	s.publish(r.Context(), events.TopicFeatureUnlinked, events.FeatureUnlinked{ExperimentID: id})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"experiment": exp,
	})
}

// handleSearchFeatures handles GET /v1/growthbook/features?search=&projectId=.
// Results are cross-referenced against locally linked experiments. Pure join,
// no caching.
func (s *ExperimentServer) handleSearchFeatures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	projectID := q.Get("projectId")

	if strings.TrimSpace(search) == "" {
		writeError(w, http.StatusBadRequest, "search term is required")
		return
	}
	if !s.features.IsConfigured() {
		writeError(w, http.StatusServiceUnavailable, "GrowthBook API is not configured")
		return
	}

	features, err := s.features.SearchFeatures(r.Context(), search, projectID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to fetch features from GrowthBook",
			"message": err.Error(),
		})
		return
	}

	linked, err := s.store.ListLinkedExperiments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list linked experiments")
		return
	}
	linkedMap := make(map[string]*linkedTo, len(linked))
	for _, exp := range linked {
		if exp.GrowthbookFeatureID == nil {
			continue
		}
		linkedMap[*exp.GrowthbookFeatureID] = &linkedTo{
			ExperimentID:   exp.ID,
			ExperimentName: exp.Name,
		}
	}

	results := make([]searchResult, 0, len(features))
	for _, f := range features {
		status := f.Status(growthbook.DefaultEnvironment)
		results = append(results, searchResult{
			ID:             f.ID,
			Key:            f.Key,
			ValueType:      f.ValueType,
			DefaultValue:   f.DefaultValue,
			Description:    f.Description,
			Enabled:        status.Enabled,
			Tags:           f.Tags,
			HasExperiments: status.HasExperiments,
			HasRollouts:    status.HasRollouts,
			RuleCount:      status.RuleCount,
			AlreadyLinked:  linkedMap[f.ID] != nil,
			LinkedTo:       linkedMap[f.ID],
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"features": results,
		"count":    len(results),
	})
}
