package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/groblegark/exptrack/internal/events"
	"github.com/groblegark/exptrack/internal/idgen"
	"github.com/groblegark/exptrack/internal/model"
)

type createExperimentInput struct {
	Name         string    `json:"name"`
	ExpParameter string    `json:"expParameter"`
	UserGroup    string    `json:"userGroup"`
	NumbersList  []string  `json:"numbersList"`
	LiveDate     time.Time `json:"liveDate"`
	Platforms    []string  `json:"platforms"`
	Context      string    `json:"context"`
	IsActive     *bool     `json:"isActive"`
}

type updateExperimentInput struct {
	Name         *string    `json:"name"`
	ExpParameter *string    `json:"expParameter"`
	UserGroup    *string    `json:"userGroup"`
	NumbersList  []string   `json:"numbersList"`
	LiveDate     *time.Time `json:"liveDate"`
	Platforms    []string   `json:"platforms"`
	Context      *string    `json:"context"`
	IsActive     *bool      `json:"isActive"`
}

// experimentResponse is an experiment plus its enrichment section.
type experimentResponse struct {
	*model.Experiment
	Remote any `json:"remote"`
}

// handleCreateExperiment handles POST /v1/experiments.
func (s *ExperimentServer) handleCreateExperiment(w http.ResponseWriter, r *http.Request) {
	var in createExperimentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	exp, err := s.createExperiment(r.Context(), in)
	if err != nil {
		writeStoreError(w, err, "experiment not found")
		return
	}

	writeJSON(w, http.StatusCreated, exp)
}

func (s *ExperimentServer) createExperiment(ctx context.Context, in createExperimentInput) (*model.Experiment, error) {
	now := s.now()
	exp := &model.Experiment{
		Name:         in.Name,
		ExpParameter: in.ExpParameter,
		UserGroup:    in.UserGroup,
		NumbersList:  in.NumbersList,
		LiveDate:     in.LiveDate,
		Platforms:    in.Platforms,
		Context:      in.Context,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Versions:     []*model.Version{},
	}
	if in.IsActive != nil {
		exp.IsActive = *in.IsActive
	}
	if exp.NumbersList == nil {
		exp.NumbersList = []string{}
	}
	if exp.Platforms == nil {
		exp.Platforms = []string{}
	}

	if err := model.ValidateExperiment(exp); err != nil {
		return nil, err
	}

	id, err := idgen.NewExperimentID()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}
	exp.ID = id

	if err := s.store.CreateExperiment(ctx, exp); err != nil {
		return nil, fmt.Errorf("create experiment: %w", err)
	}

	s.publish(ctx, events.TopicExperimentCreated, events.ExperimentCreated{Experiment: exp})

	return exp, nil
}

// handleListExperiments handles GET /v1/experiments.
func (s *ExperimentServer) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ExperimentFilter{
		Platform:  q.Get("platform"),
		UserGroup: q.Get("userGroup"),
		Search:    q.Get("search"),
	}
	if v := q.Get("isActive"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsActive = &b
		}
	}

	experiments, err := s.store.ListExperiments(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list experiments")
		return
	}

	// Ensure experiments is never null in JSON output.
	if experiments == nil {
		experiments = []*model.Experiment{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"experiments": experiments,
		"total":       len(experiments),
	})
}

// handleGetExperiment handles GET /v1/experiments/{id}. The response carries
// the local record plus a "remote" section per the enrichment rules.
func (s *ExperimentServer) handleGetExperiment(w http.ResponseWriter, r *http.Request) {
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

	remote := s.enrichExperiment(r.Context(), exp)

	writeJSON(w, http.StatusOK, experimentResponse{Experiment: exp, Remote: remote})
}

// handleUpdateExperiment handles PATCH /v1/experiments/{id}.
func (s *ExperimentServer) handleUpdateExperiment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in updateExperimentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	exp, err := s.updateExperiment(r.Context(), id, in)
	if err != nil {
		writeStoreError(w, err, "experiment not found")
		return
	}

	writeJSON(w, http.StatusOK, exp)
}

func (s *ExperimentServer) updateExperiment(ctx context.Context, id string, in updateExperimentInput) (*model.Experiment, error) {
	exp, err := s.store.GetExperiment(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]any)
	if in.Name != nil {
		exp.Name = *in.Name
		changes["name"] = *in.Name
	}
	if in.ExpParameter != nil {
		exp.ExpParameter = *in.ExpParameter
		changes["expParameter"] = *in.ExpParameter
	}
	if in.UserGroup != nil {
		exp.UserGroup = *in.UserGroup
		changes["userGroup"] = *in.UserGroup
	}
	if in.NumbersList != nil {
		exp.NumbersList = in.NumbersList
		changes["numbersList"] = in.NumbersList
	}
	if in.LiveDate != nil {
		exp.LiveDate = *in.LiveDate
		changes["liveDate"] = *in.LiveDate
	}
	if in.Platforms != nil {
		exp.Platforms = in.Platforms
		changes["platforms"] = in.Platforms
	}
	if in.Context != nil {
		exp.Context = *in.Context
		changes["context"] = *in.Context
	}
	if in.IsActive != nil {
		exp.IsActive = *in.IsActive
		changes["isActive"] = *in.IsActive
	}

	if err := model.ValidateExperiment(exp); err != nil {
		return nil, err
	}

	exp.UpdatedAt = s.now()
	if err := s.store.UpdateExperiment(ctx, exp); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicExperimentUpdated, events.ExperimentUpdated{Experiment: exp, Changes: changes})

	return exp, nil
}

// handleDeleteExperiment handles DELETE /v1/experiments/{id}. Versions are
// removed by the cascade.
func (s *ExperimentServer) handleDeleteExperiment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteExperiment(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "experiment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete experiment")
		return
	}

	s.publish(r.Context(), events.TopicExperimentDeleted, events.ExperimentDeleted{ExperimentID: id})

	w.WriteHeader(http.StatusNoContent)
}
