// Package client provides a transport-agnostic interface for the exptrack
// service and an HTTP/JSON implementation that talks to the exptrack REST API.
package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/groblegark/exptrack/internal/model"
)

// ExperimentsClient is the interface that all exptrack CLI commands use to
// communicate with the server. It is implemented by HTTPClient (default) and
// can be backed by any transport.
type ExperimentsClient interface {
	// Experiment CRUD
	CreateExperiment(ctx context.Context, req *CreateExperimentRequest) (*model.Experiment, error)
	GetExperiment(ctx context.Context, id string) (*ExperimentDetail, error)
	ListExperiments(ctx context.Context, req *ListExperimentsRequest) (*ListExperimentsResponse, error)
	UpdateExperiment(ctx context.Context, id string, req *UpdateExperimentRequest) (*model.Experiment, error)
	DeleteExperiment(ctx context.Context, id string) error

	// Versions
	AddVersion(ctx context.Context, experimentID string, changeDate time.Time, changes string) (*model.Version, error)
	ListVersions(ctx context.Context, experimentID string) ([]*model.Version, error)

	// GrowthBook
	SyncExperiment(ctx context.Context, id string) (*SyncResponse, error)
	LinkFeature(ctx context.Context, id, featureID string) (*LinkResponse, error)
	UnlinkFeature(ctx context.Context, id string) (*model.Experiment, error)
	SearchFeatures(ctx context.Context, search, projectID string) (*SearchFeaturesResponse, error)

	// Health
	Health(ctx context.Context) (*HealthResponse, error)

	// Lifecycle
	Close() error
}

// CreateExperimentRequest holds parameters for creating an experiment.
type CreateExperimentRequest struct {
	Name         string    `json:"name"`
	ExpParameter string    `json:"expParameter"`
	UserGroup    string    `json:"userGroup"`
	NumbersList  []string  `json:"numbersList,omitempty"`
	LiveDate     time.Time `json:"liveDate"`
	Platforms    []string  `json:"platforms,omitempty"`
	Context      string    `json:"context,omitempty"`
	IsActive     *bool     `json:"isActive,omitempty"`
}

// UpdateExperimentRequest holds optional parameters for updating an
// experiment. Nil pointer fields mean "don't change".
type UpdateExperimentRequest struct {
	Name         *string    `json:"name,omitempty"`
	ExpParameter *string    `json:"expParameter,omitempty"`
	UserGroup    *string    `json:"userGroup,omitempty"`
	NumbersList  []string   `json:"numbersList,omitempty"`
	LiveDate     *time.Time `json:"liveDate,omitempty"`
	Platforms    []string   `json:"platforms,omitempty"`
	Context      *string    `json:"context,omitempty"`
	IsActive     *bool      `json:"isActive,omitempty"`
}

// ListExperimentsRequest holds filter parameters for listing experiments.
type ListExperimentsRequest struct {
	Platform  string
	UserGroup string
	IsActive  *bool
	Search    string
}

// ListExperimentsResponse is the response from ListExperiments.
type ListExperimentsResponse struct {
	Experiments []*model.Experiment `json:"experiments"`
	Total       int                 `json:"total"`
}

// ExperimentDetail is an experiment plus its remote enrichment section. The
// remote section is left raw: it is null, a feature payload, or an error
// shape depending on what the server decided.
type ExperimentDetail struct {
	model.Experiment
	Remote json.RawMessage `json:"remote"`
}

// FeatureSummary is the minimal feature description returned by link.
type FeatureSummary struct {
	Key       string `json:"key"`
	Enabled   bool   `json:"enabled"`
	ValueType string `json:"valueType"`
}

// SyncResponse is the response from SyncExperiment.
type SyncResponse struct {
	Success      bool            `json:"success"`
	LastSyncedAt time.Time       `json:"lastSyncedAt"`
	Growthbook   json.RawMessage `json:"growthbook"`
}

// LinkResponse is the response from LinkFeature.
type LinkResponse struct {
	Success    bool              `json:"success"`
	Experiment *model.Experiment `json:"experiment"`
	Feature    FeatureSummary    `json:"feature"`
}

// SearchFeaturesResponse is the response from SearchFeatures.
type SearchFeaturesResponse struct {
	Features []SearchedFeature `json:"features"`
	Count    int               `json:"count"`
}

// SearchedFeature is one annotated entry in a feature search.
type SearchedFeature struct {
	ID             string   `json:"id"`
	Key            string   `json:"key"`
	ValueType      string   `json:"valueType"`
	DefaultValue   any      `json:"defaultValue"`
	Description    string   `json:"description"`
	Enabled        bool     `json:"enabled"`
	Tags           []string `json:"tags"`
	HasExperiments bool     `json:"hasExperiments"`
	HasRollouts    bool     `json:"hasRollouts"`
	RuleCount      int      `json:"ruleCount"`
	AlreadyLinked  bool     `json:"alreadyLinked"`
	LinkedTo       *struct {
		ExperimentID   string `json:"experimentId"`
		ExperimentName string `json:"experimentName"`
	} `json:"linkedTo"`
}

// HealthResponse is the response from Health.
type HealthResponse struct {
	Status          string `json:"status"`
	Database        string `json:"database"`
	ExperimentCount int    `json:"experimentCount"`
}
