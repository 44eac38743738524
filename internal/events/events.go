package events

import (
	"context"
	"time"

	"github.com/groblegark/exptrack/internal/model"
)

// Event topic constants
const (
	TopicExperimentCreated = "exptrack.experiment.created"
	TopicExperimentUpdated = "exptrack.experiment.updated"
	TopicExperimentDeleted = "exptrack.experiment.deleted"
	TopicVersionAdded      = "exptrack.version.added"

	// GrowthBook link lifecycle
	TopicFeatureLinked   = "exptrack.feature.linked"
	TopicFeatureUnlinked = "exptrack.feature.unlinked"
	TopicFeatureSynced   = "exptrack.feature.synced"
)

// Event types

type ExperimentCreated struct {
	Experiment *model.Experiment `json:"experiment"`
}

type ExperimentUpdated struct {
	Experiment *model.Experiment `json:"experiment"`
	Changes    map[string]any    `json:"changes"` // field name -> new value
}

type ExperimentDeleted struct {
	ExperimentID string `json:"experimentId"`
}

type VersionAdded struct {
	Version *model.Version `json:"version"`
}

type FeatureLinked struct {
	ExperimentID string `json:"experimentId"`
	FeatureID    string `json:"featureId"`
}

type FeatureUnlinked struct {
	ExperimentID string `json:"experimentId"`
}

type FeatureSynced struct {
	ExperimentID string    `json:"experimentId"`
	FeatureID    string    `json:"featureId"`
	SyncedAt     time.Time `json:"syncedAt"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
