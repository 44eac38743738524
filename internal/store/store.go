package store

import (
	"context"
	"time"

	"github.com/groblegark/exptrack/internal/model"
)

// Store defines the persistence interface for experiments and versions.
// Lookups for missing records surface sql.ErrNoRows.
type Store interface {
	// Experiment CRUD
	CreateExperiment(ctx context.Context, exp *model.Experiment) error
	GetExperiment(ctx context.Context, id string) (*model.Experiment, error)
	ListExperiments(ctx context.Context, filter model.ExperimentFilter) ([]*model.Experiment, error)
	UpdateExperiment(ctx context.Context, exp *model.Experiment) error
	DeleteExperiment(ctx context.Context, id string) error

	// GrowthBook link bookkeeping. MarkSynced only touches lastSyncedAt;
	// LinkFeature/UnlinkFeature set or clear the feature id together with it.
	LinkFeature(ctx context.Context, id, featureID string, syncedAt time.Time) error
	UnlinkFeature(ctx context.Context, id string) error
	MarkSynced(ctx context.Context, id string, syncedAt time.Time) error
	ListLinkedExperiments(ctx context.Context) ([]*model.Experiment, error)

	// Versions (append-only)
	CreateVersion(ctx context.Context, version *model.Version) error
	ListVersions(ctx context.Context, experimentID string) ([]*model.Version, error)

	// Health
	CountExperiments(ctx context.Context) (int, error)

	// Lifecycle
	Close() error
}
