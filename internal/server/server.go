// Package server implements the exptrack HTTP API: experiment CRUD, the
// version change log, and the GrowthBook enrichment endpoints.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/groblegark/exptrack/internal/events"
	"github.com/groblegark/exptrack/internal/growthbook"
	"github.com/groblegark/exptrack/internal/store"
)

// syncTTL is the freshness window for remote feature data. A linked
// experiment whose lastSyncedAt is within this window is not re-fetched on
// the read path.
const syncTTL = 5 * time.Minute

// FeatureSource is the subset of the GrowthBook client the server consumes.
// *growthbook.Client satisfies it; tests substitute a mock with call counters.
type FeatureSource interface {
	IsConfigured() bool
	GetFeature(ctx context.Context, id string) (*growthbook.Feature, error)
	SearchFeatures(ctx context.Context, term, projectID string) ([]*growthbook.Feature, error)
}

var _ FeatureSource = (*growthbook.Client)(nil)

// ExperimentServer holds the dependencies shared by all request handlers.
type ExperimentServer struct {
	store     store.Store
	features  FeatureSource
	publisher events.Publisher

	// now is replaceable in tests to pin the TTL gate.
	now func() time.Time
}

// NewExperimentServer returns an ExperimentServer backed by the given store,
// feature source, and publisher.
func NewExperimentServer(s store.Store, f FeatureSource, p events.Publisher) *ExperimentServer {
	return &ExperimentServer{
		store:     s,
		features:  f,
		publisher: p,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// publish emits an event to the publisher. Best-effort: failures are logged
// and never block the caller.
func (s *ExperimentServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// inputError indicates invalid user input. The HTTP layer maps it to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
