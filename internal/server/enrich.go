package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/groblegark/exptrack/internal/growthbook"
	"github.com/groblegark/exptrack/internal/model"
)

// remoteFeature is the enriched GrowthBook section merged into experiment
// responses. All summary fields are computed for the production environment.
type remoteFeature struct {
	FeatureID        string                      `json:"featureId"`
	Key              string                      `json:"key"`
	ValueType        growthbook.ValueType        `json:"valueType"`
	DefaultValue     any                         `json:"defaultValue"`
	Description      string                      `json:"description"`
	Enabled          bool                        `json:"enabled"`
	Tags             []string                    `json:"tags"`
	Rules            []growthbook.Rule           `json:"rules"`
	Experiments      []growthbook.ExperimentInfo `json:"experiments"`
	TargetingSummary []string                    `json:"targetingSummary"`
	HasExperiments   bool                        `json:"hasExperiments"`
	HasRollouts      bool                        `json:"hasRollouts"`
	HasOverrides     bool                        `json:"hasOverrides"`
	RuleCount        int                         `json:"ruleCount"`
	Revision         *growthbook.Revision        `json:"revision,omitempty"`
}

// remoteError is the error-shaped remote section returned when enrichment
// fails unexpectedly on the read path. The experiment itself still loads.
type remoteError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// buildRemoteFeature assembles the enriched payload from a fetched feature.
func buildRemoteFeature(f *growthbook.Feature) *remoteFeature {
	status := f.Status(growthbook.DefaultEnvironment)
	rules := f.EnvironmentRules(growthbook.DefaultEnvironment)
	if rules == nil {
		rules = []growthbook.Rule{}
	}
	return &remoteFeature{
		FeatureID:        f.ID,
		Key:              f.Key,
		ValueType:        f.ValueType,
		DefaultValue:     f.DefaultValue,
		Description:      f.Description,
		Enabled:          status.Enabled,
		Tags:             f.Tags,
		Rules:            rules,
		Experiments:      f.ExtractExperiments(growthbook.DefaultEnvironment),
		TargetingSummary: f.TargetingSummary(growthbook.DefaultEnvironment),
		HasExperiments:   status.HasExperiments,
		HasRollouts:      status.HasRollouts,
		HasOverrides:     status.HasOverrides,
		RuleCount:        status.RuleCount,
		Revision:         f.Revision,
	}
}

// enrichExperiment decides, per request, whether to fetch remote feature data
// for the experiment and returns the "remote" section of the response:
//
//   - nil when the experiment is unlinked, the client is unconfigured, the
//     cached timestamp is still fresh, or the linked feature no longer exists
//     (dangling link: no timestamp update, so the next request retries);
//   - *remoteFeature on a successful fetch, after persisting lastSyncedAt;
//   - *remoteError on an unexpected fetch failure, without touching the
//     timestamp. Enrichment failure never fails the read itself.
func (s *ExperimentServer) enrichExperiment(ctx context.Context, exp *model.Experiment) any {
	if !exp.IsLinked() || !s.features.IsConfigured() {
		return nil
	}

	now := s.now()
	if exp.SyncedWithin(syncTTL, now) {
		return nil
	}

	feature, err := s.features.GetFeature(ctx, *exp.GrowthbookFeatureID)
	if errors.Is(err, growthbook.ErrFeatureNotFound) {
		return nil
	}
	if err != nil {
		slog.Warn("failed to fetch GrowthBook feature",
			"experiment_id", exp.ID, "feature_id", *exp.GrowthbookFeatureID, "error", err)
		return &remoteError{
			Error:   "Failed to fetch GrowthBook data",
			Message: err.Error(),
		}
	}

	if err := s.store.MarkSynced(ctx, exp.ID, now); err != nil {
		slog.Warn("failed to record sync timestamp", "experiment_id", exp.ID, "error", err)
	} else {
		exp.LastSyncedAt = &now
	}

	return buildRemoteFeature(feature)
}
