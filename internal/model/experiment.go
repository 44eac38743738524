// Package model defines the core records tracked by exptrack and their
// validation rules.
package model

import (
	"time"
)

// Experiment is the core tracked record: a feature-flag-style configuration
// entry with an optional link to a GrowthBook feature.
type Experiment struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ExpParameter string    `json:"expParameter"`
	UserGroup    string    `json:"userGroup"`
	NumbersList  []string  `json:"numbersList"`
	LiveDate     time.Time `json:"liveDate"`
	Platforms    []string  `json:"platforms"`
	Context      string    `json:"context,omitempty"`
	IsActive     bool      `json:"isActive"`

	// GrowthBook link. A nil GrowthbookFeatureID means "not linked";
	// a nil LastSyncedAt means "never synced".
	GrowthbookFeatureID *string    `json:"growthbookFeatureId"`
	LastSyncedAt        *time.Time `json:"lastSyncedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Versions is populated by queries, not stored on the experiments table.
	// Ordered by change date, newest first.
	Versions []*Version `json:"versions,omitempty"`
}

// IsLinked reports whether the experiment is linked to a GrowthBook feature.
func (e *Experiment) IsLinked() bool {
	return e.GrowthbookFeatureID != nil && *e.GrowthbookFeatureID != ""
}

// SyncedWithin reports whether the experiment's remote data was refreshed
// within the given window of now. A nil LastSyncedAt is infinitely stale.
func (e *Experiment) SyncedWithin(ttl time.Duration, now time.Time) bool {
	if e.LastSyncedAt == nil {
		return false
	}
	return now.Sub(*e.LastSyncedAt) <= ttl
}

// Version is one entry in an experiment's change log. Versions are
// append-only; there is no update or delete surface.
type Version struct {
	ID           string    `json:"id"`
	ExperimentID string    `json:"experimentId"`
	ChangeDate   time.Time `json:"changeDate"`
	Changes      string    `json:"changes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
