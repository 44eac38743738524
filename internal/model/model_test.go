package model

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestExperiment_IsLinked(t *testing.T) {
	e := &Experiment{}
	if e.IsLinked() {
		t.Error("nil GrowthbookFeatureID should not be linked")
	}
	e.GrowthbookFeatureID = strPtr("")
	if e.IsLinked() {
		t.Error("empty GrowthbookFeatureID should not be linked")
	}
	e.GrowthbookFeatureID = strPtr("feat_abc")
	if !e.IsLinked() {
		t.Error("non-empty GrowthbookFeatureID should be linked")
	}
}

func TestExperiment_SyncedWithin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 5 * time.Minute

	e := &Experiment{}
	if e.SyncedWithin(ttl, now) {
		t.Error("nil LastSyncedAt should be infinitely stale")
	}

	for _, tc := range []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"fresh", 4 * time.Minute, true},
		{"exactly at TTL", 5 * time.Minute, true},
		{"stale", 6 * time.Minute, false},
		{"just synced", 0, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			synced := now.Add(-tc.age)
			e := &Experiment{LastSyncedAt: &synced}
			if got := e.SyncedWithin(ttl, now); got != tc.want {
				t.Errorf("SyncedWithin(age=%v) = %v, want %v", tc.age, got, tc.want)
			}
		})
	}
}
