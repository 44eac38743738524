package backup

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/groblegark/exptrack/internal/model"
	"github.com/groblegark/exptrack/internal/store"
)

// mockStore is an in-memory store.Store for export tests.
type mockStore struct {
	experiments map[string]*model.Experiment
	versions    map[string][]*model.Version
}

func newMockStore() *mockStore {
	return &mockStore{
		experiments: make(map[string]*model.Experiment),
		versions:    make(map[string][]*model.Version),
	}
}

func (m *mockStore) CreateExperiment(_ context.Context, exp *model.Experiment) error {
	m.experiments[exp.ID] = exp
	return nil
}

func (m *mockStore) GetExperiment(_ context.Context, id string) (*model.Experiment, error) {
	exp, ok := m.experiments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return exp, nil
}

func (m *mockStore) ListExperiments(_ context.Context, _ model.ExperimentFilter) ([]*model.Experiment, error) {
	var result []*model.Experiment
	for _, exp := range m.experiments {
		clone := *exp
		versions := append([]*model.Version(nil), m.versions[exp.ID]...)
		sort.Slice(versions, func(i, j int) bool {
			return versions[i].ChangeDate.After(versions[j].ChangeDate)
		})
		clone.Versions = versions
		result = append(result, &clone)
	}
	return result, nil
}

func (m *mockStore) UpdateExperiment(_ context.Context, exp *model.Experiment) error {
	if _, ok := m.experiments[exp.ID]; !ok {
		return sql.ErrNoRows
	}
	m.experiments[exp.ID] = exp
	return nil
}

func (m *mockStore) DeleteExperiment(_ context.Context, id string) error {
	if _, ok := m.experiments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.experiments, id)
	return nil
}

func (m *mockStore) LinkFeature(_ context.Context, id, featureID string, syncedAt time.Time) error {
	exp, ok := m.experiments[id]
	if !ok {
		return sql.ErrNoRows
	}
	exp.GrowthbookFeatureID = &featureID
	exp.LastSyncedAt = &syncedAt
	return nil
}

func (m *mockStore) UnlinkFeature(_ context.Context, id string) error {
	exp, ok := m.experiments[id]
	if !ok {
		return sql.ErrNoRows
	}
	exp.GrowthbookFeatureID = nil
	exp.LastSyncedAt = nil
	return nil
}

func (m *mockStore) MarkSynced(_ context.Context, id string, syncedAt time.Time) error {
	exp, ok := m.experiments[id]
	if !ok {
		return sql.ErrNoRows
	}
	exp.LastSyncedAt = &syncedAt
	return nil
}

func (m *mockStore) ListLinkedExperiments(_ context.Context) ([]*model.Experiment, error) {
	var result []*model.Experiment
	for _, exp := range m.experiments {
		if exp.GrowthbookFeatureID != nil {
			result = append(result, exp)
		}
	}
	return result, nil
}

func (m *mockStore) CreateVersion(_ context.Context, version *model.Version) error {
	m.versions[version.ExperimentID] = append(m.versions[version.ExperimentID], version)
	return nil
}

func (m *mockStore) ListVersions(_ context.Context, experimentID string) ([]*model.Version, error) {
	return m.versions[experimentID], nil
}

func (m *mockStore) CountExperiments(_ context.Context) (int, error) {
	return len(m.experiments), nil
}

func (m *mockStore) Close() error { return nil }

var _ store.Store = (*mockStore)(nil)
