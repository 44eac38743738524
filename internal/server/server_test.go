package server

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/groblegark/exptrack/internal/growthbook"
	"github.com/groblegark/exptrack/internal/model"
	"github.com/groblegark/exptrack/internal/store"
)

// mockStore is an in-memory store.Store for handler tests.
type mockStore struct {
	experiments map[string]*model.Experiment
	versions    map[string][]*model.Version

	markSyncedCalls int
}

func newMockStore() *mockStore {
	return &mockStore{
		experiments: make(map[string]*model.Experiment),
		versions:    make(map[string][]*model.Version),
	}
}

func (m *mockStore) CreateExperiment(_ context.Context, exp *model.Experiment) error {
	clone := *exp
	m.experiments[exp.ID] = &clone
	return nil
}

func (m *mockStore) GetExperiment(_ context.Context, id string) (*model.Experiment, error) {
	exp, ok := m.experiments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *exp
	clone.Versions = m.sortedVersions(id)
	return &clone, nil
}

func (m *mockStore) ListExperiments(_ context.Context, filter model.ExperimentFilter) ([]*model.Experiment, error) {
	var result []*model.Experiment
	for _, exp := range m.experiments {
		if filter.Platform != "" && !contains(exp.Platforms, filter.Platform) {
			continue
		}
		if filter.UserGroup != "" && exp.UserGroup != filter.UserGroup {
			continue
		}
		if filter.IsActive != nil && exp.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" {
			term := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(exp.Name), term) &&
				!strings.Contains(strings.ToLower(exp.ExpParameter), term) {
				continue
			}
		}
		clone := *exp
		clone.Versions = m.sortedVersions(exp.ID)
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LiveDate.After(result[j].LiveDate)
	})
	return result, nil
}

func (m *mockStore) UpdateExperiment(_ context.Context, exp *model.Experiment) error {
	if _, ok := m.experiments[exp.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *exp
	m.experiments[exp.ID] = &clone
	return nil
}

func (m *mockStore) DeleteExperiment(_ context.Context, id string) error {
	if _, ok := m.experiments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.experiments, id)
	delete(m.versions, id)
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
	m.markSyncedCalls++
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
			clone := *exp
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (m *mockStore) CreateVersion(_ context.Context, version *model.Version) error {
	clone := *version
	m.versions[version.ExperimentID] = append(m.versions[version.ExperimentID], &clone)
	return nil
}

func (m *mockStore) ListVersions(_ context.Context, experimentID string) ([]*model.Version, error) {
	return m.sortedVersions(experimentID), nil
}

func (m *mockStore) CountExperiments(_ context.Context) (int, error) {
	return len(m.experiments), nil
}

func (m *mockStore) Close() error { return nil }

func (m *mockStore) sortedVersions(experimentID string) []*model.Version {
	versions := append([]*model.Version(nil), m.versions[experimentID]...)
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].ChangeDate.After(versions[j].ChangeDate)
	})
	return versions
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var _ store.Store = (*mockStore)(nil)

// mockFeatures is a FeatureSource with call counters for cache-gate tests.
type mockFeatures struct {
	configured bool
	features   map[string]*growthbook.Feature
	err        error // returned by GetFeature/SearchFeatures when non-nil

	getCalls    int
	searchCalls int
}

func newMockFeatures() *mockFeatures {
	return &mockFeatures{
		configured: true,
		features:   make(map[string]*growthbook.Feature),
	}
}

func (m *mockFeatures) IsConfigured() bool { return m.configured }

func (m *mockFeatures) GetFeature(_ context.Context, id string) (*growthbook.Feature, error) {
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	f, ok := m.features[id]
	if !ok {
		return nil, growthbook.ErrFeatureNotFound
	}
	return f, nil
}

func (m *mockFeatures) SearchFeatures(_ context.Context, term, _ string) ([]*growthbook.Feature, error) {
	m.searchCalls++
	if m.err != nil {
		return nil, m.err
	}
	var result []*growthbook.Feature
	for _, f := range m.features {
		if strings.Contains(strings.ToLower(f.Key), strings.ToLower(term)) ||
			strings.Contains(strings.ToLower(f.Description), strings.ToLower(term)) {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// mockPublisher records published topics.
type mockPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (m *mockPublisher) Publish(_ context.Context, topic string, _ any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = append(m.topics, topic)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

// newTestServer returns a fresh server, its mocks, and an HTTP handler
// without auth.
func newTestServer() (*ExperimentServer, *mockStore, *mockFeatures, http.Handler) {
	ms := newMockStore()
	mf := newMockFeatures()
	s := NewExperimentServer(ms, mf, &mockPublisher{})
	return s, ms, mf, s.NewHTTPHandler("")
}
