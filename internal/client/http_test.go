package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method      string
	path        string
	query       string
	body        string
	contentType string
	authHeader  string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.query = r.URL.RawQuery
	h.contentType = r.Header.Get("Content-Type")
	h.authHeader = r.Header.Get("Authorization")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given handler.
func newTestClient(h http.Handler) (*HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(h)
	c := NewHTTPClient(srv.URL, "")
	return c, srv
}

func TestHTTPClient_CreateExperiment(t *testing.T) {
	h := &testHandler{
		statusCode: http.StatusCreated,
		responseBody: `{
			"id": "exp-abc123",
			"name": "Checkout test",
			"expParameter": "checkout",
			"userGroup": "all",
			"numbersList": [],
			"liveDate": "2025-06-01T00:00:00Z",
			"platforms": ["ios"],
			"isActive": true,
			"growthbookFeatureId": null,
			"lastSyncedAt": null,
			"createdAt": "2025-06-01T00:00:00Z",
			"updatedAt": "2025-06-01T00:00:00Z"
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	exp, err := c.CreateExperiment(context.Background(), &CreateExperimentRequest{
		Name:         "Checkout test",
		ExpParameter: "checkout",
		UserGroup:    "all",
		LiveDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Platforms:    []string{"ios"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h.method != "POST" || h.path != "/v1/experiments" {
		t.Errorf("got %s %s", h.method, h.path)
	}
	if h.contentType != "application/json" {
		t.Errorf("content type = %q", h.contentType)
	}
	if !strings.Contains(h.body, `"expParameter":"checkout"`) {
		t.Errorf("request body = %s", h.body)
	}
	if exp.ID != "exp-abc123" || exp.Name != "Checkout test" {
		t.Errorf("got id=%q name=%q", exp.ID, exp.Name)
	}
}

func TestHTTPClient_GetExperiment_RemoteSection(t *testing.T) {
	h := &testHandler{
		responseBody: `{
			"id": "exp-abc123",
			"name": "Dark mode",
			"growthbookFeatureId": "feat_dark",
			"lastSyncedAt": "2025-06-01T12:00:00Z",
			"remote": {"featureId": "feat_dark", "key": "dark-mode", "enabled": true}
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	detail, err := c.GetExperiment(context.Background(), "exp-abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.path != "/v1/experiments/exp-abc123" {
		t.Errorf("path = %q", h.path)
	}
	if detail.ID != "exp-abc123" {
		t.Errorf("id = %q", detail.ID)
	}

	var remote map[string]any
	if err := json.Unmarshal(detail.Remote, &remote); err != nil {
		t.Fatalf("unmarshal remote: %v", err)
	}
	if remote["key"] != "dark-mode" {
		t.Errorf("remote key = %v", remote["key"])
	}
}

func TestHTTPClient_GetExperiment_NullRemote(t *testing.T) {
	h := &testHandler{
		responseBody: `{"id": "exp-abc123", "name": "Unlinked", "remote": null}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	detail, err := c.GetExperiment(context.Background(), "exp-abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(detail.Remote) != "null" {
		t.Errorf("remote = %s, want null", detail.Remote)
	}
}

func TestHTTPClient_ListExperiments_Query(t *testing.T) {
	h := &testHandler{
		responseBody: `{"experiments": [], "total": 0}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	active := true
	_, err := c.ListExperiments(context.Background(), &ListExperimentsRequest{
		Platform: "ios",
		IsActive: &active,
		Search:   "checkout",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.query != "isActive=true&platform=ios&search=checkout" {
		t.Errorf("query = %q", h.query)
	}
}

func TestHTTPClient_DeleteExperiment_NoContent(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	c, srv := newTestClient(h)
	defer srv.Close()

	if err := c.DeleteExperiment(context.Background(), "exp-abc123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != "DELETE" || h.path != "/v1/experiments/exp-abc123" {
		t.Errorf("got %s %s", h.method, h.path)
	}
}

func TestHTTPClient_AddVersion(t *testing.T) {
	h := &testHandler{
		statusCode: http.StatusCreated,
		responseBody: `{
			"id": "ver-xyz",
			"experimentId": "exp-abc123",
			"changeDate": "2025-06-15T00:00:00Z",
			"changes": "Ramped to 50%"
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	v, err := c.AddVersion(context.Background(), "exp-abc123",
		time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), "Ramped to 50%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.path != "/v1/experiments/exp-abc123/versions" {
		t.Errorf("path = %q", h.path)
	}
	if v.ID != "ver-xyz" || v.Changes != "Ramped to 50%" {
		t.Errorf("got %+v", v)
	}
}

func TestHTTPClient_SyncExperiment(t *testing.T) {
	h := &testHandler{
		responseBody: `{
			"success": true,
			"lastSyncedAt": "2025-06-01T12:00:00Z",
			"growthbook": {"featureId": "feat_dark", "key": "dark-mode"}
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	resp, err := c.SyncExperiment(context.Background(), "exp-abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != "POST" || h.path != "/v1/experiments/exp-abc123/sync" {
		t.Errorf("got %s %s", h.method, h.path)
	}
	if !resp.Success || len(resp.Growthbook) == 0 {
		t.Errorf("got %+v", resp)
	}
}

func TestHTTPClient_LinkAndUnlink(t *testing.T) {
	h := &testHandler{
		responseBody: `{
			"success": true,
			"experiment": {"id": "exp-abc123", "growthbookFeatureId": "feat_dark"},
			"feature": {"key": "dark-mode", "enabled": true, "valueType": "boolean"}
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	resp, err := c.LinkFeature(context.Background(), "exp-abc123", "feat_dark")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != "POST" || h.path != "/v1/experiments/exp-abc123/link" {
		t.Errorf("got %s %s", h.method, h.path)
	}
	if !strings.Contains(h.body, `"growthbookFeatureId":"feat_dark"`) {
		t.Errorf("request body = %s", h.body)
	}
	if resp.Feature.Key != "dark-mode" || !resp.Feature.Enabled {
		t.Errorf("got feature %+v", resp.Feature)
	}

	h.responseBody = `{"success": true, "experiment": {"id": "exp-abc123", "growthbookFeatureId": null}}`
	exp, err := c.UnlinkFeature(context.Background(), "exp-abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != "DELETE" || h.path != "/v1/experiments/exp-abc123/link" {
		t.Errorf("got %s %s", h.method, h.path)
	}
	if exp.GrowthbookFeatureID != nil {
		t.Errorf("expected unlinked experiment, got %+v", exp)
	}
}

func TestHTTPClient_SearchFeatures(t *testing.T) {
	h := &testHandler{
		responseBody: `{
			"features": [
				{"id": "f1", "key": "promo-banner", "alreadyLinked": true,
				 "linkedTo": {"experimentId": "exp-1", "experimentName": "Banner test"}},
				{"id": "f2", "key": "promo-footer", "alreadyLinked": false, "linkedTo": null}
			],
			"count": 2
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	resp, err := c.SearchFeatures(context.Background(), "promo", "proj_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.query != "projectId=proj_1&search=promo" {
		t.Errorf("query = %q", h.query)
	}
	if resp.Count != 2 || len(resp.Features) != 2 {
		t.Fatalf("got %+v", resp)
	}
	if !resp.Features[0].AlreadyLinked || resp.Features[0].LinkedTo.ExperimentID != "exp-1" {
		t.Errorf("got %+v", resp.Features[0])
	}
	if resp.Features[1].AlreadyLinked || resp.Features[1].LinkedTo != nil {
		t.Errorf("got %+v", resp.Features[1])
	}
}

func TestHTTPClient_Health(t *testing.T) {
	h := &testHandler{
		responseBody: `{"status": "ok", "database": "connected", "experimentCount": 7}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "ok" || resp.ExperimentCount != 7 {
		t.Errorf("got %+v", resp)
	}
}

func TestHTTPClient_AuthHeader(t *testing.T) {
	h := &testHandler{responseBody: `{"experiments": [], "total": 0}`}
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret")
	if _, err := c.ListExperiments(context.Background(), &ListExperimentsRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.authHeader != "Bearer secret" {
		t.Errorf("authorization = %q", h.authHeader)
	}
}

func TestHTTPClient_Error_404(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusNotFound,
		responseBody: `{"error": "experiment not found"}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	_, err := c.GetExperiment(context.Background(), "nonexistent")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Message != "experiment not found" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestHTTPClient_Error_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	_, err := c.GetExperiment(context.Background(), "exp-123")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Message != "internal server error" {
		t.Errorf("message = %q", apiErr.Message)
	}
}
