package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/groblegark/exptrack/internal/model"
)

// HTTPClient implements ExperimentsClient using the exptrack HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Experiment CRUD ---

func (c *HTTPClient) CreateExperiment(ctx context.Context, req *CreateExperimentRequest) (*model.Experiment, error) {
	var exp model.Experiment
	if err := c.doJSON(ctx, http.MethodPost, "/v1/experiments", req, &exp); err != nil {
		return nil, err
	}
	return &exp, nil
}

func (c *HTTPClient) GetExperiment(ctx context.Context, id string) (*ExperimentDetail, error) {
	var detail ExperimentDetail
	if err := c.doJSON(ctx, http.MethodGet, "/v1/experiments/"+url.PathEscape(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *HTTPClient) ListExperiments(ctx context.Context, req *ListExperimentsRequest) (*ListExperimentsResponse, error) {
	q := url.Values{}
	if req.Platform != "" {
		q.Set("platform", req.Platform)
	}
	if req.UserGroup != "" {
		q.Set("userGroup", req.UserGroup)
	}
	if req.IsActive != nil {
		q.Set("isActive", strconv.FormatBool(*req.IsActive))
	}
	if req.Search != "" {
		q.Set("search", req.Search)
	}

	path := "/v1/experiments"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListExperimentsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateExperiment(ctx context.Context, id string, req *UpdateExperimentRequest) (*model.Experiment, error) {
	var exp model.Experiment
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/experiments/"+url.PathEscape(id), req, &exp); err != nil {
		return nil, err
	}
	return &exp, nil
}

func (c *HTTPClient) DeleteExperiment(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/experiments/"+url.PathEscape(id), nil, nil)
}

// --- Versions ---

func (c *HTTPClient) AddVersion(ctx context.Context, experimentID string, changeDate time.Time, changes string) (*model.Version, error) {
	body := map[string]any{
		"changeDate": changeDate,
		"changes":    changes,
	}
	var version model.Version
	path := "/v1/experiments/" + url.PathEscape(experimentID) + "/versions"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &version); err != nil {
		return nil, err
	}
	return &version, nil
}

func (c *HTTPClient) ListVersions(ctx context.Context, experimentID string) ([]*model.Version, error) {
	var resp struct {
		Versions []*model.Version `json:"versions"`
	}
	path := "/v1/experiments/" + url.PathEscape(experimentID) + "/versions"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Versions, nil
}

// --- GrowthBook ---

func (c *HTTPClient) SyncExperiment(ctx context.Context, id string) (*SyncResponse, error) {
	var resp SyncResponse
	path := "/v1/experiments/" + url.PathEscape(id) + "/sync"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) LinkFeature(ctx context.Context, id, featureID string) (*LinkResponse, error) {
	body := map[string]string{"growthbookFeatureId": featureID}
	var resp LinkResponse
	path := "/v1/experiments/" + url.PathEscape(id) + "/link"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UnlinkFeature(ctx context.Context, id string) (*model.Experiment, error) {
	var resp struct {
		Experiment *model.Experiment `json:"experiment"`
	}
	path := "/v1/experiments/" + url.PathEscape(id) + "/link"
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Experiment, nil
}

func (c *HTTPClient) SearchFeatures(ctx context.Context, search, projectID string) (*SearchFeaturesResponse, error) {
	q := url.Values{}
	q.Set("search", search)
	if projectID != "" {
		q.Set("projectId", projectID)
	}

	var resp SearchFeaturesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/growthbook/features?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with an optional JSON body and decodes the
// JSON response into result (when non-nil).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
