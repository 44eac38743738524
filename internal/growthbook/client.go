package growthbook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public GrowthBook API endpoint.
const DefaultBaseURL = "https://api.growthbook.io/api/v1"

// requestTimeout is the fixed client-side timeout for every API call.
// A single attempt is made per call; there are no retries.
const requestTimeout = 10 * time.Second

var (
	// ErrNotConfigured is returned when a network operation is attempted
	// without an API key. Callers are expected to check IsConfigured first.
	ErrNotConfigured = errors.New("growthbook: API key is not configured")

	// ErrFeatureNotFound is returned by GetFeature when the feature does not
	// exist on the remote side.
	ErrFeatureNotFound = errors.New("growthbook: feature not found")

	// ErrTimeout is returned when a request exceeds the client timeout.
	ErrTimeout = errors.New("growthbook: request timed out")
)

// APIError represents a non-2xx response from the GrowthBook API.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("growthbook API error: %d %s. %s", e.StatusCode, e.Status, e.Body)
}

// Client talks to the GrowthBook features REST API. It is stateless and safe
// for concurrent use. Construct it explicitly and pass it where needed; do
// not read the environment at call sites.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL and API key. An empty
// baseURL falls back to DefaultBaseURL. An empty apiKey produces an
// unconfigured client: IsConfigured reports false and every network call
// fails with ErrNotConfigured.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// ListOptions are the query parameters for ListFeatures. Zero values are
// omitted from the request entirely.
type ListOptions struct {
	ProjectID string
	Limit     int
	Offset    int
}

// FeatureList is the response of the paginated features list endpoint.
type FeatureList struct {
	Features []*Feature `json:"features"`
	Total    int        `json:"total"`
	HasMore  bool       `json:"hasMore"`
}

// ListFeatures fetches a page of features, passing the list options through
// as query parameters.
func (c *Client) ListFeatures(ctx context.Context, opts ListOptions) (*FeatureList, error) {
	q := url.Values{}
	if opts.ProjectID != "" {
		q.Set("projectId", opts.ProjectID)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}

	path := "/features"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list FeatureList
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetFeature fetches a single feature by id, including its most recent
// published revision. The result is three-way: the feature on success,
// ErrFeatureNotFound when the remote side has no such feature, or the
// underlying transport error otherwise. Read-path callers that want the
// original soft-null behavior collapse all failures to "no feature".
func (c *Client) GetFeature(ctx context.Context, id string) (*Feature, error) {
	var resp struct {
		Feature *Feature `json:"feature"`
	}
	err := c.get(ctx, "/features/"+url.PathEscape(id)+"?includeRevisions=published", &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrFeatureNotFound
		}
		return nil, err
	}
	if resp.Feature == nil {
		return nil, ErrFeatureNotFound
	}
	return resp.Feature, nil
}

// SearchFeatures returns the features whose key or description contains the
// term as a case-insensitive substring. The features API has no server-side
// text search, so up to 100 features are fetched and filtered here.
func (c *Client) SearchFeatures(ctx context.Context, term, projectID string) ([]*Feature, error) {
	list, err := c.ListFeatures(ctx, ListOptions{ProjectID: projectID, Limit: 100})
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(term)
	matches := []*Feature{}
	for _, f := range list.Features {
		if strings.Contains(strings.ToLower(f.Key), lower) ||
			strings.Contains(strings.ToLower(f.Description), lower) {
			matches = append(matches, f)
		}
	}
	return matches, nil
}

// GetFeatureByKey finds a feature by exact key match, or returns
// ErrFeatureNotFound.
func (c *Client) GetFeatureByKey(ctx context.Context, key, projectID string) (*Feature, error) {
	features, err := c.SearchFeatures(ctx, key, projectID)
	if err != nil {
		return nil, err
	}
	for _, f := range features {
		if f.Key == key {
			return f, nil
		}
	}
	return nil, ErrFeatureNotFound
}

// get performs an authenticated GET against the API and decodes the JSON
// response into result.
func (c *Client) get(ctx context.Context, path string, result any) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			return fmt.Errorf("GET %s: %w", path, ErrTimeout)
		}
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
