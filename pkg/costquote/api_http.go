package costquote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rratsunrollun/rollun-usps/pkg/lookup"
	"github.com/rratsunrollun/rollun-usps/pkg/rql"
)

// HTTPAPIClient queries the shipping cost resource over HTTP.
type HTTPAPIClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *lookup.Cache
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Cache   *lookup.Cache
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPAPIClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: cfg.Cache,
	}
}

// URL returns the request URL of an encoded query.
func (c *HTTPAPIClient) URL(q rql.Query) string {
	u := c.baseURL + "/api/datastore/" + ResourceShippingCost
	if s := q.String(); s != "" {
		u += "?" + s
	}
	return u
}

// Costs fetches the cost rows matching q. Identical queries are answered
// from the cache.
func (c *HTTPAPIClient) Costs(ctx context.Context, q rql.Query) ([]CostRow, error) {
	url := c.URL(q)

	body, err := c.cache.Fetch(ctx, url, func(ctx context.Context) ([]byte, error) {
		return c.doRequest(ctx, url)
	})
	if err != nil {
		return nil, err
	}

	var rows []CostRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode cost response: %w", err)
	}
	return rows, nil
}

func (c *HTTPAPIClient) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cost response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

var _ APIClient = (*HTTPAPIClient)(nil)
