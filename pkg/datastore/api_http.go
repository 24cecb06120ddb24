package datastore

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

// HTTPAPIClient is the production implementation of APIClient using the
// datastore REST API. Successful GET responses are kept in the shared cache.
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

// SupplierMappings fetches the supplier mapping rows of a product.
func (c *HTTPAPIClient) SupplierMappings(ctx context.Context, productID string) ([]SupplierMappingRow, error) {
	var rows []SupplierMappingRow
	q := rql.Query{Filter: rql.Eq("rollun_id", productID)}
	if err := c.get(ctx, ResourceSupplierMapping, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Dimensions fetches the dimension rows of a product.
func (c *HTTPAPIClient) Dimensions(ctx context.Context, productID string) ([]DimensionRow, error) {
	var rows []DimensionRow
	q := rql.Query{Filter: rql.Eq("rollun_id", productID)}
	if err := c.get(ctx, ResourceDimensions, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// StopWords fetches every air-shipping stop phrase.
func (c *HTTPAPIClient) StopWords(ctx context.Context) ([]StopWordRow, error) {
	var rows []StopWordRow
	if err := c.get(ctx, ResourceStopWords, rql.Query{}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Products fetches the catalog rows of a product.
func (c *HTTPAPIClient) Products(ctx context.Context, productID string) ([]ProductRow, error) {
	var rows []ProductRow
	q := rql.Query{Filter: rql.Eq("rollun_id", productID), Limit: 1}
	if err := c.get(ctx, ResourceProducts, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Inventory fetches a supplier's stock rows for a product.
func (c *HTTPAPIClient) Inventory(ctx context.Context, supplier, productID string) ([]InventoryRow, error) {
	var rows []InventoryRow
	q := rql.Query{Filter: rql.Eq("rollun_id", productID)}
	if err := c.get(ctx, InventoryResource(supplier), q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ============================================================================
// HTTP Helpers
// ============================================================================

// URL returns the request URL of a resource query. It is also the cache key.
func (c *HTTPAPIClient) URL(resource string, q rql.Query) string {
	u := c.baseURL + "/api/datastore/" + resource
	if s := q.String(); s != "" {
		u += "?" + s
	}
	return u
}

func (c *HTTPAPIClient) get(ctx context.Context, resource string, q rql.Query, out any) error {
	url := c.URL(resource, q)

	body, err := c.cache.Fetch(ctx, url, func(ctx context.Context) ([]byte, error) {
		return c.doRequest(ctx, resource, url)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", resource, err)
	}
	return nil
}

func (c *HTTPAPIClient) doRequest(ctx context.Context, resource, url string) ([]byte, error) {
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
		return nil, fmt.Errorf("failed to read %s response: %w", resource, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Resource:   resource,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

var _ APIClient = (*HTTPAPIClient)(nil)
