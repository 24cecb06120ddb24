// Package datastore provides product, supplier and stock lookups backed by the
// rollun datastore, over HTTP or directly from PostgreSQL.
package datastore

import (
	"context"
	"io"
	"time"

	"github.com/rratsunrollun/rollun-usps/pkg/lookup"
	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Config holds datastore configuration. DSN takes precedence over BaseURL.
type Config struct {
	BaseURL string
	DSN     string
	Timeout time.Duration
	UseMock bool
	Cache   *lookup.Cache
}

// Client converts datastore rows into shipping values. Lookup failures are
// logged and reported as missing data.
type Client struct {
	apiClient APIClient
	logger    *otelzap.Logger
}

// New creates a new datastore client. A missing base URL is a configuration
// error unless a DSN or the mock is used.
func New(ctx context.Context, cfg Config, logger *otelzap.Logger) (*Client, error) {
	var apiClient APIClient

	switch {
	case cfg.UseMock:
		apiClient = NewMockAPIClient()
	case cfg.DSN != "":
		sqlClient, err := OpenSQLAPIClient(ctx, cfg.DSN, cfg.Timeout, cfg.Cache)
		if err != nil {
			return nil, err
		}
		apiClient = sqlClient
	case cfg.BaseURL == "":
		return nil, shipping.NewConfigurationError("datastore", "base url", "not configured")
	default:
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Cache:   cfg.Cache,
		})
	}

	return NewWithAPIClient(apiClient, logger), nil
}

// NewWithAPIClient creates a new datastore client with a custom API client.
func NewWithAPIClient(apiClient APIClient, logger *otelzap.Logger) *Client {
	return &Client{
		apiClient: apiClient,
		logger:    logger,
	}
}

// SupplierMappings returns the suppliers carrying a product.
func (c *Client) SupplierMappings(ctx context.Context, productID string) ([]shipping.SupplierMapping, error) {
	rows, err := c.apiClient.SupplierMappings(ctx, productID)
	if err != nil {
		return nil, err
	}

	mappings := make([]shipping.SupplierMapping, 0, len(rows))
	for _, r := range rows {
		mappings = append(mappings, shipping.SupplierMapping{
			SupplierName: r.SupplierName,
			SupplierID:   r.SupplierID,
		})
	}
	return mappings, nil
}

// Dimensions returns the first dimension row of a product, or the unknown
// sentinel when there is none.
func (c *Client) Dimensions(ctx context.Context, productID string) shipping.ItemDimensions {
	rows, err := c.apiClient.Dimensions(ctx, productID)
	if err != nil {
		c.logger.Ctx(ctx).Warn("Dimension lookup failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return shipping.UnknownDimensions()
	}
	if len(rows) == 0 {
		return shipping.UnknownDimensions()
	}

	r := rows[0]
	return shipping.ItemDimensions{
		Length: float64(r.Length),
		Width:  float64(r.Width),
		Height: float64(r.Height),
		Weight: float64(r.Weight),
	}
}

// StopPhrases returns every air-shipping stop phrase.
func (c *Client) StopPhrases(ctx context.Context) []string {
	rows, err := c.apiClient.StopWords(ctx)
	if err != nil {
		c.logger.Ctx(ctx).Warn("Stop word lookup failed", zap.Error(err))
		return nil
	}

	phrases := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.StopPhrase != "" {
			phrases = append(phrases, r.StopPhrase)
		}
	}
	return phrases
}

// ProductTitle returns the catalog title of a product, or "" when unknown.
func (c *Client) ProductTitle(ctx context.Context, productID string) string {
	rows, err := c.apiClient.Products(ctx, productID)
	if err != nil {
		c.logger.Ctx(ctx).Warn("Product lookup failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return ""
	}
	if len(rows) == 0 {
		return ""
	}
	return rows[0].Title
}

// InStock reports whether any of the supplier's stock rows for the product
// has a positive quantity.
func (c *Client) InStock(ctx context.Context, supplier, productID string) bool {
	rows, err := c.apiClient.Inventory(ctx, supplier, productID)
	if err != nil {
		c.logger.Ctx(ctx).Warn("Inventory lookup failed",
			zap.String("supplier", supplier),
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return false
	}
	for _, r := range rows {
		if r.Quantity > 0 {
			return true
		}
	}
	return false
}

// Close releases the underlying connection pool, if any.
func (c *Client) Close() error {
	if closer, ok := c.apiClient.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

var _ shipping.MappingSource = (*Client)(nil)
