// Package costquote implements the cost-quote service client. Structured cost
// queries are encoded as RQL and sent to the shipping cost resource.
package costquote

import (
	"context"
	"fmt"
	"time"

	"github.com/rratsunrollun/rollun-usps/pkg/lookup"
	"github.com/rratsunrollun/rollun-usps/pkg/rql"
	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Config holds cost-quote configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	UseMock bool
	Cache   *lookup.Cache
}

// Client is the cost-quote service client.
type Client struct {
	apiClient APIClient
	logger    *otelzap.Logger
}

// New creates a new cost-quote client.
func New(cfg Config, logger *otelzap.Logger) (*Client, error) {
	var apiClient APIClient

	switch {
	case cfg.UseMock:
		apiClient = NewMockAPIClient()
	case cfg.BaseURL == "":
		return nil, shipping.NewConfigurationError("cost quote", "base url", "not configured")
	default:
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Cache:   cfg.Cache,
		})
	}

	return NewWithAPIClient(apiClient, logger), nil
}

// NewWithAPIClient creates a new cost-quote client with a custom API client.
func NewWithAPIClient(apiClient APIClient, logger *otelzap.Logger) *Client {
	return &Client{
		apiClient: apiClient,
		logger:    logger,
	}
}

// Query validates and sends a cost query. Invalid queries never reach the
// service.
func (c *Client) Query(ctx context.Context, q *shipping.CostQuery) ([]shipping.CostQuote, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	encoded, err := Encode(q)
	if err != nil {
		return nil, err
	}

	c.logger.Ctx(ctx).Debug("Querying shipping costs", zap.String("query", encoded.String()))

	rows, err := c.apiClient.Costs(ctx, encoded)
	if err != nil {
		return nil, fmt.Errorf("cost query failed: %w", err)
	}

	quotes := make([]shipping.CostQuote, 0, len(rows))
	for _, r := range rows {
		if r.ID == "" {
			continue
		}
		quotes = append(quotes, shipping.CostQuote{
			ID:   r.ID,
			Name: r.Name,
			Cost: float64(r.Cost),
		})
	}
	return quotes, nil
}

// Encode converts a structured cost query to RQL.
func Encode(q *shipping.CostQuery) (rql.Query, error) {
	nodes := make([]rql.Node, 0, len(q.Conditions))
	for _, cond := range q.Conditions {
		switch cond.Operator {
		case shipping.OpEq:
			nodes = append(nodes, rql.Eq(cond.Field, cond.Value))
		case shipping.OpIsNull:
			nodes = append(nodes, rql.IsNull(cond.Field))
		case shipping.OpNotNull:
			nodes = append(nodes, rql.Not(rql.IsNull(cond.Field)))
		default:
			return rql.Query{}, &shipping.InvalidRequestError{
				Field:   cond.Field,
				Message: fmt.Sprintf("unsupported operator %q", cond.Operator),
			}
		}
	}

	out := rql.Query{}
	if len(nodes) > 0 {
		out.Filter = rql.And(nodes...)
	}
	for _, s := range q.Sort {
		out.Sort = append(out.Sort, string(s.Direction)+s.Field)
	}
	return out, nil
}

var _ shipping.CostQuoteService = (*Client)(nil)
