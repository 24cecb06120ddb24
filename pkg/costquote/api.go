package costquote

import (
	"context"
	"fmt"

	"github.com/rratsunrollun/rollun-usps/pkg/datastore"
	"github.com/rratsunrollun/rollun-usps/pkg/rql"
)

// ResourceShippingCost is the datastore resource answering cost queries.
const ResourceShippingCost = "shipping_cost"

// APIClient defines the interface for cost-quote service operations.
type APIClient interface {
	// Costs returns the cost rows matching an encoded query.
	Costs(ctx context.Context, q rql.Query) ([]CostRow, error)
}

// ============================================================================
// API Response Types
// ============================================================================

// CostRow is a single row of the shipping cost resource.
type CostRow struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Cost datastore.Number `json:"cost"`
}

// APIError represents a non-200 answer from the cost-quote service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cost-quote API error (status %d): %s", e.StatusCode, e.Message)
}
