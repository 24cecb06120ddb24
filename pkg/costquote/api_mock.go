package costquote

import (
	"context"
	"sync"
	"time"

	"github.com/rratsunrollun/rollun-usps/pkg/rql"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	// Rows is returned for every query unless OnCosts is set.
	Rows []CostRow

	OnCosts func(ctx context.Context, q rql.Query) ([]CostRow, error)

	mu      sync.Mutex
	queries []string
}

// NewMockAPIClient creates a mock API client answering with rates for the
// default supplier catalogs.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{
		Rows: []CostRow{
			{ID: "RM-Usps-FtCls-Package", Name: "USPS First-Class Package", Cost: 4.35},
			{ID: "AU-Usps-FtCls-Package", Name: "USPS First-Class Package", Cost: 4.6},
			{ID: "PU-Usps-FtCls-Package", Name: "USPS First-Class Package", Cost: 4.85},
			{ID: "RM-Usps-PM-FR-Env", Name: "USPS Priority Mail Flat Rate Envelope", Cost: 7.95},
			{ID: "PU-Usps-PM-FR-Env", Name: "USPS Priority Mail Flat Rate Envelope", Cost: 7.95},
			{ID: "RM-Usps-PM-FR-Pad-Env", Name: "USPS Priority Mail Flat Rate Padded Envelope", Cost: 8.55},
			{ID: "AU-Usps-PM-FR-Pad-Env", Name: "USPS Priority Mail Flat Rate Padded Envelope", Cost: 8.55},
			{ID: "RM-Usps-PM-FR-LegalEnv", Name: "USPS Priority Mail Flat Rate Legal Envelope", Cost: 8.25},
			{ID: "PU-FedEx-Home", Name: "FedEx Home Delivery", Cost: 10.4},
			{ID: "RM-UPS-Ground", Name: "UPS Ground", Cost: 11.2},
			{ID: "AU-UPS-Ground", Name: "UPS Ground", Cost: 11.9},
			{ID: "PU-FedEx-Ground", Name: "FedEx Ground", Cost: 12.1},
		},
	}
}

// Costs returns the configured rows.
func (m *MockAPIClient) Costs(ctx context.Context, q rql.Query) ([]CostRow, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q.String())
	m.mu.Unlock()

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{StatusCode: 503, Message: "Simulated cost-quote error"}
	}

	if m.OnCosts != nil {
		return m.OnCosts(ctx, q)
	}
	return m.Rows, nil
}

// Queries returns every encoded query received so far.
func (m *MockAPIClient) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

var _ APIClient = (*MockAPIClient)(nil)
