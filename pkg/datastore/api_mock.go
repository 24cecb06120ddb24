package datastore

import (
	"context"
	"time"
)

// MockAPIClient is an in-memory implementation of APIClient for testing and
// local runs.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	Mappings map[string][]SupplierMappingRow
	Dims     map[string][]DimensionRow
	Phrases  []StopWordRow
	Catalog  map[string][]ProductRow
	Stock    map[string]map[string][]InventoryRow // supplier -> product -> rows

	OnSupplierMappings func(ctx context.Context, productID string) ([]SupplierMappingRow, error)
	OnInventory        func(ctx context.Context, supplier, productID string) ([]InventoryRow, error)
}

// NewMockAPIClient creates a mock API client seeded with a small demo catalog.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{
		Mappings: map[string][]SupplierMappingRow{
			"demo-brake-lever": {
				{RollunID: "demo-brake-lever", SupplierName: "RockyMountain", SupplierID: "RM-11-0452"},
				{RollunID: "demo-brake-lever", SupplierName: "PartsUnlimited", SupplierID: "PU-0610-1122"},
			},
			"demo-battery": {
				{RollunID: "demo-battery", SupplierName: "Autodist", SupplierID: "AU-YTX14-BS"},
			},
		},
		Dims: map[string][]DimensionRow{
			"demo-brake-lever": {{RollunID: "demo-brake-lever", Length: 8, Width: 3, Height: 1, Weight: 0.4}},
			"demo-battery":     {{RollunID: "demo-battery", Length: 6, Width: 3.5, Height: 5.75, Weight: 11}},
		},
		Phrases: []StopWordRow{
			{StopPhrase: "Battery"},
			{StopPhrase: "Aerosol"},
			{StopPhrase: "Fuel"},
		},
		Catalog: map[string][]ProductRow{
			"demo-brake-lever": {{RollunID: "demo-brake-lever", Title: "Brake Lever Black"}},
			"demo-battery":     {{RollunID: "demo-battery", Title: "Maintenance Free Battery YTX14-BS"}},
		},
		Stock: map[string]map[string][]InventoryRow{
			"RockyMountain": {
				"demo-brake-lever": {{RollunID: "demo-brake-lever", CSN: "RM-11-0452", Quantity: 4}},
			},
			"PartsUnlimited": {
				"demo-brake-lever": {{RollunID: "demo-brake-lever", CSN: "PU-0610-1122", Quantity: 0}},
			},
			"Autodist": {
				"demo-battery": {{RollunID: "demo-battery", CSN: "AU-YTX14-BS", Quantity: 12}},
			},
		},
	}
}

func (m *MockAPIClient) simulate() error {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return &APIError{StatusCode: 503, Resource: "mock", Message: "Simulated datastore error"}
	}
	return nil
}

// SupplierMappings returns the stored mapping rows.
func (m *MockAPIClient) SupplierMappings(ctx context.Context, productID string) ([]SupplierMappingRow, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnSupplierMappings != nil {
		return m.OnSupplierMappings(ctx, productID)
	}
	return m.Mappings[productID], nil
}

// Dimensions returns the stored dimension rows.
func (m *MockAPIClient) Dimensions(ctx context.Context, productID string) ([]DimensionRow, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	return m.Dims[productID], nil
}

// StopWords returns the stored stop phrases.
func (m *MockAPIClient) StopWords(ctx context.Context) ([]StopWordRow, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	return m.Phrases, nil
}

// Products returns the stored catalog rows.
func (m *MockAPIClient) Products(ctx context.Context, productID string) ([]ProductRow, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	return m.Catalog[productID], nil
}

// Inventory returns the stored stock rows.
func (m *MockAPIClient) Inventory(ctx context.Context, supplier, productID string) ([]InventoryRow, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnInventory != nil {
		return m.OnInventory(ctx, supplier, productID)
	}
	return m.Stock[supplier][productID], nil
}

var _ APIClient = (*MockAPIClient)(nil)
