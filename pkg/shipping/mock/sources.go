package mock

import (
	"context"
	"sync"

	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
)

// Mappings is an in-memory mapping source keyed by product id.
type Mappings struct {
	Rows map[string][]shipping.SupplierMapping
	Err  error
}

// SupplierMappings returns the rows stored for the product.
func (m *Mappings) SupplierMappings(ctx context.Context, productID string) ([]shipping.SupplierMapping, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rows[productID], nil
}

// Quotes is a cost-quote service returning fixed quotes per origin zip.
// Quotes stored under "" are returned for any origin.
type Quotes struct {
	ByOrigin map[string][]shipping.CostQuote
	Err      error

	OnQuery func(ctx context.Context, q *shipping.CostQuery) ([]shipping.CostQuote, error)

	mu      sync.Mutex
	queries []*shipping.CostQuery
}

// Query records the query and returns the configured quotes.
func (m *Quotes) Query(ctx context.Context, q *shipping.CostQuery) ([]shipping.CostQuote, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()

	if m.OnQuery != nil {
		return m.OnQuery(ctx, q)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	origin, _ := q.Value(shipping.FieldOriginZip)
	if s, ok := origin.(string); ok {
		if quotes, ok := m.ByOrigin[s]; ok {
			return quotes, nil
		}
	}
	return m.ByOrigin[""], nil
}

// Queries returns every query received so far.
func (m *Quotes) Queries() []*shipping.CostQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*shipping.CostQuery, len(m.queries))
	copy(out, m.queries)
	return out
}

var (
	_ shipping.MappingSource    = (*Mappings)(nil)
	_ shipping.CostQuoteService = (*Quotes)(nil)
)
