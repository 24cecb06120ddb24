// Package shipping selects the best shipping method for a product across
// competing supplier connectors.
package shipping

import (
	"context"
)

// Connector is a supplier backend able to ship a product.
type Connector interface {
	// Name returns the supplier identifier used in product mappings (e.g. "RockyMountain").
	Name() string

	// IsInStock reports whether the supplier can ship the product right now.
	IsInStock(ctx context.Context, productID string) bool

	// CreateItem builds the package for a product. Missing dimension data
	// yields UnknownDimensions instead of an error.
	CreateItem(ctx context.Context, productID string) *Item

	// ShippingMethods returns the supplier's static shipping catalog in declared order.
	ShippingMethods() []ShippingMethod

	// IsValid applies the supplier-specific eligibility rule.
	IsValid(item *Item, destinationZip, methodID string) bool

	// IsAirAllowed reports whether the product may travel by air.
	IsAirAllowed(ctx context.Context, productID string) bool

	// OriginZip returns the zip code the supplier ships from.
	OriginZip() string
}

// CostQuoteService answers structured cost queries with quotes sorted as requested.
type CostQuoteService interface {
	Query(ctx context.Context, q *CostQuery) ([]CostQuote, error)
}

// SupplierMapping links a product to one supplier's catalog entry.
type SupplierMapping struct {
	SupplierName string
	SupplierID   string
}

// MappingSource resolves the suppliers carrying a product.
type MappingSource interface {
	SupplierMappings(ctx context.Context, productID string) ([]SupplierMapping, error)
}
