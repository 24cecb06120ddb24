// Package mock provides a configurable connector for testing.
package mock

import (
	"context"
	"sync/atomic"

	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
)

// Connector is a mock supplier connector. Every field can be changed before
// the connector is used; the On* hooks take precedence over the plain values.
type Connector struct {
	SupplierName string
	Origin       string
	Methods      []shipping.ShippingMethod
	InStock      bool
	AirAllowed   bool
	Dimensions   shipping.ItemDimensions

	OnIsInStock    func(ctx context.Context, productID string) bool
	OnIsValid      func(item *shipping.Item, destinationZip, methodID string) bool
	OnIsAirAllowed func(ctx context.Context, productID string) bool

	stockCalls atomic.Int32
	airCalls   atomic.Int32
}

// New creates an in-stock, air-allowed mock connector that accepts every method.
func New(name string, methods ...shipping.ShippingMethod) *Connector {
	return &Connector{
		SupplierName: name,
		Origin:       "84101",
		Methods:      methods,
		InStock:      true,
		AirAllowed:   true,
		Dimensions:   shipping.ItemDimensions{Length: 6, Width: 4, Height: 2, Weight: 0.5},
	}
}

// Name returns the supplier name.
func (c *Connector) Name() string {
	return c.SupplierName
}

// IsInStock returns the configured stock state.
func (c *Connector) IsInStock(ctx context.Context, productID string) bool {
	c.stockCalls.Add(1)
	if c.OnIsInStock != nil {
		return c.OnIsInStock(ctx, productID)
	}
	return c.InStock
}

// CreateItem returns an item with the configured dimensions.
func (c *Connector) CreateItem(ctx context.Context, productID string) *shipping.Item {
	return shipping.NewItem(productID, c.Dimensions)
}

// ShippingMethods returns the configured catalog.
func (c *Connector) ShippingMethods() []shipping.ShippingMethod {
	return c.Methods
}

// IsValid accepts every method unless OnIsValid is set.
func (c *Connector) IsValid(item *shipping.Item, destinationZip, methodID string) bool {
	if c.OnIsValid != nil {
		return c.OnIsValid(item, destinationZip, methodID)
	}
	return true
}

// IsAirAllowed returns the configured air eligibility.
func (c *Connector) IsAirAllowed(ctx context.Context, productID string) bool {
	c.airCalls.Add(1)
	if c.OnIsAirAllowed != nil {
		return c.OnIsAirAllowed(ctx, productID)
	}
	return c.AirAllowed
}

// OriginZip returns the configured origin zip.
func (c *Connector) OriginZip() string {
	return c.Origin
}

// StockCalls returns how many times IsInStock was called.
func (c *Connector) StockCalls() int {
	return int(c.stockCalls.Load())
}

// AirCalls returns how many times IsAirAllowed was called.
func (c *Connector) AirCalls() int {
	return int(c.airCalls.Load())
}

var _ shipping.Connector = (*Connector)(nil)
