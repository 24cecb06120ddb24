// Package partsunlimited provides the Parts Unlimited supplier connector.
package partsunlimited

import (
	"strings"

	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/rratsunrollun/rollun-usps/pkg/supplier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// Kind selects this connector in the supplier catalog.
const Kind = "partsunlimited"

const (
	maxWeight          = 150.0
	maxLengthPlusGirth = 165.0
	maxHomeWeight      = 70.0
)

// Client is the Parts Unlimited connector.
type Client struct {
	supplier.Base
}

// New creates a new Parts Unlimited connector.
func New(cfg supplier.Config, catalog supplier.Catalog, logger *otelzap.Logger) *Client {
	return &Client{Base: supplier.NewBase(cfg, catalog, logger)}
}

// IsValid applies the parcel limits of the warehouse. Home delivery has a
// lower weight limit.
func (c *Client) IsValid(item *shipping.Item, destinationZip, methodID string) bool {
	if !supplier.HasPositiveDimensions(item) {
		return false
	}
	if item.Weight() > maxWeight || supplier.LengthPlusGirth(item) > maxLengthPlusGirth {
		return false
	}
	if strings.Contains(methodID, "-FedEx-Home") {
		return item.Weight() <= maxHomeWeight
	}
	return true
}

var _ shipping.Connector = (*Client)(nil)
