// Package rockymountain provides the Rocky Mountain supplier connector.
package rockymountain

import (
	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/rratsunrollun/rollun-usps/pkg/supplier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// Kind selects this connector in the supplier catalog.
const Kind = "rockymountain"

// maxUspsLengthPlusGirth is the USPS size limit in inches.
const maxUspsLengthPlusGirth = 108.0

// Zip prefixes of Alaska, Hawaii and Puerto Rico. Ground services do not
// reach them.
var nonContiguousPrefixes = []string{
	"995", "996", "997", "998", "999",
	"967", "968",
	"006", "007", "009",
}

// Client is the Rocky Mountain connector.
type Client struct {
	supplier.Base
}

// New creates a new Rocky Mountain connector.
func New(cfg supplier.Config, catalog supplier.Catalog, logger *otelzap.Logger) *Client {
	return &Client{Base: supplier.NewBase(cfg, catalog, logger)}
}

// IsValid requires known dimensions and weight. USPS services are limited by
// size, ground services by destination.
func (c *Client) IsValid(item *shipping.Item, destinationZip, methodID string) bool {
	if !supplier.HasPositiveDimensions(item) || item.Weight() <= 0 {
		return false
	}
	if shipping.IsUsps(methodID) {
		return supplier.LengthPlusGirth(item) <= maxUspsLengthPlusGirth
	}
	return !supplier.HasZipPrefix(destinationZip, nonContiguousPrefixes...)
}

var _ shipping.Connector = (*Client)(nil)
