// Package autodist provides the Autodist supplier connector.
package autodist

import (
	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/rratsunrollun/rollun-usps/pkg/supplier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// Kind selects this connector in the supplier catalog.
const Kind = "autodist"

const maxUspsWeight = 70.0

// APO/FPO military zip prefixes.
var militaryPrefixes = []string{
	"090", "091", "092", "093", "094", "095", "096", "097", "098",
	"340",
	"962", "963", "964", "965", "966",
}

// Client is the Autodist connector.
type Client struct {
	supplier.Base
}

// New creates a new Autodist connector.
func New(cfg supplier.Config, catalog supplier.Catalog, logger *otelzap.Logger) *Client {
	return &Client{Base: supplier.NewBase(cfg, catalog, logger)}
}

// IsValid ships only to plain five digit civilian zips.
func (c *Client) IsValid(item *shipping.Item, destinationZip, methodID string) bool {
	if !supplier.HasPositiveDimensions(item) {
		return false
	}
	if !supplier.IsFiveDigitZip(destinationZip) || supplier.HasZipPrefix(destinationZip, militaryPrefixes...) {
		return false
	}
	if shipping.IsUsps(methodID) {
		return item.Weight() <= maxUspsWeight
	}
	return true
}

var _ shipping.Connector = (*Client)(nil)
