// Package supplier holds the logic shared by every supplier connector. Each
// supplier variant embeds Base and adds its own IsValid rule.
package supplier

import (
	"context"
	"strings"

	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Catalog provides the product data connectors read.
type Catalog interface {
	Dimensions(ctx context.Context, productID string) shipping.ItemDimensions
	StopPhrases(ctx context.Context) []string
	ProductTitle(ctx context.Context, productID string) string
	InStock(ctx context.Context, supplier, productID string) bool
}

// Base implements the connector operations common to all suppliers.
type Base struct {
	config  Config
	catalog Catalog
	logger  *otelzap.Logger
}

// NewBase creates the shared part of a connector.
func NewBase(cfg Config, catalog Catalog, logger *otelzap.Logger) Base {
	return Base{
		config:  cfg,
		catalog: catalog,
		logger:  logger,
	}
}

// Name returns the supplier name used in product mappings.
func (b *Base) Name() string {
	return b.config.Name
}

// OriginZip returns the zip code the supplier ships from.
func (b *Base) OriginZip() string {
	return b.config.OriginZip
}

// ShippingMethods returns a copy of the declared shipping catalog.
func (b *Base) ShippingMethods() []shipping.ShippingMethod {
	return append([]shipping.ShippingMethod(nil), b.config.Methods...)
}

// IsInStock reports whether the supplier's inventory has the product.
func (b *Base) IsInStock(ctx context.Context, productID string) bool {
	return b.catalog.InStock(ctx, b.config.Name, productID)
}

// CreateItem builds an item from the product's catalog dimensions.
func (b *Base) CreateItem(ctx context.Context, productID string) *shipping.Item {
	return shipping.NewItem(productID, b.catalog.Dimensions(ctx, productID))
}

// IsAirAllowed reports false as soon as the product title contains a stop
// phrase. Matching is case-sensitive.
func (b *Base) IsAirAllowed(ctx context.Context, productID string) bool {
	phrases := b.catalog.StopPhrases(ctx)
	if len(phrases) == 0 {
		return true
	}

	title := b.catalog.ProductTitle(ctx, productID)
	for _, phrase := range phrases {
		if strings.Contains(title, phrase) {
			b.logger.Ctx(ctx).Debug("Air shipping disallowed",
				zap.String("supplier", b.config.Name),
				zap.String("product_id", productID),
				zap.String("stop_phrase", phrase),
			)
			return false
		}
	}
	return true
}
