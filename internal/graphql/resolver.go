// Package graphql serves the shipping selection GraphQL API.
package graphql

import (
	"context"
	"errors"
	"time"

	"github.com/rratsunrollun/rollun-usps/internal/graphql/generated"
	"github.com/rratsunrollun/rollun-usps/internal/graphql/model"
	"github.com/rratsunrollun/rollun-usps/internal/telemetry"
	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Selector picks the best shipping method for a product.
type Selector interface {
	Select(ctx context.Context, productID, destinationZip string) (*shipping.SelectionResult, error)
}

// ErrMissingArgument is returned when a selection lacks its product or zip.
var ErrMissingArgument = errors.New("productId and destinationZip are required")

// Resolver is the root resolver for the GraphQL schema.
// It holds dependencies needed by all resolvers.
type Resolver struct {
	Registry *shipping.Registry
	Selector Selector
	Logger   *otelzap.Logger
	Metrics  *telemetry.Metrics
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(registry *shipping.Registry, selector Selector, logger *otelzap.Logger, metrics *telemetry.Metrics) *Resolver {
	return &Resolver{
		Registry: registry,
		Selector: selector,
		Logger:   logger,
		Metrics:  metrics,
	}
}

// Query returns the query root resolver.
func (r *Resolver) Query() generated.QueryResolver {
	return &queryResolver{r}
}

type queryResolver struct{ *Resolver }

// Health reports service liveness.
func (q *queryResolver) Health(ctx context.Context) (bool, error) {
	return true, nil
}

// Suppliers lists the registered connectors, or only the named one.
func (q *queryResolver) Suppliers(ctx context.Context, name *string) ([]*model.Supplier, error) {
	connectors := q.Registry.All()
	if name != nil {
		c, err := q.Registry.Get(*name)
		if err != nil {
			return nil, err
		}
		connectors = []shipping.Connector{c}
	}

	out := make([]*model.Supplier, 0, len(connectors))
	for _, c := range connectors {
		out = append(out, &model.Supplier{
			Name:      c.Name(),
			OriginZip: c.OriginZip(),
			Methods:   c.ShippingMethods(),
		})
	}
	return out, nil
}

// SelectShipping runs a selection and records its outcome. A nil result
// without error means no method is eligible.
func (q *queryResolver) SelectShipping(ctx context.Context, productID, destinationZip string) (*shipping.SelectionResult, error) {
	if productID == "" || destinationZip == "" {
		return nil, ErrMissingArgument
	}

	start := time.Now()
	result, err := q.Selector.Select(ctx, productID, destinationZip)
	duration := time.Since(start).Seconds()

	switch {
	case err != nil:
		q.Metrics.RecordSelection(telemetry.OutcomeError, "", duration)
		q.Metrics.RecordError(errorType(err))
		q.Logger.Ctx(ctx).Error("Shipping selection failed",
			zap.String("product_id", productID),
			zap.String("destination_zip", destinationZip),
			zap.Error(err),
		)
		return nil, err
	case result == nil:
		q.Metrics.RecordSelection(telemetry.OutcomeNone, "", duration)
	default:
		q.Metrics.RecordSelection(telemetry.OutcomeSelected, result.Supplier, duration)
	}
	return result, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, shipping.ErrConfiguration):
		return "configuration"
	case errors.Is(err, shipping.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "internal"
}

var _ generated.ResolverRoot = (*Resolver)(nil)
