package shipping

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync/atomic"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/rratsunrollun/rollun-usps/pkg/shipping"

// errAmbiguousStock stops candidate resolution once a second in-stock
// supplier is seen. Select turns it into an empty result.
var errAmbiguousStock = errors.New("product is in stock at more than one supplier")

// Selector picks the best shipping method for a product.
type Selector struct {
	registry *Registry
	mappings MappingSource
	quotes   CostQuoteService
	logger   *otelzap.Logger
	tracer   trace.Tracer
}

// NewSelector creates a new selector. A nil tracer falls back to the global provider.
func NewSelector(registry *Registry, mappings MappingSource, quotes CostQuoteService, logger *otelzap.Logger, tracer trace.Tracer) *Selector {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Selector{
		registry: registry,
		mappings: mappings,
		quotes:   quotes,
		logger:   logger,
		tracer:   tracer,
	}
}

// Select returns the cheapest-priority valid shipping method for the product,
// or nil when no supplier can ship it. A product in stock at more than one
// supplier is ambiguous and also yields nil. The only errors returned are
// configuration and request-building errors; unavailable data never fails
// the selection.
func (s *Selector) Select(ctx context.Context, productID, destinationZip string) (*SelectionResult, error) {
	ctx, span := s.tracer.Start(ctx, "shipping.Select", trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.String("destination.zip", destinationZip),
	))
	defer span.End()

	log := s.logger.Ctx(ctx)

	mappings, err := s.mappings.SupplierMappings(ctx, productID)
	if err != nil {
		log.Warn("Supplier mapping unavailable", zap.String("product_id", productID), zap.Error(err))
		return nil, nil
	}
	if len(mappings) == 0 {
		log.Info("Product has no supplier mapping", zap.String("product_id", productID))
		return nil, nil
	}

	candidates, err := s.resolveCandidates(ctx, productID, mappings)
	if errors.Is(err, errAmbiguousStock) {
		log.Info("Product in stock at several suppliers, no selection made",
			zap.String("product_id", productID),
			zap.Strings("suppliers", candidateNames(candidates)),
		)
		span.SetAttributes(attribute.Bool("selection.ambiguous", true))
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(candidates) == 0 {
		log.Info("Product out of stock at every supplier", zap.String("product_id", productID))
		return nil, nil
	}

	airAllowed := s.airAllowed(ctx, productID, candidates)

	results, err := s.evaluate(ctx, productID, destinationZip, airAllowed, candidates)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	best := pickBest(results)
	if best == nil {
		log.Info("No valid shipping method",
			zap.String("product_id", productID),
			zap.String("destination_zip", destinationZip),
		)
		return nil, nil
	}

	log.Info("Selected shipping method",
		zap.String("product_id", productID),
		zap.String("destination_zip", destinationZip),
		zap.String("supplier", best.Supplier),
		zap.String("method", best.ID),
		zap.Int("priority", best.Priority),
		zap.Float64("cost", best.Cost),
	)
	span.SetAttributes(
		attribute.String("selection.supplier", best.Supplier),
		attribute.String("selection.method", best.ID),
	)
	return best, nil
}

type stockCheck struct {
	connector Connector
	csn       string
}

// resolveCandidates checks stock for every mapping row in declared connector
// order. It returns errAmbiguousStock as soon as a second row is in stock,
// together with the rows found in stock so far.
func (s *Selector) resolveCandidates(ctx context.Context, productID string, mappings []SupplierMapping) ([]Candidate, error) {
	var checks []stockCheck
	for _, c := range s.registry.All() {
		for _, m := range mappings {
			if m.SupplierName == c.Name() {
				checks = append(checks, stockCheck{connector: c, csn: m.SupplierID})
			}
		}
	}

	inStock := make([]bool, len(checks))
	var found atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	for i, chk := range checks {
		g.Go(func() error {
			if !chk.connector.IsInStock(gctx, productID) {
				return nil
			}
			inStock[i] = true
			if found.Add(1) > 1 {
				return errAmbiguousStock
			}
			return nil
		})
	}
	err := g.Wait()
	if err != nil && !errors.Is(err, errAmbiguousStock) {
		return nil, err
	}

	candidates := make([]Candidate, 0, 1)
	for i, ok := range inStock {
		if ok {
			candidates = append(candidates, Candidate{Connector: checks[i].connector, CSN: checks[i].csn})
		}
	}
	return candidates, err
}

func candidateNames(candidates []Candidate) []string {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Connector.Name())
	}
	return names
}

// airAllowed is true only if every candidate allows air shipping. Evaluation
// stops at the first candidate that does not.
func (s *Selector) airAllowed(ctx context.Context, productID string, candidates []Candidate) bool {
	for _, c := range candidates {
		if !c.Connector.IsAirAllowed(ctx, productID) {
			return false
		}
	}
	return true
}

// evaluate finds the best method of each candidate. Results keep candidate order.
func (s *Selector) evaluate(ctx context.Context, productID, destinationZip string, airAllowed bool, candidates []Candidate) ([]*SelectionResult, error) {
	results := make([]*SelectionResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range candidates {
		g.Go(func() error {
			item := c.Connector.CreateItem(gctx, productID)
			item.SetAttribute(AttrAirAllowed, airAllowed)
			item.SetAttribute(AttrCSN, c.CSN)

			res, err := s.BestShippingMethod(gctx, c.Connector, item, destinationZip)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BestShippingMethod queries quotes for the item and returns the first quote,
// in catalog order, that the connector and the USPS rules accept.
func (s *Selector) BestShippingMethod(ctx context.Context, conn Connector, item *Item, destinationZip string) (*SelectionResult, error) {
	ctx, span := s.tracer.Start(ctx, "shipping.BestShippingMethod", trace.WithAttributes(
		attribute.String("supplier", conn.Name()),
	))
	defer span.End()

	methods := conn.ShippingMethods()
	if len(methods) == 0 {
		return nil, NewConfigurationError(conn.Name(), "shipping methods", "catalog is empty")
	}

	q, err := BuildCostQuery(item, conn.OriginZip(), destinationZip)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.Component = conn.Name()
		}
		return nil, err
	}

	quotes, err := s.quotes.Query(ctx, q)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return nil, err
		}
		s.logger.Ctx(ctx).Warn("Cost quotes unavailable",
			zap.String("supplier", conn.Name()),
			zap.Error(err),
		)
		return nil, nil
	}
	if len(quotes) == 0 {
		return nil, nil
	}

	for _, m := range methods {
		for _, quote := range quotes {
			if quote.ID != m.ID {
				continue
			}
			if !conn.IsValid(item, destinationZip, m.ID) || !IsUspsValid(item, destinationZip, m.ID) {
				continue
			}
			return &SelectionResult{
				ID:             m.ID,
				Supplier:       conn.Name(),
				ShippingType:   m.Type,
				ShippingMethod: quote.Name,
				Courier:        m.Courier,
				Priority:       m.Priority,
				Cost:           quote.Cost,
			}, nil
		}
	}
	return nil, nil
}

// pickBest drops empty results and returns the lowest priority one. Equal
// priorities keep candidate order.
func pickBest(results []*SelectionResult) *SelectionResult {
	found := make([]*SelectionResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			found = append(found, r)
		}
	}
	if len(found) == 0 {
		return nil
	}
	slices.SortStableFunc(found, func(a, b *SelectionResult) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return found[0]
}
