package main

import (
	"context"
	"fmt"

	"github.com/rratsunrollun/rollun-usps/internal/config"
	"github.com/rratsunrollun/rollun-usps/internal/telemetry"
	"github.com/rratsunrollun/rollun-usps/pkg/costquote"
	"github.com/rratsunrollun/rollun-usps/pkg/datastore"
	"github.com/rratsunrollun/rollun-usps/pkg/lookup"
	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/rratsunrollun/rollun-usps/pkg/supplier"
	"github.com/rratsunrollun/rollun-usps/pkg/supplier/autodist"
	"github.com/rratsunrollun/rollun-usps/pkg/supplier/partsunlimited"
	"github.com/rratsunrollun/rollun-usps/pkg/supplier/rockymountain"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(cfg *config.Config) (*otelzap.Logger, error) {
	return telemetry.NewLogger(cfg.LogLevel, cfg.ServiceName, cfg.Version)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.Attributes()...)
	return shutdown, err
}

// connectorFactories maps catalog kinds to connector constructors.
var connectorFactories = map[string]func(supplier.Config, supplier.Catalog, *otelzap.Logger) shipping.Connector{
	rockymountain.Kind: func(c supplier.Config, cat supplier.Catalog, l *otelzap.Logger) shipping.Connector {
		return rockymountain.New(c, cat, l)
	},
	partsunlimited.Kind: func(c supplier.Config, cat supplier.Catalog, l *otelzap.Logger) shipping.Connector {
		return partsunlimited.New(c, cat, l)
	},
	autodist.Kind: func(c supplier.Config, cat supplier.Catalog, l *otelzap.Logger) shipping.Connector {
		return autodist.New(c, cat, l)
	},
}

func initConnectorRegistry(cfg *config.Config, catalog supplier.Catalog, logger *otelzap.Logger) (*shipping.Registry, error) {
	suppliers, err := supplier.LoadFile(cfg.SuppliersFile)
	if err != nil {
		return nil, err
	}

	registry := shipping.NewRegistry()
	for _, s := range suppliers {
		factory, ok := connectorFactories[s.Kind]
		if !ok {
			return nil, shipping.NewConfigurationError(s.Name, "kind", fmt.Sprintf("unknown kind %q", s.Kind))
		}
		registry.Register(factory(s, catalog, logger))
	}

	if err := registry.Validate(); err != nil {
		return nil, err
	}
	return registry, nil
}

// selection holds everything a selection needs, built once per process.
type selection struct {
	cache     *lookup.Cache
	datastore *datastore.Client
	registry  *shipping.Registry
	selector  *shipping.Selector
}

func initSelection(ctx context.Context, cfg *config.Config, logger *otelzap.Logger) (*selection, error) {
	cache := lookup.New()

	store, err := datastore.New(ctx, datastore.Config{
		BaseURL: cfg.DatastoreBaseURL,
		DSN:     cfg.DatastoreDSN,
		Timeout: cfg.HTTPTimeout,
		UseMock: cfg.DatastoreUseMock,
		Cache:   cache,
	}, logger)
	if err != nil {
		return nil, err
	}

	quotes, err := costquote.New(costquote.Config{
		BaseURL: cfg.CostQuoteURL(),
		Timeout: cfg.HTTPTimeout,
		UseMock: cfg.CostQuoteUseMock,
		Cache:   cache,
	}, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	registry, err := initConnectorRegistry(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	selector := shipping.NewSelector(registry, store, quotes, logger, otel.Tracer(cfg.ServiceName))

	return &selection{
		cache:     cache,
		datastore: store,
		registry:  registry,
		selector:  selector,
	}, nil
}

func (s *selection) Close() error {
	return s.datastore.Close()
}
