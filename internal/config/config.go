package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"80"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Datastore
	DatastoreBaseURL string `envconfig:"DATASTORE_BASE_URL" required:"true"`
	DatastoreDSN     string `envconfig:"DATASTORE_DSN"`
	DatastoreUseMock bool   `envconfig:"DATASTORE_USE_MOCK" default:"false"`

	// Cost quotes. An empty base URL reuses the datastore.
	CostQuoteBaseURL string `envconfig:"COSTQUOTE_BASE_URL"`
	CostQuoteUseMock bool   `envconfig:"COSTQUOTE_USE_MOCK" default:"false"`

	// Outbound lookups
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`

	// Supplier catalogs. Empty uses the built-in catalogs.
	SuppliersFile string `envconfig:"SUPPLIERS_FILE"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"rollun-usps"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// CostQuoteURL returns the base URL of the cost-quote service.
func (c *Config) CostQuoteURL() string {
	if c.CostQuoteBaseURL != "" {
		return c.CostQuoteBaseURL
	}
	return c.DatastoreBaseURL
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("datastore.sql", c.DatastoreDSN != ""),
		attribute.Bool("datastore.mock", c.DatastoreUseMock),
		attribute.Bool("costquote.mock", c.CostQuoteUseMock),
	}
}
