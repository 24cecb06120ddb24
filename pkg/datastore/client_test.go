package datastore_test

import (
	"context"
	"testing"

	"github.com/rratsunrollun/rollun-usps/pkg/datastore"
	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestClient(mockClient *datastore.MockAPIClient) *datastore.Client {
	return datastore.NewWithAPIClient(mockClient, otelzap.New(zap.NewNop()))
}

func TestClient_SupplierMappings(t *testing.T) {
	client := newTestClient(datastore.NewMockAPIClient())

	mappings, err := client.SupplierMappings(context.Background(), "demo-brake-lever")

	require.NoError(t, err)
	assert.Equal(t, []shipping.SupplierMapping{
		{SupplierName: "RockyMountain", SupplierID: "RM-11-0452"},
		{SupplierName: "PartsUnlimited", SupplierID: "PU-0610-1122"},
	}, mappings)
}

func TestClient_SupplierMappings_Error(t *testing.T) {
	mockAPI := datastore.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	_, err := client.SupplierMappings(context.Background(), "demo-brake-lever")

	assert.Error(t, err)
}

func TestClient_Dimensions(t *testing.T) {
	client := newTestClient(datastore.NewMockAPIClient())

	dims := client.Dimensions(context.Background(), "demo-battery")

	assert.Equal(t, shipping.ItemDimensions{Length: 6, Width: 3.5, Height: 5.75, Weight: 11}, dims)
}

func TestClient_Dimensions_UnknownProduct(t *testing.T) {
	client := newTestClient(datastore.NewMockAPIClient())

	dims := client.Dimensions(context.Background(), "no-such-product")

	assert.Equal(t, shipping.UnknownDimensions(), dims)
	assert.Equal(t, -1000.0, dims.Length)
	assert.Equal(t, -1000.0, dims.Width)
	assert.Equal(t, -1000.0, dims.Height)
	assert.Equal(t, -1000.0, dims.Weight)
}

func TestClient_Dimensions_LookupFailure(t *testing.T) {
	mockAPI := datastore.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	assert.Equal(t, shipping.UnknownDimensions(), client.Dimensions(context.Background(), "demo-battery"))
}

func TestClient_StopPhrases(t *testing.T) {
	mockAPI := datastore.NewMockAPIClient()
	mockAPI.Phrases = append(mockAPI.Phrases, datastore.StopWordRow{StopPhrase: ""})
	client := newTestClient(mockAPI)

	assert.Equal(t, []string{"Battery", "Aerosol", "Fuel"}, client.StopPhrases(context.Background()))
}

func TestClient_StopPhrases_Failure(t *testing.T) {
	mockAPI := datastore.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	assert.Empty(t, client.StopPhrases(context.Background()))
}

func TestClient_ProductTitle(t *testing.T) {
	client := newTestClient(datastore.NewMockAPIClient())

	assert.Equal(t, "Brake Lever Black", client.ProductTitle(context.Background(), "demo-brake-lever"))
	assert.Equal(t, "", client.ProductTitle(context.Background(), "missing"))
}

func TestClient_InStock(t *testing.T) {
	client := newTestClient(datastore.NewMockAPIClient())
	ctx := context.Background()

	assert.True(t, client.InStock(ctx, "RockyMountain", "demo-brake-lever"))
	assert.False(t, client.InStock(ctx, "PartsUnlimited", "demo-brake-lever"), "zero quantity")
	assert.False(t, client.InStock(ctx, "Autodist", "demo-brake-lever"), "no rows")
}

func TestClient_InStock_Failure(t *testing.T) {
	mockAPI := datastore.NewMockAPIClient()
	mockAPI.OnInventory = func(ctx context.Context, supplier, productID string) ([]datastore.InventoryRow, error) {
		return nil, &datastore.APIError{StatusCode: 500, Resource: "rockymountain_inventory", Message: "boom"}
	}
	client := newTestClient(mockAPI)

	assert.False(t, client.InStock(context.Background(), "RockyMountain", "demo-brake-lever"))
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := datastore.New(context.Background(), datastore.Config{}, otelzap.New(zap.NewNop()))

	require.Error(t, err)
	assert.True(t, shipping.IsConfigurationError(err))
}

func TestNew_WithMock(t *testing.T) {
	client, err := datastore.New(context.Background(), datastore.Config{UseMock: true}, otelzap.New(zap.NewNop()))

	require.NoError(t, err)
	assert.True(t, client.InStock(context.Background(), "Autodist", "demo-battery"))
}

func TestClient_DegradedLookupsCarryTraceID(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	mockAPI := datastore.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := datastore.NewWithAPIClient(mockAPI, otelzap.New(zap.New(core), otelzap.WithTraceIDField(true)))

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "select")
	defer span.End()

	client.Dimensions(ctx, "demo-battery")
	client.StopPhrases(ctx)
	client.ProductTitle(ctx, "demo-battery")
	client.InStock(ctx, "RockyMountain", "demo-battery")

	entries := logs.All()
	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.Equal(t, span.SpanContext().TraceID().String(), e.ContextMap()["trace_id"], e.Message)
	}
}
