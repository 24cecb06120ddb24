package rockymountain_test

import (
	"context"
	"testing"

	"github.com/rratsunrollun/rollun-usps/pkg/datastore"
	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/rratsunrollun/rollun-usps/pkg/supplier"
	"github.com/rratsunrollun/rollun-usps/pkg/supplier/rockymountain"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient() *rockymountain.Client {
	logger := otelzap.New(zap.NewNop())
	catalog := datastore.NewWithAPIClient(datastore.NewMockAPIClient(), logger)
	return rockymountain.New(supplier.Config{
		Kind:      rockymountain.Kind,
		Name:      "RockyMountain",
		OriginZip: "84101",
		Methods: []shipping.ShippingMethod{
			{ID: "RM-Usps-FtCls-Package", Type: "Usps", Courier: "Usps", Priority: 1},
			{ID: "RM-UPS-Ground", Type: "Ground", Courier: "UPS", Priority: 5},
		},
	}, catalog, logger)
}

func TestClient_IsValid(t *testing.T) {
	small := shipping.ItemDimensions{Length: 8, Width: 3, Height: 1, Weight: 0.4}

	tests := []struct {
		name     string
		dims     shipping.ItemDimensions
		zip      string
		methodID string
		want     bool
	}{
		{name: "usps small parcel", dims: small, zip: "10001", methodID: "RM-Usps-FtCls-Package", want: true},
		{name: "ground contiguous", dims: small, zip: "10001", methodID: "RM-UPS-Ground", want: true},
		{name: "ground to alaska", dims: small, zip: "99501", methodID: "RM-UPS-Ground", want: false},
		{name: "ground to hawaii", dims: small, zip: "96813", methodID: "RM-UPS-Ground", want: false},
		{name: "ground to puerto rico", dims: small, zip: "00901", methodID: "RM-UPS-Ground", want: false},
		{name: "usps to alaska", dims: small, zip: "99501", methodID: "RM-Usps-FtCls-Package", want: true},
		{
			name:     "usps oversize",
			dims:     shipping.ItemDimensions{Length: 61, Width: 12, Height: 12, Weight: 3},
			zip:      "10001",
			methodID: "RM-Usps-FtCls-Package",
			want:     false,
		},
		{
			name:     "usps at size limit",
			dims:     shipping.ItemDimensions{Length: 60, Width: 12, Height: 12, Weight: 3},
			zip:      "10001",
			methodID: "RM-Usps-FtCls-Package",
			want:     true,
		},
		{name: "unknown dimensions", dims: shipping.UnknownDimensions(), zip: "10001", methodID: "RM-UPS-Ground", want: false},
		{
			name:     "zero weight",
			dims:     shipping.ItemDimensions{Length: 8, Width: 3, Height: 1},
			zip:      "10001",
			methodID: "RM-UPS-Ground",
			want:     false,
		},
	}

	client := newTestClient()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := shipping.NewItem("p", tt.dims)
			assert.Equal(t, tt.want, client.IsValid(item, tt.zip, tt.methodID))
		})
	}
}

func TestClient_Connector(t *testing.T) {
	client := newTestClient()
	ctx := context.Background()

	assert.Equal(t, "RockyMountain", client.Name())
	assert.Equal(t, "84101", client.OriginZip())
	assert.Len(t, client.ShippingMethods(), 2)
	assert.True(t, client.IsInStock(ctx, "demo-brake-lever"))
	assert.True(t, client.IsAirAllowed(ctx, "demo-brake-lever"))
	assert.False(t, client.IsAirAllowed(ctx, "demo-battery"))
}
