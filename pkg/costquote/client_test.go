package costquote_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rratsunrollun/rollun-usps/pkg/costquote"
	"github.com/rratsunrollun/rollun-usps/pkg/lookup"
	"github.com/rratsunrollun/rollun-usps/pkg/rql"
	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockClient *costquote.MockAPIClient) *costquote.Client {
	return costquote.NewWithAPIClient(mockClient, otelzap.New(zap.NewNop()))
}

func testQuery(t *testing.T) *shipping.CostQuery {
	t.Helper()

	item := shipping.NewItem("ABC123", shipping.ItemDimensions{Length: 4, Width: 10, Height: 2, Weight: 0.5})
	item.SetAttribute(shipping.AttrCSN, "RM-1")
	q, err := shipping.BuildCostQuery(item, "84101", "10001")
	require.NoError(t, err)
	return q
}

const encodedTestQuery = "and(eq(zip_origin,string:84101),eq(zip_destination,string:10001)," +
	"eq(weight,0.5),eq(dim_max,10),eq(dim_mid,4),eq(dim_min,2)," +
	"eqn(error),not(eqn(cost)),eq(quantity,1),eq(csn,string:RM-1))&sort(+cost)"

func TestEncode(t *testing.T) {
	q, err := costquote.Encode(testQuery(t))

	require.NoError(t, err)
	assert.Equal(t, encodedTestQuery, q.String())
}

func TestEncode_UnsupportedOperator(t *testing.T) {
	q := testQuery(t)
	q.Conditions = append(q.Conditions, shipping.Condition{Field: "cost", Operator: "gt", Value: 1})

	_, err := costquote.Encode(q)

	assert.ErrorIs(t, err, shipping.ErrInvalidRequest)
}

func TestClient_Query_Success(t *testing.T) {
	mockAPI := costquote.NewMockAPIClient()
	mockAPI.Rows = []costquote.CostRow{
		{ID: "RM-Usps-FtCls-Package", Name: "First Class", Cost: 4.35},
		{ID: "", Name: "broken row", Cost: 1},
		{ID: "RM-UPS-Ground", Name: "Ground", Cost: 11.2},
	}
	client := newTestClient(mockAPI)

	quotes, err := client.Query(context.Background(), testQuery(t))

	require.NoError(t, err)
	assert.Equal(t, []shipping.CostQuote{
		{ID: "RM-Usps-FtCls-Package", Name: "First Class", Cost: 4.35},
		{ID: "RM-UPS-Ground", Name: "Ground", Cost: 11.2},
	}, quotes)
	assert.Equal(t, []string{encodedTestQuery}, mockAPI.Queries())
}

func TestClient_Query_InvalidNeverSent(t *testing.T) {
	mockAPI := costquote.NewMockAPIClient()
	client := newTestClient(mockAPI)

	q := testQuery(t)
	q.Conditions = q.Conditions[1:] // drop origin zip

	_, err := client.Query(context.Background(), q)

	var invalid *shipping.InvalidRequestError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, shipping.FieldOriginZip, invalid.Field)
	assert.Empty(t, mockAPI.Queries())
}

func TestClient_Query_APIError(t *testing.T) {
	mockAPI := costquote.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	quotes, err := client.Query(context.Background(), testQuery(t))

	assert.Error(t, err)
	assert.NotErrorIs(t, err, shipping.ErrInvalidRequest)
	assert.Nil(t, quotes)
}

func TestClient_Query_Empty(t *testing.T) {
	mockAPI := costquote.NewMockAPIClient()
	mockAPI.OnCosts = func(ctx context.Context, q rql.Query) ([]costquote.CostRow, error) {
		return nil, nil
	}
	client := newTestClient(mockAPI)

	quotes, err := client.Query(context.Background(), testQuery(t))

	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := costquote.New(costquote.Config{}, otelzap.New(zap.NewNop()))

	assert.True(t, shipping.IsConfigurationError(err))
}

func TestHTTPAPIClient_Costs(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/api/datastore/shipping_cost", r.URL.Path)
		assert.Equal(t, encodedTestQuery, r.URL.RawQuery)
		w.Write([]byte(`[{"id":"RM-UPS-Ground","name":"UPS Ground","cost":"11.20"}]`))
	}))
	defer srv.Close()

	client := costquote.NewWithAPIClient(
		costquote.NewHTTPAPIClient(costquote.HTTPAPIClientConfig{BaseURL: srv.URL, Cache: lookup.New()}),
		otelzap.New(zap.NewNop()),
	)

	for i := 0; i < 2; i++ {
		quotes, err := client.Query(context.Background(), testQuery(t))
		require.NoError(t, err)
		require.Len(t, quotes, 1)
		assert.Equal(t, 11.2, quotes[0].Cost)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPAPIClient_Costs_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate engine down", http.StatusBadGateway)
	}))
	defer srv.Close()

	api := costquote.NewHTTPAPIClient(costquote.HTTPAPIClientConfig{BaseURL: srv.URL})
	_, err := api.Costs(context.Background(), rql.Query{})

	var apiErr *costquote.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "rate engine down", apiErr.Message)
}

func TestHTTPAPIClient_Costs_NonList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"no rates"`))
	}))
	defer srv.Close()

	api := costquote.NewHTTPAPIClient(costquote.HTTPAPIClientConfig{BaseURL: srv.URL})
	_, err := api.Costs(context.Background(), rql.Query{})

	assert.Error(t, err)
}
