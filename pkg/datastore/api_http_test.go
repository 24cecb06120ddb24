package datastore_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rratsunrollun/rollun-usps/pkg/datastore"
	"github.com/rratsunrollun/rollun-usps/pkg/lookup"
	"github.com/rratsunrollun/rollun-usps/pkg/rql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDatastoreServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/datastore/supplier_mapping", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "eq(rollun_id,string:ABC123)", r.URL.RawQuery)
		w.Write([]byte(`[{"rollun_id":"ABC123","supplier_name":"RockyMountain","supplier_id":"RM-1"}]`))
	})
	mux.HandleFunc("/api/datastore/product_dimension", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[{"rollun_id":"ABC123","width":"3.5","height":2,"length":"10","weight":null}]`))
	})
	mux.HandleFunc("/api/datastore/stop_words", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`[{"stop_phrase":"Battery"},{"stop_phrase":"Fuel"}]`))
	})
	mux.HandleFunc("/api/datastore/rockymountain_inventory", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[{"rollun_id":"ABC123","csn":"RM-1","qty":"3"}]`))
	})
	mux.HandleFunc("/api/datastore/product", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "eq(rollun_id,string:ABC123)&limit(1)", r.URL.RawQuery)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("datastore exploded"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPAPIClient_SupplierMappings(t *testing.T) {
	var hits atomic.Int32
	srv := newDatastoreServer(t, &hits)
	client := datastore.NewHTTPAPIClient(datastore.HTTPAPIClientConfig{BaseURL: srv.URL + "/", Cache: lookup.New()})

	rows, err := client.SupplierMappings(context.Background(), "ABC123")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "RockyMountain", rows[0].SupplierName)
	assert.Equal(t, "RM-1", rows[0].SupplierID)
}

func TestHTTPAPIClient_CachesByURL(t *testing.T) {
	var hits atomic.Int32
	srv := newDatastoreServer(t, &hits)
	cache := lookup.New()
	client := datastore.NewHTTPAPIClient(datastore.HTTPAPIClientConfig{BaseURL: srv.URL, Cache: cache})

	for i := 0; i < 3; i++ {
		_, err := client.StopWords(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, uint64(2), cache.Stats().Hits)
}

func TestHTTPAPIClient_Dimensions_StringNumbers(t *testing.T) {
	var hits atomic.Int32
	srv := newDatastoreServer(t, &hits)
	client := datastore.NewHTTPAPIClient(datastore.HTTPAPIClientConfig{BaseURL: srv.URL})

	rows, err := client.Dimensions(context.Background(), "ABC123")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, datastore.Number(3.5), rows[0].Width)
	assert.Equal(t, datastore.Number(2), rows[0].Height)
	assert.Equal(t, datastore.Number(10), rows[0].Length)
	assert.Equal(t, datastore.Number(0), rows[0].Weight)
}

func TestHTTPAPIClient_Inventory(t *testing.T) {
	var hits atomic.Int32
	srv := newDatastoreServer(t, &hits)
	client := datastore.NewHTTPAPIClient(datastore.HTTPAPIClientConfig{BaseURL: srv.URL})

	rows, err := client.Inventory(context.Background(), "RockyMountain", "ABC123")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, datastore.Number(3), rows[0].Quantity)
}

func TestHTTPAPIClient_ErrorNotCached(t *testing.T) {
	var hits atomic.Int32
	srv := newDatastoreServer(t, &hits)
	client := datastore.NewHTTPAPIClient(datastore.HTTPAPIClientConfig{BaseURL: srv.URL, Cache: lookup.New()})

	_, err := client.Products(context.Background(), "ABC123")
	require.Error(t, err)
	_, err = client.Products(context.Background(), "ABC123")
	require.Error(t, err)

	var apiErr *datastore.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "product", apiErr.Resource)
	assert.Equal(t, "datastore exploded", apiErr.Message)
	assert.Equal(t, int32(2), hits.Load())
}

func TestHTTPAPIClient_NonListResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"unexpected"}`))
	}))
	defer srv.Close()
	client := datastore.NewHTTPAPIClient(datastore.HTTPAPIClientConfig{BaseURL: srv.URL})

	_, err := client.StopWords(context.Background())

	assert.Error(t, err)
}

func TestHTTPAPIClient_URL(t *testing.T) {
	client := datastore.NewHTTPAPIClient(datastore.HTTPAPIClientConfig{BaseURL: "http://datastore.local/"})

	assert.Equal(t, "http://datastore.local/api/datastore/stop_words", client.URL(datastore.ResourceStopWords, rql.Query{}))
}

func TestNumber_UnmarshalInvalid(t *testing.T) {
	var n datastore.Number
	assert.Error(t, n.UnmarshalJSON([]byte(`"abc"`)))
	assert.NoError(t, n.UnmarshalJSON([]byte(`""`)))
	assert.Equal(t, datastore.Number(0), n)
}

func TestInventoryResource(t *testing.T) {
	assert.Equal(t, "partsunlimited_inventory", datastore.InventoryResource("PartsUnlimited"))
}
