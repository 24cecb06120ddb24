package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// APIClient defines the lookups the selector needs from the product datastore.
// HTTP, SQL and mock implementations are provided.
type APIClient interface {
	// SupplierMappings returns the suppliers carrying a product.
	SupplierMappings(ctx context.Context, productID string) ([]SupplierMappingRow, error)

	// Dimensions returns the recorded dimensions of a product.
	Dimensions(ctx context.Context, productID string) ([]DimensionRow, error)

	// StopWords returns the phrases that disqualify air shipping.
	StopWords(ctx context.Context) ([]StopWordRow, error)

	// Products returns the catalog rows of a product.
	Products(ctx context.Context, productID string) ([]ProductRow, error)

	// Inventory returns a supplier's stock rows for a product.
	Inventory(ctx context.Context, supplier, productID string) ([]InventoryRow, error)
}

// Resource names.
const (
	ResourceSupplierMapping = "supplier_mapping"
	ResourceDimensions      = "product_dimension"
	ResourceStopWords       = "stop_words"
	ResourceProducts        = "product"
	inventorySuffix         = "_inventory"
)

// InventoryResource returns the inventory resource of a supplier,
// e.g. "rockymountain_inventory".
func InventoryResource(supplier string) string {
	return strings.ToLower(supplier) + inventorySuffix
}

// SupplierMappingRow links a product to a supplier catalog entry.
type SupplierMappingRow struct {
	RollunID     string `json:"rollun_id"`
	SupplierName string `json:"supplier_name"`
	SupplierID   string `json:"supplier_id"`
}

// DimensionRow holds recorded product dimensions.
type DimensionRow struct {
	RollunID string `json:"rollun_id"`
	Width    Number `json:"width"`
	Height   Number `json:"height"`
	Length   Number `json:"length"`
	Weight   Number `json:"weight"`
}

// StopWordRow is one air-shipping stop phrase.
type StopWordRow struct {
	StopPhrase string `json:"stop_phrase"`
}

// ProductRow is the catalog entry of a product.
type ProductRow struct {
	RollunID string `json:"rollun_id"`
	Title    string `json:"title"`
}

// InventoryRow is a supplier stock record.
type InventoryRow struct {
	RollunID string `json:"rollun_id"`
	CSN      string `json:"csn"`
	Quantity Number `json:"qty"`
}

// Number decodes JSON numbers that may be sent as strings.
type Number float64

// UnmarshalJSON accepts 1.5, "1.5", "" and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// APIError represents an error response from the datastore.
type APIError struct {
	StatusCode int
	Resource   string
	Message    string
}

func (e *APIError) Error() string {
	return "datastore " + e.Resource + ": HTTP " + strconv.Itoa(e.StatusCode) + ": " + e.Message
}
