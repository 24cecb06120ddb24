package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/rratsunrollun/rollun-usps/pkg/lookup"
)

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// SQLAPIClient reads the datastore tables directly from PostgreSQL. Rows are
// cached by statement and arguments in the shared lookup cache.
type SQLAPIClient struct {
	db      *sql.DB
	cache   *lookup.Cache
	timeout time.Duration
}

const defaultQueryTimeout = 10 * time.Second

// OpenSQLAPIClient opens a PostgreSQL connection pool for the given DSN.
// Every query is bounded by timeout.
func OpenSQLAPIClient(ctx context.Context, dsn string, timeout time.Duration, cache *lookup.Cache) (*SQLAPIClient, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening datastore database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to datastore database: %w", err)
	}
	c := NewSQLAPIClient(db, cache)
	if timeout > 0 {
		c.timeout = timeout
	}
	return c, nil
}

// NewSQLAPIClient wraps an existing database handle.
func NewSQLAPIClient(db *sql.DB, cache *lookup.Cache) *SQLAPIClient {
	return &SQLAPIClient{db: db, cache: cache, timeout: defaultQueryTimeout}
}

// Close closes the underlying database.
func (c *SQLAPIClient) Close() error {
	return c.db.Close()
}

// SupplierMappings reads the supplier mapping rows of a product.
func (c *SQLAPIClient) SupplierMappings(ctx context.Context, productID string) ([]SupplierMappingRow, error) {
	const query = `SELECT rollun_id, supplier_name, supplier_id FROM supplier_mapping WHERE rollun_id = $1`

	var rows []SupplierMappingRow
	err := c.cached(ctx, &rows, query, []any{productID}, func(r *sql.Rows) error {
		var row SupplierMappingRow
		if err := r.Scan(&row.RollunID, &row.SupplierName, &row.SupplierID); err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// Dimensions reads the dimension rows of a product.
func (c *SQLAPIClient) Dimensions(ctx context.Context, productID string) ([]DimensionRow, error) {
	const query = `SELECT rollun_id, width, height, length, weight FROM product_dimension WHERE rollun_id = $1`

	var rows []DimensionRow
	err := c.cached(ctx, &rows, query, []any{productID}, func(r *sql.Rows) error {
		var row DimensionRow
		var w, h, l, wt float64
		if err := r.Scan(&row.RollunID, &w, &h, &l, &wt); err != nil {
			return err
		}
		row.Width, row.Height, row.Length, row.Weight = Number(w), Number(h), Number(l), Number(wt)
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// StopWords reads every air-shipping stop phrase.
func (c *SQLAPIClient) StopWords(ctx context.Context) ([]StopWordRow, error) {
	const query = `SELECT stop_phrase FROM stop_words`

	var rows []StopWordRow
	err := c.cached(ctx, &rows, query, nil, func(r *sql.Rows) error {
		var row StopWordRow
		if err := r.Scan(&row.StopPhrase); err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// Products reads the catalog row of a product.
func (c *SQLAPIClient) Products(ctx context.Context, productID string) ([]ProductRow, error) {
	const query = `SELECT rollun_id, title FROM product WHERE rollun_id = $1 LIMIT 1`

	var rows []ProductRow
	err := c.cached(ctx, &rows, query, []any{productID}, func(r *sql.Rows) error {
		var row ProductRow
		if err := r.Scan(&row.RollunID, &row.Title); err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// Inventory reads a supplier's stock rows for a product.
func (c *SQLAPIClient) Inventory(ctx context.Context, supplier, productID string) ([]InventoryRow, error) {
	table := InventoryResource(supplier)
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid inventory table %q", table)
	}
	query := `SELECT rollun_id, csn, qty FROM ` + table + ` WHERE rollun_id = $1`

	var rows []InventoryRow
	err := c.cached(ctx, &rows, query, []any{productID}, func(r *sql.Rows) error {
		var row InventoryRow
		var qty float64
		if err := r.Scan(&row.RollunID, &row.CSN, &qty); err != nil {
			return err
		}
		row.Quantity = Number(qty)
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// cached runs a query through the lookup cache. On a miss, scan is called for
// every row and the collected out value is stored as JSON; on a hit, out is
// decoded from the stored JSON.
func (c *SQLAPIClient) cached(ctx context.Context, out any, query string, args []any, scan func(*sql.Rows) error) error {
	key := cacheKey(query, args)
	fresh := false

	data, err := c.cache.Fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		fresh = true
		if err := c.query(ctx, query, args, scan); err != nil {
			return nil, err
		}
		return json.Marshal(out)
	})
	if err != nil {
		return err
	}
	if fresh {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *SQLAPIClient) query(ctx context.Context, query string, args []any, scan func(*sql.Rows) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func cacheKey(query string, args []any) string {
	var b strings.Builder
	b.WriteString("sql:")
	b.WriteString(query)
	for _, a := range args {
		fmt.Fprintf(&b, "|%v", a)
	}
	return b.String()
}

var _ APIClient = (*SQLAPIClient)(nil)
