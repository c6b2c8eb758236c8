package dbtest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// Product describes a catalog row to seed. Zero CategoryID and PriceBought
// are stored as NULL.
type Product struct {
	Name         string
	SKU          string
	CategoryID   int64
	UnitPrice    float64
	PriceBought  float64
	CurrentStock int
	MinimumStock int
}

// Item is a line item of a seeded order.
type Item struct {
	ProductID int64
	Quantity  int
	Price     float64
	Name      string
}

func insertID(t *testing.T, db *sqlx.DB, query string, args ...interface{}) int64 {
	t.Helper()
	var id int64
	require.NoError(t, db.Get(&id, db.Rebind(query+" RETURNING id"), args...))
	return id
}

func InsertCategory(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()
	return insertID(t, db, `INSERT INTO categories (name) VALUES (?)`, name)
}

func InsertProduct(t *testing.T, db *sqlx.DB, p Product) int64 {
	t.Helper()
	var categoryID, priceBought interface{}
	if p.CategoryID != 0 {
		categoryID = p.CategoryID
	}
	if p.PriceBought != 0 {
		priceBought = p.PriceBought
	}
	return insertID(t, db, `
        INSERT INTO products (name, sku, category_id, unit_price, price_bought, current_stock, minimum_stock)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.SKU, categoryID, p.UnitPrice, priceBought, p.CurrentStock, p.MinimumStock)
}

// InsertOrder writes an order stamped at createdAt ("YYYY-MM-DD HH:MM:SS")
// with the given items, bypassing stock handling. Totals are derived from
// the items.
func InsertOrder(t *testing.T, db *sqlx.DB, orderID, createdAt string, items ...Item) int64 {
	t.Helper()
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	id := insertID(t, db, `
        INSERT INTO orders (order_id, cashier, subtotal, tax, total, status, created_at)
        VALUES (?, 'tester', ?, 0, ?, 'completed', ?)`,
		orderID, total, total, createdAt)

	for _, it := range items {
		var productID interface{}
		if it.ProductID != 0 {
			productID = it.ProductID
		}
		Exec(t, db, `
            INSERT INTO order_items (order_id, product_id, quantity, price, product_name, created_at)
            VALUES (?, ?, ?, ?, ?, ?)`,
			id, productID, it.Quantity, it.Price, it.Name, createdAt)
	}
	return id
}
