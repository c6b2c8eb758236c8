package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/order/dto"
	"github.com/fekuna/omnipos-sales-service/internal/report/window"
	"github.com/jmoiron/sqlx"
)

const orderColumns = "id, order_id, cashier, subtotal, tax, total, status, created_at"

type SQLRepository struct {
	DB      *sqlx.DB
	Dialect database.Dialect
}

func NewSQLRepository(db *sqlx.DB, dialect database.Dialect) *SQLRepository {
	return &SQLRepository{DB: db, Dialect: dialect}
}

func (r *SQLRepository) InsertOrder(ctx context.Context, tx *sqlx.Tx, o *model.Order) (int64, error) {
	query := `
        INSERT INTO orders (order_id, cashier, subtotal, tax, total, status, created_at)
        VALUES (:order_id, :cashier, :subtotal, :tax, :total, :status, :created_at)
        RETURNING id
    `
	var id int64
	err := database.NamedGet(ctx, tx, &id, query, map[string]interface{}{
		"order_id":   o.OrderID,
		"cashier":    o.Cashier,
		"subtotal":   o.Subtotal,
		"tax":        o.Tax,
		"total":      o.Total,
		"status":     o.Status,
		"created_at": model.FormatTimestamp(o.CreatedAt),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}
	return id, nil
}

func (r *SQLRepository) InsertItem(ctx context.Context, tx *sqlx.Tx, item *model.OrderItem) (int64, error) {
	query := `
        INSERT INTO order_items (order_id, product_id, quantity, price, product_name, created_at)
        VALUES (:order_id, :product_id, :quantity, :price, :product_name, :created_at)
        RETURNING id
    `
	var productID interface{}
	if item.ProductID != nil {
		productID = *item.ProductID
	}

	var id int64
	err := database.NamedGet(ctx, tx, &id, query, map[string]interface{}{
		"order_id":     item.OrderID,
		"product_id":   productID,
		"quantity":     item.Quantity,
		"price":        item.Price,
		"product_name": item.ProductName,
		"created_at":   model.FormatTimestamp(item.CreatedAt),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert order item: %w", err)
	}
	return id, nil
}

func (r *SQLRepository) ProductName(ctx context.Context, tx *sqlx.Tx, productID int64) (string, error) {
	var name string
	err := tx.GetContext(ctx, &name, tx.Rebind(`SELECT name FROM products WHERE id = ?`), productID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperror.NotFound("product %d not found", productID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get product name: %w", err)
	}
	return name, nil
}

func (r *SQLRepository) OrderIDExists(ctx context.Context, tx *sqlx.Tx, orderID string) (bool, error) {
	var n int
	err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM orders WHERE order_id = ?`), orderID)
	if err != nil {
		return false, fmt.Errorf("failed to check order id: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	var o model.Order
	query := r.DB.Rebind("SELECT " + orderColumns + " FROM orders WHERE id = ?")
	err := r.DB.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("order %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// ListItems returns the lines of an order. The name prefers the current
// catalog name, then the snapshot taken at sale time.
func (r *SQLRepository) ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	items := []model.OrderItem{}
	query := r.DB.Rebind(`
        SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.created_at,
               COALESCE(p.name, oi.product_name, 'Deleted Product') AS product_name
        FROM order_items oi
        LEFT JOIN products p ON p.id = oi.product_id
        WHERE oi.order_id = ?
        ORDER BY oi.id
    `)
	if err := r.DB.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	return items, nil
}

func (r *SQLRepository) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	orders := []model.Order{}
	query := r.DB.Rebind("SELECT " + orderColumns + " FROM orders ORDER BY created_at DESC, id DESC LIMIT ?")
	if err := r.DB.SelectContext(ctx, &orders, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return orders, nil
}

func (r *SQLRepository) ListHistory(ctx context.Context, w window.Window, status string, limit int) ([]model.Order, error) {
	where := w.Apply(database.NewWhere(), r.Dialect.DayExpr("created_at"))
	if status != "" {
		where.And("status = :status", "status", status)
	}
	where.Set("limit", limit)

	query := "SELECT " + orderColumns + " FROM orders" + where.Clause() +
		" ORDER BY created_at DESC, id DESC LIMIT :limit"

	orders := []model.Order{}
	if err := database.NamedSelect(ctx, r.DB, &orders, query, where.Args()); err != nil {
		return nil, fmt.Errorf("failed to list order history: %w", err)
	}
	return orders, nil
}

func (r *SQLRepository) Statistics(ctx context.Context, w window.Window) (*dto.OrderStatistics, error) {
	where := w.Apply(database.NewWhere(), r.Dialect.DayExpr("created_at"))
	query := `
        SELECT COUNT(*) AS order_count,
               COALESCE(SUM(total), 0) AS total_revenue,
               COALESCE(AVG(total), 0) AS avg_order_value,
               COUNT(DISTINCT cashier) AS unique_cashiers
        FROM orders` + where.Clause()

	var stats dto.OrderStatistics
	if err := database.NamedGet(ctx, r.DB, &stats, query, where.Args()); err != nil {
		return nil, fmt.Errorf("failed to query order statistics: %w", err)
	}
	return &stats, nil
}
