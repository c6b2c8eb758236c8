package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB     *sqlx.DB
	Policy inventory.StockPolicy
}

func NewSQLRepository(db *sqlx.DB, policy inventory.StockPolicy) *SQLRepository {
	return &SQLRepository{DB: db, Policy: policy}
}

func (r *SQLRepository) DecrementStock(ctx context.Context, tx *sqlx.Tx, productID int64, quantity int, at time.Time) (*dto.StockLevel, error) {
	newStock := "current_stock - :quantity"
	where := database.NewWhere().And("id = :id", "id", productID).
		Set("quantity", quantity).
		Set("updated_at", model.FormatTimestamp(at))

	switch r.Policy {
	case inventory.StockPolicyRejectBelowZero:
		where.And("current_stock >= :quantity")
	case inventory.StockPolicyClampToZero:
		newStock = "CASE WHEN current_stock >= :quantity THEN current_stock - :quantity ELSE 0 END"
	}

	query := fmt.Sprintf(`
        UPDATE products
        SET current_stock = %s,
            updated_at = :updated_at
        %s
        RETURNING id, name, sku, current_stock, minimum_stock
    `, newStock, where.Clause())

	var level dto.StockLevel
	err := database.NamedGet(ctx, tx, &level, query, where.Args())
	if err == nil {
		return &level, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Storage(err, "failed to update stock for product %d", productID)
	}

	// No row updated: either the product is gone or the policy refused the decrement.
	var current int
	err = sqlx.GetContext(ctx, tx, &current, tx.Rebind(`SELECT current_stock FROM products WHERE id = ?`), productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("product %d not found", productID)
	}
	if err != nil {
		return nil, apperror.Storage(err, "failed to read stock for product %d", productID)
	}
	return nil, apperror.Wrap(apperror.KindInvalidInput, inventory.ErrInsufficientStock,
		"product %d has %d in stock, %d requested", productID, current, quantity)
}

func (r *SQLRepository) ListLowStock(ctx context.Context, f *dto.LowStockFilters) ([]dto.StockLevel, int, error) {
	items := []dto.StockLevel{}
	var count int

	whereClause := " WHERE current_stock <= minimum_stock"

	countQuery := "SELECT count(*) FROM products" + whereClause
	if err := r.DB.GetContext(ctx, &count, countQuery); err != nil {
		return nil, 0, err
	}

	query := "SELECT id, name, sku, current_stock, minimum_stock FROM products" + whereClause +
		" ORDER BY current_stock - minimum_stock ASC, name ASC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		offset := (page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	err := r.DB.SelectContext(ctx, &items, query)
	return items, count, err
}

func (r *SQLRepository) BatchGetStockLevels(ctx context.Context, productIDs []int64) ([]dto.StockLevel, error) {
	if len(productIDs) == 0 {
		return []dto.StockLevel{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT id, name, sku, current_stock, minimum_stock
        FROM products
        WHERE id IN (?)
        ORDER BY id
    `, productIDs)
	if err != nil {
		return nil, err
	}

	query = r.DB.Rebind(query)

	var items []dto.StockLevel
	err = r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}
