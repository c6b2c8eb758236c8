package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

const productColumns = `id, name, sku, category_id, unit_price, price_bought,
        current_stock, minimum_stock, supplier, created_at, updated_at`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            name, sku, category_id, unit_price, price_bought,
            current_stock, minimum_stock, supplier
        )
        VALUES (
            :name, :sku, :category_id, :unit_price, :price_bought,
            :current_stock, :minimum_stock, :supplier
        )
        RETURNING id
    `
	err := database.NamedGet(ctx, r.DB, &p.ID, query, p)
	if database.IsUniqueViolation(err) {
		return apperror.InvalidInput("sku %q already exists", p.SKU)
	}
	if err != nil {
		return err
	}

	stored, err := r.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	query := r.DB.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("product %d not found", id)
		}
		return nil, err
	}
	return &product, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	products := []model.Product{}
	var count int

	where := database.NewWhere()
	if f.CategoryID > 0 {
		where.And("category_id = :category_id", "category_id", f.CategoryID)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		where.And("(LOWER(name) LIKE :search OR LOWER(sku) LIKE :search)", "search", "%"+s+"%")
	}
	if f.LowStockOnly {
		where.And("current_stock <= minimum_stock")
	}

	countQuery := "SELECT count(*) FROM products" + where.Clause()
	if err := database.NamedGet(ctx, r.DB, &count, countQuery, where.Args()); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s", productColumns, where.Clause(), orderBy(f))
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	if err := database.NamedSelect(ctx, r.DB, &products, query, where.Args()); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

// orderBy whitelists the sortable columns.
func orderBy(f *dto.ProductFilters) string {
	column := "name"
	switch f.SortBy {
	case "price":
		column = "unit_price"
	case "stock":
		column = "current_stock"
	case "created_at":
		column = "created_at"
	}
	direction := "ASC"
	if strings.EqualFold(f.SortOrder, "desc") {
		direction = "DESC"
	}
	return column + " " + direction + ", id " + direction
}

func (r *SQLRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            sku = :sku,
            category_id = :category_id,
            unit_price = :unit_price,
            price_bought = :price_bought,
            current_stock = :current_stock,
            minimum_stock = :minimum_stock,
            supplier = :supplier,
            updated_at = CURRENT_TIMESTAMP
        WHERE id = :id
    `
	bound, args, err := r.DB.BindNamed(query, p)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, bound, args...)
	if database.IsUniqueViolation(err) {
		return apperror.InvalidInput("sku %q already exists", p.SKU)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("product %d not found", p.ID)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	// order_items.product_id is ON DELETE SET NULL; the line keeps product_name.
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind("DELETE FROM products WHERE id = ?"), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("product %d not found", id)
	}
	return nil
}

func (r *SQLRepository) IsSKUUnique(ctx context.Context, sku string, excludeID int64) (bool, error) {
	var count int
	query := r.DB.Rebind(`SELECT count(*) FROM products WHERE sku = ? AND id <> ?`)
	if err := r.DB.GetContext(ctx, &count, query, sku, excludeID); err != nil {
		return false, err
	}
	return count == 0, nil
}
