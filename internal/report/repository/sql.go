package repository

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
	"github.com/fekuna/omnipos-sales-service/internal/report/window"
	"github.com/jmoiron/sqlx"
)

const (
	saleJoins = `
        FROM orders o
        JOIN order_items oi ON oi.order_id = o.id
        LEFT JOIN products p ON p.id = oi.product_id`

	// unitProfit falls back to cost_ratio × price when the recorded cost is
	// missing or non-positive, including items whose product was deleted.
	unitProfit  = "(oi.price - CASE WHEN p.price_bought > 0 THEN p.price_bought ELSE :cost_ratio * oi.price END)"
	lineProfit  = unitProfit + " * oi.quantity"
	lineRevenue = "oi.price * oi.quantity"
)

type SQLRepository struct {
	DB        *sqlx.DB
	Dialect   database.Dialect
	CostRatio float64
}

func NewSQLRepository(db *sqlx.DB, dialect database.Dialect, costRatio float64) *SQLRepository {
	return &SQLRepository{DB: db, Dialect: dialect, CostRatio: costRatio}
}

func (r *SQLRepository) where(w window.Window) *database.Where {
	return w.Apply(database.NewWhere(), r.Dialect.DayExpr("o.created_at")).Set("cost_ratio", r.CostRatio)
}

func (r *SQLRepository) Summary(ctx context.Context, w window.Window) (*dto.SummaryTotals, error) {
	where := r.where(w)
	query := fmt.Sprintf(`
        SELECT COUNT(DISTINCT o.id) AS total_sales,
               COALESCE(SUM(%s), 0) AS total_revenue,
               COALESCE(SUM(%s), 0) AS total_profit,
               COALESCE(SUM(oi.quantity), 0) AS items_sold,
               COUNT(DISTINCT o.id) AS transactions
        %s%s
    `, lineRevenue, lineProfit, saleJoins, where.Clause())

	var totals dto.SummaryTotals
	if err := database.NamedGet(ctx, r.DB, &totals, query, where.Args()); err != nil {
		return nil, fmt.Errorf("failed to query sales summary: %w", err)
	}
	return &totals, nil
}

func (r *SQLRepository) DailySeries(ctx context.Context, w window.Window) ([]dto.DailySales, error) {
	where := r.where(w)
	day := r.Dialect.DayExpr("o.created_at")
	query := fmt.Sprintf(`
        SELECT %s AS day,
               COUNT(DISTINCT o.id) AS orders,
               COALESCE(SUM(%s), 0) AS revenue,
               COALESCE(SUM(%s), 0) AS profit
        %s%s
        GROUP BY %s
        ORDER BY day
    `, day, lineRevenue, lineProfit, saleJoins, where.Clause(), day)

	rows := []dto.DailySales{}
	if err := database.NamedSelect(ctx, r.DB, &rows, query, where.Args()); err != nil {
		return nil, fmt.Errorf("failed to query sales by day: %w", err)
	}
	return rows, nil
}

func (r *SQLRepository) ByCategory(ctx context.Context, w window.Window) ([]dto.CategorySales, error) {
	where := r.where(w)
	query := fmt.Sprintf(`
        SELECT COALESCE(c.name, 'Uncategorized') AS category,
               COALESCE(SUM(%s), 0) AS revenue,
               COALESCE(SUM(%s), 0) AS profit
        %s
        LEFT JOIN categories c ON c.id = p.category_id
        %s
        GROUP BY COALESCE(c.name, 'Uncategorized')
        ORDER BY revenue DESC, category ASC
    `, lineRevenue, lineProfit, saleJoins, where.Clause())

	rows := []dto.CategorySales{}
	if err := database.NamedSelect(ctx, r.DB, &rows, query, where.Args()); err != nil {
		return nil, fmt.Errorf("failed to query sales by category: %w", err)
	}
	return rows, nil
}

func (r *SQLRepository) TopProducts(ctx context.Context, w window.Window, limit int) ([]dto.ProductSales, error) {
	where := r.where(w).Set("limit", limit)
	query := fmt.Sprintf(`
        SELECT oi.product_id,
               COALESCE(p.name, oi.product_name) AS name,
               COALESCE(SUM(oi.quantity), 0) AS quantity,
               COALESCE(SUM(%s), 0) AS revenue,
               COALESCE(SUM(%s), 0) AS profit
        %s%s
        GROUP BY oi.product_id, COALESCE(p.name, oi.product_name)
        ORDER BY quantity DESC, revenue DESC, name ASC
        LIMIT :limit
    `, lineRevenue, lineProfit, saleJoins, where.Clause())

	rows := []dto.ProductSales{}
	if err := database.NamedSelect(ctx, r.DB, &rows, query, where.Args()); err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	return rows, nil
}

func (r *SQLRepository) Detailed(ctx context.Context, w window.Window, limit int) ([]dto.DetailedSale, error) {
	where := r.where(w).Set("limit", limit)
	query := fmt.Sprintf(`
        SELECT oi.id,
               COALESCE(p.name, oi.product_name, 'Unknown Product') AS product,
               COALESCE(c.name, 'Uncategorized') AS category,
               o.created_at AS sale_date,
               oi.price AS unit_price,
               %s AS unit_profit,
               %s AS revenue,
               oi.quantity
        %s
        LEFT JOIN categories c ON c.id = p.category_id
        %s
        ORDER BY o.created_at DESC, oi.id DESC
        LIMIT :limit
    `, unitProfit, lineRevenue, saleJoins, where.Clause())

	rows := []dto.DetailedSale{}
	if err := database.NamedSelect(ctx, r.DB, &rows, query, where.Args()); err != nil {
		return nil, fmt.Errorf("failed to query detailed sales: %w", err)
	}
	return rows, nil
}
