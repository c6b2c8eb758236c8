package report

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
	"github.com/fekuna/omnipos-sales-service/internal/report/window"
)

// Repository runs the read-only aggregate queries. Every method filters
// orders by the calendar day of created_at within w.
type Repository interface {
	Summary(ctx context.Context, w window.Window) (*dto.SummaryTotals, error)
	DailySeries(ctx context.Context, w window.Window) ([]dto.DailySales, error)
	ByCategory(ctx context.Context, w window.Window) ([]dto.CategorySales, error)
	TopProducts(ctx context.Context, w window.Window, limit int) ([]dto.ProductSales, error)
	Detailed(ctx context.Context, w window.Window, limit int) ([]dto.DetailedSale, error)
}
