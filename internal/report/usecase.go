package report

import (
	"context"
	"io"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
	"github.com/fekuna/omnipos-sales-service/internal/report/window"
)

type UseCase interface {
	GetSalesReport(ctx context.Context, input *dto.SalesReportInput) (*dto.SalesReport, error)
	// ExportSalesReport writes the same report as an xlsx workbook with a
	// Summary sheet and a Detailed Sales sheet.
	ExportSalesReport(ctx context.Context, input *dto.SalesReportInput, out io.Writer) error

	GetSalesSummary(ctx context.Context, w window.Window) (*dto.SalesSummary, error)
	GetSalesByPeriod(ctx context.Context, w window.Window, period window.Period) ([]dto.PeriodSales, error)
	GetSalesByCategory(ctx context.Context, w window.Window) ([]dto.CategorySales, error)
	GetTopProducts(ctx context.Context, w window.Window, n int) ([]dto.ProductSales, error)
	GetDetailedSales(ctx context.Context, w window.Window) ([]dto.DetailedSale, error)

	// InvalidateCache drops every cached report. Called after an order commits.
	InvalidateCache(ctx context.Context)
}

// Cache is satisfied by *cache.RedisClient.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}
