package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/cache"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/database/dbtest"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
	"github.com/fekuna/omnipos-sales-service/internal/report/repository"
	"github.com/fekuna/omnipos-sales-service/internal/report/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	summaries map[string]*dto.SummaryTotals
	days      []dto.DailySales
	err       error
	calls     int
}

func (f *fakeRepo) Summary(_ context.Context, w window.Window) (*dto.SummaryTotals, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.summaries[w.String()]; ok {
		return s, nil
	}
	return &dto.SummaryTotals{}, nil
}

func (f *fakeRepo) DailySeries(context.Context, window.Window) ([]dto.DailySales, error) {
	return f.days, f.err
}

func (f *fakeRepo) ByCategory(context.Context, window.Window) ([]dto.CategorySales, error) {
	return []dto.CategorySales{}, f.err
}

func (f *fakeRepo) TopProducts(context.Context, window.Window, int) ([]dto.ProductSales, error) {
	return []dto.ProductSales{}, f.err
}

func (f *fakeRepo) Detailed(context.Context, window.Window, int) ([]dto.DetailedSale, error) {
	return []dto.DetailedSale{}, f.err
}

type memCache struct {
	data    map[string][]byte
	deletes int
	err     error
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func (m *memCache) DeletePattern(context.Context, string) error {
	m.deletes++
	m.data = map[string][]byte{}
	return m.err
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, 100.0, Growth(100, 0))
	assert.Equal(t, 0.0, Growth(0, 0))
	assert.Equal(t, -100.0, Growth(-5, 0))
	assert.Equal(t, 50.0, Growth(150, 100))
	assert.Equal(t, -25.0, Growth(75, 100))
	assert.Equal(t, 33.33, Growth(4, 3))
	// relative to the magnitude of a negative prior
	assert.Equal(t, 200.0, Growth(10, -10))
}

func TestMargin(t *testing.T) {
	assert.Equal(t, "40.0%", Margin(4, 10))
	assert.Equal(t, "33.3%", Margin(1, 3))
	assert.Equal(t, "0%", Margin(0, 0))
	assert.Equal(t, "0%", Margin(-1, -5))
	assert.Equal(t, "-20.0%", Margin(-2, 10))
}

func TestShares(t *testing.T) {
	rows := Shares([]dto.CategorySales{
		{Category: "A", Value: 1},
		{Category: "B", Value: 1},
		{Category: "C", Value: 1},
	})
	var sum float64
	for _, r := range rows {
		assert.Equal(t, 33.33, r.Percentage)
		sum += r.Percentage
	}
	assert.InDelta(t, 100, sum, 0.05)

	zero := Shares([]dto.CategorySales{{Category: "A"}, {Category: "B"}})
	for _, r := range zero {
		assert.Equal(t, 0.0, r.Percentage)
	}
}

func TestRollup(t *testing.T) {
	days := []dto.DailySales{
		{Day: "2024-12-30", Orders: 1, Revenue: 10, Profit: 4},
		{Day: "2024-12-31", Orders: 2, Revenue: 5, Profit: 1},
		{Day: "2025-01-06", Orders: 1, Revenue: 1.005, Profit: 0.5},
	}

	weeks, err := Rollup(days, window.PeriodWeek)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, dto.PeriodSales{Period: "2025-W01", Sales: 3, Revenue: 15, Profit: 5}, weeks[0])
	assert.Equal(t, "2025-W02", weeks[1].Period)

	years, err := Rollup(days, window.PeriodYear)
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, "2024", years[0].Period)
	assert.Equal(t, int64(3), years[0].Sales)
	assert.Equal(t, "2025", years[1].Period)

	perDay, err := Rollup(days, window.PeriodDay)
	require.NoError(t, err)
	assert.Len(t, perDay, 3)

	empty, err := Rollup(nil, window.PeriodMonth)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSummaryGrowthAgainstPriorPeriod(t *testing.T) {
	repo := &fakeRepo{summaries: map[string]*dto.SummaryTotals{
		"2025-06-01..2025-06-03": {TotalSales: 3, TotalRevenue: 100, TotalProfit: 40, ItemsSold: 6, Transactions: 3},
		"2025-05-29..2025-05-31": {TotalSales: 2, TotalRevenue: 0, TotalProfit: 50, ItemsSold: 6, Transactions: 2},
	}}
	uc := NewReportUseCase(repo, nil, Options{}, logger.NewNop())

	w, err := window.Resolve("2025-06-01", "2025-06-03")
	require.NoError(t, err)
	s, err := uc.GetSalesSummary(context.Background(), w)
	require.NoError(t, err)

	assert.Equal(t, 50.0, s.SalesGrowth)
	assert.Equal(t, 100.0, s.RevenueGrowth)
	assert.Equal(t, -20.0, s.ProfitGrowth)
	assert.Equal(t, 0.0, s.ItemsGrowth)
	assert.Equal(t, 50.0, s.TransactionsGrowth)
}

func TestSummaryWithoutPriorPeriodHasZeroGrowth(t *testing.T) {
	repo := &fakeRepo{summaries: map[string]*dto.SummaryTotals{
		"2025-06-01..*": {TotalSales: 3, TotalRevenue: 100},
	}}
	uc := NewReportUseCase(repo, nil, Options{}, logger.NewNop())

	w, err := window.Resolve("2025-06-01", "")
	require.NoError(t, err)
	s, err := uc.GetSalesSummary(context.Background(), w)
	require.NoError(t, err)

	assert.Equal(t, int64(3), s.TotalSales)
	assert.Zero(t, s.RevenueGrowth)
	assert.Zero(t, s.SalesGrowth)
	assert.Equal(t, 1, repo.calls)
}

func TestGetSalesReportValidatesInput(t *testing.T) {
	uc := NewReportUseCase(&fakeRepo{}, nil, Options{}, logger.NewNop())
	ctx := context.Background()

	_, err := uc.GetSalesReport(ctx, &dto.SalesReportInput{StartDate: "June 1"})
	assert.ErrorIs(t, err, window.ErrInvalidDateFormat)

	_, err = uc.GetSalesReport(ctx, &dto.SalesReportInput{Period: "quarter"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	_, err = uc.GetSalesReport(ctx, &dto.SalesReportInput{StartDate: "2025-06-05", EndDate: "2025-06-01"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
}

func TestGetSalesReportStorageFailure(t *testing.T) {
	uc := NewReportUseCase(&fakeRepo{err: errors.New("database is locked")}, nil, Options{}, logger.NewNop())

	res, err := uc.GetSalesReport(context.Background(), &dto.SalesReportInput{})
	assert.Nil(t, res)
	assert.True(t, apperror.Is(err, apperror.KindStorage))
}

func TestGetSalesReportCacheAside(t *testing.T) {
	repo := &fakeRepo{}
	c := newMemCache()
	uc := NewReportUseCase(repo, c, Options{}, logger.NewNop())
	ctx := context.Background()
	input := &dto.SalesReportInput{StartDate: "2025-06-01", Period: "DAY"}

	_, err := uc.GetSalesReport(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.Len(t, c.data, 1)

	// Same normalized input is served from the cache.
	_, err = uc.GetSalesReport(ctx, &dto.SalesReportInput{StartDate: " 2025-06-01", Period: "day", TopN: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	uc.InvalidateCache(ctx)
	assert.Equal(t, 1, c.deletes)

	_, err = uc.GetSalesReport(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestGetSalesReportIgnoresCacheErrors(t *testing.T) {
	repo := &fakeRepo{}
	c := newMemCache()
	c.err = errors.New("connection refused")
	uc := NewReportUseCase(repo, c, Options{}, logger.NewNop())

	res, err := uc.GetSalesReport(context.Background(), &dto.SalesReportInput{})
	require.NoError(t, err)
	assert.NotNil(t, res)
	uc.InvalidateCache(context.Background())
}

func TestGetSalesReportAgainstDatabase(t *testing.T) {
	db := dbtest.New(t)
	dialect, err := database.DialectFor(database.DriverSQLite)
	require.NoError(t, err)

	drinks := dbtest.InsertCategory(t, db, "Drinks")
	coffee := dbtest.InsertProduct(t, db, dbtest.Product{Name: "Coffee", SKU: "C1", CategoryID: drinks, UnitPrice: 10, PriceBought: 6})
	tea := dbtest.InsertProduct(t, db, dbtest.Product{Name: "Tea", SKU: "T1", UnitPrice: 3})

	dbtest.InsertOrder(t, db, "P1", "2025-05-31 10:00:00",
		dbtest.Item{ProductID: coffee, Quantity: 1, Price: 10, Name: "Coffee"})
	dbtest.InsertOrder(t, db, "A1", "2025-06-01 10:00:00",
		dbtest.Item{ProductID: coffee, Quantity: 2, Price: 10, Name: "Coffee"},
		dbtest.Item{ProductID: tea, Quantity: 3, Price: 3, Name: "Tea"})
	dbtest.InsertOrder(t, db, "A2", "2025-06-02 18:30:00",
		dbtest.Item{ProductID: tea, Quantity: 1, Price: 3, Name: "Tea"})

	uc := NewReportUseCase(repository.NewSQLRepository(db, dialect, 0.6), nil, Options{}, logger.NewNop())
	res, err := uc.GetSalesReport(context.Background(), &dto.SalesReportInput{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-02",
		Period:    "month",
	})
	require.NoError(t, err)

	s := res.SalesSummary
	assert.Equal(t, int64(2), s.TotalSales)
	assert.Equal(t, 32.0, s.TotalRevenue)
	// coffee 2×4 + tea 4×1.2
	assert.Equal(t, 12.8, s.TotalProfit)
	assert.Equal(t, int64(6), s.ItemsSold)
	assert.Equal(t, 100.0, s.SalesGrowth)
	assert.Equal(t, 220.0, s.RevenueGrowth)

	require.Len(t, res.SalesByPeriod, 1)
	assert.Equal(t, "2025-06", res.SalesByPeriod[0].Period)
	assert.Equal(t, int64(2), res.SalesByPeriod[0].Sales)

	require.Len(t, res.SalesByCategory, 2)
	var share float64
	for _, c := range res.SalesByCategory {
		share += c.Percentage
	}
	assert.InDelta(t, 100, share, 0.05)
	assert.Equal(t, "Drinks", res.SalesByCategory[0].Category)
	assert.Equal(t, 62.5, res.SalesByCategory[0].Percentage)

	require.Len(t, res.TopProducts, 2)
	assert.Equal(t, "Tea", res.TopProducts[0].Name)
	assert.Equal(t, int64(4), res.TopProducts[0].Sales)

	require.Len(t, res.DetailedSales, 3)
	assert.Equal(t, "2025-06-02 18:30:00", res.DetailedSales[0].Date)
	assert.Equal(t, "40.0%", res.DetailedSales[0].Margin)
	assert.Equal(t, 1.2, res.DetailedSales[0].Profit)
}

func TestGetSalesReportEmptyWindow(t *testing.T) {
	db := dbtest.New(t)
	dialect, err := database.DialectFor(database.DriverSQLite)
	require.NoError(t, err)
	uc := NewReportUseCase(repository.NewSQLRepository(db, dialect, 0.6), nil, Options{}, logger.NewNop())

	res, err := uc.GetSalesReport(context.Background(), &dto.SalesReportInput{StartDate: "2025-01-01", EndDate: "2025-01-31"})
	require.NoError(t, err)
	assert.Equal(t, dto.SalesSummary{}, res.SalesSummary)
	assert.Empty(t, res.SalesByPeriod)
	assert.Empty(t, res.SalesByCategory)
	assert.Empty(t, res.TopProducts)
	assert.Empty(t, res.DetailedSales)
}
