package repository

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/database/dbtest"
	"github.com/fekuna/omnipos-sales-service/internal/report/window"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db                 *sqlx.DB
	repo               *SQLRepository
	coffee, bagel, gum int64
}

// seed builds a small catalog and four orders:
//
//	2025-05-30 12:00:00  4 bagel           (prior window)
//	2025-06-01 09:00:00  2 coffee, 1 bagel
//	2025-06-03 23:59:59  3 gum
//	2025-06-04 00:00:00  1 coffee          (after the window)
func seed(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	dialect, err := database.DialectFor(database.DriverSQLite)
	require.NoError(t, err)

	drinks := dbtest.InsertCategory(t, db, "Drinks")
	food := dbtest.InsertCategory(t, db, "Food")

	f := &fixture{db: db, repo: NewSQLRepository(db, dialect, 0.6)}
	f.coffee = dbtest.InsertProduct(t, db, dbtest.Product{Name: "Coffee", SKU: "C1", CategoryID: drinks, UnitPrice: 10, PriceBought: 4})
	f.bagel = dbtest.InsertProduct(t, db, dbtest.Product{Name: "Bagel", SKU: "B1", CategoryID: food, UnitPrice: 5})
	f.gum = dbtest.InsertProduct(t, db, dbtest.Product{Name: "Gum", SKU: "G1", UnitPrice: 2})

	dbtest.InsertOrder(t, db, "O4", "2025-05-30 12:00:00",
		dbtest.Item{ProductID: f.bagel, Quantity: 4, Price: 5, Name: "Bagel"})
	dbtest.InsertOrder(t, db, "O1", "2025-06-01 09:00:00",
		dbtest.Item{ProductID: f.coffee, Quantity: 2, Price: 10, Name: "Coffee"},
		dbtest.Item{ProductID: f.bagel, Quantity: 1, Price: 5, Name: "Bagel"})
	dbtest.InsertOrder(t, db, "O2", "2025-06-03 23:59:59",
		dbtest.Item{ProductID: f.gum, Quantity: 3, Price: 2, Name: "Gum"})
	dbtest.InsertOrder(t, db, "O3", "2025-06-04 00:00:00",
		dbtest.Item{ProductID: f.coffee, Quantity: 1, Price: 10, Name: "Coffee"})
	return f
}

func june(t *testing.T) window.Window {
	t.Helper()
	w, err := window.Resolve("2025-06-01", "2025-06-03")
	require.NoError(t, err)
	return w
}

func TestSummaryIsInclusiveByCalendarDay(t *testing.T) {
	f := seed(t)

	totals, err := f.repo.Summary(context.Background(), june(t))
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.TotalSales)
	assert.Equal(t, int64(2), totals.Transactions)
	assert.Equal(t, int64(6), totals.ItemsSold)
	assert.InDelta(t, 31.0, totals.TotalRevenue, 1e-9)
	// coffee 2×(10-4) + bagel 1×(5-3) + gum 3×(2-1.2)
	assert.InDelta(t, 16.4, totals.TotalProfit, 1e-9)
}

func TestSummaryPriorAndOpenWindows(t *testing.T) {
	f := seed(t)

	prior, err := f.repo.Summary(context.Background(), *june(t).Prior)
	require.NoError(t, err)
	assert.Equal(t, int64(1), prior.TotalSales)
	assert.InDelta(t, 20.0, prior.TotalRevenue, 1e-9)

	all, err := f.repo.Summary(context.Background(), window.Window{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.TotalSales)
	assert.Equal(t, int64(11), all.ItemsSold)

	from, err := window.Resolve("2025-06-04", "")
	require.NoError(t, err)
	after, err := f.repo.Summary(context.Background(), from)
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.TotalSales)
}

func TestEmptyWindowYieldsZeros(t *testing.T) {
	f := seed(t)
	w, err := window.Resolve("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	ctx := context.Background()

	totals, err := f.repo.Summary(ctx, w)
	require.NoError(t, err)
	assert.Zero(t, *totals)

	days, err := f.repo.DailySeries(ctx, w)
	require.NoError(t, err)
	assert.Empty(t, days)

	cats, err := f.repo.ByCategory(ctx, w)
	require.NoError(t, err)
	assert.Empty(t, cats)

	top, err := f.repo.TopProducts(ctx, w, 10)
	require.NoError(t, err)
	assert.Empty(t, top)

	detailed, err := f.repo.Detailed(ctx, w, 100)
	require.NoError(t, err)
	assert.Empty(t, detailed)
}

func TestDailySeries(t *testing.T) {
	f := seed(t)

	days, err := f.repo.DailySeries(context.Background(), june(t))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-06-01", days[0].Day)
	assert.Equal(t, int64(1), days[0].Orders)
	assert.InDelta(t, 25.0, days[0].Revenue, 1e-9)
	assert.InDelta(t, 14.0, days[0].Profit, 1e-9)
	assert.Equal(t, "2025-06-03", days[1].Day)
	assert.InDelta(t, 6.0, days[1].Revenue, 1e-9)
}

func TestByCategoryIncludesUncategorized(t *testing.T) {
	f := seed(t)

	rows, err := f.repo.ByCategory(context.Background(), june(t))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Drinks", rows[0].Category)
	assert.InDelta(t, 20.0, rows[0].Value, 1e-9)
	assert.InDelta(t, 12.0, rows[0].Profit, 1e-9)
	assert.Equal(t, "Uncategorized", rows[1].Category)
	assert.InDelta(t, 6.0, rows[1].Value, 1e-9)
	assert.Equal(t, "Food", rows[2].Category)
	assert.InDelta(t, 5.0, rows[2].Value, 1e-9)
}

func TestTopProductsOrderingAndLimit(t *testing.T) {
	f := seed(t)

	rows, err := f.repo.TopProducts(context.Background(), june(t), 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Gum", rows[0].Name)
	assert.Equal(t, int64(3), rows[0].Sales)
	require.NotNil(t, rows[0].ProductID)
	assert.Equal(t, f.gum, *rows[0].ProductID)
	assert.Equal(t, "Coffee", rows[1].Name)
	assert.InDelta(t, 20.0, rows[1].Revenue, 1e-9)
}

func TestTopProductsFallsBackToSnapshotName(t *testing.T) {
	f := seed(t)
	dbtest.Exec(t, f.db, `DELETE FROM products WHERE id = ?`, f.gum)

	rows, err := f.repo.TopProducts(context.Background(), june(t), 10)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Gum", rows[0].Name)
	assert.Nil(t, rows[0].ProductID)
	// cost falls back to the ratio once the product row is gone
	assert.InDelta(t, 2.4, rows[0].Profit, 1e-9)
}

func TestDetailedNewestFirst(t *testing.T) {
	f := seed(t)

	rows, err := f.repo.Detailed(context.Background(), june(t), 100)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Gum", rows[0].Product)
	assert.Equal(t, "Uncategorized", rows[0].Category)
	assert.Equal(t, "2025-06-03 23:59:59", rows[0].SaleDate.Format("2006-01-02 15:04:05"))
	assert.InDelta(t, 0.8, rows[0].Profit, 1e-9)
	assert.InDelta(t, 6.0, rows[0].Revenue, 1e-9)

	assert.Equal(t, "Bagel", rows[1].Product)
	assert.Equal(t, "Food", rows[1].Category)
	assert.Equal(t, "Coffee", rows[2].Product)
	assert.InDelta(t, 6.0, rows[2].Profit, 1e-9)
	assert.Equal(t, int64(2), rows[2].Quantity)

	limited, err := f.repo.Detailed(context.Background(), june(t), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCostRatioIsConfigurable(t *testing.T) {
	f := seed(t)
	f.repo.CostRatio = 0.5

	totals, err := f.repo.Summary(context.Background(), june(t))
	require.NoError(t, err)
	// coffee 2×6 + bagel 1×2.5 + gum 3×1
	assert.InDelta(t, 17.5, totals.TotalProfit, 1e-9)
}
