package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/cache"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
	"github.com/fekuna/omnipos-sales-service/internal/report/window"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "reports:sales:"

type Options struct {
	DefaultTopN int
	DetailLimit int
	CacheTTL    time.Duration
	// Clock stamps exported workbooks. Defaults to time.Now.
	Clock       func() time.Time
}

type reportUseCase struct {
	repo   report.Repository
	cache  report.Cache
	opts   Options
	logger logger.ZapLogger
}

// NewReportUseCase builds the aggregator. reportCache may be nil, which
// disables report caching.
func NewReportUseCase(repo report.Repository, reportCache report.Cache, opts Options, log logger.ZapLogger) report.UseCase {
	if opts.DefaultTopN <= 0 {
		opts.DefaultTopN = 10
	}
	if opts.DetailLimit <= 0 {
		opts.DetailLimit = 100
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &reportUseCase{
		repo:   repo,
		cache:  reportCache,
		opts:   opts,
		logger: log,
	}
}

func (uc *reportUseCase) GetSalesReport(ctx context.Context, input *dto.SalesReportInput) (*dto.SalesReport, error) {
	w, err := window.Resolve(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	period, err := window.ParsePeriod(input.Period)
	if err != nil {
		return nil, err
	}
	topN := input.TopN
	if topN <= 0 {
		topN = uc.opts.DefaultTopN
	}

	normalized := dto.SalesReportInput{StartDate: w.Start, EndDate: w.End, Period: string(period), TopN: topN}
	cacheKey := uc.cacheKey(&normalized)
	if cached := uc.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	summary, err := uc.GetSalesSummary(ctx, w)
	if err != nil {
		return nil, err
	}
	byPeriod, err := uc.GetSalesByPeriod(ctx, w, period)
	if err != nil {
		return nil, err
	}
	byCategory, err := uc.GetSalesByCategory(ctx, w)
	if err != nil {
		return nil, err
	}
	top, err := uc.GetTopProducts(ctx, w, topN)
	if err != nil {
		return nil, err
	}
	detailed, err := uc.GetDetailedSales(ctx, w)
	if err != nil {
		return nil, err
	}

	res := &dto.SalesReport{
		SalesSummary:    *summary,
		SalesByPeriod:   byPeriod,
		SalesByCategory: byCategory,
		TopProducts:     top,
		DetailedSales:   detailed,
	}
	uc.toCache(ctx, cacheKey, res)

	uc.logger.Debug("sales report computed",
		zap.String("window", w.String()),
		zap.String("period", string(period)),
		zap.Int64("orders", summary.TotalSales),
	)
	return res, nil
}

func (uc *reportUseCase) GetSalesSummary(ctx context.Context, w window.Window) (*dto.SalesSummary, error) {
	cur, err := uc.repo.Summary(ctx, w)
	if err != nil {
		return nil, apperror.Storage(err, "failed to compute sales summary")
	}

	summary := &dto.SalesSummary{
		TotalSales:   cur.TotalSales,
		TotalRevenue: round2(cur.TotalRevenue),
		TotalProfit:  round2(cur.TotalProfit),
		ItemsSold:    cur.ItemsSold,
		Transactions: cur.Transactions,
	}
	if w.Prior == nil {
		return summary, nil
	}

	prior, err := uc.repo.Summary(ctx, *w.Prior)
	if err != nil {
		return nil, apperror.Storage(err, "failed to compute prior period summary")
	}
	summary.SalesGrowth = Growth(float64(cur.TotalSales), float64(prior.TotalSales))
	summary.RevenueGrowth = Growth(cur.TotalRevenue, prior.TotalRevenue)
	summary.ProfitGrowth = Growth(cur.TotalProfit, prior.TotalProfit)
	summary.ItemsGrowth = Growth(float64(cur.ItemsSold), float64(prior.ItemsSold))
	summary.TransactionsGrowth = Growth(float64(cur.Transactions), float64(prior.Transactions))
	return summary, nil
}

func (uc *reportUseCase) GetSalesByPeriod(ctx context.Context, w window.Window, period window.Period) ([]dto.PeriodSales, error) {
	days, err := uc.repo.DailySeries(ctx, w)
	if err != nil {
		return nil, apperror.Storage(err, "failed to compute sales by period")
	}
	return Rollup(days, period)
}

func (uc *reportUseCase) GetSalesByCategory(ctx context.Context, w window.Window) ([]dto.CategorySales, error) {
	rows, err := uc.repo.ByCategory(ctx, w)
	if err != nil {
		return nil, apperror.Storage(err, "failed to compute sales by category")
	}
	return Shares(rows), nil
}

func (uc *reportUseCase) GetTopProducts(ctx context.Context, w window.Window, n int) ([]dto.ProductSales, error) {
	if n <= 0 {
		n = uc.opts.DefaultTopN
	}
	rows, err := uc.repo.TopProducts(ctx, w, n)
	if err != nil {
		return nil, apperror.Storage(err, "failed to compute top products")
	}
	for i := range rows {
		rows[i].Revenue = round2(rows[i].Revenue)
		rows[i].Profit = round2(rows[i].Profit)
	}
	return rows, nil
}

func (uc *reportUseCase) GetDetailedSales(ctx context.Context, w window.Window) ([]dto.DetailedSale, error) {
	rows, err := uc.repo.Detailed(ctx, w, uc.opts.DetailLimit)
	if err != nil {
		return nil, apperror.Storage(err, "failed to list detailed sales")
	}
	for i := range rows {
		rows[i].Date = model.FormatTimestamp(rows[i].SaleDate)
		rows[i].Margin = Margin(rows[i].Profit, rows[i].Price)
		rows[i].Profit = round2(rows[i].Profit)
		rows[i].Revenue = round2(rows[i].Revenue)
	}
	return rows, nil
}

func (uc *reportUseCase) InvalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, cacheKeyPrefix+"*"); err != nil {
		uc.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
}

func (uc *reportUseCase) cacheKey(input *dto.SalesReportInput) string {
	data, _ := json.Marshal(input)
	return fmt.Sprintf("%s%x", cacheKeyPrefix, md5.Sum(data))
}

func (uc *reportUseCase) fromCache(ctx context.Context, key string) *dto.SalesReport {
	if uc.cache == nil {
		return nil
	}
	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			uc.logger.Warn("failed to read report cache", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var res dto.SalesReport
	if err := json.Unmarshal(data, &res); err != nil {
		uc.logger.Warn("discarding malformed cached report", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &res
}

func (uc *reportUseCase) toCache(ctx context.Context, key string, res *dto.SalesReport) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, data, uc.opts.CacheTTL); err != nil {
		uc.logger.Warn("failed to write report cache", zap.String("key", key), zap.Error(err))
	}
}

// Growth is the percentage change from prior to current, rounded to two
// decimals. A zero prior yields 0, 100 or -100 depending on current's sign.
func Growth(current, prior float64) float64 {
	if prior == 0 {
		switch {
		case current > 0:
			return 100
		case current < 0:
			return -100
		default:
			return 0
		}
	}
	p := decimal.NewFromFloat(prior)
	return decimal.NewFromFloat(current).Sub(p).Div(p.Abs()).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// Rollup merges the per-day series into period buckets, ascending by key.
func Rollup(days []dto.DailySales, period window.Period) ([]dto.PeriodSales, error) {
	res := []dto.PeriodSales{}
	index := map[string]int{}
	for _, d := range days {
		day, err := time.Parse(model.DateLayout, d.Day)
		if err != nil {
			return nil, fmt.Errorf("unexpected day bucket %q: %w", d.Day, err)
		}
		key := window.BucketKey(day, period)
		i, ok := index[key]
		if !ok {
			i = len(res)
			index[key] = i
			res = append(res, dto.PeriodSales{Period: key})
		}
		res[i].Sales += d.Orders
		res[i].Revenue += d.Revenue
		res[i].Profit += d.Profit
	}
	for i := range res {
		res[i].Revenue = round2(res[i].Revenue)
		res[i].Profit = round2(res[i].Profit)
	}
	return res, nil
}

// Shares fills each category's percentage of the summed revenue. All shares
// are 0 when the total is 0.
func Shares(rows []dto.CategorySales) []dto.CategorySales {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(decimal.NewFromFloat(r.Value))
	}
	for i := range rows {
		if !total.IsZero() {
			rows[i].Percentage = decimal.NewFromFloat(rows[i].Value).Div(total).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
		}
		rows[i].Value = round2(rows[i].Value)
		rows[i].Profit = round2(rows[i].Profit)
	}
	return rows
}

// Margin renders unitProfit as a percentage of price with one decimal,
// e.g. "40.0%". Non-positive prices yield "0%".
func Margin(unitProfit, price float64) string {
	if price <= 0 {
		return "0%"
	}
	pct := decimal.NewFromFloat(unitProfit).Div(decimal.NewFromFloat(price)).Mul(decimal.NewFromInt(100))
	return pct.StringFixed(1) + "%"
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
