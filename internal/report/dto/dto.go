package dto

import "time"

type SalesReportInput struct {
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
	Period    string `json:"period" form:"period"`
	TopN      int    `json:"top_n" form:"top_n"`
}

type SalesReport struct {
	SalesSummary    SalesSummary    `json:"sales_summary"`
	SalesByPeriod   []PeriodSales   `json:"sales_by_period"`
	SalesByCategory []CategorySales `json:"sales_by_category"`
	TopProducts     []ProductSales  `json:"top_products"`
	DetailedSales   []DetailedSale  `json:"detailed_sales"`
}

type SalesSummary struct {
	TotalSales         int64   `json:"total_sales"`
	TotalRevenue       float64 `json:"total_revenue"`
	TotalProfit        float64 `json:"total_profit"`
	ItemsSold          int64   `json:"items_sold"`
	Transactions       int64   `json:"transactions"`
	SalesGrowth        float64 `json:"sales_growth"`
	RevenueGrowth      float64 `json:"revenue_growth"`
	ProfitGrowth       float64 `json:"profit_growth"`
	ItemsGrowth        float64 `json:"items_growth"`
	TransactionsGrowth float64 `json:"transactions_growth"`
}

// SummaryTotals is the raw aggregate row for one window.
type SummaryTotals struct {
	TotalSales   int64   `db:"total_sales"`
	TotalRevenue float64 `db:"total_revenue"`
	TotalProfit  float64 `db:"total_profit"`
	ItemsSold    int64   `db:"items_sold"`
	Transactions int64   `db:"transactions"`
}

// DailySales is one calendar day of the series before it is rolled up
// into the requested period.
type DailySales struct {
	Day     string  `db:"day"`
	Orders  int64   `db:"orders"`
	Revenue float64 `db:"revenue"`
	Profit  float64 `db:"profit"`
}

type PeriodSales struct {
	Period  string  `json:"period"`
	Sales   int64   `json:"sales"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

type CategorySales struct {
	Category   string  `db:"category" json:"category"`
	Value      float64 `db:"revenue" json:"value"`
	Profit     float64 `db:"profit" json:"profit"`
	Percentage float64 `db:"-" json:"percentage"`
}

type ProductSales struct {
	ProductID *int64  `db:"product_id" json:"product_id"`
	Name      string  `db:"name" json:"name"`
	Sales     int64   `db:"quantity" json:"sales"`
	Revenue   float64 `db:"revenue" json:"revenue"`
	Profit    float64 `db:"profit" json:"profit"`
}

type DetailedSale struct {
	ID       int64     `db:"id" json:"id"`
	Product  string    `db:"product" json:"product"`
	Category string    `db:"category" json:"category"`
	SaleDate time.Time `db:"sale_date" json:"-"`
	Date     string    `db:"-" json:"date"`
	Price    float64   `db:"unit_price" json:"price"`
	Profit   float64   `db:"unit_profit" json:"profit"`
	Margin   string    `db:"-" json:"margin"`
	Revenue  float64   `db:"revenue" json:"revenue"`
	Quantity int64     `db:"quantity" json:"quantity"`
}
