package dto

type ProductFilters struct {
	CategoryID   int64  `form:"category_id" json:"category_id"`
	Search       string `form:"search" json:"search"` // name or SKU
	LowStockOnly bool   `form:"low_stock" json:"low_stock"`
	SortBy       string `form:"sort_by" json:"sort_by"` // name, price, stock, created_at
	SortOrder    string `form:"sort_order" json:"sort_order"`
	Page         int    `form:"page" json:"page"`
	PageSize     int    `form:"page_size" json:"page_size"`
}

type CreateProductInput struct {
	Name         string   `json:"name"`
	SKU          string   `json:"sku"`
	CategoryID   *int64   `json:"category_id"`
	UnitPrice    float64  `json:"unit_price"`
	PriceBought  *float64 `json:"price_bought"`
	CurrentStock int      `json:"current_stock"`
	MinimumStock int      `json:"minimum_stock"`
	Supplier     *string  `json:"supplier"`
}

type UpdateProductInput struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	SKU          string   `json:"sku"`
	CategoryID   *int64   `json:"category_id"`
	UnitPrice    float64  `json:"unit_price"`
	PriceBought  *float64 `json:"price_bought"`
	CurrentStock int      `json:"current_stock"`
	MinimumStock int      `json:"minimum_stock"`
	Supplier     *string  `json:"supplier"`
}
