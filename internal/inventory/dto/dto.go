package dto

type LowStockFilters struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

type StockLevel struct {
	ProductID    int64  `db:"id" json:"product_id"`
	Name         string `db:"name" json:"name"`
	SKU          string `db:"sku" json:"sku"`
	CurrentStock int    `db:"current_stock" json:"current_stock"`
	MinimumStock int    `db:"minimum_stock" json:"minimum_stock"`
}

func (s StockLevel) IsLow() bool {
	return s.CurrentStock <= s.MinimumStock
}
