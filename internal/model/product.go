package model

import "time"

type Product struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	SKU          string    `db:"sku" json:"sku"`
	CategoryID   *int64    `db:"category_id" json:"category_id"` // Nullable
	UnitPrice    float64   `db:"unit_price" json:"unit_price"`
	PriceBought  *float64  `db:"price_bought" json:"price_bought"` // Cost price, nullable
	CurrentStock int       `db:"current_stock" json:"current_stock"`
	MinimumStock int       `db:"minimum_stock" json:"minimum_stock"`
	Supplier     *string   `db:"supplier" json:"supplier"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

// IsLowStock reports whether the product is at or below its minimum stock.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinimumStock
}
