package model

import "time"

const OrderStatusCompleted = "completed"

type Order struct {
	ID        int64       `db:"id"`
	OrderID   string      `db:"order_id"`
	Cashier   string      `db:"cashier"`
	Subtotal  float64     `db:"subtotal"`
	Tax       float64     `db:"tax"`
	Total     float64     `db:"total"`
	Status    string      `db:"status"`
	CreatedAt time.Time   `db:"created_at"`
	Items     []OrderItem `db:"-"` // Loaded separately
}

type OrderItem struct {
	ID          int64     `db:"id"`
	OrderID     int64     `db:"order_id"`
	ProductID   *int64    `db:"product_id"` // Nullable once the product is deleted
	Quantity    int       `db:"quantity"`
	Price       float64   `db:"price"` // Unit price at time of sale
	ProductName string    `db:"product_name"`
	CreatedAt   time.Time `db:"created_at"`
}

// Revenue is price × quantity for the line.
func (i *OrderItem) Revenue() float64 {
	return i.Price * float64(i.Quantity)
}
