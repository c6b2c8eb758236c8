package dto

import "github.com/fekuna/omnipos-sales-service/internal/model"

type CreateOrderInput struct {
	OrderID  string                 `json:"order_id"`
	Cashier  string                 `json:"cashier"`
	Subtotal float64                `json:"subtotal"`
	Tax      float64                `json:"tax"`
	Total    float64                `json:"total"`
	Status   string                 `json:"status"`
	Items    []CreateOrderItemInput `json:"items"`
}

type CreateOrderItemInput struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type HistoryFilters struct {
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
	Status    string `json:"status" form:"status"`
	Limit     int    `json:"limit" form:"limit"`
}

type StatisticsFilters struct {
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
}

type OrderStatistics struct {
	OrderCount     int64   `db:"order_count" json:"order_count"`
	TotalRevenue   float64 `db:"total_revenue" json:"total_revenue"`
	AvgOrderValue  float64 `db:"avg_order_value" json:"avg_order_value"`
	UniqueCashiers int64   `db:"unique_cashiers" json:"unique_cashiers"`
}

type OrderResponse struct {
	ID        int64               `json:"id"`
	OrderID   string              `json:"order_id"`
	Cashier   string              `json:"cashier"`
	Subtotal  float64             `json:"subtotal"`
	Tax       float64             `json:"tax"`
	Total     float64             `json:"total"`
	Status    string              `json:"status"`
	CreatedAt string              `json:"created_at"`
	Items     []OrderItemResponse `json:"items,omitempty"`
}

type OrderItemResponse struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   *int64  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	CreatedAt   string  `json:"created_at"`
}

func NewOrderResponse(o *model.Order) OrderResponse {
	res := OrderResponse{
		ID:        o.ID,
		OrderID:   o.OrderID,
		Cashier:   o.Cashier,
		Subtotal:  o.Subtotal,
		Tax:       o.Tax,
		Total:     o.Total,
		Status:    o.Status,
		CreatedAt: model.FormatTimestamp(o.CreatedAt),
	}
	for _, item := range o.Items {
		res.Items = append(res.Items, OrderItemResponse{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			CreatedAt:   model.FormatTimestamp(item.CreatedAt),
		})
	}
	return res
}

func NewOrderResponses(orders []model.Order) []OrderResponse {
	res := make([]OrderResponse, len(orders))
	for i := range orders {
		res[i] = NewOrderResponse(&orders[i])
	}
	return res
}
