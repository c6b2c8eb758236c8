package order

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/order/dto"
	"github.com/fekuna/omnipos-sales-service/internal/report/window"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// Writes. These only run inside the order transaction.
	InsertOrder(ctx context.Context, tx *sqlx.Tx, o *model.Order) (int64, error)
	InsertItem(ctx context.Context, tx *sqlx.Tx, item *model.OrderItem) (int64, error)
	ProductName(ctx context.Context, tx *sqlx.Tx, productID int64) (string, error)
	OrderIDExists(ctx context.Context, tx *sqlx.Tx, orderID string) (bool, error)

	FindByID(ctx context.Context, id int64) (*model.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	ListRecent(ctx context.Context, limit int) ([]model.Order, error)
	ListHistory(ctx context.Context, w window.Window, status string, limit int) ([]model.Order, error)
	Statistics(ctx context.Context, w window.Window) (*dto.OrderStatistics, error)
}
