package order

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/order/dto"
	"github.com/jmoiron/sqlx"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, id int64) (*dto.OrderResponse, error)
	ListRecentOrders(ctx context.Context, limit int) ([]dto.OrderResponse, error)
	ListOrderHistory(ctx context.Context, filters *dto.HistoryFilters) ([]dto.OrderResponse, error)
	GetOrderStatistics(ctx context.Context, filters *dto.StatisticsFilters) (*dto.OrderStatistics, error)
}

// TxRunner is satisfied by *database.TxManager.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// EventPublisher is satisfied by *event.KafkaPublisher.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *model.Order) error
}

// CacheInvalidator is satisfied by report.UseCase and product.UseCase.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context)
}
