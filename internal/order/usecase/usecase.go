package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/order"
	"github.com/fekuna/omnipos-sales-service/internal/order/dto"
	"github.com/fekuna/omnipos-sales-service/internal/report/window"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultRecentLimit  = 10
	defaultHistoryLimit = 100
	sideEffectTimeout   = 5 * time.Second
)

type Options struct {
	// RequireUniqueID rejects an order whose order_id is already stored.
	RequireUniqueID bool
	// Clock stamps created_at. Defaults to time.Now.
	Clock func() time.Time
	// Publisher, Reports and Catalog are optional post-commit hooks.
	Publisher order.EventPublisher
	Reports   order.CacheInvalidator
	Catalog   order.CacheInvalidator
}

type orderUseCase struct {
	repo   order.Repository
	ledger inventory.Ledger
	tx     order.TxRunner
	opts   Options
	logger logger.ZapLogger
}

func NewOrderUseCase(repo order.Repository, ledger inventory.Ledger, tx order.TxRunner, opts Options, log logger.ZapLogger) order.UseCase {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &orderUseCase{
		repo:   repo,
		ledger: ledger,
		tx:     tx,
		opts:   opts,
		logger: log,
	}
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*dto.OrderResponse, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	now := uc.opts.Clock()
	o := &model.Order{
		OrderID:   strings.TrimSpace(input.OrderID),
		Cashier:   strings.TrimSpace(input.Cashier),
		Subtotal:  input.Subtotal,
		Tax:       input.Tax,
		Total:     input.Total,
		Status:    strings.TrimSpace(input.Status),
		CreatedAt: now,
	}
	if o.OrderID == "" {
		o.OrderID = NewOrderID()
	}
	if o.Status == "" {
		o.Status = model.OrderStatusCompleted
	}
	if o.Cashier == "" {
		o.Cashier = auth.GetCashier(ctx)
	}

	err := uc.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if uc.opts.RequireUniqueID {
			exists, err := uc.repo.OrderIDExists(ctx, tx, o.OrderID)
			if err != nil {
				return err
			}
			if exists {
				return apperror.InvalidInput("order_id %q already exists", o.OrderID)
			}
		}

		id, err := uc.repo.InsertOrder(ctx, tx, o)
		if err != nil {
			return err
		}
		o.ID = id

		for _, in := range input.Items {
			name, err := uc.repo.ProductName(ctx, tx, in.ProductID)
			if err != nil {
				return err
			}

			productID := in.ProductID
			item := model.OrderItem{
				OrderID:     id,
				ProductID:   &productID,
				Quantity:    in.Quantity,
				Price:       in.Price,
				ProductName: name,
				CreatedAt:   now,
			}
			itemID, err := uc.repo.InsertItem(ctx, tx, &item)
			if err != nil {
				return err
			}
			item.ID = itemID
			o.Items = append(o.Items, item)

			if _, err := uc.ledger.DecrementStock(ctx, tx, in.ProductID, in.Quantity, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("order rolled back",
			zap.String("order_id", o.OrderID),
			zap.Int("items", len(input.Items)),
			zap.Error(err),
		)
		return nil, apperror.TransactionAborted(err, "order %s was not created", o.OrderID)
	}

	uc.logger.Info("order created",
		zap.Int64("id", o.ID),
		zap.String("order_id", o.OrderID),
		zap.Float64("total", o.Total),
		zap.Int("items", len(input.Items)),
	)

	uc.afterCommit(ctx, o)

	// The order is durable at this point, so a failed read-back must not
	// turn into an error the caller would retry.
	created, err := uc.loadOrder(ctx, o.ID)
	if err != nil {
		uc.logger.Warn("failed to reload committed order",
			zap.Int64("id", o.ID),
			zap.String("order_id", o.OrderID),
			zap.Error(err),
		)
		created = o
	}

	res := dto.NewOrderResponse(created)
	return &res, nil
}

// afterCommit runs the best-effort side effects of a committed order. Their
// failures are logged and never reach the caller.
func (uc *orderUseCase) afterCommit(ctx context.Context, o *model.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if uc.opts.Reports != nil {
		uc.opts.Reports.InvalidateCache(ctx)
	}
	if uc.opts.Catalog != nil {
		uc.opts.Catalog.InvalidateCache(ctx)
	}
	if uc.opts.Publisher != nil {
		if err := uc.opts.Publisher.PublishOrderCreated(ctx, o); err != nil {
			uc.logger.Warn("failed to publish order event",
				zap.Int64("id", o.ID),
				zap.String("order_id", o.OrderID),
				zap.Error(err),
			)
		}
	}
}

func (uc *orderUseCase) loadOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, err
		}
		return nil, apperror.Storage(err, "failed to load order %d", id)
	}

	items, err := uc.repo.ListItems(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err, "failed to load items of order %d", id)
	}
	o.Items = items
	return o, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id int64) (*dto.OrderResponse, error) {
	if id <= 0 {
		return nil, apperror.InvalidInput("invalid order id %d", id)
	}
	o, err := uc.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	res := dto.NewOrderResponse(o)
	return &res, nil
}

func (uc *orderUseCase) ListRecentOrders(ctx context.Context, limit int) ([]dto.OrderResponse, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	orders, err := uc.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperror.Storage(err, "failed to list recent orders")
	}
	return dto.NewOrderResponses(orders), nil
}

func (uc *orderUseCase) ListOrderHistory(ctx context.Context, filters *dto.HistoryFilters) ([]dto.OrderResponse, error) {
	w, err := window.Resolve(filters.StartDate, filters.EndDate)
	if err != nil {
		return nil, err
	}
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	orders, err := uc.repo.ListHistory(ctx, w, strings.TrimSpace(filters.Status), limit)
	if err != nil {
		return nil, apperror.Storage(err, "failed to list order history")
	}
	return dto.NewOrderResponses(orders), nil
}

func (uc *orderUseCase) GetOrderStatistics(ctx context.Context, filters *dto.StatisticsFilters) (*dto.OrderStatistics, error) {
	w, err := window.Resolve(filters.StartDate, filters.EndDate)
	if err != nil {
		return nil, err
	}

	stats, err := uc.repo.Statistics(ctx, w)
	if err != nil {
		return nil, apperror.Storage(err, "failed to compute order statistics")
	}
	stats.TotalRevenue = decimal.NewFromFloat(stats.TotalRevenue).Round(2).InexactFloat64()
	stats.AvgOrderValue = decimal.NewFromFloat(stats.AvgOrderValue).Round(2).InexactFloat64()
	return stats, nil
}

func validate(input *dto.CreateOrderInput) error {
	if input == nil || len(input.Items) == 0 {
		return apperror.InvalidInput("order must contain at least one item")
	}
	if input.Subtotal < 0 || input.Tax < 0 || input.Total < 0 {
		return apperror.InvalidInput("order amounts must not be negative")
	}
	for i, item := range input.Items {
		switch {
		case item.ProductID <= 0:
			return apperror.InvalidInput("item %d: invalid product_id %d", i, item.ProductID)
		case item.Quantity <= 0:
			return apperror.InvalidInput("item %d: quantity must be positive, got %d", i, item.Quantity)
		case item.Price < 0:
			return apperror.InvalidInput("item %d: price must not be negative", i)
		}
	}
	return nil
}

// NewOrderID returns a display id such as "ORD-1A2B3C4D".
func NewOrderID() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "ORD-" + strings.ToUpper(id[:8])
}
