package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/event"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// InventoryListener watches OrderCreated events and reports products that
// the order pushed to or below their minimum stock.
type InventoryListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting inventory Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping inventory Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var evt event.OrderCreatedEvent
	if err := json.Unmarshal(value, &evt); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if evt.EventType != event.TypeOrderCreated {
		return
	}

	productIDs := make([]int64, 0, len(evt.Payload.Items))
	for _, item := range evt.Payload.Items {
		if item.ProductID != nil {
			productIDs = append(productIDs, *item.ProductID)
		}
	}

	low, err := l.uc.CheckLowStock(ctx, productIDs)
	if err != nil {
		l.logger.Error("Failed to check stock levels",
			zap.String("order_id", evt.Payload.OrderID),
			zap.Error(err),
		)
		return
	}

	for _, level := range low {
		l.logger.Warn("Product at or below minimum stock",
			zap.String("order_id", evt.Payload.OrderID),
			zap.Int64("product_id", level.ProductID),
			zap.String("sku", level.SKU),
			zap.Int("current_stock", level.CurrentStock),
			zap.Int("minimum_stock", level.MinimumStock),
		)
	}
}
