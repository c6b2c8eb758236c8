package event

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/google/uuid"
)

const TypeOrderCreated = "OrderCreated"

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID      int64              `json:"id"`
	OrderID string             `json:"order_id"`
	Cashier string             `json:"cashier"`
	Total   float64            `json:"total"`
	Items   []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID *int64  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

func NewOrderCreated(o *model.Order, now time.Time) *OrderCreatedEvent {
	items := make([]OrderItemPayload, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return &OrderCreatedEvent{
		EventID:   uuid.New().String(),
		EventType: TypeOrderCreated,
		Payload: OrderPayload{
			ID:      o.ID,
			OrderID: o.OrderID,
			Cashier: o.Cashier,
			Total:   o.Total,
			Items:   items,
		},
		Timestamp: now,
	}
}

// Producer is satisfied by *broker.KafkaProducer.
type Producer interface {
	Publish(ctx context.Context, key, value []byte) error
}

type KafkaPublisher struct {
	producer Producer
}

func NewKafkaPublisher(producer Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// PublishOrderCreated keys the message by the order's primary key so all
// events of one order land on the same partition.
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, o *model.Order) error {
	data, err := json.Marshal(NewOrderCreated(o, time.Now()))
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, []byte(strconv.FormatInt(o.ID, 10)), data)
}
