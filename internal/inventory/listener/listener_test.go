package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/event"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type queueReader struct {
	mu       sync.Mutex
	messages []kafka.Message
	failures int
}

func (r *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if r.failures > 0 {
		r.failures--
		r.mu.Unlock()
		return kafka.Message{}, errors.New("broker unavailable")
	}
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

type stubUseCase struct {
	mu     sync.Mutex
	calls  [][]int64
	levels map[int64]dto.StockLevel
}

func (s *stubUseCase) ListLowStock(context.Context, int, int) ([]dto.StockLevel, int, error) {
	return nil, 0, nil
}

func (s *stubUseCase) CheckLowStock(_ context.Context, ids []int64) ([]dto.StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, ids)
	var low []dto.StockLevel
	for _, id := range ids {
		if level, ok := s.levels[id]; ok && level.IsLow() {
			low = append(low, level)
		}
	}
	return low, nil
}

func orderMessage(t *testing.T) kafka.Message {
	t.Helper()
	p1, p2 := int64(1), int64(2)
	o := &model.Order{
		ID:      42,
		OrderID: "ORD-TEST",
		Items: []model.OrderItem{
			{ProductID: &p1, Quantity: 2, Price: 10},
			{ProductID: &p2, Quantity: 1, Price: 5},
			{ProductID: nil, Quantity: 1, Price: 1},
		},
	}
	data, err := json.Marshal(event.NewOrderCreated(o, time.Now()))
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestListenerWarnsOnLowStock(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	uc := &stubUseCase{levels: map[int64]dto.StockLevel{
		1: {ProductID: 1, SKU: "SKU-1", CurrentStock: 1, MinimumStock: 5},
		2: {ProductID: 2, SKU: "SKU-2", CurrentStock: 50, MinimumStock: 5},
	}}
	reader := &queueReader{
		messages: []kafka.Message{
			{Value: []byte("not json")},
			{Value: []byte(`{"event_type":"OrderCancelled"}`)},
			orderMessage(t),
		},
		failures: 1,
	}

	l := NewInventoryListener(reader, uc, logger.Wrap(zap.New(core)))
	l.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("Product at or below minimum stock").Len() == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	warn := logs.FilterMessage("Product at or below minimum stock").All()[0]
	assert.Equal(t, zapcore.WarnLevel, warn.Level)
	assert.Equal(t, "SKU-1", warn.ContextMap()["sku"])
	assert.Equal(t, "ORD-TEST", warn.ContextMap()["order_id"])

	assert.Equal(t, 1, logs.FilterMessage("Failed to read kafka message").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to unmarshal event").Len())

	uc.mu.Lock()
	defer uc.mu.Unlock()
	require.Len(t, uc.calls, 1)
	assert.Equal(t, []int64{1, 2}, uc.calls[0])
}
