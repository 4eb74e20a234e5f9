package events

import (
	"context"
	"encoding/json"
	"testing"

	"skate_marketplace/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:          "order-1",
		UserID:      "user-1",
		OrderNumber: "ORD-20260309-000001",
		Status:      domain.OrderConfirmed,
		TotalAmount: decimal.RequireFromString("119.98"),
		Items:       []domain.OrderItem{{ProductID: "p-1", Quantity: 2}},
	}
}

func TestNewOrderEvent(t *testing.T) {
	event := NewOrderEvent(OrderStatusChanged, sampleOrder(), domain.OrderPending)

	assert.Equal(t, OrderStatusChanged, event.Type)
	assert.Equal(t, "order-1", event.OrderID)
	assert.Equal(t, domain.OrderConfirmed, event.Status)
	assert.Equal(t, domain.OrderPending, event.PreviousStatus)
	assert.Equal(t, 1, event.ItemCount)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestEncodeKeysByOrder(t *testing.T) {
	event := NewOrderEvent(OrderCreated, sampleOrder(), "")

	msg, err := encode(event)
	require.NoError(t, err)

	assert.Equal(t, "order-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "type", msg.Headers[0].Key)
	assert.Equal(t, OrderCreated, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "order.created", decoded["type"])
	assert.Equal(t, 119.98, decoded["totalAmount"])
	assert.NotContains(t, decoded, "previousStatus")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishOrder(context.Background(), OrderEvent{}))
	assert.NoError(t, p.Close())
}
