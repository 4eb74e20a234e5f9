// Package events publishes order lifecycle events.
package events

import (
	"context" // Publishing context
	"time"    // Event timestamps

	"skate_marketplace/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Money amounts
)

// Order event types
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

// OrderEvent describes a change to an order
type OrderEvent struct {
	Type           string             `json:"type"`                     // OrderCreated or OrderStatusChanged
	OrderID        string             `json:"orderId"`                  // Order id, also the message key
	OrderNumber    string             `json:"orderNumber"`              // Human-readable number
	UserID         string             `json:"userId"`                   // Owner
	Status         domain.OrderStatus `json:"status"`                   // Status after the change
	PreviousStatus domain.OrderStatus `json:"previousStatus,omitempty"` // Status before a transition
	TotalAmount    decimal.Decimal    `json:"totalAmount"`              // Order total
	ItemCount      int                `json:"itemCount"`                // Number of lines
	OccurredAt     time.Time          `json:"occurredAt"`               // When the change was committed
}

// NewOrderEvent snapshots an order into an event
func NewOrderEvent(eventType string, order *domain.Order, previous domain.OrderStatus) OrderEvent {
	return OrderEvent{
		Type:           eventType,
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		UserID:         order.UserID,
		Status:         order.Status,
		PreviousStatus: previous,
		TotalAmount:    order.TotalAmount,
		ItemCount:      len(order.Items),
		OccurredAt:     time.Now().UTC(),
	}
}

// Publisher delivers order events. Delivery is best-effort: callers log failures and
// never fail a request because of them.
type Publisher interface {
	PublishOrder(ctx context.Context, event OrderEvent) error
	Close() error
}

// NopPublisher drops every event; used when no broker is configured
type NopPublisher struct{}

// PublishOrder does nothing
func (NopPublisher) PublishOrder(context.Context, OrderEvent) error { return nil }

// Close does nothing
func (NopPublisher) Close() error { return nil }
