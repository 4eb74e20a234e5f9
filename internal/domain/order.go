package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCanceled   OrderStatus = "CANCELED"
	OrderRefunded   OrderStatus = "REFUNDED"
)

// forward progress rank; side exits are not ranked
var statusRank = map[OrderStatus]int{
	OrderPending:    0,
	OrderConfirmed:  1,
	OrderProcessing: 2,
	OrderShipped:    3,
	OrderDelivered:  4,
}

// Valid reports whether s is one of the seven known statuses
func (s OrderStatus) Valid() bool {
	if _, ok := statusRank[s]; ok {
		return true
	}
	return s == OrderCanceled || s == OrderRefunded
}

// Terminal reports whether no further transition may leave s
func (s OrderStatus) Terminal() bool {
	return s == OrderCanceled || s == OrderRefunded
}

// CanTransition reports whether an order may move from one status to another.
// Forward moves may skip steps; CANCELED is allowed before delivery, REFUNDED from
// any non-terminal status. Moving to the current status is allowed.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	switch to {
	case OrderCanceled:
		return from != OrderDelivered
	case OrderRefunded:
		return true
	}
	return statusRank[to] > statusRank[from]
}

// Order Model
type Order struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	UserID      string          `gorm:"size:36;not null;index" json:"userId"`
	User        *User           `gorm:"constraint:OnDelete:RESTRICT;" json:"user,omitempty"`
	Status      OrderStatus     `gorm:"size:16;not null;index" json:"status"`
	OrderNumber string          `gorm:"size:64;not null;uniqueIndex" json:"orderNumber"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Items       []OrderItem     `gorm:"constraint:OnDelete:CASCADE;" json:"items"`
	CreatedAt   time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// BeforeCreate assigns the id and the initial status
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = OrderPending
	}
	return nil
}

// Reprice recomputes subtotal and total from the line items.
// TotalAmount equals Subtotal until tax and shipping exist.
func (o *Order) Reprice() {
	o.Subtotal = lo.Reduce(o.Items, func(sum decimal.Decimal, item OrderItem, _ int) decimal.Decimal {
		return sum.Add(item.TotalPrice)
	}, decimal.Zero)
	o.TotalAmount = o.Subtotal
}

// OrderItem Model. UnitPrice is the product price captured when the line was created.
// Position is the line's index in the cart it was placed from.
type OrderItem struct {
	ID         string          `gorm:"primaryKey;size:36" json:"id"`
	OrderID    string          `gorm:"size:36;not null;index" json:"orderId"`
	ProductID  string          `gorm:"size:36;not null;index" json:"productId"`
	Product    *Product        `gorm:"constraint:OnDelete:RESTRICT;" json:"product,omitempty"`
	Position   int             `gorm:"not null;default:0" json:"position"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// BeforeCreate assigns the id
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// NewOrderItem snapshots the product's current price into a line item
func NewOrderItem(product Product, quantity, position int) OrderItem {
	return OrderItem{
		ProductID:  product.ID,
		Position:   position,
		Quantity:   quantity,
		UnitPrice:  product.Price,
		TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}
