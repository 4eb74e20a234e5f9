package service

import (
	"context" // Request scoped calls

	"skate_marketplace/internal/apperr" // Error taxonomy
	"skate_marketplace/internal/domain" // Importing domain models
	"skate_marketplace/internal/dto"    // Request shapes
	"skate_marketplace/internal/events" // Order events
	"skate_marketplace/internal/utils"  // Order numbers

	"github.com/samber/lo"       // Slice helpers
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// orderNumberAttempts bounds the retries after an order number collision
const orderNumberAttempts = 3

// MaxItemQuantity caps one line so its total fits the stored decimal(12,2) columns
const MaxItemQuantity = 1000

// OrderService turns carts into priced orders and governs their status
type OrderService struct {
	orders    OrderRepository
	products  ProductRepository
	numbers   utils.OrderNumbers
	publisher events.Publisher
	paging    Paging
}

// NewOrderService creates the order workflow
func NewOrderService(orders OrderRepository, products ProductRepository, numbers utils.OrderNumbers,
	publisher events.Publisher, paging Paging) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		numbers:   numbers,
		publisher: publisher,
		paging:    paging,
	}
}

// Create prices the cart with the current product prices and stores the order with its
// items. A single unknown product fails the whole cart and nothing is written.
func (s *OrderService) Create(ctx context.Context, caller domain.Principal, req dto.CreateOrderRequest) (*domain.Order, error) {
	items, err := s.price(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	order := &domain.Order{UserID: caller.UserID, Status: domain.OrderPending, Items: items}
	order.Reprice()

	for attempt := 1; ; attempt++ {
		number, err := s.numbers.Next(ctx)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		order.OrderNumber = number
		err = s.orders.Create(ctx, order)
		if err == nil {
			break
		}
		if !apperr.Is(err, apperr.KindConflict) || attempt == orderNumberAttempts {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{"order_number": number, "attempt": attempt}).Warn("Order number taken, retrying")
		resetIDs(order)
	}

	logrus.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total":        order.TotalAmount.StringFixed(2),
	}).Info("Order created")
	s.publish(ctx, events.NewOrderEvent(events.OrderCreated, order, ""))
	return s.orders.FindByID(ctx, order.ID)
}

// resetIDs clears the ids a failed insert assigned so the next attempt inserts fresh rows
func resetIDs(order *domain.Order) {
	order.ID = ""
	for i := range order.Items {
		order.Items[i].ID = ""
		order.Items[i].OrderID = ""
	}
}

// price resolves every product of the cart and snapshots its price into a line item
func (s *OrderService) price(ctx context.Context, cart []dto.OrderItemRequest) ([]domain.OrderItem, error) {
	if len(cart) == 0 {
		return nil, apperr.Validation("Order must contain at least one item")
	}
	for _, line := range cart {
		if line.Quantity < 1 {
			return nil, apperr.Validation("Quantity must be at least 1")
		}
		if line.Quantity > MaxItemQuantity {
			return nil, apperr.Validation("Quantity must be at most %d", MaxItemQuantity)
		}
	}
	ids := lo.Uniq(lo.Map(cart, func(line dto.OrderItemRequest, _ int) string { return line.ProductID }))
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(products, func(p domain.Product) string { return p.ID })
	missing := lo.Reject(ids, func(id string, _ int) bool { _, ok := byID[id]; return ok })
	if len(missing) > 0 {
		return nil, apperr.NotFound("Product with ID %s not found", missing[0]).
			WithDetails(map[string]any{"productIds": missing})
	}
	return lo.Map(cart, func(line dto.OrderItemRequest, i int) domain.OrderItem {
		return domain.NewOrderItem(byID[line.ProductID], line.Quantity, i)
	}), nil
}

// Get loads an order. Callers other than its owner or an admin are told it does not exist.
func (s *OrderService) Get(ctx context.Context, caller domain.Principal, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && order.UserID != caller.UserID {
		return nil, apperr.NotFound("order not found")
	}
	return order, nil
}

// ListAll returns a page of every order, newest first
func (s *OrderService) ListAll(ctx context.Context, q dto.PageQuery) (dto.Page[domain.Order], error) {
	return s.list(ctx, "", q)
}

// ListMine returns a page of the caller's orders, newest first
func (s *OrderService) ListMine(ctx context.Context, caller domain.Principal, q dto.PageQuery) (dto.Page[domain.Order], error) {
	return s.list(ctx, caller.UserID, q)
}

func (s *OrderService) list(ctx context.Context, userID string, q dto.PageQuery) (dto.Page[domain.Order], error) {
	p := s.paging.apply(q)
	orders, total, err := s.orders.List(ctx, userID, p)
	if err != nil {
		return dto.Page[domain.Order]{}, err
	}
	return dto.NewPage(orders, total, p), nil
}

// Update applies a patch to an order. Replacement items discard the current lines and
// reprice the order from current product prices.
func (s *OrderService) Update(ctx context.Context, caller domain.Principal, id string, req dto.UpdateOrderRequest) (*domain.Order, error) {
	order, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if req.Items == nil {
		return order, nil
	}
	if order.Status.Terminal() {
		return nil, apperr.Conflict("items of a %s order cannot be changed", order.Status)
	}
	items, err := s.price(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	order.Items = items
	order.Reprice()
	if err := s.orders.ReplaceItems(ctx, order); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"items":    len(items),
		"total":    order.TotalAmount.StringFixed(2),
	}).Info("Order items replaced")
	return s.orders.FindByID(ctx, id)
}

// UpdateStatus moves an order along its lifecycle. Setting the current status again is a
// no-op; moves the lifecycle does not allow are conflicts.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, apperr.Validation("Invalid order status %q", status)
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := order.Status
	if previous == status {
		return order, nil
	}
	if !domain.CanTransition(previous, status) {
		return nil, apperr.Conflict("Cannot change order status from %s to %s", previous, status)
	}
	if err := s.orders.UpdateStatus(ctx, id, previous, status); err != nil {
		return nil, err
	}
	order, err = s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"order_id": id, "from": previous, "to": status}).Info("Order status changed")
	s.publish(ctx, events.NewOrderEvent(events.OrderStatusChanged, order, previous))
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, event events.OrderEvent) {
	if err := s.publisher.PublishOrder(ctx, event); err != nil {
		logrus.WithFields(logrus.Fields{"order_id": event.OrderID, "type": event.Type}).
			WithError(err).Warn("Failed to publish order event")
	}
}
