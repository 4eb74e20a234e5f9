package store

import (
	"context" // Request scoped queries

	"skate_marketplace/internal/apperr" // Error taxonomy
	"skate_marketplace/internal/domain" // Importing domain models
	"skate_marketplace/internal/dto"    // Pagination

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Row locking
)

// Orders persists orders with their line items
type Orders struct {
	db *gorm.DB
}

// NewOrders creates the order repository
func NewOrders(db *gorm.DB) *Orders {
	return &Orders{db: db}
}

// withLines states the relations every order read returns
func withLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", inCartOrder).Preload("Items.Product").Preload("User")
}

// inCartOrder sorts line items the way the cart listed them. All items of an order
// share one created_at, so the timestamp cannot order them.
func inCartOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

// lockOrder reads the order row and holds it until the transaction ends
func lockOrder(tx *gorm.DB, id string, dest *domain.Order) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(dest)
}

// insertItems writes the lines in one batch without touching their products
func insertItems(tx *gorm.DB, items []domain.OrderItem) *gorm.DB {
	return tx.Omit("Product").Create(&items)
}

func deleteItems(tx *gorm.DB, orderID string) *gorm.DB {
	return tx.Where("order_id = ?", orderID).Delete(&domain.OrderItem{})
}

// moveStatus updates the status only while the row still holds from
func moveStatus(db *gorm.DB, id string, from, to domain.OrderStatus) *gorm.DB {
	return db.Model(&domain.Order{}).Where("id = ? AND status = ?", id, from).Update("status", to)
}

// Create inserts the order and all of its items in one transaction
func (r *Orders) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Items").Create(order).Error; err != nil {
			return translate(err, "order")
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		if len(order.Items) > 0 {
			if err := insertItems(tx, order.Items).Error; err != nil {
				return translate(err, "order item")
			}
		}
		return nil
	})
}

// FindByID loads an order with its items, their products and the owner
func (r *Orders) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := withLines(r.db.WithContext(ctx)).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &order, nil
}

// List returns a page of orders, newest first. An empty userID lists every order.
func (r *Orders) List(ctx context.Context, userID string, p dto.Pagination) ([]domain.Order, int64, error) {
	var orders []domain.Order
	var total int64
	query := r.db.WithContext(ctx).Model(&domain.Order{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "order")
	}
	err := withLines(query).Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&orders).Error
	if err != nil {
		return nil, 0, translate(err, "order")
	}
	return orders, total, nil
}

// ReplaceItems swaps the order's line items for order.Items and stores the new totals.
// The order row is locked; a failure at any step leaves the previous items in place.
// Orders that reached a terminal status are rejected.
func (r *Orders) ReplaceItems(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Order
		if err := lockOrder(tx, order.ID, &current).Error; err != nil {
			return translate(err, "order")
		}
		if current.Status.Terminal() {
			return apperr.Conflict("items of a %s order cannot be changed", current.Status)
		}
		if err := deleteItems(tx, order.ID).Error; err != nil {
			return translate(err, "order item")
		}
		for i := range order.Items {
			order.Items[i].ID = "" // Item identity is not preserved
			order.Items[i].OrderID = order.ID
		}
		if len(order.Items) > 0 {
			if err := insertItems(tx, order.Items).Error; err != nil {
				return translate(err, "order item")
			}
		}
		err := tx.Model(&domain.Order{}).Where("id = ?", order.ID).Updates(map[string]any{
			"subtotal":     order.Subtotal,
			"total_amount": order.TotalAmount,
		}).Error
		return translate(err, "order")
	})
}

// UpdateStatus moves the order from one status to another. It fails with a conflict if
// the order left the expected status in the meantime.
func (r *Orders) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	res := moveStatus(r.db.WithContext(ctx), id, from, to)
	if res.Error != nil {
		return translate(res.Error, "order")
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("order status changed concurrently, retry")
	}
	return nil
}
