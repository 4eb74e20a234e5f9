package store

import (
	"context" // Request scoped queries

	"skate_marketplace/internal/domain" // Importing domain models

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Row locking
)

// Addresses persists user addresses and keeps at most one default per (user, type)
type Addresses struct {
	db *gorm.DB
}

// NewAddresses creates the address repository
func NewAddresses(db *gorm.DB) *Addresses {
	return &Addresses{db: db}
}

// ListByUser returns the user's addresses, default first then newest
func (r *Addresses) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	var addresses []domain.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at DESC").
		Find(&addresses).Error
	return addresses, translate(err, "address")
}

// FindForUser loads one address owned by userID
func (r *Addresses) FindForUser(ctx context.Context, userID, id string) (*domain.Address, error) {
	var address domain.Address
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
		return nil, translate(err, "address")
	}
	return &address, nil
}

// Save creates or updates an address. When it is the default, every other default of the
// same (user, type) is cleared in the same transaction. The owning user row is locked so
// concurrent saves for one user are serialized.
func (r *Addresses) Save(ctx context.Context, address *domain.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").Where("id = ?", address.UserID).First(&owner).Error; err != nil {
			return translate(err, "user")
		}
		if address.IsDefault {
			if err := clearDefaults(tx, address).Error; err != nil {
				return translate(err, "address")
			}
		}
		return translate(tx.Save(address).Error, "address")
	})
}

// clearDefaults unsets the default flag on the other addresses of the same user and type
func clearDefaults(tx *gorm.DB, address *domain.Address) *gorm.DB {
	unset := tx.Model(&domain.Address{}).
		Where("user_id = ? AND type = ? AND is_default = ?", address.UserID, address.Type, true)
	if address.ID != "" {
		unset = unset.Where("id <> ?", address.ID)
	}
	return unset.Update("is_default", false)
}

// Delete removes an address owned by userID
func (r *Addresses) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Address{})
	if res.Error != nil {
		return translate(res.Error, "address")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "address")
	}
	return nil
}
