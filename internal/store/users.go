package store

import (
	"context" // Request scoped queries

	"skate_marketplace/internal/apperr" // Error taxonomy
	"skate_marketplace/internal/domain" // Importing domain models
	"skate_marketplace/internal/dto"    // Pagination

	"gorm.io/gorm" // GORM ORM library
)

// Users persists accounts
type Users struct {
	db *gorm.DB
}

// NewUsers creates the user repository
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create inserts a new account; a taken email is a conflict
func (r *Users) Create(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "user")
}

// FindByID loads an account without relations
func (r *Users) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// FindByEmail looks an account up by its normalized email
func (r *Users) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", domain.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// FindProfile loads an account with its addresses (default first, newest first) and preferences
func (r *Users) FindProfile(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_default DESC").Order("created_at DESC")
		}).
		Preload("Preferences").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// List returns a page of accounts, newest first
func (r *Users) List(ctx context.Context, p dto.Pagination) ([]domain.User, int64, error) {
	var users []domain.User
	var total int64
	query := r.db.WithContext(ctx).Model(&domain.User{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "user")
	}
	if err := query.Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&users).Error; err != nil {
		return nil, 0, translate(err, "user")
	}
	return users, total, nil
}

// Update saves every column of the account
func (r *Users) Update(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Omit("Addresses", "Preferences").Save(user).Error, "user")
}

// Delete removes an account with its addresses and preferences. Accounts that own
// orders cannot be deleted.
func (r *Users) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return translate(err, "user")
		}
		var orders int64
		if err := countOrders(tx, id, &orders).Error; err != nil {
			return translate(err, "user")
		}
		if orders > 0 {
			return apperr.Conflict("user has %d order(s) and cannot be deleted", orders)
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Address{}).Error; err != nil {
			return translate(err, "address")
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.UserPreferences{}).Error; err != nil {
			return translate(err, "preferences")
		}
		return translate(tx.Delete(&user).Error, "user")
	})
}

func countOrders(tx *gorm.DB, userID string, n *int64) *gorm.DB {
	return tx.Model(&domain.Order{}).Where("user_id = ?", userID).Count(n)
}

// HasAny reports whether at least one account exists with the given role
func (r *Users) HasAny(ctx context.Context, role domain.Role) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return false, translate(err, "user")
	}
	return count > 0, nil
}
