package store

import (
	"context" // Request scoped queries
	"errors"  // Sentinel error matching

	"skate_marketplace/internal/domain" // Importing domain models

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Row locking
)

// Preferences persists one settings row per user
type Preferences struct {
	db *gorm.DB
}

// NewPreferences creates the preferences repository
func NewPreferences(db *gorm.DB) *Preferences {
	return &Preferences{db: db}
}

// FindByUser loads the user's settings
func (r *Preferences) FindByUser(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	var prefs domain.UserPreferences
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		return nil, translate(err, "preferences")
	}
	return &prefs, nil
}

// Upsert inserts the settings or overwrites the existing row of the same user
func (r *Preferences) Upsert(ctx context.Context, prefs *domain.UserPreferences) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.UserPreferences
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", prefs.UserID).First(&current).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			prefs.ID = "" // Fresh row
			return translate(tx.Create(prefs).Error, "preferences")
		case err != nil:
			return translate(err, "preferences")
		}
		prefs.ID = current.ID
		prefs.CreatedAt = current.CreatedAt
		return translate(tx.Save(prefs).Error, "preferences")
	})
}
