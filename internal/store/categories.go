package store

import (
	"context" // Request scoped queries

	"skate_marketplace/internal/apperr" // Error taxonomy
	"skate_marketplace/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Categories persists product categories
type Categories struct {
	db *gorm.DB
}

// NewCategories creates the category repository
func NewCategories(db *gorm.DB) *Categories {
	return &Categories{db: db}
}

// Create inserts a category; a taken name is a conflict
func (r *Categories) Create(ctx context.Context, category *domain.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error, "category")
}

// FindByID loads one category
func (r *Categories) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

// List returns every category ordered by name
func (r *Categories) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, translate(err, "category")
}

// Update saves the category
func (r *Categories) Update(ctx context.Context, category *domain.Category) error {
	return translate(r.db.WithContext(ctx).Save(category).Error, "category")
}

// Delete removes a category no product references
func (r *Categories) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category domain.Category
		if err := tx.Where("id = ?", id).First(&category).Error; err != nil {
			return translate(err, "category")
		}
		var products int64
		if err := countProducts(tx, id, &products).Error; err != nil {
			return translate(err, "category")
		}
		if products > 0 {
			return apperr.Conflict("category is used by %d product(s)", products)
		}
		return translate(tx.Delete(&category).Error, "category")
	})
}

func countProducts(tx *gorm.DB, categoryID string, n *int64) *gorm.DB {
	return tx.Model(&domain.Product{}).Where("category_id = ?", categoryID).Count(n)
}
