package store

import (
	"context" // Request scoped queries
	"strings" // Search normalization

	"skate_marketplace/internal/apperr" // Error taxonomy
	"skate_marketplace/internal/domain" // Importing domain models
	"skate_marketplace/internal/dto"    // Filters and pagination

	"github.com/samber/lo" // Slice helpers
	"gorm.io/gorm"         // GORM ORM library
)

// Products persists the catalog
type Products struct {
	db *gorm.DB
}

// NewProducts creates the product repository
func NewProducts(db *gorm.DB) *Products {
	return &Products{db: db}
}

// Create inserts a product; the category must exist
func (r *Products) Create(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Omit("Category").Create(product).Error; err != nil {
		return translate(err, "product")
	}
	return r.loadCategory(ctx, product)
}

// FindByID loads one product with its category
func (r *Products) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &product, nil
}

// FindByIDs loads every product whose id is listed; missing ids are simply absent
func (r *Products) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	var products []domain.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", lo.Uniq(ids)).Find(&products).Error
	return products, translate(err, "product")
}

// List returns a filtered page of products with their categories, newest first
func (r *Products) List(ctx context.Context, f dto.ProductFilter) ([]domain.Product, int64, error) {
	var products []domain.Product
	var total int64
	query := filterProducts(r.db.WithContext(ctx).Model(&domain.Product{}), f)
	// Get total count
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "product")
	}
	err := query.Preload("Category").
		Order("products.created_at DESC").
		Offset(f.Offset()).Limit(f.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, translate(err, "product")
	}
	return products, total, nil
}

// filterProducts applies the listing filters; search is a case-insensitive OR over
// title, description and brand
func filterProducts(query *gorm.DB, f dto.ProductFilter) *gorm.DB {
	if f.CategoryID != "" {
		query = query.Where("products.category_id = ?", f.CategoryID)
	}
	if f.MinPrice != nil {
		query = query.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("products.price <= ?", *f.MaxPrice)
	}
	if f.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		like := "%" + search + "%"
		query = query.Where("(LOWER(products.title) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.brand) LIKE ?)",
			like, like, like)
	}
	return query
}

// Update saves every column of the product; the category must exist
func (r *Products) Update(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Omit("Category").Save(product).Error; err != nil {
		return translate(err, "product")
	}
	return r.loadCategory(ctx, product)
}

// UpdateStock sets the absolute stock quantity
func (r *Products) UpdateStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Update("stock_quantity", quantity)
	if res.Error != nil {
		return nil, translate(res.Error, "product")
	}
	return r.FindByID(ctx, id) // RowsAffected is 0 on MySQL when the value is unchanged
}

// LowStock returns active products with stock at or below threshold, lowest first
func (r *Products) LowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ? AND stock_quantity <= ?", true, threshold).
		Order("stock_quantity ASC").
		Find(&products).Error
	return products, translate(err, "product")
}

// Delete removes a product no order line references
func (r *Products) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product domain.Product
		if err := tx.Where("id = ?", id).First(&product).Error; err != nil {
			return translate(err, "product")
		}
		var lines int64
		if err := countLines(tx, id, &lines).Error; err != nil {
			return translate(err, "product")
		}
		if lines > 0 {
			return apperr.Conflict("product is referenced by %d order line(s)", lines)
		}
		return translate(tx.Delete(&product).Error, "product")
	})
}

// countLines counts the order lines that reference the product
func countLines(tx *gorm.DB, productID string, n *int64) *gorm.DB {
	return tx.Model(&domain.OrderItem{}).Where("product_id = ?", productID).Count(n)
}

func (r *Products) loadCategory(ctx context.Context, product *domain.Product) error {
	var category domain.Category
	if err := r.db.WithContext(ctx).Where("id = ?", product.CategoryID).First(&category).Error; err != nil {
		return translate(err, "category")
	}
	product.Category = &category
	return nil
}
