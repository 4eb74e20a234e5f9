package service

import (
	"context" // Request scoped calls
	"strings" // Input normalization
	"time"    // Cache lifetimes

	"skate_marketplace/internal/apperr" // Error taxonomy
	"skate_marketplace/internal/domain" // Importing domain models
	"skate_marketplace/internal/dto"    // Request shapes and filters

	"github.com/samber/lo"          // Slice helpers
	"github.com/shopspring/decimal" // Prices
	"github.com/sirupsen/logrus"    // Logrus for structured logging
	"gorm.io/datatypes"             // JSON columns
)

// Catalog cache keys
const (
	catalogPrefix     = "catalog:"
	categoriesKey     = catalogPrefix + "categories"
	categoryKeyPrefix = catalogPrefix + "category:"
	productKeyPrefix  = catalogPrefix + "product:"
	catalogTTL        = 5 * time.Minute
)

// DefaultLowStockThreshold is used when no threshold is requested
const DefaultLowStockThreshold = 10

// CatalogService manages categories and products. Reads by id are cached; every write
// drops the whole catalog cache since products embed their category.
type CatalogService struct {
	categories CategoryRepository
	products   ProductRepository
	cache      Cache
	paging     Paging
	activeOnly bool // Default of the listing's active filter
}

// NewCatalogService creates the catalog component; cache may be a disabled cache
func NewCatalogService(categories CategoryRepository, products ProductRepository, cache Cache,
	paging Paging, activeOnly bool) *CatalogService {
	return &CatalogService{
		categories: categories,
		products:   products,
		cache:      cache,
		paging:     paging,
		activeOnly: activeOnly,
	}
}

// cached runs load on a cache miss and stores its result. Cache failures only cost latency.
func cached[T any](ctx context.Context, cache Cache, key string, load func() (T, error)) (T, error) {
	var value T
	if found, err := cache.Get(ctx, key, &value); err != nil {
		logrus.WithField("key", key).WithError(err).Warn("Cache read failed")
	} else if found {
		return value, nil
	}
	value, err := load()
	if err != nil {
		return value, err
	}
	if err := cache.Set(ctx, key, value, catalogTTL); err != nil {
		logrus.WithField("key", key).WithError(err).Warn("Cache write failed")
	}
	return value, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, catalogPrefix); err != nil {
		logrus.WithError(err).Warn("Cache invalidation failed")
	}
}

// ListCategories returns every category ordered by name
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return cached(ctx, s.cache, categoriesKey, func() ([]domain.Category, error) {
		categories, err := s.categories.List(ctx)
		if categories == nil {
			categories = []domain.Category{}
		}
		return categories, err
	})
}

// GetCategory loads one category
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return cached(ctx, s.cache, categoryKeyPrefix+id, func() (*domain.Category, error) {
		return s.categories.FindByID(ctx, id)
	})
}

// CreateCategory adds a category with a unique name
func (s *CatalogService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*domain.Category, error) {
	category := &domain.Category{Name: strings.TrimSpace(req.Name), Description: req.Description}
	if category.Name == "" {
		return nil, apperr.Validation("Category name is required")
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, categoryConflict(err, category.Name)
	}
	s.invalidate(ctx)
	return category, nil
}

// UpdateCategory renames or redescribes a category
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if category.Name = strings.TrimSpace(*req.Name); category.Name == "" {
			return nil, apperr.Validation("Category name is required")
		}
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, categoryConflict(err, category.Name)
	}
	s.invalidate(ctx)
	return category, nil
}

// DeleteCategory removes a category no product uses
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func categoryConflict(err error, name string) error {
	if apperr.Is(err, apperr.KindConflict) {
		return apperr.Conflict("Category %q already exists", name)
	}
	return err
}

// ListProducts returns a filtered page of products. Unset paging and active filters fall
// back to the configured defaults.
func (s *CatalogService) ListProducts(ctx context.Context, q dto.ProductQuery) (dto.Page[domain.Product], error) {
	f := dto.ProductFilter{
		Pagination: s.paging.apply(q.PageQuery),
		CategoryID: strings.TrimSpace(q.CategoryID),
		Search:     q.Search,
		ActiveOnly: lo.FromPtrOr(q.IsActive, s.activeOnly),
	}
	details := map[string]string{}
	var err error
	if f.MinPrice, err = parsePrice(q.MinPrice); err != nil {
		details["minPrice"] = err.Error()
	}
	if f.MaxPrice, err = parsePrice(q.MaxPrice); err != nil {
		details["maxPrice"] = err.Error()
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		details["minPrice"] = "must not exceed maxPrice"
	}
	if len(details) > 0 {
		return dto.Page[domain.Product]{}, apperr.Validation("Validation failed").WithDetails(details)
	}
	products, total, err := s.products.List(ctx, f)
	if err != nil {
		return dto.Page[domain.Product]{}, err
	}
	return dto.NewPage(products, total, f.Pagination), nil
}

type priceError string

func (e priceError) Error() string { return string(e) }

func parsePrice(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, priceError("must be a number")
	}
	if d.IsNegative() {
		return nil, priceError("must not be negative")
	}
	return &d, nil
}

// GetProduct loads one product with its category
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return cached(ctx, s.cache, productKeyPrefix+id, func() (*domain.Product, error) {
		return s.products.FindByID(ctx, id)
	})
}

// CreateProduct adds a product to an existing category
func (s *CatalogService) CreateProduct(ctx context.Context, req dto.ProductRequest) (*domain.Product, error) {
	if err := checkPrice(req.Price); err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	product := &domain.Product{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Price:         req.Price.Round(2),
		ImageURL:      req.ImageURL,
		CategoryID:    req.CategoryID,
		Brand:         req.Brand,
		SKU:           emptyToNil(req.SKU),
		StockQuantity: lo.FromPtr(req.StockQuantity),
		Tags:          datatypes.JSONSlice[string](lo.Uniq(req.Tags)),
		Weight:        req.Weight,
		Dimensions:    req.Dimensions,
		IsActive:      lo.FromPtrOr(req.IsActive, true),
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, skuConflict(err)
	}
	s.invalidate(ctx)
	logrus.WithFields(logrus.Fields{"product_id": product.ID, "category_id": product.CategoryID}).Info("Product created")
	return product, nil
}

// UpdateProduct changes a product; a new category must exist
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req dto.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Price != nil {
		if err := checkPrice(req.Price); err != nil {
			return nil, err
		}
		product.Price = req.Price.Round(2)
	}
	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *req.CategoryID
		product.Category = nil
	}
	if req.Title != nil {
		product.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.Brand != nil {
		product.Brand = req.Brand
	}
	if req.SKU != nil {
		product.SKU = emptyToNil(req.SKU)
	}
	if req.Tags != nil {
		product.Tags = datatypes.JSONSlice[string](lo.Uniq(*req.Tags))
	}
	if req.Weight != nil {
		product.Weight = req.Weight
	}
	if req.Dimensions != nil {
		product.Dimensions = req.Dimensions
	}
	assign(&product.StockQuantity, req.StockQuantity)
	assign(&product.IsActive, req.IsActive)
	if err := s.products.Update(ctx, product); err != nil {
		return nil, skuConflict(err)
	}
	s.invalidate(ctx)
	return product, nil
}

// UpdateStock sets the absolute stock quantity of a product
func (s *CatalogService) UpdateStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	if quantity < 0 {
		return nil, apperr.Validation("Stock quantity must not be negative")
	}
	product, err := s.products.UpdateStock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	logrus.WithFields(logrus.Fields{"product_id": id, "stock": quantity}).Info("Stock updated")
	return product, nil
}

// LowStock returns active products with stock at or below threshold, lowest first
func (s *CatalogService) LowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	if threshold < 0 {
		return nil, apperr.Validation("Threshold must not be negative")
	}
	products, err := s.products.LowStock(ctx, threshold)
	if products == nil {
		products = []domain.Product{}
	}
	return products, err
}

// DeleteProduct removes a product no order line references
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func checkPrice(price *decimal.Decimal) error {
	if price == nil {
		return apperr.Validation("Validation failed").WithDetails(map[string]string{"price": "is required"})
	}
	if price.IsNegative() {
		return apperr.Validation("Validation failed").WithDetails(map[string]string{"price": "must not be negative"})
	}
	return nil
}

func skuConflict(err error) error {
	if apperr.Is(err, apperr.KindConflict) {
		return apperr.Conflict("A product with this SKU already exists")
	}
	return err
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
