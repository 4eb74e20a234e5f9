// Package service holds the domain components: credentials, users, catalog and orders.
package service

import (
	"context" // Request scoped calls
	"io"      // Upload streams
	"time"    // Cache lifetimes

	"skate_marketplace/internal/domain" // Importing domain models
	"skate_marketplace/internal/dto"    // Pagination and filters
)

// UserRepository persists accounts
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindProfile(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, p dto.Pagination) ([]domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

// AddressRepository persists addresses and keeps one default per (user, type)
type AddressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
	FindForUser(ctx context.Context, userID, id string) (*domain.Address, error)
	Save(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, userID, id string) error
}

// PreferencesRepository persists one settings row per user
type PreferencesRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.UserPreferences, error)
	Upsert(ctx context.Context, prefs *domain.UserPreferences) error
}

// CategoryRepository persists categories
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// ProductRepository persists the catalog
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	List(ctx context.Context, f dto.ProductFilter) ([]domain.Product, int64, error)
	Update(ctx context.Context, product *domain.Product) error
	UpdateStock(ctx context.Context, id string, quantity int) (*domain.Product, error)
	LowStock(ctx context.Context, threshold int) ([]domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// OrderRepository persists orders with their items
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, userID string, p dto.Pagination) ([]domain.Order, int64, error)
	ReplaceItems(ctx context.Context, order *domain.Order) error
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
}

// Cache is a JSON read-through cache
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// FileStorage keeps uploaded files and maps them to public URLs
type FileStorage interface {
	Save(ctx context.Context, path string, reader io.Reader) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
	PathOf(url string) (string, bool)
}

// Paging holds the page size defaults applied to list requests
type Paging struct {
	Default int // Used when no limit is requested
	Max     int // Upper bound for a requested limit
}

func (p Paging) apply(q dto.PageQuery) dto.Pagination {
	return dto.Pagination{Page: q.Page, Limit: q.Limit}.Normalize(p.Default, p.Max)
}
