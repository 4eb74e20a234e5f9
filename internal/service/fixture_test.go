package service_test

import (
	"context"
	"testing"
	"time"

	"skate_marketplace/internal/domain"
	"skate_marketplace/internal/dto"
	"skate_marketplace/internal/service"
	"skate_marketplace/internal/storage"
	"skate_marketplace/internal/testutil"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "service-test-secret"

type fixture struct {
	ctx     context.Context
	mem     *testutil.Memory
	cache   *testutil.MemoryCache
	events  *testutil.RecordingPublisher
	numbers *testutil.SequenceNumbers
	files   *storage.LocalStorage
	auth    *service.AuthService
	users   *service.UserService
	catalog *service.CatalogService
	orders  *service.OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	f := &fixture{
		ctx:     context.Background(),
		mem:     testutil.NewMemory(),
		cache:   testutil.NewMemoryCache(),
		events:  &testutil.RecordingPublisher{},
		numbers: &testutil.SequenceNumbers{},
		files:   files,
	}
	paging := service.Paging{Default: 20, Max: 100}
	f.auth = service.NewAuthService(f.mem.Users(), jwtSecret, time.Hour)
	f.users = service.NewUserService(f.mem.Users(), f.mem.Addresses(), f.mem.Preferences(), files, paging, 5*1024*1024)
	f.catalog = service.NewCatalogService(f.mem.Categories(), f.mem.Products(), f.cache, paging, true)
	f.orders = service.NewOrderService(f.mem.Orders(), f.mem.Products(), f.numbers, f.events, paging)
	return f
}

// register signs a shopper up and returns the caller identity
func (f *fixture) register(t *testing.T, email string) domain.Principal {
	t.Helper()
	resp, err := f.auth.Register(f.ctx, dto.CreateUserRequest{Email: email, Password: "password123"})
	require.NoError(t, err)
	return domain.Principal{UserID: resp.User.ID, Email: resp.User.Email, Role: resp.User.Role}
}

// admin creates an administrator account
func (f *fixture) admin(t *testing.T) domain.Principal {
	t.Helper()
	user, err := f.users.Create(f.ctx, dto.CreateUserRequest{
		Email:    "admin@skateshop.com",
		Password: "password123",
		Role:     lo.ToPtr(domain.RoleAdmin),
	})
	require.NoError(t, err)
	return domain.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func (f *fixture) category(t *testing.T, name string) *domain.Category {
	t.Helper()
	c, err := f.catalog.CreateCategory(f.ctx, dto.CategoryRequest{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t *testing.T, categoryID, title, price string, stock int) *domain.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(f.ctx, dto.ProductRequest{
		Title:         title,
		Price:         lo.ToPtr(decimal.RequireFromString(price)),
		CategoryID:    categoryID,
		StockQuantity: lo.ToPtr(stock),
	})
	require.NoError(t, err)
	return p
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
