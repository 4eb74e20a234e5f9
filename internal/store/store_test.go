package store

import (
	"errors"
	"strings"
	"testing"

	"skate_marketplace/internal/apperr"
	"skate_marketplace/internal/domain"
	"skate_marketplace/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// dryRunDB builds statements without ever connecting
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "shop:secret@tcp(127.0.0.1:3306)/skate?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func productSQL(t *testing.T, f dto.ProductFilter) string {
	t.Helper()
	return dryRunDB(t).ToSQL(func(tx *gorm.DB) *gorm.DB {
		var products []domain.Product
		return filterProducts(tx.Model(&domain.Product{}), f).Find(&products)
	})
}

func TestFilterProductsNoFilters(t *testing.T) {
	sql := productSQL(t, dto.ProductFilter{})
	assert.Contains(t, sql, "FROM `products`")
	assert.NotContains(t, sql, "WHERE")
}

func TestFilterProductsAllFilters(t *testing.T) {
	minPrice := decimal.RequireFromString("10")
	maxPrice := decimal.RequireFromString("80.5")
	sql := productSQL(t, dto.ProductFilter{
		CategoryID: "cat-1",
		MinPrice:   &minPrice,
		MaxPrice:   &maxPrice,
		Search:     "  DeCk ",
		ActiveOnly: true,
	})

	assert.Contains(t, sql, "products.category_id = 'cat-1'")
	assert.Contains(t, sql, "products.price >= '10'")
	assert.Contains(t, sql, "products.price <= '80.5'")
	assert.Contains(t, sql, "products.is_active = true")
	assert.Contains(t, sql, "(LOWER(products.title) LIKE '%deck%' OR LOWER(products.description) LIKE '%deck%' OR LOWER(products.brand) LIKE '%deck%')")
}

func TestFilterProductsSearchOnly(t *testing.T) {
	sql := productSQL(t, dto.ProductFilter{Search: "Bones"})
	assert.Contains(t, sql, "LOWER(products.brand) LIKE '%bones%'")
	assert.NotContains(t, sql, "is_active")
	assert.NotContains(t, sql, "category_id")
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "user"))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(translate(gorm.ErrRecordNotFound, "user")))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(translate(gorm.ErrDuplicatedKey, "category")))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(translate(gorm.ErrForeignKeyViolated, "product")))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(translate(errors.New("connection reset"), "order")))

	classified := apperr.Forbidden("nope")
	assert.Same(t, classified, translate(classified, "user"))

	notFound, ok := apperr.As(translate(gorm.ErrRecordNotFound, "order"))
	require.True(t, ok)
	assert.Equal(t, "order not found", notFound.Message)
}

func TestInCartOrderSortsByPosition(t *testing.T) {
	sql := dryRunDB(t).ToSQL(func(tx *gorm.DB) *gorm.DB {
		var items []domain.OrderItem
		return inCartOrder(tx.Where("order_id = ?", "o1")).Find(&items)
	})
	assert.Contains(t, sql, "ORDER BY position ASC,id ASC")
	assert.NotContains(t, sql, "created_at")
}

func TestInsertItemsWritesPosition(t *testing.T) {
	items := []domain.OrderItem{
		{OrderID: "o1", ProductID: "p2", Quantity: 1, Position: 0},
		{OrderID: "o1", ProductID: "p1", Quantity: 3, Position: 1},
	}
	sql := dryRunDB(t).ToSQL(func(tx *gorm.DB) *gorm.DB {
		return insertItems(tx, items)
	})
	assert.Contains(t, sql, "INSERT INTO `order_items`")
	assert.Contains(t, sql, "`position`")
	assert.Contains(t, sql, "'o1','p2',0,1,")
	assert.Contains(t, sql, "'o1','p1',1,3,")
	assert.NotContains(t, sql, "`products`")
}

func TestLockOrderSelectsForUpdate(t *testing.T) {
	sql := dryRunDB(t).ToSQL(func(tx *gorm.DB) *gorm.DB {
		var order domain.Order
		return lockOrder(tx, "o1", &order)
	})
	assert.Contains(t, sql, "FROM `orders` WHERE id = 'o1'")
	assert.True(t, strings.HasSuffix(sql, "FOR UPDATE"), sql)
}

func TestDeleteItemsScopedToOrder(t *testing.T) {
	sql := dryRunDB(t).ToSQL(func(tx *gorm.DB) *gorm.DB {
		return deleteItems(tx, "o1")
	})
	assert.Equal(t, "DELETE FROM `order_items` WHERE order_id = 'o1'", sql)
}

func TestMoveStatusGuardsOnCurrentStatus(t *testing.T) {
	sql := dryRunDB(t).ToSQL(func(tx *gorm.DB) *gorm.DB {
		return moveStatus(tx, "o1", domain.OrderPending, domain.OrderConfirmed)
	})
	assert.True(t, strings.HasPrefix(sql, "UPDATE `orders` SET `status`='CONFIRMED'"), sql)
	assert.Contains(t, sql, "WHERE id = 'o1' AND status = 'PENDING'")
}

func TestClearDefaultsExcludesSavedAddress(t *testing.T) {
	address := &domain.Address{ID: "a1", UserID: "u1", Type: domain.AddressShipping, IsDefault: true}
	sql := dryRunDB(t).ToSQL(func(tx *gorm.DB) *gorm.DB {
		return clearDefaults(tx, address)
	})
	assert.True(t, strings.HasPrefix(sql, "UPDATE `addresses` SET `is_default`=false"), sql)
	assert.Contains(t, sql, "user_id = 'u1' AND type = 'SHIPPING' AND is_default = true")
	assert.Contains(t, sql, "id <> 'a1'")
}

func TestClearDefaultsForNewAddress(t *testing.T) {
	address := &domain.Address{UserID: "u1", Type: domain.AddressBilling, IsDefault: true}
	sql := dryRunDB(t).ToSQL(func(tx *gorm.DB) *gorm.DB {
		return clearDefaults(tx, address)
	})
	assert.Contains(t, sql, "user_id = 'u1' AND type = 'BILLING' AND is_default = true")
	assert.NotContains(t, sql, "id <>")
}

func TestInUseCounts(t *testing.T) {
	var n int64
	cases := map[string]struct {
		build func(tx *gorm.DB) *gorm.DB
		want  string
	}{
		"products of category": {func(tx *gorm.DB) *gorm.DB { return countProducts(tx, "c1", &n) }, "FROM `products` WHERE category_id = 'c1'"},
		"orders of user":       {func(tx *gorm.DB) *gorm.DB { return countOrders(tx, "u1", &n) }, "FROM `orders` WHERE user_id = 'u1'"},
		"lines of product":     {func(tx *gorm.DB) *gorm.DB { return countLines(tx, "p1", &n) }, "FROM `order_items` WHERE product_id = 'p1'"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sql := dryRunDB(t).ToSQL(tc.build)
			assert.Contains(t, sql, "SELECT count(*)")
			assert.Contains(t, sql, tc.want)
		})
	}
}
