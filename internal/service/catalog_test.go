package service_test

import (
	"testing"

	"skate_marketplace/internal/apperr"
	"skate_marketplace/internal/domain"
	"skate_marketplace/internal/dto"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryNamesAreUnique(t *testing.T) {
	f := newFixture(t)
	f.category(t, "Decks")

	_, err := f.catalog.CreateCategory(f.ctx, dto.CategoryRequest{Name: " Decks "})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)

	trucks := f.category(t, "Trucks")
	_, err = f.catalog.UpdateCategory(f.ctx, trucks.ID, dto.UpdateCategoryRequest{Name: lo.ToPtr("Decks")})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
}

func TestDeleteCategoryInUse(t *testing.T) {
	f := newFixture(t)
	decks := f.category(t, "Decks")
	deck := f.product(t, decks.ID, "Deck", "59.99", 10)
	empty := f.category(t, "Grip Tape")

	err := f.catalog.DeleteCategory(f.ctx, decks.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)

	_, err = f.catalog.GetCategory(f.ctx, decks.ID)
	assert.NoError(t, err, "category survives")
	_, err = f.catalog.GetProduct(f.ctx, deck.ID)
	assert.NoError(t, err, "product survives")

	require.NoError(t, f.catalog.DeleteCategory(f.ctx, empty.ID))
	_, err = f.catalog.GetCategory(f.ctx, empty.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	decks := f.category(t, "Decks")

	_, err := f.catalog.CreateProduct(f.ctx, dto.ProductRequest{
		Title: "Deck", Price: lo.ToPtr(money("10")), CategoryID: "missing",
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)

	_, err = f.catalog.CreateProduct(f.ctx, dto.ProductRequest{
		Title: "Deck", Price: lo.ToPtr(money("-1")), CategoryID: decks.ID,
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)

	p, err := f.catalog.CreateProduct(f.ctx, dto.ProductRequest{
		Title: "Deck", Price: lo.ToPtr(money("0")), CategoryID: decks.ID, SKU: lo.ToPtr("DK-1"),
	})
	require.NoError(t, err)
	assert.True(t, p.IsActive, "products are active unless stated otherwise")
	assert.Zero(t, p.StockQuantity)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Decks", p.Category.Name)

	_, err = f.catalog.CreateProduct(f.ctx, dto.ProductRequest{
		Title: "Other", Price: lo.ToPtr(money("5")), CategoryID: decks.ID, SKU: lo.ToPtr("DK-1"),
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
}

func TestLowStockAfterStockUpdate(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Wheels")
	wheels := f.product(t, c.ID, "Wheels", "34.99", 40)
	bearings := f.product(t, c.ID, "Bearings", "19.99", 3)
	plenty := f.product(t, c.ID, "Plenty", "9.99", 100)
	hidden := f.product(t, c.ID, "Hidden", "9.99", 0)
	_, err := f.catalog.UpdateProduct(f.ctx, hidden.ID, dto.UpdateProductRequest{IsActive: lo.ToPtr(false)})
	require.NoError(t, err)

	updated, err := f.catalog.UpdateStock(f.ctx, wheels.ID, 0)
	require.NoError(t, err)
	assert.Zero(t, updated.StockQuantity)

	low, err := f.catalog.LowStock(f.ctx, 5)
	require.NoError(t, err)
	ids := lo.Map(low, func(p domain.Product, _ int) string { return p.ID })
	assert.Equal(t, []string{wheels.ID, bearings.ID}, ids)
	assert.NotContains(t, ids, plenty.ID)

	_, err = f.catalog.UpdateStock(f.ctx, wheels.ID, -1)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = f.catalog.UpdateStock(f.ctx, "missing", 3)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListProductsFilters(t *testing.T) {
	f := newFixture(t)
	decks := f.category(t, "Decks")
	wheels := f.category(t, "Wheels")
	f.product(t, decks.ID, "Street Deck", "59.99", 5)
	f.product(t, decks.ID, "Cruiser", "89.99", 5)
	spitfire, err := f.catalog.CreateProduct(f.ctx, dto.ProductRequest{
		Title: "Formula Four", Price: lo.ToPtr(money("34.99")), CategoryID: wheels.ID, Brand: lo.ToPtr("Spitfire"),
	})
	require.NoError(t, err)
	retired := f.product(t, decks.ID, "Retired Deck", "10.00", 0)
	_, err = f.catalog.UpdateProduct(f.ctx, retired.ID, dto.UpdateProductRequest{IsActive: lo.ToPtr(false)})
	require.NoError(t, err)

	page, err := f.catalog.ListProducts(f.ctx, dto.ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total, "inactive products are hidden by default")
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 1, page.TotalPages)

	page, err = f.catalog.ListProducts(f.ctx, dto.ProductQuery{IsActive: lo.ToPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)

	page, err = f.catalog.ListProducts(f.ctx, dto.ProductQuery{Search: "SPIT"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, spitfire.ID, page.Data[0].ID)
	require.NotNil(t, page.Data[0].Category)
	assert.Equal(t, "Wheels", page.Data[0].Category.Name)

	page, err = f.catalog.ListProducts(f.ctx, dto.ProductQuery{Search: "deck", CategoryID: decks.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	page, err = f.catalog.ListProducts(f.ctx, dto.ProductQuery{MinPrice: "50", MaxPrice: "60"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Street Deck", page.Data[0].Title)

	page, err = f.catalog.ListProducts(f.ctx, dto.ProductQuery{PageQuery: dto.PageQuery{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Data, 1)

	_, err = f.catalog.ListProducts(f.ctx, dto.ProductQuery{MinPrice: "70", MaxPrice: "60"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = f.catalog.ListProducts(f.ctx, dto.ProductQuery{MinPrice: "cheap"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestProductReadsAreCachedUntilWrite(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Decks")
	deck := f.product(t, c.ID, "Deck", "59.99", 10)

	_, err := f.catalog.GetProduct(f.ctx, deck.ID)
	require.NoError(t, err)
	cached, err := f.catalog.GetProduct(f.ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Hits)
	assert.True(t, cached.Price.Equal(money("59.99")))
	assert.Equal(t, "Decks", cached.Category.Name)

	_, err = f.catalog.UpdateProduct(f.ctx, deck.ID, dto.UpdateProductRequest{Price: lo.ToPtr(money("64.99"))})
	require.NoError(t, err)
	assert.Zero(t, f.cache.Len(), "writes drop the catalog cache")

	fresh, err := f.catalog.GetProduct(f.ctx, deck.ID)
	require.NoError(t, err)
	assert.True(t, fresh.Price.Equal(money("64.99")))
}

func TestDeleteProductReferencedByOrder(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "a@x.com")
	c := f.category(t, "Decks")
	deck := f.product(t, c.ID, "Deck", "59.99", 10)
	spare := f.product(t, c.ID, "Spare", "9.99", 10)
	_, err := f.orders.Create(f.ctx, buyer, cart(line(deck.ID, 1)))
	require.NoError(t, err)

	err = f.catalog.DeleteProduct(f.ctx, deck.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)

	require.NoError(t, f.catalog.DeleteProduct(f.ctx, spare.ID))
	_, err = f.catalog.GetProduct(f.ctx, spare.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
