package api

import (
	"net/http" // HTTP status codes

	"skate_marketplace/internal/dto"     // Request bodies and queries
	"skate_marketplace/internal/service" // Catalog operations

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/samber/lo"     // Pointer defaults
)

// ListCategoriesHandler returns every category by name
func ListCategoriesHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.ListCategories(c.Request.Context())
		reply(c, http.StatusOK, categories, err)
	}
}

// GetCategoryHandler returns one category
func GetCategoryHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		category, err := catalog.GetCategory(c.Request.Context(), id)
		reply(c, http.StatusOK, category, err)
	}
}

// CreateCategoryHandler adds a category with a unique name (admin)
func CreateCategoryHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CategoryRequest
		if !bindJSON(c, &req) {
			return
		}
		category, err := catalog.CreateCategory(c.Request.Context(), req)
		reply(c, http.StatusCreated, category, err)
	}
}

// UpdateCategoryHandler renames or describes a category (admin)
func UpdateCategoryHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dto.UpdateCategoryRequest
		if !bindJSON(c, &req) {
			return
		}
		category, err := catalog.UpdateCategory(c.Request.Context(), id, req)
		reply(c, http.StatusOK, category, err)
	}
}

// DeleteCategoryHandler removes an unused category (admin)
func DeleteCategoryHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		deleted(c, "Category", catalog.DeleteCategory(c.Request.Context(), id))
	}
}

// ListProductsHandler returns a filtered page of products with their category
func ListProductsHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.ProductQuery
		if !bindQuery(c, &q) {
			return
		}
		page, err := catalog.ListProducts(c.Request.Context(), q)
		reply(c, http.StatusOK, page, err)
	}
}

// GetProductHandler returns one product with its category
func GetProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		product, err := catalog.GetProduct(c.Request.Context(), id)
		reply(c, http.StatusOK, product, err)
	}
}

// CreateProductHandler adds a product to an existing category (admin)
func CreateProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ProductRequest
		if !bindJSON(c, &req) {
			return
		}
		product, err := catalog.CreateProduct(c.Request.Context(), req)
		reply(c, http.StatusCreated, product, err)
	}
}

// UpdateProductHandler edits a product (admin)
func UpdateProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dto.UpdateProductRequest
		if !bindJSON(c, &req) {
			return
		}
		product, err := catalog.UpdateProduct(c.Request.Context(), id, req)
		reply(c, http.StatusOK, product, err)
	}
}

// UpdateStockHandler sets the absolute stock quantity (admin)
func UpdateStockHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dto.UpdateStockRequest
		if !bindJSON(c, &req) {
			return
		}
		product, err := catalog.UpdateStock(c.Request.Context(), id, *req.Quantity)
		reply(c, http.StatusOK, product, err)
	}
}

// LowStockHandler lists active products at or below the threshold (admin)
func LowStockHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.LowStockQuery
		if !bindQuery(c, &q) {
			return
		}
		threshold := lo.FromPtrOr(q.Threshold, service.DefaultLowStockThreshold)
		products, err := catalog.LowStock(c.Request.Context(), threshold)
		reply(c, http.StatusOK, products, err)
	}
}

// DeleteProductHandler removes a product no order references (admin)
func DeleteProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		deleted(c, "Product", catalog.DeleteProduct(c.Request.Context(), id))
	}
}
