package api

import (
	"net/http" // HTTP methods

	"skate_marketplace/internal/domain"     // Roles
	"skate_marketplace/internal/middleware" // Auth chain
	"skate_marketplace/internal/service"    // Domain components

	"github.com/gin-gonic/gin" // Gin web framework
)

// Services bundles the domain components behind the HTTP surface
type Services struct {
	Auth    *service.AuthService
	Users   *service.UserService
	Catalog *service.CatalogService
	Orders  *service.OrderService
}

// RouterConfig carries the transport settings
type RouterConfig struct {
	JWTSecret      string   // Token signing secret
	CORSOrigins    []string // Allowed browser origins
	UploadPath     string   // Directory served under /uploads
	MaxFileSize    int64    // Avatar size limit in bytes
	TrustedProxies []string // Proxies allowed to set client ip headers
}

// AccessPolicy lists the routes restricted to ADMIN. Every other route under the
// auth chain accepts any authenticated caller.
func AccessPolicy() middleware.Policy {
	admin := domain.RoleAdmin
	return middleware.Policy{}.
		Require(http.MethodGet, "/users", admin).
		Require(http.MethodPost, "/users", admin).
		Require(http.MethodGet, "/users/:id", admin).
		Require(http.MethodPut, "/users/:id", admin).
		Require(http.MethodDelete, "/users/:id", admin).
		Require(http.MethodPost, "/categories", admin).
		Require(http.MethodPut, "/categories/:id", admin).
		Require(http.MethodDelete, "/categories/:id", admin).
		Require(http.MethodPost, "/products", admin).
		Require(http.MethodPut, "/products/:id", admin).
		Require(http.MethodDelete, "/products/:id", admin).
		Require(http.MethodGet, "/products/stock/low", admin).
		Require(http.MethodPut, "/products/:id/stock", admin).
		Require(http.MethodGet, "/orders", admin).
		Require(http.MethodPut, "/orders/:id/status", admin)
}

// NewRouter builds the gin engine with every route of the API
func NewRouter(cfg RouterConfig, svc Services, accounts middleware.UserLookup) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery(), middleware.CORS(cfg.CORSOrigins))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	r.GET("/health", HealthHandler())
	if cfg.UploadPath != "" {
		r.Static("/uploads", cfg.UploadPath) // Avatar files
	}

	auth := r.Group("/auth")
	auth.POST("/register", RegisterHandler(svc.Auth))
	auth.POST("/login", LoginHandler(svc.Auth))

	// Everything below requires a valid token and an active account
	secured := r.Group("")
	secured.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AccessControl(accounts, AccessPolicy()))

	users := secured.Group("/users")
	users.GET("", ListUsersHandler(svc.Users))
	users.POST("", CreateUserHandler(svc.Users))
	users.GET("/profile", GetProfileHandler(svc.Users))
	users.PUT("/profile", UpdateProfileHandler(svc.Users))
	users.POST("/avatar", UploadAvatarHandler(svc.Users, cfg.MaxFileSize))
	users.GET("/addresses", ListAddressesHandler(svc.Users))
	users.POST("/addresses", CreateAddressHandler(svc.Users))
	users.GET("/addresses/:addressId", GetAddressHandler(svc.Users))
	users.PUT("/addresses/:addressId", UpdateAddressHandler(svc.Users))
	users.DELETE("/addresses/:addressId", DeleteAddressHandler(svc.Users))
	users.GET("/preferences", GetPreferencesHandler(svc.Users))
	users.POST("/preferences", UpsertPreferencesHandler(svc.Users))
	users.GET("/:id", GetUserHandler(svc.Users))
	users.PUT("/:id", UpdateUserHandler(svc.Users))
	users.DELETE("/:id", DeleteUserHandler(svc.Users))

	categories := secured.Group("/categories")
	categories.GET("", ListCategoriesHandler(svc.Catalog))
	categories.POST("", CreateCategoryHandler(svc.Catalog))
	categories.GET("/:id", GetCategoryHandler(svc.Catalog))
	categories.PUT("/:id", UpdateCategoryHandler(svc.Catalog))
	categories.DELETE("/:id", DeleteCategoryHandler(svc.Catalog))

	products := secured.Group("/products")
	products.GET("", ListProductsHandler(svc.Catalog))
	products.POST("", CreateProductHandler(svc.Catalog))
	products.GET("/stock/low", LowStockHandler(svc.Catalog))
	products.GET("/:id", GetProductHandler(svc.Catalog))
	products.PUT("/:id", UpdateProductHandler(svc.Catalog))
	products.PUT("/:id/stock", UpdateStockHandler(svc.Catalog))
	products.DELETE("/:id", DeleteProductHandler(svc.Catalog))

	orders := secured.Group("/orders")
	orders.GET("", ListOrdersHandler(svc.Orders))
	orders.POST("", CreateOrderHandler(svc.Orders))
	orders.GET("/my-orders", MyOrdersHandler(svc.Orders))
	orders.GET("/:id", GetOrderHandler(svc.Orders))
	orders.PUT("/:id", UpdateOrderHandler(svc.Orders))
	orders.PUT("/:id/status", UpdateOrderStatusHandler(svc.Orders))

	return r, nil
}
