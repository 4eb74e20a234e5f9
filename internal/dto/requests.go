package dto

import (
	"skate_marketplace/internal/domain"

	"github.com/shopspring/decimal"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is the body of POST /auth/register and POST /users.
// Role is honored for admin-created accounts only.
type CreateUserRequest struct {
	Email     string       `json:"email" binding:"required,email,max=191"`
	Password  string       `json:"password" binding:"required,min=6,max=128"`
	FirstName *string      `json:"firstName" binding:"omitempty,max=100"`
	LastName  *string      `json:"lastName" binding:"omitempty,max=100"`
	Phone     *string      `json:"phone" binding:"omitempty,max=32"`
	Role      *domain.Role `json:"role" binding:"omitempty,role"`
}

// UpdateUserRequest is the body of PUT /users/:id
type UpdateUserRequest struct {
	Email       *string      `json:"email" binding:"omitempty,email,max=191"`
	Password    *string      `json:"password" binding:"omitempty,min=6,max=128"`
	FirstName   *string      `json:"firstName" binding:"omitempty,max=100"`
	LastName    *string      `json:"lastName" binding:"omitempty,max=100"`
	Phone       *string      `json:"phone" binding:"omitempty,max=32"`
	DateOfBirth *string      `json:"dateOfBirth"`
	Role        *domain.Role `json:"role" binding:"omitempty,role"`
	IsActive    *bool        `json:"isActive"`
}

// UpdateProfileRequest is the body of PUT /users/profile
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,max=100"`
	LastName    *string `json:"lastName" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=32"`
	DateOfBirth *string `json:"dateOfBirth"`
	Password    *string `json:"password" binding:"omitempty,min=6,max=128"`
}

// AddressRequest is the body of POST /users/addresses
type AddressRequest struct {
	Type         domain.AddressType `json:"type" binding:"omitempty,address_type"`
	FirstName    string             `json:"firstName" binding:"required,max=100"`
	LastName     string             `json:"lastName" binding:"required,max=100"`
	Company      *string            `json:"company" binding:"omitempty,max=150"`
	AddressLine1 string             `json:"addressLine1" binding:"required,max=255"`
	AddressLine2 *string            `json:"addressLine2" binding:"omitempty,max=255"`
	City         string             `json:"city" binding:"required,max=100"`
	State        string             `json:"state" binding:"required,max=100"`
	PostalCode   string             `json:"postalCode" binding:"required,max=20"`
	Country      string             `json:"country" binding:"omitempty,max=64"`
	Phone        *string            `json:"phone" binding:"omitempty,max=32"`
	IsDefault    bool               `json:"isDefault"`
}

// UpdateAddressRequest is the body of PUT /users/addresses/:id
type UpdateAddressRequest struct {
	Type         *domain.AddressType `json:"type" binding:"omitempty,address_type"`
	FirstName    *string             `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName     *string             `json:"lastName" binding:"omitempty,min=1,max=100"`
	Company      *string             `json:"company" binding:"omitempty,max=150"`
	AddressLine1 *string             `json:"addressLine1" binding:"omitempty,min=1,max=255"`
	AddressLine2 *string             `json:"addressLine2" binding:"omitempty,max=255"`
	City         *string             `json:"city" binding:"omitempty,min=1,max=100"`
	State        *string             `json:"state" binding:"omitempty,min=1,max=100"`
	PostalCode   *string             `json:"postalCode" binding:"omitempty,min=1,max=20"`
	Country      *string             `json:"country" binding:"omitempty,min=1,max=64"`
	Phone        *string             `json:"phone" binding:"omitempty,max=32"`
	IsDefault    *bool               `json:"isDefault"`
}

// PreferencesRequest is the body of POST /users/preferences; unset fields keep their value
type PreferencesRequest struct {
	PreferredDeckSize  *string            `json:"preferredDeckSize" binding:"omitempty,max=16"`
	PreferredBrands    *[]string          `json:"preferredBrands"`
	SkillLevel         *domain.SkillLevel `json:"skillLevel" binding:"omitempty,skill_level"`
	RidingStyle        *[]string          `json:"ridingStyle"`
	EmailNotifications *bool              `json:"emailNotifications"`
	SMSNotifications   *bool              `json:"smsNotifications"`
	PushNotifications  *bool              `json:"pushNotifications"`
	MarketingEmails    *bool              `json:"marketingEmails"`
	Currency           *string            `json:"currency" binding:"omitempty,len=3"`
	MeasurementUnit    *string            `json:"measurementUnit" binding:"omitempty,oneof=IMPERIAL METRIC"`
}

// CategoryRequest is the body of POST /categories
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// UpdateCategoryRequest is the body of PUT /categories/:id
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// ProductRequest is the body of POST /products
type ProductRequest struct {
	Title         string           `json:"title" binding:"required,max=200"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	ImageURL      *string          `json:"imageUrl" binding:"omitempty,max=500"`
	CategoryID    string           `json:"categoryId" binding:"required"`
	Brand         *string          `json:"brand" binding:"omitempty,max=100"`
	SKU           *string          `json:"sku" binding:"omitempty,max=64"`
	StockQuantity *int             `json:"stockQuantity" binding:"omitempty,min=0"`
	Tags          []string         `json:"tags"`
	Weight        *float64         `json:"weight" binding:"omitempty,min=0"`
	Dimensions    *string          `json:"dimensions" binding:"omitempty,max=100"`
	IsActive      *bool            `json:"isActive"`
}

// UpdateProductRequest is the body of PUT /products/:id
type UpdateProductRequest struct {
	Title         *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	ImageURL      *string          `json:"imageUrl" binding:"omitempty,max=500"`
	CategoryID    *string          `json:"categoryId" binding:"omitempty,min=1"`
	Brand         *string          `json:"brand" binding:"omitempty,max=100"`
	SKU           *string          `json:"sku" binding:"omitempty,max=64"`
	StockQuantity *int             `json:"stockQuantity" binding:"omitempty,min=0"`
	Tags          *[]string        `json:"tags"`
	Weight        *float64         `json:"weight" binding:"omitempty,min=0"`
	Dimensions    *string          `json:"dimensions" binding:"omitempty,max=100"`
	IsActive      *bool            `json:"isActive"`
}

// UpdateStockRequest is the body of PUT /products/:id/stock; quantity is absolute
type UpdateStockRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// OrderItemRequest is one cart line
type OrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=1000"`
}

// CreateOrderRequest is the body of POST /orders
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest is the body of PUT /orders/:id. Items, when present, replace the
// existing lines wholesale.
type UpdateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// UpdateStatusRequest is the body of PUT /orders/:id/status
type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required,order_status"`
}
