package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true // Prices serialize as JSON numbers
}

// Category Model
type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description *string   `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the id
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Product Model. Price is the source of order line snapshots, never referenced live by orders.
type Product struct {
	ID            string                      `gorm:"primaryKey;size:36" json:"id"`
	Title         string                      `gorm:"size:200;not null" json:"title"`
	Description   *string                     `gorm:"type:text" json:"description"`
	Price         decimal.Decimal             `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL      *string                     `gorm:"size:500" json:"imageUrl"`
	CategoryID    string                      `gorm:"size:36;not null;index" json:"categoryId"`
	Category      *Category                   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category,omitempty"`
	Brand         *string                     `gorm:"size:100" json:"brand"`
	SKU           *string                     `gorm:"size:64;uniqueIndex" json:"sku"`
	StockQuantity int                         `gorm:"not null;index" json:"stockQuantity"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	Weight        *float64                    `json:"weight"`
	Dimensions    *string                     `gorm:"size:100" json:"dimensions"`
	IsActive      bool                        `gorm:"not null;index" json:"isActive"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

// BeforeCreate assigns the id
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
