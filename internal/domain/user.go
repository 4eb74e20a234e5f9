package domain

import (
	"strings" // Email normalization
	"time"    // Timestamps

	"github.com/google/uuid" // UUID primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Role is the authorization role carried by an account and its tokens
type Role string

const (
	RoleAdmin Role = "ADMIN" // Back-office administrator
	RoleUser  Role = "USER"  // Regular shopper
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User Model
type User struct {
	ID          string           `gorm:"primaryKey;size:36" json:"id"`             // Primary key (UUID)
	Email       string           `gorm:"uniqueIndex;size:191;not null" json:"email"` // Unique, lower-cased email
	Password    string           `gorm:"not null" json:"-"`                         // Password hash, never serialized
	Role        Role             `gorm:"size:16;not null;default:USER" json:"role"` // ADMIN or USER
	IsActive    bool             `gorm:"not null" json:"isActive"`                  // Deactivated accounts cannot log in
	FirstName   *string          `gorm:"size:100" json:"firstName"`
	LastName    *string          `gorm:"size:100" json:"lastName"`
	Phone       *string          `gorm:"size:32" json:"phone"`
	DateOfBirth *time.Time       `json:"dateOfBirth"`
	Avatar      *string          `gorm:"size:255" json:"avatar"`                                  // Public avatar URL
	Addresses   []Address        `gorm:"constraint:OnDelete:CASCADE;" json:"addresses,omitempty"` // Loaded on profile reads only
	Preferences *UserPreferences `gorm:"constraint:OnDelete:CASCADE;" json:"preferences,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// BeforeCreate assigns the id and normalizes the email
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID string // Subject id from the token
	Email  string // Email from the token
	Role   Role   // Effective role
}

// IsAdmin reports whether the caller holds the ADMIN role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
