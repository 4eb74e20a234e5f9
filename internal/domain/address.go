package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AddressType distinguishes shipping from billing addresses
type AddressType string

const (
	AddressShipping AddressType = "SHIPPING"
	AddressBilling  AddressType = "BILLING"
)

// Valid reports whether t is a known address type
func (t AddressType) Valid() bool {
	return t == AddressShipping || t == AddressBilling
}

// Address Model. At most one address per (user, type) has IsDefault set.
type Address struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	UserID       string      `gorm:"size:36;not null;index:idx_address_owner" json:"userId"`
	Type         AddressType `gorm:"size:16;not null;index:idx_address_owner" json:"type"`
	FirstName    string      `gorm:"size:100;not null" json:"firstName"`
	LastName     string      `gorm:"size:100;not null" json:"lastName"`
	Company      *string     `gorm:"size:150" json:"company"`
	AddressLine1 string      `gorm:"size:255;not null" json:"addressLine1"`
	AddressLine2 *string     `gorm:"size:255" json:"addressLine2"`
	City         string      `gorm:"size:100;not null" json:"city"`
	State        string      `gorm:"size:100;not null" json:"state"`
	PostalCode   string      `gorm:"size:20;not null" json:"postalCode"`
	Country      string      `gorm:"size:64;not null" json:"country"`
	Phone        *string     `gorm:"size:32" json:"phone"`
	IsDefault    bool        `gorm:"not null" json:"isDefault"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// BeforeCreate assigns the id
func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// SkillLevel is the self-declared skating level stored in preferences
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
	SkillProfessional SkillLevel = "PROFESSIONAL"
)

// Valid reports whether s is a known skill level
func (s SkillLevel) Valid() bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillProfessional:
		return true
	}
	return false
}

// UserPreferences Model, one row per user
type UserPreferences struct {
	ID                 string                      `gorm:"primaryKey;size:36" json:"id"`
	UserID             string                      `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	PreferredDeckSize  *string                     `gorm:"size:16" json:"preferredDeckSize"`
	PreferredBrands    datatypes.JSONSlice[string] `json:"preferredBrands"`
	SkillLevel         SkillLevel                  `gorm:"size:16;not null" json:"skillLevel"`
	RidingStyle        datatypes.JSONSlice[string] `json:"ridingStyle"`
	EmailNotifications bool                        `gorm:"not null" json:"emailNotifications"`
	SMSNotifications   bool                        `gorm:"not null" json:"smsNotifications"`
	PushNotifications  bool                        `gorm:"not null" json:"pushNotifications"`
	MarketingEmails    bool                        `gorm:"not null" json:"marketingEmails"`
	Currency           string                      `gorm:"size:3;not null" json:"currency"`
	MeasurementUnit    string                      `gorm:"size:16;not null" json:"measurementUnit"`
	CreatedAt          time.Time                   `json:"createdAt"`
	UpdatedAt          time.Time                   `json:"updatedAt"`
}

// BeforeCreate assigns the id
func (p *UserPreferences) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// DefaultPreferences returns the settings a user starts with
func DefaultPreferences(userID string) UserPreferences {
	return UserPreferences{
		UserID:             userID,
		PreferredBrands:    datatypes.JSONSlice[string]{},
		SkillLevel:         SkillBeginner,
		RidingStyle:        datatypes.JSONSlice[string]{},
		EmailNotifications: true,
		SMSNotifications:   false,
		PushNotifications:  true,
		MarketingEmails:    true,
		Currency:           "USD",
		MeasurementUnit:    "IMPERIAL",
	}
}
