package db

import (
	"fmt" // Error wrapping

	"skate_marketplace/internal/domain" // Importing domain models
	"skate_marketplace/internal/utils"  // Password hashing

	"github.com/samber/lo"          // Pointer helpers
	"github.com/shopspring/decimal" // Prices
	"github.com/sirupsen/logrus"    // Logrus for structured logging
	"gorm.io/gorm"                  // GORM ORM library
)

// SeedPassword is the password of both seeded accounts
const SeedPassword = "password123"

const sampleImage = "https://images.unsplash.com/photo-1572776685600-cf276d3c3b32?w=400"

type seedProduct struct {
	title, description, price, category string
}

// SeedCategories are created by Seed in this order
var SeedCategories = []string{"Decks", "Trucks", "Wheels", "Bearings", "Grip Tape"}

var seedProducts = []seedProduct{
	{"Pro Skateboard Deck", `High-quality 8.0" skateboard deck made from 7-ply maple`, "59.99", "Decks"},
	{"Aluminum Skateboard Trucks", "Lightweight aluminum trucks with perfect turning radius", "45.99", "Trucks"},
	{"High-Speed Bearings", "ABEC-7 rated bearings for maximum speed and durability", "19.99", "Bearings"},
	{"Grip Tape Sheet", "Black grip tape with excellent traction for all skate styles", "12.99", "Grip Tape"},
	{"Wide Wheels Set", "54mm wheels perfect for cruising and street skating", "34.99", "Wheels"},
}

// Seed inserts the demo catalog and accounts. Existing rows are left untouched, so
// running it twice is safe.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		categoryIDs := make(map[string]string, len(SeedCategories))
		for _, name := range SeedCategories {
			category := domain.Category{}
			if err := tx.Where(domain.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", name, err)
			}
			categoryIDs[name] = category.ID
		}

		for email, role := range map[string]domain.Role{
			"admin@skateshop.com": domain.RoleAdmin,
			"user@skateshop.com":  domain.RoleUser,
		} {
			hash, err := utils.HashPassword(SeedPassword)
			if err != nil {
				return err
			}
			user := domain.User{}
			err = tx.Where(domain.User{Email: email}).
				Attrs(domain.User{Password: hash, Role: role, IsActive: true}).
				FirstOrCreate(&user).Error
			if err != nil {
				return fmt.Errorf("seed user %s: %w", email, err)
			}
		}

		for _, p := range seedProducts {
			product := domain.Product{}
			err := tx.Where(domain.Product{Title: p.title}).
				Attrs(domain.Product{
					Description:   lo.ToPtr(p.description),
					Price:         decimal.RequireFromString(p.price),
					ImageURL:      lo.ToPtr(sampleImage),
					CategoryID:    categoryIDs[p.category],
					StockQuantity: 25,
					IsActive:      true,
				}).
				FirstOrCreate(&product).Error
			if err != nil {
				return fmt.Errorf("seed product %s: %w", p.title, err)
			}
		}
		logrus.WithFields(logrus.Fields{
			"categories": len(SeedCategories),
			"users":      2,
			"products":   len(seedProducts),
		}).Info("Seed completed")
		return nil
	})
}
