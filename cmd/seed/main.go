package main

import (
	"skate_marketplace/internal/config" // Configuration
	"skate_marketplace/internal/db"     // Database connection and seed data

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for seeding demo data
func main() {
	cfg := config.LoadConfig() // Load configuration

	gormDB, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Seed(gormDB); err != nil {
		logrus.Fatalf("seed failed: %v", err)
	}
	logrus.Info("Admin: admin@skateshop.com / " + db.SeedPassword)
	logrus.Info("User: user@skateshop.com / " + db.SeedPassword)
}
