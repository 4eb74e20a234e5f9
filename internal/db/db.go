package db

import (
	"fmt"     // DSN formatting
	"strings" // Driver names
	"time"    // Pool lifetimes

	"skate_marketplace/internal/config" // Custom package for configuration

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/postgres"    // PostgreSQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM query logging
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DSN builds the Data Source Name for the configured driver.
// DATABASE_URL wins over the individual DB_* settings.
func DSN(cfg *config.Config) (string, error) {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL, nil
	}
	switch cfg.DBDriver {
	case DriverMySQL, "":
		port := cfg.DBPort
		if port == "" {
			port = "3306"
		}
		return cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + port + ")/" + cfg.DBName +
			"?charset=utf8mb4&parseTime=true&loc=UTC", nil
	case DriverPostgres:
		port := cfg.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, port), nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Dialector returns the gorm dialector for the configured driver
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(cfg.DBDriver, DriverPostgres) {
		return postgres.Open(dsn), nil
	}
	return mysql.Open(dsn), nil
}

// Open connects to the database. Driver errors are translated so duplicate keys and
// foreign key violations surface as gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	logLevel := logger.Warn
	if cfg.IsProd {
		logLevel = logger.Error
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true, // Map driver errors to gorm sentinels
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DBDriver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)                  // Connection pool size
	sqlDB.SetMaxIdleConns(5)                   // Idle connections kept around
	sqlDB.SetConnMaxLifetime(30 * time.Minute) // Recycle connections
	logrus.WithField("driver", cfg.DBDriver).Info("Database connected")
	return db, nil
}
