package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "DB_DRIVER", "JWT_EXPIRES_IN", "KAFKA_BROKERS", "KAFKA_ORDER_TOPIC",
		"CORS_ORIGINS", "LOG_LEVEL", "MAX_FILE_SIZE", "UPLOAD_PATH", "PAGE_SIZE",
		"PRODUCTS_ACTIVE_ONLY", "IS_PROD", "REDIS_DB",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "3001", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.JWTExpiresIn)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "orders", cfg.KafkaOrderTopic)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(5242880), cfg.MaxFileSize)
	assert.Equal(t, "uploads", cfg.UploadPath)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.True(t, cfg.ProductsActiveOnly)
	assert.False(t, cfg.IsProd)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("JWT_EXPIRES_IN", "15m")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CORS_ORIGINS", "https://shop.example.com")
	t.Setenv("MAX_FILE_SIZE", "1024")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("PRODUCTS_ACTIVE_ONLY", "false")
	t.Setenv("IS_PROD", "true")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiresIn)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, int64(1024), cfg.MaxFileSize)
	assert.Equal(t, 50, cfg.PageSize)
	assert.False(t, cfg.ProductsActiveOnly)
	assert.True(t, cfg.IsProd)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadConfigIgnoresGarbage(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "soon")
	t.Setenv("PAGE_SIZE", "-3")
	t.Setenv("PRODUCTS_ACTIVE_ONLY", "maybe")

	cfg := LoadConfig()

	assert.Equal(t, time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 20, cfg.PageSize)
	assert.True(t, cfg.ProductsActiveOnly)
}
