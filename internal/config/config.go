package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing
	"time"    // For token lifetime

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort            string        // Application port
	DBDriver           string        // mysql or postgres
	DBUser             string        // Database user
	DBPassword         string        // Database password
	DBHost             string        // Database host
	DBPort             string        // Database port
	DBName             string        // Database name
	DatabaseURL        string        // Full DSN, overrides the DB_* parts when set
	JWTSecret          string        // JWT secret key
	JWTExpiresIn       time.Duration // Access token lifetime
	RedisAddr          string        // Redis server address, empty disables Redis
	RedisPass          string        // Redis password
	RedisDB            int           // Redis database number
	KafkaBrokers       []string      // Kafka brokers, empty disables event publishing
	KafkaOrderTopic    string        // Topic for order events
	CORSOrigins        []string      // Allowed CORS origins
	LogLevel           string        // logrus level name
	MaxFileSize        int64         // Upload size limit in bytes
	UploadPath         string        // Directory for uploaded files
	IsProd             bool          // Is production environment
	PageSize           int           // Default page size
	MaxPageSize        int           // Upper bound for a requested page size
	ProductsActiveOnly bool          // Product listing hides inactive products by default
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:            getEnv("APP_PORT", "3001"),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             os.Getenv("DB_PORT"),
		DBName:             os.Getenv("DB_NAME"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpiresIn:       getDuration("JWT_EXPIRES_IN", time.Hour),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPass:          os.Getenv("REDIS_PASS"),
		RedisDB:            getInt("REDIS_DB", 0),
		KafkaBrokers:       getList("KAFKA_BROKERS", nil),
		KafkaOrderTopic:    getEnv("KAFKA_ORDER_TOPIC", "orders"),
		CORSOrigins:        getList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxFileSize:        int64(getInt("MAX_FILE_SIZE", 5*1024*1024)),
		UploadPath:         getEnv("UPLOAD_PATH", "uploads"),
		IsProd:             os.Getenv("IS_PROD") == "true",
		PageSize:           getInt("PAGE_SIZE", 20),
		MaxPageSize:        100,
		ProductsActiveOnly: getBool("PRODUCTS_ACTIVE_ONLY", true),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
