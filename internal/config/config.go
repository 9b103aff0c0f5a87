package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog-service/internal/models"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Server
	Port        string
	Environment string

	// Tenant resolution
	BaseDomain        string
	IgnoredSubdomains []string
	BypassPrefixes    []string

	// Redis (optional; caching is disabled when unreachable)
	RedisURL string

	// Pagination
	DefaultPageSize int
	MaxPageSize     int
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	defaultPageSize, _ := strconv.Atoi(getEnv("DEFAULT_PAGE_SIZE", "20"))
	maxPageSize, _ := strconv.Atoi(getEnv("MAX_PAGE_SIZE", "100"))

	return &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "catalog_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Tenant resolution
		BaseDomain:        getEnv("BASE_DOMAIN", ""),
		IgnoredSubdomains: getEnvList("SUBDOMAIN_IGNORED", []string{"www"}),
		BypassPrefixes:    getEnvList("SUBDOMAIN_BYPASS_PREFIXES", []string{"api", "admin"}),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Pagination
		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,
	}
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Store{},
		&models.StoreSocial{},
		&models.Gender{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.ProductColor{},
		&models.ProductVariant{},
		&models.ProductImage{},
		&models.ProductReview{},
	); err != nil {
		log.Printf("Warning: Auto-migration failed: %v", err)
	}

	// One review per (product, user) only when the user is known; partial
	// unique indexes cannot be expressed with gorm tags.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_product_user
		 ON product_reviews (product_id, user_id) WHERE user_id IS NOT NULL`,
	).Error; err != nil {
		log.Printf("Warning: Failed to create review uniqueness index: %v", err)
	}

	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(strings.ToLower(part)); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
