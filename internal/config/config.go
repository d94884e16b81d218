package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server
	Port            string
	Env             string
	HTTPTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Persistence
	DatabaseURL   string
	MigrationsDir string

	// Cache
	RedisURL    string
	RedisPrefix string
	CacheTTL    time.Duration

	// Auth
	JWTSecret     string
	JWTExpiration time.Duration

	// Places provider
	MapsAPIKey       string
	PlacesAPIVersion string // "legacy" or "new"

	// Generation provider
	GeminiAPIKey string
	GeminiModel  string

	// Landing page publishing (optional; disabled when endpoint is empty)
	R2Endpoint  string
	R2AccessKey string
	R2SecretKey string
	R2Bucket    string
	R2PublicURL string

	// Logging
	LogLevel string
}

// Load reads configuration from the environment (and .env when present)
// and validates it. Missing required values are a fatal startup error.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: error loading .env file: %v", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "./migrations"),

		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix: getEnv("REDIS_PREFIX", "placewise:"),
		CacheTTL:    getEnvAsDuration("CACHE_TTL", 1*time.Hour),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiration: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),

		MapsAPIKey:       getEnv("MAPS_API_KEY", ""),
		PlacesAPIVersion: getEnv("PLACES_API_VERSION", "new"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", "placewise"),
		R2PublicURL: getEnv("R2_PUBLIC_URL", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// Validate checks the required values and enum fields.
func (c *Config) Validate() error {
	required := map[string]string{
		"DATABASE_URL":   c.DatabaseURL,
		"JWT_SECRET":     c.JWTSecret,
		"MAPS_API_KEY":   c.MapsAPIKey,
		"GEMINI_API_KEY": c.GeminiAPIKey,
	}
	for name, val := range required {
		if val == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if c.PlacesAPIVersion != "legacy" && c.PlacesAPIVersion != "new" {
		return fmt.Errorf("PLACES_API_VERSION must be \"legacy\" or \"new\", got %q", c.PlacesAPIVersion)
	}

	return nil
}

// PublishingEnabled reports whether landing-page uploads are configured.
func (c *Config) PublishingEnabled() bool {
	return c.R2Endpoint != "" && c.R2AccessKey != "" && c.R2SecretKey != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
