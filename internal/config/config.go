package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port              string
	Env               string
	CORSAllowedOrigin string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Exchange rate upstream
	ExchangeRateAPIKey  string
	ExchangeRateAPIURL  string
	ExchangeRateTimeout time.Duration

	// Metrics
	MetricsAPIKey string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "quincena"),
		DBPassword: getEnv("DB_PASSWORD", "quincena"),
		DBName:     getEnv("DB_NAME", "quincena"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Exchange rate upstream. An empty key is allowed at startup; the
		// endpoint reports it per request.
		ExchangeRateAPIKey: os.Getenv("EXCHANGE_RATE_API_KEY"),
		ExchangeRateAPIURL: getEnv("EXCHANGE_RATE_API_URL", "https://v6.exchangerate-api.com/v6"),

		MetricsAPIKey: os.Getenv("METRICS_API_KEY"),
	}

	config.JWTExpirationDur = parseDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.ExchangeRateTimeout = parseDuration("EXCHANGE_RATE_TIMEOUT", 10*time.Second)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration reads a duration variable, falling back to def when it is
// unset or malformed.
func parseDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, def)
		return def
	}
	return d
}
