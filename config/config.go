package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Payments PaymentsConfig
	Featured FeaturedConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr string
	DB   int
}

// PaymentsConfig holds the fixed fees (in cents) and the settlement
// collaborator endpoint. A settlement call that exceeds Timeout counts
// as a failed charge.
type PaymentsConfig struct {
	ConnectionRequestFeeCents int64
	FeaturedProfileFeeCents   int64
	SettlementURL             string
	SettlementTimeout         time.Duration
}

type FeaturedConfig struct {
	DefaultDurationHours int
	JanitorEnabled       bool
	JanitorSchedule      string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			// Empty host selects the in-memory store.
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "collabforge"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", ""),
			DB:   getEnvAsInt("REDIS_DB", 0),
		},
		Payments: PaymentsConfig{
			ConnectionRequestFeeCents: int64(getEnvAsInt("FEE_CONNECTION_REQUEST_CENTS", 5)),
			FeaturedProfileFeeCents:   int64(getEnvAsInt("FEE_FEATURED_PROFILE_CENTS", 100)),
			SettlementURL:             getEnv("SETTLEMENT_URL", ""),
			SettlementTimeout:         getEnvAsDuration("SETTLEMENT_TIMEOUT", 5*time.Second),
		},
		Featured: FeaturedConfig{
			DefaultDurationHours: getEnvAsInt("FEATURED_DEFAULT_HOURS", 24),
			JanitorEnabled:       getEnvAsBool("FEATURED_JANITOR_ENABLED", false),
			JanitorSchedule:      getEnv("FEATURED_JANITOR_SCHEDULE", "0 0 3 * * *"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Payments.ConnectionRequestFeeCents < 0 || c.Payments.FeaturedProfileFeeCents < 0 {
		return fmt.Errorf("fees must not be negative")
	}

	if c.Featured.DefaultDurationHours <= 0 {
		return fmt.Errorf("FEATURED_DEFAULT_HOURS must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
