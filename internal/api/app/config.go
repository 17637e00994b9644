package app

import (
	"os"
	"strconv"
	"time"

	"github.com/neptuneos/neptuneos/pkg/jwtx"
)

// DefaultJWTSecret is the development fallback signing secret. Running with
// it in production defeats token security, so New logs a warning whenever it
// is in effect.
const DefaultJWTSecret = "neptuneos-jwt-secret-key-change-in-production"

type Config struct {
	Issuer    string // Issuer claim for session tokens
	JWTSecret string // HS256 signing secret (default: DefaultJWTSecret, with warning)

	DatabaseFile  string        // Path to SQLite database file (default: ./neptuneos.db)
	SessionTTL    time.Duration // Session and token lifetime (default: 24h)
	AdminUsername string        // Username bootstrapped on first run (default: admin)
	AdminPassword string        // Optional: bootstrap admin password; generated when empty

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 3001)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-session sweep interval (default: 1h, 0 disables)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               getEnvOrDefault("NEPTUNE_ISSUER", "neptune-api"),
		JWTSecret:            getEnvOrDefault("JWT_SECRET", DefaultJWTSecret),
		DatabaseFile:         getEnvOrDefault("NEPTUNE_DATABASE_FILE", "neptuneos.db"),
		SessionTTL:           getEnvDurationOrDefault("NEPTUNE_SESSION_TTL", jwtx.DefaultSessionTTL),
		AdminUsername:        getEnvOrDefault("NEPTUNE_ADMIN_USERNAME", "admin"),
		AdminPassword:        os.Getenv("NEPTUNE_ADMIN_PASSWORD"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 3001),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
