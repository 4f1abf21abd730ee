package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort string
	ServerHost string
	GinMode    string

	// Database
	DatabaseURL  string
	DatabaseType string // "postgres" or "sqlite"

	// JWT
	JWTSecret     string
	JWTExpiration int // hours

	// Admin
	AdminEmail    string
	AdminPassword string

	// Migration
	SnapshotDir         string
	MigrationEnabled    bool
	MigrationConcurrent bool
	MigrationLockTTL    time.Duration
	RedisURL            string // optional; enables the redis run lock

	// Storage
	UploadDir string

	// Logging
	LogLevel string
	LogFile  string

	// App
	AppURL  string
	AppName string
	WebDir  string
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),
		GinMode:    getEnv("GIN_MODE", "release"),

		// Database
		DatabaseURL:  getEnv("DATABASE_URL", "synq.db"),
		DatabaseType: getEnv("DATABASE_TYPE", "sqlite"),

		// JWT
		JWTSecret:     getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiration: getEnvInt("JWT_EXPIRATION", 24),

		// Admin
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@synqtech.dev"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		// Migration
		SnapshotDir:         getEnv("SNAPSHOT_DIR", "./data/snapshot"),
		MigrationEnabled:    getEnvBool("MIGRATION_ENABLED", true),
		MigrationConcurrent: getEnvBool("MIGRATION_CONCURRENT", true),
		MigrationLockTTL:    getEnvDuration("MIGRATION_LOCK_TTL", 5*time.Minute),
		RedisURL:            getEnv("REDIS_URL", ""),

		// Storage
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		// App
		AppURL:  getEnv("APP_URL", "http://localhost:8080"),
		AppName: getEnv("APP_NAME", "SYNQ"),
		WebDir:  getEnv("WEB_DIR", "web"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
