package config

import (
	"errors"
	"os"
)

// DefaultJWTSecret is only acceptable in debug mode. Release mode refuses to
// start until JWT_SECRET is set to something else.
const DefaultJWTSecret = "dev-secret-change-me"

type Config struct {
	DBDialect      string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	JWTSecret      string
	GinMode        string
	StorageBackend string
	StorageURL     string
	StorageAPIKey  string
	StorageDir     string
	BaseURL        string
	ListenAddr     string
}

func Load() *Config {
	return &Config{
		DBDialect:      getEnv("DB_DIALECT", "mysql"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "taskpulse"),
		DBPassword:     getEnv("DB_PASSWORD", "taskpulse"),
		DBName:         getEnv("DB_NAME", "taskpulse"),
		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		GinMode:        getEnv("GIN_MODE", "debug"),
		StorageBackend: getEnv("STORAGE_BACKEND", "disk"),
		StorageURL:     getEnv("STORAGE_URL", ""),
		StorageAPIKey:  getEnv("STORAGE_API_KEY", ""),
		StorageDir:     getEnv("STORAGE_DIR", "./uploads"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
	}
}

// Validate rejects configurations that must never reach production.
func (c *Config) Validate() error {
	if c.GinMode == "release" && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set to a non-default value in release mode")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.StorageBackend == "http" && c.StorageURL == "" {
		return errors.New("STORAGE_URL is required when STORAGE_BACKEND=http")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
