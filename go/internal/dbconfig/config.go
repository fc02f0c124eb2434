// Package dbconfig builds the Postgres connection settings for the
// event archive from the environment.
package dbconfig

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds Postgres connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewConfigFromEnv reads ARCHIVE_DB_* environment variables (with defaults).
func NewConfigFromEnv() Config {
	port, err := strconv.Atoi(getEnv("ARCHIVE_DB_PORT", "5432"))
	if err != nil {
		port = 5432
	}

	return Config{
		Host:     getEnv("ARCHIVE_DB_HOST", "localhost"),
		Port:     port,
		User:     getEnv("ARCHIVE_DB_USER", "postgres"),
		Password: getEnv("ARCHIVE_DB_PASSWORD", "postgres"),
		Database: getEnv("ARCHIVE_DB_NAME", ""),
		SSLMode:  getEnv("ARCHIVE_DB_SSLMODE", "disable"),
	}
}

// Enabled reports whether an archive database was configured at all.
func (c Config) Enabled() bool {
	return c.Database != ""
}

// DSN returns the Postgres connection URL.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
