// Package config assembles runtime settings from environment variables,
// with an optional YAML overlay for scenario and feature tuning.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rvbops/warroom/go/internal/models"
)

// Config holds all runtime settings for the client and viewer gateway.
type Config struct {
	BackendURL   string
	StreamURL    string
	Role         models.Role
	PollInterval time.Duration

	GatewayAddr string

	Features Features
	Archive  ArchiveConfig
}

// Features mirrors the backend's feature flags so the client can hide
// surfaces the server will reject.
type Features struct {
	AuthGM       bool `yaml:"auth_gm"`
	JoinCodes    bool `yaml:"join_codes"`
	AdvScenarios bool `yaml:"adv_scenarios"`
	WSSnapshot   bool `yaml:"ws_snapshot"`
	TimelineSLA  bool `yaml:"timeline_sla"`
}

// ArchiveConfig enables the optional event archive. Empty values leave
// the corresponding sink disabled.
type ArchiveConfig struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	NatsURL       string `yaml:"nats_url"`
	RetentionDays int    `yaml:"retention_days"`
}

// Overlay is the optional YAML config file shape.
type Overlay struct {
	Features Features      `yaml:"features"`
	Archive  ArchiveConfig `yaml:"archive"`
}

// NewConfigFromEnv reads WARROOM_* environment variables with defaults.
func NewConfigFromEnv() Config {
	pollSeconds := getEnvAsInt("WARROOM_POLL_INTERVAL", 5)
	// The backend tolerates polling between 3 and 10 seconds; anything
	// outside that either hammers the server or lets the view go stale.
	if pollSeconds < 3 {
		pollSeconds = 3
	}
	if pollSeconds > 10 {
		pollSeconds = 10
	}

	return Config{
		BackendURL:   getEnv("WARROOM_BACKEND_URL", "http://localhost:8000"),
		StreamURL:    getEnv("WARROOM_STREAM_URL", "ws://localhost:8000/ws"),
		Role:         models.Role(getEnv("WARROOM_ROLE", string(models.RoleAudience))),
		PollInterval: time.Duration(pollSeconds) * time.Second,
		GatewayAddr:  fmt.Sprintf(":%s", getEnv("WARROOM_GATEWAY_PORT", "8090")),
		Features: Features{
			AuthGM:       getEnvAsBool("WARROOM_FEATURE_AUTH_GM", false),
			JoinCodes:    getEnvAsBool("WARROOM_FEATURE_JOIN_CODES", false),
			AdvScenarios: getEnvAsBool("WARROOM_FEATURE_ADV_SCENARIOS", false),
			WSSnapshot:   getEnvAsBool("WARROOM_FEATURE_WS_SNAPSHOT", false),
			TimelineSLA:  getEnvAsBool("WARROOM_FEATURE_TIMELINE_SLA", false),
		},
		Archive: ArchiveConfig{
			PostgresDSN:   getEnv("WARROOM_ARCHIVE_DSN", ""),
			NatsURL:       getEnv("WARROOM_NATS_URL", ""),
			RetentionDays: getEnvAsInt("WARROOM_ARCHIVE_RETENTION_DAYS", 30),
		},
	}
}

// ApplyOverlay loads the YAML file at path and merges it over c. Keys
// absent from the file keep their current values, so an overlay can tune
// a single flag without restating the rest. A missing file is not an
// error.
func (c *Config) ApplyOverlay(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding over the current values makes absent keys no-ops.
	overlay := Overlay{Features: c.Features, Archive: c.Archive}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	c.Features = overlay.Features
	c.Archive = overlay.Archive
	return nil
}

// Validate checks the settings a run cannot proceed without.
func (c Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend URL is required")
	}
	switch c.Role {
	case models.RoleGM, models.RoleRed, models.RoleBlue, models.RoleAudience:
	default:
		return fmt.Errorf("unknown role %q", c.Role)
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
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
