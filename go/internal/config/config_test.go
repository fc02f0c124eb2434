package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rvbops/warroom/go/internal/models"
)

func TestDefaults(t *testing.T) {
	cfg := NewConfigFromEnv()

	if cfg.BackendURL != "http://localhost:8000" {
		t.Fatalf("backend = %q", cfg.BackendURL)
	}
	if cfg.Role != models.RoleAudience {
		t.Fatalf("role = %q, want audience default", cfg.Role)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("poll interval = %v, want 5s", cfg.PollInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WARROOM_BACKEND_URL", "http://backend:9000")
	t.Setenv("WARROOM_ROLE", "RED")
	t.Setenv("WARROOM_POLL_INTERVAL", "7")
	t.Setenv("WARROOM_FEATURE_AUTH_GM", "true")
	t.Setenv("WARROOM_GATEWAY_PORT", "9090")

	cfg := NewConfigFromEnv()
	if cfg.BackendURL != "http://backend:9000" {
		t.Fatalf("backend = %q", cfg.BackendURL)
	}
	if cfg.Role != models.RoleRed {
		t.Fatalf("role = %q, want RED", cfg.Role)
	}
	if cfg.PollInterval != 7*time.Second {
		t.Fatalf("poll interval = %v, want 7s", cfg.PollInterval)
	}
	if !cfg.Features.AuthGM {
		t.Fatal("auth GM feature should be enabled")
	}
	if cfg.GatewayAddr != ":9090" {
		t.Fatalf("gateway addr = %q, want :9090", cfg.GatewayAddr)
	}
}

func TestPollIntervalClamped(t *testing.T) {
	t.Setenv("WARROOM_POLL_INTERVAL", "1")
	if cfg := NewConfigFromEnv(); cfg.PollInterval != 3*time.Second {
		t.Fatalf("poll interval = %v, want clamped to 3s", cfg.PollInterval)
	}

	t.Setenv("WARROOM_POLL_INTERVAL", "60")
	if cfg := NewConfigFromEnv(); cfg.PollInterval != 10*time.Second {
		t.Fatalf("poll interval = %v, want clamped to 10s", cfg.PollInterval)
	}
}

func TestValidateRejectsUnknownRole(t *testing.T) {
	cfg := NewConfigFromEnv()
	cfg.Role = models.Role("SPECTATOR")
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown role should fail validation")
	}
}

func TestApplyOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warroom.yaml")
	overlay := `
features:
  join_codes: true
  timeline_sla: true
archive:
  nats_url: nats://archive:4222
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	cfg := NewConfigFromEnv()
	if err := cfg.ApplyOverlay(path); err != nil {
		t.Fatalf("ApplyOverlay: %v", err)
	}
	if !cfg.Features.JoinCodes || !cfg.Features.TimelineSLA {
		t.Fatalf("features = %+v, want join_codes and timeline_sla", cfg.Features)
	}
	if cfg.Archive.NatsURL != "nats://archive:4222" {
		t.Fatalf("nats url = %q", cfg.Archive.NatsURL)
	}
}

func TestApplyOverlayKeepsAbsentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warroom.yaml")
	overlay := `
archive:
  nats_url: nats://archive:4222
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	t.Setenv("WARROOM_FEATURE_AUTH_GM", "true")
	t.Setenv("WARROOM_ARCHIVE_DSN", "postgres://archive/warroom")
	cfg := NewConfigFromEnv()
	if err := cfg.ApplyOverlay(path); err != nil {
		t.Fatalf("ApplyOverlay: %v", err)
	}

	// A flag the file does not mention keeps its environment value.
	if !cfg.Features.AuthGM {
		t.Fatalf("features = %+v, want auth_gm kept from env", cfg.Features)
	}
	if cfg.Archive.PostgresDSN != "postgres://archive/warroom" {
		t.Fatalf("dsn = %q, want env value kept", cfg.Archive.PostgresDSN)
	}
	if cfg.Archive.NatsURL != "nats://archive:4222" {
		t.Fatalf("nats url = %q, want overlay value", cfg.Archive.NatsURL)
	}
}

func TestApplyOverlayPartialFeatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warroom.yaml")
	overlay := `
features:
  join_codes: true
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	t.Setenv("WARROOM_FEATURE_TIMELINE_SLA", "true")
	cfg := NewConfigFromEnv()
	if err := cfg.ApplyOverlay(path); err != nil {
		t.Fatalf("ApplyOverlay: %v", err)
	}
	if !cfg.Features.JoinCodes || !cfg.Features.TimelineSLA {
		t.Fatalf("features = %+v, want join_codes from file and timeline_sla from env", cfg.Features)
	}
}

func TestApplyOverlayMissingFile(t *testing.T) {
	cfg := NewConfigFromEnv()
	if err := cfg.ApplyOverlay(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("missing overlay should not error: %v", err)
	}
}

func TestApplyOverlayBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warroom.yaml")
	if err := os.WriteFile(path, []byte("features: ["), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	cfg := NewConfigFromEnv()
	if err := cfg.ApplyOverlay(path); err == nil {
		t.Fatal("malformed overlay should error")
	}
}
