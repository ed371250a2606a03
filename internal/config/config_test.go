package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
storage:
  routines_dir: "/srv/routines"
  max_upload_bytes: 524288
tailscale:
  enabled: true
  hostname: "gym-timer"
  state_dir: "/var/lib/routinetimer/tsnet"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.RoutinesDir != "/srv/routines" {
		t.Errorf("storage.routines_dir = %q, want %q", cfg.Storage.RoutinesDir, "/srv/routines")
	}
	if cfg.Storage.MaxUploadBytes != 524288 {
		t.Errorf("storage.max_upload_bytes = %d, want 524288", cfg.Storage.MaxUploadBytes)
	}
	if !cfg.Tailscale.Enabled || cfg.Tailscale.Hostname != "gym-timer" {
		t.Errorf("tailscale = %+v, want enabled gym-timer", cfg.Tailscale)
	}
}

// TestLoadDefaults verifies that an empty file yields the stock deployment
// settings: loopback on 18347, ./routines, 1 MiB uploads.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, "{}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.Server.Addr(); got != "127.0.0.1:18347" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:18347")
	}
	if cfg.Storage.RoutinesDir != "routines" {
		t.Errorf("storage.routines_dir = %q, want routines", cfg.Storage.RoutinesDir)
	}
	if cfg.Storage.MaxUploadBytes != 1<<20 {
		t.Errorf("storage.max_upload_bytes = %d, want %d", cfg.Storage.MaxUploadBytes, 1<<20)
	}
	if cfg.Tailscale.Enabled {
		t.Error("tailscale should be disabled by default")
	}
}

// TestEnvOverride verifies that ROUTINETIMER_ env vars take precedence over YAML values.
// This ensures production deployments can override config via environment.
func TestEnvOverride(t *testing.T) {
	t.Setenv("ROUTINETIMER_SERVER_PORT", "9999")
	t.Setenv("ROUTINETIMER_ROUTINES_DIR", "/data/routines")
	t.Setenv("ROUTINETIMER_MAX_UPLOAD_BYTES", "2048")
	t.Setenv("ROUTINETIMER_TS_ENABLED", "false")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Storage.RoutinesDir != "/data/routines" {
		t.Errorf("storage.routines_dir = %q, want %q", cfg.Storage.RoutinesDir, "/data/routines")
	}
	if cfg.Storage.MaxUploadBytes != 2048 {
		t.Errorf("storage.max_upload_bytes = %d, want 2048", cfg.Storage.MaxUploadBytes)
	}
	if cfg.Tailscale.Enabled {
		t.Error("tailscale.enabled should be overridden to false")
	}
	// Unchanged fields should keep YAML values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
}

// TestEnvOverrideIgnoresGarbage keeps the file value when an env var does not parse.
func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv("ROUTINETIMER_SERVER_PORT", "eighty")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
}

// TestValidationBadPort verifies that an out-of-range port is rejected.
func TestValidationBadPort(t *testing.T) {
	_, err := Load(writeTemp(t, "server:\n  port: 70000\n"))
	if err == nil {
		t.Fatal("expected validation error for port 70000")
	}
}

// TestValidationUploadLimit rejects a non-positive upload limit, which would
// refuse every upload.
func TestValidationUploadLimit(t *testing.T) {
	_, err := Load(writeTemp(t, "storage:\n  max_upload_bytes: 0\n"))
	if err == nil {
		t.Fatal("expected validation error for max_upload_bytes 0")
	}
}

// TestValidationTailscaleHostname verifies that enabling tailscale with an
// empty hostname is rejected.
func TestValidationTailscaleHostname(t *testing.T) {
	_, err := Load(writeTemp(t, "tailscale:\n  enabled: true\n  hostname: \"\"\n"))
	if err == nil {
		t.Fatal("expected validation error for missing tailscale hostname")
	}
}

// TestLoadMissingFile verifies that a missing config file returns a clear error.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
