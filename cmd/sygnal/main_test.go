package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("SYGNAL_CONFIG", "/nonexistent/path/sygnal.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_UnknownBackendKind verifies run fails when an app names a
// backend kind the binary does not carry.
func TestRun_UnknownBackendKind(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sygnal.yaml")
	dbPath := filepath.Join(tmpDir, "sygnal.db")

	configContent := `
database:
  path: "` + dbPath + `"

logging:
  level: error
  format: text
  output: stdout

apps:
  com.example.app:
    type: nosuch
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("SYGNAL_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail for unknown backend kind")
	}
}

// TestRun_ZeroApps verifies a gateway with no configured apps refuses
// to start.
func TestRun_ZeroApps(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sygnal.yaml")
	dbPath := filepath.Join(tmpDir, "sygnal.db")

	configContent := `
database:
  path: "` + dbPath + `"

logging:
  level: error
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("SYGNAL_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with zero configured apps")
	}
}

// TestRun_SuccessfulStartupAndShutdown runs the gateway with a webhook
// app until the context deadline triggers a clean shutdown.
func TestRun_SuccessfulStartupAndShutdown(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sygnal.yaml")
	dbPath := filepath.Join(tmpDir, "sygnal.db")

	configContent := `
gateway:
  host: "127.0.0.1"
  port: 15832

database:
  path: "` + dbPath + `"

logging:
  level: error
  format: text
  output: stdout

apps:
  com.example.app:
    type: webhook
    url: https://push.example.com/notify
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("SYGNAL_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("SYGNAL_CONFIG", "")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/sygnal.yaml"
	t.Setenv("SYGNAL_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}
