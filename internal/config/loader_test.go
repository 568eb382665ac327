package config_test

import (
	"strings"
	"testing"

	"github.com/legisws/walegis/internal/config"
)

func TestValidate_InvalidLogLevel(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: verbose
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for invalid log level, got nil")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
}

func TestValidate_NonPositiveTimeout(t *testing.T) {
	t.Parallel()
	yaml := `
upstream:
  timeout_seconds: 0
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for zero timeout, got nil")
	}
	if !strings.Contains(err.Error(), "timeout_seconds") {
		t.Errorf("error should mention timeout_seconds, got: %v", err)
	}
}

func TestValidate_RelativeBaseURL(t *testing.T) {
	t.Parallel()
	yaml := `
upstream:
  base_url: wslwebservices.leg.wa.gov
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for a URL without scheme, got nil")
	}
	if !strings.Contains(err.Error(), "absolute http(s) URL") {
		t.Errorf("error should mention absolute http(s) URL, got: %v", err)
	}
}

func TestValidate_MultipleErrorsAreJoined(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: loud
search:
  max_docs: -5
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected errors, got nil")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
	if !strings.Contains(errStr, "max_docs") {
		t.Errorf("error should mention max_docs, got: %v", err)
	}
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvAdminAddr, ":9191")
	t.Setenv(config.EnvAPITimeout, "5")

	cfg, err := config.LoadFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Server.LogLevel != config.LogError {
		t.Errorf("server.log_level = %q, want env override error", cfg.Server.LogLevel)
	}
	if cfg.Server.AdminAddr != ":9191" {
		t.Errorf("server.admin_addr = %q, want env override :9191", cfg.Server.AdminAddr)
	}
	if cfg.Upstream.TimeoutSeconds != 5 {
		t.Errorf("upstream.timeout_seconds = %d, want env override 5", cfg.Upstream.TimeoutSeconds)
	}
}

func TestApplyEnv_InvalidTimeoutRejected(t *testing.T) {
	t.Setenv(config.EnvAPITimeout, "soon")

	_, err := config.LoadFromReader(strings.NewReader(""))
	if err == nil {
		t.Fatal("expected error for non-integer timeout override, got nil")
	}
	if !strings.Contains(err.Error(), "not an integer") {
		t.Errorf("error should mention the bad integer, got: %v", err)
	}
}

func TestApplyEnv_InvalidLogLevelFailsValidation(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "shout")

	_, err := config.LoadFromReader(strings.NewReader(""))
	if err == nil {
		t.Fatal("expected error when env sets a bad log level, got nil")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
}
