package config_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/legisws/walegis/internal/config"
)

const sampleYAML = `
server:
  name: walegis-staging
  log_level: debug
  admin_addr: ":9090"

upstream:
  base_url: https://wsl.staging.example.com
  document_base_url: https://lawfiles.staging.example.com
  timeout_seconds: 10

search:
  endpoint: https://search.staging.example.com/search
  max_docs: 25
`

func TestLoadFromReader_FullConfig(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if cfg.Server.Name != "walegis-staging" {
		t.Errorf("server.name = %q, want walegis-staging", cfg.Server.Name)
	}
	if cfg.Server.LogLevel != config.LogDebug {
		t.Errorf("server.log_level = %q, want debug", cfg.Server.LogLevel)
	}
	if cfg.Server.AdminAddr != ":9090" {
		t.Errorf("server.admin_addr = %q, want :9090", cfg.Server.AdminAddr)
	}
	if cfg.Upstream.BaseURL != "https://wsl.staging.example.com" {
		t.Errorf("upstream.base_url = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.TimeoutSeconds != 10 {
		t.Errorf("upstream.timeout_seconds = %d, want 10", cfg.Upstream.TimeoutSeconds)
	}
	if cfg.Search.MaxDocs != 25 {
		t.Errorf("search.max_docs = %d, want 25", cfg.Search.MaxDocs)
	}
}

func TestLoadFromReader_EmptyInputUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader on empty input: %v", err)
	}

	def := config.Default()
	if cfg.Server.Name != def.Server.Name {
		t.Errorf("server.name = %q, want default %q", cfg.Server.Name, def.Server.Name)
	}
	if cfg.Upstream.BaseURL != def.Upstream.BaseURL {
		t.Errorf("upstream.base_url = %q, want default %q", cfg.Upstream.BaseURL, def.Upstream.BaseURL)
	}
	if cfg.Upstream.TimeoutSeconds != 30 {
		t.Errorf("upstream.timeout_seconds = %d, want 30", cfg.Upstream.TimeoutSeconds)
	}
}

func TestLoadFromReader_PartialOverridesKeepDefaults(t *testing.T) {
	t.Parallel()

	yaml := `
server:
  log_level: warn
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Server.LogLevel != config.LogWarn {
		t.Errorf("server.log_level = %q, want warn", cfg.Server.LogLevel)
	}
	if cfg.Upstream.BaseURL != config.Default().Upstream.BaseURL {
		t.Errorf("upstream.base_url = %q, want production default", cfg.Upstream.BaseURL)
	}
}

func TestLoadFromReader_UnknownFieldRejected(t *testing.T) {
	t.Parallel()

	yaml := `
server:
  log_level: info
  cache_ttl: 300
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
	if !strings.Contains(err.Error(), "cache_ttl") {
		t.Errorf("error should name the unknown field, got: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load("/does/not/exist/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got: %v", err)
	}
}

func TestDefault_Validates(t *testing.T) {
	t.Parallel()

	if err := config.Validate(config.Default()); err != nil {
		t.Fatalf("Default() should validate cleanly, got: %v", err)
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()

	for _, l := range []config.LogLevel{config.LogDebug, config.LogInfo, config.LogWarn, config.LogError} {
		if !l.IsValid() {
			t.Errorf("LogLevel(%q).IsValid() = false, want true", l)
		}
	}
	if config.LogLevel("verbose").IsValid() {
		t.Error(`LogLevel("verbose").IsValid() = true, want false`)
	}
}
