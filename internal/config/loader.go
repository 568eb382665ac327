package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding individual settings after the YAML file
// is decoded. Overrides apply before validation, so a bad value fails the
// load the same way a bad file value would.
const (
	EnvServerName = "WALEGIS_SERVER_NAME"
	EnvLogLevel   = "WALEGIS_LOG_LEVEL"
	EnvAdminAddr  = "WALEGIS_ADMIN_ADDR"
	EnvAPITimeout = "WALEGIS_API_TIMEOUT"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of [Default], applies
// environment overrides, and validates the result. Useful in tests where
// configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overwrites settings from the WALEGIS_* environment variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvServerName); v != "" {
		cfg.Server.Name = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Server.LogLevel = LogLevel(v)
	}
	if v := os.Getenv(EnvAdminAddr); v != "" {
		cfg.Server.AdminAddr = v
	}
	if v := os.Getenv(EnvAPITimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s %q is not an integer: %w", EnvAPITimeout, v, err)
		}
		cfg.Upstream.TimeoutSeconds = secs
	}
	return nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Name == "" {
		errs = append(errs, errors.New("server.name is required"))
	}
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if err := validateBaseURL("upstream.base_url", cfg.Upstream.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if err := validateBaseURL("upstream.document_base_url", cfg.Upstream.DocumentBaseURL); err != nil {
		errs = append(errs, err)
	}
	if cfg.Upstream.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("upstream.timeout_seconds %d must be positive", cfg.Upstream.TimeoutSeconds))
	}

	if err := validateBaseURL("search.endpoint", cfg.Search.Endpoint); err != nil {
		errs = append(errs, err)
	}
	if cfg.Search.MaxDocs <= 0 {
		errs = append(errs, fmt.Errorf("search.max_docs %d must be positive", cfg.Search.MaxDocs))
	}

	return errors.Join(errs...)
}

// validateBaseURL requires an absolute http or https URL.
func validateBaseURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s %q is not a valid URL: %w", field, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s %q must be an absolute http(s) URL", field, raw)
	}
	return nil
}
