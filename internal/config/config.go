// Package config provides the configuration schema and loader for the
// walegis server.
package config

import (
	"github.com/legisws/walegis/pkg/lawfiles"
	"github.com/legisws/walegis/pkg/wsl"
	"github.com/legisws/walegis/pkg/wslsearch"
)

// LogLevel controls log verbosity for the walegis server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for walegis.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Search   SearchConfig   `yaml:"search"`
}

// ServerConfig holds identity, logging, and admin listener settings.
type ServerConfig struct {
	// Name identifies the server to MCP clients during initialization.
	Name string `yaml:"name"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// AdminAddr is the TCP address for the metrics and health endpoints
	// (e.g., ":9090"). Empty disables the admin listener; the MCP server
	// itself always speaks over stdio.
	AdminAddr string `yaml:"admin_addr"`
}

// UpstreamConfig holds the Legislature service endpoints.
type UpstreamConfig struct {
	// BaseURL of the Legislative Web Services (bill metadata, committees,
	// sponsors, amendments, documents).
	BaseURL string `yaml:"base_url"`

	// DocumentBaseURL of the host serving bill text.
	DocumentBaseURL string `yaml:"document_base_url"`

	// TimeoutSeconds bounds each upstream call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// SearchConfig holds the full-text bill search settings.
type SearchConfig struct {
	// Endpoint is the full URL of the search service.
	Endpoint string `yaml:"endpoint"`

	// MaxDocs caps search results when the caller does not.
	MaxDocs int `yaml:"max_docs"`
}

// Default returns a Config pointing at the production Legislature services.
// Every field a YAML file can set has a working default, so running with no
// config file at all is supported.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:     "Washington State Legislature MCP Server",
			LogLevel: LogInfo,
		},
		Upstream: UpstreamConfig{
			BaseURL:         wsl.DefaultBaseURL,
			DocumentBaseURL: lawfiles.DefaultBaseURL,
			TimeoutSeconds:  30,
		},
		Search: SearchConfig{
			Endpoint: wslsearch.DefaultEndpoint,
			MaxDocs:  wslsearch.DefaultMaxDocs,
		},
	}
}
