// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	euvdclient "github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/client"
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
	// configFormatTOML represents TOML configuration format (.toml)
	configFormatTOML
)

// Config represents the MCP server configuration structure.
// It contains connection settings for the upstream EUVD service.
//
// The configuration can be loaded from a JSON, YAML, or TOML file specified by the
// EUVD_MCP_CONFIG_FILE environment variable, with defaults applied for any missing values.
// Supported file extensions: .json, .yaml, .yml, .toml
//
// The loaded configuration is read once at startup and treated as immutable afterwards.
type Config struct {
	// Upstream: Settings for the EUVD API connection
	Upstream struct {
		// BaseURL: Base URL of the EUVD service
		BaseURL string `json:"baseUrl" yaml:"baseUrl" toml:"baseUrl"`
		// Timeout: Per-request timeout in seconds
		Timeout int `json:"timeoutSeconds" yaml:"timeoutSeconds" toml:"timeoutSeconds"`
		// MaxRetries: Total attempts per request (including the first)
		MaxRetries int `json:"maxRetries" yaml:"maxRetries" toml:"maxRetries"`
		// UserAgent: Overrides the default browser-like User-Agent header
		UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty" toml:"userAgent,omitempty"`
	} `json:"upstream" yaml:"upstream" toml:"upstream"`
}

// ClientConfig converts the server configuration into the API layer's Config.
// Zero or missing values fall through to the API layer's own defaults.
func (c *Config) ClientConfig() euvdclient.Config {
	return euvdclient.Config{
		BaseURL:     c.Upstream.BaseURL,
		Timeout:     time.Duration(c.Upstream.Timeout) * time.Second,
		MaxAttempts: c.Upstream.MaxRetries,
		UserAgent:   c.Upstream.UserAgent,
	}
}

// detectConfigFormat determines the configuration file format based on file extension.
// It supports .json, .yaml, .yml, and .toml extensions for flexible configuration management.
//
// Parameters:
//   - configPath: Path to the configuration file
//
// Returns:
//   - configFormat: The detected format (configFormatJSON, configFormatYAML, or configFormatTOML)
//
// The function uses case-insensitive extension matching for cross-platform compatibility.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	case ".toml":
		return configFormatTOML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
// It supports JSON, YAML, and TOML formats for configuration flexibility.
//
// Parameters:
//   - data: Raw configuration file contents
//   - config: Pointer to Config struct to populate
//   - format: The configuration format
//
// Returns:
//   - error: Any parsing error encountered during unmarshaling
//
// The function delegates to the appropriate parser based on the format parameter,
// ensuring consistent error handling across all configuration formats.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	case configFormatTOML:
		if err := toml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse TOML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// loadConfig loads MCP server configuration from a JSON, YAML, or TOML file or applies defaults.
// It sets up default values for the upstream EUVD connection.
//
// Parameters:
//   - configPath: Path to the configuration file (optional, can be empty)
//     Supported formats: .json, .yaml, .yml, .toml
//
// Returns:
//   - A pointer to the loaded Config struct with defaults applied
//   - An error if the configuration file cannot be read or parsed
//
// Configuration Priority:
//  1. Default values are set
//  2. EUVD_MCP_CONFIG_FILE environment variable is checked if configPath is empty
//  3. Config file values override defaults (if file exists and is valid)
//  4. Environment variables override config file values
//     (EUVD_BASE_URL, EUVD_TIMEOUT, EUVD_MAX_RETRIES, EUVD_USER_AGENT)
//
// The function first applies hardcoded defaults, then attempts to load and merge
// configuration from the specified file. The file format is automatically detected
// based on the file extension.
func loadConfig(configPath string) (*Config, error) {
	config := &Config{}

	// Set defaults
	config.Upstream.BaseURL = euvdclient.DefaultBaseURL
	config.Upstream.Timeout = 30
	config.Upstream.MaxRetries = 3

	// Check environment variable for config file path if not provided
	if configPath == "" {
		configPath = os.Getenv("EUVD_MCP_CONFIG_FILE")
	}

	// Try to load from file if path is provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Detect format and unmarshal accordingly
		format := detectConfigFormat(configPath)
		if err := unmarshalConfig(data, config, format); err != nil {
			return nil, err
		}

		// Validate and set defaults for invalid values
		if config.Upstream.BaseURL == "" {
			config.Upstream.BaseURL = euvdclient.DefaultBaseURL
		}
		if config.Upstream.Timeout <= 0 {
			config.Upstream.Timeout = 30
		}
		if config.Upstream.MaxRetries <= 0 {
			config.Upstream.MaxRetries = 3
		}
	}

	// Environment overrides
	if v := os.Getenv("EUVD_BASE_URL"); v != "" {
		config.Upstream.BaseURL = v
	}
	if v := os.Getenv("EUVD_TIMEOUT"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			config.Upstream.Timeout = seconds
		}
	}
	if v := os.Getenv("EUVD_MAX_RETRIES"); v != "" {
		if retries, err := strconv.Atoi(v); err == nil && retries > 0 {
			config.Upstream.MaxRetries = retries
		}
	}
	if v := os.Getenv("EUVD_USER_AGENT"); v != "" {
		config.Upstream.UserAgent = v
	}

	return config, nil
}
