// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	euvdclient "github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/client"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if config.Upstream.BaseURL != euvdclient.DefaultBaseURL {
		t.Errorf("expected default base URL %q, got %q", euvdclient.DefaultBaseURL, config.Upstream.BaseURL)
	}
	if config.Upstream.Timeout != 30 {
		t.Errorf("expected default timeout 30, got %d", config.Upstream.Timeout)
	}
	if config.Upstream.MaxRetries != 3 {
		t.Errorf("expected default max retries 3, got %d", config.Upstream.MaxRetries)
	}
}

func TestLoadConfigFormats(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
	}{
		{
			name:     "JSON",
			fileName: "config.json",
			content: `{
				"upstream": {
					"baseUrl": "https://euvd.example.test",
					"timeoutSeconds": 15,
					"maxRetries": 5,
					"userAgent": "test-agent"
				}
			}`,
		},
		{
			name:     "YAML",
			fileName: "config.yaml",
			content: `upstream:
  baseUrl: https://euvd.example.test
  timeoutSeconds: 15
  maxRetries: 5
  userAgent: test-agent
`,
		},
		{
			name:     "TOML",
			fileName: "config.toml",
			content: `[upstream]
baseUrl = "https://euvd.example.test"
timeoutSeconds = 15
maxRetries = 5
userAgent = "test-agent"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, tt.fileName, tt.content)

			config, err := loadConfig(path)
			if err != nil {
				t.Fatalf("loadConfig failed: %v", err)
			}

			if config.Upstream.BaseURL != "https://euvd.example.test" {
				t.Errorf("expected base URL from file, got %q", config.Upstream.BaseURL)
			}
			if config.Upstream.Timeout != 15 {
				t.Errorf("expected timeout 15, got %d", config.Upstream.Timeout)
			}
			if config.Upstream.MaxRetries != 5 {
				t.Errorf("expected max retries 5, got %d", config.Upstream.MaxRetries)
			}
			if config.Upstream.UserAgent != "test-agent" {
				t.Errorf("expected user agent from file, got %q", config.Upstream.UserAgent)
			}
		})
	}
}

func TestLoadConfigInvalidValuesFallBackToDefaults(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{
		"upstream": {"baseUrl": "", "timeoutSeconds": -1, "maxRetries": 0}
	}`)

	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if config.Upstream.BaseURL != euvdclient.DefaultBaseURL {
		t.Errorf("empty base URL should fall back to default, got %q", config.Upstream.BaseURL)
	}
	if config.Upstream.Timeout != 30 {
		t.Errorf("non-positive timeout should fall back to 30, got %d", config.Upstream.Timeout)
	}
	if config.Upstream.MaxRetries != 3 {
		t.Errorf("non-positive max retries should fall back to 3, got %d", config.Upstream.MaxRetries)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig("/nonexistent/config.json")
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	tests := []struct {
		fileName string
		content  string
	}{
		{"config.json", "{not json"},
		{"config.yaml", "upstream: [unclosed"},
		{"config.toml", "[upstream\nbaseUrl = broken"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			path := writeTempConfig(t, tt.fileName, tt.content)
			if _, err := loadConfig(path); err == nil {
				t.Error("expected parse error for malformed config file")
			}
		})
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{"upstream": {"timeoutSeconds": 7}}`)
	t.Setenv("EUVD_MCP_CONFIG_FILE", path)

	config, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if config.Upstream.Timeout != 7 {
		t.Errorf("expected timeout from env-pointed file, got %d", config.Upstream.Timeout)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{
		"upstream": {"baseUrl": "https://from-file.test", "timeoutSeconds": 15, "maxRetries": 5}
	}`)

	t.Setenv("EUVD_BASE_URL", "https://from-env.test")
	t.Setenv("EUVD_TIMEOUT", "45")
	t.Setenv("EUVD_MAX_RETRIES", "2")
	t.Setenv("EUVD_USER_AGENT", "env-agent")

	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if config.Upstream.BaseURL != "https://from-env.test" {
		t.Errorf("env must override file base URL, got %q", config.Upstream.BaseURL)
	}
	if config.Upstream.Timeout != 45 {
		t.Errorf("env must override file timeout, got %d", config.Upstream.Timeout)
	}
	if config.Upstream.MaxRetries != 2 {
		t.Errorf("env must override file max retries, got %d", config.Upstream.MaxRetries)
	}
	if config.Upstream.UserAgent != "env-agent" {
		t.Errorf("env must override user agent, got %q", config.Upstream.UserAgent)
	}
}

func TestLoadConfigIgnoresInvalidEnvNumbers(t *testing.T) {
	t.Setenv("EUVD_TIMEOUT", "not-a-number")
	t.Setenv("EUVD_MAX_RETRIES", "-3")

	config, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if config.Upstream.Timeout != 30 {
		t.Errorf("unparsable timeout env must be ignored, got %d", config.Upstream.Timeout)
	}
	if config.Upstream.MaxRetries != 3 {
		t.Errorf("negative retries env must be ignored, got %d", config.Upstream.MaxRetries)
	}
}

func TestClientConfigConversion(t *testing.T) {
	config := &Config{}
	config.Upstream.BaseURL = "https://euvd.example.test"
	config.Upstream.Timeout = 20
	config.Upstream.MaxRetries = 4
	config.Upstream.UserAgent = "test-agent"

	cc := config.ClientConfig()

	if cc.BaseURL != "https://euvd.example.test" {
		t.Errorf("unexpected base URL %q", cc.BaseURL)
	}
	if cc.Timeout != 20*time.Second {
		t.Errorf("expected 20s timeout, got %v", cc.Timeout)
	}
	if cc.MaxAttempts != 4 {
		t.Errorf("expected 4 attempts, got %d", cc.MaxAttempts)
	}
	if cc.UserAgent != "test-agent" {
		t.Errorf("unexpected user agent %q", cc.UserAgent)
	}
}

func TestDetectConfigFormat(t *testing.T) {
	tests := []struct {
		path string
		want configFormat
	}{
		{"config.json", configFormatJSON},
		{"config.yaml", configFormatYAML},
		{"config.yml", configFormatYAML},
		{"config.YAML", configFormatYAML},
		{"config.toml", configFormatTOML},
		{"config", configFormatJSON},
		{"config.txt", configFormatJSON},
	}

	for _, tt := range tests {
		if got := detectConfigFormat(tt.path); got != tt.want {
			t.Errorf("detectConfigFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
