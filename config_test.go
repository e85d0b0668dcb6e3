// Copyright 2025 The oma-helen-cli Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "test_config.yaml")

	configContent := `username: test-user
base_url: https://example.test/v7
base_url_v8: https://example.test/v8
timeout_seconds: 10
debug: true
json_log: true
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	config, err := LoadConfig(configFile)
	if err != nil {
		t.Errorf("Expected no error loading config, got %v", err)
	}

	if config.Username != "test-user" {
		t.Errorf("Expected Username 'test-user', got %s", config.Username)
	}

	if config.BaseURL != "https://example.test/v7" {
		t.Errorf("Expected BaseURL 'https://example.test/v7', got %s", config.BaseURL)
	}

	if config.TimeoutSeconds != 10 {
		t.Errorf("Expected TimeoutSeconds 10, got %d", config.TimeoutSeconds)
	}

	if !config.Debug {
		t.Error("Expected Debug to be true")
	}

	if !config.JSONLog {
		t.Error("Expected JSONLog to be true")
	}

	// The auth URL was not in the file and falls back to the default
	if config.AuthURL != HelenAuthURL {
		t.Errorf("Expected default AuthURL, got %s", config.AuthURL)
	}
}

func TestLoadConfigNoPath(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Expected no error for empty path, got %v", err)
	}

	if config.BaseURL != HelenAPIBaseURL {
		t.Errorf("Expected default BaseURL %s, got %s", HelenAPIBaseURL, config.BaseURL)
	}

	if config.BaseURLV8 != HelenAPIBaseURLV8 {
		t.Errorf("Expected default BaseURLV8 %s, got %s", HelenAPIBaseURLV8, config.BaseURLV8)
	}

	if config.Timeout() != HTTPReadTimeout {
		t.Errorf("Expected default timeout %v, got %v", HTTPReadTimeout, config.Timeout())
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "bad.yaml")

	if err := os.WriteFile(configFile, []byte("username: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	if _, err := LoadConfig(configFile); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "base url without scheme",
			mutate:  func(c *Config) { c.BaseURL = "api.omahelen.fi/v7" },
			wantErr: "base_url",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.TimeoutSeconds = 0 },
			wantErr: "timeout",
		},
		{
			name:    "absurd timeout",
			mutate:  func(c *Config) { c.TimeoutSeconds = int((2 * time.Hour).Seconds()) },
			wantErr: "timeout",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := &Config{}
			config.ApplyDefaults()
			tc.mutate(config)

			err := config.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Expected valid config, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected validation error mentioning %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error to mention %q, got %v", tc.wantErr, err)
			}
		})
	}
}
