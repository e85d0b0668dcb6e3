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
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Username       string `yaml:"username"`
	BaseURL        string `yaml:"base_url"`
	BaseURLV8      string `yaml:"base_url_v8"`
	AuthURL        string `yaml:"auth_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Debug          bool   `yaml:"debug"`
	JSONLog        bool   `yaml:"json_log"`
}

func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if configPath == "" {
		config.ApplyDefaults()
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyDefaults()
	return config, nil
}

func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = HelenAPIBaseURL
	}
	if c.BaseURLV8 == "" {
		c.BaseURLV8 = HelenAPIBaseURLV8
	}
	if c.AuthURL == "" {
		c.AuthURL = HelenAuthURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = int(HTTPReadTimeout / time.Second)
	}
}

// Timeout returns the HTTP read timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	for name, value := range map[string]string{
		"base_url":    c.BaseURL,
		"base_url_v8": c.BaseURLV8,
		"auth_url":    c.AuthURL,
	} {
		if !strings.HasPrefix(value, "https://") && !strings.HasPrefix(value, "http://") {
			errors = append(errors, fmt.Sprintf("%s must be an http(s) URL, got: %s", name, value))
		}
	}

	if c.TimeoutSeconds < 1 {
		errors = append(errors, fmt.Sprintf("timeout must be at least 1 second, got: %d", c.TimeoutSeconds))
	}
	if c.TimeoutSeconds > 300 {
		errors = append(errors, fmt.Sprintf("timeout seems too long (%d seconds), the API answers well within a minute", c.TimeoutSeconds))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
