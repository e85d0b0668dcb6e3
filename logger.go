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
	"log/slog"
	"os"
)

// Logger wraps slog.Logger for structured logging throughout the application.
// Structured output goes to stderr so that command results on stdout stay
// pipeable.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new structured text logger
func NewLogger(debug bool) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, handlerOptions(debug)))}
}

// NewJSONLogger creates a new JSON structured logger (useful for log aggregation)
func NewJSONLogger(debug bool) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, handlerOptions(debug)))}
}

func handlerOptions(debug bool) *slog.HandlerOptions {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}

// WithComponent returns a logger with a component field pre-set
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component)}
}

// LogAPIRequest logs an API request with common fields
func (l *Logger) LogAPIRequest(method, endpoint string, statusCode int, duration float64) {
	l.Debug("API request",
		"method", method,
		"endpoint", endpoint,
		"status_code", statusCode,
		"duration_ms", duration*1000,
	)
}

// LogAPIError logs an API error with details
func (l *Logger) LogAPIError(err error, endpoint string) {
	if apiErr, ok := err.(*APIError); ok {
		l.Error("API request failed",
			"endpoint", endpoint,
			"status_code", apiErr.StatusCode,
			"retryable", apiErr.Retryable,
			"error", apiErr.Message,
		)
	} else {
		l.Error("API request failed",
			"endpoint", endpoint,
			"error", err.Error(),
		)
	}
}

// LogCacheHit logs a cache hit
func (l *Logger) LogCacheHit(cacheType string, age float64) {
	l.Debug("Cache hit",
		"cache_type", cacheType,
		"age_seconds", age,
	)
}

// LogCacheMiss logs a cache miss
func (l *Logger) LogCacheMiss(cacheType string, reason string) {
	l.Debug("Cache miss",
		"cache_type", cacheType,
		"reason", reason,
	)
}

// UserMessage outputs a user-friendly message (bypasses structured logging).
// Use this for primary command output.
func (l *Logger) UserMessage(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// UserMessagef outputs a user-friendly message without newline
func (l *Logger) UserMessagef(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}
