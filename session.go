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
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// HelenSession holds the login state towards the Oma Helen API: the bearer
// access token from the most recent credential exchange and its timestamp.
// All fields are guarded by the mutex; the session is shared by every fetch
// operation of the client.
type HelenSession struct {
	mu          sync.Mutex
	client      *http.Client
	authURL     string
	accessToken string
	lastLogin   time.Time
	logger      *Logger
	now         func() time.Time
}

// NewHelenSession creates a logged-out session.
func NewHelenSession(authURL string, timeout time.Duration, logger *Logger) *HelenSession {
	if authURL == "" {
		authURL = HelenAuthURL
	}
	return &HelenSession{
		client:  &http.Client{Timeout: timeout},
		authURL: authURL,
		logger:  logger.WithComponent("session"),
		now:     time.Now,
	}
}

// Login exchanges the credentials for an access token. A successful call
// replaces any previous token and restarts the validity window.
func (s *HelenSession) Login(ctx context.Context, username, password string) error {
	form := url.Values{
		"username": {username},
		"password": {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return &AuthError{Message: "failed to create login request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", GetUserAgent())

	start := s.now()
	resp, err := s.client.Do(req)
	if err != nil {
		return &AuthError{Message: "login request failed", Err: err}
	}
	defer resp.Body.Close()

	s.logger.LogAPIRequest(http.MethodPost, s.authURL, resp.StatusCode, s.now().Sub(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Message: "invalid credentials"}
	case resp.StatusCode != http.StatusOK:
		return &AuthError{Message: "login failed with status " + resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &AuthError{Message: "failed to read login response", Err: err}
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return &AuthError{Message: "malformed login response", Err: err}
	}
	if token.AccessToken == "" {
		return &AuthError{Message: "login response contained no access token"}
	}

	s.mu.Lock()
	s.accessToken = token.AccessToken
	s.lastLogin = s.now()
	s.mu.Unlock()

	s.logger.Info("Logged in to Oma Helen")
	return nil
}

// AccessToken returns the bearer token from the most recent login.
func (s *HelenSession) AccessToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accessToken == "" {
		return "", &SessionError{Operation: "token", Err: errors.New("no active session, log in first")}
	}
	return s.accessToken, nil
}

// IsValidAt reports whether the session can be assumed live at the given
// instant: within one hour after the latest login, boundaries included. A
// login timestamp in the future is never valid. This is a freshness
// heuristic only; it does not consult the provider and does not refresh
// anything.
func (s *HelenSession) IsValidAt(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastLogin.IsZero() {
		return false
	}
	if now.Before(s.lastLogin) {
		return false
	}
	return now.Sub(s.lastLogin) <= SessionValidity
}

// IsValid reports session freshness at the current time.
func (s *HelenSession) IsValid() bool {
	return s.IsValidAt(s.now())
}

// Close logs the session out locally and releases transport resources.
// Safe to call multiple times.
func (s *HelenSession) Close() {
	s.mu.Lock()
	s.accessToken = ""
	s.lastLogin = time.Time{}
	s.mu.Unlock()
	s.client.CloseIdleConnections()
}
