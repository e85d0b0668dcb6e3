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
	"strings"
	"testing"

	"golang.org/x/mod/semver"
)

func TestGetVersion(t *testing.T) {
	// Save original values
	originalVersion := version
	originalCommit := commit
	defer func() {
		version = originalVersion
		commit = originalCommit
	}()

	t.Run("explicit version from ldflags", func(t *testing.T) {
		version = "1.2.3"
		if got := GetVersion(); got != "1.2.3" {
			t.Errorf("GetVersion() = %q, want %q", got, "1.2.3")
		}
	})

	t.Run("falls back to commit hash", func(t *testing.T) {
		version = "dev"
		commit = "abcdef1234567890"
		got := GetVersion()
		// Build info may supply a VCS revision in some environments; accept
		// either the truncated commit or a 7-char revision.
		if len(got) < 3 {
			t.Errorf("GetVersion() = %q, want a non-trivial version string", got)
		}
	})
}

func TestReleaseVersionIsSemver(t *testing.T) {
	originalVersion := version
	defer func() { version = originalVersion }()

	// Release builds inject a bare semver via ldflags; the v-prefixed form
	// must parse so release tags sort correctly.
	version = "1.4.2"
	if got := "v" + GetVersion(); !semver.IsValid(got) {
		t.Errorf("version %q is not valid semver", got)
	}
	if semver.Compare("v"+GetVersion(), "v1.0.0") <= 0 {
		t.Errorf("semver.Compare ordered %q before v1.0.0", "v"+GetVersion())
	}
}

func TestGetUserAgent(t *testing.T) {
	userAgent := GetUserAgent()

	if !strings.HasPrefix(userAgent, "oma-helen-cli ") {
		t.Errorf("GetUserAgent() = %q, want oma-helen-cli prefix", userAgent)
	}

	if !strings.Contains(userAgent, GetVersion()) {
		t.Errorf("GetUserAgent() = %q, want to contain version %q", userAgent, GetVersion())
	}
}
