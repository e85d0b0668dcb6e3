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
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		endpoint   string
		message    string
		err        error
		wantString string
		retryable  bool
	}{
		{
			name:       "retryable 429 error",
			statusCode: http.StatusTooManyRequests,
			endpoint:   MeasurementsEndpoint,
			message:    "rate limited",
			err:        nil,
			wantString: "API error (429) at /measurements/electricity: rate limited",
			retryable:  true,
		},
		{
			name:       "non-retryable 404 error",
			statusCode: http.StatusNotFound,
			endpoint:   ContractEndpoint,
			message:    "not found",
			err:        nil,
			wantString: "API error (404) at /contract/list: not found",
			retryable:  false,
		},
		{
			name:       "error with underlying cause",
			statusCode: http.StatusInternalServerError,
			endpoint:   SpotPricesEndpoint,
			message:    "server error",
			err:        errors.New("connection timeout"),
			wantString: "connection timeout",
			retryable:  true,
		},
		{
			name:       "transport failure without status",
			statusCode: 0,
			endpoint:   MeasurementsEndpoint,
			message:    "request failed",
			err:        errors.New("dial tcp: connection refused"),
			wantString: "connection refused",
			retryable:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := NewAPIError(tt.statusCode, tt.endpoint, tt.message, tt.err)

			errStr := apiErr.Error()
			if !strings.Contains(errStr, tt.wantString) {
				t.Errorf("Error() = %q, want to contain %q", errStr, tt.wantString)
			}

			if apiErr.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", apiErr.Retryable, tt.retryable)
			}

			if tt.err != nil && apiErr.Unwrap() != tt.err {
				t.Errorf("Unwrap() = %v, want %v", apiErr.Unwrap(), tt.err)
			}
		})
	}
}

func TestAuthError(t *testing.T) {
	cause := errors.New("tls handshake failure")
	authErr := &AuthError{Message: "login request failed", Err: cause}

	if !strings.Contains(authErr.Error(), "authentication error") {
		t.Errorf("Error() = %q, want authentication error prefix", authErr.Error())
	}

	if !errors.Is(authErr, cause) {
		t.Error("Expected errors.Is to find the underlying cause")
	}
}

func TestSessionError(t *testing.T) {
	cause := errors.New("no active session")
	sessionErr := &SessionError{Operation: "token", Err: cause}

	want := "session error during token: no active session"
	if sessionErr.Error() != want {
		t.Errorf("Error() = %q, want %q", sessionErr.Error(), want)
	}

	if sessionErr.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", sessionErr.Unwrap(), cause)
	}
}

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	parseErr := &ParseError{Endpoint: ContractEndpoint, Err: cause}

	if !strings.Contains(parseErr.Error(), ContractEndpoint) {
		t.Errorf("Error() = %q, want to contain endpoint", parseErr.Error())
	}

	if !errors.Is(parseErr, cause) {
		t.Error("Expected errors.Is to find the underlying cause")
	}
}

func TestNotFoundError(t *testing.T) {
	withMessage := &NotFoundError{Field: "base price component", Message: "no component is flagged as base price"}
	if withMessage.Error() != "base price component not found: no component is flagged as base price" {
		t.Errorf("Unexpected Error(): %q", withMessage.Error())
	}

	withoutMessage := &NotFoundError{Field: "delivery site"}
	if withoutMessage.Error() != "delivery site not found" {
		t.Errorf("Unexpected Error(): %q", withoutMessage.Error())
	}
}

func TestCalculationError(t *testing.T) {
	calcErr := &CalculationError{Message: "total consumption is zero, impact is undefined"}
	if !strings.Contains(calcErr.Error(), "calculation error") {
		t.Errorf("Error() = %q, want calculation error prefix", calcErr.Error())
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name       string
		err        *ValidationError
		wantString string
	}{
		{
			name:       "with value",
			err:        &ValidationError{Field: "start date", Value: "2022-13-01", Message: "not a valid date"},
			wantString: "validation error for start date (value: 2022-13-01): not a valid date",
		},
		{
			name:       "without value",
			err:        &ValidationError{Field: "username", Message: "username must not be empty"},
			wantString: "validation error for username: username must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.wantString {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantString)
			}
		})
	}
}
