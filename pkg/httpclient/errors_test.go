// Copyright 2025 Kadir Pekel
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

package httpclient

import (
	"errors"
	"testing"
	"time"

	"github.com/kadirpekel/aide/pkg/errs"
)

func TestRetryableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *RetryableError
		expected string
	}{
		{
			name: "error_with_retry_after",
			err: &RetryableError{
				StatusCode: 429,
				Message:    "Rate limit exceeded",
				RetryAfter: 30 * time.Second,
				Err:        errors.New("underlying error"),
			},
			expected: "HTTP 429: Rate limit exceeded (retry after 30s)",
		},
		{
			name: "error_without_retry_after",
			err: &RetryableError{
				StatusCode: 500,
				Message:    "Internal server error",
				Err:        errors.New("underlying error"),
			},
			expected: "HTTP 500: Internal server error",
		},
		{
			name: "error_with_zero_status_code",
			err: &RetryableError{
				StatusCode: 0,
				Message:    "Unknown error",
				RetryAfter: 5 * time.Second,
				Err:        errors.New("underlying error"),
			},
			expected: "HTTP 0: Unknown error (retry after 5s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.err.Error(); result != tt.expected {
				t.Errorf("RetryableError.Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestRetryableError_Unwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	retryErr := &RetryableError{StatusCode: 429, Err: underlyingErr}

	if result := retryErr.Unwrap(); result != underlyingErr {
		t.Errorf("RetryableError.Unwrap() = %v, want %v", result, underlyingErr)
	}
}

func TestRetryableError_IsRetryable(t *testing.T) {
	retryErr := &RetryableError{StatusCode: 503}
	if !retryErr.IsRetryable() {
		t.Error("Expected IsRetryable()=true")
	}
}

func TestRetryableError_CarriesClassification(t *testing.T) {
	retryErr := &RetryableError{
		StatusCode:     503,
		Message:        "Service unavailable",
		Err:            errors.New("HTTP 503"),
		Classification: errs.Classify(errors.New("HTTP 503")),
	}

	if retryErr.Classification.Category != errs.CategoryServiceError {
		t.Errorf("Classification.Category = %v, want %v", retryErr.Classification.Category, errs.CategoryServiceError)
	}
	if !retryErr.Classification.ShouldRetry {
		t.Error("Expected Classification.ShouldRetry=true for a service error")
	}
}

func TestRetryableError_ErrorWrapping(t *testing.T) {
	underlyingErr := errors.New("network timeout")
	retryErr := &RetryableError{StatusCode: 408, Message: "Request timeout", Err: underlyingErr}

	if !errors.Is(retryErr, underlyingErr) {
		t.Error("errors.Is should return true for wrapped error")
	}

	var asRetryErr *RetryableError
	if !errors.As(retryErr, &asRetryErr) {
		t.Error("errors.As should work with RetryableError")
	}
	if asRetryErr.StatusCode != 408 {
		t.Errorf("As() StatusCode = %d, want 408", asRetryErr.StatusCode)
	}
}
