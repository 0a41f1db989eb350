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
	"net/http"
	"testing"
	"time"
)

func TestParseOpenAIHeaders(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected RateLimitInfo
	}{
		{name: "empty_headers", headers: map[string]string{}, expected: RateLimitInfo{}},
		{
			name:     "retry_after_seconds",
			headers:  map[string]string{"Retry-After": "30"},
			expected: RateLimitInfo{RetryAfter: 30 * time.Second},
		},
		{
			name:     "retry_after_invalid",
			headers:  map[string]string{"Retry-After": "invalid"},
			expected: RateLimitInfo{},
		},
		{
			name:     "token_reset_time",
			headers:  map[string]string{"x-ratelimit-reset-tokens": "1640995200"},
			expected: RateLimitInfo{ResetTime: 1640995200},
		},
		{
			name: "complete_openai_headers",
			headers: map[string]string{
				"Retry-After":                    "60",
				"x-ratelimit-reset-tokens":       "1640995200",
				"x-ratelimit-remaining-requests": "50",
				"x-ratelimit-remaining-tokens":   "25000",
			},
			expected: RateLimitInfo{
				RetryAfter:        60 * time.Second,
				ResetTime:         1640995200,
				RequestsRemaining: 50,
				TokensRemaining:   25000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			for key, value := range tt.headers {
				headers.Set(key, value)
			}

			result := ParseOpenAIHeaders(headers)
			if result != tt.expected {
				t.Errorf("ParseOpenAIHeaders() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestParseAnthropicHeaders(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected RateLimitInfo
	}{
		{name: "empty_headers", headers: map[string]string{}, expected: RateLimitInfo{}},
		{
			name:     "retry_after_seconds",
			headers:  map[string]string{"retry-after": "45"},
			expected: RateLimitInfo{RetryAfter: 45 * time.Second},
		},
		{
			name:     "input_tokens_reset_rfc3339",
			headers:  map[string]string{"anthropic-ratelimit-input-tokens-reset": "2021-12-31T23:59:59Z"},
			expected: RateLimitInfo{ResetTime: 1640995199},
		},
		{
			name: "complete_anthropic_headers",
			headers: map[string]string{
				"retry-after":                                 "30",
				"anthropic-ratelimit-input-tokens-reset":      "2021-12-31T23:59:59Z",
				"anthropic-ratelimit-requests-remaining":      "25",
				"anthropic-ratelimit-input-tokens-remaining":  "75000",
				"anthropic-ratelimit-output-tokens-remaining": "25000",
			},
			expected: RateLimitInfo{
				RetryAfter:            30 * time.Second,
				ResetTime:             1640995199,
				RequestsRemaining:     25,
				InputTokensRemaining:  75000,
				OutputTokensRemaining: 25000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			for key, value := range tt.headers {
				headers.Set(key, value)
			}

			result := ParseAnthropicHeaders(headers)
			if result != tt.expected {
				t.Errorf("ParseAnthropicHeaders() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}
