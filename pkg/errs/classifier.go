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

// Package errs classifies failures coming back from LLM and search
// providers into a closed taxonomy, so that retry, circuit-breaking, and
// user-facing severity can all be driven off one decision.
package errs

import (
	"strings"
	"time"
)

// Category is a closed enumeration of failure kinds.
type Category string

const (
	CategoryTransient      Category = "transient"
	CategoryAuthentication Category = "authentication"
	CategoryQuota          Category = "quota"
	CategoryInvalidRequest Category = "invalid_request"
	CategoryServiceError   Category = "service_error"
	CategoryInvalidResponse Category = "invalid_response"
	CategoryUnknown        Category = "unknown"
)

// Severity grades how loudly an alerting pipeline should treat the failure.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Classification is the classifier's verdict for one error.
type Classification struct {
	Category            Category
	ShouldRetry         bool
	SuggestedRetryDelay time.Duration // zero means "no suggestion"
	AlertSeverity       Severity
}

const quotaRetryFloor = 5000 * time.Millisecond

// cue pairs a substring to look for (case-insensitively, in the error's
// message and its dynamic type name) with the classification it implies.
// Order matters: the first matching cue wins.
type cue struct {
	tokens []string
	result Classification
}

var cues = []cue{
	{
		tokens: []string{"401", "403", "unauthorized", "authentication"},
		result: Classification{Category: CategoryAuthentication, ShouldRetry: false, AlertSeverity: SeverityCritical},
	},
	{
		tokens: []string{"429", "rate limit", "too many requests", "quota"},
		result: Classification{Category: CategoryQuota, ShouldRetry: true, SuggestedRetryDelay: quotaRetryFloor, AlertSeverity: SeverityWarning},
	},
	{
		tokens: []string{"500", "502", "503", "504", "internal server error", "bad gateway", "service unavailable", "gateway timeout"},
		result: Classification{Category: CategoryServiceError, ShouldRetry: true, AlertSeverity: SeverityWarning},
	},
	{
		tokens: []string{"408", "timeout", "timed out", "connection", "network", "dial", "eof", "reset by peer"},
		result: Classification{Category: CategoryTransient, ShouldRetry: true, AlertSeverity: SeverityWarning},
	},
	{
		tokens: []string{"400", "bad request", "invalid argument"},
		result: Classification{Category: CategoryInvalidRequest, ShouldRetry: false, AlertSeverity: SeverityWarning},
	},
	{
		tokens: []string{"json", "parse", "decode", "unmarshal", "malformed"},
		result: Classification{Category: CategoryInvalidResponse, ShouldRetry: false, AlertSeverity: SeverityWarning},
	},
}

// Classify inspects err's message (and, if it implements the unwrap-typed
// interface below, its dynamic type name) for signal tokens and returns a
// Classification. A nil error classifies as CategoryUnknown without
// panicking, so callers can classify unconditionally.
func Classify(err error) Classification {
	if err == nil {
		return Classification{Category: CategoryUnknown, AlertSeverity: SeverityInfo}
	}

	haystack := strings.ToLower(err.Error())
	if named, ok := err.(interface{ Name() string }); ok {
		haystack += " " + strings.ToLower(named.Name())
	}

	for _, c := range cues {
		for _, token := range c.tokens {
			if strings.Contains(haystack, token) {
				return c.result
			}
		}
	}

	return Classification{Category: CategoryUnknown, ShouldRetry: false, AlertSeverity: SeverityWarning}
}
