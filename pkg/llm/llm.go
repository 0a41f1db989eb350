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

// Package llm defines the provider-agnostic chat completion contract used
// by the dispatcher and every specialized agent.
package llm

import (
	"context"

	"github.com/kadirpekel/aide/pkg/message"
)

// Request is a single, non-streaming chat completion request.
type Request struct {
	Messages    []message.Message
	Temperature float64
	MaxTokens   int
	Extra       map[string]any
}

// Provider generates a completion for a Request.
type Provider interface {
	// Name identifies the provider for logging and error classification.
	Name() string

	// Model returns the configured model identifier.
	Model() string

	Generate(ctx context.Context, req Request) (message.Response, error)
}
