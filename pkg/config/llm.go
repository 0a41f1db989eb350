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

package config

import "time"

// LLMProvider identifies the LLM backend.
type LLMProvider string

const (
	LLMProviderAnthropic LLMProvider = "anthropic"
	LLMProviderOpenAI    LLMProvider = "openai"
)

// LLMConfig configures the LLM provider used by every agent.
type LLMConfig struct {
	Provider    LLMProvider   `yaml:"provider" jsonschema:"title=Provider,enum=anthropic,enum=openai,default=anthropic"`
	APIKey      string        `yaml:"api_key" jsonschema:"title=API Key,description=Supports ${ENV_VAR} expansion"`
	Model       string        `yaml:"model" jsonschema:"title=Model"`
	BaseURL     string        `yaml:"base_url,omitempty" jsonschema:"title=Base URL"`
	Temperature float64       `yaml:"temperature" jsonschema:"title=Temperature,minimum=0,maximum=2,default=0.7"`
	MaxTokens   int           `yaml:"max_tokens" jsonschema:"title=Max Tokens,default=4096"`
	Timeout     time.Duration `yaml:"timeout" jsonschema:"title=Timeout,default=120s"`
}

// SetDefaults fills unset fields with the module's defaults.
func (c *LLMConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = LLMProviderAnthropic
	}
	if c.Model == "" {
		switch c.Provider {
		case LLMProviderOpenAI:
			c.Model = "gpt-4o"
		default:
			c.Model = "claude-sonnet-4-20250514"
		}
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
}

// WebSearchConfig configures the MCP-backed search provider.
type WebSearchConfig struct {
	Enabled    bool          `yaml:"enabled"`
	APIKey     string        `yaml:"api_key,omitempty"`
	Endpoint   string        `yaml:"endpoint,omitempty"`
	MaxResults int           `yaml:"max_results" jsonschema:"minimum=1,maximum=50,default=5"`
	Timeout    time.Duration `yaml:"timeout" jsonschema:"default=30s"`
}

// SetDefaults fills unset fields with the module's defaults.
func (c *WebSearchConfig) SetDefaults() {
	if c.MaxResults <= 0 {
		c.MaxResults = 5
	}
	if c.MaxResults > 50 {
		c.MaxResults = 50
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}
