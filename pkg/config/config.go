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

// Package config provides the typed configuration tree for the assistant:
// LLM, web-search, memory, auth, database, and style settings, loaded from
// YAML with environment-variable overlay.
package config

import "fmt"

// Config is the root configuration tree.
type Config struct {
	LLM           LLMConfig           `yaml:"llm"`
	WebSearch     WebSearchConfig     `yaml:"web_search"`
	Memory        MemoryConfig        `yaml:"memory"`
	Auth          AuthConfig          `yaml:"auth"`
	Database      DatabaseConfig      `yaml:"database"`
	Style         StyleConfig         `yaml:"style"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ObservabilityConfig controls the Prometheus metrics endpoint and the
// OpenTelemetry tracer.
type ObservabilityConfig struct {
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsAddr    string `yaml:"metrics_addr"`

	TracingEnabled bool    `yaml:"tracing_enabled"`
	ServiceName    string  `yaml:"service_name"`
	OTLPEndpoint   string  `yaml:"otlp_endpoint"`
	SamplingRate   float64 `yaml:"sampling_rate"`
}

// SetDefaults fills zero-valued fields, including an addr for the metrics
// listener (inert until MetricsEnabled is set) and a service name/sampling
// rate for the tracer (inert until TracingEnabled is set).
func (c *ObservabilityConfig) SetDefaults() {
	if c.MetricsAddr == "" {
		c.MetricsAddr = ":9090"
	}
	if c.ServiceName == "" {
		c.ServiceName = "aide"
	}
	if c.OTLPEndpoint == "" {
		c.OTLPEndpoint = "localhost:4317"
	}
	if c.SamplingRate == 0 {
		c.SamplingRate = 1.0
	}
}

// SetDefaults fills zero-valued fields across the whole tree, following the
// teacher's per-struct SetDefaults convention.
func (c *Config) SetDefaults() {
	c.LLM.SetDefaults()
	c.WebSearch.SetDefaults()
	c.Memory.SetDefaults()
	c.Auth.SetDefaults()
	c.Database.SetDefaults()
	c.Style.SetDefaults()
	c.Observability.SetDefaults()
}

// Validate reports the first configuration error found, if any.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("config: llm.api_key is required")
	}
	if c.WebSearch.Enabled && c.WebSearch.Endpoint == "" {
		return fmt.Errorf("config: web_search.endpoint is required when web_search.enabled is true")
	}
	if c.Memory.LongTermConfidenceThreshold < 0 || c.Memory.LongTermConfidenceThreshold > 1 {
		return fmt.Errorf("config: memory.long_term_confidence_threshold must be in [0,1]")
	}
	return nil
}
