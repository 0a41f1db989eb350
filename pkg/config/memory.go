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

import "strconv"

// MemoryConfig configures short-term (in-memory dialog context) and
// long-term (persisted profile/fact extraction) memory behavior.
type MemoryConfig struct {
	ShortTermMaxMessages          int     `yaml:"short_term_max_messages" jsonschema:"default=20"`
	ShortTermSessionTimeoutS      int     `yaml:"short_term_session_timeout_s" jsonschema:"default=1800"`
	LongTermEnabled               bool    `yaml:"long_term_enabled"`
	LongTermExtractionEnabled     bool    `yaml:"long_term_extraction_enabled"`
	LongTermConfidenceThreshold   float64 `yaml:"long_term_confidence_threshold" jsonschema:"minimum=0,maximum=1,default=0.6"`
	CleanupDays                   int     `yaml:"cleanup_days" jsonschema:"default=90"`
}

// SetDefaults fills unset fields with the module's defaults.
func (c *MemoryConfig) SetDefaults() {
	if c.ShortTermMaxMessages <= 0 {
		c.ShortTermMaxMessages = 20
	}
	if c.ShortTermSessionTimeoutS <= 0 {
		c.ShortTermSessionTimeoutS = 1800
	}
	if c.LongTermConfidenceThreshold == 0 {
		c.LongTermConfidenceThreshold = 0.6
	}
	if c.CleanupDays <= 0 {
		c.CleanupDays = 90
	}
}

// AuthConfig configures access control: the admin allowlist and optional
// admin HTTP surface.
type AuthConfig struct {
	Enabled      bool    `yaml:"enabled"`
	AdminIDs     []int64 `yaml:"admin_ids,omitempty"`
	AdminPort    int     `yaml:"admin_port" jsonschema:"default=8081"`
	AdminEnabled bool    `yaml:"admin_enabled"`
}

// SetDefaults fills unset fields with the module's defaults.
func (c *AuthConfig) SetDefaults() {
	if c.AdminPort == 0 {
		c.AdminPort = 8081
	}
}

// DatabaseConfig configures the Postgres connection pool backing
// persistent memory.
type DatabaseConfig struct {
	Host                string `yaml:"host" jsonschema:"default=localhost"`
	Port                int    `yaml:"port" jsonschema:"default=5432"`
	User                string `yaml:"user"`
	Password            string `yaml:"password"`
	Name                string `yaml:"name"`
	MinPoolSize         int    `yaml:"min_pool_size" jsonschema:"default=2"`
	MaxPoolSize         int    `yaml:"max_pool_size" jsonschema:"default=10"`
	ConnectionTimeoutS  int    `yaml:"connection_timeout_s" jsonschema:"default=5"`
}

// SetDefaults fills unset fields with the module's defaults.
func (c *DatabaseConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.MinPoolSize <= 0 {
		c.MinPoolSize = 2
	}
	if c.MaxPoolSize <= 0 {
		c.MaxPoolSize = 10
	}
	if c.ConnectionTimeoutS <= 0 {
		c.ConnectionTimeoutS = 5
	}
}

// DSN renders a lib/pq connection string from the configured fields.
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" sslmode=disable"
}

// StyleConfig selects the response-style system-prompt template.
type StyleConfig struct {
	Tag string `yaml:"tag" jsonschema:"default=default"`
}

// SetDefaults fills unset fields with the module's defaults.
func (c *StyleConfig) SetDefaults() {
	if c.Tag == "" {
		c.Tag = "default"
	}
}
