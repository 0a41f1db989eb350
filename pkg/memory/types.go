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

// Package memory implements the persistent user-profile/fact/conversation
// store and the read/write/extraction services built on top of it.
package memory

import "time"

// User is a registered chat participant.
type User struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	Language   string
	IsAllowed  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Profile holds the durable, slowly-changing attributes of a user. At most
// one profile exists per user.
type Profile struct {
	UserID             int64
	PreferredName      string
	Age                int
	Location           string
	Timezone           string
	Occupation         string
	Languages          []string
	Interests          []string
	ExpertiseAreas     []string
	CommunicationStyle string
	CustomAttributes   map[string]any
}

// Fact is one extracted piece of knowledge about a user. Uniqueness is
// (UserID, FactType, FactKey); an upsert replaces value/confidence/
// source/expiry in place.
type Fact struct {
	ID         string
	UserID     int64
	FactType   string
	FactKey    string
	FactValue  string
	Confidence float64
	Source     string
	ExpiresAt  *time.Time
	UpdatedAt  time.Time
}

// Message is one turn of conversation. Append-only: there is no update
// path, only inserts.
type Message struct {
	ID               string
	UserID           int64
	SessionID        string
	Role             string
	Content          string
	AgentType        string
	TokensUsed       int
	ProcessingTimeMs int64
	CreatedAt        time.Time
}

// Session groups messages. A user has at most one session with
// EndedAt == nil at any time (the "active session").
type Session struct {
	ID           string
	UserID       int64
	StartedAt    time.Time
	EndedAt      *time.Time
	MessageCount int
	Metadata     map[string]any
}

// ExtractionEvent records one extraction attempt for audit; it is not on
// the critical path of any read.
type ExtractionEvent struct {
	ID        string
	UserID    int64
	Message   string
	FactsFound int
	CreatedAt time.Time
}

// Context is the assembled snapshot handed to agents for one turn: the
// user, their profile (if any), recent facts, recent messages, and the
// active session, plus two derived human-readable views.
type Context struct {
	User              User
	Profile           *Profile
	Facts             []Fact
	RecentMessages    []Message
	ActiveSession     *Session
	ProfileSummary    string
	ConversationSummary string
}
