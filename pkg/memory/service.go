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

package memory

import (
	"context"
	"fmt"
	"strings"
)

// Repository is the persistence contract the Service depends on. Store
// implements it against Postgres; tests use an in-memory fake.
type Repository interface {
	UpsertUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, userID int64) (*User, error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpsertProfile(ctx context.Context, p Profile) error
	UpsertFact(ctx context.Context, f Fact) error
	ListFacts(ctx context.Context, userID int64) ([]Fact, error)
	GetOrCreateSession(ctx context.Context, userID int64, sessionID string, metadata map[string]any) (*Session, error)
	GetActiveSession(ctx context.Context, userID int64) (*Session, error)
	AddMessage(ctx context.Context, m Message) (Message, error)
	RecentMessages(ctx context.Context, userID int64, limit int) ([]Message, error)
	RecordExtractionEvent(ctx context.Context, ev ExtractionEvent) error
}

// Service implements spec.md §4.6's read and write paths over a
// Repository.
type Service struct {
	repo              Repository
	defaultHistoryLimit int
}

// NewService constructs the memory service.
func NewService(repo Repository, defaultHistoryLimit int) *Service {
	if defaultHistoryLimit <= 0 {
		defaultHistoryLimit = 20
	}
	return &Service{repo: repo, defaultHistoryLimit: defaultHistoryLimit}
}

// GetMemoryContext assembles a Context for userID: looks up or synthesizes
// an empty user, fetches profile/facts/recent-messages/active-session, and
// derives the two Russian-localized summary views. Reads on a user that
// doesn't exist never fail; they synthesize an ephemeral empty user.
func (s *Service) GetMemoryContext(ctx context.Context, userID int64, includeHistory bool, historyLimit int) (Context, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return Context{}, fmt.Errorf("memory: get memory context: %w", err)
	}
	if user == nil {
		user = &User{TelegramID: userID, IsAllowed: true}
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return Context{}, fmt.Errorf("memory: get memory context: profile: %w", err)
	}

	facts, err := s.repo.ListFacts(ctx, userID)
	if err != nil {
		return Context{}, fmt.Errorf("memory: get memory context: facts: %w", err)
	}

	var recent []Message
	if includeHistory {
		limit := historyLimit
		if limit <= 0 {
			limit = s.defaultHistoryLimit
		}
		recent, err = s.repo.RecentMessages(ctx, userID, limit)
		if err != nil {
			return Context{}, fmt.Errorf("memory: get memory context: messages: %w", err)
		}
	}

	session, err := s.repo.GetActiveSession(ctx, userID)
	if err != nil {
		return Context{}, fmt.Errorf("memory: get memory context: session: %w", err)
	}

	mc := Context{
		User:           *user,
		Profile:        profile,
		Facts:          facts,
		RecentMessages: recent,
		ActiveSession:  session,
	}
	mc.ProfileSummary = buildProfileSummary(*user, profile, facts)
	mc.ConversationSummary = buildConversationSummary(recent, 10)
	return mc, nil
}

// AddMessage inserts a conversation row and increments the session's
// message count.
func (s *Service) AddMessage(ctx context.Context, userID int64, sessionID, role, content, agentType string, tokensUsed int, processingTimeMs int64) (Message, error) {
	m := Message{
		UserID:           userID,
		SessionID:        sessionID,
		Role:             role,
		Content:          content,
		AgentType:        agentType,
		TokensUsed:       tokensUsed,
		ProcessingTimeMs: processingTimeMs,
	}
	msg, err := s.repo.AddMessage(ctx, m)
	if err != nil {
		return Message{}, fmt.Errorf("memory: add message: %w", err)
	}
	return msg, nil
}

// GetOrCreateSession is idempotent: re-opens an existing session id or
// creates a new one.
func (s *Service) GetOrCreateSession(ctx context.Context, userID int64, sessionID string, metadata map[string]any) (*Session, error) {
	sess, err := s.repo.GetOrCreateSession(ctx, userID, sessionID, metadata)
	if err != nil {
		return nil, fmt.Errorf("memory: get or create session: %w", err)
	}
	return sess, nil
}

// UpsertUser creates or refreshes a user's identity fields.
func (s *Service) UpsertUser(ctx context.Context, u User) error {
	if err := s.repo.UpsertUser(ctx, u); err != nil {
		return fmt.Errorf("memory: upsert user: %w", err)
	}
	return nil
}

// buildProfileSummary renders profile + top facts as Russian-localized
// labeled lines, grounded on the original implementation's
// get_profile_summary.
func buildProfileSummary(user User, profile *Profile, facts []Fact) string {
	var parts []string

	if profile != nil {
		if profile.PreferredName != "" {
			parts = append(parts, "Имя: "+profile.PreferredName)
		} else if user.FirstName != "" {
			parts = append(parts, "Имя: "+user.FirstName)
		}
		if profile.Age > 0 {
			parts = append(parts, fmt.Sprintf("Возраст: %d", profile.Age))
		}
		if profile.Location != "" {
			parts = append(parts, "Местоположение: "+profile.Location)
		}
		if profile.Occupation != "" {
			parts = append(parts, "Род занятий: "+profile.Occupation)
		}
		if len(profile.Interests) > 0 {
			parts = append(parts, "Интересы: "+strings.Join(profile.Interests, ", "))
		}
		if len(profile.ExpertiseAreas) > 0 {
			parts = append(parts, "Экспертиза: "+strings.Join(profile.ExpertiseAreas, ", "))
		}
	}

	for i, f := range facts {
		if i >= 5 {
			break
		}
		parts = append(parts, f.FactKey+": "+f.FactValue)
	}

	if len(parts) == 0 {
		return "Информация о пользователе отсутствует."
	}
	return strings.Join(parts, "\n")
}

// buildConversationSummary renders the last maxMessages as Russian-
// localized "Роль: текст" lines, truncating each line's content to 200
// characters.
func buildConversationSummary(messages []Message, maxMessages int) string {
	if len(messages) == 0 {
		return "История беседы пуста."
	}

	start := 0
	if len(messages) > maxMessages {
		start = len(messages) - maxMessages
	}

	var lines []string
	for _, m := range messages[start:] {
		role := "Ассистент"
		if m.Role == "user" {
			role = "Пользователь"
		}
		content := m.Content
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		lines = append(lines, role+": "+content)
	}
	return strings.Join(lines, "\n")
}
