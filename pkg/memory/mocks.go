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
	"sync"

	"github.com/google/uuid"
)

// FakeRepository is an in-memory Repository for tests; no network or
// database required.
type FakeRepository struct {
	mu       sync.Mutex
	users    map[int64]User
	profiles map[int64]Profile
	facts    map[int64]map[string]Fact // userID -> "type|key" -> fact
	sessions map[string]Session
	messages []Message
	events   []ExtractionEvent
}

// NewFakeRepository constructs an empty FakeRepository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		users:    map[int64]User{},
		profiles: map[int64]Profile{},
		facts:    map[int64]map[string]Fact{},
		sessions: map[string]Session{},
	}
}

func (r *FakeRepository) UpsertUser(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.TelegramID] = u
	return nil
}

func (r *FakeRepository) GetUser(_ context.Context, userID int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *FakeRepository) GetProfile(_ context.Context, userID int64) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *FakeRepository) UpsertProfile(_ context.Context, p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.profiles[p.UserID]
	if !ok {
		r.profiles[p.UserID] = p
		return nil
	}
	if p.PreferredName != "" {
		existing.PreferredName = p.PreferredName
	}
	if p.Age != 0 {
		existing.Age = p.Age
	}
	if p.Location != "" {
		existing.Location = p.Location
	}
	if p.Occupation != "" {
		existing.Occupation = p.Occupation
	}
	if len(p.Interests) > 0 {
		existing.Interests = p.Interests
	}
	if len(p.ExpertiseAreas) > 0 {
		existing.ExpertiseAreas = p.ExpertiseAreas
	}
	r.profiles[p.UserID] = existing
	return nil
}

func (r *FakeRepository) UpsertFact(_ context.Context, f Fact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	key := f.FactType + "|" + f.FactKey
	if r.facts[f.UserID] == nil {
		r.facts[f.UserID] = map[string]Fact{}
	}
	r.facts[f.UserID][key] = f
	return nil
}

func (r *FakeRepository) ListFacts(_ context.Context, userID int64) ([]Fact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Fact
	for _, f := range r.facts[userID] {
		out = append(out, f)
	}
	return out, nil
}

func (r *FakeRepository) GetOrCreateSession(_ context.Context, userID int64, sessionID string, metadata map[string]any) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[sessionID]; ok {
		sess.EndedAt = nil
		r.sessions[sessionID] = sess
		return &sess, nil
	}
	sess := Session{ID: sessionID, UserID: userID, Metadata: metadata}
	r.sessions[sessionID] = sess
	return &sess, nil
}

func (r *FakeRepository) GetActiveSession(_ context.Context, userID int64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sess := range r.sessions {
		if sess.UserID == userID && sess.EndedAt == nil {
			s := sess
			return &s, nil
		}
	}
	return nil, nil
}

func (r *FakeRepository) AddMessage(_ context.Context, m Message) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	r.messages = append(r.messages, m)
	if sess, ok := r.sessions[m.SessionID]; ok {
		sess.MessageCount++
		r.sessions[m.SessionID] = sess
	}
	return m, nil
}

func (r *FakeRepository) RecentMessages(_ context.Context, userID int64, limit int) ([]Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Message
	for _, m := range r.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *FakeRepository) RecordExtractionEvent(_ context.Context, ev ExtractionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}
