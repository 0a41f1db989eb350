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

// Package dialog holds per-user in-memory turn state: the bounded message
// history and session bookkeeping the dialog manager reads before each
// turn and appends to after it. It is a cache in front of the memory
// service's durable store, not a replacement for it.
package dialog

import (
	"sort"
	"sync"
	"time"

	"github.com/kadirpekel/aide/pkg/agent"
	"github.com/kadirpekel/aide/pkg/message"
)

// UserInfo is the identity the transport layer hands in with every
// incoming update.
type UserInfo struct {
	UserID       int64
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
}

// FullName joins first and last name, falling back to the username or the
// numeric id when neither is set.
func (u UserInfo) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	default:
		return ""
	}
}

// DisplayName prefers the @username form, falling back to FullName.
func (u UserInfo) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.FullName()
}

// State is the mutable bookkeeping a Context carries alongside its
// message history.
type State struct {
	SessionID     string
	User          UserInfo
	CreatedAt     time.Time
	UpdatedAt     time.Time
	MessageCount  int
	CurrentAgent  agent.Type
	Metadata      map[string]any
}

func (s *State) touch() {
	s.UpdatedAt = time.Now()
}

// Context holds one user's bounded turn history plus the session State.
// Safe for concurrent use.
type Context struct {
	mu         sync.RWMutex
	state      State
	history    []message.Message
	maxHistory int
}

func newContext(sessionID string, user UserInfo, maxHistory int) *Context {
	now := time.Now()
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &Context{
		state: State{
			SessionID: sessionID,
			User:      user,
			CreatedAt: now,
			UpdatedAt: now,
			Metadata:  map[string]any{},
		},
		maxHistory: maxHistory,
	}
}

// AddMessage appends to the bounded history, dropping the oldest entry
// once maxHistory is exceeded, and bumps the message count and touch time.
func (c *Context) AddMessage(m message.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, m)
	if len(c.history) > c.maxHistory {
		c.history = c.history[len(c.history)-c.maxHistory:]
	}
	c.state.MessageCount++
	c.state.touch()
}

// AddUserMessage is a convenience wrapper over AddMessage for user turns.
func (c *Context) AddUserMessage(content string) {
	c.AddMessage(message.New(message.RoleUser, content))
}

// AddAssistantMessage is a convenience wrapper over AddMessage for
// assistant turns.
func (c *Context) AddAssistantMessage(content string) {
	c.AddMessage(message.New(message.RoleAssistant, content))
}

// ClearHistory drops the in-memory message history without touching the
// session's identity or metadata.
func (c *Context) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}

// SetCurrentAgent records which agent most recently handled this user.
func (c *Context) SetCurrentAgent(t agent.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CurrentAgent = t
	c.state.touch()
}

// SetMetadata stores an arbitrary key under the session's metadata bag.
func (c *Context) SetMetadata(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Metadata[key] = value
}

// GetMetadata reads a key previously stored with SetMetadata.
func (c *Context) GetMetadata(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.state.Metadata[key]
	return v, ok
}

// History returns a copy of the bounded message history, oldest first.
func (c *Context) History() []message.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]message.Message, len(c.history))
	copy(out, c.history)
	return out
}

// State returns a copy of the session's current bookkeeping.
func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Context) updatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.UpdatedAt
}

// ContextManager owns one Context per user, evicting the least recently
// touched once maxContexts is exceeded. A background goroutine is not
// required: eviction happens inline, on the write path, as in the
// reference implementation this is ported from.
type ContextManager struct {
	mu            sync.Mutex
	contexts      map[int64]*Context
	maxContexts   int
	contextTTL    time.Duration
	historySize   int
}

// NewContextManager constructs a manager that keeps at most maxContexts
// live contexts, each holding at most historySize messages, and expires a
// context contextTTL after its last touch.
func NewContextManager(maxContexts, historySize int, contextTTL time.Duration) *ContextManager {
	if maxContexts <= 0 {
		maxContexts = 1000
	}
	if contextTTL <= 0 {
		contextTTL = time.Hour
	}
	return &ContextManager{
		contexts:    map[int64]*Context{},
		maxContexts: maxContexts,
		contextTTL:  contextTTL,
		historySize: historySize,
	}
}

// GetOrCreate returns the existing context for userID, or creates one
// seeded with user and sessionID.
func (m *ContextManager) GetOrCreate(userID int64, sessionID string, user UserInfo) *Context {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.contexts[userID]; ok {
		return c
	}
	c := newContext(sessionID, user, m.historySize)
	m.contexts[userID] = c
	m.evictIfNeeded()
	return c
}

// Get returns userID's context if one exists.
func (m *ContextManager) Get(userID int64) (*Context, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contexts[userID]
	return c, ok
}

// Remove drops userID's context.
func (m *ContextManager) Remove(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.contexts, userID)
}

// ClearAll drops every tracked context.
func (m *ContextManager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contexts = map[int64]*Context{}
}

// Count returns the number of tracked contexts.
func (m *ContextManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.contexts)
}

// evictIfNeeded drops expired contexts, then, if still over maxContexts,
// evicts the least recently touched ones until back under the limit.
// Caller must hold m.mu.
func (m *ContextManager) evictIfNeeded() {
	now := time.Now()
	for id, c := range m.contexts {
		if now.Sub(c.updatedAt()) > m.contextTTL {
			delete(m.contexts, id)
		}
	}
	if len(m.contexts) <= m.maxContexts {
		return
	}

	type entry struct {
		id        int64
		updatedAt time.Time
	}
	entries := make([]entry, 0, len(m.contexts))
	for id, c := range m.contexts {
		entries = append(entries, entry{id: id, updatedAt: c.updatedAt()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].updatedAt.After(entries[j].updatedAt) })

	for _, e := range entries[m.maxContexts:] {
		delete(m.contexts, e.id)
	}
}
