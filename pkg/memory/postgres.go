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
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    telegram_id BIGINT PRIMARY KEY,
    username TEXT,
    first_name TEXT,
    last_name TEXT,
    language TEXT,
    is_allowed BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS user_profiles (
    user_id BIGINT PRIMARY KEY REFERENCES users(telegram_id),
    preferred_name TEXT,
    age INT,
    location TEXT,
    timezone TEXT,
    occupation TEXT,
    languages TEXT[] NOT NULL DEFAULT '{}',
    interests TEXT[] NOT NULL DEFAULT '{}',
    expertise_areas TEXT[] NOT NULL DEFAULT '{}',
    communication_style TEXT,
    custom_attributes JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS profile_facts (
    id UUID PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(telegram_id),
    fact_type TEXT NOT NULL,
    fact_key TEXT NOT NULL,
    fact_value TEXT NOT NULL,
    confidence DOUBLE PRECISION NOT NULL,
    source TEXT,
    expires_at TIMESTAMPTZ,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, fact_type, fact_key)
);

CREATE TABLE IF NOT EXISTS conversation_sessions (
    id TEXT PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(telegram_id),
    started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    ended_at TIMESTAMPTZ,
    message_count INT NOT NULL DEFAULT 0,
    metadata JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS conversation_messages (
    id UUID PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(telegram_id),
    session_id TEXT NOT NULL REFERENCES conversation_sessions(id),
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    agent_type TEXT,
    tokens_used INT,
    processing_time_ms BIGINT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS memory_extraction_events (
    id UUID PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(telegram_id),
    message TEXT NOT NULL,
    facts_found INT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store is the Postgres-backed repository for every memory table. It is
// safe for concurrent use: all state lives in the database, and the
// connection pool (sql.DB) handles its own synchronization.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres via dsn, applies the pool-size settings, and
// ensures the schema exists.
func Open(dsn string, minConns, maxConns int) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("memory: open: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(minConns)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("memory: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// UpsertUser creates or refreshes a user row.
func (s *Store) UpsertUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO users (telegram_id, username, first_name, last_name, language, is_allowed)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (telegram_id) DO UPDATE SET
    username = EXCLUDED.username,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    language = EXCLUDED.language,
    updated_at = now()`,
		u.TelegramID, u.Username, u.FirstName, u.LastName, u.Language, u.IsAllowed)
	if err != nil {
		return fmt.Errorf("memory: upsert user: %w", err)
	}
	return nil
}

// GetUser fetches a user, returning (nil, nil) when absent — reads never
// fail with not-found; callers synthesize an ephemeral empty user instead.
func (s *Store) GetUser(ctx context.Context, userID int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT telegram_id, username, first_name, last_name, language, is_allowed, created_at, updated_at
FROM users WHERE telegram_id = $1`, userID)

	var u User
	var username, firstName, lastName, language sql.NullString
	if err := row.Scan(&u.TelegramID, &username, &firstName, &lastName, &language, &u.IsAllowed, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("memory: get user: %w", err)
	}
	u.Username, u.FirstName, u.LastName, u.Language = username.String, firstName.String, lastName.String, language.String
	return &u, nil
}

// GetProfile fetches a user's profile, nil if none exists.
func (s *Store) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT user_id, preferred_name, age, location, timezone, occupation, languages, interests, expertise_areas, communication_style, custom_attributes
FROM user_profiles WHERE user_id = $1`, userID)

	var p Profile
	var preferredName, location, timezone, occupation, style sql.NullString
	var age sql.NullInt64
	var languages, interests, expertise []string
	var customRaw []byte
	if err := row.Scan(&p.UserID, &preferredName, &age, &location, &timezone, &occupation, pqStringArray(&languages), pqStringArray(&interests), pqStringArray(&expertise), &style, &customRaw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("memory: get profile: %w", err)
	}
	p.PreferredName, p.Location, p.Timezone, p.Occupation, p.CommunicationStyle = preferredName.String, location.String, timezone.String, occupation.String, style.String
	p.Age = int(age.Int64)
	p.Languages, p.Interests, p.ExpertiseAreas = languages, interests, expertise
	p.CustomAttributes = map[string]any{}
	if len(customRaw) > 0 {
		_ = json.Unmarshal(customRaw, &p.CustomAttributes)
	}
	return &p, nil
}

// UpsertProfile merges non-zero fields of p into the stored profile,
// creating it if absent. Existing fields are preserved when the new value
// is the type's zero value, per the extraction service's merge semantics.
func (s *Store) UpsertProfile(ctx context.Context, p Profile) error {
	attrs, err := json.Marshal(p.CustomAttributes)
	if err != nil {
		return fmt.Errorf("memory: marshal custom attributes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO user_profiles (user_id, preferred_name, age, location, timezone, occupation, languages, interests, expertise_areas, communication_style, custom_attributes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (user_id) DO UPDATE SET
    preferred_name = COALESCE(NULLIF(EXCLUDED.preferred_name, ''), user_profiles.preferred_name),
    age = CASE WHEN EXCLUDED.age = 0 THEN user_profiles.age ELSE EXCLUDED.age END,
    location = COALESCE(NULLIF(EXCLUDED.location, ''), user_profiles.location),
    timezone = COALESCE(NULLIF(EXCLUDED.timezone, ''), user_profiles.timezone),
    occupation = COALESCE(NULLIF(EXCLUDED.occupation, ''), user_profiles.occupation),
    languages = CASE WHEN array_length(EXCLUDED.languages, 1) IS NULL THEN user_profiles.languages ELSE EXCLUDED.languages END,
    interests = CASE WHEN array_length(EXCLUDED.interests, 1) IS NULL THEN user_profiles.interests ELSE EXCLUDED.interests END,
    expertise_areas = CASE WHEN array_length(EXCLUDED.expertise_areas, 1) IS NULL THEN user_profiles.expertise_areas ELSE EXCLUDED.expertise_areas END,
    communication_style = COALESCE(NULLIF(EXCLUDED.communication_style, ''), user_profiles.communication_style),
    custom_attributes = user_profiles.custom_attributes || EXCLUDED.custom_attributes`,
		p.UserID, p.PreferredName, p.Age, p.Location, p.Timezone, p.Occupation,
		pqArray(p.Languages), pqArray(p.Interests), pqArray(p.ExpertiseAreas), p.CommunicationStyle, attrs)
	if err != nil {
		return fmt.Errorf("memory: upsert profile: %w", err)
	}
	return nil
}

// UpsertFact replaces value/confidence/source/expiry for the
// (UserID, FactType, FactKey) key — a point-update, not a history row.
func (s *Store) UpsertFact(ctx context.Context, f Fact) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO profile_facts (id, user_id, fact_type, fact_key, fact_value, confidence, source, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id, fact_type, fact_key) DO UPDATE SET
    fact_value = EXCLUDED.fact_value,
    confidence = EXCLUDED.confidence,
    source = EXCLUDED.source,
    expires_at = EXCLUDED.expires_at,
    updated_at = now()`,
		f.ID, f.UserID, f.FactType, f.FactKey, f.FactValue, f.Confidence, f.Source, f.ExpiresAt)
	if err != nil {
		return fmt.Errorf("memory: upsert fact: %w", err)
	}
	return nil
}

// ListFacts returns a user's facts ordered by most-recently updated.
func (s *Store) ListFacts(ctx context.Context, userID int64) ([]Fact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, fact_type, fact_key, fact_value, confidence, source, expires_at, updated_at
FROM profile_facts WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("memory: list facts: %w", err)
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var f Fact
		var source sql.NullString
		var expires sql.NullTime
		if err := rows.Scan(&f.ID, &f.UserID, &f.FactType, &f.FactKey, &f.FactValue, &f.Confidence, &source, &expires, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("memory: scan fact: %w", err)
		}
		f.Source = source.String
		if expires.Valid {
			f.ExpiresAt = &expires.Time
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// GetOrCreateSession is idempotent: inserts a new session, or re-opens
// (ended_at := null) on conflict with an existing id.
func (s *Store) GetOrCreateSession(ctx context.Context, userID int64, sessionID string, metadata map[string]any) (*Session, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("memory: marshal session metadata: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
INSERT INTO conversation_sessions (id, user_id, metadata)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET ended_at = NULL
RETURNING id, user_id, started_at, ended_at, message_count, metadata`,
		sessionID, userID, raw)

	return scanSession(row)
}

// GetActiveSession returns the user's session with ended_at = null, if any.
func (s *Store) GetActiveSession(ctx context.Context, userID int64) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_id, started_at, ended_at, message_count, metadata
FROM conversation_sessions WHERE user_id = $1 AND ended_at IS NULL ORDER BY started_at DESC LIMIT 1`, userID)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return sess, err
}

func scanSession(row *sql.Row) (*Session, error) {
	var sess Session
	var ended sql.NullTime
	var raw []byte
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.StartedAt, &ended, &sess.MessageCount, &raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("memory: scan session: %w", err)
	}
	if ended.Valid {
		sess.EndedAt = &ended.Time
	}
	sess.Metadata = map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &sess.Metadata)
	}
	return &sess, nil
}

// AddMessage inserts an append-only conversation row and increments the
// owning session's message_count, in one transaction.
func (s *Store) AddMessage(ctx context.Context, m Message) (Message, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Message{}, fmt.Errorf("memory: add message: begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
INSERT INTO conversation_messages (id, user_id, session_id, role, content, agent_type, tokens_used, processing_time_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at`,
		m.ID, m.UserID, m.SessionID, m.Role, m.Content, nullString(m.AgentType), nullInt(m.TokensUsed), m.ProcessingTimeMs)
	if err := row.Scan(&m.CreatedAt); err != nil {
		return Message{}, fmt.Errorf("memory: insert message: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE conversation_sessions SET message_count = message_count + 1 WHERE id = $1`, m.SessionID); err != nil {
		return Message{}, fmt.Errorf("memory: increment session count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Message{}, fmt.Errorf("memory: add message: commit: %w", err)
	}
	return m, nil
}

// RecentMessages returns a user's last limit messages across all
// sessions, oldest first.
func (s *Store) RecentMessages(ctx context.Context, userID int64, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, session_id, role, content, agent_type, tokens_used, processing_time_ms, created_at
FROM conversation_messages WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("memory: recent messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		var agentType sql.NullString
		var tokens sql.NullInt64
		if err := rows.Scan(&m.ID, &m.UserID, &m.SessionID, &m.Role, &m.Content, &agentType, &tokens, &m.ProcessingTimeMs, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("memory: scan message: %w", err)
		}
		m.AgentType, m.TokensUsed = agentType.String, int(tokens.Int64)
		messages = append(messages, m)
	}
	// reverse to oldest-first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, rows.Err()
}

// RecordExtractionEvent logs one extraction attempt for audit purposes.
func (s *Store) RecordExtractionEvent(ctx context.Context, ev ExtractionEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO memory_extraction_events (id, user_id, message, facts_found) VALUES ($1, $2, $3, $4)`,
		ev.ID, ev.UserID, ev.Message, ev.FactsFound)
	if err != nil {
		return fmt.Errorf("memory: record extraction event: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

// pqArray renders a Go string slice as a Postgres array literal.
func pqArray(values []string) string {
	if len(values) == 0 {
		return "{}"
	}
	out := "{"
	for i, v := range values {
		if i > 0 {
			out += ","
		}
		out += `"` + v + `"`
	}
	return out + "}"
}

// pqStringArray scans a Postgres TEXT[] column into a Go []string via the
// lib/pq array adapter.
func pqStringArray(dest *[]string) *stringArrayScanner {
	return &stringArrayScanner{dest: dest}
}

type stringArrayScanner struct{ dest *[]string }

func (s *stringArrayScanner) Scan(src any) error {
	if src == nil {
		*s.dest = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		*s.dest = parsePQArrayLiteral(string(v))
	case string:
		*s.dest = parsePQArrayLiteral(v)
	default:
		return fmt.Errorf("memory: unsupported array scan source %T", src)
	}
	return nil
}

func parsePQArrayLiteral(s string) []string {
	s = trimBraces(s)
	if s == "" {
		return nil
	}
	var out []string
	var cur []byte
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			out = append(out, string(cur))
			cur = nil
		default:
			cur = append(cur, c)
		}
	}
	out = append(out, string(cur))
	return out
}

func trimBraces(s string) string {
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		return s[1 : len(s)-1]
	}
	return s
}
