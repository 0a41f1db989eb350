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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMemoryContextSynthesizesEmptyUser(t *testing.T) {
	repo := NewFakeRepository()
	svc := NewService(repo, 20)

	mc, err := svc.GetMemoryContext(context.Background(), 42, true, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(42), mc.User.TelegramID)
	assert.Equal(t, "Информация о пользователе отсутствует.", mc.ProfileSummary)
	assert.Equal(t, "История беседы пуста.", mc.ConversationSummary)
}

func TestGetMemoryContextBuildsProfileSummary(t *testing.T) {
	repo := NewFakeRepository()
	svc := NewService(repo, 20)

	require.NoError(t, repo.UpsertUser(context.Background(), User{TelegramID: 7, FirstName: "Alex"}))
	require.NoError(t, repo.UpsertProfile(context.Background(), Profile{
		UserID:    7,
		Location:  "Berlin",
		Interests: []string{"Go", "music"},
	}))
	require.NoError(t, repo.UpsertFact(context.Background(), Fact{UserID: 7, FactType: "personal", FactKey: "pet", FactValue: "cat", Confidence: 0.9}))

	mc, err := svc.GetMemoryContext(context.Background(), 7, false, 0)
	require.NoError(t, err)
	assert.Contains(t, mc.ProfileSummary, "Имя: Alex")
	assert.Contains(t, mc.ProfileSummary, "Местоположение: Berlin")
	assert.Contains(t, mc.ProfileSummary, "pet: cat")
}

func TestAddMessageIncrementsSessionCount(t *testing.T) {
	repo := NewFakeRepository()
	svc := NewService(repo, 20)

	sess, err := svc.GetOrCreateSession(context.Background(), 1, "sess-1", nil)
	require.NoError(t, err)
	require.Equal(t, "sess-1", sess.ID)

	_, err = svc.AddMessage(context.Background(), 1, "sess-1", "user", "hello", "", 0, 0)
	require.NoError(t, err)

	active, err := repo.GetActiveSession(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, 1, active.MessageCount)
}

func TestConversationSummaryTruncatesLongMessages(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	summary := buildConversationSummary([]Message{{Role: "user", Content: string(long)}}, 10)
	assert.True(t, len(summary) < 300)
	assert.Contains(t, summary, "...")
}
