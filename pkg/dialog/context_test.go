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

package dialog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/aide/pkg/message"
)

func TestUserInfoDisplayName(t *testing.T) {
	assert.Equal(t, "@alex", UserInfo{Username: "alex", FirstName: "Alex"}.DisplayName())
	assert.Equal(t, "Alex", UserInfo{FirstName: "Alex"}.DisplayName())
}

func TestContextAddMessageCapsHistory(t *testing.T) {
	c := newContext("sess-1", UserInfo{UserID: 1}, 3)
	for i := 0; i < 5; i++ {
		c.AddUserMessage("msg")
	}
	assert.Len(t, c.History(), 3)
	assert.Equal(t, 5, c.State().MessageCount)
}

func TestContextHistoryOrder(t *testing.T) {
	c := newContext("sess-1", UserInfo{UserID: 1}, 10)
	c.AddUserMessage("one")
	c.AddAssistantMessage("two")
	hist := c.History()
	require.Len(t, hist, 2)
	assert.Equal(t, message.RoleUser, hist[0].Role)
	assert.Equal(t, message.RoleAssistant, hist[1].Role)
}

func TestContextManagerGetOrCreateReusesContext(t *testing.T) {
	m := NewContextManager(10, 20, time.Hour)
	c1 := m.GetOrCreate(1, "sess-1", UserInfo{UserID: 1})
	c2 := m.GetOrCreate(1, "sess-2", UserInfo{UserID: 1})
	assert.Same(t, c1, c2)
	assert.Equal(t, 1, m.Count())
}

func TestContextManagerEvictsLeastRecentlyTouched(t *testing.T) {
	m := NewContextManager(2, 20, time.Hour)
	c1 := m.GetOrCreate(1, "s1", UserInfo{UserID: 1})
	time.Sleep(time.Millisecond)
	m.GetOrCreate(2, "s2", UserInfo{UserID: 2})
	time.Sleep(time.Millisecond)
	c1.AddUserMessage("keep me fresh")
	time.Sleep(time.Millisecond)
	m.GetOrCreate(3, "s3", UserInfo{UserID: 3})

	assert.Equal(t, 2, m.Count())
	_, ok := m.Get(1)
	assert.True(t, ok, "recently touched context should survive eviction")
	_, ok = m.Get(2)
	assert.False(t, ok, "stale context should be evicted")
}

func TestContextManagerRemoveAndClearAll(t *testing.T) {
	m := NewContextManager(10, 20, time.Hour)
	m.GetOrCreate(1, "s1", UserInfo{UserID: 1})
	m.GetOrCreate(2, "s2", UserInfo{UserID: 2})
	m.Remove(1)
	assert.Equal(t, 1, m.Count())
	m.ClearAll()
	assert.Equal(t, 0, m.Count())
}
