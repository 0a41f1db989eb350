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

	"github.com/kadirpekel/aide/pkg/llm"
	"github.com/kadirpekel/aide/pkg/message"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Name() string  { return "fake" }
func (f *fakeLLM) Model() string { return "fake-model" }
func (f *fakeLLM) Generate(ctx context.Context, req llm.Request) (message.Response, error) {
	return message.Response{Content: f.response}, f.err
}

func TestExtractAndStoreDisabled(t *testing.T) {
	svc := NewExtractionService(nil, NewFakeRepository(), false, 0.6)
	res, err := svc.ExtractAndStore(context.Background(), 1, "hi", nil)
	require.NoError(t, err)
	assert.False(t, res.Extracted)
	assert.Equal(t, "extraction_disabled", res.Reason)
}

func TestParseExtractionResponseStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"facts\":[],\"should_update_profile\":false,\"profile_updates\":{}}\n```"
	env, ok := parseExtractionResponse(raw)
	require.True(t, ok)
	assert.Empty(t, env.Facts)
	assert.False(t, env.ShouldUpdateProfile)
}

func TestParseExtractionResponseInvalidJSON(t *testing.T) {
	_, ok := parseExtractionResponse("not json")
	assert.False(t, ok)
}

func TestFormatHistoryEmpty(t *testing.T) {
	assert.Equal(t, "История пуста.", formatHistory(nil, 10))
}

func TestExtractAndStoreStoresHighConfidenceFacts(t *testing.T) {
	repo := NewFakeRepository()
	llmProvider := &fakeLLM{response: `{"facts":[{"fact_type":"personal","fact_key":"location","fact_value":"Berlin","confidence":0.9,"reasoning":"stated directly"},{"fact_type":"other","fact_key":"mood","fact_value":"happy","confidence":0.2,"reasoning":"low signal"}],"should_update_profile":true,"profile_updates":{"location":"Berlin"}}`}
	svc := NewExtractionService(llmProvider, repo, true, 0.6)

	res, err := svc.ExtractAndStore(context.Background(), 9, "Я живу в Берлине", nil)
	require.NoError(t, err)
	assert.True(t, res.Extracted)
	assert.Equal(t, 1, res.FactsCount)
	assert.True(t, res.ProfileUpdated)

	facts, err := repo.ListFacts(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "Berlin", facts[0].FactValue)
}
