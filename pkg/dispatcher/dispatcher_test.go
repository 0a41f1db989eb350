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

package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/aide/pkg/agent"
	"github.com/kadirpekel/aide/pkg/llm"
	"github.com/kadirpekel/aide/pkg/message"
	"github.com/kadirpekel/aide/pkg/registry"
)

// fakeProvider answers Generate with a fixed response or error, recording
// the last request it received.
type fakeProvider struct {
	content string
	err     error
	lastReq llm.Request
}

func (p *fakeProvider) Name() string  { return "fake" }
func (p *fakeProvider) Model() string { return "fake-model" }
func (p *fakeProvider) Generate(ctx context.Context, req llm.Request) (message.Response, error) {
	p.lastReq = req
	if p.err != nil {
		return message.Response{}, p.err
	}
	return message.Response{Content: p.content}, nil
}

type noopAgent struct{ typ agent.Type }

func (a noopAgent) Type() agent.Type     { return a.typ }
func (a noopAgent) SystemPrompt() string { return "" }
func (a noopAgent) CanHandle(ctx context.Context, msg string, agentCtx agent.Context) float64 {
	return 0
}
func (a noopAgent) Process(ctx context.Context, msg string, agentCtx agent.Context, history []message.Message) (agent.Result, error) {
	return agent.Result{}, nil
}

func newAgentRegistry(types ...agent.Type) *registry.BaseRegistry[agent.Agent] {
	r := registry.NewBaseRegistry[agent.Agent]()
	for _, t := range types {
		if err := r.Register(string(t), noopAgent{typ: t}); err != nil {
			panic(err)
		}
	}
	return r
}

func TestCreatePlan_ParsesLLMPlan(t *testing.T) {
	provider := &fakeProvider{content: `Вот план:
{
	"steps": [
		{"agent": "web_search", "description": "найти информацию"},
		{"agent": "default", "description": "сформировать ответ"}
	],
	"reasoning": "нужен поиск"
}`}
	agents := newAgentRegistry(agent.TypeDefault, agent.TypeWebSearch)
	d := New(provider, agents)

	plan := d.CreatePlan(context.Background(), "какая погода в Москве?", agent.Context{})

	require.Len(t, plan.Steps, 2)
	assert.Equal(t, agent.TypeWebSearch, plan.Steps[0].AgentType)
	assert.Equal(t, agent.TypeDefault, plan.Steps[1].AgentType)
	assert.Equal(t, -1, plan.Steps[0].DependsOn)
	assert.Equal(t, 0, plan.Steps[1].DependsOn, "a step with no explicit depends_on chains off the one before it")
	assert.Equal(t, "нужен поиск", plan.Reasoning)
}

func TestCreatePlan_LLMErrorFallsBackToDefault(t *testing.T) {
	provider := &fakeProvider{err: errors.New("provider unreachable")}
	agents := newAgentRegistry(agent.TypeDefault)
	d := New(provider, agents)

	plan := d.CreatePlan(context.Background(), "привет", agent.Context{})

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, agent.TypeDefault, plan.Steps[0].AgentType)
	assert.Contains(t, plan.Reasoning, "Ошибка планирования")
}

func TestCreatePlan_FiltersMissingAgentsAlreadyAvailable(t *testing.T) {
	provider := &fakeProvider{content: `{
		"steps": [{"agent": "default", "description": "ответить"}],
		"reasoning": "тест",
		"missing_agents": ["web_search"],
		"missing_agents_reason": {"web_search": "для поиска"}
	}`}
	agents := newAgentRegistry(agent.TypeDefault, agent.TypeWebSearch)
	d := New(provider, agents)

	plan := d.CreatePlan(context.Background(), "вопрос", agent.Context{})

	assert.False(t, plan.HasMissingAgents(), "web_search is already registered, so it must be filtered out of MissingAgents")
	assert.Empty(t, plan.MissingAgentsReason)
}

func TestCreatePlan_KeepsMissingAgentsNotRegistered(t *testing.T) {
	provider := &fakeProvider{content: `{
		"steps": [{"agent": "default", "description": "ответить"}],
		"reasoning": "тест",
		"missing_agents": ["news"],
		"missing_agents_reason": {"news": "для агрегации новостей"}
	}`}
	agents := newAgentRegistry(agent.TypeDefault)
	d := New(provider, agents)

	plan := d.CreatePlan(context.Background(), "вопрос", agent.Context{})

	require.True(t, plan.HasMissingAgents())
	assert.Equal(t, []agent.Type{agent.TypeNews}, plan.MissingAgents)
	assert.Equal(t, "для агрегации новостей", plan.MissingAgentsReason[agent.TypeNews])
}

func TestCreatePlan_IncludesProfileSummaryInUserMessage(t *testing.T) {
	provider := &fakeProvider{content: `{"steps": [{"agent": "default", "description": "x"}], "reasoning": "y"}`}
	d := New(provider, newAgentRegistry(agent.TypeDefault))

	d.CreatePlan(context.Background(), "вопрос", agent.Context{ProfileSummary: "любит Go"})

	require.Len(t, provider.lastReq.Messages, 2)
	assert.Contains(t, provider.lastReq.Messages[1].Content, "любит Go")
}

func TestCreatePlan_OmitsEmptyProfileSummarySentinel(t *testing.T) {
	provider := &fakeProvider{content: `{"steps": [{"agent": "default", "description": "x"}], "reasoning": "y"}`}
	d := New(provider, newAgentRegistry(agent.TypeDefault))

	d.CreatePlan(context.Background(), "вопрос", agent.Context{ProfileSummary: "Информация о пользователе отсутствует."})

	assert.NotContains(t, provider.lastReq.Messages[1].Content, "Контекст о пользователе")
}

func TestAvailableAgents_PrependsDefaultWhenAbsent(t *testing.T) {
	d := New(&fakeProvider{}, newAgentRegistry(agent.TypeWebSearch))
	available := d.availableAgents()

	require.NotEmpty(t, available)
	assert.Equal(t, agent.TypeDefault, available[0])
	assert.Contains(t, available, agent.TypeWebSearch)
}

func TestAvailableAgents_ExcludesDispatcherItself(t *testing.T) {
	agents := newAgentRegistry(agent.TypeDefault)
	require.NoError(t, agents.Register(string(agent.TypeDispatcher), noopAgent{typ: agent.TypeDispatcher}))
	d := New(&fakeProvider{}, agents)

	assert.NotContains(t, d.availableAgents(), agent.TypeDispatcher)
}

func TestAvailableAgents_NilRegistryFallsBackToDefaults(t *testing.T) {
	d := New(&fakeProvider{}, nil)
	assert.Equal(t, []agent.Type{agent.TypeDefault, agent.TypeWebSearch}, d.availableAgents())
}

func TestMapAgentType_ResolvesAliasesCaseInsensitively(t *testing.T) {
	assert.Equal(t, agent.TypeWebSearch, mapAgentType("Search"))
	assert.Equal(t, agent.TypeWebSearch, mapAgentType(" websearch "))
	assert.Equal(t, agent.TypeKnowledgeBase, mapAgentType("kb"))
	assert.Equal(t, agent.TypeFactCheck, mapAgentType("fact-check"))
}

func TestMapAgentType_UnknownCollapsesToDefault(t *testing.T) {
	assert.Equal(t, agent.TypeDefault, mapAgentType("something_unheard_of"))
}

func TestProcess_ReturnsHandoffToFirstPlanStep(t *testing.T) {
	provider := &fakeProvider{content: `{"steps": [{"agent": "web_search", "description": "x"}], "reasoning": "y"}`}
	d := New(provider, newAgentRegistry(agent.TypeDefault, agent.TypeWebSearch))

	result, err := d.Process(context.Background(), "вопрос", agent.Context{}, nil)

	require.NoError(t, err)
	assert.True(t, result.ShouldHandoff)
	assert.Equal(t, agent.TypeWebSearch, result.HandoffAgent)
	assert.Equal(t, agent.TypeDispatcher, result.AgentType)
}

func TestWordPreview_TruncatesLongMessages(t *testing.T) {
	assert.Equal(t, "один два три", wordPreview("один два три четыре пять", 3))
	assert.Equal(t, "один два", wordPreview("один два", 3))
}
