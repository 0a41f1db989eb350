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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/aide/pkg/agent"
	"github.com/kadirpekel/aide/pkg/dispatcher"
	"github.com/kadirpekel/aide/pkg/llm"
	"github.com/kadirpekel/aide/pkg/memory"
	"github.com/kadirpekel/aide/pkg/message"
	"github.com/kadirpekel/aide/pkg/orchestrator"
	"github.com/kadirpekel/aide/pkg/registry"
)

type fakeAgent struct {
	agentType agent.Type
	score     float64
	response  string
	err       error
}

func (f *fakeAgent) Type() agent.Type        { return f.agentType }
func (f *fakeAgent) SystemPrompt() string    { return "" }
func (f *fakeAgent) CanHandle(_ context.Context, _ string, _ agent.Context) float64 {
	return f.score
}
func (f *fakeAgent) Process(_ context.Context, _ string, _ agent.Context, _ []message.Message) (agent.Result, error) {
	if f.err != nil {
		return agent.Result{}, f.err
	}
	return agent.Result{Response: f.response, AgentType: f.agentType, Confidence: f.score}, nil
}

func newTestRegistry(agents ...agent.Agent) registry.Registry[agent.Agent] {
	reg := registry.NewBaseRegistry[agent.Agent]()
	for _, a := range agents {
		_ = reg.Register(string(a.Type()), a)
	}
	return reg
}

func TestManagerProcessSelectsBestScoringAgent(t *testing.T) {
	reg := newTestRegistry(
		&fakeAgent{agentType: agent.TypeDefault, score: 0.1, response: "default reply"},
		&fakeAgent{agentType: agent.TypeWebSearch, score: 0.9, response: "search reply"},
	)
	repo := memory.NewFakeRepository()
	mgr := NewManager(Config{
		Memory:      memory.NewService(repo, 20),
		Agents:      reg,
		MaxContexts: 10,
		HistorySize: 20,
	})

	turn, err := mgr.Process(context.Background(), UserInfo{UserID: 1, FirstName: "Alex"}, "найди новости")
	require.NoError(t, err)
	assert.Equal(t, "search reply", turn.Response)
	assert.Equal(t, agent.TypeWebSearch, turn.AgentType)
}

func TestManagerProcessFallsBackToDefaultWhenNoAgentScores(t *testing.T) {
	reg := newTestRegistry(&fakeAgent{agentType: agent.TypeDefault, score: 0, response: "hi"})
	mgr := NewManager(Config{Agents: reg, MaxContexts: 10, HistorySize: 20})

	turn, err := mgr.Process(context.Background(), UserInfo{UserID: 2}, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", turn.Response)
}

func TestManagerProcessPersistsMessagesToMemory(t *testing.T) {
	reg := newTestRegistry(&fakeAgent{agentType: agent.TypeDefault, score: 1, response: "ответ"})
	repo := memory.NewFakeRepository()
	mgr := NewManager(Config{
		Memory:      memory.NewService(repo, 20),
		Agents:      reg,
		MaxContexts: 10,
		HistorySize: 20,
	})

	turn, err := mgr.Process(context.Background(), UserInfo{UserID: 3}, "привет")
	require.NoError(t, err)

	msgs, err := repo.RecentMessages(context.Background(), 3, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "привет", msgs[0].Content)
	assert.Equal(t, turn.Response, msgs[1].Content)
}

func TestManagerProcessDegradesOnAgentError(t *testing.T) {
	reg := newTestRegistry(&fakeAgent{agentType: agent.TypeDefault, score: 1, err: assertErr{}})
	mgr := NewManager(Config{Agents: reg, MaxContexts: 10, HistorySize: 20})

	turn, err := mgr.Process(context.Background(), UserInfo{UserID: 4}, "привет")
	require.NoError(t, err)
	assert.Equal(t, "Извините, не получилось обработать запрос.", turn.Response)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

// fakeLLMProvider answers Generate with a fixed JSON plan, letting the
// dispatcher route a turn without a real LLM call.
type fakeLLMProvider struct{ content string }

func (p *fakeLLMProvider) Name() string  { return "fake" }
func (p *fakeLLMProvider) Model() string { return "fake-model" }
func (p *fakeLLMProvider) Generate(_ context.Context, _ llm.Request) (message.Response, error) {
	return message.Response{Content: p.content}, nil
}

// TestManagerProcessRunsDispatcherPlanAcrossMultipleSteps wires a Dispatcher
// and Executor into Manager (the multi-step plan path route takes when both
// are configured, rather than the single-agent CanHandle fallback) and
// checks the turn reflects the plan's last completed step.
func TestManagerProcessRunsDispatcherPlanAcrossMultipleSteps(t *testing.T) {
	reg := newTestRegistry(
		&fakeAgent{agentType: agent.TypeDefault, response: "итоговый ответ"},
		&fakeAgent{agentType: agent.TypeWebSearch, response: "результаты поиска"},
	)

	provider := &fakeLLMProvider{content: `{
		"steps": [
			{"agent": "web_search", "description": "найти информацию", "depends_on": -1},
			{"agent": "default", "description": "сформировать ответ", "depends_on": 0}
		],
		"reasoning": "нужен поиск перед ответом"
	}`}

	mgr := NewManager(Config{
		Dispatcher:  dispatcher.New(provider, reg),
		Executor:    orchestrator.NewExecutor(reg),
		Agents:      reg,
		MaxContexts: 10,
		HistorySize: 20,
	})

	turn, err := mgr.Process(context.Background(), UserInfo{UserID: 5}, "найди последние новости про Go")
	require.NoError(t, err)

	require.Len(t, turn.PlanSteps, 2)
	assert.Equal(t, orchestrator.StatusOK, turn.PlanSteps[0].Status)
	assert.Equal(t, orchestrator.StatusOK, turn.PlanSteps[1].Status)
	assert.Equal(t, "итоговый ответ", turn.Response)
	assert.Equal(t, agent.TypeDefault, turn.AgentType)
}

// TestManagerProcessDispatcherPlanDegradesOnStepError exercises the
// required-step-error path through the multi-step plan: the dispatcher
// routes to an agent that errors, and the turn still degrades to the
// apologetic response rather than propagating.
func TestManagerProcessDispatcherPlanDegradesOnStepError(t *testing.T) {
	reg := newTestRegistry(
		&fakeAgent{agentType: agent.TypeDefault, response: "не должно быть вызвано"},
		&fakeAgent{agentType: agent.TypeWebSearch, err: assertErr{}},
	)

	provider := &fakeLLMProvider{content: `{
		"steps": [{"agent": "web_search", "description": "найти", "depends_on": -1}],
		"reasoning": "только поиск"
	}`}

	mgr := NewManager(Config{
		Dispatcher:  dispatcher.New(provider, reg),
		Executor:    orchestrator.NewExecutor(reg),
		Agents:      reg,
		MaxContexts: 10,
		HistorySize: 20,
	})

	turn, err := mgr.Process(context.Background(), UserInfo{UserID: 6}, "найди что-нибудь")
	require.NoError(t, err)
	assert.Equal(t, "Извините, не получилось обработать запрос.", turn.Response)
}
