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

package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/aide/pkg/agent"
	"github.com/kadirpekel/aide/pkg/message"
	"github.com/kadirpekel/aide/pkg/registry"
)

// stubAgent answers with a fixed response or error for one agent.Type, and
// records how many times Process was called.
type stubAgent struct {
	typ      agent.Type
	response string
	err      error
	calls    int
}

func (a *stubAgent) Type() agent.Type       { return a.typ }
func (a *stubAgent) SystemPrompt() string   { return "" }
func (a *stubAgent) CanHandle(ctx context.Context, msg string, agentCtx agent.Context) float64 {
	return 1
}
func (a *stubAgent) Process(ctx context.Context, msg string, agentCtx agent.Context, history []message.Message) (agent.Result, error) {
	a.calls++
	if a.err != nil {
		return agent.Result{}, a.err
	}
	return agent.Result{Response: a.response, AgentType: a.typ}, nil
}

func newRegistry(agents ...*stubAgent) *registry.BaseRegistry[agent.Agent] {
	r := registry.NewBaseRegistry[agent.Agent]()
	for _, a := range agents {
		if err := r.Register(string(a.typ), a); err != nil {
			panic(err)
		}
	}
	return r
}

func TestLevelsOf(t *testing.T) {
	steps := []PlanStep{
		{DependsOn: -1},  // 0: level 0
		{DependsOn: 0},   // 1: level 1
		{DependsOn: -1},  // 2: level 0
		{DependsOn: 1},   // 3: level 2
	}

	levels := levelsOf(steps)
	require.Len(t, levels, 3)
	assert.ElementsMatch(t, []int{0, 2}, levels[0])
	assert.Equal(t, []int{1}, levels[1])
	assert.Equal(t, []int{3}, levels[2])
}

func TestLevelsOf_DanglingDependencyGetsOwnLevel(t *testing.T) {
	steps := []PlanStep{
		{DependsOn: -1},
		{DependsOn: 99}, // dangling: index out of range
	}

	levels := levelsOf(steps)
	require.Len(t, levels, 2)
	assert.Equal(t, []int{0}, levels[0])
	assert.Equal(t, []int{1}, levels[1])
}

func TestLevelsOf_SelfDependencyGetsOwnLevel(t *testing.T) {
	steps := []PlanStep{
		{DependsOn: 0}, // depends on itself: never resolves via the walk
	}

	levels := levelsOf(steps)
	require.Len(t, levels, 1)
	assert.Equal(t, []int{0}, levels[0])
}

// TestRun_FinalResponseIsHighestIndexedOKStep is a regression test: a
// level-0 step with a higher plan index can finish after a level-1 step
// with a lower plan index (level 1 depends on level 0's completion, but
// within a level, and across the level boundary, nothing orders same-level
// or cross-level *result availability* by index). The final response must
// come from the highest-indexed step that completed OK, not from whichever
// level the executor happened to process last.
func TestRun_FinalResponseIsHighestIndexedOKStep(t *testing.T) {
	webSearch := &stubAgent{typ: agent.TypeWebSearch, response: "search result"}
	analysis := &stubAgent{typ: agent.TypeAnalysis, response: "analysis result"}
	knowledgeBase := &stubAgent{typ: agent.TypeKnowledgeBase, response: "kb result"}

	agents := newRegistry(webSearch, analysis, knowledgeBase)
	executor := NewExecutor(agents)

	plan := ExecutionPlan{
		Steps: []PlanStep{
			{AgentType: agent.TypeWebSearch, DependsOn: -1},     // 0: level 0
			{AgentType: agent.TypeAnalysis, DependsOn: 0},       // 1: level 1, depends on 0
			{AgentType: agent.TypeKnowledgeBase, DependsOn: -1}, // 2: level 0
		},
	}

	result := executor.Run(context.Background(), plan, "question", agent.Context{}, nil)

	require.Len(t, result.Steps, 3)
	for _, s := range result.Steps {
		assert.Equal(t, StatusOK, s.Status)
	}

	assert.Equal(t, "kb result", result.FinalResponse, "final response must come from step 2 (highest index), not step 1 (last-processed level)")
	assert.True(t, result.Success)
}

func TestRun_SingleLevelPlan(t *testing.T) {
	def := &stubAgent{typ: agent.TypeDefault, response: "hello"}
	agents := newRegistry(def)
	executor := NewExecutor(agents)

	plan := ExecutionPlan{Steps: []PlanStep{{AgentType: agent.TypeDefault, DependsOn: -1}}}
	result := executor.Run(context.Background(), plan, "hi", agent.Context{}, nil)

	assert.Equal(t, "hello", result.FinalResponse)
	assert.True(t, result.Success)
	assert.Equal(t, 1, def.calls)
}

func TestRun_RequiredStepErrorMarksFailure(t *testing.T) {
	failing := &stubAgent{typ: agent.TypeWebSearch, err: errors.New("search down")}
	def := &stubAgent{typ: agent.TypeDefault, response: "fallback text"}
	agents := newRegistry(failing, def)
	executor := NewExecutor(agents)

	plan := ExecutionPlan{
		Steps: []PlanStep{
			{AgentType: agent.TypeWebSearch, DependsOn: -1},
			{AgentType: agent.TypeDefault, DependsOn: 0},
		},
	}
	result := executor.Run(context.Background(), plan, "question", agent.Context{}, nil)

	require.Len(t, result.Steps, 2)
	assert.Equal(t, StatusError, result.Steps[0].Status)
	assert.Equal(t, StatusOK, result.Steps[1].Status)
	assert.False(t, result.Success, "a required step's error must mark the plan unsuccessful even though a later step completed")
	assert.Equal(t, "fallback text", result.FinalResponse)
}

func TestRun_OptionalStepErrorIsSkippedNotFatal(t *testing.T) {
	factCheck := &stubAgent{typ: agent.TypeFactCheck, err: errors.New("unavailable")}
	def := &stubAgent{typ: agent.TypeDefault, response: "final"}
	agents := newRegistry(factCheck, def)
	executor := NewExecutor(agents)

	plan := ExecutionPlan{
		Steps: []PlanStep{
			{AgentType: agent.TypeFactCheck, DependsOn: -1, IsOptional: true},
			{AgentType: agent.TypeDefault, DependsOn: -1},
		},
	}
	result := executor.Run(context.Background(), plan, "question", agent.Context{}, nil)

	assert.Equal(t, StatusError, result.Steps[0].Status)
	assert.Equal(t, StatusOK, result.Steps[1].Status)
	assert.True(t, result.Success, "an optional step's error must not fail the plan")
	assert.Equal(t, "final", result.FinalResponse)
}

func TestRun_MissingAgentFallsBackToDefault(t *testing.T) {
	def := &stubAgent{typ: agent.TypeDefault, response: "default handled it"}
	agents := newRegistry(def)
	executor := NewExecutor(agents)

	plan := ExecutionPlan{
		Steps: []PlanStep{
			{AgentType: agent.TypeNews, DependsOn: -1}, // not registered
		},
	}
	result := executor.Run(context.Background(), plan, "question", agent.Context{}, nil)

	require.Len(t, result.Steps, 1)
	assert.Equal(t, StatusOK, result.Steps[0].Status)
	assert.True(t, result.Steps[0].Fallback)
	assert.Equal(t, "default handled it", result.FinalResponse)
}

func TestRun_MissingAgentWithoutDefaultAborts(t *testing.T) {
	agents := newRegistry() // empty: no default agent either
	executor := NewExecutor(agents)

	plan := ExecutionPlan{
		Steps: []PlanStep{{AgentType: agent.TypeNews, DependsOn: -1}},
	}
	result := executor.Run(context.Background(), plan, "question", agent.Context{}, nil)

	assert.False(t, result.Success)
	assert.Equal(t, StatusError, result.Steps[0].Status)
	assert.NotEmpty(t, result.FinalResponse, "abort path still returns an apology response")
}

// TestRun_DependentStepReceivesPriorStepResponse covers the common
// dispatcher-produced shape: a second-level step that declares DependsOn
// and so receives the completed first-level step's response as its input,
// regardless of its own InputTransform.
func TestRun_DependentStepReceivesPriorStepResponse(t *testing.T) {
	webSearch := &stubAgent{typ: agent.TypeWebSearch, response: "found it"}
	var seenInput string
	summarizer := &recordingAgent{typ: agent.TypeSummary, seen: &seenInput, response: "summary"}

	agents := newRegistry(webSearch)
	require.NoError(t, agents.Register(string(summarizer.typ), summarizer))
	executor := NewExecutor(agents)

	plan := ExecutionPlan{
		Steps: []PlanStep{
			{AgentType: agent.TypeWebSearch, DependsOn: -1, InputTransform: InputOriginal},
			{AgentType: agent.TypeSummary, DependsOn: 0},
		},
	}

	result := executor.Run(context.Background(), plan, "original question", agent.Context{}, nil)
	assert.Equal(t, "summary", result.FinalResponse)
	assert.Equal(t, "found it", seenInput, "a step depending on an earlier step should receive that step's response as input")
}

// TestRun_InputPreviousUsesContextCarriedFromPriorTurn covers the
// InputPrevious transform path taken when a step has no explicit
// dependency: it reads PreviousStepOutput off the context handed into Run,
// which dialog.Manager populates from the prior turn in a multi-turn
// conversation.
func TestRun_InputPreviousUsesContextCarriedFromPriorTurn(t *testing.T) {
	var seenInput string
	summarizer := &recordingAgent{typ: agent.TypeSummary, seen: &seenInput, response: "summary"}
	agents := newRegistry()
	require.NoError(t, agents.Register(string(summarizer.typ), summarizer))
	executor := NewExecutor(agents)

	plan := ExecutionPlan{
		Steps: []PlanStep{
			{AgentType: agent.TypeSummary, DependsOn: -1, InputTransform: InputPrevious},
		},
	}
	initial := agent.Context{PreviousStepOutput: "carried over from last turn"}

	result := executor.Run(context.Background(), plan, "original question", initial, nil)
	assert.Equal(t, "summary", result.FinalResponse)
	assert.Equal(t, "carried over from last turn", seenInput)
}

type recordingAgent struct {
	typ      agent.Type
	seen     *string
	response string
}

func (a *recordingAgent) Type() agent.Type { return a.typ }
func (a *recordingAgent) SystemPrompt() string { return "" }
func (a *recordingAgent) CanHandle(ctx context.Context, msg string, agentCtx agent.Context) float64 {
	return 1
}
func (a *recordingAgent) Process(ctx context.Context, msg string, agentCtx agent.Context, history []message.Message) (agent.Result, error) {
	*a.seen = msg
	return agent.Result{Response: a.response, AgentType: a.typ}, nil
}

func TestLastOKResponse(t *testing.T) {
	results := []StepResult{
		{Status: StatusOK, Result: agent.Result{Response: "first"}},
		{Status: StatusError},
		{Status: StatusOK, Result: agent.Result{Response: "last ok"}},
		{Status: StatusSkipped},
	}
	assert.Equal(t, "last ok", lastOKResponse(results))
}

func TestLastOKResponse_NoneOK(t *testing.T) {
	results := []StepResult{{Status: StatusError}, {Status: StatusSkipped}}
	assert.Equal(t, "", lastOKResponse(results))
}

func TestSelectInput_FallsBackThroughTransforms(t *testing.T) {
	e := &Executor{}
	results := []StepResult{{Status: StatusOK, Result: agent.Result{Response: "dep response"}}}

	t.Run("prefers a resolved dependency", func(t *testing.T) {
		step := PlanStep{DependsOn: 0}
		got := e.selectInput(step, 1, "original", results, agent.Context{})
		assert.Equal(t, "dep response", got)
	})

	t.Run("falls back to previous step output", func(t *testing.T) {
		step := PlanStep{DependsOn: -1, InputTransform: InputPrevious}
		got := e.selectInput(step, 1, "original", results, agent.Context{PreviousStepOutput: "prev"})
		assert.Equal(t, "prev", got)
	})

	t.Run("falls back to custom input", func(t *testing.T) {
		step := PlanStep{DependsOn: -1, InputTransform: InputCustom, CustomInput: "custom"}
		got := e.selectInput(step, 1, "original", results, agent.Context{})
		assert.Equal(t, "custom", got)
	})

	t.Run("falls back to the original message", func(t *testing.T) {
		step := PlanStep{DependsOn: -1}
		got := e.selectInput(step, 1, "original", results, agent.Context{})
		assert.Equal(t, "original", got)
	})
}

func TestStringsFromAny(t *testing.T) {
	in := []any{"a", 1, "b", nil}
	assert.Equal(t, []string{"a", "b"}, stringsFromAny(in))
}
