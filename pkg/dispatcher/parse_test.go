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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/aide/pkg/agent"
	"github.com/kadirpekel/aide/pkg/orchestrator"
)

func TestParsePlanResponse_DefaultsSequentialDependsOn(t *testing.T) {
	plan := parsePlanResponse(`{
		"steps": [
			{"agent": "web_search", "description": "найти"},
			{"agent": "fact_check", "description": "проверить"},
			{"agent": "default", "description": "ответить"}
		],
		"reasoning": "цепочка"
	}`)

	require.Len(t, plan.Steps, 3)
	assert.Equal(t, -1, plan.Steps[0].DependsOn)
	assert.Equal(t, 0, plan.Steps[1].DependsOn)
	assert.Equal(t, 1, plan.Steps[2].DependsOn)
}

func TestParsePlanResponse_HonorsExplicitDependsOn(t *testing.T) {
	plan := parsePlanResponse(`{
		"steps": [
			{"agent": "web_search", "description": "найти", "depends_on": -1},
			{"agent": "knowledge_base", "description": "найти в базе", "depends_on": -1},
			{"agent": "default", "description": "ответить", "depends_on": 1}
		],
		"reasoning": "параллельный поиск"
	}`)

	require.Len(t, plan.Steps, 3)
	assert.Equal(t, -1, plan.Steps[0].DependsOn)
	assert.Equal(t, -1, plan.Steps[1].DependsOn)
	assert.Equal(t, 1, plan.Steps[2].DependsOn)
}

func TestParsePlanResponse_TolerateLeadingAndTrailingProse(t *testing.T) {
	plan := parsePlanResponse("Конечно, вот план:\n" + `{"steps": [{"agent": "default", "description": "x"}], "reasoning": "y"}` + "\nНадеюсь это поможет!")

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, agent.TypeDefault, plan.Steps[0].AgentType)
}

func TestParsePlanResponse_NoJSONFallsBack(t *testing.T) {
	plan := parsePlanResponse("извините, не могу составить план")

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, agent.TypeDefault, plan.Steps[0].AgentType)
	assert.Equal(t, -1, plan.Steps[0].DependsOn)
}

func TestParsePlanResponse_MalformedJSONFallsBack(t *testing.T) {
	plan := parsePlanResponse(`{"steps": [{"agent": "default"` /* truncated */)

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, agent.TypeDefault, plan.Steps[0].AgentType)
}

func TestParsePlanResponse_EmptyStepsFallsBack(t *testing.T) {
	plan := parsePlanResponse(`{"steps": [], "reasoning": "ничего не требуется"}`)

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, agent.TypeDefault, plan.Steps[0].AgentType)
}

func TestParsePlanResponse_MapsUnknownAgentNamesToDefault(t *testing.T) {
	plan := parsePlanResponse(`{"steps": [{"agent": "astrology", "description": "x"}], "reasoning": "y"}`)

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, agent.TypeDefault, plan.Steps[0].AgentType)
}

func TestParsePlanResponse_MapsMissingAgentsAndReasons(t *testing.T) {
	plan := parsePlanResponse(`{
		"steps": [{"agent": "default", "description": "x"}],
		"reasoning": "y",
		"missing_agents": ["news", "unknown_thing"],
		"missing_agents_reason": {"news": "нужны свежие новости"}
	}`)

	assert.Contains(t, plan.MissingAgents, agent.TypeNews)
	assert.Equal(t, "нужны свежие новости", plan.MissingAgentsReason[agent.TypeNews])
}

func TestParsePlanResponse_InputTransformMapping(t *testing.T) {
	plan := parsePlanResponse(`{
		"steps": [
			{"agent": "default", "description": "x", "input_transform": "previous"},
			{"agent": "default", "description": "y", "input_transform": "custom"},
			{"agent": "default", "description": "z"}
		],
		"reasoning": "r"
	}`)

	require.Len(t, plan.Steps, 3)
	assert.Equal(t, orchestrator.InputPrevious, plan.Steps[0].InputTransform)
	assert.Equal(t, orchestrator.InputCustom, plan.Steps[1].InputTransform)
	assert.Equal(t, orchestrator.InputOriginal, plan.Steps[2].InputTransform)
}

func TestParsePlanResponse_MissingReasoningGetsDefault(t *testing.T) {
	plan := parsePlanResponse(`{"steps": [{"agent": "default", "description": "x"}]}`)
	assert.Equal(t, "план составлен автоматически", plan.Reasoning)
}
