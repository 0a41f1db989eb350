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
	"encoding/json"
	"strings"

	"github.com/kadirpekel/aide/pkg/agent"
	"github.com/kadirpekel/aide/pkg/orchestrator"
)

type rawStep struct {
	Agent          string `json:"agent"`
	Description    string `json:"description"`
	InputTransform string `json:"input_transform"`
	IsOptional     bool   `json:"is_optional"`
	DependsOn      *int   `json:"depends_on"`
}

type rawPlan struct {
	Steps               []rawStep         `json:"steps"`
	Reasoning           string            `json:"reasoning"`
	MissingAgents       []string          `json:"missing_agents"`
	MissingAgentsReason map[string]string `json:"missing_agents_reason"`
}

// parsePlanResponse recovers a JSON object from response by locating the
// first '{' and last '}', tolerating any prose outside those delimiters.
// Any parse failure degrades to a single-step [default] plan.
func parsePlanResponse(response string) orchestrator.ExecutionPlan {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end <= start {
		return fallbackPlan("не удалось разобрать план из ответа LLM")
	}

	var raw rawPlan
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return fallbackPlan("не удалось разобрать план из ответа LLM")
	}

	steps := make([]orchestrator.PlanStep, 0, len(raw.Steps))
	for i, rs := range raw.Steps {
		transform := orchestrator.InputOriginal
		switch rs.InputTransform {
		case "previous":
			transform = orchestrator.InputPrevious
		case "custom":
			transform = orchestrator.InputCustom
		}

		// The planner's JSON rarely names an explicit dependency; absent one,
		// treat the plan as the sequential chain the source system always
		// produced: each step depends on the one immediately before it.
		dependsOn := i - 1
		if rs.DependsOn != nil {
			dependsOn = *rs.DependsOn
		}

		steps = append(steps, orchestrator.PlanStep{
			AgentType:      mapAgentType(rs.Agent),
			Description:    rs.Description,
			InputTransform: transform,
			IsOptional:     rs.IsOptional,
			DependsOn:      dependsOn,
		})
	}
	if len(steps) == 0 {
		return fallbackPlan("план не содержит шагов")
	}

	missing := make([]agent.Type, 0, len(raw.MissingAgents))
	for _, m := range raw.MissingAgents {
		missing = append(missing, mapAgentType(m))
	}

	reasons := make(map[agent.Type]string, len(raw.MissingAgentsReason))
	for name, reason := range raw.MissingAgentsReason {
		reasons[mapAgentType(name)] = reason
	}

	reasoning := raw.Reasoning
	if reasoning == "" {
		reasoning = "план составлен автоматически"
	}

	return orchestrator.ExecutionPlan{
		Steps:               steps,
		Reasoning:           reasoning,
		MissingAgents:       missing,
		MissingAgentsReason: reasons,
	}
}
