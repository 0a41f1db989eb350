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

// Package orchestrator groups dispatcher-produced plan steps into
// dependency levels and runs them to a final response.
package orchestrator

import "github.com/kadirpekel/aide/pkg/agent"

// InputTransform selects what a step receives as its input message.
type InputTransform string

const (
	InputOriginal InputTransform = "original"
	InputPrevious InputTransform = "previous"
	InputCustom   InputTransform = "custom"
)

// PlanStep is one unit of work inside an ExecutionPlan.
type PlanStep struct {
	AgentType      agent.Type
	Description    string
	InputTransform InputTransform
	CustomInput    string
	IsOptional     bool

	// DependsOn is the index of the step this one depends on, or -1 when
	// the step belongs to the first dependency level.
	DependsOn int

	fallback bool
}

// Fallback marks the step as running under the substituted default agent
// because its declared agent was absent from the registry.
func (s *PlanStep) Fallback() { s.fallback = true }

// ExecutionPlan is the dispatcher's output: an ordered list of steps plus
// the reasoning and registry gaps the planner surfaced.
type ExecutionPlan struct {
	Steps               []PlanStep
	Reasoning           string
	MissingAgents       []agent.Type
	MissingAgentsReason map[agent.Type]string
}

// HasMissingAgents reports whether the planner flagged any agent absent
// from the registry.
func (p ExecutionPlan) HasMissingAgents() bool {
	return len(p.MissingAgents) > 0
}

// StepStatus records how a step concluded.
type StepStatus string

const (
	StatusOK      StepStatus = "ok"
	StatusSkipped StepStatus = "skipped"
	StatusError   StepStatus = "error"
)

// StepResult is the recorded outcome of running a single PlanStep.
type StepResult struct {
	Step     PlanStep
	Status   StepStatus
	Result   agent.Result
	Err      error
	Fallback bool
}

// PlanResult is what the executor returns after walking every level.
type PlanResult struct {
	Steps         []StepResult
	FinalResponse string
	Success       bool
}
