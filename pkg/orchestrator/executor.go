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
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kadirpekel/aide/pkg/agent"
	"github.com/kadirpekel/aide/pkg/message"
	"github.com/kadirpekel/aide/pkg/registry"
)

// Executor runs an ExecutionPlan against a registry of agents.
type Executor struct {
	agents registry.Registry[agent.Agent]
}

// NewExecutor constructs an Executor backed by agents.
func NewExecutor(agents registry.Registry[agent.Agent]) *Executor {
	return &Executor{agents: agents}
}

// levelOf groups plan steps into dependency levels. Level 0 holds every
// step with no dependency; level N+1 holds steps whose dependency sits in
// an already-placed level. Steps whose dependency never resolves (dangling
// index or a cycle) fall into their own singleton level, in declaration
// order, so the walk always terminates.
func levelsOf(steps []PlanStep) [][]int {
	placedLevel := make([]int, len(steps))
	for i := range placedLevel {
		placedLevel[i] = -1
	}

	changed := true
	for changed {
		changed = false
		for i, s := range steps {
			if placedLevel[i] != -1 {
				continue
			}
			if s.DependsOn < 0 {
				placedLevel[i] = 0
				changed = true
				continue
			}
			if s.DependsOn >= len(steps) || s.DependsOn == i {
				continue
			}
			if placedLevel[s.DependsOn] != -1 {
				placedLevel[i] = placedLevel[s.DependsOn] + 1
				changed = true
			}
		}
	}

	maxLevel := 0
	for i, lvl := range placedLevel {
		if lvl == -1 {
			// Residual: dangling dependency or cycle member. Give it its own
			// level beyond everything resolved so far, in declaration order.
			maxLevel++
			placedLevel[i] = maxLevel
		} else if lvl > maxLevel {
			maxLevel = lvl
		}
	}

	levels := make([][]int, maxLevel+1)
	for i, lvl := range placedLevel {
		levels[lvl] = append(levels[lvl], i)
	}

	out := make([][]int, 0, len(levels))
	for _, l := range levels {
		if len(l) > 0 {
			out = append(out, l)
		}
	}
	return out
}

// Run executes plan against an initial turn context and message history,
// returning the recorded outcome of every step and the final response.
func (e *Executor) Run(ctx context.Context, plan ExecutionPlan, originalMessage string, initial agent.Context, history []message.Message) PlanResult {
	results := make([]StepResult, len(plan.Steps))
	levels := levelsOf(plan.Steps)

	acc := initial
	var requiredErrored bool
	abort := false

	for _, level := range levels {
		if abort {
			break
		}
		snapshot := acc // per §4.3: each level reads a fixed snapshot, mutated only between levels

		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)

		for _, idx := range level {
			idx := idx
			step := plan.Steps[idx]

			resolved, ok := e.resolveAgent(step)
			if !ok {
				if step.IsOptional {
					results[idx] = StepResult{Step: step, Status: StatusSkipped}
					continue
				}
				fallback, hasDefault := e.agents.Get(string(agent.TypeDefault))
				if !hasDefault {
					abort = true
					results[idx] = StepResult{Step: step, Status: StatusError, Err: fmt.Errorf("aide/orchestrator: agent %q absent and no default agent registered", step.AgentType)}
					continue
				}
				resolved = fallback
				step.Fallback()
			}

			input := e.selectInput(step, idx, originalMessage, results, snapshot)

			g.Go(func() error {
				res, err := resolved.Process(gctx, input, snapshot, history)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					results[idx] = StepResult{Step: step, Status: StatusError, Err: err, Fallback: step.fallback}
					if !step.IsOptional {
						requiredErrored = true
					}
					return nil
				}
				results[idx] = StepResult{Step: step, Status: StatusOK, Result: res, Fallback: step.fallback}
				return nil
			})
		}

		_ = g.Wait()

		// Mutate accumulated context only at the level boundary.
		for _, idx := range level {
			r := results[idx]
			if r.Status != StatusOK {
				continue
			}
			acc.PreviousStepOutput = r.Result.Response
			acc.PreviousAgent = r.Result.AgentType
			acc.PreviousStepMeta = r.Result.Metadata
			if sr, ok := r.Result.Metadata["search_results"]; ok {
				acc.SearchResults = sr.List
			}
			if sq, ok := r.Result.Metadata["search_queries"]; ok {
				acc.SearchQueries = stringsFromAny(sq.List)
			}
			if src, ok := r.Result.Metadata["sources"]; ok {
				acc.Sources = src.List
			}
		}
	}

	// The final response is the highest-indexed step that completed OK,
	// not whichever level happened to finish processing last: levels are
	// walked in dependency order, so a level-0 step with a high plan
	// index can complete after a level-1 step with a lower index.
	finalResponse := lastOKResponse(results)
	if abort {
		finalResponse = "Извините, не получилось обработать запрос."
	}

	success := finalResponse != "" && !requiredErrored && !abort
	return PlanResult{Steps: results, FinalResponse: finalResponse, Success: success}
}

// lastOKResponse scans backward for the highest-indexed step with
// StatusOK, mirroring pkg/dialog's lastAgentType selection rule for
// Turn.AgentType so a turn's recorded agent and its recorded response
// always come from the same step.
func lastOKResponse(results []StepResult) string {
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].Status == StatusOK {
			return results[i].Result.Response
		}
	}
	return ""
}

func (e *Executor) resolveAgent(step PlanStep) (agent.Agent, bool) {
	return e.agents.Get(string(step.AgentType))
}

func (e *Executor) selectInput(step PlanStep, idx int, original string, results []StepResult, acc agent.Context) string {
	if step.DependsOn >= 0 && step.DependsOn < idx && results[step.DependsOn].Status == StatusOK {
		return results[step.DependsOn].Result.Response
	}
	if step.InputTransform == InputPrevious && acc.PreviousStepOutput != "" {
		return acc.PreviousStepOutput
	}
	if step.InputTransform == InputCustom && step.CustomInput != "" {
		return step.CustomInput
	}
	return original
}

func stringsFromAny(v []any) []string {
	out := make([]string, 0, len(v))
	for _, e := range v {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
