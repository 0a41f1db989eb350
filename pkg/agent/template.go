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

package agent

import (
	"context"
	"regexp"
	"strings"
)

// ConfidenceTemplate is the reusable can_handle computation every
// specialized agent embeds. It is deliberately cheap and side-effect-free:
// the registry calls it on every candidate agent during fallback routing.
type ConfidenceTemplate struct {
	// Base is the floor confidence before any boost, typically 0.2-0.3.
	Base float64

	// Keywords contribute KeywordBoost each, up to KeywordCeiling.
	Keywords       []string
	KeywordBoost   float64
	KeywordCeiling float64

	// Patterns are additional regexes; each match contributes KeywordBoost.
	Patterns []*regexp.Regexp

	// ContextBoost is added once if the turn context already carries
	// search_results or previous_step_output.
	ContextBoost float64

	// RequiresUpstream short-circuits CanHandle to 0 when neither
	// search_results nor previous_step_output is present, for agents that
	// cannot do useful work without accumulated context (summary,
	// fact_check, analysis).
	RequiresUpstream bool

	// Custom lets a specific agent add a domain-specific cue on top of the
	// template; receives the lowercased message.
	Custom func(lowerMsg string, agentCtx Context) float64
}

// Score runs the template against msg and agentCtx.
func (t ConfidenceTemplate) Score(msg string, agentCtx Context) float64 {
	hasUpstream := len(agentCtx.SearchResults) > 0 || agentCtx.PreviousStepOutput != ""
	if t.RequiresUpstream && !hasUpstream {
		return 0
	}

	lower := strings.ToLower(msg)
	score := t.Base

	var keywordHits float64
	for _, kw := range t.Keywords {
		if strings.Contains(lower, kw) {
			keywordHits += t.KeywordBoost
		}
	}
	for _, p := range t.Patterns {
		if p.MatchString(lower) {
			keywordHits += t.KeywordBoost
		}
	}
	if t.KeywordCeiling > 0 && keywordHits > t.KeywordCeiling {
		keywordHits = t.KeywordCeiling
	}
	score += keywordHits

	if hasUpstream {
		score += t.ContextBoost
	}

	if t.Custom != nil {
		score += t.Custom(lower, agentCtx)
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// noopCanHandle is the trivial CanHandle shared by agents that want no
// routing preference of their own (e.g. the default agent, reached only
// through explicit handoff or as the final fallback).
func noopCanHandle(context.Context, string, Context) float64 { return 0 }
