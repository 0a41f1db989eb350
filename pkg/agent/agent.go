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

// Package agent defines the capability-unit contract every specialized
// agent implements, plus the metadata value type threaded through a turn.
package agent

import (
	"context"

	"github.com/kadirpekel/aide/pkg/message"
)

// Type is a closed enumeration of capability tags.
type Type string

const (
	TypeDefault    Type = "default"
	TypeDispatcher Type = "dispatcher"

	TypeWebSearch     Type = "web_search"
	TypeKnowledgeBase Type = "knowledge_base"
	TypeTechDocs      Type = "tech_docs"
	TypeCodeAnalysis  Type = "code_analysis"
	TypeMetrics       Type = "metrics"
	TypeNews          Type = "news"

	TypeAnalysis      Type = "analysis"
	TypeFactCheck     Type = "fact_check"
	TypeComparison    Type = "comparison"
	TypeSummary       Type = "summary"
	TypeClarification Type = "clarification"

	TypeExpertise Type = "expertise"
)

// Category classifies a Type for prompt-building and routing purposes.
type Category string

const (
	CategoryCore        Category = "core"
	CategoryInformation Category = "information"
	CategoryProcessing  Category = "processing"
	CategorySpecialized Category = "specialized"
)

var categories = map[Type]Category{
	TypeDefault:    CategoryCore,
	TypeDispatcher: CategoryCore,

	TypeWebSearch:     CategoryInformation,
	TypeKnowledgeBase: CategoryInformation,
	TypeTechDocs:      CategoryInformation,
	TypeCodeAnalysis:  CategoryInformation,
	TypeMetrics:       CategoryInformation,
	TypeNews:          CategoryInformation,

	TypeAnalysis:      CategoryProcessing,
	TypeFactCheck:     CategoryProcessing,
	TypeComparison:    CategoryProcessing,
	TypeSummary:       CategoryProcessing,
	TypeClarification: CategoryProcessing,

	TypeExpertise: CategorySpecialized,
}

// CategoryOf returns t's category, defaulting to CategorySpecialized for an
// unregistered type rather than panicking.
func CategoryOf(t Type) Category {
	if c, ok := categories[t]; ok {
		return c
	}
	return CategorySpecialized
}

// MetadataValue is a tagged union over the JSON-shaped values agents stash
// in a Result's metadata map. The executor only ever reads a small,
// well-known set of keys (search_results, sources, search_queries); this
// type keeps those reads type-safe without forcing every agent to agree on
// one concrete shape.
type MetadataValue struct {
	Text string
	List []any
	Map  map[string]any
	Any  any
}

// TextValue wraps a string as a MetadataValue.
func TextValue(s string) MetadataValue { return MetadataValue{Text: s} }

// ListValue wraps a slice as a MetadataValue.
func ListValue(v []any) MetadataValue { return MetadataValue{List: v} }

// MapValue wraps a map as a MetadataValue.
func MapValue(v map[string]any) MetadataValue { return MetadataValue{Map: v} }

// AnyValue wraps an arbitrary value as a MetadataValue.
func AnyValue(v any) MetadataValue { return MetadataValue{Any: v} }

// Metadata is the string-keyed bag a Result carries.
type Metadata map[string]MetadataValue

// Result is what an agent produces for one invocation.
type Result struct {
	Response      string
	AgentType     Type
	Confidence    float64
	Metadata      Metadata
	TokensUsed    int
	ShouldHandoff bool
	HandoffAgent  Type
}

// Context is the read-only, per-turn accumulated state an agent consumes.
// The plan executor owns its lifecycle; agents never mutate it directly.
type Context struct {
	Memory             map[string]any
	UserProfile        map[string]any
	ProfileSummary     string
	PreviousStepOutput string
	PreviousAgent      Type
	PreviousStepMeta   Metadata
	SearchResults      []any
	SearchQueries      []string
	Sources            []any
	Extra              map[string]any
}

// Get returns a key from Extra, the catch-all bag for context fields that
// don't have a dedicated struct field.
func (c Context) Get(key string) (any, bool) {
	if c.Extra == nil {
		return nil, false
	}
	v, ok := c.Extra[key]
	return v, ok
}

// Agent is the capability contract every registered unit implements.
//
// CanHandle must be side-effect-free and cheap enough to call on every
// registered agent during fallback routing (spec.md §4.1).
type Agent interface {
	Type() Type
	SystemPrompt() string
	CanHandle(ctx context.Context, msg string, agentCtx Context) float64
	Process(ctx context.Context, msg string, agentCtx Context, history []message.Message) (Result, error)
}
