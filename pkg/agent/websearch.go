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
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kadirpekel/aide/pkg/llm"
	"github.com/kadirpekel/aide/pkg/logger"
	"github.com/kadirpekel/aide/pkg/message"
	"github.com/kadirpekel/aide/pkg/reliability"
	"github.com/kadirpekel/aide/pkg/search"
)

var searchKeywords = []string{
	"найди", "найти", "поищи", "search", "погода", "новости", "курс", "сколько стоит",
	"узнай", "what is", "who is", "latest", "current",
}

var searchQuestionPattern = regexp.MustCompile(`(?i)(\?\s*$|^(кто|что|когда|где|почему|как|who|what|when|where|why|how))`)

var fillerWords = []string{"пожалуйста", "скажи", "расскажи", "найди", "найти", "узнай"}

var queryArrayPattern = regexp.MustCompile(`(?s)\[.*?\]`)

const jaccardDuplicateThreshold = 0.7

const searchQueryGenerationPrompt = `Ты генератор поисковых запросов. Проанализируй вопрос пользователя и составь оптимальные поисковые запросы.

Правила:
1. Генерируй ОДИН запрос, если вопрос не требует явно РАЗНОЙ информации
2. Каждый запрос должен искать УНИКАЛЬНУЮ, непересекающуюся информацию
3. Запросы должны быть на том же языке, что и вопрос пользователя
4. Верни ТОЛЬКО JSON-массив строк, ничего больше

Вопрос пользователя:
%s`

// WebSearchAgent is the reference information-gathering agent: it
// generates search queries, deduplicates them, executes each through a
// reliability-wrapped provider call, and synthesizes a final answer.
type WebSearchAgent struct {
	llmProvider    llm.Provider
	searchProvider search.Provider
	breaker        *reliability.CircuitBreaker
	retryConfig    reliability.RetryConfig
	maxResults     int
	minConfidence  float64
}

// NewWebSearchAgent constructs the web-search agent.
func NewWebSearchAgent(llmProvider llm.Provider, searchProvider search.Provider) *WebSearchAgent {
	return &WebSearchAgent{
		llmProvider:    llmProvider,
		searchProvider: searchProvider,
		breaker:        reliability.NewCircuitBreaker("web_search", reliability.BreakerConfig{}),
		retryConfig:    reliability.RetryConfig{},
		maxResults:     5,
		minConfidence:  0.6,
	}
}

func (a *WebSearchAgent) Type() Type { return TypeWebSearch }

func (a *WebSearchAgent) SystemPrompt() string {
	return "Ты поисковый ассистент. Анализируй результаты веб-поиска и извлекай релевантную информацию для ответа на вопрос. " +
		"Будь фактологичен и объективен. Указывай источники, когда это уместно. " +
		"Если результаты поиска не содержат релевантной информации, сообщи об этом прямо."
}

func (a *WebSearchAgent) CanHandle(ctx context.Context, msg string, agentCtx Context) float64 {
	lower := strings.ToLower(strings.TrimSpace(msg))

	for _, kw := range searchKeywords {
		if strings.Contains(lower, kw) {
			return a.minConfidence + 0.2
		}
	}
	if searchQuestionPattern.MatchString(lower) {
		return a.minConfidence
	}
	return 0
}

func (a *WebSearchAgent) Process(ctx context.Context, msg string, agentCtx Context, history []message.Message) (Result, error) {
	telemetry := Metadata{}

	genStart := time.Now()
	queries, genMethod, genErr := a.generateQueries(ctx, msg)
	telemetry["query_generation_ms"] = AnyValue(time.Since(genStart).Milliseconds())
	if genErr != nil {
		telemetry["query_generation_error"] = TextValue(genErr.Error())
	}
	telemetry["query_generation_method"] = TextValue(genMethod)

	searchStart := time.Now()
	type pair struct {
		query   string
		results search.Results
	}
	var pairs []pair
	var searchErrors []string

	for _, q := range queries {
		res, err := a.searchOne(ctx, q)
		if err != nil {
			searchErrors = append(searchErrors, err.Error())
			logger.Get().Warn("search failed for query", "query", q, "error", err)
			continue
		}
		if !res.IsEmpty() {
			pairs = append(pairs, pair{query: q, results: res})
		}
	}
	telemetry["search_ms"] = AnyValue(time.Since(searchStart).Milliseconds())
	if len(searchErrors) > 0 {
		telemetry["search_errors"] = ListValue(toAnySlice(searchErrors))
	}

	synthStart := time.Now()
	defer func() {
		telemetry["synthesis_ms"] = AnyValue(time.Since(synthStart).Milliseconds())
	}()

	if len(pairs) == 0 {
		resp, err := a.synthesizeNoResults(ctx, msg, queries, history)
		if err != nil {
			return Result{}, fmt.Errorf("aide/agent: web search no-results synthesis: %w", err)
		}
		return Result{
			Response:   resp.Content,
			AgentType:  TypeWebSearch,
			Confidence: 0.5,
			Metadata: mergeMetadata(telemetry, Metadata{
				"search_queries": ListValue(toAnySlice(queries)),
			}),
			TokensUsed: usageTokens(resp),
		}, nil
	}

	var contentParts []string
	var sources []any
	seen := map[string]bool{}
	var allResults []any
	for _, p := range pairs {
		contentParts = append(contentParts, fmt.Sprintf("=== Результаты по запросу: %s ===\n%s", p.query, p.results.ToText(a.maxResults)))
		for i, r := range p.results.Results {
			if i >= 3 {
				break
			}
			if !seen[r.Link] {
				sources = append(sources, r.Link)
				seen[r.Link] = true
			}
			allResults = append(allResults, r)
		}
	}

	resp, err := a.synthesizeWithResults(ctx, msg, queries, strings.Join(contentParts, "\n\n"), history)
	if err != nil {
		return Result{}, fmt.Errorf("aide/agent: web search synthesis: %w", err)
	}

	if len(sources) > 5 {
		sources = sources[:5]
	}

	return Result{
		Response:   resp.Content,
		AgentType:  TypeWebSearch,
		Confidence: 0.9,
		Metadata: mergeMetadata(telemetry, Metadata{
			"search_queries": ListValue(toAnySlice(queries)),
			"search_results": ListValue(allResults),
			"sources":        ListValue(sources),
		}),
		TokensUsed: usageTokens(resp),
	}, nil
}

// searchOne gates a single provider call behind retry-with-backoff, itself
// gated by the circuit breaker (per spec.md §4.5: "the search agent wraps
// each provider call in retry, whose operation is further gated by the
// breaker").
func (a *WebSearchAgent) searchOne(ctx context.Context, query string) (search.Results, error) {
	var out search.Results
	err := reliability.Retry(ctx, a.retryConfig, func(ctx context.Context) error {
		return a.breaker.Call(func() error {
			res, err := a.searchProvider.Search(ctx, search.Request{Query: query, Count: a.maxResults})
			if err != nil {
				return err
			}
			out = res
			return nil
		})
	})
	return out, err
}

func (a *WebSearchAgent) generateQueries(ctx context.Context, msg string) (queries []string, method string, err error) {
	resp, genErr := a.llmProvider.Generate(ctx, llm.Request{
		Messages: []message.Message{message.New(message.RoleUser, fmt.Sprintf(searchQueryGenerationPrompt, msg))},
	})
	if genErr != nil {
		return []string{fallbackQuery(msg)}, "fallback", genErr
	}

	content := strings.TrimSpace(resp.Content)
	if m := queryArrayPattern.FindString(content); m != "" {
		content = m
	}

	var parsed []string
	if jsonErr := json.Unmarshal([]byte(content), &parsed); jsonErr != nil || len(parsed) == 0 {
		return []string{fallbackQuery(msg)}, "fallback", nil
	}

	return deduplicateQueries(parsed), "llm", nil
}

func fallbackQuery(msg string) string {
	query := strings.ToLower(strings.TrimSpace(msg))
	for _, w := range fillerWords {
		query = strings.ReplaceAll(query, w, "")
	}
	return strings.TrimSpace(query)
}

// deduplicateQueries drops any query whose token-set Jaccard similarity
// against an already-kept query exceeds jaccardDuplicateThreshold,
// preserving the original casing of the first occurrence.
func deduplicateQueries(queries []string) []string {
	if len(queries) <= 1 {
		return queries
	}

	var kept []string
	var keptTokens []map[string]bool

	for _, q := range queries {
		normalized := strings.Join(strings.Fields(strings.ToLower(q)), " ")
		tokens := tokenSet(normalized)

		duplicate := false
		for _, seen := range keptTokens {
			if jaccard(seen, tokens) > jaccardDuplicateThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, q)
			keptTokens = append(keptTokens, tokens)
		}
	}

	if len(kept) == 0 {
		return queries[:1]
	}
	return kept
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if b[tok] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func (a *WebSearchAgent) synthesizeWithResults(ctx context.Context, msg string, queries []string, formatted string, history []message.Message) (message.Response, error) {
	searchContext := fmt.Sprintf(
		"Поисковые запросы: %s\n\nРезультаты поиска:\n%s\n\nНа основе этих результатов ответь на вопрос пользователя. Указывай источники, когда это уместно.",
		strings.Join(queries, ", "), formatted)

	msgs := []message.Message{
		message.New(message.RoleSystem, a.SystemPrompt()),
		message.New(message.RoleSystem, searchContext),
	}
	msgs = append(msgs, history...)
	msgs = append(msgs, message.New(message.RoleUser, msg))

	return a.llmProvider.Generate(ctx, llm.Request{Messages: msgs})
}

func (a *WebSearchAgent) synthesizeNoResults(ctx context.Context, msg string, queries []string, history []message.Message) (message.Response, error) {
	noResultsContext := fmt.Sprintf(
		"Ты искал(а) '%s', но не нашёл(шла) релевантных результатов. Извинись перед пользователем и предложи переформулировать запрос, либо ответь тем, что знаешь.",
		strings.Join(queries, ", "))

	msgs := []message.Message{
		message.New(message.RoleSystem, a.SystemPrompt()),
		message.New(message.RoleSystem, noResultsContext),
	}
	msgs = append(msgs, history...)
	msgs = append(msgs, message.New(message.RoleUser, msg))

	return a.llmProvider.Generate(ctx, llm.Request{Messages: msgs})
}

func usageTokens(resp message.Response) int {
	if resp.Usage == nil {
		return 0
	}
	return resp.Usage.TotalTokens
}

func toAnySlice[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func mergeMetadata(parts ...Metadata) Metadata {
	out := Metadata{}
	for _, p := range parts {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}
