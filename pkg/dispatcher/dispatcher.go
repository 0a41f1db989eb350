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

// Package dispatcher builds an ExecutionPlan from a user message by asking
// an LLM to route across the currently registered agent types.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kadirpekel/aide/pkg/agent"
	"github.com/kadirpekel/aide/pkg/llm"
	"github.com/kadirpekel/aide/pkg/logger"
	"github.com/kadirpekel/aide/pkg/message"
	"github.com/kadirpekel/aide/pkg/orchestrator"
	"github.com/kadirpekel/aide/pkg/registry"
)

// descriptions is the one-line Russian description of each agent type used
// to build the planner's system prompt.
var descriptions = map[agent.Type]string{
	agent.TypeDefault: "общий агент для обычных разговоров, приветствий, простых вопросов, личных бесед, финального формирования ответа пользователю",

	agent.TypeWebSearch:     "агент для поиска информации в интернете, актуальных новостей, фактов, погоды, курсов валют",
	agent.TypeKnowledgeBase: "агент для поиска по корпоративной базе знаний, внутренней документации, регламентам, стандартам компании",
	agent.TypeTechDocs:      "агент для поиска по технической документации библиотек и фреймворков, API справочники, примеры кода",
	agent.TypeCodeAnalysis:  "агент для анализа кодовой базы, поиска использования функций, объяснения работы кода, архитектурного анализа",
	agent.TypeMetrics:       "агент для получения метрик производительности, статистики, KPI, количественных данных из систем мониторинга",
	agent.TypeNews:          "агент для агрегации новостей из нескольких источников, сравнения информации, выявления консенсуса и противоречий",

	agent.TypeAnalysis:      "агент для анализа данных, сравнения информации, выявления закономерностей, синтеза выводов",
	agent.TypeFactCheck:     "агент для проверки фактов на достоверность, верификации информации из поиска, оценки надёжности источников",
	agent.TypeComparison:    "агент для структурированного сравнения альтернатив, создания сравнительных таблиц",
	agent.TypeSummary:       "агент для резюмирования длинных текстов, выделения ключевых пунктов, создания краткой выжимки",
	agent.TypeClarification: "агент для уточнения неоднозначных запросов, генерации уточняющих вопросов",

	agent.TypeExpertise: "агент для экспертных знаний в специфических доменах: безопасность, юридические вопросы, финансы, архитектура",
}

// aliases maps common alternate spellings onto the canonical agent.Type.
// Unknown names collapse to agent.TypeDefault.
var aliases = map[string]agent.Type{
	"default": agent.TypeDefault,

	"web_search": agent.TypeWebSearch, "websearch": agent.TypeWebSearch, "search": agent.TypeWebSearch,
	"knowledge_base": agent.TypeKnowledgeBase, "knowledge": agent.TypeKnowledgeBase, "kb": agent.TypeKnowledgeBase,
	"tech_docs": agent.TypeTechDocs, "techdocs": agent.TypeTechDocs, "documentation": agent.TypeTechDocs,
	"code_analysis": agent.TypeCodeAnalysis, "code": agent.TypeCodeAnalysis, "codeanalysis": agent.TypeCodeAnalysis,
	"metrics": agent.TypeMetrics, "stats": agent.TypeMetrics, "statistics": agent.TypeMetrics,
	"news": agent.TypeNews,

	"fact_check": agent.TypeFactCheck, "factcheck": agent.TypeFactCheck, "fact-check": agent.TypeFactCheck,
	"analysis": agent.TypeAnalysis, "analyze": agent.TypeAnalysis,
	"comparison": agent.TypeComparison, "compare": agent.TypeComparison,
	"summary": agent.TypeSummary, "summarize": agent.TypeSummary, "tldr": agent.TypeSummary,
	"clarification": agent.TypeClarification, "clarify": agent.TypeClarification,

	"expertise": agent.TypeExpertise, "expert": agent.TypeExpertise, "security": agent.TypeExpertise, "legal": agent.TypeExpertise,
}

func mapAgentType(name string) agent.Type {
	if t, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return agent.TypeDefault
}

const examplePlans = `
Примеры планов:

1. Простое приветствие:
{
    "steps": [
        {"agent": "default", "description": "ответить на приветствие"}
    ],
    "reasoning": "простое приветствие не требует дополнительных агентов"
}

2. Поиск актуальной информации:
{
    "steps": [
        {"agent": "web_search", "description": "найти актуальную информацию по запросу"},
        {"agent": "fact_check", "description": "проверить достоверность найденной информации", "is_optional": true},
        {"agent": "default", "description": "сформировать ответ пользователю на основе найденного"}
    ],
    "reasoning": "для ответа нужен поиск, затем проверка фактов и формирование ответа",
    "missing_agents": ["fact_check"],
    "missing_agents_reason": {"fact_check": "проверка достоверности информации из интернета"}
}

3. Обычный вопрос без поиска:
{
    "steps": [
        {"agent": "default", "description": "ответить на вопрос пользователя"}
    ],
    "reasoning": "вопрос не требует актуальной информации, можно ответить напрямую"
}
`

// Dispatcher is the LLM-driven planner. It satisfies agent.Agent so it can
// sit in the registry alongside the agents it routes to, but it never
// appears in its own agent list and the plan executor never calls it as a
// regular step.
type Dispatcher struct {
	llmProvider llm.Provider
	agents      registry.Registry[agent.Agent]
}

// New constructs a Dispatcher that plans over agents.
func New(llmProvider llm.Provider, agents registry.Registry[agent.Agent]) *Dispatcher {
	return &Dispatcher{llmProvider: llmProvider, agents: agents}
}

func (d *Dispatcher) Type() agent.Type { return agent.TypeDispatcher }

func (d *Dispatcher) availableAgents() []agent.Type {
	if d.agents == nil {
		return []agent.Type{agent.TypeDefault, agent.TypeWebSearch}
	}
	var types []agent.Type
	hasDefault := false
	for _, a := range d.agents.List() {
		if a.Type() == agent.TypeDispatcher {
			continue
		}
		if a.Type() == agent.TypeDefault {
			hasDefault = true
		}
		types = append(types, a.Type())
	}
	if !hasDefault {
		types = append([]agent.Type{agent.TypeDefault}, types...)
	}
	return types
}

func (d *Dispatcher) SystemPrompt() string {
	available := d.availableAgents()

	var b strings.Builder
	for _, t := range available {
		desc, ok := descriptions[t]
		if !ok {
			desc = fmt.Sprintf("агент типа %s", t)
		}
		fmt.Fprintf(&b, "- %s: %s\n", t, desc)
	}

	return fmt.Sprintf(`Ты — диспетчер-планировщик, который анализирует входящие сообщения и составляет план их обработки.

Доступные агенты:
%s
Твоя задача:
1. Проанализировать сообщение пользователя
2. Составить план выполнения из нескольких шагов
3. Указать каких агентов не хватает для идеального выполнения задачи

Отвечай ТОЛЬКО в формате JSON:
{
    "steps": [
        {"agent": "имя_агента", "description": "описание что делает этот шаг", "is_optional": false}
    ],
    "reasoning": "краткое обоснование плана на русском языке",
    "missing_agents": ["агент1", "агент2"],
    "missing_agents_reason": {"агент1": "зачем нужен этот агент"}
}

Правила составления плана:
- Для простых приветствий и разговоров достаточно одного агента default
- Для поиска информации: web_search -> default (для формирования ответа)
- Для поиска с проверкой: web_search -> fact_check -> default
- Всегда завершай план агентом default для формирования финального ответа
- Если нужного агента нет в списке доступных, добавь его в missing_agents
- is_optional: true если шаг можно пропустить при отсутствии агента

JSON Schema ответа (для самопроверки перед отправкой):
%s
%s`, b.String(), planSchemaJSON, examplePlans)
}

// CanHandle always returns 1: the dispatcher is expected to run first on
// every turn, ahead of routing.
func (d *Dispatcher) CanHandle(ctx context.Context, msg string, agentCtx agent.Context) float64 {
	return 1.0
}

// CreatePlan analyzes msg (plus agentCtx's memory snapshot) and produces an
// ExecutionPlan. Any LLM or parse failure degrades to a single-step
// [default] plan rather than propagating the error.
func (d *Dispatcher) CreatePlan(ctx context.Context, msg string, agentCtx agent.Context) orchestrator.ExecutionPlan {
	userMessage := d.buildUserMessage(msg, agentCtx)

	preview := wordPreview(msg, 10)

	resp, err := d.llmProvider.Generate(ctx, llm.Request{
		Messages: []message.Message{
			message.New(message.RoleSystem, d.SystemPrompt()),
			message.New(message.RoleUser, userMessage),
		},
		MaxTokens: 500,
	})
	if err != nil {
		logger.Get().Warn("dispatcher failed, falling back to default plan", "error", err)
		logger.Get().Info("routing message", "preview", preview, "agent", agent.TypeDefault, "reason", "planning error")
		return fallbackPlan(fmt.Sprintf("Ошибка планирования: %v", err))
	}

	plan := parsePlanResponse(resp.Content)

	available := make(map[agent.Type]bool, len(d.availableAgents()))
	for _, t := range d.availableAgents() {
		available[t] = true
	}
	var filteredMissing []agent.Type
	for _, a := range plan.MissingAgents {
		if !available[a] {
			filteredMissing = append(filteredMissing, a)
		}
	}
	plan.MissingAgents = filteredMissing
	for a := range plan.MissingAgentsReason {
		if available[a] {
			delete(plan.MissingAgentsReason, a)
		}
	}

	var stepTypes []string
	for _, s := range plan.Steps {
		stepTypes = append(stepTypes, string(s.AgentType))
	}
	logger.Get().Info("routing message", "preview", preview, "plan", strings.Join(stepTypes, " -> "), "reason", plan.Reasoning)
	if plan.HasMissingAgents() {
		logger.Get().Warn("plan references agents missing from the registry", "missing", plan.MissingAgents, "reasons", plan.MissingAgentsReason)
	}

	return plan
}

func (d *Dispatcher) buildUserMessage(msg string, agentCtx agent.Context) string {
	parts := []string{fmt.Sprintf("Составь план для сообщения: %s", msg)}

	if agentCtx.ProfileSummary != "" && agentCtx.ProfileSummary != "Информация о пользователе отсутствует." {
		parts = append(parts, fmt.Sprintf("\nКонтекст о пользователе:\n%s", agentCtx.ProfileSummary))
	}

	return strings.Join(parts, "\n")
}

func wordPreview(msg string, n int) string {
	words := strings.Fields(msg)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func fallbackPlan(reasoning string) orchestrator.ExecutionPlan {
	return orchestrator.ExecutionPlan{
		Steps: []orchestrator.PlanStep{
			{AgentType: agent.TypeDefault, Description: "обработать сообщение", DependsOn: -1},
		},
		Reasoning: reasoning,
	}
}

// Process implements agent.Agent so the dispatcher can be inspected like
// any other registered unit; the dialog manager calls CreatePlan directly
// rather than routing a plan step to the dispatcher itself.
func (d *Dispatcher) Process(ctx context.Context, msg string, agentCtx agent.Context, history []message.Message) (agent.Result, error) {
	plan := d.CreatePlan(ctx, msg, agentCtx)

	var stepTypes []string
	for _, s := range plan.Steps {
		stepTypes = append(stepTypes, string(s.AgentType))
	}

	handoff := agent.TypeDefault
	if len(plan.Steps) > 0 {
		handoff = plan.Steps[0].AgentType
	}

	return agent.Result{
		Response:      fmt.Sprintf("Plan: %s", strings.Join(stepTypes, " -> ")),
		AgentType:     agent.TypeDispatcher,
		Confidence:    1.0,
		ShouldHandoff: true,
		HandoffAgent:  handoff,
		Metadata: agent.Metadata{
			"plan": agent.AnyValue(plan),
		},
	}, nil
}
