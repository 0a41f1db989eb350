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
	"fmt"
	"strings"

	"github.com/kadirpekel/aide/pkg/llm"
	"github.com/kadirpekel/aide/pkg/message"
)

// textAgent is the shared skeleton behind every specialized agent that
// consumes accumulated context and calls the LLM once: it pairs a
// ConfidenceTemplate with a fixed system prompt and a context-formatting
// hook. Each concrete agent type is a thin constructor around it.
type textAgent struct {
	agentType  Type
	prompt     string
	template   ConfidenceTemplate
	contextual bool // whether to fold in previous-step output / search results
}

func (a *textAgent) Type() Type            { return a.agentType }
func (a *textAgent) SystemPrompt() string  { return a.prompt }
func (a *textAgent) CanHandle(ctx context.Context, msg string, agentCtx Context) float64 {
	return a.template.Score(msg, agentCtx)
}

type llmTextAgent struct {
	*textAgent
	llmProvider llm.Provider
}

func (a *llmTextAgent) Process(ctx context.Context, msg string, agentCtx Context, history []message.Message) (Result, error) {
	var parts []string
	parts = append(parts, msg)
	if a.contextual && agentCtx.PreviousStepOutput != "" {
		parts = append(parts, fmt.Sprintf("Материал от агента %s:\n%s", agentCtx.PreviousAgent, agentCtx.PreviousStepOutput))
	}

	msgs := []message.Message{message.New(message.RoleSystem, a.prompt)}
	msgs = append(msgs, history...)
	msgs = append(msgs, message.New(message.RoleUser, strings.Join(parts, "\n\n")))

	resp, err := a.llmProvider.Generate(ctx, llm.Request{Messages: msgs, Temperature: 0.5, MaxTokens: 800})
	if err != nil {
		return Result{}, fmt.Errorf("aide/agent: %s generation: %w", a.agentType, err)
	}

	return Result{
		Response:   resp.Content,
		AgentType:  a.agentType,
		Confidence: 0.8,
		TokensUsed: usageTokens(resp),
	}, nil
}

// NewKnowledgeBaseAgent answers from the organization's internal knowledge
// base. Retrieval against a real document store is out of scope here; the
// agent folds whatever context it has into the prompt and is expected to
// sit behind a retrieval step supplied via accumulated context.
func NewKnowledgeBaseAgent(llmProvider llm.Provider) Agent {
	return &llmTextAgent{llmProvider: llmProvider, textAgent: &textAgent{
		agentType: TypeKnowledgeBase,
		prompt:    "Ты агент корпоративной базы знаний. Отвечай по внутренней документации и регламентам компании, опираясь только на предоставленный контекст.",
		contextual: true,
		template: ConfidenceTemplate{
			Base:           0.2,
			Keywords:       []string{"регламент", "политика компании", "внутренний", "стандарт компании", "база знаний"},
			KeywordBoost:   0.25,
			KeywordCeiling: 0.5,
			ContextBoost:   0.1,
		},
	}}
}

// NewTechDocsAgent answers questions about library/framework documentation.
func NewTechDocsAgent(llmProvider llm.Provider) Agent {
	return &llmTextAgent{llmProvider: llmProvider, textAgent: &textAgent{
		agentType:  TypeTechDocs,
		prompt:     "Ты агент по технической документации. Объясняй API, приводи примеры кода, ссылайся на официальную документацию библиотек и фреймворков.",
		contextual: true,
		template: ConfidenceTemplate{
			Base:           0.2,
			Keywords:       []string{"api", "документация", "библиотека", "фреймворк", "sdk", "метод", "функция"},
			KeywordBoost:   0.2,
			KeywordCeiling: 0.5,
			ContextBoost:   0.1,
		},
	}}
}

// NewCodeAnalysisAgent analyzes a codebase: usage sites, call graphs,
// architectural structure.
func NewCodeAnalysisAgent(llmProvider llm.Provider) Agent {
	return &llmTextAgent{llmProvider: llmProvider, textAgent: &textAgent{
		agentType:  TypeCodeAnalysis,
		prompt:     "Ты агент анализа кода. Объясняй структуру кодовой базы, находи использования функций, помогай с архитектурным анализом.",
		contextual: true,
		template: ConfidenceTemplate{
			Base:           0.2,
			Keywords:       []string{"код", "функция", "класс", "репозиторий", "code", "function", "архитектур"},
			KeywordBoost:   0.2,
			KeywordCeiling: 0.5,
			ContextBoost:   0.1,
		},
	}}
}

// NewMetricsAgent surfaces performance metrics, KPIs, and monitoring data.
func NewMetricsAgent(llmProvider llm.Provider) Agent {
	return &llmTextAgent{llmProvider: llmProvider, textAgent: &textAgent{
		agentType:  TypeMetrics,
		prompt:     "Ты агент метрик. Отвечай количественными данными: показатели производительности, статистика, KPI.",
		contextual: true,
		template: ConfidenceTemplate{
			Base:           0.2,
			Keywords:       []string{"метрик", "статистик", "kpi", "показател", "latency", "производительност"},
			KeywordBoost:   0.25,
			KeywordCeiling: 0.5,
			ContextBoost:   0.1,
		},
	}}
}

// NewNewsAgent aggregates and cross-references news from multiple sources.
func NewNewsAgent(llmProvider llm.Provider) Agent {
	return &llmTextAgent{llmProvider: llmProvider, textAgent: &textAgent{
		agentType:  TypeNews,
		prompt:     "Ты агент агрегации новостей. Сопоставляй информацию из нескольких источников, выявляй консенсус и противоречия, указывай ссылки.",
		contextual: true,
		template: ConfidenceTemplate{
			Base:           0.2,
			Keywords:       []string{"новост", "news", "событи"},
			KeywordBoost:   0.25,
			KeywordCeiling: 0.5,
			ContextBoost:   0.15,
			RequiresUpstream: false,
		},
	}}
}

// NewAnalysisAgent synthesizes conclusions from accumulated context.
// Requires upstream data: with nothing to analyze it cannot contribute.
func NewAnalysisAgent(llmProvider llm.Provider) Agent {
	return &llmTextAgent{llmProvider: llmProvider, textAgent: &textAgent{
		agentType:  TypeAnalysis,
		prompt:     "Ты агент анализа. Находи закономерности, сравнивай данные, делай обоснованные выводы из предоставленного материала.",
		contextual: true,
		template: ConfidenceTemplate{
			Base:             0.2,
			Keywords:         []string{"анализ", "сравни", "закономерност", "почему"},
			KeywordBoost:     0.2,
			KeywordCeiling:   0.4,
			ContextBoost:     0.2,
			RequiresUpstream: true,
		},
	}}
}

// NewFactCheckAgent verifies the reliability of information gathered by an
// earlier step. Requires upstream data.
func NewFactCheckAgent(llmProvider llm.Provider) Agent {
	return &llmTextAgent{llmProvider: llmProvider, textAgent: &textAgent{
		agentType:  TypeFactCheck,
		prompt:     "Ты агент проверки фактов. Оценивай достоверность информации, найденной в интернете, и надёжность источников.",
		contextual: true,
		template: ConfidenceTemplate{
			Base:             0.2,
			Keywords:         []string{"правда", "достоверн", "проверь факт", "fact check"},
			KeywordBoost:     0.2,
			KeywordCeiling:   0.4,
			ContextBoost:     0.25,
			RequiresUpstream: true,
		},
	}}
}

// NewComparisonAgent produces structured comparisons between alternatives.
func NewComparisonAgent(llmProvider llm.Provider) Agent {
	return &llmTextAgent{llmProvider: llmProvider, textAgent: &textAgent{
		agentType:  TypeComparison,
		prompt:     "Ты агент сравнения. Строй структурированные сравнительные таблицы альтернатив со взвешенной оценкой.",
		contextual: true,
		template: ConfidenceTemplate{
			Base:           0.2,
			Keywords:       []string{"сравни", "что лучше", "versus", " vs ", "отличия"},
			KeywordBoost:   0.25,
			KeywordCeiling: 0.5,
			ContextBoost:   0.15,
		},
	}}
}

// NewSummaryAgent condenses long text into key points. Requires upstream
// data: nothing to summarize without it.
func NewSummaryAgent(llmProvider llm.Provider) Agent {
	return &llmTextAgent{llmProvider: llmProvider, textAgent: &textAgent{
		agentType:  TypeSummary,
		prompt:     "Ты агент резюмирования. Выделяй ключевые пункты длинного текста, делай краткую выжимку.",
		contextual: true,
		template: ConfidenceTemplate{
			Base:             0.2,
			Keywords:         []string{"резюм", "кратко", "выжимк", "summary", "tldr"},
			KeywordBoost:     0.25,
			KeywordCeiling:   0.5,
			ContextBoost:     0.2,
			RequiresUpstream: true,
		},
	}}
}

// NewClarificationAgent generates disambiguating questions for ambiguous
// requests.
func NewClarificationAgent(llmProvider llm.Provider) Agent {
	return &llmTextAgent{llmProvider: llmProvider, textAgent: &textAgent{
		agentType:  TypeClarification,
		prompt:     "Ты агент уточнения. Задавай уточняющие вопросы, когда запрос пользователя неоднозначен.",
		contextual: true,
		template: ConfidenceTemplate{
			Base:           0.15,
			Keywords:       []string{"не понял", "уточни", "что имеешь в виду"},
			KeywordBoost:   0.2,
			KeywordCeiling: 0.4,
			ContextBoost:   0.05,
		},
	}}
}

// NewExpertiseAgent provides domain-flavored answers, selecting a
// sub-domain (security, legal, finance, architecture) from message
// keywords.
func NewExpertiseAgent(llmProvider llm.Provider) Agent {
	a := &llmTextAgent{llmProvider: llmProvider, textAgent: &textAgent{
		agentType:  TypeExpertise,
		contextual: true,
		template: ConfidenceTemplate{
			Base:           0.2,
			KeywordBoost:   0.25,
			KeywordCeiling: 0.5,
			ContextBoost:   0.1,
		},
	}}
	a.template.Custom = func(lowerMsg string, agentCtx Context) float64 {
		switch {
		case strings.Contains(lowerMsg, "безопасност") || strings.Contains(lowerMsg, "security"):
			return 0.3
		case strings.Contains(lowerMsg, "юридич") || strings.Contains(lowerMsg, "legal") || strings.Contains(lowerMsg, "закон"):
			return 0.3
		case strings.Contains(lowerMsg, "финанс") || strings.Contains(lowerMsg, "бюджет"):
			return 0.3
		case strings.Contains(lowerMsg, "архитектур"):
			return 0.3
		default:
			return 0
		}
	}
	a.prompt = expertisePrompt(a)
	return a
}

func expertisePrompt(a *llmTextAgent) string {
	return "Ты эксперт широкого профиля: безопасность, юридические вопросы, финансы, архитектура. " +
		"Определи нужный домен по вопросу пользователя и отвечай с экспертной точностью в этой области."
}
