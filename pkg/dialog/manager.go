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

package dialog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kadirpekel/aide/pkg/agent"
	"github.com/kadirpekel/aide/pkg/dispatcher"
	"github.com/kadirpekel/aide/pkg/logger"
	"github.com/kadirpekel/aide/pkg/memory"
	"github.com/kadirpekel/aide/pkg/message"
	"github.com/kadirpekel/aide/pkg/observability"
	"github.com/kadirpekel/aide/pkg/orchestrator"
	"github.com/kadirpekel/aide/pkg/registry"
)

var tracer = trace.NewNoopTracerProvider().Tracer("dialog")

// SetTracer overrides the package tracer; call once at startup with the
// provider returned by observability.InitGlobalTracer.
func SetTracer(t trace.Tracer) {
	tracer = t
}

// Turn is what Manager.Process returns: the text to send back, plus
// enough bookkeeping for the caller to log or test against.
type Turn struct {
	Response   string
	AgentType  agent.Type
	SessionID  string
	TokensUsed int
	PlanSteps  []orchestrator.StepResult
}

// Manager drives one conversational turn end to end: load memory, route
// (dispatcher plan or single-agent fallback), execute, persist, extract.
// It implements spec.md §4.7.
type Manager struct {
	memorySvc    *memory.Service
	extraction   *memory.ExtractionService
	dispatcher   *dispatcher.Dispatcher
	executor     *orchestrator.Executor
	agents       registry.Registry[agent.Agent]
	contexts     *ContextManager
	historyLimit int
	metrics      *observability.Metrics
}

// Config bundles Manager's dependencies. Dispatcher is optional: when nil,
// Process falls back to CanHandle-based single-agent routing. Metrics is
// optional: a nil *observability.Metrics silently no-ops every recording
// call, so Process can always call it unconditionally.
type Config struct {
	Memory       *memory.Service
	Extraction   *memory.ExtractionService
	Dispatcher   *dispatcher.Dispatcher
	Executor     *orchestrator.Executor
	Agents       registry.Registry[agent.Agent]
	Metrics      *observability.Metrics
	MaxContexts  int
	HistorySize  int
	ContextTTL   time.Duration
	HistoryLimit int
}

// NewManager constructs a Manager from cfg.
func NewManager(cfg Config) *Manager {
	return &Manager{
		memorySvc:    cfg.Memory,
		extraction:   cfg.Extraction,
		dispatcher:   cfg.Dispatcher,
		executor:     cfg.Executor,
		agents:       cfg.Agents,
		contexts:     NewContextManager(cfg.MaxContexts, cfg.HistorySize, cfg.ContextTTL),
		historyLimit: cfg.HistoryLimit,
		metrics:      cfg.Metrics,
	}
}

// Process runs one turn for userID's userMessage and returns the final
// response to send back. It never returns an error for a failure it can
// degrade past — an LLM or storage failure downgrades to an apologetic
// Russian response rather than propagating, matching the executor's own
// fail-soft posture.
func (m *Manager) Process(ctx context.Context, user UserInfo, userMessage string) (Turn, error) {
	ctx, span := tracer.Start(ctx, "dialog.Process")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", user.UserID))

	dctx := m.contexts.GetOrCreate(user.UserID, uuid.NewString(), user)

	sessionID := dctx.State().SessionID
	if m.memorySvc != nil {
		if sess, err := m.memorySvc.GetOrCreateSession(ctx, user.UserID, sessionID, nil); err != nil {
			logger.Get().Warn("dialog: failed to open session", "error", err, "user_id", user.UserID)
		} else if sess != nil {
			sessionID = sess.ID
		}
		_ = m.memorySvc.UpsertUser(ctx, memory.User{
			TelegramID: user.UserID,
			Username:   user.Username,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			IsAllowed:  true,
		})
	}

	var memCtx memory.Context
	if m.memorySvc != nil {
		mc, err := m.memorySvc.GetMemoryContext(ctx, user.UserID, true, m.historyLimit)
		if err != nil {
			logger.Get().Warn("dialog: failed to load memory context", "error", err, "user_id", user.UserID)
		} else {
			memCtx = mc
		}
	}

	history := dctx.History()
	agentCtx := agent.Context{
		ProfileSummary: memCtx.ProfileSummary,
		Extra: map[string]any{
			"conversation_summary": memCtx.ConversationSummary,
			"session_id":           sessionID,
		},
	}

	dctx.AddUserMessage(userMessage)

	turn, planSteps := m.route(ctx, userMessage, agentCtx, history)

	dctx.AddAssistantMessage(turn.Response)
	dctx.SetCurrentAgent(turn.AgentType)

	if m.memorySvc != nil {
		start := time.Now()
		if _, err := m.memorySvc.AddMessage(ctx, user.UserID, sessionID, "user", userMessage, "", 0, 0); err != nil {
			logger.Get().Warn("dialog: failed to persist user message", "error", err)
		}
		if _, err := m.memorySvc.AddMessage(ctx, user.UserID, sessionID, "assistant", turn.Response, string(turn.AgentType), turn.TokensUsed, time.Since(start).Milliseconds()); err != nil {
			logger.Get().Warn("dialog: failed to persist assistant message", "error", err)
		}
	}

	if m.extraction != nil {
		go func() {
			bgCtx := context.Background()
			start := time.Now()
			res, err := m.extraction.ExtractAndStore(bgCtx, user.UserID, userMessage, history)
			if err != nil {
				logger.Get().Warn("dialog: fact extraction failed", "error", err, "user_id", user.UserID)
				m.metrics.RecordExtraction("error", time.Since(start), nil)
				return
			}
			m.metrics.RecordExtraction("ok", time.Since(start), map[string]int{"facts": res.FactsCount})
		}()
	}

	span.SetAttributes(attribute.String("dialog.agent", string(turn.AgentType)))
	span.SetStatus(codes.Ok, "")

	turn.SessionID = sessionID
	turn.PlanSteps = planSteps
	return turn, nil
}

// route decides between the dispatcher's multi-step plan and a single
// best-match agent, and runs whichever path applies.
func (m *Manager) route(ctx context.Context, userMessage string, agentCtx agent.Context, history []message.Message) (Turn, []orchestrator.StepResult) {
	if m.dispatcher != nil && m.executor != nil {
		plan := m.dispatcher.CreatePlan(ctx, userMessage, agentCtx)
		result := m.executor.Run(ctx, plan, userMessage, agentCtx, history)
		m.recordStepMetrics(result.Steps)

		response := result.FinalResponse
		if !result.Success || response == "" {
			response = "Извините, не получилось обработать запрос."
		}
		return Turn{
			Response:   response,
			AgentType:  lastAgentType(result.Steps),
			TokensUsed: totalTokens(result.Steps),
		}, result.Steps
	}

	chosen := m.selectBestAgent(ctx, userMessage, agentCtx)
	if chosen == nil {
		return Turn{Response: "Извините, не получилось обработать запрос.", AgentType: agent.TypeDefault}, nil
	}

	start := time.Now()
	res, err := chosen.Process(ctx, userMessage, agentCtx, history)
	if err != nil {
		m.metrics.RecordAgentError(string(chosen.Type()))
		logger.Get().Warn("dialog: agent processing failed", "error", err, "agent", chosen.Type())
		return Turn{Response: "Извините, не получилось обработать запрос.", AgentType: chosen.Type()}, nil
	}
	m.metrics.RecordAgentCall(string(chosen.Type()), time.Since(start))
	return Turn{Response: res.Response, AgentType: res.AgentType, TokensUsed: res.TokensUsed}, nil
}

// recordStepMetrics counts each dispatcher-plan step's outcome per agent
// type. The executor doesn't expose per-step timings, so only call/error
// counts are recorded here (durations are recorded by providers directly).
func (m *Manager) recordStepMetrics(steps []orchestrator.StepResult) {
	for _, s := range steps {
		agentType := string(s.Step.AgentType)
		if s.Status == orchestrator.StatusOK {
			m.metrics.RecordAgentCall(agentType, 0)
		} else if s.Status == orchestrator.StatusError {
			m.metrics.RecordAgentError(agentType)
		}
	}
}

// selectBestAgent scores every registered agent's CanHandle and returns
// the highest scorer, falling back to the registered default agent when
// nothing scores above zero. Used only when no dispatcher is configured.
func (m *Manager) selectBestAgent(ctx context.Context, userMessage string, agentCtx agent.Context) agent.Agent {
	if m.agents == nil {
		return nil
	}

	var best agent.Agent
	bestScore := -1.0
	for _, a := range m.agents.List() {
		if a.Type() == agent.TypeDispatcher {
			continue
		}
		score := a.CanHandle(ctx, userMessage, agentCtx)
		if score > bestScore {
			bestScore = score
			best = a
		}
	}
	if best != nil {
		return best
	}
	if d, ok := m.agents.Get(string(agent.TypeDefault)); ok {
		return d
	}
	return nil
}

func lastAgentType(steps []orchestrator.StepResult) agent.Type {
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].Status == orchestrator.StatusOK {
			return steps[i].Result.AgentType
		}
	}
	return agent.TypeDefault
}

func totalTokens(steps []orchestrator.StepResult) int {
	total := 0
	for _, s := range steps {
		if s.Status == orchestrator.StatusOK {
			total += s.Result.TokensUsed
		}
	}
	return total
}
