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

// Command assistant wires configuration, persistence, the agent registry,
// and the dialog manager into a running core. It does not itself speak to
// any chat transport — wiring a transport's message loop to
// dialog.Manager.Process is left to that transport's own entrypoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kadirpekel/aide/pkg/agent"
	"github.com/kadirpekel/aide/pkg/config"
	"github.com/kadirpekel/aide/pkg/dialog"
	"github.com/kadirpekel/aide/pkg/dispatcher"
	"github.com/kadirpekel/aide/pkg/llm"
	"github.com/kadirpekel/aide/pkg/logger"
	"github.com/kadirpekel/aide/pkg/memory"
	"github.com/kadirpekel/aide/pkg/observability"
	"github.com/kadirpekel/aide/pkg/orchestrator"
	"github.com/kadirpekel/aide/pkg/registry"
	"github.com/kadirpekel/aide/pkg/search"
	"github.com/kadirpekel/aide/pkg/style"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	envFile := flag.String("env-file", ".env", "path to a .env overlay (optional)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	level, err := logger.ParseLevel(*logLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	logger.Init(level, os.Stderr, "simple")

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		logger.Get().Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Get().Info("shutting down")
		cancel()
	}()

	tp, err := observability.InitGlobalTracer(ctx, observability.NewTracerConfig(observability.ObservabilityConfig{
		TracingEnabled: cfg.Observability.TracingEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		OTLPEndpoint:   cfg.Observability.OTLPEndpoint,
		SamplingRate:   cfg.Observability.SamplingRate,
	}))
	if err != nil {
		logger.Get().Warn("tracing disabled: failed to init tracer provider", "error", err)
	} else if shutdownable, ok := tp.(interface{ Shutdown(context.Context) error }); ok {
		defer shutdownable.Shutdown(ctx)
	}
	dialog.SetTracer(observability.GetTracer("dialog"))

	metrics := observability.NewMetrics("aide")
	if cfg.Observability.MetricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: cfg.Observability.MetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Get().Warn("metrics server stopped", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	mgr, closeFn, err := build(ctx, cfg, metrics)
	if err != nil {
		logger.Get().Error("failed to build assistant core", "error", err)
		os.Exit(1)
	}
	defer closeFn()

	logger.Get().Info("assistant core ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	_ = mgr

	<-ctx.Done()
}

// build constructs every component named in SPEC_FULL.md's module table
// and returns the dialog manager that drives one turn end to end.
func build(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (*dialog.Manager, func(), error) {
	llmProvider := llm.Instrument(buildLLMProvider(cfg.LLM), metrics)

	var searchProvider search.Provider
	if cfg.WebSearch.Enabled {
		searchProvider = search.NewMCPProvider(cfg.WebSearch.Endpoint, cfg.WebSearch.APIKey, cfg.WebSearch.Timeout)
	}

	agents := registry.NewBaseRegistry[agent.Agent]()
	mustRegister(agents, agent.NewDefaultAgent(llmProvider, style.Tag(cfg.Style.Tag)))
	if searchProvider != nil {
		mustRegister(agents, agent.Agent(agent.NewWebSearchAgent(llmProvider, searchProvider)))
	}
	mustRegister(agents, agent.NewKnowledgeBaseAgent(llmProvider))
	mustRegister(agents, agent.NewTechDocsAgent(llmProvider))
	mustRegister(agents, agent.NewCodeAnalysisAgent(llmProvider))
	mustRegister(agents, agent.NewMetricsAgent(llmProvider))
	mustRegister(agents, agent.NewNewsAgent(llmProvider))
	mustRegister(agents, agent.NewAnalysisAgent(llmProvider))
	mustRegister(agents, agent.NewFactCheckAgent(llmProvider))
	mustRegister(agents, agent.NewComparisonAgent(llmProvider))
	mustRegister(agents, agent.NewSummaryAgent(llmProvider))
	mustRegister(agents, agent.NewClarificationAgent(llmProvider))
	mustRegister(agents, agent.NewExpertiseAgent(llmProvider))

	disp := dispatcher.New(llmProvider, agents)
	executor := orchestrator.NewExecutor(agents)

	var memSvc *memory.Service
	var extractionSvc *memory.ExtractionService
	var closeStore func()

	if cfg.Memory.LongTermEnabled {
		store, err := memory.Open(cfg.Database.DSN(), cfg.Database.MinPoolSize, cfg.Database.MaxPoolSize)
		if err != nil {
			return nil, nil, fmt.Errorf("assistant: open memory store: %w", err)
		}
		memSvc = memory.NewService(store, cfg.Memory.ShortTermMaxMessages)
		extractionSvc = memory.NewExtractionService(llmProvider, store, cfg.Memory.LongTermExtractionEnabled, cfg.Memory.LongTermConfidenceThreshold)
		closeStore = func() { _ = store.Close() }
	} else {
		repo := memory.NewFakeRepository()
		memSvc = memory.NewService(repo, cfg.Memory.ShortTermMaxMessages)
		extractionSvc = memory.NewExtractionService(llmProvider, repo, cfg.Memory.LongTermExtractionEnabled, cfg.Memory.LongTermConfidenceThreshold)
		closeStore = func() {}
	}

	mgr := dialog.NewManager(dialog.Config{
		Memory:       memSvc,
		Extraction:   extractionSvc,
		Dispatcher:   disp,
		Executor:     executor,
		Agents:       agents,
		Metrics:      metrics,
		MaxContexts:  10000,
		HistorySize:  cfg.Memory.ShortTermMaxMessages,
		ContextTTL:   time.Duration(cfg.Memory.ShortTermSessionTimeoutS) * time.Second,
		HistoryLimit: cfg.Memory.ShortTermMaxMessages,
	})

	return mgr, closeStore, nil
}

func buildLLMProvider(cfg config.LLMConfig) llm.Provider {
	switch cfg.Provider {
	case config.LLMProviderOpenAI:
		return llm.NewOpenAIProvider(llm.OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Host:    cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	default:
		return llm.NewAnthropicProvider(llm.AnthropicConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Host:    cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	}
}

func mustRegister(agents *registry.BaseRegistry[agent.Agent], a agent.Agent) {
	if err := agents.Register(string(a.Type()), a); err != nil {
		logger.Get().Error("failed to register agent", "type", a.Type(), "error", err)
		os.Exit(1)
	}
}
