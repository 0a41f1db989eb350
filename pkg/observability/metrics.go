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

package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the agent dispatch/execution
// pipeline, the LLM providers, and the memory service. Unlike the breaker
// gauge in pkg/reliability (registered against the global default
// registerer), Metrics owns a private registry so a caller can mount it on
// its own /metrics endpoint without colliding with other registrations.
type Metrics struct {
	namespace string
	registry  *prometheus.Registry

	agentCalls        *prometheus.CounterVec
	agentCallDuration *prometheus.HistogramVec
	agentErrors       *prometheus.CounterVec

	llmCalls        *prometheus.CounterVec
	llmCallDuration *prometheus.HistogramVec
	llmTokensInput  *prometheus.CounterVec
	llmTokensOutput *prometheus.CounterVec
	llmErrors       *prometheus.CounterVec

	memoryExtractions    *prometheus.CounterVec
	memoryExtractionDur  *prometheus.HistogramVec
	memoryFactsPersisted *prometheus.CounterVec
}

// NewMetrics creates a Metrics collector under namespace (empty uses no
// namespace prefix).
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		namespace: namespace,
		registry:  prometheus.NewRegistry(),
	}

	m.agentCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "calls_total",
			Help:      "Total number of agent invocations.",
		},
		[]string{"agent_type"},
	)
	m.agentCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "call_duration_seconds",
			Help:      "Agent invocation duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
		},
		[]string{"agent_type"},
	)
	m.agentErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "errors_total",
			Help:      "Total number of agent errors.",
		},
		[]string{"agent_type"},
	)

	m.llmCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total number of LLM provider calls.",
		},
		[]string{"provider", "model"},
	)
	m.llmCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "LLM provider call duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~200s
		},
		[]string{"provider", "model"},
	)
	m.llmTokensInput = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_input_total",
			Help:      "Total input tokens sent to LLM providers.",
		},
		[]string{"provider", "model"},
	)
	m.llmTokensOutput = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_output_total",
			Help:      "Total output tokens received from LLM providers.",
		},
		[]string{"provider", "model"},
	)
	m.llmErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "errors_total",
			Help:      "Total number of LLM provider errors.",
		},
		[]string{"provider", "model"},
	)

	m.memoryExtractions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memory",
			Name:      "extractions_total",
			Help:      "Total number of fact-extraction runs.",
		},
		[]string{"outcome"},
	)
	m.memoryExtractionDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "memory",
			Name:      "extraction_duration_seconds",
			Help:      "Fact-extraction run duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"outcome"},
	)
	m.memoryFactsPersisted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memory",
			Name:      "facts_persisted_total",
			Help:      "Total number of facts written to long-term memory.",
		},
		[]string{"category"},
	)

	m.registry.MustRegister(
		m.agentCalls, m.agentCallDuration, m.agentErrors,
		m.llmCalls, m.llmCallDuration, m.llmTokensInput, m.llmTokensOutput, m.llmErrors,
		m.memoryExtractions, m.memoryExtractionDur, m.memoryFactsPersisted,
	)

	return m
}

// RecordAgentCall records one agent invocation and its duration.
func (m *Metrics) RecordAgentCall(agentType string, duration time.Duration) {
	if m == nil {
		return
	}
	m.agentCalls.WithLabelValues(agentType).Inc()
	m.agentCallDuration.WithLabelValues(agentType).Observe(duration.Seconds())
}

// RecordAgentError records an agent invocation that returned an error.
func (m *Metrics) RecordAgentError(agentType string) {
	if m == nil {
		return
	}
	m.agentErrors.WithLabelValues(agentType).Inc()
}

// RecordLLMCall records one provider call, its duration, and token usage.
func (m *Metrics) RecordLLMCall(provider, model string, duration time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	m.llmCalls.WithLabelValues(provider, model).Inc()
	m.llmCallDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
	if inputTokens > 0 {
		m.llmTokensInput.WithLabelValues(provider, model).Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.llmTokensOutput.WithLabelValues(provider, model).Add(float64(outputTokens))
	}
}

// RecordLLMError records a provider call that returned an error.
func (m *Metrics) RecordLLMError(provider, model string) {
	if m == nil {
		return
	}
	m.llmErrors.WithLabelValues(provider, model).Inc()
}

// RecordExtraction records one fact-extraction run, its outcome
// ("ok"/"error"), duration, and how many facts it persisted.
func (m *Metrics) RecordExtraction(outcome string, duration time.Duration, factsByCategory map[string]int) {
	if m == nil {
		return
	}
	m.memoryExtractions.WithLabelValues(outcome).Inc()
	m.memoryExtractionDur.WithLabelValues(outcome).Observe(duration.Seconds())
	for category, count := range factsByCategory {
		if count > 0 {
			m.memoryFactsPersisted.WithLabelValues(category).Add(float64(count))
		}
	}
}

// Handler returns an http.Handler serving this collector's metrics in the
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
