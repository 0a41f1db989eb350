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

package llm

import (
	"context"
	"time"

	"github.com/kadirpekel/aide/pkg/message"
	"github.com/kadirpekel/aide/pkg/observability"
)

// instrumentedProvider wraps a Provider, recording every call's duration,
// token usage, and error outcome to a shared Metrics collector. Wrapping at
// the Provider boundary keeps the Anthropic/OpenAI implementations free of
// any observability concern of their own.
type instrumentedProvider struct {
	inner   Provider
	metrics *observability.Metrics
}

// Instrument wraps p so every Generate call is recorded against metrics.
// A nil metrics makes this a no-op wrapper (Metrics' methods are
// nil-receiver safe), so callers can always wrap unconditionally.
func Instrument(p Provider, metrics *observability.Metrics) Provider {
	return &instrumentedProvider{inner: p, metrics: metrics}
}

func (p *instrumentedProvider) Name() string  { return p.inner.Name() }
func (p *instrumentedProvider) Model() string { return p.inner.Model() }

func (p *instrumentedProvider) Generate(ctx context.Context, req Request) (message.Response, error) {
	start := time.Now()
	resp, err := p.inner.Generate(ctx, req)
	if err != nil {
		p.metrics.RecordLLMError(p.inner.Name(), p.inner.Model())
		return resp, err
	}

	inputTokens, outputTokens := 0, 0
	if resp.Usage != nil {
		inputTokens, outputTokens = resp.Usage.PromptTokens, resp.Usage.CompletionTokens
	}
	p.metrics.RecordLLMCall(p.inner.Name(), p.inner.Model(), time.Since(start), inputTokens, outputTokens)
	return resp, nil
}
