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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/aide/pkg/message"
	"github.com/kadirpekel/aide/pkg/observability"
)

type fakeProvider struct {
	resp message.Response
	err  error
}

func (p *fakeProvider) Name() string  { return "fake" }
func (p *fakeProvider) Model() string { return "fake-model" }
func (p *fakeProvider) Generate(ctx context.Context, req Request) (message.Response, error) {
	return p.resp, p.err
}

func TestInstrumentPassesThroughSuccess(t *testing.T) {
	inner := &fakeProvider{resp: message.Response{
		Content: "hi",
		Usage:   &message.Usage{PromptTokens: 3, CompletionTokens: 5, TotalTokens: 8},
	}}
	p := Instrument(inner, observability.NewMetrics("test_instrument_success"))

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Content)
	assert.Equal(t, "fake", p.Name())
	assert.Equal(t, "fake-model", p.Model())
}

func TestInstrumentPassesThroughError(t *testing.T) {
	inner := &fakeProvider{err: errors.New("boom")}
	p := Instrument(inner, observability.NewMetrics("test_instrument_error"))

	_, err := p.Generate(context.Background(), Request{})
	assert.EqualError(t, err, "boom")
}

func TestInstrumentToleratesNilMetrics(t *testing.T) {
	inner := &fakeProvider{resp: message.Response{Content: "ok"}}
	p := Instrument(inner, nil)

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
}
