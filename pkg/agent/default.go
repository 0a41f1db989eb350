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
	"github.com/kadirpekel/aide/pkg/style"
)

// DefaultAgent is the terminal responder: the always-available fallback
// and the step conventionally closing every plan. It folds whatever the
// executor accumulated (search results, a previous step's output, the
// user's profile summary) into one final synthesis call.
type DefaultAgent struct {
	llmProvider llm.Provider
	style       style.Tag
}

// NewDefaultAgent constructs the default agent with a response style tag.
func NewDefaultAgent(llmProvider llm.Provider, styleTag style.Tag) *DefaultAgent {
	return &DefaultAgent{llmProvider: llmProvider, style: styleTag}
}

func (a *DefaultAgent) Type() Type { return TypeDefault }

func (a *DefaultAgent) SystemPrompt() string {
	return style.Prompt(a.style)
}

// CanHandle always returns a small positive floor: default is the catch-all
// and must never lose a can_handle comparison to 0-scoring specialists, but
// should defer to any agent that actually claims the message.
func (a *DefaultAgent) CanHandle(ctx context.Context, msg string, agentCtx Context) float64 {
	return 0.1
}

func (a *DefaultAgent) Process(ctx context.Context, msg string, agentCtx Context, history []message.Message) (Result, error) {
	var userParts []string
	userParts = append(userParts, msg)

	if agentCtx.ProfileSummary != "" {
		userParts = append(userParts, "Контекст о пользователе:\n"+agentCtx.ProfileSummary)
	}
	if agentCtx.PreviousStepOutput != "" && agentCtx.PreviousAgent != TypeDefault {
		userParts = append(userParts, fmt.Sprintf("Результат работы агента %s:\n%s", agentCtx.PreviousAgent, agentCtx.PreviousStepOutput))
	}
	if len(agentCtx.Sources) > 0 {
		userParts = append(userParts, fmt.Sprintf("Доступно источников: %d", len(agentCtx.Sources)))
	}

	msgs := make([]message.Message, 0, len(history)+2)
	msgs = append(msgs, message.New(message.RoleSystem, a.SystemPrompt()))
	msgs = append(msgs, history...)
	msgs = append(msgs, message.New(message.RoleUser, strings.Join(userParts, "\n\n")))

	resp, err := a.llmProvider.Generate(ctx, llm.Request{Messages: msgs, Temperature: 0.7, MaxTokens: 1024})
	if err != nil {
		return Result{}, fmt.Errorf("aide/agent: default agent generation: %w", err)
	}

	tokens := 0
	if resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
	}

	return Result{
		Response:   resp.Content,
		AgentType:  TypeDefault,
		Confidence: 1.0,
		TokensUsed: tokens,
	}, nil
}
