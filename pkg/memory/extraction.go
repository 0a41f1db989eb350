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

package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kadirpekel/aide/pkg/llm"
	"github.com/kadirpekel/aide/pkg/logger"
	"github.com/kadirpekel/aide/pkg/message"
)

const extractionPrompt = `Ты - система извлечения информации о пользователе из сообщений.

Проанализируй последнее сообщение пользователя и извлеки из него факты о пользователе.
Извлекай только факты, которые являются персональной информацией, предпочтениями или важными деталями, достойными запоминания. Не извлекай временную или тривиальную информацию, и ничего о третьих лицах.

История беседы:
%s

Последнее сообщение пользователя: %s

Ответь СТРОГО валидным JSON без пояснений, в формате:
{
  "facts": [{"fact_type": "...", "fact_key": "...", "fact_value": "...", "confidence": 0.0, "reasoning": "..."}],
  "should_update_profile": false,
  "profile_updates": {"preferred_name": null, "age": null, "location": null, "occupation": null, "interests": null, "expertise_areas": null}
}`

type extractedFact struct {
	FactType   string  `json:"fact_type"`
	FactKey    string  `json:"fact_key"`
	FactValue  string  `json:"fact_value"`
	Confidence float64 `json:"confidence"`
}

type profileUpdates struct {
	PreferredName  *string  `json:"preferred_name"`
	Age            *int     `json:"age"`
	Location       *string  `json:"location"`
	Occupation     *string  `json:"occupation"`
	Interests      []string `json:"interests"`
	ExpertiseAreas []string `json:"expertise_areas"`
}

type extractionEnvelope struct {
	Facts              []extractedFact `json:"facts"`
	ShouldUpdateProfile bool           `json:"should_update_profile"`
	ProfileUpdates     profileUpdates  `json:"profile_updates"`
}

// ExtractionResult summarizes one extraction run.
type ExtractionResult struct {
	Extracted      bool
	Reason         string
	FactsCount     int
	ProfileUpdated bool
}

// ExtractionService runs the LLM-driven fact/profile extraction pipeline
// of spec.md §4.6 against a Repository.
type ExtractionService struct {
	llmProvider         llm.Provider
	repo                Repository
	enabled             bool
	confidenceThreshold float64
}

// NewExtractionService constructs the extraction service.
func NewExtractionService(llmProvider llm.Provider, repo Repository, enabled bool, confidenceThreshold float64) *ExtractionService {
	return &ExtractionService{llmProvider: llmProvider, repo: repo, enabled: enabled, confidenceThreshold: confidenceThreshold}
}

// ExtractAndStore analyzes userMessage against history, upserts any fact
// whose confidence meets the configured threshold (tagged
// source=llm_extraction), and merges profile_updates into the user's
// profile when should_update_profile is true and at least one field is
// non-null. Best-effort: callers should never let this fail a turn.
func (s *ExtractionService) ExtractAndStore(ctx context.Context, userID int64, userMessage string, history []message.Message) (ExtractionResult, error) {
	if !s.enabled {
		return ExtractionResult{Reason: "extraction_disabled"}, nil
	}

	prompt := fmt.Sprintf(extractionPrompt, formatHistory(history, 10), userMessage)
	resp, err := s.llmProvider.Generate(ctx, llm.Request{
		Messages: []message.Message{message.New(message.RoleUser, prompt)},
	})
	if err != nil {
		return ExtractionResult{Reason: "error"}, fmt.Errorf("memory: extraction generate: %w", err)
	}

	env, ok := parseExtractionResponse(resp.Content)
	if !ok {
		logger.Get().Warn("failed to parse extraction response")
		return ExtractionResult{Reason: "parse_error"}, nil
	}

	stored := 0
	for _, f := range env.Facts {
		if f.Confidence < s.confidenceThreshold {
			continue
		}
		err := s.repo.UpsertFact(ctx, Fact{
			UserID:     userID,
			FactType:   f.FactType,
			FactKey:    f.FactKey,
			FactValue:  f.FactValue,
			Confidence: f.Confidence,
			Source:     "llm_extraction",
		})
		if err != nil {
			logger.Get().Warn("failed to store extracted fact", "user_id", userID, "fact_key", f.FactKey, "error", err)
			continue
		}
		stored++
	}

	profileUpdated := false
	if env.ShouldUpdateProfile && hasNonNilUpdate(env.ProfileUpdates) {
		update := Profile{UserID: userID}
		if env.ProfileUpdates.PreferredName != nil {
			update.PreferredName = *env.ProfileUpdates.PreferredName
		}
		if env.ProfileUpdates.Age != nil {
			update.Age = *env.ProfileUpdates.Age
		}
		if env.ProfileUpdates.Location != nil {
			update.Location = *env.ProfileUpdates.Location
		}
		if env.ProfileUpdates.Occupation != nil {
			update.Occupation = *env.ProfileUpdates.Occupation
		}
		update.Interests = env.ProfileUpdates.Interests
		update.ExpertiseAreas = env.ProfileUpdates.ExpertiseAreas

		if err := s.repo.UpsertProfile(ctx, update); err != nil {
			logger.Get().Warn("failed to update profile from extraction", "user_id", userID, "error", err)
		} else {
			profileUpdated = true
		}
	}

	_ = s.repo.RecordExtractionEvent(ctx, ExtractionEvent{UserID: userID, Message: userMessage, FactsFound: stored})

	return ExtractionResult{Extracted: true, FactsCount: stored, ProfileUpdated: profileUpdated}, nil
}

func hasNonNilUpdate(u profileUpdates) bool {
	return u.PreferredName != nil || u.Age != nil || u.Location != nil || u.Occupation != nil || len(u.Interests) > 0 || len(u.ExpertiseAreas) > 0
}

func formatHistory(history []message.Message, maxMessages int) string {
	if len(history) == 0 {
		return "История пуста."
	}
	start := 0
	if len(history) > maxMessages {
		start = len(history) - maxMessages
	}

	var lines []string
	for _, m := range history[start:] {
		role := "Ассистент"
		if m.Role == message.RoleUser {
			role = "Пользователь"
		}
		content := m.Content
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		lines = append(lines, role+": "+content)
	}
	return strings.Join(lines, "\n")
}

// parseExtractionResponse strips a wrapping markdown code fence (if any)
// and unmarshals the extraction envelope.
func parseExtractionResponse(raw string) (extractionEnvelope, bool) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
			lines = lines[1:]
		}
		if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
			lines = lines[:len(lines)-1]
		}
		trimmed = strings.Join(lines, "\n")
	}

	var env extractionEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return extractionEnvelope{}, false
	}
	return env, true
}
