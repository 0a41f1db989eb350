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

package dispatcher

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/aide/pkg/agent"
)

func TestMustGeneratePlanSchema_ProducesValidJSONWithStepsProperty(t *testing.T) {
	raw := mustGeneratePlanSchema()
	require.NotEqual(t, "{}", raw)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))

	props, ok := decoded["properties"].(map[string]any)
	require.True(t, ok, "schema must expose a top-level properties object")
	assert.Contains(t, props, "steps")
	assert.Contains(t, props, "reasoning")
}

func TestPlanSchemaJSON_IsEmbeddedInSystemPrompt(t *testing.T) {
	d := New(&fakeProvider{}, newAgentRegistry(agent.TypeDefault))
	assert.Contains(t, d.SystemPrompt(), planSchemaJSON)
}
