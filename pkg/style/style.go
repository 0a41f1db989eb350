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

// Package style maps a configured style tag to the system-prompt string
// agents prepend to their own instructions.
package style

// Tag identifies a response style.
type Tag string

const (
	Default     Tag = "default"
	Concise     Tag = "concise"
	Friendly    Tag = "friendly"
	Professional Tag = "professional"
	Technical   Tag = "technical"
)

var catalog = map[Tag]string{
	Default: "Ты — полезный ассистент. Отвечай ясно и по делу, без лишних церемоний.",
	Concise: "Отвечай максимально коротко, только суть, без вступлений и заключений.",
	Friendly: "Общайся тепло и неформально, как с хорошим знакомым, но не теряй точность.",
	Professional: "Держи деловой, нейтральный тон, избегай жаргона и эмоциональной окраски.",
	Technical: "Отвечай с инженерной точностью: термины, цифры, ссылки на механизмы, минимум воды.",
}

// Prompt returns the system-prompt string for tag, falling back to Default
// for any unrecognized tag.
func Prompt(tag Tag) string {
	if p, ok := catalog[tag]; ok {
		return p
	}
	return catalog[Default]
}

// Register adds or overrides a style tag's prompt. Intended for startup-time
// configuration extension, not runtime mutation from request handling.
func Register(tag Tag, prompt string) {
	catalog[tag] = prompt
}
