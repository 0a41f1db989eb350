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

package textstyle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTMLBasicSpans(t *testing.T) {
	assert.Equal(t, "<b>bold</b>", ToHTML("**bold**"))
	assert.Equal(t, "<i>italic</i>", ToHTML("*italic*"))
	assert.Equal(t, "<code>x := 1</code>", ToHTML("`x := 1`"))
	assert.Equal(t, "<s>gone</s>", ToHTML("~~gone~~"))
	assert.Equal(t, "<tg-spoiler>hidden</tg-spoiler>", ToHTML("||hidden||"))
}

func TestToHTMLNestedFormatting(t *testing.T) {
	assert.Equal(t, "<b>bold <i>nested</i></b>", ToHTML("**bold *nested***"))
}

func TestToHTMLLink(t *testing.T) {
	assert.Equal(t, `<a href="https://example.com">click</a>`, ToHTML("[click](https://example.com)"))
}

func TestToHTMLEscapesRawAngleBrackets(t *testing.T) {
	assert.Equal(t, "a &lt; b", ToHTML("a < b"))
}

func TestToHTMLCodeBlockNotFormatted(t *testing.T) {
	assert.Equal(t, "<pre>**not bold**</pre>", ToHTML("```**not bold**```"))
}

func TestChunkShortTextUnchanged(t *testing.T) {
	assert.Equal(t, []string{"short"}, Chunk("short", 4096))
}

func TestChunkPrefersParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("a", 50)
	para2 := strings.Repeat("b", 50)
	text := para1 + "\n\n" + para2

	chunks := Chunk(text, 60)
	assert.Len(t, chunks, 2)
	assert.True(t, strings.HasSuffix(chunks[0], "\n\n"))
}

func TestChunkAllWithinLimit(t *testing.T) {
	text := strings.Repeat("word ", 2000)
	chunks := Chunk(text, 100)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 100)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}
