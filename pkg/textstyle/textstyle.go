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

// Package textstyle converts a markdown subset into a transport's
// rich-text dialect and chunks long replies at safe boundaries.
package textstyle

import "strings"

// ToHTML converts bold/italic/code/code-block/strikethrough/spoiler/link
// markdown into Telegram-compatible HTML, escaping everything else. It
// recurses into the content of each recognized span so nested formatting
// (e.g. bold containing italic) converts correctly.
func ToHTML(text string) string {
	if text == "" {
		return text
	}

	var out strings.Builder
	pos := 0
	n := len(text)

	for pos < n {
		switch {
		case strings.HasPrefix(text[pos:], "```"):
			if end := strings.Index(text[pos+3:], "```"); end != -1 {
				content := text[pos+3 : pos+3+end]
				out.WriteString("<pre>")
				out.WriteString(escapeHTML(content))
				out.WriteString("</pre>")
				pos += 3 + end + 3
				continue
			}
		case text[pos] == '`':
			if end := strings.IndexByte(text[pos+1:], '`'); end != -1 {
				content := text[pos+1 : pos+1+end]
				out.WriteString("<code>")
				out.WriteString(escapeHTML(content))
				out.WriteString("</code>")
				pos += 1 + end + 1
				continue
			}
		case text[pos] == '[':
			if close, ok := matchLink(text, pos); ok {
				out.WriteString(close.html)
				pos = close.next
				continue
			}
		case strings.HasPrefix(text[pos:], "**"):
			if end := strings.Index(text[pos+2:], "**"); end != -1 {
				content := text[pos+2 : pos+2+end]
				out.WriteString("<b>")
				out.WriteString(ToHTML(content))
				out.WriteString("</b>")
				pos += 2 + end + 2
				continue
			}
		case strings.HasPrefix(text[pos:], "||"):
			if end := strings.Index(text[pos+2:], "||"); end != -1 {
				content := text[pos+2 : pos+2+end]
				out.WriteString("<tg-spoiler>")
				out.WriteString(ToHTML(content))
				out.WriteString("</tg-spoiler>")
				pos += 2 + end + 2
				continue
			}
		case strings.HasPrefix(text[pos:], "~~"):
			if end := strings.Index(text[pos+2:], "~~"); end != -1 {
				content := text[pos+2 : pos+2+end]
				out.WriteString("<s>")
				out.WriteString(ToHTML(content))
				out.WriteString("</s>")
				pos += 2 + end + 2
				continue
			}
		case text[pos] == '*' || text[pos] == '_':
			delim := text[pos]
			if pos+1 < n && text[pos+1] == delim {
				out.WriteString(escapeHTML(string(delim)))
				pos++
				continue
			}
			if end := strings.IndexByte(text[pos+1:], delim); end != -1 {
				content := text[pos+1 : pos+1+end]
				out.WriteString("<i>")
				out.WriteString(ToHTML(content))
				out.WriteString("</i>")
				pos += 1 + end + 1
				continue
			}
		}
		out.WriteString(escapeHTML(string(text[pos])))
		pos++
	}
	return out.String()
}

type linkMatch struct {
	html string
	next int
}

func matchLink(text string, pos int) (linkMatch, bool) {
	closeBracket := strings.IndexByte(text[pos+1:], ']')
	if closeBracket == -1 {
		return linkMatch{}, false
	}
	closeBracket += pos + 1
	if closeBracket+1 >= len(text) || text[closeBracket+1] != '(' {
		return linkMatch{}, false
	}
	closeParen := strings.IndexByte(text[closeBracket+2:], ')')
	if closeParen == -1 {
		return linkMatch{}, false
	}
	closeParen += closeBracket + 2

	linkText := ToHTML(text[pos+1 : closeBracket])
	url := escapeHTML(text[closeBracket+2 : closeParen])
	return linkMatch{
		html: `<a href="` + url + `">` + linkText + `</a>`,
		next: closeParen + 1,
	}, true
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// Chunk splits text into pieces no longer than maxLength, preferring to
// break at a paragraph boundary, then a line boundary, then a sentence
// boundary, then a word boundary — in that order of preference — so
// formatting and meaning survive the split as cleanly as possible.
func Chunk(text string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = 4096
	}
	if len(text) <= maxLength {
		return []string{text}
	}

	var chunks []string
	remaining := text
	for len(remaining) > maxLength {
		split := splitPoint(remaining, maxLength)
		chunks = append(chunks, remaining[:split])
		remaining = remaining[split:]
	}
	if remaining != "" {
		chunks = append(chunks, remaining)
	}
	return chunks
}

func splitPoint(remaining string, maxLength int) int {
	half := maxLength / 2

	if idx := strings.LastIndex(remaining[:maxLength], "\n\n"); idx > half {
		return idx + 2
	}
	if idx := strings.LastIndex(remaining[:maxLength], "\n"); idx > half {
		return idx + 1
	}
	for _, sep := range []string{". ", "! ", "? "} {
		if idx := strings.LastIndex(remaining[:maxLength], sep); idx > half {
			return idx + len(sep)
		}
	}
	if idx := strings.LastIndex(remaining[:maxLength], " "); idx > half {
		return idx + 1
	}
	return maxLength
}
