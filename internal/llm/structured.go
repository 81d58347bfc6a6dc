package llm

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const fence = "```"

var reThinking = regexp.MustCompile(`(?is)<think>.*?</think>`)

// StripThinking removes <think>...</think> blocks that reasoning models
// such as qwen3 prepend to their answer.
func StripThinking(s string) string {
	return strings.TrimSpace(reThinking.ReplaceAllString(s, ""))
}

// UnwrapJSON strips one Markdown code fence around a model reply. A
// leading fence may carry a language tag ("```json"); a trailing fence
// is removed when present. Text without fences is only trimmed. The
// function is total: it never fails, it only removes fence markers.
func UnwrapJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, fence) {
		s = s[len(fence):]
		// Language tag runs up to the first whitespace or the payload.
		end := strings.IndexFunc(s, func(r rune) bool {
			return r == '\n' || r == '\r' || r == ' ' || r == '\t' || r == '{' || r == '['
		})
		if end < 0 {
			s = ""
		} else {
			s = s[end:]
		}
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, fence) {
		s = strings.TrimSpace(s[:len(s)-len(fence)])
	}
	return s
}

// truncateForLogging caps s at roughly 500 bytes, cutting on a rune
// boundary so Hangul stays valid UTF-8.
func truncateForLogging(s string) string {
	const maxLength = 500
	if len(s) <= maxLength {
		return s
	}
	cut := maxLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "... [truncated]"
}
