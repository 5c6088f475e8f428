// Package keywords implements the word-boundary phrase matching shared by the
// intent classifier and the quick-action router.
//
// A keyword is one of:
//   - a phrase ("state visit"), matched on word boundaries;
//   - a stem ending in '*' ("approv*"), matched as a word prefix;
//   - a conjunction of the above joined by '+' ("vip+visit*"), matched when every part matches.
package keywords

import (
	"strings"
	"unicode"
)

// Normalize lower-cases text and collapses runs of whitespace to single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Match reports whether keyword occurs in normalized text.
func Match(normalized, keyword string) bool {
	for _, part := range strings.Split(keyword, "+") {
		if !matchPart(normalized, part) {
			return false
		}
	}
	return true
}

// Any reports whether at least one keyword matches.
func Any(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if Match(normalized, kw) {
			return true
		}
	}
	return false
}

// Matched returns the keywords that match, in table order.
func Matched(normalized string, keywords []string) []string {
	out := []string{}
	for _, kw := range keywords {
		if Match(normalized, kw) {
			out = append(out, kw)
		}
	}
	return out
}

// Strength is the number of words a keyword spans; conjunctions add their parts.
func Strength(keyword string) int {
	n := 0
	for _, part := range strings.Split(keyword, "+") {
		n += len(strings.Fields(strings.TrimSuffix(part, "*")))
	}
	return n
}

func matchPart(text, part string) bool {
	prefix := strings.HasSuffix(part, "*")
	phrase := strings.TrimSuffix(part, "*")
	if phrase == "" {
		return false
	}

	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], phrase)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(phrase)
		if boundaryBefore(text, start) && (prefix || boundaryAfter(text, end)) {
			return true
		}
		offset = start + 1
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordByte(text[i-1])
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	return !isWordByte(text[i])
}

func isWordByte(b byte) bool {
	if b >= 0x80 {
		// part of a multi-byte rune; treat letters outside ASCII as word characters
		return true
	}
	r := rune(b)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
