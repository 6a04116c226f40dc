package summarize

import (
	"strings"
	"unicode"
)

// closers are absorbed into the preceding sentence after a terminator, so
// 「…。」 ends after the closing bracket.
const closers = "」』）)】\"'”’"

// SplitSentences splits text into sentences on Japanese and ASCII sentence
// terminators and on newlines. Terminators and trailing closing quotes stay
// attached, so every returned sentence is an exact substring of the input
// (modulo surrounding whitespace).
//
// An ASCII period between digits (3.5) or after a single letter (e.g., U.S.)
// is not a boundary.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0

	flush := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		if s != "" {
			out = append(out, s)
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' {
			flush(i)
			start = i + 1
			continue
		}
		if !isTerminator(runes, i) {
			continue
		}
		j := i + 1
		for j < len(runes) && strings.ContainsRune(closers, runes[j]) {
			j++
		}
		flush(j)
		i = j - 1
	}
	flush(len(runes))
	return out
}

func isTerminator(runes []rune, i int) bool {
	switch runes[i] {
	case '。', '．', '！', '？', '!', '?':
		return true
	case '.':
		// Decimal point.
		if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			return false
		}
		// Single-letter abbreviation dot: e.g., U.S.
		if i > 0 && unicode.In(runes[i-1], unicode.Latin) {
			if i == 1 {
				return false
			}
			prev := runes[i-2]
			if prev == '.' || unicode.IsSpace(prev) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
