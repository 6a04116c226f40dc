package tokenize

import "strings"

// RuneSplit is the last-resort segmenter: it splits on whitespace and
// punctuation only. For Japanese text this usually yields whole clauses as
// single tokens, which degrades ranking quality but never fails.
type RuneSplit struct{}

// Name implements Strategy.
func (RuneSplit) Name() string { return "rune" }

// Tokenize implements Strategy.
func (RuneSplit) Tokenize(sentence string) ([]string, error) {
	fields := strings.FieldsFunc(sentence, func(r rune) bool {
		return classOf(r) == classSpace || classOf(r) == classPunct
	})
	return fields, nil
}
