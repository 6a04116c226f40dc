package tokenize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	kagome "github.com/ikawaha/kagome/v2/tokenizer"
)

// Morphological segments text with the kagome morphological analyzer and
// its bundled IPA dictionary. Surface forms become tokens.
type Morphological struct {
	t *kagome.Tokenizer
}

// NewMorphological loads the IPA dictionary and builds the analyzer.
func NewMorphological() (Strategy, error) {
	t, err := kagome.New(ipa.Dict(), kagome.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("tokenize: init morphological analyzer: %w", err)
	}
	return &Morphological{t: t}, nil
}

// Name implements Strategy.
func (*Morphological) Name() string { return "morphological" }

// Tokenize implements Strategy. Whitespace and pure-punctuation surfaces
// are dropped.
func (m *Morphological) Tokenize(sentence string) ([]string, error) {
	var out []string
	for _, tok := range m.t.Tokenize(sentence) {
		s := strings.TrimSpace(tok.Surface)
		if s == "" || punctOnly(s) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func punctOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}
