package tokenize

import "unicode"

// scriptClass buckets a rune by writing system for boundary scoring.
type scriptClass int

const (
	classOther scriptClass = iota
	classSpace
	classPunct
	classKanji
	classHiragana
	classKatakana
	classLatin
	classDigit
)

func classOf(r rune) scriptClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case unicode.IsDigit(r):
		return classDigit
	case unicode.In(r, unicode.Han):
		return classKanji
	case unicode.In(r, unicode.Hiragana):
		return classHiragana
	case unicode.In(r, unicode.Katakana), r == 'ー':
		return classKatakana
	case unicode.In(r, unicode.Latin):
		return classLatin
	case unicode.IsPunct(r), unicode.IsSymbol(r):
		return classPunct
	default:
		return classOther
	}
}

// boundaryWeight scores a transition between adjacent script classes.
// Positive means a token boundary. Pairs absent from the table default to a
// weak boundary; identical classes never split.
var boundaryWeight = map[[2]scriptClass]int{
	{classKanji, classHiragana}:    1, // okurigana detaches: 進めた → 進 / めた
	{classHiragana, classKanji}:    2,
	{classHiragana, classKatakana}: 2,
	{classKatakana, classHiragana}: 2,
	{classLatin, classDigit}:       -1, // version-style runs stay whole: v2, IPv6
	{classDigit, classLatin}:       1,  // unit suffixes detach: 5 / km
}

func boundaryScore(prev, next scriptClass) int {
	if prev == next {
		return -2
	}
	if w, ok := boundaryWeight[[2]scriptClass{prev, next}]; ok {
		return w
	}
	return 1
}

// Statistical is a dictionary-free segmenter. It scores every transition
// between script classes and splits where the score is positive, keeping
// digit runs (including decimal and thousands separators) and Latin runs
// atomic. It needs no external resources and cannot fail.
type Statistical struct{}

// NewStatistical returns the dictionary-free segmenter.
func NewStatistical() Statistical { return Statistical{} }

// Name implements Strategy.
func (Statistical) Name() string { return "statistical" }

// Tokenize implements Strategy. Whitespace and punctuation delimit tokens
// and are dropped; they carry no weight in frequency ranking.
func (Statistical) Tokenize(sentence string) ([]string, error) {
	runes := []rune(sentence)
	var tokens []string
	var cur []rune
	prev := classSpace

	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = nil
		}
	}

	for i, r := range runes {
		cls := classOf(r)
		// A separator between two digits is part of the number: 3.5, 1,000.
		if (r == '.' || r == ',' || r == '．' || r == '，') &&
			i > 0 && i+1 < len(runes) &&
			classOf(runes[i-1]) == classDigit && classOf(runes[i+1]) == classDigit {
			cls = classDigit
		}
		if cls == classSpace || cls == classPunct {
			flush()
			prev = cls
			continue
		}
		if len(cur) > 0 && boundaryScore(prev, cls) > 0 {
			flush()
		}
		cur = append(cur, r)
		prev = cls
	}
	flush()
	return tokens, nil
}
