// Package summarize reduces a window of log text to its most representative
// sentences using extractive TextRank-style ranking.
package summarize

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/s-oshima-kops/automakedoc/internal/apperr"
	"github.com/s-oshima-kops/automakedoc/internal/models"
	"github.com/s-oshima-kops/automakedoc/internal/tokenize"
)

// DefaultSentenceCount applies when a template field carries no explicit
// sentence count.
const DefaultSentenceCount = 3

const (
	damping       = 0.85
	maxIterations = 50
	convergence   = 1e-6
)

// dayHeaderRe matches the 【…】 day labels inserted when a date range is
// concatenated; they are context markers, never summary candidates.
var dayHeaderRe = regexp.MustCompile(`^【.+】$`)

// Summarizer selects representative sentences from free text.
type Summarizer struct {
	chain *tokenize.Chain
}

// New creates a Summarizer over the given tokenizer chain.
func New(chain *tokenize.Chain) *Summarizer {
	return &Summarizer{chain: chain}
}

// Summarize returns up to n representative sentences from text, in their
// original narrative order. Empty input yields an empty result; n <= 0 is a
// caller contract violation.
func (s *Summarizer) Summarize(text string, n int) (*models.SummaryResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("summarize: sentence count %d: %w", n, apperr.ErrInvalidArgument)
	}

	var sents []string
	for _, sent := range SplitSentences(text) {
		if dayHeaderRe.MatchString(sent) {
			continue
		}
		sents = append(sents, sent)
	}
	if len(sents) == 0 {
		return &models.SummaryResult{}, nil
	}
	if len(sents) <= n {
		return &models.SummaryResult{Sentences: sents}, nil
	}

	scores := s.rank(sents)
	return &models.SummaryResult{Sentences: selectTop(sents, scores, n)}, nil
}

// SummarizeEntries concatenates entry bodies date-ascending, each prefixed
// with a 【…】 day header, and summarizes the combined text.
func (s *Summarizer) SummarizeEntries(entries []models.LogEntry, n int) (*models.SummaryResult, error) {
	var parts []string
	count := 0
	for _, e := range entries {
		body := strings.TrimSpace(e.Body)
		if body == "" {
			continue
		}
		count++
		parts = append(parts, "【"+models.FormatDateJa(e.Date)+"】", body, "")
	}

	res, err := s.Summarize(strings.Join(parts, "\n"), n)
	if err != nil {
		return nil, err
	}
	res.SourceEntryCount = count
	return res, nil
}

// rank runs damped power iteration over the sentence-similarity graph and
// returns one importance score per sentence. Tokenizer failures have already
// been absorbed by the chain, so ranking itself cannot fail.
func (s *Summarizer) rank(sents []string) []float64 {
	n := len(sents)
	sets := make([]map[string]struct{}, n)
	sizes := make([]int, n)
	for i, sent := range sents {
		tokens := s.chain.Tokenize(sent)
		set := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			set[strings.ToLower(tok)] = struct{}{}
		}
		sets[i] = set
		sizes[i] = len(tokens)
	}

	// Similarity: shared unique tokens, normalized by log sentence lengths.
	weights := make([][]float64, n)
	rowSum := make([]float64, n)
	for i := range weights {
		weights[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			shared := 0
			for tok := range sets[i] {
				if _, ok := sets[j][tok]; ok {
					shared++
				}
			}
			if shared == 0 {
				continue
			}
			w := float64(shared) / (math.Log(float64(sizes[i])+1) + math.Log(float64(sizes[j])+1))
			weights[i][j] = w
			weights[j][i] = w
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rowSum[i] += weights[i][j]
		}
	}

	scores := make([]float64, n)
	next := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}
	for iter := 0; iter < maxIterations; iter++ {
		delta := 0.0
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				if weights[j][i] > 0 && rowSum[j] > 0 {
					sum += scores[j] * weights[j][i] / rowSum[j]
				}
			}
			next[i] = (1-damping)/float64(n) + damping*sum
			delta += math.Abs(next[i] - scores[i])
		}
		copy(scores, next)
		if delta < convergence {
			break
		}
	}
	return scores
}

// selectTop picks the n highest-scored sentences (ties broken by earlier
// position) and returns them in original narrative order.
func selectTop(sents []string, scores []float64, n int) []string {
	idx := make([]int, len(sents))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if scores[idx[a]] != scores[idx[b]] {
			return scores[idx[a]] > scores[idx[b]]
		}
		return idx[a] < idx[b]
	})
	idx = idx[:n]
	sort.Ints(idx)

	out := make([]string, n)
	for k, i := range idx {
		out[k] = sents[i]
	}
	return out
}
