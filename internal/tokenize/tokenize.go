// Package tokenize segments Japanese sentences into word-like tokens.
//
// Japanese text carries no whitespace word boundaries, so statistical
// ranking needs a segmenter. Three strategies exist, tried in preference
// order; the first one that initializes and survives a probe sentence is
// fixed for the process lifetime.
package tokenize

import (
	"fmt"
	"log/slog"
	"sync"
)

// Strategy converts one sentence into an ordered sequence of tokens.
type Strategy interface {
	Name() string
	Tokenize(sentence string) ([]string, error)
}

// Constructor builds a Strategy, failing when the strategy cannot be
// initialized (e.g. its dictionary cannot be loaded).
type Constructor func() (Strategy, error)

// probe exercises a candidate strategy once before committing to it.
const probe = "本日は作業ログを整理した。"

// Chain picks the first working strategy from an ordered list and uses it
// for every subsequent call. Selection happens once, on first use; concurrent
// first callers share the single initialization.
type Chain struct {
	ctors  []Constructor
	logger *slog.Logger

	once   sync.Once
	active Strategy
}

// NewChain builds a chain over the given constructors. A rune-split last
// resort is always appended, so tokenization never fails outright.
func NewChain(logger *slog.Logger, ctors ...Constructor) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{ctors: ctors, logger: logger}
}

// DefaultChain returns the standard preference order: statistical segmenter,
// then dictionary-based morphological analysis, then rune splitting.
func DefaultChain(logger *slog.Logger) *Chain {
	return NewChain(logger,
		func() (Strategy, error) { return NewStatistical(), nil },
		func() (Strategy, error) { return NewMorphological() },
	)
}

// ByName returns a constructor for the named strategy.
func ByName(name string) (Constructor, error) {
	switch name {
	case "statistical":
		return func() (Strategy, error) { return NewStatistical(), nil }, nil
	case "morphological":
		return func() (Strategy, error) { return NewMorphological() }, nil
	case "rune":
		return func() (Strategy, error) { return RuneSplit{}, nil }, nil
	default:
		return nil, fmt.Errorf("tokenize: unknown strategy %q", name)
	}
}

func (c *Chain) selectStrategy() {
	for i, ctor := range c.ctors {
		s, err := ctor()
		if err == nil {
			if _, perr := s.Tokenize(probe); perr == nil {
				c.active = s
				if i > 0 {
					c.logger.Warn("tokenize: segmentation degraded",
						slog.String("strategy", s.Name()),
						slog.Int("skipped", i))
				}
				return
			}
			err = fmt.Errorf("probe failed")
		}
		c.logger.Warn("tokenize: strategy unavailable",
			slog.String("strategy", fmt.Sprintf("#%d", i)),
			slog.String("error", err.Error()))
	}
	c.active = RuneSplit{}
	c.logger.Warn("tokenize: segmentation degraded",
		slog.String("strategy", c.active.Name()),
		slog.Int("skipped", len(c.ctors)))
}

// Active reports the selected strategy's name, forcing selection if needed.
func (c *Chain) Active() string {
	c.once.Do(c.selectStrategy)
	return c.active.Name()
}

// Tokenize segments a sentence with the selected strategy. A call-time
// failure degrades to rune splitting for that sentence; errors never reach
// the caller. An empty sentence yields no tokens.
func (c *Chain) Tokenize(sentence string) []string {
	if sentence == "" {
		return nil
	}
	c.once.Do(c.selectStrategy)
	tokens, err := c.active.Tokenize(sentence)
	if err != nil {
		c.logger.Debug("tokenize: call degraded to rune split",
			slog.String("strategy", c.active.Name()),
			slog.String("error", err.Error()))
		tokens, _ = RuneSplit{}.Tokenize(sentence)
	}
	return tokens
}
