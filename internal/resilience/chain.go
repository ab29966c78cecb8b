package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrWong99/inkwell/pkg/analyzer"
	"github.com/MrWong99/inkwell/pkg/types"
)

// ErrAllFailed is returned when every entry in an [AnalyzerChain] fails or
// has an open circuit breaker. With the local fallback installed as the
// terminal entry this should never escape to callers.
var ErrAllFailed = errors.New("all scoring analyzers failed")

// chainEntry pairs a scoring analyzer with its dedicated circuit breaker.
type chainEntry struct {
	analyzer analyzer.ScoringAnalyzer
	breaker  *CircuitBreaker
}

// AnalyzerChain wraps a primary scoring analyzer and zero or more
// fallbacks. When the primary fails (or its breaker is open) the next
// healthy entry is tried in registration order. The Degraded flag is
// forced on any result that did not come from the primary, so callers can
// tell a full analysis from a degraded one without knowing chain
// internals.
//
// AnalyzerChain itself implements [analyzer.ScoringAnalyzer] and is safe
// for concurrent use.
type AnalyzerChain struct {
	entries []chainEntry
	cfg     BreakerConfig
}

// Compile-time interface assertion.
var _ analyzer.ScoringAnalyzer = (*AnalyzerChain)(nil)

// NewAnalyzerChain creates a chain with primary as the first entry.
// Register fallbacks with [AnalyzerChain.AddFallback]; install
// remote.NewFallback last for never-fail behaviour.
func NewAnalyzerChain(primary analyzer.ScoringAnalyzer, cfg BreakerConfig) *AnalyzerChain {
	cbCfg := cfg
	cbCfg.Name = primary.Name()
	return &AnalyzerChain{
		entries: []chainEntry{{
			analyzer: primary,
			breaker:  NewCircuitBreaker(cbCfg),
		}},
		cfg: cfg,
	}
}

// AddFallback appends a fallback analyzer. Fallbacks are tried in the
// order they are added, after the primary.
func (c *AnalyzerChain) AddFallback(a analyzer.ScoringAnalyzer) {
	cbCfg := c.cfg
	cbCfg.Name = a.Name()
	c.entries = append(c.entries, chainEntry{
		analyzer: a,
		breaker:  NewCircuitBreaker(cbCfg),
	})
}

// Name implements [analyzer.ScoringAnalyzer].
func (c *AnalyzerChain) Name() string { return "analyzer-chain" }

// Analyze tries each entry in order until one succeeds. Entries with open
// breakers are skipped. Results from any entry but the first are marked
// Degraded.
func (c *AnalyzerChain) Analyze(ctx context.Context, text string) (*types.AnalysisResult, error) {
	var lastErr error
	for i := range c.entries {
		entry := &c.entries[i]

		var result *types.AnalysisResult
		err := entry.breaker.Execute(func() error {
			var innerErr error
			result, innerErr = entry.analyzer.Analyze(ctx, text)
			return innerErr
		})
		if err == nil {
			if i > 0 {
				result.Degraded = true
			}
			return result, nil
		}

		lastErr = err
		if errors.Is(err, ErrCircuitOpen) {
			slog.Debug("skipping analyzer (circuit open)",
				"analyzer", entry.analyzer.Name())
		} else {
			slog.Warn("scoring analyzer failed, trying next",
				"analyzer", entry.analyzer.Name(), "error", err)
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
}
