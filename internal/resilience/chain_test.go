package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrWong99/inkwell/pkg/analyzer/mock"
	"github.com/MrWong99/inkwell/pkg/types"
)

func TestChainPrimarySuccess(t *testing.T) {
	t.Parallel()

	primary := &mock.ScoringAnalyzer{
		NameValue: "primary",
		Result:    &types.AnalysisResult{Scores: types.PerfectScores()},
	}
	fallback := &mock.ScoringAnalyzer{NameValue: "fallback"}

	chain := NewAnalyzerChain(primary, BreakerConfig{})
	chain.AddFallback(fallback)

	result, err := chain.Analyze(context.Background(), "text")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Degraded {
		t.Error("primary result marked degraded")
	}
	if fallback.CallCount() != 0 {
		t.Errorf("fallback ran %d times on a healthy primary", fallback.CallCount())
	}
}

func TestChainFallsBackOnFailure(t *testing.T) {
	t.Parallel()

	primary := &mock.ScoringAnalyzer{NameValue: "primary", Err: errors.New("down")}
	fallback := &mock.ScoringAnalyzer{
		NameValue: "fallback",
		Result:    &types.AnalysisResult{Scores: types.PerfectScores()},
	}

	chain := NewAnalyzerChain(primary, BreakerConfig{})
	chain.AddFallback(fallback)

	result, err := chain.Analyze(context.Background(), "text")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !result.Degraded {
		t.Error("fallback result not marked degraded")
	}
	if primary.CallCount() != 1 || fallback.CallCount() != 1 {
		t.Errorf("calls: primary=%d fallback=%d", primary.CallCount(), fallback.CallCount())
	}
}

func TestChainSkipsOpenBreaker(t *testing.T) {
	t.Parallel()

	primary := &mock.ScoringAnalyzer{NameValue: "primary", Err: errors.New("down")}
	fallback := &mock.ScoringAnalyzer{
		NameValue: "fallback",
		Result:    &types.AnalysisResult{Scores: types.PerfectScores()},
	}

	chain := NewAnalyzerChain(primary, BreakerConfig{MaxFailures: 2, ResetTimeout: time.Hour})
	chain.AddFallback(fallback)

	// Trip the primary's breaker.
	for i := 0; i < 3; i++ {
		if _, err := chain.Analyze(context.Background(), "text"); err != nil {
			t.Fatalf("Analyze %d: %v", i, err)
		}
	}

	// The breaker is open now; the primary is no longer invoked.
	if primary.CallCount() != 2 {
		t.Errorf("primary ran %d times, want 2 before the breaker opened", primary.CallCount())
	}
	if fallback.CallCount() != 3 {
		t.Errorf("fallback ran %d times, want 3", fallback.CallCount())
	}
}

func TestChainAllFailed(t *testing.T) {
	t.Parallel()

	primary := &mock.ScoringAnalyzer{NameValue: "primary", Err: errors.New("down")}
	fallback := &mock.ScoringAnalyzer{NameValue: "fallback", Err: errors.New("also down")}

	chain := NewAnalyzerChain(primary, BreakerConfig{})
	chain.AddFallback(fallback)

	_, err := chain.Analyze(context.Background(), "text")
	if !errors.Is(err, ErrAllFailed) {
		t.Errorf("err = %v, want ErrAllFailed", err)
	}
}

func TestChainName(t *testing.T) {
	t.Parallel()

	chain := NewAnalyzerChain(&mock.ScoringAnalyzer{}, BreakerConfig{})
	if chain.Name() != "analyzer-chain" {
		t.Errorf("Name = %q", chain.Name())
	}
}
