// Package mock provides test doubles for the analyzer interfaces.
//
// Use Analyzer and ScoringAnalyzer in unit tests to feed controlled
// findings into the orchestrator without running real analyzers, and to
// count invocations afterwards.
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/inkwell/pkg/analyzer"
	"github.com/MrWong99/inkwell/pkg/types"
)

// Analyzer is a mock implementation of analyzer.Analyzer.
type Analyzer struct {
	mu sync.Mutex

	// NameValue is returned by Name. Defaults to "mock".
	NameValue string

	// Findings is returned by Analyze.
	Findings []types.Finding

	// Err, if non-nil, is returned as the error from Analyze.
	Err error

	// Calls records the text of every Analyze invocation in order.
	Calls []string
}

// Compile-time interface assertion.
var _ analyzer.Analyzer = (*Analyzer)(nil)

// Name implements analyzer.Analyzer.
func (a *Analyzer) Name() string {
	if a.NameValue == "" {
		return "mock"
	}
	return a.NameValue
}

// Analyze records the call and returns Findings, Err.
func (a *Analyzer) Analyze(ctx context.Context, text string) ([]types.Finding, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls = append(a.Calls, text)
	if a.Err != nil {
		return nil, a.Err
	}
	out := make([]types.Finding, len(a.Findings))
	copy(out, a.Findings)
	return out, nil
}

// CallCount returns the number of recorded Analyze invocations.
func (a *Analyzer) CallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Calls)
}

// ScoringAnalyzer is a mock implementation of analyzer.ScoringAnalyzer.
type ScoringAnalyzer struct {
	mu sync.Mutex

	// NameValue is returned by Name. Defaults to "mock-scoring".
	NameValue string

	// Result is returned by Analyze. May be nil alongside a nil Err, in
	// which case Analyze returns an empty result.
	Result *types.AnalysisResult

	// Err, if non-nil, is returned as the error from Analyze.
	Err error

	// Calls records the text of every Analyze invocation in order.
	Calls []string
}

// Compile-time interface assertion.
var _ analyzer.ScoringAnalyzer = (*ScoringAnalyzer)(nil)

// Name implements analyzer.ScoringAnalyzer.
func (a *ScoringAnalyzer) Name() string {
	if a.NameValue == "" {
		return "mock-scoring"
	}
	return a.NameValue
}

// Analyze records the call and returns a copy of Result, Err.
func (a *ScoringAnalyzer) Analyze(ctx context.Context, text string) (*types.AnalysisResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls = append(a.Calls, text)
	if a.Err != nil {
		return nil, a.Err
	}
	if a.Result == nil {
		return &types.AnalysisResult{}, nil
	}
	cp := *a.Result
	cp.Findings = make([]types.Finding, len(a.Result.Findings))
	copy(cp.Findings, a.Result.Findings)
	return &cp, nil
}

// CallCount returns the number of recorded Analyze invocations.
func (a *ScoringAnalyzer) CallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Calls)
}
