// Package analyzer defines the interfaces every Inkwell text analyzer
// implements.
//
// An analyzer inspects a plain-text document and reports findings —
// detected grammar, spelling, or style issues. Analyzers come in two
// shapes: a plain [Analyzer] that only reports findings (rule engine,
// spelling checker), and a [ScoringAnalyzer] that additionally produces
// document quality scores (the remote LLM analyzer and its local
// fallback).
//
// Implementors must be safe for concurrent use. Spans reported by an
// analyzer are treated as hints only; the orchestrator recomputes every
// span from the finding's original text before surfacing it.
package analyzer

import (
	"context"

	"github.com/MrWong99/inkwell/pkg/types"
)

// Analyzer inspects text and reports findings.
//
// Implementations must propagate context cancellation promptly and must
// never mutate previously returned slices. Returning an empty slice and a
// nil error for clean text is the normal case, not an edge case.
type Analyzer interface {
	// Analyze returns all findings for text. The returned spans are hints;
	// the caller remaps them against the live document before use.
	Analyze(ctx context.Context, text string) ([]types.Finding, error)

	// Name identifies the analyzer in logs and metrics (e.g. "rules",
	// "spelling", "remote").
	Name() string
}

// ScoringAnalyzer is an [Analyzer] variant that also scores the document.
//
// Individual implementations (the remote LLM client, the HTTP endpoint
// client) may fail with network or parse errors. The never-fail guarantee
// the orchestrator relies on is provided by composition: a resilience
// chain whose terminal entry is the local pattern-table fallback, which
// cannot fail. Callers that need that guarantee consume the chain, not a
// bare implementation.
type ScoringAnalyzer interface {
	// Analyze returns findings plus document scores.
	Analyze(ctx context.Context, text string) (*types.AnalysisResult, error)

	// Name identifies the analyzer in logs and metrics.
	Name() string
}
