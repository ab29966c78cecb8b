package rules

import (
	"context"
	"fmt"

	"github.com/MrWong99/inkwell/pkg/analyzer"
	"github.com/MrWong99/inkwell/pkg/types"
)

// Engine is the rule-based analyzer. It is read-only after construction and
// safe for concurrent use.
type Engine struct {
	rules []Rule
}

// Compile-time interface assertion.
var _ analyzer.Analyzer = (*Engine)(nil)

// NewEngine returns an Engine over the default rule [Table].
func NewEngine() *Engine {
	return &Engine{rules: Table()}
}

// NewEngineWithRules returns an Engine over a caller-supplied rule table.
// Used by the remote analyzer's local fallback, which runs a subset of the
// default rules.
func NewEngineWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Name implements [analyzer.Analyzer].
func (e *Engine) Name() string { return "rules" }

// Analyze runs every rule against text and emits one finding per match.
// Findings are emitted in table order, then match order; overlapping spans
// are not deduplicated here. The returned finding IDs are deterministic
// ("<rule>:<n>") — the orchestrator replaces them with cycle-unique IDs
// before surfacing.
func (e *Engine) Analyze(ctx context.Context, text string) ([]types.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var findings []types.Finding
	for _, rule := range e.rules {
		matches := rule.Pattern.FindAllStringSubmatchIndex(text, -1)
		for n, m := range matches {
			start, end := m[0], m[1]
			if rule.Group > 0 && 2*rule.Group+1 < len(m) && m[2*rule.Group] >= 0 {
				start, end = m[2*rule.Group], m[2*rule.Group+1]
			}
			original := text[start:end]

			suggested := original
			if rule.Suggest != nil {
				suggested = rule.Suggest(original)
			}

			findings = append(findings, types.Finding{
				ID:            fmt.Sprintf("%s:%d", rule.ID, n),
				Kind:          rule.Kind,
				Severity:      rule.Severity,
				Span:          types.Span{Start: start, End: end},
				OriginalText:  original,
				SuggestedText: suggested,
				Message:       rule.Message,
				Explanation:   rule.Explanation,
				Confidence:    rule.Confidence,
			})
		}
	}
	return findings, nil
}
