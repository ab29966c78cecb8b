package remote

import (
	"context"
	"regexp"

	"github.com/MrWong99/inkwell/pkg/analyzer"
	"github.com/MrWong99/inkwell/pkg/analyzer/rules"
	"github.com/MrWong99/inkwell/pkg/types"
)

// fallbackBaseline is the score ceiling for degraded results. Conservative
// on purpose: without the remote analyzer only surface-level checks ran,
// so a flawless-looking document still should not score 100.
const fallbackBaseline = 85

// Fallback is the local pattern-table analyzer used when every remote
// backend is unavailable. It runs a subset of the rule engine's checks and
// derives conservative scores from what it finds. Analyze never returns an
// error, which makes Fallback a valid terminal entry for the resilience
// chain.
type Fallback struct {
	engine *rules.Engine
}

// Compile-time interface assertion.
var _ analyzer.ScoringAnalyzer = (*Fallback)(nil)

// NewFallback returns the local fallback analyzer.
func NewFallback() *Fallback {
	return &Fallback{engine: rules.NewEngineWithRules(fallbackRules())}
}

// Name implements [analyzer.ScoringAnalyzer].
func (f *Fallback) Name() string { return "remote-fallback" }

// Analyze runs the local pattern table and synthesises scores. The result
// is always Degraded: it carries no remote-derived findings.
func (f *Fallback) Analyze(ctx context.Context, text string) (*types.AnalysisResult, error) {
	findings, err := f.engine.Analyze(ctx, text)
	if err != nil {
		// Only context cancellation reaches here; an empty degraded
		// result is still more useful to the caller than an error.
		findings = nil
	}

	return &types.AnalysisResult{
		Findings: findings,
		Scores:   fallbackScores(text, findings),
		Degraded: true,
	}, nil
}

// fallbackScores derives conservative scores from the finding count
// relative to document length. Each finding per hundred words costs a few
// points off the baseline.
func fallbackScores(text string, findings []types.Finding) types.Scores {
	if text == "" {
		return types.PerfectScores()
	}

	words := len(regexp.MustCompile(`\S+`).FindAllString(text, -1))
	if words == 0 {
		words = 1
	}
	penalty := (len(findings) * 100 * 5) / words
	if penalty > 40 {
		penalty = 40
	}

	base := fallbackBaseline - penalty
	return types.Scores{
		Correctness: base,
		Clarity:     base,
		Engagement:  fallbackBaseline - penalty/2,
		Delivery:    fallbackBaseline - penalty/2,
	}.Clamp()
}

// fallbackRules is the subset of the default rule table the fallback runs.
// Clarity-flavoured checks are included so degraded results still carry
// more than bare grammar hits.
func fallbackRules() []rules.Rule {
	var subset []rules.Rule
	for _, r := range rules.Table() {
		switch r.ID {
		case "its-contraction", "subject-verb-agreement", "double-negative", "passive-voice":
			subset = append(subset, r)
		default:
			if len(r.ID) > 6 && r.ID[:6] == "wordy-" {
				subset = append(subset, r)
			}
		}
	}
	return subset
}
