package spelling

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/MrWong99/inkwell/pkg/analyzer"
	"github.com/MrWong99/inkwell/pkg/types"
)

const (
	// mapHitConfidence is the confidence attached to static-map hits.
	mapHitConfidence = 0.95

	// minTokenLen is the shortest token the checker will flag. One- and
	// two-letter tokens are skipped wholesale to control false positives.
	minTokenLen = 3
)

// wordPattern tokenizes on word boundaries. Only letter runs (with an
// optional internal apostrophe) are tokens, so numeric strings are never
// flagged by construction.
var wordPattern = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)?`)

// Option is a functional option for configuring a [Checker].
type Option func(*Checker)

// WithOracle substitutes the [SpellingOracle] consulted for tokens that
// miss the static misspelling map. Default: [NewFuzzyOracle].
func WithOracle(o SpellingOracle) Option {
	return func(c *Checker) {
		c.oracle = o
	}
}

// WithStopwords adds extra words the checker must never flag, on top of the
// built-in stoplist. Casing is ignored.
func WithStopwords(words []string) Option {
	return func(c *Checker) {
		for _, w := range words {
			c.extraStops[strings.ToLower(w)] = struct{}{}
		}
	}
}

// Checker is the heuristic spelling analyzer.
//
// For every token, in order:
//
//  1. Static misspelling map lookup — a hit emits a high-confidence finding
//     immediately and skips further checks for that token.
//  2. Skip rules — tokens shorter than three letters, capitalised tokens
//     (names, sentence starts without context), and stoplisted words are
//     never flagged.
//  3. Oracle probe — unknown words with a usable correction candidate are
//     flagged at the oracle's confidence.
//
// Only the first occurrence of each distinct token is checked per cycle.
// This is a documented simplification carried over from the checker's
// lineage: later occurrences of a genuinely misspelled word surface once an
// edit moves a different occurrence first.
//
// Checker is read-only after construction and safe for concurrent use.
type Checker struct {
	oracle     SpellingOracle
	extraStops map[string]struct{}
}

// Compile-time interface assertion.
var _ analyzer.Analyzer = (*Checker)(nil)

// NewChecker returns a Checker configured with the supplied options.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		extraStops: make(map[string]struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	if c.oracle == nil {
		c.oracle = NewFuzzyOracle()
	}
	return c
}

// Name implements [analyzer.Analyzer].
func (c *Checker) Name() string { return "spelling" }

// Analyze tokenizes text and reports misspellings. Finding IDs are
// deterministic ("spelling:<word>"); the orchestrator replaces them with
// cycle-unique IDs before surfacing.
func (c *Checker) Analyze(ctx context.Context, text string) ([]types.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var findings []types.Finding
	seen := make(map[string]struct{})

	for _, loc := range wordPattern.FindAllStringIndex(text, -1) {
		token := text[loc[0]:loc[1]]
		lowered := strings.ToLower(token)

		// First occurrence only per cycle.
		if _, dup := seen[lowered]; dup {
			continue
		}
		seen[lowered] = struct{}{}

		if correction, ok := commonMisspellings[lowered]; ok {
			findings = append(findings, c.finding(token, loc, correction, types.SeverityHigh, mapHitConfidence))
			continue
		}

		if len(lowered) < minTokenLen {
			continue
		}
		if unicode.IsUpper([]rune(token)[0]) {
			continue
		}
		if c.stoplisted(lowered) {
			continue
		}
		if c.oracle.Known(lowered) {
			continue
		}

		correction, confidence, ok := c.oracle.Suggest(lowered)
		if !ok {
			// No usable candidate — the oracle signal alone is too weak
			// to flag on.
			continue
		}
		findings = append(findings, c.finding(token, loc, correction, types.SeverityMedium, confidence))
	}

	return findings, nil
}

// finding assembles one spelling finding for the token at loc.
func (c *Checker) finding(token string, loc []int, correction string, severity types.Severity, confidence float64) types.Finding {
	return types.Finding{
		ID:            "spelling:" + strings.ToLower(token),
		Kind:          types.KindSpelling,
		Severity:      severity,
		Span:          types.Span{Start: loc[0], End: loc[1]},
		OriginalText:  token,
		SuggestedText: matchCase(token, correction),
		Message:       fmt.Sprintf("Possible misspelling of %q", correction),
		Explanation:   fmt.Sprintf("%q is not a recognised word; %q appears to be the intended spelling.", token, correction),
		Confidence:    confidence,
	}
}

// stoplisted reports whether word is in the built-in or caller-supplied
// stoplist.
func (c *Checker) stoplisted(word string) bool {
	if _, ok := stopwords[word]; ok {
		return true
	}
	_, ok := c.extraStops[word]
	return ok
}

// matchCase transfers the leading-capital style of original onto
// correction, so "Teh" suggests "The" rather than "the".
func matchCase(original, correction string) string {
	if original == "" || correction == "" {
		return correction
	}
	first := []rune(original)[0]
	if unicode.IsUpper(first) {
		r := []rune(correction)
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	}
	return correction
}
