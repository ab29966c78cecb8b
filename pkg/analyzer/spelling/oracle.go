// Package spelling implements the heuristic spelling analyzer.
//
// Checking happens in two layers. A static misspelling map catches common
// errors with a known correction at high confidence. Tokens that miss the
// map are probed against a [SpellingOracle] — a pluggable "is this a word,
// and if not, what was meant" capability. The default oracle is a fuzzy
// dictionary model; environments with a richer signal (a platform
// spellchecker, a hunspell process) can substitute their own
// implementation without touching the checker.
//
// The oracle is explicitly a best-effort signal, not ground truth: a small
// dictionary flags rare-but-valid words, and a large one hides real typos
// that happen to collide with obscure entries. The checker's skip rules
// (short tokens, capitalised tokens, numerics, the stoplist) exist to keep
// the false-positive rate tolerable either way.
package spelling

import "strings"

// SpellingOracle answers whether a token is a known word and proposes a
// correction for unknown ones.
//
// Implementations must be safe for concurrent use and must treat lookups
// as case-insensitive (callers pass lowercase tokens).
type SpellingOracle interface {
	// Known reports whether word is in the oracle's vocabulary.
	Known(word string) bool

	// Suggest returns the best correction for an unknown word and a
	// confidence in [0,1]. ok is false when the oracle has no usable
	// candidate, in which case the word is not flagged.
	Suggest(word string) (correction string, confidence float64, ok bool)
}

// StaticOracle is a [SpellingOracle] over a fixed word set with no
// correction capability. It only answers Known; Suggest always declines.
// Useful in tests and in deployments that want map-only checking.
type StaticOracle struct {
	words map[string]struct{}
}

// Compile-time interface assertion.
var _ SpellingOracle = (*StaticOracle)(nil)

// NewStaticOracle builds a StaticOracle from words. Input casing is
// ignored.
func NewStaticOracle(words []string) *StaticOracle {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &StaticOracle{words: set}
}

// Known implements [SpellingOracle].
func (o *StaticOracle) Known(word string) bool {
	_, ok := o.words[word]
	return ok
}

// Suggest implements [SpellingOracle]. StaticOracle never suggests.
func (o *StaticOracle) Suggest(string) (string, float64, bool) {
	return "", 0, false
}
