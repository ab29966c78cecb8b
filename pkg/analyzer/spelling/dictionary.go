package spelling

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/sajari/fuzzy"
)

//go:embed dictionary.txt
var embeddedDictionary string

const (
	// fuzzyDepth bounds the edit distance the fuzzy model searches.
	// Depth 2 is the usual accuracy/latency trade-off for prose.
	fuzzyDepth = 2

	// minSuggestScore is the minimum Jaro-Winkler similarity between a
	// token and a candidate before the candidate is offered.
	minSuggestScore = 0.80
)

// FuzzyOracle is the default [SpellingOracle]: a trained fuzzy dictionary
// model for membership and candidate generation, with Jaro-Winkler ranking
// to pick the best candidate. Read-only after construction and safe for
// concurrent use.
type FuzzyOracle struct {
	model *fuzzy.Model
	words map[string]struct{}
}

// Compile-time interface assertion.
var _ SpellingOracle = (*FuzzyOracle)(nil)

// NewFuzzyOracle builds a FuzzyOracle from the embedded common-words
// dictionary. Use [NewFuzzyOracleFromReader] or [NewFuzzyOracleFromFile]
// to train on a larger word list.
func NewFuzzyOracle() *FuzzyOracle {
	o, err := NewFuzzyOracleFromReader(strings.NewReader(embeddedDictionary))
	if err != nil {
		// The embedded dictionary is static; a read failure here is a
		// build defect, not a runtime condition.
		panic(err)
	}
	return o
}

// NewFuzzyOracleFromFile trains a FuzzyOracle on the newline-separated word
// list at path.
func NewFuzzyOracleFromFile(path string) (*FuzzyOracle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spelling: open dictionary %q: %w", path, err)
	}
	defer f.Close()

	o, err := NewFuzzyOracleFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("spelling: read dictionary %q: %w", path, err)
	}
	return o, nil
}

// NewFuzzyOracleFromReader trains a FuzzyOracle on a newline-separated word
// list. Blank lines and lines starting with '#' are skipped.
func NewFuzzyOracleFromReader(r io.Reader) (*FuzzyOracle, error) {
	model := fuzzy.NewModel()
	model.SetDepth(fuzzyDepth)

	words := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		model.TrainWord(word)
		words[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("spelling: scan dictionary: %w", err)
	}

	return &FuzzyOracle{model: model, words: words}, nil
}

// Known implements [SpellingOracle].
func (o *FuzzyOracle) Known(word string) bool {
	_, ok := o.words[word]
	return ok
}

// Suggest implements [SpellingOracle]. Candidates come from the fuzzy
// model; the one most similar to word under Jaro-Winkler wins, provided it
// clears the minimum similarity score. The score doubles as the finding's
// confidence.
func (o *FuzzyOracle) Suggest(word string) (string, float64, bool) {
	candidates := o.model.Suggestions(word, false)
	if best := o.model.SpellCheck(word); best != "" {
		candidates = append(candidates, best)
	}

	var (
		bestCandidate string
		bestScore     float64
	)
	for _, c := range candidates {
		if c == "" || c == word {
			continue
		}
		score := matchr.JaroWinkler(word, c, false)
		if score > bestScore {
			bestCandidate = c
			bestScore = score
		}
	}

	if bestCandidate == "" || bestScore < minSuggestScore {
		return "", 0, false
	}
	return bestCandidate, bestScore, true
}
