// Package rules implements the rule-based grammar and style analyzer.
//
// The engine walks a fixed, ordered table of regex rules and emits one
// finding per match. It is pure: same text in, same findings out, no state
// and no I/O. Overlapping matches from different rules are emitted as-is —
// deduplication is the orchestrator's job, where earlier table position
// wins on span collision between local rules.
package rules

import (
	"fmt"
	"regexp"

	"github.com/MrWong99/inkwell/pkg/types"
)

// Rule is one entry in the grammar/style rule table.
type Rule struct {
	// ID names the rule (stable, used in finding IDs and tests).
	ID string

	// Pattern is the compiled match expression.
	Pattern *regexp.Regexp

	// Group selects which capture group the finding's span covers.
	// Zero means the whole match.
	Group int

	// Kind and Severity classify emitted findings.
	Kind     types.Kind
	Severity types.Severity

	// Confidence is attached to every finding this rule emits.
	Confidence float64

	// Message describes the issue.
	Message string

	// Explanation elaborates for the suggestion card.
	Explanation string

	// Suggest maps the matched text to a replacement. When nil the
	// finding is informational and SuggestedText equals OriginalText.
	Suggest func(matched string) string
}

// thirdPersonFixes conjugates plural-only verb forms that follow a
// third-person singular pronoun.
var thirdPersonFixes = map[string]string{
	"go":   "goes",
	"do":   "does",
	"have": "has",
	"are":  "is",
	"were": "was",
	"know": "knows",
	"want": "wants",
	"like": "likes",
	"need": "needs",
}

// negativeFixes replaces the second negative of a double negative with its
// positive counterpart.
var negativeFixes = map[string]string{
	"no":      "any",
	"nothing": "anything",
	"nobody":  "anybody",
	"no one":  "anyone",
	"nowhere": "anywhere",
	"none":    "any",
	"never":   "ever",
}

// wordyPhrases maps verbose constructions to tighter equivalents. Each
// entry expands into one rule at init time.
var wordyPhrases = []struct{ Phrase, Replacement string }{
	{"in order to", "to"},
	{"due to the fact that", "because"},
	{"at this point in time", "now"},
	{"in the event that", "if"},
	{"for the purpose of", "to"},
	{"with regard to", "about"},
	{"in spite of the fact that", "although"},
	{"a large number of", "many"},
	{"on a daily basis", "daily"},
	{"in the near future", "soon"},
	{"each and every", "every"},
	{"basically", ""},
}

// Table returns the ordered rule table. Order matters: when two rules match
// the same span, the orchestrator keeps the finding from the earlier rule.
func Table() []Rule {
	rules := []Rule{
		{
			ID:          "its-contraction",
			Pattern:     regexp.MustCompile(`\b([Ii]ts)\s+(?:going|gonna|been|being|not|very|really|quite|important|necessary|possible|likely|clear|true|time|better|worse|over|done)\b`),
			Group:       1,
			Kind:        types.KindGrammar,
			Severity:    types.SeverityMedium,
			Confidence:  0.85,
			Message:     `Possible confusion of "its" and "it's"`,
			Explanation: `"Its" is possessive; "it's" is the contraction of "it is". The word that follows suggests a contraction was intended.`,
			Suggest: func(matched string) string {
				if matched == "Its" {
					return "It's"
				}
				return "it's"
			},
		},
		{
			ID:          "subject-verb-agreement",
			Pattern:     regexp.MustCompile(`\b(?:[Hh]e|[Ss]he|[Ii]t)\s+(go|do|have|are|were|know|want|like|need)\b`),
			Group:       1,
			Kind:        types.KindGrammar,
			Severity:    types.SeverityHigh,
			Confidence:  0.8,
			Message:     "Subject-verb disagreement",
			Explanation: "A third-person singular subject takes the singular verb form.",
			Suggest: func(matched string) string {
				if fix, ok := thirdPersonFixes[matched]; ok {
					return fix
				}
				return matched
			},
		},
		{
			ID:          "double-negative",
			Pattern:     regexp.MustCompile(`(?i)\b(?:don't|doesn't|didn't|can't|couldn't|won't|wouldn't|isn't|aren't|wasn't|weren't|hardly|barely)\s+(?:\w+\s+)?(no|nothing|nobody|no one|nowhere|none|never)\b`),
			Group:       1,
			Kind:        types.KindGrammar,
			Severity:    types.SeverityMedium,
			Confidence:  0.7,
			Message:     "Double negative",
			Explanation: "Two negatives in the same clause usually cancel each other. Replace the second negative with its positive form.",
			Suggest: func(matched string) string {
				if fix, ok := negativefix(matched); ok {
					return fix
				}
				return matched
			},
		},
		{
			ID:          "passive-voice",
			Pattern:     regexp.MustCompile(`\b(?:is|are|was|were|been|being|be)\s+(?:\w+(?:ed|en|wn|rn|ne|ght)|made|held|kept|left|lost|sent|sold|told|found|built|put|set|read|sung|hung|struck)\s+by\b`),
			Kind:        types.KindStyle,
			Severity:    types.SeverityLow,
			Confidence:  0.6,
			Message:     "Passive voice",
			Explanation: "Consider rewriting in the active voice to name the actor directly.",
		},
	}

	for _, wp := range wordyPhrases {
		wp := wp
		explanation := fmt.Sprintf("%q says the same thing with fewer words.", wp.Replacement)
		if wp.Replacement == "" {
			explanation = "This filler word can usually be removed without losing meaning."
		}
		rules = append(rules, Rule{
			ID:          "wordy-" + regexp.MustCompile(`\s+`).ReplaceAllString(wp.Phrase, "-"),
			Pattern:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(wp.Phrase) + `\b`),
			Kind:        types.KindStyle,
			Severity:    types.SeverityLow,
			Confidence:  0.75,
			Message:     fmt.Sprintf("Wordy phrase: %q", wp.Phrase),
			Explanation: explanation,
			Suggest: func(string) string {
				return wp.Replacement
			},
		})
	}

	return rules
}

// negativefix looks up the positive form of a second negative,
// case-insensitively on the lowercase key.
func negativefix(matched string) (string, bool) {
	fix, ok := negativeFixes[lower(matched)]
	return fix, ok
}

// lower is an ASCII-only lowercase helper; rule patterns never match
// non-ASCII negatives.
func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
