// Package types defines the shared types used across all Inkwell packages.
//
// These types form the lingua franca between analyzers, the orchestrator,
// the position mapper, and the editor surface. They are intentionally
// minimal — each package defines its own domain types, but cross-cutting
// data structures live here to avoid circular imports.
package types

// Kind classifies what sort of issue a [Finding] describes.
type Kind string

const (
	KindSpelling    Kind = "spelling"
	KindGrammar     Kind = "grammar"
	KindPunctuation Kind = "punctuation"
	KindClarity     Kind = "clarity"
	KindStyle       Kind = "style"
	KindEngagement  Kind = "engagement"
	KindDelivery    Kind = "delivery"
)

// IsValid reports whether k is a recognised finding kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindSpelling, KindGrammar, KindPunctuation, KindClarity,
		KindStyle, KindEngagement, KindDelivery:
		return true
	}
	return false
}

// ClickPriority orders kinds for click resolution when multiple findings
// overlap the same document position. Lower is higher priority.
func (k Kind) ClickPriority() int {
	switch k {
	case KindSpelling:
		return 0
	case KindGrammar:
		return 1
	case KindPunctuation:
		return 2
	case KindClarity:
		return 3
	case KindStyle:
		return 4
	case KindEngagement:
		return 5
	case KindDelivery:
		return 6
	default:
		return 7
	}
}

// Severity indicates display emphasis for a [Finding]. It is ordinal and
// must never drive suppression logic.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// IsValid reports whether s is a recognised severity.
func (s Severity) IsValid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// Span is a half-open character offset range [Start, End) into the
// plain-text projection of a document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of characters covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether pos falls inside the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// Valid reports whether the span bounds a non-empty range inside a text of
// the given length.
func (s Span) Valid(textLen int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= textLen
}

// Finding is one detected issue with a text span and a suggested fix.
//
// IDs are unique within one analysis cycle only. Re-analysing changed text
// produces fresh IDs — callers must never assume identity persists across
// cycles. Decisions about a finding survive cycles via the
// (Kind, OriginalText) key instead; see [DecisionKey].
type Finding struct {
	// ID is an opaque identifier, unique within one analysis cycle.
	ID string

	// Kind classifies the issue.
	Kind Kind

	// Severity is the display emphasis. Never used for suppression.
	Severity Severity

	// Span locates the issue in the current document text. Only the
	// position mapper's recomputed value is authoritative; spans reported
	// by analyzers are hints.
	Span Span

	// OriginalText is the exact substring of the document this finding
	// refers to. The invariant text[Span.Start:Span.End] == OriginalText
	// must hold for every surfaced finding.
	OriginalText string

	// SuggestedText is the replacement. Equal to OriginalText for
	// informational-only findings.
	SuggestedText string

	// Message is a short human-readable description.
	Message string

	// Explanation elaborates on why the issue was flagged.
	Explanation string

	// Confidence is the analyzer's confidence in [0,1]. Display/ranking
	// only; never a filter criterion beyond an optional display threshold.
	Confidence float64
}

// DecisionKey identifies a finding across analysis cycles. Finding IDs are
// regenerated every cycle, so accepted/dismissed decisions are keyed by
// kind plus the exact original text instead.
type DecisionKey struct {
	Kind         Kind
	OriginalText string
}

// Key returns the cross-cycle decision key for f.
func (f Finding) Key() DecisionKey {
	return DecisionKey{Kind: f.Kind, OriginalText: f.OriginalText}
}

// Scores holds the document quality scores produced by an analysis cycle.
// All values are integers in [0,100].
type Scores struct {
	Correctness int
	Clarity     int
	Engagement  int
	Delivery    int
	Overall     int
}

// PerfectScores returns the score set for a document with nothing to flag,
// e.g. empty text.
func PerfectScores() Scores {
	return Scores{Correctness: 100, Clarity: 100, Engagement: 100, Delivery: 100, Overall: 100}
}

// Clamp constrains every score to [0,100] and recomputes Overall as the
// rounded mean of the four dimensions when it is unset.
func (s Scores) Clamp() Scores {
	s.Correctness = clampScore(s.Correctness)
	s.Clarity = clampScore(s.Clarity)
	s.Engagement = clampScore(s.Engagement)
	s.Delivery = clampScore(s.Delivery)
	if s.Overall == 0 {
		s.Overall = (s.Correctness + s.Clarity + s.Engagement + s.Delivery + 2) / 4
	}
	s.Overall = clampScore(s.Overall)
	return s
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// AnalysisResult is the merged output of one analysis cycle.
type AnalysisResult struct {
	// Findings are the surfaced issues, spans already remapped and
	// deduplicated.
	Findings []Finding

	// Scores are the document quality scores.
	Scores Scores

	// Degraded is true when the remote analyzer contributed nothing to
	// this result (network failure, malformed response). The caller may
	// surface this as "analysis temporarily unavailable"; it is not an
	// error.
	Degraded bool
}

// Highlight is a render-ready descriptor handed to the editor surface.
// The surface owns actual rendering; this core only computes positions.
type Highlight struct {
	// FindingID links the highlight back to its finding for click handling.
	FindingID string

	// Span is the authoritative, remapped position range.
	Span Span

	// Class is the styling class, derived from kind and severity
	// (e.g. "spelling-high").
	Class string
}

// Replacement is the literal edit returned to the editor surface when a
// suggestion is accepted.
type Replacement struct {
	OriginalText  string
	SuggestedText string
}
