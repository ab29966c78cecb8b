// Package position recomputes finding spans against the live document and
// projects findings into render-ready highlights.
//
// Analyzer spans are hints at best: the remote analyzer fabricates
// offsets, and local analyzers may have run against a version of the text
// the user has since edited. The mapper therefore relocates every finding
// by searching for its original text verbatim, and drops findings whose
// text no longer exists anywhere. Relocation uses the first occurrence
// only — a documented simplification: when the same substring appears more
// than once, every finding that quotes it lands on the first occurrence
// and collapses in the dedup step.
package position

import (
	"strings"

	"github.com/MrWong99/inkwell/pkg/types"
)

// spanKey dedupes findings whose recomputed spans coincide.
type spanKey struct {
	start, end int
	kind       types.Kind
}

// Remap recomputes the span of every finding by locating its OriginalText
// in text. Findings whose text is not found verbatim are dropped; findings
// that collapse onto an identical (start, end, kind) triple after
// remapping are deduplicated, first writer wins.
//
// Every returned finding satisfies
// text[f.Span.Start:f.Span.End] == f.OriginalText.
func Remap(text string, findings []types.Finding) []types.Finding {
	out := make([]types.Finding, 0, len(findings))
	seen := make(map[spanKey]struct{}, len(findings))

	for _, f := range findings {
		if f.OriginalText == "" {
			continue
		}
		idx := strings.Index(text, f.OriginalText)
		if idx < 0 {
			// The quoted text no longer exists: hallucinated by the
			// analyzer, or edited away by the user. Either way there is
			// nothing to highlight.
			continue
		}

		f.Span = types.Span{Start: idx, End: idx + len(f.OriginalText)}

		key := spanKey{start: f.Span.Start, end: f.Span.End, kind: f.Kind}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}
