package position

import (
	"sort"

	"github.com/MrWong99/inkwell/pkg/types"
)

// Project converts remapped findings into highlight descriptors for the
// editor surface. The output is non-overlapping: findings are ordered by
// span start (ties broken by click priority), and any finding whose span
// intersects an already-accepted highlight is skipped. The surviving
// finding at a contested position is still clickable for the others via
// the interaction handler's containment lookup.
//
// Inputs must already satisfy the span invariant; Project does not consult
// the document text.
func Project(findings []types.Finding) []types.Highlight {
	ordered := make([]types.Finding, len(findings))
	copy(ordered, findings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Span.Start != ordered[j].Span.Start {
			return ordered[i].Span.Start < ordered[j].Span.Start
		}
		return ordered[i].Kind.ClickPriority() < ordered[j].Kind.ClickPriority()
	})

	highlights := make([]types.Highlight, 0, len(ordered))
	lastEnd := -1
	for _, f := range ordered {
		if f.Span.Start < lastEnd {
			continue
		}
		highlights = append(highlights, types.Highlight{
			FindingID: f.ID,
			Span:      f.Span,
			Class:     string(f.Kind) + "-" + string(f.Severity),
		})
		lastEnd = f.Span.End
	}
	return highlights
}
