package analysis

import (
	"sort"

	"github.com/google/uuid"

	"github.com/MrWong99/inkwell/pkg/types"
)

// mergeFindings unions remote and local findings and deduplicates by exact
// span equality.
//
// Precedence on a span collision: the remote finding wins over any local
// one, on the assumption that the language model saw more context. Among
// local findings the earlier analyzer (and within one analyzer, the
// earlier rule) wins. This remote-wins choice is a judgment call, kept in
// this one function so it is easy to revisit.
//
// Every surviving finding gets a fresh cycle-unique ID; whatever IDs the
// analyzers assigned are discarded here.
func mergeFindings(remote []types.Finding, local ...[]types.Finding) []types.Finding {
	type spanOnly struct{ start, end int }
	taken := make(map[spanOnly]struct{})

	var merged []types.Finding
	add := func(f types.Finding) {
		key := spanOnly{f.Span.Start, f.Span.End}
		if _, dup := taken[key]; dup {
			return
		}
		taken[key] = struct{}{}
		f.ID = uuid.NewString()
		merged = append(merged, f)
	}

	for _, f := range remote {
		add(f)
	}
	for _, group := range local {
		for _, f := range group {
			add(f)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Span.Start != merged[j].Span.Start {
			return merged[i].Span.Start < merged[j].Span.Start
		}
		return merged[i].Span.End < merged[j].Span.End
	})
	return merged
}
