// Package interaction resolves user actions on highlighted findings:
// clicking a highlight to open its card, accepting a suggestion, and
// dismissing one. It owns no finding state itself; it operates on a
// [FindingSource] (normally the session's orchestrator).
package interaction

import (
	"context"

	"github.com/MrWong99/inkwell/internal/analysis"
	"github.com/MrWong99/inkwell/internal/observe"
	"github.com/MrWong99/inkwell/pkg/types"
)

// FindingSource is the finding state the handler operates on.
// *analysis.Orchestrator satisfies it.
type FindingSource interface {
	// Findings returns the current live findings.
	Findings() []types.Finding

	// Remove deletes the finding with the given id and returns it.
	Remove(id string) (types.Finding, bool)

	// RecordDecision stores the accept/dismiss outcome for a finding key.
	RecordDecision(key types.DecisionKey, action analysis.Action)
}

// Handler resolves clicks and applies accept/dismiss decisions.
type Handler struct {
	source  FindingSource
	metrics *observe.Metrics
}

// NewHandler creates a Handler over the given source. metrics may be nil.
func NewHandler(source FindingSource, metrics *observe.Metrics) *Handler {
	return &Handler{source: source, metrics: metrics}
}

// ResolveClick returns the finding whose span contains the clicked text
// position. When several findings contain the position, the one whose kind
// has the highest click priority wins; among equal priorities, the one
// starting earliest. ok is false when no finding covers the position.
func (h *Handler) ResolveClick(pos int) (types.Finding, bool) {
	var (
		best  types.Finding
		found bool
	)
	for _, f := range h.source.Findings() {
		if !f.Span.Contains(pos) {
			continue
		}
		if !found || clickBefore(f, best) {
			best = f
			found = true
		}
	}
	return best, found
}

// clickBefore reports whether a should win click resolution over b.
func clickBefore(a, b types.Finding) bool {
	pa, pb := a.Kind.ClickPriority(), b.Kind.ClickPriority()
	if pa != pb {
		return pa < pb
	}
	return a.Span.Start < b.Span.Start
}

// Accept applies the suggestion of the finding with the given id: the
// finding is removed from the live set, the decision is recorded so the
// same (kind, originalText) pair never resurfaces, and the replacement to
// apply to the text is returned. A nil replacement with ok true means the
// finding carried no suggested text (informational finding); the caller
// has nothing to splice but the finding is resolved.
//
// ok is false when no finding with that id exists, which is not an error:
// the finding may have been superseded by a newer analysis cycle.
func (h *Handler) Accept(ctx context.Context, id string) (rep *types.Replacement, ok bool) {
	f, ok := h.source.Remove(id)
	if !ok {
		return nil, false
	}
	h.source.RecordDecision(f.Key(), analysis.ActionAccepted)
	h.metrics.RecordDecision(ctx, string(analysis.ActionAccepted))

	if f.SuggestedText == "" {
		return nil, true
	}
	return &types.Replacement{
		OriginalText:  f.OriginalText,
		SuggestedText: f.SuggestedText,
	}, true
}

// Reject dismisses the finding with the given id: it is removed from the
// live set and its key recorded so it never resurfaces this session.
// ok is false when no finding with that id exists.
func (h *Handler) Reject(ctx context.Context, id string) bool {
	f, ok := h.source.Remove(id)
	if !ok {
		return false
	}
	h.source.RecordDecision(f.Key(), analysis.ActionDismissed)
	h.metrics.RecordDecision(ctx, string(analysis.ActionDismissed))
	return true
}
