package analysis

import (
	"sync"
	"time"

	"github.com/MrWong99/inkwell/pkg/types"
)

// Action is the outcome recorded for a finding the user acted on.
type Action string

const (
	// ActionAccepted means the suggestion was applied to the document.
	ActionAccepted Action = "accepted"

	// ActionDismissed means the user explicitly rejected the suggestion.
	ActionDismissed Action = "dismissed"
)

// Decision is one recorded accept/dismiss outcome.
type Decision struct {
	Action Action
	At     time.Time
}

// DecisionSet stores accept/dismiss decisions keyed by (kind, original
// text) so they survive re-analysis cycles, where finding IDs do not.
// A finding whose key matches a recorded decision is never re-surfaced
// until the set is reset.
//
// DecisionSet is safe for concurrent use.
type DecisionSet struct {
	mu        sync.RWMutex
	decisions map[types.DecisionKey]Decision
}

// NewDecisionSet returns an empty DecisionSet.
func NewDecisionSet() *DecisionSet {
	return &DecisionSet{decisions: make(map[types.DecisionKey]Decision)}
}

// Record stores the decision for key, overwriting any previous one.
func (s *DecisionSet) Record(key types.DecisionKey, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions[key] = Decision{Action: action, At: time.Now()}
}

// Resolved reports whether a decision exists for key.
func (s *DecisionSet) Resolved(key types.DecisionKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.decisions[key]
	return ok
}

// Len returns the number of recorded decisions.
func (s *DecisionSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decisions)
}

// Snapshot returns a copy of all recorded decisions, for persistence.
func (s *DecisionSet) Snapshot() map[types.DecisionKey]Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[types.DecisionKey]Decision, len(s.decisions))
	for k, v := range s.decisions {
		out[k] = v
	}
	return out
}

// Reset discards all recorded decisions.
func (s *DecisionSet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = make(map[types.DecisionKey]Decision)
}

// filter returns the findings from in whose keys have no recorded
// decision.
func (s *DecisionSet) filter(in []types.Finding) []types.Finding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Finding, 0, len(in))
	for _, f := range in {
		if _, resolved := s.decisions[f.Key()]; resolved {
			continue
		}
		out = append(out, f)
	}
	return out
}
