package analysis

import (
	"testing"

	"github.com/MrWong99/inkwell/pkg/types"
)

func TestDecisionSetRecordAndFilter(t *testing.T) {
	t.Parallel()

	s := NewDecisionSet()
	key := types.DecisionKey{Kind: types.KindSpelling, OriginalText: "teh"}

	if s.Resolved(key) {
		t.Error("empty set resolved a key")
	}

	s.Record(key, ActionAccepted)

	if !s.Resolved(key) {
		t.Error("recorded key not resolved")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}

	in := []types.Finding{
		{Kind: types.KindSpelling, OriginalText: "teh"},
		{Kind: types.KindGrammar, OriginalText: "teh"},
		{Kind: types.KindSpelling, OriginalText: "recieve"},
	}
	out := s.filter(in)

	if len(out) != 2 {
		t.Fatalf("filter kept %d findings, want 2", len(out))
	}
	for _, f := range out {
		if f.Key() == key {
			t.Errorf("decided finding survived filter: %+v", f)
		}
	}
}

func TestDecisionSetSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	s := NewDecisionSet()
	key := types.DecisionKey{Kind: types.KindStyle, OriginalText: "very unique"}
	s.Record(key, ActionDismissed)

	snap := s.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot has %d entries, want 1", len(snap))
	}
	if snap[key].Action != ActionDismissed {
		t.Errorf("snapshot action = %q, want dismissed", snap[key].Action)
	}

	delete(snap, key)
	if !s.Resolved(key) {
		t.Error("mutating the snapshot affected the set")
	}
}

func TestDecisionSetReset(t *testing.T) {
	t.Parallel()

	s := NewDecisionSet()
	s.Record(types.DecisionKey{Kind: types.KindSpelling, OriginalText: "teh"}, ActionAccepted)
	s.Reset()

	if s.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", s.Len())
	}
}
