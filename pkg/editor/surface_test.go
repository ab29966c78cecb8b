package editor

import (
	"testing"

	"github.com/MrWong99/inkwell/pkg/types"
)

func TestBufferApplyReplacement(t *testing.T) {
	t.Parallel()

	b := NewBuffer("I could of done it")

	if !b.ApplyReplacement("could of", "could have") {
		t.Fatal("ApplyReplacement failed for present text")
	}
	if got := b.PlainText(); got != "I could have done it" {
		t.Errorf("text = %q", got)
	}
}

func TestBufferApplyReplacementFirstOccurrenceOnly(t *testing.T) {
	t.Parallel()

	b := NewBuffer("teh one and teh two")

	if !b.ApplyReplacement("teh", "the") {
		t.Fatal("ApplyReplacement failed")
	}
	if got := b.PlainText(); got != "the one and teh two" {
		t.Errorf("text = %q, want only the first occurrence replaced", got)
	}
}

func TestBufferApplyReplacementStaleOriginal(t *testing.T) {
	t.Parallel()

	b := NewBuffer("the document moved on")

	if b.ApplyReplacement("teh", "the") {
		t.Error("ApplyReplacement succeeded for absent text")
	}
	if got := b.PlainText(); got != "the document moved on" {
		t.Errorf("stale replacement changed the text: %q", got)
	}
}

func TestBufferApplyReplacementEmptyOriginal(t *testing.T) {
	t.Parallel()

	b := NewBuffer("text")

	if b.ApplyReplacement("", "anything") {
		t.Error("ApplyReplacement succeeded with empty original")
	}
}

func TestBufferOnChange(t *testing.T) {
	t.Parallel()

	b := NewBuffer("start")

	var changes []string
	b.OnChange = func(text string) { changes = append(changes, text) }

	b.SetText("replaced")
	b.Append(" more")
	b.ApplyReplacement("more", "words")
	b.ApplyReplacement("absent", "x") // must not fire

	want := []string{"replaced", "replaced more", "replaced words"}
	if len(changes) != len(want) {
		t.Fatalf("OnChange fired %d times, want %d: %v", len(changes), len(want), changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d = %q, want %q", i, changes[i], want[i])
		}
	}
}

func TestBufferRenderHighlights(t *testing.T) {
	t.Parallel()

	b := NewBuffer("teh text")
	hs := []types.Highlight{{FindingID: "f1", Span: types.Span{Start: 0, End: 3}, Class: "spelling-high"}}

	b.RenderHighlights(hs)

	got := b.Highlights()
	if len(got) != 1 || got[0].FindingID != "f1" {
		t.Errorf("highlights = %+v", got)
	}

	b.RenderHighlights(nil)
	if len(b.Highlights()) != 0 {
		t.Error("clearing highlights left residue")
	}
}
