package position

import (
	"testing"

	"github.com/MrWong99/inkwell/pkg/types"
)

func TestRemapRecomputesSpans(t *testing.T) {
	t.Parallel()

	text := "The cat sat on teh mat"
	in := []types.Finding{
		// Span hint is wrong on purpose; only OriginalText counts.
		{Kind: types.KindSpelling, OriginalText: "teh", Span: types.Span{Start: 0, End: 3}},
	}

	out := Remap(text, in)

	if len(out) != 1 {
		t.Fatalf("got %d findings, want 1", len(out))
	}
	f := out[0]
	if got := text[f.Span.Start:f.Span.End]; got != f.OriginalText {
		t.Errorf("span %v covers %q, want %q", f.Span, got, f.OriginalText)
	}
	if f.Span.Start != 15 {
		t.Errorf("span start = %d, want 15", f.Span.Start)
	}
}

func TestRemapDropsVanishedText(t *testing.T) {
	t.Parallel()

	out := Remap("clean text", []types.Finding{
		{Kind: types.KindSpelling, OriginalText: "teh"},
		{Kind: types.KindGrammar, OriginalText: ""},
	})

	if len(out) != 0 {
		t.Errorf("got %d findings, want 0: %+v", len(out), out)
	}
}

func TestRemapUsesFirstOccurrence(t *testing.T) {
	t.Parallel()

	text := "teh one and teh two"
	out := Remap(text, []types.Finding{
		{Kind: types.KindSpelling, OriginalText: "teh"},
	})

	if len(out) != 1 {
		t.Fatalf("got %d findings, want 1", len(out))
	}
	if out[0].Span.Start != 0 {
		t.Errorf("span start = %d, want first occurrence at 0", out[0].Span.Start)
	}
}

func TestRemapDeduplicatesCollapsedSpans(t *testing.T) {
	t.Parallel()

	// Two findings of the same kind quoting the same text collapse onto
	// one span after remapping; only the first survives.
	text := "teh one and teh two"
	out := Remap(text, []types.Finding{
		{Kind: types.KindSpelling, OriginalText: "teh", Message: "first"},
		{Kind: types.KindSpelling, OriginalText: "teh", Message: "second"},
	})

	if len(out) != 1 {
		t.Fatalf("got %d findings, want 1", len(out))
	}
	if out[0].Message != "first" {
		t.Errorf("wrong finding survived dedup: %+v", out[0])
	}
}

func TestRemapKeepsDifferentKindsOnSameSpan(t *testing.T) {
	t.Parallel()

	out := Remap("teh cat", []types.Finding{
		{Kind: types.KindSpelling, OriginalText: "teh"},
		{Kind: types.KindGrammar, OriginalText: "teh"},
	})

	if len(out) != 2 {
		t.Errorf("got %d findings, want 2 distinct kinds on one span", len(out))
	}
}
