// Package editor defines the surface the analysis pipeline talks to: a
// plain-text view of the document that can splice in accepted suggestions
// and render highlight descriptors. The analysis side never manipulates
// rich document structure directly; it only sees plain text and hands back
// text-level edits, which keeps the pipeline independent of any particular
// editor implementation.
package editor

import (
	"strings"
	"sync"

	"github.com/MrWong99/inkwell/pkg/types"
)

// Surface is the editor abstraction the session drives.
type Surface interface {
	// PlainText returns the current document text.
	PlainText() string

	// ApplyReplacement splices suggested over the first occurrence of
	// original in the document. It reports false, changing nothing, when
	// original no longer occurs — the document moved on since the finding
	// was produced, and a stale edit must not be applied somewhere else.
	ApplyReplacement(original, suggested string) bool

	// RenderHighlights replaces the currently displayed highlight set.
	RenderHighlights(highlights []types.Highlight)
}

// Buffer is an in-memory [Surface] over a plain string. It backs dictation
// and tests; a real deployment wires a rich-text implementation instead.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	highlights []types.Highlight

	// OnChange, when set, is invoked with the new text after every
	// mutation. The session uses it to feed the orchestrator.
	OnChange func(text string)
}

var _ Surface = (*Buffer)(nil)

// NewBuffer creates a Buffer with the given initial text.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

// PlainText returns the current text.
func (b *Buffer) PlainText() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// SetText replaces the whole document, as a load or a dictation commit
// would.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	b.text = text
	onChange := b.OnChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(text)
	}
}

// Append adds text at the end of the document. Dictation uses this to
// commit finalized transcript segments.
func (b *Buffer) Append(text string) {
	b.mu.Lock()
	b.text += text
	next := b.text
	onChange := b.OnChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(next)
	}
}

// ApplyReplacement splices suggested over the first occurrence of
// original. False when original is absent.
func (b *Buffer) ApplyReplacement(original, suggested string) bool {
	if original == "" {
		return false
	}

	b.mu.Lock()
	idx := strings.Index(b.text, original)
	if idx < 0 {
		b.mu.Unlock()
		return false
	}
	b.text = b.text[:idx] + suggested + b.text[idx+len(original):]
	next := b.text
	onChange := b.OnChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(next)
	}
	return true
}

// RenderHighlights stores the highlight set for inspection via
// [Buffer.Highlights].
func (b *Buffer) RenderHighlights(highlights []types.Highlight) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.highlights = highlights
}

// Highlights returns a copy of the last rendered highlight set.
func (b *Buffer) Highlights() []types.Highlight {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]types.Highlight, len(b.highlights))
	copy(out, b.highlights)
	return out
}
