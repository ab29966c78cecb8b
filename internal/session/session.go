// Package session binds one editor surface to its analysis pipeline: it
// owns the orchestrator and interaction handler for a document, routes
// text changes in and highlights out, applies accepted suggestions to the
// surface, and auto-saves through a document store.
//
// One Session corresponds to one open document. Create it when the editor
// mounts and Close it when the editor unmounts; sessions share nothing.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MrWong99/inkwell/internal/analysis"
	"github.com/MrWong99/inkwell/internal/document"
	"github.com/MrWong99/inkwell/internal/interaction"
	"github.com/MrWong99/inkwell/internal/observe"
	"github.com/MrWong99/inkwell/pkg/analyzer"
	"github.com/MrWong99/inkwell/pkg/editor"
	"github.com/MrWong99/inkwell/pkg/types"
)

const defaultAutoSaveDelay = 2 * time.Second

// Config configures one Session.
type Config struct {
	// DocumentID identifies the document this session edits. Required
	// when a store is attached.
	DocumentID string

	// Title is the document title used on auto-save.
	Title string

	// AutoSaveDelay is how long after the last text change the document
	// is persisted. Zero selects the default.
	AutoSaveDelay time.Duration

	// Analysis tunes the orchestrator.
	Analysis analysis.Config
}

// Option is a functional option for [New].
type Option func(*Session)

// WithStore attaches a document store for auto-save and load.
func WithStore(store document.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithMetrics attaches observability instruments. When absent, metric
// recording is skipped.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// Session is the per-document binding of surface, orchestrator, and
// interaction handler. All exported methods are safe for concurrent use.
type Session struct {
	cfg     Config
	surface editor.Surface
	orch    *analysis.Orchestrator
	handler *interaction.Handler
	store   document.Store
	metrics *observe.Metrics

	mu        sync.Mutex
	saveTimer *time.Timer
	closed    bool
}

// New creates a Session over surface, building its orchestrator from the
// given local analyzers and scoring analyzer. Committed analysis results
// are rendered onto the surface as they arrive.
func New(cfg Config, surface editor.Surface, locals []analyzer.Analyzer, scorer analyzer.ScoringAnalyzer, opts ...Option) (*Session, error) {
	if cfg.AutoSaveDelay <= 0 {
		cfg.AutoSaveDelay = defaultAutoSaveDelay
	}

	s := &Session{cfg: cfg, surface: surface}
	for _, opt := range opts {
		opt(s)
	}

	orch, err := analysis.New(cfg.Analysis, locals, scorer,
		analysis.WithResultHandler(func(_ *types.AnalysisResult, highlights []types.Highlight) {
			surface.RenderHighlights(highlights)
		}),
		analysis.WithMetrics(s.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.orch = orch
	s.handler = interaction.NewHandler(orch, s.metrics)

	s.metrics.SessionStarted(context.Background())
	return s, nil
}

// OnTextChanged is the surface's change notification. It feeds the
// orchestrator and schedules an auto-save.
func (s *Session) OnTextChanged(text string) {
	s.orch.OnTextChanged(text)
	s.scheduleSave()
}

// Click resolves the finding at the given text position, for opening its
// suggestion card. ok is false when no highlight covers the position.
func (s *Session) Click(pos int) (types.Finding, bool) {
	return s.handler.ResolveClick(pos)
}

// Accept applies the suggestion of the finding with the given id to the
// surface and immediately re-analyzes the resulting text, so every
// remaining highlight is positioned against the document as it now reads.
// The re-analysis happens even when the splice failed (the original text
// no longer occurred); the finding is resolved either way.
func (s *Session) Accept(ctx context.Context, id string) bool {
	rep, ok := s.handler.Accept(ctx, id)
	if !ok {
		return false
	}

	applied := false
	if rep != nil {
		applied = s.surface.ApplyReplacement(rep.OriginalText, rep.SuggestedText)
		if !applied {
			slog.Warn("accepted suggestion no longer applies",
				"original", rep.OriginalText)
		}
	}

	s.orch.AnalyzeNow(ctx, s.surface.PlainText())
	s.scheduleSave()
	return applied
}

// Dismiss rejects the finding with the given id and re-renders the
// remaining highlights. ok is false when no such finding exists.
func (s *Session) Dismiss(ctx context.Context, id string) bool {
	if !s.handler.Reject(ctx, id) {
		return false
	}
	s.surface.RenderHighlights(s.orch.Highlights())
	s.scheduleSave()
	return true
}

// Findings returns the current live findings.
func (s *Session) Findings() []types.Finding {
	return s.orch.Findings()
}

// AnalyzeNow runs a full analysis cycle on the surface's current text,
// bypassing the debounce.
func (s *Session) AnalyzeNow(ctx context.Context) *types.AnalysisResult {
	return s.orch.AnalyzeNow(ctx, s.surface.PlainText())
}

// ClearAnalysis resets the result cache, the decision records, and all
// rendered highlights.
func (s *Session) ClearAnalysis() {
	s.orch.Reset()
	s.surface.RenderHighlights(nil)
}

// Load fetches the session's document from the store and restores its
// recorded decisions, so previously resolved suggestions stay resolved.
// Returns (nil, nil) when the document does not exist yet. The caller
// places the returned text into the surface.
func (s *Session) Load(ctx context.Context) (*document.Document, error) {
	if s.store == nil {
		return nil, nil
	}

	doc, err := s.store.Get(ctx, s.cfg.DocumentID)
	if err != nil || doc == nil {
		return doc, err
	}

	for _, rec := range doc.Decisions {
		kind := types.Kind(rec.Kind)
		if !kind.IsValid() {
			continue
		}
		s.orch.RecordDecision(
			types.DecisionKey{Kind: kind, OriginalText: rec.OriginalText},
			analysis.Action(rec.Action),
		)
	}
	return doc, nil
}

// Save persists the surface's current text and the session's decision
// records. No-op without a store.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	snapshot := s.orch.Decisions().Snapshot()
	records := make([]document.DecisionRecord, 0, len(snapshot))
	for key, dec := range snapshot {
		records = append(records, document.DecisionRecord{
			Kind:         string(key.Kind),
			OriginalText: key.OriginalText,
			Action:       string(dec.Action),
		})
	}

	doc := &document.Document{
		ID:        s.cfg.DocumentID,
		Title:     s.cfg.Title,
		Text:      s.surface.PlainText(),
		Decisions: records,
	}
	if err := s.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("session: save document %q: %w", s.cfg.DocumentID, err)
	}
	return nil
}

// scheduleSave restarts the auto-save timer. Without a store this is a
// no-op.
func (s *Session) scheduleSave() {
	if s.store == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.cfg.AutoSaveDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Save(ctx); err != nil {
			slog.Error("auto-save failed", "document_id", s.cfg.DocumentID, "error", err)
		}
	})
}

// Close stops the auto-save timer, performs a final save, and releases
// the orchestrator. Idempotent.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.mu.Unlock()

	err := s.Save(ctx)
	s.orch.Close()
	s.metrics.SessionEnded(ctx)
	return err
}
