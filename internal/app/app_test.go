package app

import (
	"context"
	"testing"

	"github.com/MrWong99/inkwell/internal/config"
	"github.com/MrWong99/inkwell/internal/document"
	"github.com/MrWong99/inkwell/pkg/analyzer"
	"github.com/MrWong99/inkwell/pkg/analyzer/mock"
	"github.com/MrWong99/inkwell/pkg/types"
)

func newTestApp(t *testing.T, cfg *config.Config, opts ...Option) *App {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	base := []Option{
		WithDocumentStore(document.NewMemStore()),
		WithLocalAnalyzers([]analyzer.Analyzer{&mock.Analyzer{}}),
		WithScoringAnalyzer(&mock.ScoringAnalyzer{
			Result: &types.AnalysisResult{Scores: types.PerfectScores()},
		}),
	}
	a, err := New(context.Background(), cfg, &Providers{}, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func TestOpenSessionIsIdempotentPerDocument(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nil)
	ctx := context.Background()

	s1, b1, err := a.OpenSession(ctx, "doc-1", "Draft")
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	s2, b2, err := a.OpenSession(ctx, "doc-1", "Draft")
	if err != nil {
		t.Fatalf("second OpenSession: %v", err)
	}
	if s1 != s2 || b1 != b2 {
		t.Error("reopening a document created a new session")
	}

	if _, ok := a.Session("doc-1"); !ok {
		t.Error("Session lookup missed an open session")
	}
	if _, ok := a.Session("other"); ok {
		t.Error("Session lookup found an unopened document")
	}
}

func TestOpenSessionLoadsSavedDocument(t *testing.T) {
	t.Parallel()

	store := document.NewMemStore()
	err := store.Save(context.Background(), &document.Document{
		ID:    "doc-1",
		Title: "Draft",
		Text:  "saved text",
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	a := newTestApp(t, nil, WithDocumentStore(store))

	_, buf, err := a.OpenSession(context.Background(), "doc-1", "Draft")
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if got := buf.PlainText(); got != "saved text" {
		t.Errorf("buffer text = %q, want the stored document", got)
	}
}

func TestOpenSessionLoadDoesNotCountAsEdit(t *testing.T) {
	t.Parallel()

	store := document.NewMemStore()
	if err := store.Save(context.Background(), &document.Document{ID: "doc-1", Text: "loaded."}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	local := &mock.Analyzer{}
	a := newTestApp(t, nil,
		WithDocumentStore(store),
		WithLocalAnalyzers([]analyzer.Analyzer{local}))

	if _, _, err := a.OpenSession(context.Background(), "doc-1", ""); err != nil {
		t.Fatalf("OpenSession: %v", err)
	}

	// The initial load ends with a sentence terminator; had it been
	// treated as an edit, an immediate analysis cycle would have fired.
	if n := local.CallCount(); n != 0 {
		t.Errorf("loading the document triggered %d analysis cycles", n)
	}
}

func TestCloseSession(t *testing.T) {
	t.Parallel()

	store := document.NewMemStore()
	a := newTestApp(t, nil, WithDocumentStore(store))
	ctx := context.Background()

	_, buf, err := a.OpenSession(ctx, "doc-1", "Draft")
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	buf.SetText("text to keep")

	if err := a.CloseSession(ctx, "doc-1"); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if _, ok := a.Session("doc-1"); ok {
		t.Error("session still open after CloseSession")
	}

	// Closing persisted the final text.
	doc, err := store.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc == nil || doc.Text != "text to keep" {
		t.Errorf("persisted doc = %+v", doc)
	}

	// Closing an unopened document is a no-op.
	if err := a.CloseSession(ctx, "ghost"); err != nil {
		t.Errorf("CloseSession of unopened doc: %v", err)
	}
}

func TestNewDefaultsToMemStoreWithoutDSN(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), &config.Config{}, &Providers{},
		WithLocalAnalyzers([]analyzer.Analyzer{&mock.Analyzer{}}),
		WithScoringAnalyzer(&mock.ScoringAnalyzer{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	if _, ok := a.Store().(*document.MemStore); !ok {
		t.Errorf("store = %T, want *document.MemStore", a.Store())
	}
}

func TestNewRemoteLLMRequiresProvider(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Analysis.Remote = config.RemoteModeLLM

	_, err := New(context.Background(), cfg, &Providers{},
		WithDocumentStore(document.NewMemStore()),
		WithLocalAnalyzers([]analyzer.Analyzer{&mock.Analyzer{}}))
	if err == nil {
		t.Error("New accepted remote llm mode without an LLM provider")
	}
}

func TestAnalysisConfigTranslation(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Analysis.DebounceMillis = 500
	cfg.Analysis.ImmediateCharDelta = 40
	cfg.Analysis.ImmediateElapsedSeconds = 12
	cfg.Analysis.CacheSize = 16
	cfg.Analysis.MinConfidence = 0.3

	a := newTestApp(t, cfg)
	got := a.analysisConfig()

	if got.DebounceWindow.Milliseconds() != 500 {
		t.Errorf("debounce = %v", got.DebounceWindow)
	}
	if got.ImmediateCharDelta != 40 || got.CacheSize != 16 || got.MinConfidence != 0.3 {
		t.Errorf("config = %+v", got)
	}
	if got.ImmediateElapsed.Seconds() != 12 {
		t.Errorf("immediate elapsed = %v", got.ImmediateElapsed)
	}
}
