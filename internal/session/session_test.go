package session

import (
	"context"
	"testing"
	"time"

	"github.com/MrWong99/inkwell/internal/analysis"
	"github.com/MrWong99/inkwell/internal/document"
	"github.com/MrWong99/inkwell/pkg/analyzer"
	"github.com/MrWong99/inkwell/pkg/analyzer/mock"
	"github.com/MrWong99/inkwell/pkg/editor"
	"github.com/MrWong99/inkwell/pkg/types"
)

func spellingFinding(original, suggested string) types.Finding {
	return types.Finding{
		Kind:          types.KindSpelling,
		Severity:      types.SeverityHigh,
		OriginalText:  original,
		SuggestedText: suggested,
		Confidence:    0.95,
	}
}

func newTestSession(t *testing.T, cfg Config, buf *editor.Buffer, locals []analyzer.Analyzer, scorer analyzer.ScoringAnalyzer, opts ...Option) *Session {
	t.Helper()
	s, err := New(cfg, buf, locals, scorer, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestAcceptAppliesReplacementAndReanalyzes(t *testing.T) {
	t.Parallel()

	local := &mock.Analyzer{
		Findings: []types.Finding{spellingFinding("teh", "the")},
	}
	buf := editor.NewBuffer("teh cat sat")
	s := newTestSession(t, Config{}, buf, []analyzer.Analyzer{local}, nil)

	result := s.AnalyzeNow(context.Background())
	if len(result.Findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(result.Findings))
	}

	applied := s.Accept(context.Background(), result.Findings[0].ID)
	if !applied {
		t.Fatal("Accept reported the replacement not applied")
	}
	if got := buf.PlainText(); got != "the cat sat" {
		t.Errorf("text after accept = %q", got)
	}
	// The mandatory re-analysis ran on the corrected text.
	if n := local.CallCount(); n != 2 {
		t.Errorf("analyzer ran %d times, want 2 (initial + post-accept)", n)
	}
	if got := local.Calls[len(local.Calls)-1]; got != "the cat sat" {
		t.Errorf("re-analysis saw %q, want the corrected text", got)
	}
	// The accepted key never resurfaces.
	if len(s.Findings()) != 0 {
		t.Errorf("findings after accept: %+v", s.Findings())
	}
}

func TestAcceptStaleReplacementStillReanalyzes(t *testing.T) {
	t.Parallel()

	local := &mock.Analyzer{
		Findings: []types.Finding{spellingFinding("teh", "the")},
	}
	buf := editor.NewBuffer("teh cat")
	s := newTestSession(t, Config{}, buf, []analyzer.Analyzer{local}, nil)

	result := s.AnalyzeNow(context.Background())
	if len(result.Findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(result.Findings))
	}

	// The user edits the flagged text away before accepting.
	buf.SetText("the cat")
	calls := local.CallCount()

	applied := s.Accept(context.Background(), result.Findings[0].ID)
	if applied {
		t.Error("stale replacement reported applied")
	}
	if got := buf.PlainText(); got != "the cat" {
		t.Errorf("stale accept changed the text: %q", got)
	}
	if local.CallCount() <= calls {
		t.Error("accept of a stale finding skipped the re-analysis")
	}
}

func TestDismissRerendersHighlights(t *testing.T) {
	t.Parallel()

	local := &mock.Analyzer{
		Findings: []types.Finding{
			spellingFinding("teh", "the"),
			spellingFinding("recieve", "receive"),
		},
	}
	buf := editor.NewBuffer("teh letters I recieve")
	s := newTestSession(t, Config{}, buf, []analyzer.Analyzer{local}, nil)

	result := s.AnalyzeNow(context.Background())
	if len(result.Findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(result.Findings))
	}

	if !s.Dismiss(context.Background(), result.Findings[0].ID) {
		t.Fatal("Dismiss reported the finding missing")
	}
	if got := buf.Highlights(); len(got) != 1 {
		t.Errorf("highlights after dismiss = %d, want 1", len(got))
	}
	if s.Dismiss(context.Background(), result.Findings[0].ID) {
		t.Error("second Dismiss of the same id succeeded")
	}
}

func TestClickResolvesFinding(t *testing.T) {
	t.Parallel()

	local := &mock.Analyzer{
		Findings: []types.Finding{spellingFinding("teh", "the")},
	}
	buf := editor.NewBuffer("say teh word")
	s := newTestSession(t, Config{}, buf, []analyzer.Analyzer{local}, nil)

	s.AnalyzeNow(context.Background())

	f, ok := s.Click(5)
	if !ok || f.OriginalText != "teh" {
		t.Errorf("Click(5) = %+v ok=%v", f, ok)
	}
	if _, ok := s.Click(0); ok {
		t.Error("click outside any span resolved a finding")
	}
}

func TestClearAnalysisResetsEverything(t *testing.T) {
	t.Parallel()

	local := &mock.Analyzer{
		Findings: []types.Finding{spellingFinding("teh", "the")},
	}
	buf := editor.NewBuffer("teh word")
	s := newTestSession(t, Config{}, buf, []analyzer.Analyzer{local}, nil)

	result := s.AnalyzeNow(context.Background())
	s.Dismiss(context.Background(), result.Findings[0].ID)

	s.ClearAnalysis()

	if len(buf.Highlights()) != 0 {
		t.Error("highlights survived ClearAnalysis")
	}

	// The dismissed finding comes back after the reset.
	again := s.AnalyzeNow(context.Background())
	if len(again.Findings) != 1 {
		t.Errorf("got %d findings after reset, want the dismissed one back", len(again.Findings))
	}
}

func TestSaveAndLoadRoundTripsDecisions(t *testing.T) {
	t.Parallel()

	store := document.NewMemStore()
	local := &mock.Analyzer{
		Findings: []types.Finding{spellingFinding("teh", "the")},
	}

	buf := editor.NewBuffer("")
	s := newTestSession(t, Config{DocumentID: "doc-1", Title: "Draft"}, buf,
		[]analyzer.Analyzer{local}, nil, WithStore(store))

	buf.SetText("teh cat")
	result := s.AnalyzeNow(context.Background())
	s.Dismiss(context.Background(), result.Findings[0].ID)

	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A fresh session over the same store restores the dismissal.
	buf2 := editor.NewBuffer("")
	s2 := newTestSession(t, Config{DocumentID: "doc-1"}, buf2,
		[]analyzer.Analyzer{local}, nil, WithStore(store))

	doc, err := s2.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc == nil || doc.Text != "teh cat" {
		t.Fatalf("loaded doc = %+v", doc)
	}
	buf2.SetText(doc.Text)

	again := s2.AnalyzeNow(context.Background())
	if len(again.Findings) != 0 {
		t.Errorf("dismissed finding resurfaced in a new session: %+v", again.Findings)
	}
}

func TestLoadMissingDocument(t *testing.T) {
	t.Parallel()

	buf := editor.NewBuffer("")
	s := newTestSession(t, Config{DocumentID: "ghost"}, buf, nil, nil,
		WithStore(document.NewMemStore()))

	doc, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc != nil {
		t.Errorf("got %+v for a missing document", doc)
	}
}

func TestLoadSkipsInvalidDecisionKinds(t *testing.T) {
	t.Parallel()

	store := document.NewMemStore()
	err := store.Save(context.Background(), &document.Document{
		ID:   "doc-1",
		Text: "teh cat",
		Decisions: []document.DecisionRecord{
			{Kind: "nonsense", OriginalText: "teh", Action: string(analysis.ActionDismissed)},
			{Kind: string(types.KindSpelling), OriginalText: "recieve", Action: string(analysis.ActionAccepted)},
		},
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	local := &mock.Analyzer{
		Findings: []types.Finding{spellingFinding("teh", "the")},
	}
	buf := editor.NewBuffer("")
	s := newTestSession(t, Config{DocumentID: "doc-1"}, buf,
		[]analyzer.Analyzer{local}, nil, WithStore(store))

	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// The invalid-kind record was ignored, so the finding still surfaces.
	buf.SetText("teh cat")
	result := s.AnalyzeNow(context.Background())
	if len(result.Findings) != 1 {
		t.Errorf("got %d findings, want 1 (invalid decision record skipped)", len(result.Findings))
	}
}

func TestAutoSaveAfterTextChange(t *testing.T) {
	t.Parallel()

	store := document.NewMemStore()
	buf := editor.NewBuffer("")
	s := newTestSession(t, Config{
		DocumentID:    "doc-1",
		Title:         "Draft",
		AutoSaveDelay: 30 * time.Millisecond,
	}, buf, nil, nil, WithStore(store))
	buf.OnChange = s.OnTextChanged

	buf.SetText("autosaved text.")

	deadline := time.Now().Add(2 * time.Second)
	for {
		doc, err := store.Get(context.Background(), "doc-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if doc != nil && doc.Text == "autosaved text." {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("auto-save never persisted the document")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCloseSavesAndIsIdempotent(t *testing.T) {
	t.Parallel()

	store := document.NewMemStore()
	buf := editor.NewBuffer("final text")
	s, err := New(Config{DocumentID: "doc-1", Title: "Draft"}, buf, nil, nil, WithStore(store))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	doc, err := store.Get(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc == nil || doc.Text != "final text" {
		t.Errorf("final save missing: %+v", doc)
	}
}
