// Package analysis contains the orchestrator that coordinates Inkwell's
// analyzers for one editing session.
//
// The orchestrator owns the debounce timer, the per-session result cache,
// the in-flight request deduplication, the merge of rule, spelling, and
// remote findings into one consistent set, and the accept/dismiss decision
// records. It is the sole owner of the live findings list: the editor
// surface only reads highlights and reports user actions back.
//
// Results are committed in a single batch per cycle — one analyzer's
// findings are never surfaced before another's. A stale in-flight cycle
// (the text changed again before it resolved) still populates the cache
// but is never committed as the current highlight set; a monotonically
// increasing generation counter checked at commit time guards this.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/MrWong99/inkwell/internal/observe"
	"github.com/MrWong99/inkwell/internal/position"
	"github.com/MrWong99/inkwell/pkg/analyzer"
	"github.com/MrWong99/inkwell/pkg/types"
)

const (
	defaultDebounceWindow     = 1200 * time.Millisecond
	defaultImmediateCharDelta = 30
	defaultImmediateElapsed   = 10 * time.Second
	defaultCacheSize          = 128
	defaultCycleTimeout       = 30 * time.Second

	// degradedBaseline is the synthetic score used when even the scoring
	// chain errored and no score information exists at all.
	degradedBaseline = 70
)

// Config tunes one Orchestrator. Zero values select defaults.
type Config struct {
	// DebounceWindow is how long after the last text change an analysis
	// cycle starts, absent an immediate trigger.
	DebounceWindow time.Duration

	// ImmediateCharDelta triggers an immediate cycle when the text length
	// changed by more than this many characters since the last analysis.
	ImmediateCharDelta int

	// ImmediateElapsed triggers an immediate cycle when this much time
	// passed since the last analysis.
	ImmediateElapsed time.Duration

	// CacheSize is the LRU capacity for per-text analysis results.
	CacheSize int

	// CycleTimeout bounds one full analysis cycle.
	CycleTimeout time.Duration

	// MinConfidence is an optional display threshold. Findings below it
	// are not surfaced. Zero disables the threshold.
	MinConfidence float64
}

func (c Config) withDefaults() Config {
	if c.DebounceWindow <= 0 {
		c.DebounceWindow = defaultDebounceWindow
	}
	if c.ImmediateCharDelta <= 0 {
		c.ImmediateCharDelta = defaultImmediateCharDelta
	}
	if c.ImmediateElapsed <= 0 {
		c.ImmediateElapsed = defaultImmediateElapsed
	}
	if c.CacheSize <= 0 {
		c.CacheSize = defaultCacheSize
	}
	if c.CycleTimeout <= 0 {
		c.CycleTimeout = defaultCycleTimeout
	}
	return c
}

// ResultHandler receives each committed analysis cycle: the filtered
// result and the projected highlights, in one batch. Called on the cycle's
// goroutine; implementations must be quick or hand off.
type ResultHandler func(result *types.AnalysisResult, highlights []types.Highlight)

// Option is a functional option for [New].
type Option func(*Orchestrator)

// WithResultHandler installs the handler invoked on every committed cycle.
func WithResultHandler(h ResultHandler) Option {
	return func(o *Orchestrator) {
		o.onResult = h
	}
}

// WithMetrics attaches observability instruments. When absent, metric
// recording is skipped.
func WithMetrics(m *observe.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// Orchestrator coordinates analyzers for one editing session. Construct
// with [New] on editor mount and release with [Orchestrator.Close] on
// unmount; there is no shared global state between sessions.
//
// All exported methods are safe for concurrent use.
type Orchestrator struct {
	cfg      Config
	locals   []analyzer.Analyzer
	scorer   analyzer.ScoringAnalyzer
	onResult ResultHandler
	metrics  *observe.Metrics

	group singleflight.Group

	mu             sync.Mutex
	cache          *lru.Cache[string, *types.AnalysisResult]
	decisions      *DecisionSet
	findings       []types.Finding
	highlights     []types.Highlight
	pendingText    string
	lastText       string
	lastAnalyzed   bool
	lastAnalyzedAt time.Time
	generation     uint64
	timer          *time.Timer
	closed         bool
}

// New creates an Orchestrator over the given local analyzers (rule engine,
// spelling checker — run concurrently each cycle) and the scoring analyzer
// (normally the resilience chain ending in the local fallback).
func New(cfg Config, locals []analyzer.Analyzer, scorer analyzer.ScoringAnalyzer, opts ...Option) (*Orchestrator, error) {
	cfg = cfg.withDefaults()

	cache, err := lru.New[string, *types.AnalysisResult](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		cfg:       cfg,
		locals:    locals,
		scorer:    scorer,
		cache:     cache,
		decisions: NewDecisionSet(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// OnTextChanged is the editor surface's change notification. It restarts
// the debounce timer, or starts a cycle immediately when the immediate
// predicate fires. Identical text to the last fully analyzed version is a
// no-op fast path.
func (o *Orchestrator) OnTextChanged(text string) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	if o.lastAnalyzed && text == o.lastText {
		// Suppressed: nothing changed since the last full analysis.
		o.mu.Unlock()
		return
	}

	o.pendingText = text
	o.generation++
	gen := o.generation

	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}

	if o.immediateLocked(text) {
		o.mu.Unlock()
		go o.runCycle(text, gen)
		return
	}

	o.timer = time.AfterFunc(o.cfg.DebounceWindow, func() {
		o.mu.Lock()
		if o.closed {
			o.mu.Unlock()
			return
		}
		text := o.pendingText
		gen := o.generation
		o.mu.Unlock()
		o.runCycle(text, gen)
	})
	o.mu.Unlock()
}

// immediateLocked is the "should analyze immediately" predicate. Caller
// holds o.mu. It balances responsiveness against remote rate limits: large
// edits, finished sentences, and long-stale analyses skip the debounce.
func (o *Orchestrator) immediateLocked(text string) bool {
	delta := len(text) - len(o.lastText)
	if delta < 0 {
		delta = -delta
	}
	if delta > o.cfg.ImmediateCharDelta {
		return true
	}
	if n := len(text); n > 0 {
		switch text[n-1] {
		case '.', '!', '?':
			return true
		}
	}
	if o.lastAnalyzed && time.Since(o.lastAnalyzedAt) > o.cfg.ImmediateElapsed {
		return true
	}
	return false
}

// AnalyzeNow runs a full cycle for text synchronously, bypassing the
// debounce, and commits the result as current. Used after an accepted
// replacement is applied, and by callers that want a result immediately.
func (o *Orchestrator) AnalyzeNow(ctx context.Context, text string) *types.AnalysisResult {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return &types.AnalysisResult{Scores: types.PerfectScores()}
	}
	o.pendingText = text
	o.generation++
	gen := o.generation
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.mu.Unlock()

	return o.cycle(ctx, text, gen)
}

// runCycle is the goroutine entry for debounced/immediate cycles.
func (o *Orchestrator) runCycle(text string, gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.CycleTimeout)
	defer cancel()
	o.cycle(ctx, text, gen)
}

// cycle produces the analysis result for text and commits it if gen is
// still the latest generation. The unfiltered result is cached by content
// hash; decision filtering and the confidence threshold are applied on
// every cycle, so a cache hit still honours decisions recorded since.
func (o *Orchestrator) cycle(ctx context.Context, text string, gen uint64) *types.AnalysisResult {
	start := time.Now()

	raw := o.resultFor(ctx, text)

	filtered := &types.AnalysisResult{
		Findings: o.applyThreshold(o.decisions.filter(raw.Findings)),
		Scores:   raw.Scores,
		Degraded: raw.Degraded,
	}
	highlights := position.Project(filtered.Findings)

	committed := o.commit(text, gen, filtered, highlights)
	o.metrics.RecordAnalysis(ctx, time.Since(start), len(filtered.Findings), raw.Degraded)

	if committed && o.onResult != nil {
		o.onResult(filtered, highlights)
	}
	return filtered
}

// resultFor returns the cached unfiltered result for text, or runs all
// analyzers to produce one. Concurrent requests for the same text share a
// single execution.
func (o *Orchestrator) resultFor(ctx context.Context, text string) *types.AnalysisResult {
	if text == "" {
		// Nothing to analyze; no analyzer is invoked at all.
		return &types.AnalysisResult{Findings: []types.Finding{}, Scores: types.PerfectScores()}
	}

	key := contentHash(text)

	o.mu.Lock()
	if cached, ok := o.cache.Get(key); ok {
		o.mu.Unlock()
		o.metrics.RecordCacheHit(ctx)
		return cached
	}
	o.mu.Unlock()

	v, _, _ := o.group.Do(key, func() (any, error) {
		result := o.analyzeAll(ctx, text)
		o.mu.Lock()
		o.cache.Add(key, result)
		o.mu.Unlock()
		return result, nil
	})
	return v.(*types.AnalysisResult)
}

// analyzeAll fans out to every analyzer concurrently, waits for all of
// them, and merges their findings into one batch. A failing analyzer
// contributes zero findings; it never blocks or corrupts the others.
func (o *Orchestrator) analyzeAll(ctx context.Context, text string) *types.AnalysisResult {
	var (
		resultMu     sync.Mutex
		localResults = make([][]types.Finding, len(o.locals))
		scored       *types.AnalysisResult
	)

	g, gctx := errgroup.WithContext(ctx)

	for i, a := range o.locals {
		g.Go(func() error {
			findings, err := a.Analyze(gctx, text)
			if err != nil {
				slog.Warn("analyzer failed; treating as zero findings",
					"analyzer", a.Name(), "error", err)
				o.metrics.RecordAnalyzerError(gctx, a.Name())
				return nil
			}
			resultMu.Lock()
			localResults[i] = findings
			resultMu.Unlock()
			return nil
		})
	}

	if o.scorer != nil {
		g.Go(func() error {
			result, err := o.scorer.Analyze(gctx, text)
			if err != nil {
				slog.Warn("scoring analyzer failed; degrading",
					"analyzer", o.scorer.Name(), "error", err)
				o.metrics.RecordAnalyzerError(gctx, o.scorer.Name())
				return nil
			}
			resultMu.Lock()
			scored = result
			resultMu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	var (
		remoteFindings []types.Finding
		scores         types.Scores
		degraded       bool
	)
	if scored != nil {
		remoteFindings = scored.Findings
		scores = scored.Scores
		degraded = scored.Degraded
	} else {
		scores = types.Scores{
			Correctness: degradedBaseline,
			Clarity:     degradedBaseline,
			Engagement:  degradedBaseline,
			Delivery:    degradedBaseline,
		}.Clamp()
		degraded = true
	}

	// Remap every group against the analyzed text, then merge with
	// remote-wins precedence on span collisions.
	remapped := make([][]types.Finding, 0, len(localResults))
	for _, group := range localResults {
		remapped = append(remapped, position.Remap(text, group))
	}
	merged := mergeFindings(position.Remap(text, remoteFindings), remapped...)

	return &types.AnalysisResult{
		Findings: merged,
		Scores:   scores,
		Degraded: degraded,
	}
}

// commit installs result as the current findings/highlights set if gen is
// still the newest generation. Stale results are discarded (their cache
// entry survives for future hits).
func (o *Orchestrator) commit(text string, gen uint64, result *types.AnalysisResult, highlights []types.Highlight) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || gen != o.generation {
		return false
	}
	// Own copies: the result and highlight slices are also held by the
	// caller, the cache, and the result handler, and Remove filters both
	// in place.
	o.findings = make([]types.Finding, len(result.Findings))
	copy(o.findings, result.Findings)
	o.highlights = make([]types.Highlight, len(highlights))
	copy(o.highlights, highlights)
	o.lastText = text
	o.lastAnalyzed = true
	o.lastAnalyzedAt = time.Now()
	return true
}

// applyThreshold drops findings below the configured display confidence.
func (o *Orchestrator) applyThreshold(in []types.Finding) []types.Finding {
	if o.cfg.MinConfidence <= 0 {
		return in
	}
	out := make([]types.Finding, 0, len(in))
	for _, f := range in {
		if f.Confidence >= o.cfg.MinConfidence {
			out = append(out, f)
		}
	}
	return out
}

// Findings returns a copy of the current live findings.
func (o *Orchestrator) Findings() []types.Finding {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]types.Finding, len(o.findings))
	copy(out, o.findings)
	return out
}

// Highlights returns a copy of the current highlight descriptors.
func (o *Orchestrator) Highlights() []types.Highlight {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]types.Highlight, len(o.highlights))
	copy(out, o.highlights)
	return out
}

// Remove deletes the finding with the given id from the live set and
// returns it. ok is false when no such finding exists (already resolved or
// superseded by a newer cycle).
func (o *Orchestrator) Remove(id string) (types.Finding, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, f := range o.findings {
		if f.ID == id {
			o.findings = append(o.findings[:i], o.findings[i+1:]...)
			o.highlights = removeHighlight(o.highlights, id)
			return f, true
		}
	}
	return types.Finding{}, false
}

// RecordDecision stores an accept/dismiss outcome so the finding's
// (kind, originalText) key is never re-surfaced.
func (o *Orchestrator) RecordDecision(key types.DecisionKey, action Action) {
	o.decisions.Record(key, action)
}

// Decisions exposes the decision set, primarily for tests and status
// endpoints.
func (o *Orchestrator) Decisions() *DecisionSet {
	return o.decisions
}

// Reset clears the result cache, all decision records, and the live
// finding set. This is the "clear analysis" operation; nothing expires
// otherwise within a session.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cache.Purge()
	o.decisions.Reset()
	o.findings = nil
	o.highlights = nil
	o.lastAnalyzed = false
	o.lastText = ""
}

// Close stops the debounce timer and rejects further work. Idempotent.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

// removeHighlight filters the highlight slice by finding id.
func removeHighlight(in []types.Highlight, findingID string) []types.Highlight {
	out := in[:0]
	for _, h := range in {
		if h.FindingID != findingID {
			out = append(out, h)
		}
	}
	return out
}

// contentHash returns the cache key for text.
func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
