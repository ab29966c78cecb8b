// Package app wires all Inkwell subsystems into a running application.
//
// The App struct owns the full lifecycle: New creates and connects all
// subsystems, Run serves the HTTP API until the context is cancelled, and
// Shutdown tears everything down in order.
//
// For testing, inject mock implementations via functional options
// (WithDocumentStore, WithScoringAnalyzer, etc.). When an option is not
// provided, New creates real implementations from the config.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MrWong99/inkwell/internal/analysis"
	"github.com/MrWong99/inkwell/internal/config"
	"github.com/MrWong99/inkwell/internal/document"
	"github.com/MrWong99/inkwell/internal/observe"
	"github.com/MrWong99/inkwell/internal/resilience"
	"github.com/MrWong99/inkwell/internal/session"
	"github.com/MrWong99/inkwell/pkg/analyzer"
	"github.com/MrWong99/inkwell/pkg/analyzer/remote"
	"github.com/MrWong99/inkwell/pkg/analyzer/rules"
	"github.com/MrWong99/inkwell/pkg/analyzer/spelling"
	"github.com/MrWong99/inkwell/pkg/editor"
	"github.com/MrWong99/inkwell/pkg/provider/llm"
	"github.com/MrWong99/inkwell/pkg/provider/stt"
	"github.com/MrWong99/inkwell/pkg/provider/tts"
)

// Providers holds one interface value per provider slot. Nil means the
// provider is not configured. Populated by main.go via the config
// registry.
type Providers struct {
	LLM llm.Provider
	STT stt.Provider
	TTS tts.Provider
}

// App owns all subsystem lifetimes and serves the Inkwell analysis API.
type App struct {
	cfg       *config.Config
	providers *Providers
	metrics   *observe.Metrics

	// Subsystems — initialised in New, torn down in Shutdown.
	store  document.Store
	locals []analyzer.Analyzer
	scorer analyzer.ScoringAnalyzer

	// sessions maps document IDs to their open editing sessions.
	sessionsMu sync.Mutex
	sessions   map[string]*openSession

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// openSession pairs a session with its in-memory surface.
type openSession struct {
	session *session.Session
	buffer  *editor.Buffer
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithDocumentStore injects a document store instead of creating one from
// config.
func WithDocumentStore(s document.Store) Option {
	return func(a *App) { a.store = s }
}

// WithScoringAnalyzer injects the scoring analyzer instead of building
// the resilience chain from config.
func WithScoringAnalyzer(s analyzer.ScoringAnalyzer) Option {
	return func(a *App) { a.scorer = s }
}

// WithLocalAnalyzers injects the local analyzer set instead of the rule
// engine and spelling checker.
func WithLocalAnalyzers(locals []analyzer.Analyzer) Option {
	return func(a *App) { a.locals = locals }
}

// WithMetrics attaches observability instruments.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// New creates an App by wiring all subsystems together. The providers
// struct comes from main.go (populated via the config registry). Use
// Option functions to inject test doubles for any subsystem.
func New(ctx context.Context, cfg *config.Config, providers *Providers, opts ...Option) (*App, error) {
	a := &App{
		cfg:       cfg,
		providers: providers,
		sessions:  make(map[string]*openSession),
	}
	for _, o := range opts {
		o(a)
	}

	if err := a.initStore(ctx); err != nil {
		return nil, fmt.Errorf("app: init document store: %w", err)
	}
	a.initAnalyzers()
	if err := a.initScorer(); err != nil {
		return nil, fmt.Errorf("app: init scoring analyzer: %w", err)
	}

	return a, nil
}

// initStore sets up the document store: PostgreSQL when a DSN is
// configured, in-memory otherwise.
func (a *App) initStore(ctx context.Context) error {
	if a.store != nil {
		return nil // injected
	}

	dsn := a.cfg.Documents.PostgresDSN
	if dsn == "" {
		a.store = document.NewMemStore()
		slog.Info("using in-memory document store")
		return nil
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	store := document.NewPostgresStore(pool)
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return err
	}

	a.store = store
	a.closers = append(a.closers, func() error {
		pool.Close()
		return nil
	})
	slog.Info("using postgres document store")
	return nil
}

// initAnalyzers builds the local analyzer set: the rule engine and the
// spelling checker with the user's custom vocabulary.
func (a *App) initAnalyzers() {
	if a.locals != nil {
		return // injected
	}

	checker := spelling.NewChecker(
		spelling.WithOracle(spelling.NewFuzzyOracle()),
		spelling.WithStopwords(a.cfg.Spelling.CustomWords),
	)
	a.locals = []analyzer.Analyzer{
		rules.NewEngine(),
		checker,
	}
}

// initScorer builds the scoring analyzer: the configured remote client
// wrapped in a circuit-breaker chain that falls back to local analysis.
// Without a remote mode, the local fallback runs alone.
func (a *App) initScorer() error {
	if a.scorer != nil {
		return nil // injected
	}

	var primary analyzer.ScoringAnalyzer
	switch a.cfg.Analysis.Remote {
	case config.RemoteModeLLM:
		if a.providers.LLM == nil {
			return fmt.Errorf("remote mode %q requires an LLM provider", a.cfg.Analysis.Remote)
		}
		primary = remote.NewLLMClient(a.providers.LLM)

	case config.RemoteModeEndpoint:
		client, err := remote.NewEndpointClient(a.cfg.Analysis.EndpointURL,
			remote.WithAPIKey(a.cfg.Analysis.EndpointAPIKey))
		if err != nil {
			return err
		}
		primary = client

	default:
		a.scorer = remote.NewFallback()
		slog.Info("no remote analyzer configured; using local fallback scoring")
		return nil
	}

	chain := resilience.NewAnalyzerChain(primary, resilience.BreakerConfig{
		Name: primary.Name(),
	})
	chain.AddFallback(remote.NewFallback())
	a.scorer = chain
	return nil
}

// analysisConfig translates the YAML tuning block into the orchestrator's
// config.
func (a *App) analysisConfig() analysis.Config {
	c := a.cfg.Analysis
	return analysis.Config{
		DebounceWindow:     time.Duration(c.DebounceMillis) * time.Millisecond,
		ImmediateCharDelta: c.ImmediateCharDelta,
		ImmediateElapsed:   time.Duration(c.ImmediateElapsedSeconds) * time.Second,
		CacheSize:          c.CacheSize,
		MinConfidence:      c.MinConfidence,
	}
}

// OpenSession opens (or returns the already open) editing session for a
// document, loading its saved text and decision records from the store.
func (a *App) OpenSession(ctx context.Context, id, title string) (*session.Session, *editor.Buffer, error) {
	a.sessionsMu.Lock()
	defer a.sessionsMu.Unlock()

	if open, ok := a.sessions[id]; ok {
		return open.session, open.buffer, nil
	}

	buffer := editor.NewBuffer("")
	sess, err := session.New(
		session.Config{
			DocumentID: id,
			Title:      title,
			Analysis:   a.analysisConfig(),
		},
		buffer,
		a.locals,
		a.scorer,
		session.WithStore(a.store),
		session.WithMetrics(a.metrics),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("app: open session %q: %w", id, err)
	}

	doc, err := sess.Load(ctx)
	if err != nil {
		_ = sess.Close(ctx)
		return nil, nil, fmt.Errorf("app: load document %q: %w", id, err)
	}
	if doc != nil {
		buffer.SetText(doc.Text)
	}

	// Wire change notifications after the initial load so it does not
	// count as an edit.
	buffer.OnChange = sess.OnTextChanged

	a.sessions[id] = &openSession{session: sess, buffer: buffer}
	slog.Info("session opened", "document_id", id)
	return sess, buffer, nil
}

// Session returns the open session for a document, if any.
func (a *App) Session(id string) (*session.Session, bool) {
	a.sessionsMu.Lock()
	defer a.sessionsMu.Unlock()
	open, ok := a.sessions[id]
	if !ok {
		return nil, false
	}
	return open.session, true
}

// sessionByID returns the full open session record for a document.
func (a *App) sessionByID(id string) (*openSession, bool) {
	a.sessionsMu.Lock()
	defer a.sessionsMu.Unlock()
	open, ok := a.sessions[id]
	return open, ok
}

// CloseSession saves and releases the session for a document. Closing an
// unopened document is not an error.
func (a *App) CloseSession(ctx context.Context, id string) error {
	a.sessionsMu.Lock()
	open, ok := a.sessions[id]
	delete(a.sessions, id)
	a.sessionsMu.Unlock()

	if !ok {
		return nil
	}
	slog.Info("session closed", "document_id", id)
	return open.session.Close(ctx)
}

// Store exposes the document store for the HTTP handlers.
func (a *App) Store() document.Store {
	return a.store
}

// Run serves the HTTP API and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	srv := newServer(a)
	return srv.listenAndServe(ctx, a.cfg.Server)
}

// Shutdown closes all open sessions and tears down subsystems in
// reverse-init order. It respects the context deadline: if ctx expires
// before all closers finish, remaining closers are skipped and the
// context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		a.sessionsMu.Lock()
		sessions := a.sessions
		a.sessions = make(map[string]*openSession)
		a.sessionsMu.Unlock()

		for id, open := range sessions {
			if err := open.session.Close(ctx); err != nil {
				slog.Warn("session close error", "document_id", id, "err", err)
			}
		}

		slog.Info("shutting down", "closers", len(a.closers))
		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				slog.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				slog.Warn("closer error", "index", i, "err", err)
			}
		}
		slog.Info("shutdown complete")
	})
	return shutdownErr
}
