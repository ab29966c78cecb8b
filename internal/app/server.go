package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrWong99/inkwell/internal/config"
	"github.com/MrWong99/inkwell/internal/observe"
	"github.com/MrWong99/inkwell/pkg/types"
)

// server exposes the editing sessions over HTTP for the browser client.
type server struct {
	app *App
}

func newServer(a *App) *server {
	return &server{app: a}
}

// listenAndServe runs the HTTP server until ctx is cancelled, then shuts
// it down gracefully.
func (s *server) listenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	addr := cfg.ListenAddr
	if addr == "" {
		addr = ":8080"
	}

	mux := http.NewServeMux()
	s.routes(mux)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           observe.Middleware(s.app.metrics)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.TLS != nil {
			err = httpSrv.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = httpSrv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("http server listening", "addr", addr, "tls", cfg.TLS != nil)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/documents", s.handleListDocuments)
	mux.HandleFunc("DELETE /v1/documents/{id}", s.handleDeleteDocument)

	mux.HandleFunc("POST /v1/documents/{id}/open", s.handleOpen)
	mux.HandleFunc("POST /v1/documents/{id}/close", s.handleClose)
	mux.HandleFunc("PUT /v1/documents/{id}/text", s.handleSetText)
	mux.HandleFunc("GET /v1/documents/{id}/findings", s.handleFindings)
	mux.HandleFunc("POST /v1/documents/{id}/click", s.handleClick)
	mux.HandleFunc("POST /v1/documents/{id}/findings/{findingID}/accept", s.handleAccept)
	mux.HandleFunc("POST /v1/documents/{id}/findings/{findingID}/dismiss", s.handleDismiss)
	mux.HandleFunc("POST /v1/documents/{id}/reset", s.handleReset)
}

// ---- wire types ----

type findingJSON struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	Severity      string  `json:"severity"`
	Start         int     `json:"start"`
	End           int     `json:"end"`
	OriginalText  string  `json:"originalText"`
	SuggestedText string  `json:"suggestedText,omitempty"`
	Message       string  `json:"message"`
	Explanation   string  `json:"explanation,omitempty"`
	Confidence    float64 `json:"confidence"`
}

type scoresJSON struct {
	Correctness int `json:"correctness"`
	Clarity     int `json:"clarity"`
	Engagement  int `json:"engagement"`
	Delivery    int `json:"delivery"`
	Overall     int `json:"overall"`
}

type analysisJSON struct {
	Findings []findingJSON `json:"findings"`
	Scores   scoresJSON    `json:"scores"`
	Degraded bool          `json:"degraded"`
}

func toFindingJSON(f types.Finding) findingJSON {
	return findingJSON{
		ID:            f.ID,
		Kind:          string(f.Kind),
		Severity:      string(f.Severity),
		Start:         f.Span.Start,
		End:           f.Span.End,
		OriginalText:  f.OriginalText,
		SuggestedText: f.SuggestedText,
		Message:       f.Message,
		Explanation:   f.Explanation,
		Confidence:    f.Confidence,
	}
}

func toAnalysisJSON(result *types.AnalysisResult) analysisJSON {
	findings := make([]findingJSON, 0, len(result.Findings))
	for _, f := range result.Findings {
		findings = append(findings, toFindingJSON(f))
	}
	return analysisJSON{
		Findings: findings,
		Scores: scoresJSON{
			Correctness: result.Scores.Correctness,
			Clarity:     result.Scores.Clarity,
			Engagement:  result.Scores.Engagement,
			Delivery:    result.Scores.Delivery,
			Overall:     result.Scores.Overall,
		},
		Degraded: result.Degraded,
	}
}

// ---- handlers ----

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.app.Store().List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	type docJSON struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
	out := make([]docJSON, 0, len(docs))
	for _, d := range docs {
		out = append(out, docJSON{ID: d.ID, Title: d.Title, UpdatedAt: d.UpdatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.app.CloseSession(r.Context(), id); err != nil {
		slog.Warn("close session before delete failed", "document_id", id, "err", err)
	}
	if err := s.app.Store().Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleOpen(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var body struct {
		Title string `json:"title"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	_, buffer, err := s.app.OpenSession(r.Context(), id, body.Title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":   id,
		"text": buffer.PlainText(),
	})
}

func (s *server) handleClose(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.app.CloseSession(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetText replaces the document text and returns a fresh analysis.
func (s *server) handleSetText(w http.ResponseWriter, r *http.Request) {
	open, ok := s.app.sessionByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not open"))
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	open.buffer.SetText(body.Text)
	result := open.session.AnalyzeNow(r.Context())
	writeJSON(w, http.StatusOK, toAnalysisJSON(result))
}

func (s *server) handleFindings(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.app.Session(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not open"))
		return
	}
	findings := sess.Findings()
	out := make([]findingJSON, 0, len(findings))
	for _, f := range findings {
		out = append(out, toFindingJSON(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleClick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.app.Session(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not open"))
		return
	}
	var body struct {
		Position int `json:"position"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	f, found := sess.Click(body.Position)
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toFindingJSON(f))
}

func (s *server) handleAccept(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.app.Session(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not open"))
		return
	}
	applied := sess.Accept(r.Context(), r.PathValue("findingID"))
	writeJSON(w, http.StatusOK, map[string]bool{"applied": applied})
}

func (s *server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.app.Session(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not open"))
		return
	}
	if !sess.Dismiss(r.Context(), r.PathValue("findingID")) {
		writeError(w, http.StatusNotFound, errors.New("finding not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.app.Session(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not open"))
		return
	}
	sess.ClearAnalysis()
	w.WriteHeader(http.StatusNoContent)
}

// ---- helpers ----

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
