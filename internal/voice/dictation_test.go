package voice

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MrWong99/inkwell/pkg/provider/stt"
	sttmock "github.com/MrWong99/inkwell/pkg/provider/stt/mock"
)

// recordingAppender collects committed dictation segments.
type recordingAppender struct {
	mu       sync.Mutex
	segments []string
}

func (a *recordingAppender) Append(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.segments = append(a.segments, text)
}

func (a *recordingAppender) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.segments))
	copy(out, a.segments)
	return out
}

func newMockSession() *sttmock.Session {
	return &sttmock.Session{
		PartialsCh: make(chan stt.Transcript, 16),
		FinalsCh:   make(chan stt.Transcript, 16),
	}
}

func TestDictationCommitsFinalsOnly(t *testing.T) {
	t.Parallel()

	sess := newMockSession()
	target := &recordingAppender{}
	d := NewDictation(&sttmock.Provider{Session: sess}, target, nil)

	if err := d.Start(context.Background(), DictationConfig{}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	sess.PartialsCh <- stt.Transcript{Text: "hel"}
	sess.PartialsCh <- stt.Transcript{Text: "hello wor"}
	sess.FinalsCh <- stt.Transcript{Text: "hello world", IsFinal: true, Confidence: 0.95}
	close(sess.PartialsCh)
	close(sess.FinalsCh)

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	got := target.all()
	if len(got) != 1 {
		t.Fatalf("committed %d segments, want 1: %v", len(got), got)
	}
	if got[0] != " hello world" {
		t.Errorf("segment = %q, want a single leading space before trimmed text", got[0])
	}
}

func TestDictationPartialCallback(t *testing.T) {
	t.Parallel()

	sess := newMockSession()
	target := &recordingAppender{}
	d := NewDictation(&sttmock.Provider{Session: sess}, target, nil)

	var (
		mu       sync.Mutex
		partials []string
	)
	cfg := DictationConfig{OnPartial: func(text string) {
		mu.Lock()
		partials = append(partials, text)
		mu.Unlock()
	}}

	if err := d.Start(context.Background(), cfg); err != nil {
		t.Fatalf("Start: %v", err)
	}

	sess.PartialsCh <- stt.Transcript{Text: "typing no"}
	close(sess.PartialsCh)
	close(sess.FinalsCh)

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(partials) != 1 || partials[0] != "typing no" {
		t.Errorf("partials = %v", partials)
	}
	if len(target.all()) != 0 {
		t.Errorf("partial transcript was committed: %v", target.all())
	}
}

func TestDictationDropsLowConfidenceFinals(t *testing.T) {
	t.Parallel()

	sess := newMockSession()
	target := &recordingAppender{}
	d := NewDictation(&sttmock.Provider{Session: sess}, target, nil)

	if err := d.Start(context.Background(), DictationConfig{MinConfidence: 0.8}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	sess.FinalsCh <- stt.Transcript{Text: "mumbled words", IsFinal: true, Confidence: 0.4}
	sess.FinalsCh <- stt.Transcript{Text: "clear words", IsFinal: true, Confidence: 0.9}
	close(sess.PartialsCh)
	close(sess.FinalsCh)

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	got := target.all()
	if len(got) != 1 || got[0] != " clear words" {
		t.Errorf("segments = %v, want only the confident final", got)
	}
}

func TestDictationSkipsBlankFinals(t *testing.T) {
	t.Parallel()

	sess := newMockSession()
	target := &recordingAppender{}
	d := NewDictation(&sttmock.Provider{Session: sess}, target, nil)

	if err := d.Start(context.Background(), DictationConfig{}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	sess.FinalsCh <- stt.Transcript{Text: "   ", IsFinal: true, Confidence: 0.9}
	close(sess.PartialsCh)
	close(sess.FinalsCh)

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if got := target.all(); len(got) != 0 {
		t.Errorf("whitespace-only final was committed: %v", got)
	}
}

func TestDictationSendAudioForwardsChunks(t *testing.T) {
	t.Parallel()

	sess := newMockSession()
	d := NewDictation(&sttmock.Provider{Session: sess}, &recordingAppender{}, nil)

	if err := d.SendAudio([]byte{1}); err == nil {
		t.Error("SendAudio succeeded before Start")
	}

	if err := d.Start(context.Background(), DictationConfig{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := d.SendAudio([]byte{1, 2, 3}); err != nil {
		t.Fatalf("SendAudio: %v", err)
	}
	if sess.SendAudioCallCount() != 1 {
		t.Errorf("session received %d chunks, want 1", sess.SendAudioCallCount())
	}

	close(sess.PartialsCh)
	close(sess.FinalsCh)
	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestDictationOnlyOneActiveRun(t *testing.T) {
	t.Parallel()

	sess := newMockSession()
	d := NewDictation(&sttmock.Provider{Session: sess}, &recordingAppender{}, nil)

	if err := d.Start(context.Background(), DictationConfig{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := d.Start(context.Background(), DictationConfig{}); err == nil {
		t.Error("second Start succeeded while running")
	}

	close(sess.PartialsCh)
	close(sess.FinalsCh)
	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// Stop when idle is a no-op.
	if err := d.Stop(); err != nil {
		t.Errorf("idle Stop errored: %v", err)
	}
}

func TestDictationStartError(t *testing.T) {
	t.Parallel()

	p := &sttmock.Provider{StartStreamErr: errors.New("dial failed")}
	d := NewDictation(p, &recordingAppender{}, nil)

	if err := d.Start(context.Background(), DictationConfig{}); err == nil {
		t.Fatal("Start succeeded despite provider error")
	}
	// The failed run must not block a retry.
	p.StartStreamErr = nil
	sess := newMockSession()
	p.Session = sess
	if err := d.Start(context.Background(), DictationConfig{}); err != nil {
		t.Fatalf("retry Start: %v", err)
	}
	close(sess.PartialsCh)
	close(sess.FinalsCh)
	_ = d.Stop()
}
