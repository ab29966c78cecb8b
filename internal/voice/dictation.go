// Package voice wires the speech providers into the editor: dictation
// streams microphone audio through an STT provider and commits final
// transcripts into the document, and read-aloud streams the document text
// through a TTS provider for playback.
package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MrWong99/inkwell/internal/observe"
	"github.com/MrWong99/inkwell/pkg/provider/stt"
)

// Appender receives finalized dictation text. *editor.Buffer satisfies it.
type Appender interface {
	Append(text string)
}

// DictationConfig configures one dictation run.
type DictationConfig struct {
	// Stream is the audio format and recognition configuration handed to
	// the STT provider.
	Stream stt.StreamConfig

	// OnPartial, when set, receives interim transcripts for live display.
	// Partials are never committed to the document.
	OnPartial func(text string)

	// MinConfidence drops final transcripts below this recognition
	// confidence instead of committing them. Zero commits everything.
	MinConfidence float64
}

// Dictation streams audio to an STT provider and appends final
// transcripts to the document.
type Dictation struct {
	provider stt.Provider
	target   Appender
	metrics  *observe.Metrics

	mu      sync.Mutex
	handle  stt.SessionHandle
	done    chan struct{}
	started time.Time
}

// NewDictation creates a Dictation that commits transcripts into target.
// metrics may be nil.
func NewDictation(provider stt.Provider, target Appender, metrics *observe.Metrics) *Dictation {
	return &Dictation{provider: provider, target: target, metrics: metrics}
}

// Start opens the STT stream and begins consuming transcripts. Only one
// run can be active at a time.
func (d *Dictation) Start(ctx context.Context, cfg DictationConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle != nil {
		return errors.New("voice: dictation already running")
	}

	handle, err := d.provider.StartStream(ctx, cfg.Stream)
	if err != nil {
		d.metrics.RecordProviderError(ctx, "stt", "start_stream")
		return fmt.Errorf("voice: start dictation: %w", err)
	}

	d.handle = handle
	d.done = make(chan struct{})
	d.started = time.Now()

	go d.consume(handle, cfg, d.done)
	return nil
}

// SendAudio forwards a PCM chunk to the active stream.
func (d *Dictation) SendAudio(chunk []byte) error {
	d.mu.Lock()
	handle := d.handle
	d.mu.Unlock()

	if handle == nil {
		return errors.New("voice: dictation not running")
	}
	return handle.SendAudio(chunk)
}

// Stop closes the stream and waits for the remaining transcripts to be
// committed. Safe to call when not running.
func (d *Dictation) Stop() error {
	d.mu.Lock()
	handle := d.handle
	done := d.done
	started := d.started
	d.handle = nil
	d.done = nil
	d.mu.Unlock()

	if handle == nil {
		return nil
	}
	err := handle.Close()
	<-done

	if d.metrics != nil {
		d.metrics.DictationDuration.Record(context.Background(), time.Since(started).Seconds())
	}
	return err
}

// consume drains the partial and final channels until both close.
func (d *Dictation) consume(handle stt.SessionHandle, cfg DictationConfig, done chan struct{}) {
	defer close(done)

	partials := handle.Partials()
	finals := handle.Finals()

	for partials != nil || finals != nil {
		select {
		case t, ok := <-partials:
			if !ok {
				partials = nil
				continue
			}
			if cfg.OnPartial != nil && t.Text != "" {
				cfg.OnPartial(t.Text)
			}
		case t, ok := <-finals:
			if !ok {
				finals = nil
				continue
			}
			if t.Text == "" || t.Confidence < cfg.MinConfidence {
				continue
			}
			if seg := formatSegment(t.Text); seg != "" {
				d.target.Append(seg)
			}
		}
	}
}

// formatSegment normalises a transcript segment before it is committed:
// surrounding whitespace is trimmed and a single leading space separates
// it from the existing text.
func formatSegment(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	return " " + trimmed
}
