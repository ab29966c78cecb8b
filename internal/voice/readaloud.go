package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/MrWong99/inkwell/internal/observe"
	"github.com/MrWong99/inkwell/pkg/provider/tts"
)

// Reader streams document text through a TTS provider for playback.
type Reader struct {
	provider tts.Provider
	voice    tts.VoiceProfile
	metrics  *observe.Metrics
}

// NewReader creates a Reader that synthesises with the given voice.
// metrics may be nil.
func NewReader(provider tts.Provider, voice tts.VoiceProfile, metrics *observe.Metrics) *Reader {
	return &Reader{provider: provider, voice: voice, metrics: metrics}
}

// ReadAloud synthesises text sentence by sentence and returns the audio
// stream. The returned channel is closed when synthesis completes or ctx
// is cancelled; the caller must drain it.
func (r *Reader) ReadAloud(ctx context.Context, text string) (<-chan []byte, error) {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil, errors.New("voice: nothing to read")
	}

	start := time.Now()

	textCh := make(chan string, len(sentences))
	for _, s := range sentences {
		textCh <- s
	}
	close(textCh)

	audio, err := r.provider.SynthesizeStream(ctx, textCh, r.voice)
	if err != nil {
		r.metrics.RecordProviderError(ctx, "tts", "synthesize")
		return nil, fmt.Errorf("voice: read aloud: %w", err)
	}

	// Wrap the provider stream so the duration covers the full synthesis.
	out := make(chan []byte, 8)
	go func() {
		defer close(out)
		for chunk := range audio {
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if r.metrics != nil {
			r.metrics.ReadAloudDuration.Record(ctx, time.Since(start).Seconds())
		}
	}()
	return out, nil
}

// Voices lists the voices available from the underlying provider.
func (r *Reader) Voices(ctx context.Context) ([]tts.VoiceProfile, error) {
	return r.provider.ListVoices(ctx)
}

// SplitSentences breaks text into sentence-sized fragments for streaming
// synthesis. A fragment ends after ., !, or ? followed by whitespace (or
// end of text); remaining trailing text forms the last fragment.
func SplitSentences(text string) []string {
	var (
		out   []string
		start int
	)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			end := i + 1
			if end < len(runes) && !unicode.IsSpace(runes[end]) {
				continue
			}
			if s := strings.TrimSpace(string(runes[start:end])); s != "" {
				out = append(out, s)
			}
			start = end
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}
