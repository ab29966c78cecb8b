package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrWong99/inkwell/pkg/provider/tts"
	ttsmock "github.com/MrWong99/inkwell/pkg/provider/tts/mock"
)

func TestReadAloudStreamsAudio(t *testing.T) {
	t.Parallel()

	p := &ttsmock.Provider{
		SynthesizeChunks: [][]byte{[]byte("chunk1"), []byte("chunk2")},
	}
	r := NewReader(p, tts.VoiceProfile{ID: "v1"}, nil)

	audio, err := r.ReadAloud(context.Background(), "Hello there. How are you?")
	if err != nil {
		t.Fatalf("ReadAloud: %v", err)
	}

	var got [][]byte
	for chunk := range audio {
		got = append(got, chunk)
	}
	if len(got) != 2 {
		t.Fatalf("received %d chunks, want 2", len(got))
	}
	if string(got[0]) != "chunk1" || string(got[1]) != "chunk2" {
		t.Errorf("chunks = %q %q", got[0], got[1])
	}

	if len(p.SynthesizeStreamCalls) != 1 {
		t.Fatalf("SynthesizeStream called %d times, want 1", len(p.SynthesizeStreamCalls))
	}
	if p.SynthesizeStreamCalls[0].Voice.ID != "v1" {
		t.Errorf("voice = %+v, want v1", p.SynthesizeStreamCalls[0].Voice)
	}
}

func TestReadAloudEmptyText(t *testing.T) {
	t.Parallel()

	r := NewReader(&ttsmock.Provider{}, tts.VoiceProfile{}, nil)

	if _, err := r.ReadAloud(context.Background(), "   \n  "); err == nil {
		t.Error("ReadAloud accepted whitespace-only text")
	}
}

func TestReadAloudProviderError(t *testing.T) {
	t.Parallel()

	p := &ttsmock.Provider{SynthesizeErr: errors.New("quota exceeded")}
	r := NewReader(p, tts.VoiceProfile{}, nil)

	if _, err := r.ReadAloud(context.Background(), "Some text."); err == nil {
		t.Error("ReadAloud swallowed the provider error")
	}
}

func TestReadAloudCancellation(t *testing.T) {
	t.Parallel()

	p := &ttsmock.Provider{
		SynthesizeChunks: [][]byte{[]byte("a"), []byte("b"), []byte("c")},
	}
	r := NewReader(p, tts.VoiceProfile{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	audio, err := r.ReadAloud(ctx, "One. Two. Three.")
	if err != nil {
		t.Fatalf("ReadAloud: %v", err)
	}
	cancel()

	// The output channel must close rather than hang.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-audio:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("audio channel never closed after cancellation")
		}
	}
}

func TestVoices(t *testing.T) {
	t.Parallel()

	p := &ttsmock.Provider{
		ListVoicesResult: []tts.VoiceProfile{{ID: "v1", Name: "Narrator"}},
	}
	r := NewReader(p, tts.VoiceProfile{}, nil)

	voices, err := r.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices: %v", err)
	}
	if len(voices) != 1 || voices[0].Name != "Narrator" {
		t.Errorf("voices = %+v", voices)
	}
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "simple sentences",
			in:   "First one. Second one! Third one?",
			want: []string{"First one.", "Second one!", "Third one?"},
		},
		{
			name: "trailing fragment without terminator",
			in:   "Complete sentence. And a trailing bit",
			want: []string{"Complete sentence.", "And a trailing bit"},
		},
		{
			name: "abbreviation style dot not followed by space",
			in:   "Version 1.5 is out. Try it.",
			want: []string{"Version 1.5 is out.", "Try it."},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
		{
			name: "whitespace only",
			in:   "  \n\t ",
			want: nil,
		},
		{
			name: "single fragment",
			in:   "no terminator here",
			want: []string{"no terminator here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SplitSentences(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d fragments %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("fragment %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
