// Package stt defines the Provider interface for Speech-to-Text backends.
//
// An STT provider wraps a real-time transcription service (e.g. Deepgram)
// and exposes a uniform streaming interface for dictation. The central
// abstraction is SessionHandle: once opened, a session accepts raw PCM
// audio frames and emits two streams of Transcript values — low-latency
// partials for live display and authoritative finals that get committed
// into the document.
//
// Implementations must be safe for concurrent use. Audio input and
// transcript output channels are goroutine-safe by construction.
package stt

import "context"

// Transcript is one recognition result emitted by a streaming session.
type Transcript struct {
	// Text is the recognised text.
	Text string

	// IsFinal reports whether the provider has committed to this result.
	// Only final transcripts may be written into the document.
	IsFinal bool

	// Confidence is the provider's recognition confidence in [0, 1].
	Confidence float64
}

// StreamConfig describes the audio format and recognition hints for a new
// dictation session.
type StreamConfig struct {
	// SampleRate is the audio sample rate in Hz. Common value: 16000.
	SampleRate int

	// Channels is the number of audio channels. 1 = mono (required by
	// most STT providers).
	Channels int

	// Language is the BCP-47 language tag for recognition (e.g. "en-US").
	// An empty string lets the provider auto-detect, if supported.
	Language string

	// Vocabulary is a list of recognition hints that increase hit
	// probability for uncommon words, fed from the user's custom
	// dictionary.
	Vocabulary []string
}

// SessionHandle represents an open dictation session. It is an interface
// so that test code can provide mock implementations without a live
// provider connection.
//
// Callers must call Close when the session is no longer needed. Failing to
// do so may leak goroutines and network connections inside the provider
// implementation. All methods must be safe for concurrent use.
type SessionHandle interface {
	// SendAudio delivers a chunk of raw PCM audio bytes to the provider
	// for transcription. The chunk must match the SampleRate, Channels,
	// and bit-depth agreed in StreamConfig. Calling SendAudio after Close
	// returns an error.
	SendAudio(chunk []byte) error

	// Partials returns a read-only channel that emits low-latency interim
	// Transcript values. These drive live display only and must never be
	// committed into the document. The channel is closed when the session
	// ends.
	Partials() <-chan Transcript

	// Finals returns a read-only channel that emits authoritative
	// Transcript values once the provider has committed to a result.
	// These are what gets appended to the document. The channel is closed
	// when the session ends.
	Finals() <-chan Transcript

	// Close terminates the session, flushes any pending audio, and
	// releases all associated resources. After Close returns, the
	// Partials and Finals channels will be closed. Calling Close more
	// than once is safe and returns nil.
	Close() error
}

// Provider is the abstraction over any STT backend.
//
// Implementations must be safe for concurrent use; multiple sessions may
// be open simultaneously.
type Provider interface {
	// StartStream opens a new streaming transcription session with the
	// given audio format and recognition configuration. The returned
	// SessionHandle is ready to accept audio immediately.
	//
	// Returns an error if the provider cannot establish the session
	// (authentication failure, unsupported configuration, or ctx already
	// cancelled). The caller owns the SessionHandle and must call Close
	// when done.
	StartStream(ctx context.Context, cfg StreamConfig) (SessionHandle, error)
}
