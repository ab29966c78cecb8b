package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"llm": {"openai"},
	"stt": {"deepgram"},
	"tts": {"elevenlabs"},
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. Environment variable references like ${OPENAI_API_KEY} are
// expanded before parsing, so secrets can stay out of the file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}

	cfg, err := LoadFromReader(strings.NewReader(os.ExpandEnv(string(raw))))
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Provider name validation — warn for unknown provider names.
	validateProviderName("llm", cfg.Providers.LLM.Name)
	validateProviderName("stt", cfg.Providers.STT.Name)
	validateProviderName("tts", cfg.Providers.TTS.Name)

	// Analysis
	if cfg.Analysis.DebounceMillis < 0 {
		errs = append(errs, fmt.Errorf("analysis.debounce_ms %d must not be negative", cfg.Analysis.DebounceMillis))
	}
	if cfg.Analysis.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("analysis.cache_size %d must not be negative", cfg.Analysis.CacheSize))
	}
	if cfg.Analysis.MinConfidence < 0 || cfg.Analysis.MinConfidence > 1 {
		errs = append(errs, fmt.Errorf("analysis.min_confidence %.2f is out of range [0, 1]", cfg.Analysis.MinConfidence))
	}
	if cfg.Analysis.Remote != "" && !cfg.Analysis.Remote.IsValid() {
		errs = append(errs, fmt.Errorf("analysis.remote %q is invalid; valid values: llm, endpoint", cfg.Analysis.Remote))
	}

	// Remote mode ↔ provider cross-validation
	switch cfg.Analysis.Remote {
	case RemoteModeLLM:
		if cfg.Providers.LLM.Name == "" {
			errs = append(errs, fmt.Errorf("analysis.remote %q requires an LLM provider but providers.llm is not configured", cfg.Analysis.Remote))
		}
	case RemoteModeEndpoint:
		if cfg.Analysis.EndpointURL == "" {
			errs = append(errs, fmt.Errorf("analysis.endpoint_url is required when analysis.remote is %q", cfg.Analysis.Remote))
		}
	case "":
		slog.Warn("analysis.remote is not configured; only local rules and spelling will run")
	}

	// Voice
	if mc := cfg.Voice.Dictation.MinConfidence; mc < 0 || mc > 1 {
		errs = append(errs, fmt.Errorf("voice.dictation.min_confidence %.2f is out of range [0, 1]", mc))
	}
	if cfg.Voice.Dictation.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("voice.dictation.sample_rate %d must not be negative", cfg.Voice.Dictation.SampleRate))
	}
	if cfg.Voice.ReadAloud.VoiceID != "" && cfg.Providers.TTS.Name == "" {
		errs = append(errs, fmt.Errorf("voice.read_aloud.voice_id is set but providers.tts is not configured"))
	}

	// Availability warnings
	if cfg.Documents.PostgresDSN == "" {
		slog.Warn("documents.postgres_dsn is empty; documents will not survive a restart")
	}
	if cfg.Providers.STT.Name == "" && cfg.Voice.Dictation.Language != "" {
		slog.Warn("voice.dictation is configured but providers.stt is not; dictation will be unavailable")
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found
// in the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
