package remote

import (
	"context"
	"fmt"

	"github.com/MrWong99/inkwell/pkg/analyzer"
	"github.com/MrWong99/inkwell/pkg/provider/llm"
	"github.com/MrWong99/inkwell/pkg/types"
)

const (
	defaultTemperature = 0.2
	defaultMaxTokens   = 2048
)

// systemPrompt instructs the model to act as a writing analyst and to
// answer in the exact wire format normalize expects. The prompt is
// deliberately conservative: offsets are requested but treated as hints,
// and the model is told to quote original text verbatim because that quote
// is the only anchor we trust.
const systemPrompt = `You are a writing analysis assistant. Analyse the document the user provides for grammar, spelling, clarity, engagement, and delivery issues.

Rules:
- Quote each issue's originalText EXACTLY as it appears in the document, character for character. Never paraphrase it.
- suggestedText must be a drop-in replacement for originalText.
- Be conservative: only report issues you are confident about.
- kind must be one of: spelling, grammar, punctuation, clarity, style, engagement, delivery.
- severity must be one of: low, medium, high.
- Score the document 0-100 on each dimension (100 = flawless).

Respond with ONLY a JSON object in this exact format (no markdown, no prose):
{
  "findings": [
    {"kind": "...", "severity": "...", "message": "...", "explanation": "...", "originalText": "...", "suggestedText": "...", "startIndex": 0, "endIndex": 0, "confidence": 0.0}
  ],
  "scores": {"correctness": 0, "clarity": 0, "engagement": 0, "delivery": 0}
}`

// LLMOption is a functional option for configuring an [LLMClient].
type LLMOption func(*LLMClient)

// WithTemperature sets the sampling temperature. Default: 0.2.
func WithTemperature(temp float64) LLMOption {
	return func(c *LLMClient) {
		c.temperature = temp
	}
}

// WithMaxTokens caps the completion length. Default: 2048.
func WithMaxTokens(n int) LLMOption {
	return func(c *LLMClient) {
		c.maxTokens = n
	}
}

// LLMClient analyses documents through an [llm.Provider]. It is safe for
// concurrent use.
//
// Analyze returns an error on transport failure or an unparseable
// response; compose with the resilience chain and the local [Fallback] for
// the never-fail behaviour the orchestrator expects.
type LLMClient struct {
	llm         llm.Provider
	temperature float64
	maxTokens   int
}

// Compile-time interface assertion.
var _ analyzer.ScoringAnalyzer = (*LLMClient)(nil)

// NewLLMClient returns an LLMClient backed by provider.
func NewLLMClient(provider llm.Provider, opts ...LLMOption) *LLMClient {
	c := &LLMClient{
		llm:         provider,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Name implements [analyzer.ScoringAnalyzer].
func (c *LLMClient) Name() string { return "remote-llm" }

// Analyze sends text to the model and normalises its reply.
func (c *LLMClient) Analyze(ctx context.Context, text string) (*types.AnalysisResult, error) {
	resp, err := c.llm.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Temperature:  c.temperature,
		MaxTokens:    c.maxTokens,
		Messages: []llm.Message{
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("remote: llm complete: %w", err)
	}

	payload, err := parsePayload(resp.Content)
	if err != nil {
		return nil, err
	}

	findings, scores := normalize(payload, text)
	return &types.AnalysisResult{Findings: findings, Scores: scores}, nil
}
