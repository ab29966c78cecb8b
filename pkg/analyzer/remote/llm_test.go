package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/MrWong99/inkwell/pkg/provider/llm"
	llmmock "github.com/MrWong99/inkwell/pkg/provider/llm/mock"
	"github.com/MrWong99/inkwell/pkg/types"
)

func TestLLMClientAnalyze(t *testing.T) {
	t.Parallel()

	p := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: `{
			"findings": [
				{"kind": "spelling", "severity": "high", "originalText": "teh", "suggestedText": "the", "confidence": 0.95}
			],
			"scores": {"correctness": 70, "clarity": 85, "engagement": 80, "delivery": 75}
		}`},
	}
	c := NewLLMClient(p)

	result, err := c.Analyze(context.Background(), "teh cat sat")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.Findings) != 1 || result.Findings[0].Kind != types.KindSpelling {
		t.Errorf("findings = %+v", result.Findings)
	}
	if result.Scores.Correctness != 70 {
		t.Errorf("scores = %+v", result.Scores)
	}
	if result.Degraded {
		t.Error("successful remote analysis marked degraded")
	}

	if len(p.CompleteCalls) != 1 {
		t.Fatalf("Complete called %d times, want 1", len(p.CompleteCalls))
	}
	req := p.CompleteCalls[0].Req
	if req.SystemPrompt == "" {
		t.Error("request carries no system prompt")
	}
	if len(req.Messages) != 1 || req.Messages[0].Content != "teh cat sat" {
		t.Errorf("messages = %+v", req.Messages)
	}
}

func TestLLMClientTransportError(t *testing.T) {
	t.Parallel()

	p := &llmmock.Provider{CompleteErr: errors.New("rate limited")}
	c := NewLLMClient(p)

	if _, err := c.Analyze(context.Background(), "text"); err == nil {
		t.Error("transport error swallowed")
	}
}

func TestLLMClientUnparseableResponse(t *testing.T) {
	t.Parallel()

	p := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "Sure! Here are my thoughts on your text..."},
	}
	c := NewLLMClient(p)

	if _, err := c.Analyze(context.Background(), "text"); err == nil {
		t.Error("prose response accepted")
	}
}

func TestLLMClientFencedResponse(t *testing.T) {
	t.Parallel()

	p := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{
			Content: "```json\n{\"findings\": [], \"scores\": {\"correctness\": 90, \"clarity\": 90, \"engagement\": 90, \"delivery\": 90}}\n```",
		},
	}
	c := NewLLMClient(p)

	result, err := c.Analyze(context.Background(), "clean text")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Scores.Correctness != 90 {
		t.Errorf("scores = %+v", result.Scores)
	}
}

func TestLLMClientOptions(t *testing.T) {
	t.Parallel()

	p := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: `{"findings": [], "scores": {}}`},
	}
	c := NewLLMClient(p, WithTemperature(0.7), WithMaxTokens(512))

	if _, err := c.Analyze(context.Background(), "text"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	req := p.CompleteCalls[0].Req
	if req.Temperature != 0.7 || req.MaxTokens != 512 {
		t.Errorf("request = temperature %v maxTokens %d", req.Temperature, req.MaxTokens)
	}
}
