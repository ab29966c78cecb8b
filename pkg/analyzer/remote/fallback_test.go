package remote

import (
	"context"
	"testing"

	"github.com/MrWong99/inkwell/pkg/types"
)

func TestFallbackAlwaysDegraded(t *testing.T) {
	t.Parallel()

	f := NewFallback()

	result, err := f.Analyze(context.Background(), "a perfectly ordinary sentence")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !result.Degraded {
		t.Error("fallback result not marked degraded")
	}
}

func TestFallbackFindsPatternIssues(t *testing.T) {
	t.Parallel()

	f := NewFallback()

	result, err := f.Analyze(context.Background(), "He go to work in order to earn")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.Findings) < 2 {
		t.Fatalf("got %d findings, want at least the agreement and wordiness hits: %+v",
			len(result.Findings), result.Findings)
	}
}

func TestFallbackScoresNeverPerfectForProse(t *testing.T) {
	t.Parallel()

	f := NewFallback()

	result, err := f.Analyze(context.Background(), "A clean and simple sentence with no issues at all")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Scores.Correctness > 85 || result.Scores.Overall > 85 {
		t.Errorf("degraded scores exceed the baseline: %+v", result.Scores)
	}
}

func TestFallbackScoresDropWithFindings(t *testing.T) {
	t.Parallel()

	f := NewFallback()

	clean, err := f.Analyze(context.Background(), "A clean and simple sentence written well")
	if err != nil {
		t.Fatalf("Analyze clean: %v", err)
	}
	messy, err := f.Analyze(context.Background(), "He go there and she have it and it do work")
	if err != nil {
		t.Fatalf("Analyze messy: %v", err)
	}

	if messy.Scores.Correctness >= clean.Scores.Correctness {
		t.Errorf("messy text scored %d, clean %d; want a penalty",
			messy.Scores.Correctness, clean.Scores.Correctness)
	}
}

func TestFallbackEmptyText(t *testing.T) {
	t.Parallel()

	f := NewFallback()

	result, err := f.Analyze(context.Background(), "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Scores != types.PerfectScores() {
		t.Errorf("scores for empty text = %+v, want perfect", result.Scores)
	}
}

func TestFallbackNeverErrorsOnCancelledContext(t *testing.T) {
	t.Parallel()

	f := NewFallback()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.Analyze(ctx, "He go home")
	if err != nil {
		t.Fatalf("Analyze returned an error on cancellation: %v", err)
	}
	if !result.Degraded {
		t.Error("cancelled fallback result not degraded")
	}
}
