// Package remote implements the LLM-backed document analyzer and its
// companions: a plain HTTP endpoint client speaking the same wire format,
// and the local pattern-table fallback used when no remote backend can be
// reached.
//
// Remote systems see the document as opaque text and routinely invent
// offsets — and occasionally whole phrases. Everything that arrives over
// the wire is therefore validated and normalised at the boundary: findings
// with unknown kinds, empty original text, or original text absent from
// the document are dropped, and reported offsets are carried along as
// untrusted hints only. Authoritative spans are always recomputed by the
// position mapper.
package remote

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MrWong99/inkwell/pkg/types"
)

// wireFinding mirrors one entry of the remote response's findings array.
type wireFinding struct {
	Kind          string  `json:"kind"`
	Category      string  `json:"category"`
	Severity      string  `json:"severity"`
	Message       string  `json:"message"`
	Explanation   string  `json:"explanation"`
	OriginalText  string  `json:"originalText"`
	SuggestedText string  `json:"suggestedText"`
	StartIndex    int     `json:"startIndex"`
	EndIndex      int     `json:"endIndex"`
	Confidence    float64 `json:"confidence"`
}

// wireScores mirrors the remote response's scores object.
type wireScores struct {
	Correctness int `json:"correctness"`
	Clarity     int `json:"clarity"`
	Engagement  int `json:"engagement"`
	Delivery    int `json:"delivery"`
}

// wirePayload is the full remote response.
type wirePayload struct {
	Findings []wireFinding `json:"findings"`
	Scores   wireScores    `json:"scores"`
}

// parsePayload unmarshals raw, stripping optional markdown code fences that
// some models wrap around JSON output.
func parsePayload(raw string) (*wirePayload, error) {
	cleaned := stripMarkdown(raw)

	var p wirePayload
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return nil, fmt.Errorf("remote: parse payload: %w", err)
	}
	return &p, nil
}

// normalize converts a wire payload into strict findings and scores.
//
// Loosely typed entries are repaired where possible (category standing in
// for kind, missing severity) and dropped where not (unknown kind, empty
// original text, original text not present in the document). Wire offsets
// are kept as hints; they are never trusted.
func normalize(p *wirePayload, text string) ([]types.Finding, types.Scores) {
	findings := make([]types.Finding, 0, len(p.Findings))

	for i, wf := range p.Findings {
		kind := types.Kind(strings.ToLower(wf.Kind))
		if !kind.IsValid() {
			kind = types.Kind(strings.ToLower(wf.Category))
		}
		if !kind.IsValid() {
			continue
		}

		if wf.OriginalText == "" || !strings.Contains(text, wf.OriginalText) {
			// Hallucinated or already-edited text: nothing to anchor to.
			continue
		}

		severity := types.Severity(strings.ToLower(wf.Severity))
		if !severity.IsValid() {
			severity = types.SeverityMedium
		}

		suggested := wf.SuggestedText
		if suggested == "" {
			suggested = wf.OriginalText
		}

		confidence := wf.Confidence
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}

		findings = append(findings, types.Finding{
			ID:            fmt.Sprintf("remote:%d", i),
			Kind:          kind,
			Severity:      severity,
			Span:          types.Span{Start: wf.StartIndex, End: wf.EndIndex},
			OriginalText:  wf.OriginalText,
			SuggestedText: suggested,
			Message:       wf.Message,
			Explanation:   wf.Explanation,
			Confidence:    confidence,
		})
	}

	scores := types.Scores{
		Correctness: p.Scores.Correctness,
		Clarity:     p.Scores.Clarity,
		Engagement:  p.Scores.Engagement,
		Delivery:    p.Scores.Delivery,
	}.Clamp()

	return findings, scores
}

// stripMarkdown removes optional markdown code fences (```json ... ```).
func stripMarkdown(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"```json", "```"} {
		if after, ok := strings.CutPrefix(s, prefix); ok {
			s = after
			break
		}
	}
	if before, ok := strings.CutSuffix(s, "```"); ok {
		s = before
	}
	return strings.TrimSpace(s)
}
