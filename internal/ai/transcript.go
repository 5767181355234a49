package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aslinsheeba/flona-ai/internal/model"
)

// ParseTranscript decodes the JSON segment list a generative model
// returns for a transcription prompt. Models wrap JSON in markdown
// fences often enough that stripping them first is the normal path, not
// the exception. Segments that fail validation are dropped rather than
// failing the whole transcript.
func ParseTranscript(raw string) ([]model.NarrationSegment, error) {
	clean := stripJSONFences(raw)
	var decoded []model.NarrationSegment
	if err := json.Unmarshal([]byte(clean), &decoded); err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}
	segments := make([]model.NarrationSegment, 0, len(decoded))
	for _, seg := range decoded {
		seg.Text = strings.TrimSpace(seg.Text)
		if seg.Validate() != nil {
			continue
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("transcript contains no valid segments")
	}
	return segments, nil
}

func stripJSONFences(raw string) string {
	clean := strings.TrimSpace(raw)
	if strings.Contains(clean, "```json") {
		clean = strings.SplitN(clean, "```json", 2)[1]
		clean = strings.SplitN(clean, "```", 2)[0]
	} else if strings.Contains(clean, "```") {
		parts := strings.SplitN(clean, "```", 3)
		if len(parts) >= 2 {
			clean = parts[1]
		}
	}
	return strings.TrimSpace(clean)
}
