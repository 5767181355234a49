package model

import "fmt"

// NarrationSegment is one timed span of spoken A-roll content, produced
// by the transcription collaborator.
type NarrationSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func (s NarrationSegment) Duration() float64 {
	return s.End - s.Start
}

func (s NarrationSegment) Validate() error {
	if s.Start < 0 {
		return fmt.Errorf("segment start %.3f is negative", s.Start)
	}
	if s.End <= s.Start {
		return fmt.Errorf("segment end %.3f is not after start %.3f", s.End, s.Start)
	}
	if s.Text == "" {
		return fmt.Errorf("segment [%.3f, %.3f] has empty text", s.Start, s.End)
	}
	return nil
}

// ValidateSegments checks every segment up front so a planning run
// either fails before any decision is computed or not at all.
func ValidateSegments(segments []NarrationSegment) error {
	for i, seg := range segments {
		if err := seg.Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}
