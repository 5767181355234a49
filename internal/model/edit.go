package model

// EditDecision is one timed B-roll insertion. SegmentIndex refers to
// the segment's position after the planner sorts by start time. Reason
// is filled in by the explanation collaborator and may be empty.
type EditDecision struct {
	SegmentIndex    int     `json:"segment_index"`
	StartTime       float64 `json:"start_time"`
	Duration        float64 `json:"duration"`
	ClipID          string  `json:"b_roll_clip"`
	SegmentText     string  `json:"transcript_text"`
	SimilarityScore float64 `json:"similarity_score"`
	Reason          string  `json:"reason,omitempty"`
}

// PlanMetadata is the EDL header consumed by the serialization layer.
type PlanMetadata struct {
	TotalSegments       int     `json:"total_segments"`
	TotalClips          int     `json:"total_broll_clips"`
	EditsApplied        int     `json:"edits_applied"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	MinGapSeconds       float64 `json:"min_gap_seconds"`
}

// EditPlan is the Edit Decision List: ordered insertion decisions plus
// the run metadata. Zero edits is a valid plan, not a failure.
type EditPlan struct {
	Metadata PlanMetadata   `json:"metadata"`
	Edits    []EditDecision `json:"edits"`
}
