package plan

import (
	"fmt"
	"math"
	"sort"

	"github.com/aslinsheeba/flona-ai/internal/match"
	"github.com/aslinsheeba/flona-ai/internal/model"
)

// Config carries the editor-style pacing rules for one planning run.
// Immutable once handed to PlanEdits.
type Config struct {
	// Minimum similarity a candidate must reach to be inserted.
	SimilarityThreshold float64 `json:"similarity_threshold"`
	// Breathing room between the end of one insert and the start of the
	// next, in seconds.
	MinGapSeconds float64 `json:"min_gap_seconds"`
	// Fraction of the segment length the insert may cover.
	DurationFraction float64 `json:"duration_fraction"`
	// Inserts shorter than this are dropped as visually meaningless.
	MinDurationSeconds float64 `json:"min_duration_seconds"`
	// When set, each clip is used at most once across the plan.
	UniqueClips bool `json:"unique_clips"`
}

func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.7,
		MinGapSeconds:       8.0,
		DurationFraction:    0.8,
		MinDurationSeconds:  2.0,
	}
}

func (c Config) Validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold %.3f out of range [0,1]", c.SimilarityThreshold)
	}
	if c.MinGapSeconds < 0 {
		return fmt.Errorf("min_gap_seconds %.3f is negative", c.MinGapSeconds)
	}
	if c.DurationFraction <= 0 || c.DurationFraction > 1 {
		return fmt.Errorf("duration_fraction %.3f out of range (0,1]", c.DurationFraction)
	}
	if c.MinDurationSeconds < 0 {
		return fmt.Errorf("min_duration_seconds %.3f is negative", c.MinDurationSeconds)
	}
	return nil
}

// PlanEdits walks the segment timeline once, left to right, and emits at
// most one EditDecision per eligible segment. The pass is greedy and
// local: gap, threshold and duration are monotone constraints, so a
// single forward pass enforces them without search.
//
// Segments are sorted by start time defensively; SegmentIndex in the
// output refers to the post-sort position. All input validation happens
// before the pass begins, so the run either fails atomically or returns
// a complete (possibly empty) plan.
func PlanEdits(segments []model.NarrationSegment, clips []model.ClipDescriptor, matrix *match.Matrix, cfg Config) (*model.EditPlan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid planning config: %w", err)
	}
	if err := model.ValidateSegments(segments); err != nil {
		return nil, err
	}
	if err := model.ValidateClips(clips); err != nil {
		return nil, err
	}
	if matrix == nil {
		return nil, fmt.Errorf("similarity matrix is required")
	}
	if matrix.Segments() != len(segments) {
		return nil, fmt.Errorf("similarity matrix covers %d segments, want %d", matrix.Segments(), len(segments))
	}

	// Matrix rows follow the caller's segment order, so the defensive
	// sort permutes indices rather than the segments themselves.
	order := make([]int, len(segments))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return segments[order[i]].Start < segments[order[j]].Start
	})

	edits := make([]model.EditDecision, 0, len(segments))
	lastEditEnd := math.Inf(-1)
	usedClips := make(map[string]bool)

	for i, row := range order {
		seg := segments[row]
		// Gap is measured against the previous emitted edit's end, not
		// the previous segment, so skipped segments never reset the clock.
		if seg.Start-lastEditEnd < cfg.MinGapSeconds {
			continue
		}

		best, ok := pickCandidate(matrix, row, cfg, usedClips)
		if !ok || best.Similarity < cfg.SimilarityThreshold {
			continue
		}

		raw := seg.Duration()
		duration := math.Min(raw*cfg.DurationFraction, raw)
		if duration < cfg.MinDurationSeconds {
			continue
		}

		edits = append(edits, model.EditDecision{
			SegmentIndex:    i,
			StartTime:       seg.Start,
			Duration:        duration,
			ClipID:          best.ClipID,
			SegmentText:     seg.Text,
			SimilarityScore: best.Similarity,
		})
		lastEditEnd = seg.Start + duration
		if cfg.UniqueClips {
			usedClips[best.ClipID] = true
		}
	}

	return &model.EditPlan{
		Metadata: model.PlanMetadata{
			TotalSegments:       len(segments),
			TotalClips:          len(clips),
			EditsApplied:        len(edits),
			SimilarityThreshold: cfg.SimilarityThreshold,
			MinGapSeconds:       cfg.MinGapSeconds,
		},
		Edits: edits,
	}, nil
}

func pickCandidate(matrix *match.Matrix, segmentIndex int, cfg Config, used map[string]bool) (match.Candidate, bool) {
	if !cfg.UniqueClips {
		return matrix.Best(segmentIndex)
	}
	for _, cand := range matrix.Rank(segmentIndex) {
		if !used[cand.ClipID] {
			return cand, true
		}
	}
	return match.Candidate{}, false
}
