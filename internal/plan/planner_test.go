package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aslinsheeba/flona-ai/internal/match"
	"github.com/aslinsheeba/flona-ai/internal/model"
)

func buildMatrix(t *testing.T, segmentVectors [][]float32, clips []match.ClipVector) *match.Matrix {
	t.Helper()
	matrix, err := match.ComputeSimilarityMatrix(segmentVectors, clips)
	require.NoError(t, err)
	return matrix
}

func TestPlanEdits_GapSkipsAdjacentSegment(t *testing.T) {
	segments := []model.NarrationSegment{
		{Start: 0, End: 10, Text: "mountain sunrise over the valley"},
		{Start: 12, End: 22, Text: "hikers on the ridge line"},
		{Start: 24, End: 34, Text: "camp by the alpine lake"},
	}
	clips := []model.ClipDescriptor{
		{ID: "ridge.mp4", Text: "drone shot of a mountain ridge"},
		{ID: "lake.mp4", Text: "calm alpine lake at dawn"},
	}
	matrix := buildMatrix(t,
		[][]float32{{1, 0}, {1, 0}, {1, 0}},
		[]match.ClipVector{
			{ClipID: "ridge.mp4", Values: []float32{1, 0}},
			{ClipID: "lake.mp4", Values: []float32{0, 1}},
		},
	)

	edl, err := PlanEdits(segments, clips, matrix, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, edl.Edits, 2)

	// First edit covers [0, 8]; segment at 12 violates the 8s gap, the
	// one at 24 does not.
	first, second := edl.Edits[0], edl.Edits[1]
	require.Equal(t, 0, first.SegmentIndex)
	require.Equal(t, 0.0, first.StartTime)
	require.InDelta(t, 8.0, first.Duration, 1e-9)
	require.Equal(t, "ridge.mp4", first.ClipID)

	require.Equal(t, 2, second.SegmentIndex)
	require.Equal(t, 24.0, second.StartTime)
	require.InDelta(t, 8.0, second.Duration, 1e-9)

	require.Equal(t, 3, edl.Metadata.TotalSegments)
	require.Equal(t, 2, edl.Metadata.TotalClips)
	require.Equal(t, 2, edl.Metadata.EditsApplied)
	require.Equal(t, 0.7, edl.Metadata.SimilarityThreshold)
	require.Equal(t, 8.0, edl.Metadata.MinGapSeconds)
}

func TestPlanEdits_ThresholdFiltersWeakMatches(t *testing.T) {
	segments := []model.NarrationSegment{
		{Start: 0, End: 10, Text: "quarterly revenue results"},
	}
	clips := []model.ClipDescriptor{
		{ID: "a.mp4", Text: "city skyline"},
		{ID: "b.mp4", Text: "office interior"},
	}
	// Both clips sit at cos(45°) ≈ 0.707 from the segment.
	vectors := [][]float32{{1, 1}}
	clipVectors := []match.ClipVector{
		{ClipID: "a.mp4", Values: []float32{1, 0}},
		{ClipID: "b.mp4", Values: []float32{0, 1}},
	}

	strict := DefaultConfig()
	strict.SimilarityThreshold = 0.8
	edl, err := PlanEdits(segments, clips, buildMatrix(t, vectors, clipVectors), strict)
	require.NoError(t, err)
	require.Empty(t, edl.Edits)
	require.Equal(t, 0, edl.Metadata.EditsApplied)

	loose := DefaultConfig()
	loose.SimilarityThreshold = 0.7
	edl, err = PlanEdits(segments, clips, buildMatrix(t, vectors, clipVectors), loose)
	require.NoError(t, err)
	require.Len(t, edl.Edits, 1)
	require.Equal(t, "a.mp4", edl.Edits[0].ClipID)
}

func TestPlanEdits_RaisingThresholdNeverAddsEdits(t *testing.T) {
	segments := []model.NarrationSegment{
		{Start: 0, End: 10, Text: "one"},
		{Start: 20, End: 30, Text: "two"},
		{Start: 40, End: 50, Text: "three"},
	}
	clips := []model.ClipDescriptor{{ID: "c.mp4", Text: "clip"}}
	matrix := buildMatrix(t,
		[][]float32{{1, 0}, {1, 1}, {0, 1}},
		[]match.ClipVector{{ClipID: "c.mp4", Values: []float32{1, 0}}},
	)

	prev := len(segments) + 1
	for _, threshold := range []float64{0.0, 0.5, 0.71, 0.9, 1.0} {
		cfg := DefaultConfig()
		cfg.SimilarityThreshold = threshold
		edl, err := PlanEdits(segments, clips, matrix, cfg)
		require.NoError(t, err)
		require.LessOrEqual(t, len(edl.Edits), prev, "threshold %.2f", threshold)
		prev = len(edl.Edits)
	}
}

func TestPlanEdits_ShortSegmentDropped(t *testing.T) {
	segments := []model.NarrationSegment{
		{Start: 0, End: 2, Text: "quick aside"},
		{Start: 20, End: 30, Text: "main point"},
	}
	clips := []model.ClipDescriptor{{ID: "c.mp4", Text: "clip"}}
	matrix := buildMatrix(t,
		[][]float32{{1, 0}, {1, 0}},
		[]match.ClipVector{{ClipID: "c.mp4", Values: []float32{1, 0}}},
	)

	edl, err := PlanEdits(segments, clips, matrix, DefaultConfig())
	require.NoError(t, err)
	// 2s * 0.8 = 1.6s, under the 2s floor.
	require.Len(t, edl.Edits, 1)
	require.Equal(t, 1, edl.Edits[0].SegmentIndex)
	require.Equal(t, 20.0, edl.Edits[0].StartTime)
}

func TestPlanEdits_DurationNeverExceedsSegment(t *testing.T) {
	segments := []model.NarrationSegment{{Start: 0, End: 5, Text: "short"}}
	clips := []model.ClipDescriptor{{ID: "c.mp4", Text: "clip"}}
	matrix := buildMatrix(t,
		[][]float32{{1, 0}},
		[]match.ClipVector{{ClipID: "c.mp4", Values: []float32{1, 0}}},
	)

	cfg := DefaultConfig()
	cfg.DurationFraction = 1.0
	edl, err := PlanEdits(segments, clips, matrix, cfg)
	require.NoError(t, err)
	require.Len(t, edl.Edits, 1)
	require.LessOrEqual(t, edl.Edits[0].Duration, segments[0].Duration())
}

func TestPlanEdits_UnsortedSegmentsPlanByTimeline(t *testing.T) {
	segments := []model.NarrationSegment{
		{Start: 24, End: 34, Text: "late"},
		{Start: 0, End: 10, Text: "early"},
	}
	clips := []model.ClipDescriptor{{ID: "c.mp4", Text: "clip"}}
	matrix := buildMatrix(t,
		[][]float32{{1, 0}, {1, 0}},
		[]match.ClipVector{{ClipID: "c.mp4", Values: []float32{1, 0}}},
	)

	edl, err := PlanEdits(segments, clips, matrix, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, edl.Edits, 2)
	require.Equal(t, 0.0, edl.Edits[0].StartTime)
	require.Equal(t, "early", edl.Edits[0].SegmentText)
	require.Equal(t, 0, edl.Edits[0].SegmentIndex)
	require.Equal(t, 24.0, edl.Edits[1].StartTime)
	require.Equal(t, 1, edl.Edits[1].SegmentIndex)
}

func TestPlanEdits_Deterministic(t *testing.T) {
	segments := []model.NarrationSegment{
		{Start: 0, End: 10, Text: "alpha"},
		{Start: 20, End: 30, Text: "beta"},
		{Start: 40, End: 50, Text: "gamma"},
	}
	clips := []model.ClipDescriptor{
		{ID: "one.mp4", Text: "first clip"},
		{ID: "two.mp4", Text: "second clip"},
	}
	matrix := buildMatrix(t,
		[][]float32{{1, 0}, {1, 0}, {1, 0}},
		[]match.ClipVector{
			{ClipID: "one.mp4", Values: []float32{1, 0}},
			{ClipID: "two.mp4", Values: []float32{1, 0}},
		},
	)

	baseline, err := PlanEdits(segments, clips, matrix, DefaultConfig())
	require.NoError(t, err)
	for range [5]struct{}{} {
		edl, err := PlanEdits(segments, clips, matrix, DefaultConfig())
		require.NoError(t, err)
		require.Equal(t, baseline, edl)
	}
	// Identical scores resolve to the first clip in caller order.
	require.Equal(t, "one.mp4", baseline.Edits[0].ClipID)
}

func TestPlanEdits_UniqueClips(t *testing.T) {
	segments := []model.NarrationSegment{
		{Start: 0, End: 10, Text: "alpha"},
		{Start: 20, End: 30, Text: "beta"},
		{Start: 40, End: 50, Text: "gamma"},
	}
	clips := []model.ClipDescriptor{
		{ID: "one.mp4", Text: "first clip"},
		{ID: "two.mp4", Text: "second clip"},
	}
	matrix := buildMatrix(t,
		[][]float32{{1, 0}, {1, 0}, {1, 0}},
		[]match.ClipVector{
			{ClipID: "one.mp4", Values: []float32{1, 0}},
			{ClipID: "two.mp4", Values: []float32{1, 0}},
		},
	)

	cfg := DefaultConfig()
	cfg.UniqueClips = true
	edl, err := PlanEdits(segments, clips, matrix, cfg)
	require.NoError(t, err)
	// Two clips, three eligible segments: the third finds no unused clip.
	require.Len(t, edl.Edits, 2)
	require.Equal(t, "one.mp4", edl.Edits[0].ClipID)
	require.Equal(t, "two.mp4", edl.Edits[1].ClipID)
}

func TestPlanEdits_NoClipsYieldsEmptyPlan(t *testing.T) {
	segments := []model.NarrationSegment{{Start: 0, End: 10, Text: "alpha"}}
	matrix := buildMatrix(t, [][]float32{{1, 0}}, nil)

	edl, err := PlanEdits(segments, nil, matrix, DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, edl.Edits)
	require.Equal(t, 1, edl.Metadata.TotalSegments)
	require.Equal(t, 0, edl.Metadata.TotalClips)
}

func TestPlanEdits_InvalidInputs(t *testing.T) {
	segments := []model.NarrationSegment{{Start: 0, End: 10, Text: "alpha"}}
	clips := []model.ClipDescriptor{{ID: "c.mp4", Text: "clip"}}
	matrix := buildMatrix(t,
		[][]float32{{1, 0}},
		[]match.ClipVector{{ClipID: "c.mp4", Values: []float32{1, 0}}},
	)

	badCfg := DefaultConfig()
	badCfg.SimilarityThreshold = 1.5
	_, err := PlanEdits(segments, clips, matrix, badCfg)
	require.ErrorContains(t, err, "similarity_threshold")

	badSeg := []model.NarrationSegment{{Start: 10, End: 10, Text: "alpha"}}
	_, err = PlanEdits(badSeg, clips, matrix, DefaultConfig())
	require.ErrorContains(t, err, "segment")

	badClips := []model.ClipDescriptor{
		{ID: "dup.mp4", Text: "clip"},
		{ID: "dup.mp4", Text: "clip again"},
	}
	_, err = PlanEdits(segments, badClips, matrix, DefaultConfig())
	require.ErrorContains(t, err, "duplicate")

	_, err = PlanEdits(segments, clips, nil, DefaultConfig())
	require.ErrorContains(t, err, "matrix")

	twoSegs := append(segments, model.NarrationSegment{Start: 20, End: 30, Text: "beta"})
	_, err = PlanEdits(twoSegs, clips, matrix, DefaultConfig())
	require.ErrorContains(t, err, "covers")
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MinGapSeconds = -1
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.DurationFraction = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.DurationFraction = 1.2
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MinDurationSeconds = -0.5
	require.Error(t, cfg.Validate())
}
