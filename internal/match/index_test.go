package match

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	require.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0, 0}, []float32{1, 0, 0}), 1e-9)
	require.InDelta(t, 1.0, CosineSimilarity([]float32{2, 2}, []float32{5, 5}), 1e-9)
	require.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	require.InDelta(t, -1.0, CosineSimilarity([]float32{1, 1}, []float32{-1, -1}), 1e-9)
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	zero := []float32{0, 0, 0}
	other := []float32{1, 2, 3}
	require.Equal(t, 0.0, CosineSimilarity(zero, other))
	require.Equal(t, 0.0, CosineSimilarity(other, zero))
	require.Equal(t, 0.0, CosineSimilarity(zero, zero))
}

func TestCosineSimilarity_LengthMismatch(t *testing.T) {
	require.Equal(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
}

func TestComputeSimilarityMatrix_RanksDescending(t *testing.T) {
	segments := [][]float32{{1, 0}}
	clips := []ClipVector{
		{ClipID: "far", Values: []float32{0, 1}},
		{ClipID: "near", Values: []float32{1, 0}},
		{ClipID: "mid", Values: []float32{1, 1}},
	}
	matrix, err := ComputeSimilarityMatrix(segments, clips)
	require.NoError(t, err)

	ranked := matrix.Rank(0)
	require.Len(t, ranked, 3)
	require.Equal(t, "near", ranked[0].ClipID)
	require.Equal(t, "mid", ranked[1].ClipID)
	require.Equal(t, "far", ranked[2].ClipID)

	best, ok := matrix.Best(0)
	require.True(t, ok)
	require.Equal(t, "near", best.ClipID)
	require.InDelta(t, 1.0, best.Similarity, 1e-9)
}

func TestComputeSimilarityMatrix_TieKeepsClipOrder(t *testing.T) {
	segments := [][]float32{{1, 0}}
	clips := []ClipVector{
		{ClipID: "first", Values: []float32{1, 0}},
		{ClipID: "second", Values: []float32{1, 0}},
	}
	matrix, err := ComputeSimilarityMatrix(segments, clips)
	require.NoError(t, err)

	for range [10]struct{}{} {
		ranked := matrix.Rank(0)
		require.Equal(t, "first", ranked[0].ClipID)
		require.Equal(t, "second", ranked[1].ClipID)
	}
}

func TestComputeSimilarityMatrix_DimensionMismatch(t *testing.T) {
	segments := [][]float32{{1, 0, 0}, {1, 0}}
	clips := []ClipVector{{ClipID: "c1", Values: []float32{1, 0, 0}}}

	matrix, err := ComputeSimilarityMatrix(segments, clips)
	require.Nil(t, matrix)
	var mismatch *DimensionMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, 3, mismatch.Want)
	require.Equal(t, 2, mismatch.Got)
}

func TestComputeSimilarityMatrix_ClipDimensionMismatch(t *testing.T) {
	segments := [][]float32{{1, 0}}
	clips := []ClipVector{
		{ClipID: "ok", Values: []float32{0, 1}},
		{ClipID: "bad", Values: []float32{0, 1, 0}},
	}
	matrix, err := ComputeSimilarityMatrix(segments, clips)
	require.Nil(t, matrix)
	var mismatch *DimensionMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Contains(t, mismatch.Error(), "bad")
}

func TestMatrixAt(t *testing.T) {
	segments := [][]float32{{1, 0}, {0, 1}}
	clips := []ClipVector{{ClipID: "c1", Values: []float32{1, 0}}}
	matrix, err := ComputeSimilarityMatrix(segments, clips)
	require.NoError(t, err)
	require.Equal(t, 2, matrix.Segments())

	sim, ok := matrix.At(0, "c1")
	require.True(t, ok)
	require.InDelta(t, 1.0, sim, 1e-9)

	sim, ok = matrix.At(1, "c1")
	require.True(t, ok)
	require.InDelta(t, 0.0, sim, 1e-9)

	_, ok = matrix.At(0, "missing")
	require.False(t, ok)
	_, ok = matrix.At(5, "c1")
	require.False(t, ok)
}

func TestMatrixBest_NoClips(t *testing.T) {
	matrix, err := ComputeSimilarityMatrix([][]float32{{1, 0}}, nil)
	require.NoError(t, err)
	_, ok := matrix.Best(0)
	require.False(t, ok)
}

func TestDimensionMismatchError_Message(t *testing.T) {
	var err error = &DimensionMismatchError{Want: 768, Got: 512, What: "clip river"}
	require.EqualError(t, err, "embedding dimension mismatch: clip river has 512 dimensions, want 768")
}
