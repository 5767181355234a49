package match

import (
	"fmt"
	"math"
	"sort"
)

// DimensionMismatchError reports vectors drawn from different embedding
// spaces. It is a configuration error: vectors are only comparable when
// produced by the same embedding model.
type DimensionMismatchError struct {
	Want int
	Got  int
	What string
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: %s has %d dimensions, want %d", e.What, e.Got, e.Want)
}

// Candidate is an ephemeral ranked relation between one segment and one
// clip. It is not persisted beyond the ranking step.
type Candidate struct {
	ClipID     string
	Similarity float64
}

// ClipVector pairs a clip id with its embedding. Callers control the
// ordering, which the index preserves for deterministic tie-breaking.
type ClipVector struct {
	ClipID string
	Values []float32
}

// CosineSimilarity computes dot(a,b) / (||a||*||b||) in float64.
// A zero-norm vector is defined to have similarity 0.0 to everything;
// degenerate embeddings rank last instead of crashing the run.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Matrix holds the full segment×clip similarity table for one planning
// run. Rows keep the caller's clip ordering; nothing is mutated after
// construction, so concurrent reads are safe.
type Matrix struct {
	rows [][]Candidate
}

// ComputeSimilarityMatrix scores every segment vector against every clip
// vector. Dimensions are validated for the whole input before any score
// is computed, so a mismatch fails the run atomically.
func ComputeSimilarityMatrix(segmentVectors [][]float32, clips []ClipVector) (*Matrix, error) {
	dim := 0
	for _, vec := range segmentVectors {
		if len(vec) > 0 {
			dim = len(vec)
			break
		}
	}
	if dim == 0 {
		for _, clip := range clips {
			if len(clip.Values) > 0 {
				dim = len(clip.Values)
				break
			}
		}
	}
	for i, vec := range segmentVectors {
		if len(vec) != dim {
			return nil, &DimensionMismatchError{Want: dim, Got: len(vec), What: fmt.Sprintf("segment %d", i)}
		}
	}
	for _, clip := range clips {
		if len(clip.Values) != dim {
			return nil, &DimensionMismatchError{Want: dim, Got: len(clip.Values), What: fmt.Sprintf("clip %s", clip.ClipID)}
		}
	}

	rows := make([][]Candidate, len(segmentVectors))
	for i, vec := range segmentVectors {
		row := make([]Candidate, len(clips))
		for j, clip := range clips {
			row[j] = Candidate{
				ClipID:     clip.ClipID,
				Similarity: CosineSimilarity(vec, clip.Values),
			}
		}
		rows[i] = row
	}
	return &Matrix{rows: rows}, nil
}

func (m *Matrix) Segments() int {
	return len(m.rows)
}

// At returns the similarity for one (segment, clip) pair.
func (m *Matrix) At(segmentIndex int, clipID string) (float64, bool) {
	if segmentIndex < 0 || segmentIndex >= len(m.rows) {
		return 0, false
	}
	for _, cand := range m.rows[segmentIndex] {
		if cand.ClipID == clipID {
			return cand.Similarity, true
		}
	}
	return 0, false
}

// Rank returns the segment's candidates ordered by similarity
// descending. Ties keep the caller's clip ordering (first seen wins),
// so repeated runs over identical input rank identically.
func (m *Matrix) Rank(segmentIndex int) []Candidate {
	if segmentIndex < 0 || segmentIndex >= len(m.rows) {
		return nil
	}
	ranked := make([]Candidate, len(m.rows[segmentIndex]))
	copy(ranked, m.rows[segmentIndex])
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	return ranked
}

// Best returns the top-ranked candidate for a segment, if any.
func (m *Matrix) Best(segmentIndex int) (Candidate, bool) {
	ranked := m.Rank(segmentIndex)
	if len(ranked) == 0 {
		return Candidate{}, false
	}
	return ranked[0], true
}
