package stats

import (
	"testing"
)

// blockFeatures builds a sequence of constant feature vectors in blocks,
// one distinct value per block
func blockFeatures(blockLens []int, values []float64) [][]float64 {
	var features [][]float64
	for b, length := range blockLens {
		for _i := 0; _i < length; _i++ {
			features = append(features, []float64{values[b], values[b] * 2})
		}
	}
	return features
}

func TestBoundariesBlockStructure(t *testing.T) {
	// Three clearly distinct blocks of 20 frames each
	features := blockFeatures([]int{20, 20, 20}, []float64{0.0, 10.0, 20.0})

	boundaries := NewSegmenter().Boundaries(features, 3)
	if len(boundaries) != 3 {
		t.Fatalf("Expected 3 boundaries, got %d (%v)", len(boundaries), boundaries)
	}
	want := []int{0, 20, 40}
	for i, b := range boundaries {
		if b != want[i] {
			t.Errorf("Boundary %d: expected %d, got %d", i, want[i], b)
		}
	}
}

func TestBoundariesSortedAndStartAtZero(t *testing.T) {
	features := blockFeatures([]int{5, 7, 3, 9, 6}, []float64{0, 5, 1, 8, 3})

	boundaries := NewSegmenter().Boundaries(features, 4)
	if len(boundaries) != 4 {
		t.Fatalf("Expected 4 boundaries, got %d", len(boundaries))
	}
	if boundaries[0] != 0 {
		t.Errorf("First boundary must be 0, got %d", boundaries[0])
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] <= boundaries[i-1] {
			t.Errorf("Boundaries not strictly increasing at %d: %v", i, boundaries)
		}
	}
}

func TestBoundariesFewerFramesThanClusters(t *testing.T) {
	features := blockFeatures([]int{1, 1, 1}, []float64{0, 1, 2})

	boundaries := NewSegmenter().Boundaries(features, 10)
	if len(boundaries) != 3 {
		t.Fatalf("Expected one boundary per frame, got %d", len(boundaries))
	}
	for i, b := range boundaries {
		if b != i {
			t.Errorf("Boundary %d: expected %d, got %d", i, i, b)
		}
	}
}

func TestBoundariesEmptyInput(t *testing.T) {
	boundaries := NewSegmenter().Boundaries(nil, 10)
	if len(boundaries) != 0 {
		t.Errorf("Expected no boundaries for empty input, got %v", boundaries)
	}
}

func TestBoundariesDeterministic(t *testing.T) {
	features := blockFeatures([]int{10, 10, 10, 10}, []float64{0, 3, 0, 3})

	first := NewSegmenter().Boundaries(features, 4)
	for _i := 0; _i < 5; _i++ {
		again := NewSegmenter().Boundaries(features, 4)
		if len(again) != len(first) {
			t.Fatalf("Nondeterministic boundary count: %v vs %v", first, again)
		}
		for i := range first {
			if again[i] != first[i] {
				t.Fatalf("Nondeterministic boundaries: %v vs %v", first, again)
			}
		}
	}
}
