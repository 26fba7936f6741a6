package stats

import (
	"math"
)

// Segmenter splits a feature sequence into contiguous segments by
// agglomerative clustering. Only adjacent segments may merge, so cluster
// membership always forms an unbroken run of frames.
type Segmenter struct{}

// NewSegmenter creates a new structural segmenter
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

type segment struct {
	start    int
	count    int
	centroid []float64
}

// Boundaries reduces the feature sequence to at most k contiguous segments
// and returns the starting frame index of each, sorted ascending. The first
// boundary is always frame 0. Fewer than k frames yield one segment per
// frame. Ties on merge distance resolve to the earliest pair, so the result
// is deterministic.
func (s *Segmenter) Boundaries(features [][]float64, k int) []int {
	n := len(features)
	if n == 0 {
		return []int{}
	}
	if k < 1 {
		k = 1
	}

	segments := make([]segment, n)
	for i, frame := range features {
		centroid := make([]float64, len(frame))
		copy(centroid, frame)
		segments[i] = segment{start: i, count: 1, centroid: centroid}
	}

	// Distances between each pair of adjacent segments
	dists := make([]float64, 0, n-1)
	for i := 0; i < n-1; i++ {
		dists = append(dists, euclideanDistance(segments[i].centroid, segments[i+1].centroid))
	}

	for len(segments) > k {
		best := 0
		for i := 1; i < len(dists); i++ {
			if dists[i] < dists[best] {
				best = i
			}
		}

		merged := mergeSegments(segments[best], segments[best+1])
		segments[best] = merged
		segments = append(segments[:best+1], segments[best+2:]...)
		dists = append(dists[:best], dists[best+1:]...)

		if best > 0 {
			dists[best-1] = euclideanDistance(segments[best-1].centroid, segments[best].centroid)
		}
		if best < len(dists) {
			dists[best] = euclideanDistance(segments[best].centroid, segments[best+1].centroid)
		}
	}

	boundaries := make([]int, len(segments))
	for i, seg := range segments {
		boundaries[i] = seg.start
	}
	return boundaries
}

// mergeSegments combines two adjacent segments into one with a
// count-weighted centroid
func mergeSegments(a, b segment) segment {
	total := a.count + b.count
	centroid := make([]float64, len(a.centroid))
	for i := range centroid {
		centroid[i] = (a.centroid[i]*float64(a.count) + b.centroid[i]*float64(b.count)) / float64(total)
	}
	return segment{start: a.start, count: total, centroid: centroid}
}

func euclideanDistance(a, b []float64) float64 {
	sum := 0.0
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
