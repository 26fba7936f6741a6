package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions used across algorithms using gonum for robustness

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Variance calculates the sample variance of a slice using gonum
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.Variance(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return math.Sqrt(Variance(data))
}

// Percentile calculates the p-th percentile (p between 0 and 1) with linear
// interpolation between closest ranks: the rank is p*(n-1) and the value is
// interpolated between the two samples surrounding it
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 || p < 0 || p > 1 {
		return 0.0
	}

	// Make a copy and sort
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	idx := p * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}

	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// FindPeaks finds indices of local maxima at least minHeight tall and at
// least minDistance indices apart. When two peaks violate the distance
// constraint the taller one wins, so the result is independent of scan order.
func FindPeaks(data []float64, minHeight float64, minDistance int) []int {
	if len(data) < 3 {
		return []int{}
	}
	if minDistance < 1 {
		minDistance = 1
	}

	var candidates []int
	for i := 1; i < len(data)-1; i++ {
		if data[i] > data[i-1] && data[i] > data[i+1] && data[i] >= minHeight {
			candidates = append(candidates, i)
		}
	}

	// Resolve distance conflicts in favor of taller peaks
	sort.SliceStable(candidates, func(a, b int) bool {
		return data[candidates[a]] > data[candidates[b]]
	})

	var kept []int
	for _, idx := range candidates {
		ok := true
		for _, k := range kept {
			if abs(idx-k) < minDistance {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, idx)
		}
	}

	sort.Ints(kept)
	if kept == nil {
		return []int{}
	}
	return kept
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
