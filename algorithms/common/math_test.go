package common

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if m := Mean([]float64{1, 2, 3, 4}); m != 2.5 {
		t.Errorf("Expected mean 2.5, got %f", m)
	}
	if m := Mean(nil); m != 0 {
		t.Errorf("Expected mean 0 for empty input, got %f", m)
	}
}

func TestPercentile(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	p75 := Percentile(data, 0.75)
	if math.Abs(p75-7.75) > 1e-9 {
		t.Errorf("Expected 75th percentile 7.75, got %f", p75)
	}

	if p := Percentile(data, 0.0); p != 1 {
		t.Errorf("Expected 0th percentile 1, got %f", p)
	}
	if p := Percentile(data, 1.0); p != 10 {
		t.Errorf("Expected 100th percentile 10, got %f", p)
	}
}

func TestPercentileInterpolation(t *testing.T) {
	cases := []struct {
		data []float64
		p    float64
		want float64
	}{
		{[]float64{1, 2, 3, 4}, 0.5, 2.5},
		{[]float64{1, 3, 5}, 0.75, 4.0},
		{[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
		{[]float64{7}, 0.5, 7.0},
		{[]float64{5, 1, 3}, 0.5, 3.0}, // unsorted input
	}

	for _, tc := range cases {
		if got := Percentile(tc.data, tc.p); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Percentile(%v, %v) = %f, want %f", tc.data, tc.p, got, tc.want)
		}
	}
}

func TestFindPeaks(t *testing.T) {
	data := []float64{0, 1, 0, 0, 3, 0, 0, 2, 0}

	peaks := FindPeaks(data, 0.5, 1)
	want := []int{1, 4, 7}
	if len(peaks) != len(want) {
		t.Fatalf("Expected %d peaks, got %d: %v", len(want), len(peaks), peaks)
	}
	for i, idx := range want {
		if peaks[i] != idx {
			t.Errorf("Peak %d: expected index %d, got %d", i, idx, peaks[i])
		}
	}
}

func TestFindPeaksDistanceKeepsTaller(t *testing.T) {
	data := []float64{0, 1, 0, 3, 0, 0, 0, 0, 0}

	// Peaks at 1 and 3 are 2 apart; with distance 4 only the taller survives
	peaks := FindPeaks(data, 0.5, 4)
	if len(peaks) != 1 || peaks[0] != 3 {
		t.Errorf("Expected single peak at index 3, got %v", peaks)
	}
}

func TestFindPeaksHeightThreshold(t *testing.T) {
	data := []float64{0, 1, 0, 3, 0}
	peaks := FindPeaks(data, 2.0, 1)
	if len(peaks) != 1 || peaks[0] != 3 {
		t.Errorf("Expected only peak above threshold, got %v", peaks)
	}
}

func TestFindPeaksShortInput(t *testing.T) {
	if peaks := FindPeaks([]float64{1, 2}, 0, 1); len(peaks) != 0 {
		t.Errorf("Expected no peaks for short input, got %v", peaks)
	}
}
