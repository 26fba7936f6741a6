package analysis

import (
	"fmt"
	"math"

	"github.com/cuetrack/cuetrack/algorithms/common"
)

// filterOnsets keeps onsets at least minInterval seconds apart with a
// greedy forward scan. Earlier onsets always win within a violated window.
func filterOnsets(onsets []float64, minInterval float64) []float64 {
	filtered := make([]float64, 0, len(onsets))
	last := -minInterval
	for _, t := range onsets {
		if t-last >= minInterval {
			filtered = append(filtered, t)
			last = t
		}
	}
	return filtered
}

// subsampleBeats keeps every division-th beat starting from the first
func subsampleBeats(beatTimes []float64, division int) []float64 {
	if division < 1 {
		division = 1
	}
	beats := make([]float64, 0, len(beatTimes)/division+1)
	for i := 0; i < len(beatTimes); i += division {
		beats = append(beats, beatTimes[i])
	}
	return beats
}

// boundariesToSections converts boundary timestamps to labeled contiguous
// sections. Fewer than two boundaries yield no sections.
func boundariesToSections(boundaries []float64) []Section {
	if len(boundaries) < 2 {
		return []Section{}
	}

	sections := make([]Section, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		sections = append(sections, Section{
			Start: boundaries[i],
			End:   boundaries[i+1],
			Label: fmt.Sprintf("section_%d", i+1),
		})
	}
	return sections
}

// findEnergyPeaks picks bass impact peaks: local maxima above the 75th
// percentile of the energy distribution, at least two seconds apart. The
// frame distance is clamped to one frame so the spacing constraint never
// collapses on very short tracks.
func findEnergyPeaks(times, energy []float64, duration float64) []float64 {
	if len(times) == 0 || len(energy) != len(times) {
		return []float64{}
	}

	height := common.Percentile(energy, peakPercentile)

	distFrames := 1
	if duration > 0 {
		distFrames = int(math.Round(peakMinSpacingSec * float64(len(times)) / duration))
		if distFrames < 1 {
			distFrames = 1
		}
	}

	peaks := common.FindPeaks(energy, height, distFrames)

	peakTimes := make([]float64, 0, len(peaks))
	for _, p := range peaks {
		peakTimes = append(peakTimes, times[p])
	}
	return peakTimes
}
