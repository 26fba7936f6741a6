package temporal

import (
	"math"

	"github.com/cuetrack/cuetrack/algorithms/common"
	"github.com/cuetrack/cuetrack/algorithms/spectral"
)

// OnsetDetector finds note and percussion onsets from a magnitude
// spectrogram using positive spectral flux with an adaptive threshold.
type OnsetDetector struct {
	// Minimum separation between reported onsets, in seconds
	minSeparation float64
}

// NewOnsetDetector creates an onset detector with default settings
func NewOnsetDetector() *OnsetDetector {
	return &OnsetDetector{
		minSeparation: 0.05,
	}
}

// Strength computes the onset strength envelope as half-wave rectified
// spectral flux. Element i corresponds to STFT frame i+1, so the envelope
// has one fewer element than the spectrogram has frames.
func (od *OnsetDetector) Strength(stft *spectral.STFTResult) []float64 {
	if stft.TimeFrames < 2 {
		return []float64{}
	}

	strength := make([]float64, stft.TimeFrames-1)
	for t := 1; t < stft.TimeFrames; t++ {
		flux := 0.0
		for f := 0; f < stft.FreqBins; f++ {
			diff := stft.Magnitude[t][f] - stft.Magnitude[t-1][f]
			if diff > 0 {
				flux += diff
			}
		}
		strength[t-1] = flux
	}

	return strength
}

// Detect returns onset timestamps in seconds, sorted ascending. Peaks of
// the strength envelope must exceed mean plus one standard deviation and
// sit at least minSeparation apart.
func (od *OnsetDetector) Detect(stft *spectral.STFTResult) []float64 {
	strength := od.Strength(stft)
	if len(strength) == 0 {
		return []float64{}
	}

	threshold := common.Mean(strength) + common.StandardDeviation(strength)

	minDistance := int(math.Round(od.minSeparation / stft.TimeResolution))
	if minDistance < 1 {
		minDistance = 1
	}

	peaks := common.FindPeaks(strength, threshold, minDistance)

	times := make([]float64, 0, len(peaks))
	for _, p := range peaks {
		// strength[p] belongs to frame p+1
		times = append(times, stft.FrameTime(p+1))
	}

	return times
}
