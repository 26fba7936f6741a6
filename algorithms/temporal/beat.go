package temporal

import (
	"math"

	"github.com/cuetrack/cuetrack/algorithms/spectral"
)

const (
	minBPM = 60.0
	maxBPM = 180.0

	// Center of the log-normal tempo prior, also reported when the
	// envelope carries energy but no periodicity
	fallbackBPM = 120.0

	// Width of the tempo prior in octaves
	tempoPriorStd = 1.0
)

// BeatTracker estimates tempo and beat positions from the onset strength
// envelope. Tempo comes from autocorrelation over the musical BPM range,
// beats from fitting a regular grid at the estimated period and picking
// the phase with the most envelope support.
type BeatTracker struct {
	onsets *OnsetDetector
}

// NewBeatTracker creates a beat tracker with default settings
func NewBeatTracker() *BeatTracker {
	return &BeatTracker{
		onsets: NewOnsetDetector(),
	}
}

// Track returns the estimated tempo in BPM and beat timestamps in seconds.
// Silence yields 0 BPM and no beats. An aperiodic but non-silent envelope
// yields the fallback tempo and no beats.
func (bt *BeatTracker) Track(stft *spectral.STFTResult) (float64, []float64) {
	strength := bt.onsets.Strength(stft)
	if len(strength) == 0 || isFlat(strength) {
		return 0.0, []float64{}
	}

	frameRate := 1.0 / stft.TimeResolution

	lag := bt.findTempoLag(strength, frameRate)
	if lag <= 0 {
		return fallbackBPM, []float64{}
	}

	bpm := 60.0 * frameRate / float64(lag)
	beats := bt.placeBeats(strength, lag, stft)

	return bpm, beats
}

// findTempoLag locates the autocorrelation maximum within the BPM range,
// weighted by a log-normal prior around the center tempo so octave errors
// resolve toward the musically likely lag. Returns 0 when no lag fits in
// the envelope.
func (bt *BeatTracker) findTempoLag(strength []float64, frameRate float64) int {
	minLag := int(math.Floor(60.0 / maxBPM * frameRate))
	maxLag := int(math.Ceil(60.0 / minBPM * frameRate))

	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(strength) {
		maxLag = len(strength) - 1
	}
	if minLag > maxLag {
		return 0
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		corr := 0.0
		for i := 0; i < len(strength)-lag; i++ {
			corr += strength[i] * strength[i+lag]
		}

		bpm := 60.0 * frameRate / float64(lag)
		octaves := math.Log2(bpm/fallbackBPM) / tempoPriorStd
		corr *= math.Exp(-0.5 * octaves * octaves)

		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestCorr <= 0 {
		return 0
	}
	return bestLag
}

// placeBeats lays a regular grid of period lag over the envelope and keeps
// the phase offset that accumulates the most onset strength
func (bt *BeatTracker) placeBeats(strength []float64, lag int, stft *spectral.STFTResult) []float64 {
	bestPhase := 0
	bestScore := math.Inf(-1)

	for phase := 0; phase < lag; phase++ {
		score := 0.0
		for i := phase; i < len(strength); i += lag {
			score += strength[i]
		}
		if score > bestScore {
			bestScore = score
			bestPhase = phase
		}
	}

	beats := make([]float64, 0, len(strength)/lag+1)
	for i := bestPhase; i < len(strength); i += lag {
		// strength[i] belongs to frame i+1
		beats = append(beats, stft.FrameTime(i+1))
	}

	return beats
}

// isFlat reports whether the envelope has no energy at all
func isFlat(strength []float64) bool {
	for _, v := range strength {
		if v > 0 {
			return false
		}
	}
	return true
}
