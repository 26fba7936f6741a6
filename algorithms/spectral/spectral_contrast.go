package spectral

import (
	"math"
	"sort"
)

// SpectralContrast computes spectral contrast features, the difference in dB
// between peaks and valleys of the spectrum within log-spaced bands
type SpectralContrast struct {
	sampleRate  int
	numBands    int
	bandEdges   []int
	numBins     int
	initialized bool
}

// NewSpectralContrast creates a new spectral contrast calculator
func NewSpectralContrast(sampleRate int, numBands int) *SpectralContrast {
	return &SpectralContrast{
		sampleRate: sampleRate,
		numBands:   numBands,
	}
}

// Compute calculates spectral contrast for a single magnitude spectrum
func (sc *SpectralContrast) Compute(magnitudeSpectrum []float64) []float64 {
	if len(magnitudeSpectrum) == 0 {
		return []float64{}
	}

	if !sc.initialized || sc.numBins != len(magnitudeSpectrum) {
		sc.initializeBands(len(magnitudeSpectrum))
	}

	contrast := make([]float64, sc.numBands)

	for band := 0; band < sc.numBands; band++ {
		startBin := sc.bandEdges[band]
		endBin := min(sc.bandEdges[band+1], len(magnitudeSpectrum))

		if startBin >= endBin {
			contrast[band] = 0.0
			continue
		}

		contrast[band] = sc.bandContrast(magnitudeSpectrum[startBin:endBin])
	}

	return contrast
}

// ComputeFrames processes all frames of a magnitude spectrogram
func (sc *SpectralContrast) ComputeFrames(spectrogram [][]float64) [][]float64 {
	if len(spectrogram) == 0 {
		return [][]float64{}
	}

	contrasts := make([][]float64, len(spectrogram))
	for t, spectrum := range spectrogram {
		contrasts[t] = sc.Compute(spectrum)
	}

	return contrasts
}

// bandContrast calculates the peak/valley contrast in dB for one band
func (sc *SpectralContrast) bandContrast(bandSpectrum []float64) float64 {
	powerSpectrum := make([]float64, len(bandSpectrum))
	for i, mag := range bandSpectrum {
		powerSpectrum[i] = mag * mag
	}

	sort.Float64s(powerSpectrum)

	// Top and bottom 20% of bins define peak and valley energy
	quantileCount := max(1, int(0.2*float64(len(powerSpectrum))))

	valleyEnergy := 0.0
	for i := 0; i < quantileCount; i++ {
		valleyEnergy += powerSpectrum[i]
	}
	valleyEnergy /= float64(quantileCount)

	peakEnergy := 0.0
	for i := len(powerSpectrum) - quantileCount; i < len(powerSpectrum); i++ {
		peakEnergy += powerSpectrum[i]
	}
	peakEnergy /= float64(quantileCount)

	if peakEnergy <= 0 {
		return 0.0
	}
	if valleyEnergy <= 0 {
		valleyEnergy = 1e-10
	}

	return 10.0 * math.Log10(peakEnergy/valleyEnergy)
}

// initializeBands creates logarithmically spaced band edges starting at 200 Hz
func (sc *SpectralContrast) initializeBands(numBins int) {
	sc.numBins = numBins
	sc.bandEdges = make([]int, sc.numBands+1)

	nyquist := float64(sc.sampleRate) / 2.0
	lowFreq := 200.0
	if lowFreq >= nyquist {
		lowFreq = nyquist / math.Pow(2.0, float64(sc.numBands))
	}

	// Octave-spaced edges from lowFreq up to Nyquist
	sc.bandEdges[0] = 0
	for i := 1; i <= sc.numBands; i++ {
		freq := lowFreq * math.Pow(2.0, float64(i-1))
		if i == sc.numBands {
			freq = nyquist
		}
		bin := int(freq / nyquist * float64(numBins-1))
		if bin >= numBins {
			bin = numBins - 1
		}
		if bin <= sc.bandEdges[i-1] {
			bin = sc.bandEdges[i-1] + 1
		}
		sc.bandEdges[i] = bin
	}

	sc.initialized = true
}
