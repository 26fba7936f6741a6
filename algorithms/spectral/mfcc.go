package spectral

import (
	"fmt"
	"math"
)

// MFCC computes Mel-Frequency Cepstral Coefficients, used here as the
// timbral component of the structural segmentation feature stack
type MFCC struct {
	numCoefficients int
	numMelFilters   int
	sampleRate      int
	lowFreq         float64
	highFreq        float64

	filterBank  [][]float64
	dctMatrix   [][]float64
	initialized bool
}

// NewMFCC creates a new MFCC computer
func NewMFCC(sampleRate, numCoefficients int) *MFCC {
	if numCoefficients <= 0 {
		numCoefficients = 13
	}
	return &MFCC{
		numCoefficients: numCoefficients,
		numMelFilters:   26,
		sampleRate:      sampleRate,
		lowFreq:         0.0,
		highFreq:        float64(sampleRate) / 2.0,
	}
}

// Initialize prepares the filter bank and DCT matrix for the given FFT size
func (m *MFCC) Initialize(fftSize int) error {
	if fftSize <= 0 {
		return fmt.Errorf("invalid FFT size: %d", fftSize)
	}

	m.filterBank = m.createMelFilterBank(fftSize)
	if len(m.filterBank) == 0 {
		return fmt.Errorf("failed to create mel filter bank")
	}

	m.createDCTMatrix()
	m.initialized = true
	return nil
}

// Compute calculates MFCC coefficients from a magnitude spectrum
func (m *MFCC) Compute(magnitudeSpectrum []float64) ([]float64, error) {
	if len(magnitudeSpectrum) == 0 {
		return nil, fmt.Errorf("empty magnitude spectrum")
	}

	if !m.initialized {
		// Auto-initialize based on spectrum size
		fftSize := (len(magnitudeSpectrum) - 1) * 2
		if err := m.Initialize(fftSize); err != nil {
			return nil, fmt.Errorf("failed to initialize MFCC: %w", err)
		}
	}

	// Convert to power spectrum
	powerSpectrum := make([]float64, len(magnitudeSpectrum))
	for i, mag := range magnitudeSpectrum {
		powerSpectrum[i] = mag * mag
	}

	// Apply mel filter bank
	melSpectrum := make([]float64, m.numMelFilters)
	for i, filter := range m.filterBank {
		sum := 0.0
		n := min(len(filter), len(powerSpectrum))
		for j := 0; j < n; j++ {
			sum += filter[j] * powerSpectrum[j]
		}
		melSpectrum[i] = sum
	}

	// Log with floor to avoid log(0)
	logMelSpectrum := make([]float64, len(melSpectrum))
	for i, mel := range melSpectrum {
		if mel > 0 {
			logMelSpectrum[i] = math.Log(mel)
		} else {
			logMelSpectrum[i] = math.Log(1e-10)
		}
	}

	// DCT-II down to the requested number of coefficients
	coeffs := make([]float64, m.numCoefficients)
	for c := 0; c < m.numCoefficients; c++ {
		sum := 0.0
		for j, v := range logMelSpectrum {
			sum += m.dctMatrix[c][j] * v
		}
		coeffs[c] = sum
	}

	return coeffs, nil
}

// ComputeFrames processes multiple frames of magnitude spectra
func (m *MFCC) ComputeFrames(spectrogram [][]float64) ([][]float64, error) {
	if len(spectrogram) == 0 {
		return [][]float64{}, nil
	}

	frames := make([][]float64, len(spectrogram))
	for t, spectrum := range spectrogram {
		coeffs, err := m.Compute(spectrum)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", t, err)
		}
		frames[t] = coeffs
	}

	return frames, nil
}

// createMelFilterBank builds triangular filters evenly spaced on the mel scale
func (m *MFCC) createMelFilterBank(fftSize int) [][]float64 {
	numBins := fftSize/2 + 1

	lowMel := hzToMel(m.lowFreq)
	highMel := hzToMel(m.highFreq)

	// numMelFilters + 2 evenly spaced mel points define the triangle edges
	melPoints := make([]float64, m.numMelFilters+2)
	for i := range melPoints {
		melPoints[i] = lowMel + float64(i)*(highMel-lowMel)/float64(m.numMelFilters+1)
	}

	// Convert mel points to FFT bin numbers
	binPoints := make([]int, len(melPoints))
	for i, mel := range melPoints {
		freq := melToHz(mel)
		binPoints[i] = int(math.Floor((float64(fftSize) + 1.0) * freq / float64(m.sampleRate)))
		if binPoints[i] >= numBins {
			binPoints[i] = numBins - 1
		}
	}

	filterBank := make([][]float64, m.numMelFilters)
	for i := 0; i < m.numMelFilters; i++ {
		filter := make([]float64, numBins)
		left, center, right := binPoints[i], binPoints[i+1], binPoints[i+2]

		for j := left; j < center; j++ {
			if center > left {
				filter[j] = float64(j-left) / float64(center-left)
			}
		}
		for j := center; j <= right && j < numBins; j++ {
			if right > center {
				filter[j] = float64(right-j) / float64(right-center)
			}
		}

		filterBank[i] = filter
	}

	return filterBank
}

// createDCTMatrix builds an orthonormal DCT-II matrix
func (m *MFCC) createDCTMatrix() {
	n := m.numMelFilters
	m.dctMatrix = make([][]float64, m.numCoefficients)

	for c := 0; c < m.numCoefficients; c++ {
		row := make([]float64, n)
		scale := math.Sqrt(2.0 / float64(n))
		if c == 0 {
			scale = math.Sqrt(1.0 / float64(n))
		}
		for j := 0; j < n; j++ {
			row[j] = scale * math.Cos(math.Pi*float64(c)*(float64(j)+0.5)/float64(n))
		}
		m.dctMatrix[c] = row
	}
}

// hzToMel converts frequency in Hz to the mel scale
func hzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// melToHz converts mel scale value to frequency in Hz
func melToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}
