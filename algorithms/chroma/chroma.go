package chroma

import (
	"math"

	"github.com/cuetrack/cuetrack/algorithms/spectral"
)

// Chroma computes an octave-folded 12-bin pitch class profile from a
// magnitude spectrogram. All C notes map to the same bin, logarithmic
// frequency mapping, A4 tuning.
type Chroma struct {
	tuningFreq float64 // A4 frequency
	chromaBins int     // always 12
	minFreq    float64
	maxFreq    float64
}

// NewChroma creates a chromagram calculator with standard A4=440Hz tuning
func NewChroma() *Chroma {
	return &Chroma{
		tuningFreq: 440.0,
		chromaBins: 12,
		minFreq:    80.0,   // approximate E2
		maxFreq:    8000.0, // high enough for harmonics
	}
}

// FromSTFT converts an STFT magnitude spectrogram to a chromagram,
// one 12-bin energy-normalized vector per frame
func (c *Chroma) FromSTFT(stft *spectral.STFTResult) [][]float64 {
	chromagram := make([][]float64, stft.TimeFrames)

	mapping := c.binMapping(stft.FreqBins, stft.FreqResolution)

	for t := 0; t < stft.TimeFrames; t++ {
		chromagram[t] = make([]float64, c.chromaBins)

		for f := 0; f < stft.FreqBins; f++ {
			bin := mapping[f]
			if bin < 0 {
				continue
			}
			// Magnitude squared for energy
			mag := stft.Magnitude[t][f]
			chromagram[t][bin] += mag * mag
		}

		c.normalizeFrame(chromagram[t])
	}

	return chromagram
}

// binMapping maps FFT bins to chroma bins; -1 marks bins outside the range
func (c *Chroma) binMapping(freqBins int, freqResolution float64) []int {
	mapping := make([]int, freqBins)

	for f := 0; f < freqBins; f++ {
		frequency := float64(f) * freqResolution

		if frequency < c.minFreq || frequency > c.maxFreq {
			mapping[f] = -1
			continue
		}

		midiNote := c.frequencyToMIDI(frequency)
		mapping[f] = ((int(math.Round(midiNote)) % 12) + 12) % 12
	}

	return mapping
}

// frequencyToMIDI converts frequency to MIDI note number (A4 = 69)
func (c *Chroma) frequencyToMIDI(frequency float64) float64 {
	if frequency <= 0 {
		return 0
	}
	return 69.0 + 12.0*math.Log2(frequency/c.tuningFreq)
}

// normalizeFrame scales a chroma frame to unit total energy
func (c *Chroma) normalizeFrame(frame []float64) {
	total := 0.0
	for _, energy := range frame {
		total += energy
	}
	if total <= 0 {
		return
	}
	for i := range frame {
		frame[i] /= total
	}
}
