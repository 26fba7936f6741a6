package spectral

// Fixed analysis bands in Hz. The upper bound of the high band assumes
// standard full-range material; bins above it are ignored.
const (
	BassLowHz  = 20.0
	BassHighHz = 250.0
	MidLowHz   = 250.0
	MidHighHz  = 4000.0
	HighLowHz  = 4000.0
	HighHighHz = 20000.0
)

// BandEnergy reduces a magnitude spectrogram to per-frame average magnitude
// in three fixed frequency bands (bass, mid, high)
type BandEnergy struct {
	// No state needed - band edges are fixed
}

// BandEnergyResult holds the three energy curves on a shared time grid
type BandEnergyResult struct {
	Times []float64 `json:"times"`
	Bass  []float64 `json:"bass_energy"`
	Mid   []float64 `json:"mid_energy"`
	High  []float64 `json:"high_energy"`
}

// NewBandEnergy creates a new band energy calculator
func NewBandEnergy() *BandEnergy {
	return &BandEnergy{}
}

// Compute averages spectrogram magnitude across each band's frequency bins,
// one value per analysis frame. All four output sequences share one length.
func (be *BandEnergy) Compute(stft *STFTResult) *BandEnergyResult {
	result := &BandEnergyResult{
		Times: stft.FrameTimes(),
		Bass:  make([]float64, stft.TimeFrames),
		Mid:   make([]float64, stft.TimeFrames),
		High:  make([]float64, stft.TimeFrames),
	}

	bassBins := be.binsInRange(stft, BassLowHz, BassHighHz)
	midBins := be.binsInRange(stft, MidLowHz, MidHighHz)
	highBins := be.binsInRange(stft, HighLowHz, HighHighHz)

	for t := 0; t < stft.TimeFrames; t++ {
		result.Bass[t] = meanOverBins(stft.Magnitude[t], bassBins)
		result.Mid[t] = meanOverBins(stft.Magnitude[t], midBins)
		result.High[t] = meanOverBins(stft.Magnitude[t], highBins)
	}

	return result
}

// binsInRange returns the indices of frequency bins within [lowHz, highHz]
func (be *BandEnergy) binsInRange(stft *STFTResult, lowHz, highHz float64) []int {
	var bins []int
	for f := 0; f < stft.FreqBins; f++ {
		freq := stft.BinFrequency(f)
		if freq >= lowHz && freq <= highHz {
			bins = append(bins, f)
		}
	}
	return bins
}

func meanOverBins(spectrum []float64, bins []int) float64 {
	if len(bins) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, f := range bins {
		sum += spectrum[f]
	}
	return sum / float64(len(bins))
}
