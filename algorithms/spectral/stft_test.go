package spectral

import (
	"math"
	"testing"

	"github.com/cuetrack/cuetrack/algorithms/windowing"
)

func sineWave(freq float64, sampleRate, length int) []float64 {
	signal := make([]float64, length)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return signal
}

func TestComputeWithWindowFrameCount(t *testing.T) {
	sampleRate := 22050
	signal := sineWave(440, sampleRate, sampleRate) // 1 second

	stft := NewSTFT()
	result, err := stft.ComputeWithWindow(signal, 2048, 512, sampleRate, windowing.NewHann(2048, false))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	wantFrames := (len(signal)-2048)/512 + 1
	if result.TimeFrames != wantFrames {
		t.Errorf("Expected %d frames, got %d", wantFrames, result.TimeFrames)
	}
	if result.FreqBins != 2048/2+1 {
		t.Errorf("Expected %d bins, got %d", 2048/2+1, result.FreqBins)
	}
	if len(result.Magnitude) != wantFrames {
		t.Errorf("Magnitude rows %d != frames %d", len(result.Magnitude), wantFrames)
	}
}

func TestComputeWithWindowTonePeak(t *testing.T) {
	sampleRate := 22050
	freq := 440.0
	signal := sineWave(freq, sampleRate, sampleRate)

	stft := NewSTFT()
	result, err := stft.ComputeWithWindow(signal, 2048, 512, sampleRate, windowing.NewHann(2048, false))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The strongest bin of a mid-track frame should sit at the tone frequency
	frame := result.Magnitude[result.TimeFrames/2]
	maxBin := 0
	for f, mag := range frame {
		if mag > frame[maxBin] {
			maxBin = f
		}
	}

	gotFreq := result.BinFrequency(maxBin)
	if math.Abs(gotFreq-freq) > result.FreqResolution {
		t.Errorf("Expected peak near %f Hz, got %f Hz", freq, gotFreq)
	}
}

func TestComputeWithWindowErrors(t *testing.T) {
	stft := NewSTFT()

	if _, err := stft.ComputeWithWindow(nil, 2048, 512, 22050, nil); err == nil {
		t.Error("Expected error for empty signal")
	}
	if _, err := stft.ComputeWithWindow(make([]float64, 100), 2048, 512, 22050, nil); err == nil {
		t.Error("Expected error for signal shorter than window")
	}
	if _, err := stft.ComputeWithWindow(make([]float64, 4096), 0, 512, 22050, nil); err == nil {
		t.Error("Expected error for zero window size")
	}
	if _, err := stft.ComputeWithWindow(make([]float64, 4096), 2048, 0, 22050, nil); err == nil {
		t.Error("Expected error for zero hop size")
	}
}

func TestFrameTimesMonotonic(t *testing.T) {
	result := &STFTResult{
		TimeFrames: 10,
		SampleRate: 22050,
		WindowSize: 2048,
		HopSize:    512,
	}

	times := result.FrameTimes()
	if len(times) != 10 {
		t.Fatalf("Expected 10 times, got %d", len(times))
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Errorf("Times not strictly increasing at %d: %f <= %f", i, times[i], times[i-1])
		}
	}

	// Evenly spaced by hop duration
	hop := 512.0 / 22050.0
	for i := 1; i < len(times); i++ {
		if math.Abs((times[i]-times[i-1])-hop) > 1e-12 {
			t.Errorf("Uneven frame spacing at %d", i)
		}
	}
}

func TestBandEnergyLengthInvariant(t *testing.T) {
	sampleRate := 22050
	signal := sineWave(100, sampleRate, sampleRate)

	stft := NewSTFT()
	result, err := stft.ComputeWithWindow(signal, 2048, 512, sampleRate, windowing.NewHann(2048, false))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	bands := NewBandEnergy().Compute(result)
	n := len(bands.Times)
	if n != result.TimeFrames {
		t.Errorf("Expected %d frames, got %d", result.TimeFrames, n)
	}
	if len(bands.Bass) != n || len(bands.Mid) != n || len(bands.High) != n {
		t.Errorf("Band curve lengths differ: times=%d bass=%d mid=%d high=%d",
			n, len(bands.Bass), len(bands.Mid), len(bands.High))
	}
}

func TestBandEnergySelectivity(t *testing.T) {
	sampleRate := 22050
	be := NewBandEnergy()
	stft := NewSTFT()

	cases := []struct {
		name string
		freq float64
		pick func(*BandEnergyResult, int) float64
	}{
		{"bass", 100, func(r *BandEnergyResult, t int) float64 { return r.Bass[t] }},
		{"mid", 1000, func(r *BandEnergyResult, t int) float64 { return r.Mid[t] }},
		{"high", 8000, func(r *BandEnergyResult, t int) float64 { return r.High[t] }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signal := sineWave(tc.freq, sampleRate, sampleRate)
			result, err := stft.ComputeWithWindow(signal, 2048, 512, sampleRate, windowing.NewHann(2048, false))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			bands := be.Compute(result)
			mid := result.TimeFrames / 2
			got := tc.pick(bands, mid)
			others := bands.Bass[mid] + bands.Mid[mid] + bands.High[mid] - got

			if got <= others {
				t.Errorf("Expected %s band to dominate for %f Hz tone: got %f vs others %f",
					tc.name, tc.freq, got, others)
			}
		})
	}
}

func TestMFCCFrameShape(t *testing.T) {
	sampleRate := 22050
	signal := sineWave(440, sampleRate, sampleRate/2)

	stft := NewSTFT()
	result, err := stft.ComputeWithWindow(signal, 2048, 512, sampleRate, windowing.NewHann(2048, false))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	mfcc := NewMFCC(sampleRate, 13)
	frames, err := mfcc.ComputeFrames(result.Magnitude)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(frames) != result.TimeFrames {
		t.Errorf("Expected %d MFCC frames, got %d", result.TimeFrames, len(frames))
	}
	for t2, frame := range frames {
		if len(frame) != 13 {
			t.Fatalf("Frame %d: expected 13 coefficients, got %d", t2, len(frame))
		}
	}
}

func TestSpectralContrastFrameShape(t *testing.T) {
	sampleRate := 22050
	signal := sineWave(440, sampleRate, sampleRate/2)

	stft := NewSTFT()
	result, err := stft.ComputeWithWindow(signal, 2048, 512, sampleRate, windowing.NewHann(2048, false))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sc := NewSpectralContrast(sampleRate, 6)
	frames := sc.ComputeFrames(result.Magnitude)

	if len(frames) != result.TimeFrames {
		t.Errorf("Expected %d contrast frames, got %d", result.TimeFrames, len(frames))
	}
	for t2, frame := range frames {
		if len(frame) != 6 {
			t.Fatalf("Frame %d: expected 6 bands, got %d", t2, len(frame))
		}
	}
}
