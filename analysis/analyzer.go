package analysis

import (
	"fmt"

	"github.com/cuetrack/cuetrack/algorithms/chroma"
	"github.com/cuetrack/cuetrack/algorithms/spectral"
	"github.com/cuetrack/cuetrack/algorithms/stats"
	"github.com/cuetrack/cuetrack/algorithms/temporal"
	"github.com/cuetrack/cuetrack/algorithms/windowing"
	"github.com/cuetrack/cuetrack/logging"
	"github.com/cuetrack/cuetrack/transcode"
)

// Internal analysis constants. Band edges, cluster count and peak thresholds
// are fixed, only Params is exposed to callers.
const (
	windowSize = 2048
	hopSize    = 512

	maxSections       = 10
	mfccCoefficients  = 13
	contrastBands     = 6
	peakPercentile    = 0.75
	peakMinSpacingSec = 2.0
)

// WaveformSource decodes an audio file into samples plus sample rate.
// transcode.Decoder is the production implementation.
type WaveformSource interface {
	DecodeFile(path string) (*transcode.Waveform, error)
}

// Params holds the two user-facing analysis parameters
type Params struct {
	// BeatDivision keeps every N-th beat in the animation trigger list
	BeatDivision int

	// MinOnsetInterval is the minimum spacing between kept onsets, seconds
	MinOnsetInterval float64
}

// DefaultParams returns the standard analysis parameters
func DefaultParams() Params {
	return Params{
		BeatDivision:     8,
		MinOnsetInterval: 2.0,
	}
}

// Validate checks parameter ranges
func (p Params) Validate() error {
	if p.BeatDivision < 1 {
		return fmt.Errorf("beat division must be >= 1, got %d", p.BeatDivision)
	}
	if p.MinOnsetInterval <= 0 {
		return fmt.Errorf("minimum onset interval must be positive, got %f", p.MinOnsetInterval)
	}
	return nil
}

// Analyzer runs the full analysis pipeline: tempo, onsets, structural
// sections, band energies and bass impact peaks, assembled into one
// AnalysisResult. An Analyzer is stateless across calls and safe for
// concurrent use.
type Analyzer struct {
	source WaveformSource
	logger logging.Logger
}

// NewAnalyzer creates an analyzer backed by the FFmpeg decoder
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithSource(transcode.NewDecoder(nil))
}

// NewAnalyzerWithSource creates an analyzer with a custom waveform source
func NewAnalyzerWithSource(source WaveformSource) *Analyzer {
	return &Analyzer{
		source: source,
		logger: logging.WithFields(logging.Fields{"component": "analyzer"}),
	}
}

// Analyze decodes the file at path and analyzes the resulting waveform.
// Decoding errors and stage failures abort the whole call, no partial
// results are returned.
func (a *Analyzer) Analyze(path string, params Params) (*AnalysisResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	a.logger.Info("Starting audio analysis", logging.Fields{
		"path":               path,
		"beat_division":      params.BeatDivision,
		"min_onset_interval": params.MinOnsetInterval,
	})

	waveform, err := a.source.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	return a.AnalyzeWaveform(waveform, params)
}

// AnalyzeWaveform analyzes an already decoded waveform. Signals too short
// for a single analysis frame yield a valid result with empty event lists.
func (a *Analyzer) AnalyzeWaveform(waveform *transcode.Waveform, params Params) (*AnalysisResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if waveform == nil || waveform.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid waveform")
	}

	duration := waveform.Duration()

	if len(waveform.Samples) < windowSize {
		a.logger.Warn("Waveform shorter than one analysis frame", logging.Fields{
			"samples":  len(waveform.Samples),
			"duration": duration,
		})
		return degenerateResult(waveform), nil
	}

	stft, err := spectral.NewSTFT().ComputeWithWindow(
		waveform.Samples, windowSize, hopSize, waveform.SampleRate,
		windowing.NewHann(windowSize, false))
	if err != nil {
		return nil, fmt.Errorf("spectral transform failed: %w", err)
	}

	a.logger.Debug("Spectrogram computed", logging.Fields{
		"frames": stft.TimeFrames,
		"bins":   stft.FreqBins,
	})

	bpm, beatTimes := temporal.NewBeatTracker().Track(stft)
	a.logger.Debug("Tempo estimated", logging.Fields{
		"bpm":   bpm,
		"beats": len(beatTimes),
	})

	rawOnsets := temporal.NewOnsetDetector().Detect(stft)
	onsets := filterOnsets(rawOnsets, params.MinOnsetInterval)
	a.logger.Debug("Onsets detected", logging.Fields{
		"raw":  len(rawOnsets),
		"kept": len(onsets),
	})

	sections, err := a.segmentSections(stft, duration)
	if err != nil {
		return nil, fmt.Errorf("structural segmentation failed: %w", err)
	}
	a.logger.Debug("Structural sections found", logging.Fields{
		"sections": len(sections),
	})

	bands := spectral.NewBandEnergy().Compute(stft)
	peaks := findEnergyPeaks(bands.Times, bands.Bass, duration)
	a.logger.Debug("Band energies computed", logging.Fields{
		"frames":       len(bands.Times),
		"energy_peaks": len(peaks),
	})

	result := &AnalysisResult{
		Duration:   duration,
		SampleRate: waveform.SampleRate,
		Tempo: TempoInfo{
			BPM:       bpm,
			BeatTimes: nonNil(beatTimes),
			BeatCount: len(beatTimes),
		},
		AnimationEvents: AnimationEvents{
			Beats:       subsampleBeats(beatTimes, params.BeatDivision),
			Sections:    sections,
			Onsets:      nonNil(onsets),
			EnergyPeaks: nonNil(peaks),
		},
		FrequencyBands: FrequencyBands{
			Times:      nonNil(bands.Times),
			BassEnergy: nonNil(bands.Bass),
			MidEnergy:  nonNil(bands.Mid),
			HighEnergy: nonNil(bands.High),
		},
	}

	a.logger.Info("Audio analysis complete", logging.Fields{
		"duration":     duration,
		"bpm":          bpm,
		"beats":        len(result.AnimationEvents.Beats),
		"onsets":       len(result.AnimationEvents.Onsets),
		"sections":     len(result.AnimationEvents.Sections),
		"energy_peaks": len(result.AnimationEvents.EnergyPeaks),
	})

	return result, nil
}

// segmentSections clusters per-frame chroma, MFCC and spectral contrast
// features into contiguous segments and converts them to labeled sections.
// Boundary timestamps use frame start times so the first section begins at
// zero; the track end closes the last section.
func (a *Analyzer) segmentSections(stft *spectral.STFTResult, duration float64) ([]Section, error) {
	features, err := buildSegmentationFeatures(stft)
	if err != nil {
		return nil, err
	}

	starts := stats.NewSegmenter().Boundaries(features, maxSections)
	if len(starts) == 0 {
		return []Section{}, nil
	}

	boundaries := make([]float64, 0, len(starts)+1)
	for _, frame := range starts {
		boundaries = append(boundaries, float64(frame)*stft.TimeResolution)
	}
	boundaries = append(boundaries, duration)

	return boundariesToSections(boundaries), nil
}

// buildSegmentationFeatures stacks chroma, MFCC and spectral contrast into
// one feature vector per frame
func buildSegmentationFeatures(stft *spectral.STFTResult) ([][]float64, error) {
	chromagram := chroma.NewChroma().FromSTFT(stft)

	mfccFrames, err := spectral.NewMFCC(stft.SampleRate, mfccCoefficients).ComputeFrames(stft.Magnitude)
	if err != nil {
		return nil, err
	}

	contrastFrames := spectral.NewSpectralContrast(stft.SampleRate, contrastBands).ComputeFrames(stft.Magnitude)

	features := make([][]float64, stft.TimeFrames)
	for t := 0; t < stft.TimeFrames; t++ {
		vector := make([]float64, 0, len(chromagram[t])+len(mfccFrames[t])+len(contrastFrames[t]))
		vector = append(vector, chromagram[t]...)
		vector = append(vector, mfccFrames[t]...)
		vector = append(vector, contrastFrames[t]...)
		features[t] = vector
	}

	return features, nil
}

// degenerateResult builds a valid empty result for inputs too short to
// analyze
func degenerateResult(waveform *transcode.Waveform) *AnalysisResult {
	return &AnalysisResult{
		Duration:   waveform.Duration(),
		SampleRate: waveform.SampleRate,
		Tempo: TempoInfo{
			BPM:       0,
			BeatTimes: []float64{},
			BeatCount: 0,
		},
		AnimationEvents: AnimationEvents{
			Beats:       []float64{},
			Sections:    []Section{},
			Onsets:      []float64{},
			EnergyPeaks: []float64{},
		},
		FrequencyBands: FrequencyBands{
			Times:      []float64{},
			BassEnergy: []float64{},
			MidEnergy:  []float64{},
			HighEnergy: []float64{},
		},
	}
}

// nonNil normalizes nil slices to empty so the JSON output always carries
// arrays, keeping save/load round-trips lossless
func nonNil(s []float64) []float64 {
	if s == nil {
		return []float64{}
	}
	return s
}
