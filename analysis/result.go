package analysis

import (
	"encoding/json"
	"fmt"
	"os"
)

// TempoInfo holds the whole-track tempo estimate
type TempoInfo struct {
	BPM       float64   `json:"bpm"`
	BeatTimes []float64 `json:"beat_times"`
	BeatCount int       `json:"beat_count"`
}

// Section is one contiguous structural region of the track
type Section struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label"`
}

// AnimationEvents groups the timestamp lists consumed by downstream
// animation triggers. All lists are sorted ascending and bounded within
// the track duration.
type AnimationEvents struct {
	Beats       []float64 `json:"beats"`
	Sections    []Section `json:"sections"`
	Onsets      []float64 `json:"onsets"`
	EnergyPeaks []float64 `json:"energy_peaks"`
}

// FrequencyBands holds the three per-frame energy curves. All four slices
// share identical length, one value per analysis frame.
type FrequencyBands struct {
	Times      []float64 `json:"times"`
	BassEnergy []float64 `json:"bass_energy"`
	MidEnergy  []float64 `json:"mid_energy"`
	HighEnergy []float64 `json:"high_energy"`
}

// AnalysisResult is the complete serializable output of one analysis run
type AnalysisResult struct {
	Duration        float64         `json:"duration"`
	SampleRate      int             `json:"sample_rate"`
	Tempo           TempoInfo       `json:"tempo"`
	AnimationEvents AnimationEvents `json:"animation_events"`
	FrequencyBands  FrequencyBands  `json:"frequency_bands"`
}

// SaveAnalysis writes the result as indented JSON, overwriting any existing
// file at path
func SaveAnalysis(result *AnalysisResult, path string) error {
	if result == nil {
		return fmt.Errorf("cannot save nil analysis result")
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write analysis result to %s: %w", path, err)
	}

	return nil
}

// LoadAnalysis reads a previously saved analysis result
func LoadAnalysis(path string) (*AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis file %s: %w", path, err)
	}

	var result AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse analysis file %s: %w", path, err)
	}

	return &result, nil
}
