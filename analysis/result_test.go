package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleResult() *AnalysisResult {
	return &AnalysisResult{
		Duration:   60.0,
		SampleRate: 44100,
		Tempo: TempoInfo{
			BPM:       128.0,
			BeatTimes: []float64{0.5, 0.96875, 1.4375},
			BeatCount: 3,
		},
		AnimationEvents: AnimationEvents{
			Beats:       []float64{0.5},
			Sections:    []Section{{Start: 0.0, End: 30.0, Label: "section_1"}, {Start: 30.0, End: 60.0, Label: "section_2"}},
			Onsets:      []float64{0.5, 3.2, 7.8},
			EnergyPeaks: []float64{1.1, 14.5},
		},
		FrequencyBands: FrequencyBands{
			Times:      []float64{0.046, 0.069},
			BassEnergy: []float64{0.8, 0.2},
			MidEnergy:  []float64{0.1, 0.5},
			HighEnergy: []float64{0.05, 0.07},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	original := sampleResult()

	if err := SaveAnalysis(original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadAnalysis(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(original, loaded) {
		t.Errorf("Round trip not lossless:\noriginal: %+v\nloaded:   %+v", original, loaded)
	}
}

func TestSaveTopLevelKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	if err := SaveAnalysis(sampleResult(), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	want := []string{"duration", "sample_rate", "tempo", "animation_events", "frequency_bands"}
	if len(doc) != len(want) {
		t.Errorf("Expected %d top-level keys, got %d", len(want), len(doc))
	}
	for _, key := range want {
		if _, ok := doc[key]; !ok {
			t.Errorf("Missing top-level key %q", key)
		}
	}
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	if err := SaveAnalysis(sampleResult(), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadAnalysis(path)
	if err != nil {
		t.Fatalf("Load after overwrite failed: %v", err)
	}
	if loaded.SampleRate != 44100 {
		t.Errorf("Expected overwritten content, got sample rate %d", loaded.SampleRate)
	}
}

func TestSaveNilResult(t *testing.T) {
	if err := SaveAnalysis(nil, filepath.Join(t.TempDir(), "x.json")); err == nil {
		t.Error("Expected error saving nil result")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadAnalysis(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error loading missing file")
	}
}
