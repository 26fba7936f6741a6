package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultOutputPath(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"track.mp3", "track_analysis.json"},
		{"/music/set.flac", "/music/set_analysis.json"},
		{"noext", "noext_analysis.json"},
		{"a.b.wav", "a.b_analysis.json"},
	}

	for _, tc := range cases {
		if got := defaultOutputPath(tc.input); got != tc.want {
			t.Errorf("defaultOutputPath(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestAnalyzeCommandMissingInput(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"analyze", filepath.Join(t.TempDir(), "missing.wav")})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected error for missing input file")
	}
	if !strings.Contains(err.Error(), "file does not exist") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestAnalyzeCommandStatError(t *testing.T) {
	// A name longer than the filesystem allows fails stat with an error
	// other than not-exist
	overlong := filepath.Join(t.TempDir(), strings.Repeat("a", 300)+".wav")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"analyze", overlong})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected error for unreachable input path")
	}
	if !strings.Contains(err.Error(), "stat input file") {
		t.Errorf("Unexpected error message: %v", err)
	}
}
