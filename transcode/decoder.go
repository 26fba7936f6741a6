package transcode

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/cuetrack/cuetrack/logging"
)

// ErrBackendUnavailable indicates the ffmpeg/ffprobe binaries required for
// decoding could not be found. The wrapped message carries an install hint.
var ErrBackendUnavailable = errors.New("decoding backend unavailable")

// ErrSourceLoad indicates the input path could not be decoded into a waveform
// (missing file, unsupported or corrupt format).
var ErrSourceLoad = errors.New("audio source load failed")

// Waveform holds decoded mono audio samples
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the waveform length in seconds
func (w *Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	FFmpegPath  string        `json:"ffmpeg_path"`
	FFprobePath string        `json:"ffprobe_path"`
	Timeout     time.Duration `json:"timeout"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Timeout:     120 * time.Second,
	}
}

// Decoder decodes audio files into mono waveforms using FFmpeg
type Decoder struct {
	config *DecoderConfig
}

// sourceInfo holds detected audio properties from FFprobe
type sourceInfo struct {
	SampleRate int
	Channels   int
	Codec      string
	Duration   float64
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// The backend check runs once per process. It carries no request state, so
// the result is safe to share across concurrent DecodeFile calls.
var (
	backendOnce sync.Once
	backendErr  error
)

func (d *Decoder) ensureBackend() error {
	backendOnce.Do(func() {
		for _, bin := range []string{d.config.FFmpegPath, d.config.FFprobePath} {
			if _, err := exec.LookPath(bin); err != nil {
				backendErr = fmt.Errorf("%w: %s not found in PATH, install ffmpeg (e.g. apt install ffmpeg or brew install ffmpeg)",
					ErrBackendUnavailable, bin)
				return
			}
		}
	})
	return backendErr
}

// DecodeFile decodes an audio file into a mono waveform at its native sample
// rate. Multi-channel sources are downmixed by FFmpeg.
func (d *Decoder) DecodeFile(path string) (*Waveform, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "decoder",
		"path":      path,
	})

	if err := d.ensureBackend(); err != nil {
		logger.Error(err, "Decoding backend unavailable")
		return nil, err
	}

	info, err := d.probeFile(path)
	if err != nil {
		logger.Error(err, "Failed to probe audio file")
		return nil, err
	}

	logger.Debug("Audio source probed", logging.Fields{
		"sample_rate": info.SampleRate,
		"channels":    info.Channels,
		"codec":       info.Codec,
		"duration":    info.Duration,
	})

	ctx, cancel := context.WithTimeout(context.Background(), d.config.Timeout)
	defer cancel()

	args := buildFFmpegArgs(path, info.SampleRate)
	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: ffmpeg decode failed: %s", ErrSourceLoad, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("%w: ffmpeg decode failed: %v", ErrSourceLoad, err)
	}

	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no audio samples decoded", ErrSourceLoad)
	}

	waveform := &Waveform{
		Samples:    samples,
		SampleRate: info.SampleRate,
	}

	logger.Debug("Audio file decoded", logging.Fields{
		"samples":  len(samples),
		"duration": waveform.Duration(),
	})

	return waveform, nil
}

// buildFFmpegArgs builds the ffmpeg arguments for mono f64le output at the
// source sample rate
func buildFFmpegArgs(path string, sampleRate int) []string {
	return []string{
		"-v", "error",
		"-i", path,
		"-vn",
		"-f", "f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"pipe:1",
	}
}

// probeFile uses ffprobe to read stream properties before decoding
func (d *Decoder) probeFile(path string) (*sourceInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.Timeout)
	defer cancel()

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		path,
	}

	cmd := exec.CommandContext(ctx, d.config.FFprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: ffprobe failed: %s", ErrSourceLoad, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("%w: ffprobe failed: %v", ErrSourceLoad, err)
	}

	return parseFFprobeOutput(output)
}

// parseFFprobeOutput parses ffprobe JSON to extract audio stream properties
func parseFFprobeOutput(jsonData []byte) (*sourceInfo, error) {
	var probe struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
			Duration   string `json:"duration"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("%w: failed to parse ffprobe output: %v", ErrSourceLoad, err)
	}

	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("%w: no audio streams found", ErrSourceLoad)
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("%w: stream is not audio type: %s", ErrSourceLoad, stream.CodecType)
	}

	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: invalid sample rate %q", ErrSourceLoad, stream.SampleRate)
	}

	duration, err := strconv.ParseFloat(stream.Duration, 64)
	if err != nil {
		duration = 0
	}

	return &sourceInfo{
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		Codec:      stream.CodecName,
		Duration:   duration,
	}, nil
}

// bytesToFloat64 converts raw f64le bytes to []float64
func bytesToFloat64(data []byte) []float64 {
	if len(data)%8 != 0 {
		// Trim to multiple of 8 bytes
		data = data[:len(data)-(len(data)%8)]
	}

	if len(data) == 0 {
		return nil
	}

	sampleCount := len(data) / 8
	samples := make([]float64, sampleCount)

	for i := 0; i < sampleCount; i++ {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}

	return samples
}
