package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/videodedup/video"
)

// Config holds all application configuration
type Config struct {
	// Detection settings
	Workers             int     `yaml:"workers"`
	FrameCount          int     `yaml:"frame_count"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// Decoder settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Timeouts, in seconds
	ProbeTimeoutSecs   int `yaml:"probe_timeout_secs"`
	ExtractTimeoutSecs int `yaml:"extract_timeout_secs"`
	AudioTimeoutSecs   int `yaml:"audio_timeout_secs"`

	// Audio fingerprint prefix length, in seconds
	AudioSampleSecs int `yaml:"audio_sample_secs"`

	// Feature cache store file
	CacheFile string `yaml:"cache_file"`
}

type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// Load reads configuration from file or returns defaults. A missing file
// is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.SimilarityThreshold = video.ClampThreshold(cfg.SimilarityThreshold)

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Workers:             video.DefaultWorkers,
		FrameCount:          video.DefaultFrameCount,
		SimilarityThreshold: video.DefaultThreshold,
		FFmpeg: FFmpegConfig{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
		ProbeTimeoutSecs:   int(video.DefaultProbeTimeout / time.Second),
		ExtractTimeoutSecs: int(video.DefaultExtractTimeout / time.Second),
		AudioTimeoutSecs:   int(video.DefaultAudioTimeout / time.Second),
		AudioSampleSecs:    video.DefaultAudioSeconds,
		CacheFile:          "video_cache.json",
	}
}

// ProbeTimeout returns the probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSecs) * time.Second
}

// ExtractTimeout returns the frame extraction timeout as a duration.
func (c *Config) ExtractTimeout() time.Duration {
	return time.Duration(c.ExtractTimeoutSecs) * time.Second
}

// AudioTimeout returns the audio extraction timeout as a duration.
func (c *Config) AudioTimeout() time.Duration {
	return time.Duration(c.AudioTimeoutSecs) * time.Second
}

func findConfigFile() string {
	candidates := []string{
		"./videodedup.yaml",
		"./videodedup.yml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".videodedup", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
