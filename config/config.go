package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Jobs     JobsConfig     `yaml:"jobs"`
	Provider ProviderConfig `yaml:"provider"`
	Frames   FramesConfig   `yaml:"frames"`
	Fallback FallbackConfig `yaml:"fallback"`
	Publish  PublishConfig  `yaml:"publish"`
	Research ResearchConfig `yaml:"research"`
	Server   ServerConfig   `yaml:"server"`
}

type JobsConfig struct {
	DefaultStyle       string  `yaml:"default_style"`
	DefaultClipSeconds float64 `yaml:"default_clip_seconds"`
	DefaultAspectRatio string  `yaml:"default_aspect_ratio"`
	DefaultMaxClips    int     `yaml:"default_max_clips"`
	RetainedFrames     int     `yaml:"retained_frames"`
}

type ProviderConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Resolution string `yaml:"resolution"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type FramesConfig struct {
	SeekSeconds float64 `yaml:"seek_seconds"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

type FallbackConfig struct {
	// CategoryAssets overrides the built-in category → stock asset
	// catalog. Keys must be known categories.
	CategoryAssets map[string]string `yaml:"category_assets"`
}

type PublishConfig struct {
	Enabled    bool   `yaml:"enabled"`
	FolderName string `yaml:"folder_name"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type ResearchConfig struct {
	Subreddits       []string `yaml:"subreddits"`
	LookbackPeriod   string   `yaml:"lookback_period"`
	MinScore         int      `yaml:"min_score"`
	MaxStoriesToEval int      `yaml:"max_stories_to_evaluate"`
	UsedStoriesLog   string   `yaml:"used_stories_log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the config used when no config.yaml is present
func Default() *Config {
	return &Config{
		Jobs: JobsConfig{
			DefaultStyle:       "cinematic",
			DefaultClipSeconds: 4,
			DefaultAspectRatio: "16:9",
			DefaultMaxClips:    15,
			RetainedFrames:     3,
		},
		Provider: ProviderConfig{
			Endpoint:   "https://video.pollinations.ai/generate",
			Resolution: "1280x720",
			TimeoutSec: 60,
		},
		Frames: FramesConfig{
			SeekSeconds: 1.0,
			TimeoutSec:  20,
		},
		Publish: PublishConfig{
			Enabled:    true,
			FolderName: "clipforge",
			TimeoutSec: 120,
		},
		Research: ResearchConfig{
			Subreddits:       []string{"shortscarystories", "nosleep"},
			LookbackPeriod:   "week",
			MinScore:         50,
			MaxStoriesToEval: 25,
			UsedStoriesLog:   "used_stories.json",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads config.yaml and returns a Config struct. A missing file
// is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Jobs.DefaultClipSeconds <= 0 {
		return fmt.Errorf("jobs.default_clip_seconds must be > 0")
	}
	if c.Jobs.DefaultMaxClips < 1 {
		return fmt.Errorf("jobs.default_max_clips must be >= 1")
	}
	if c.Jobs.RetainedFrames < 0 {
		return fmt.Errorf("jobs.retained_frames must be >= 0")
	}
	if c.Provider.TimeoutSec <= 0 {
		return fmt.Errorf("provider.timeout_sec must be > 0")
	}
	if c.Frames.TimeoutSec <= 0 {
		return fmt.Errorf("frames.timeout_sec must be > 0")
	}
	return nil
}
