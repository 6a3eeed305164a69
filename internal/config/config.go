package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete player configuration
type Config struct {
	File             string         `yaml:"file"`               // media file or URL
	InputFormat      string         `yaml:"input_format"`       // forced demuxer or capture device, e.g. v4l2
	GenerateTestClip bool           `yaml:"generate_test_clip"` // create the file with ffmpeg when missing
	StatusIntervalS  int            `yaml:"status_interval_s"`  // seconds between status lines
	Window           WindowConfig   `yaml:"window"`
	Playback         PlaybackConfig `yaml:"playback"`
	Keys             KeysConfig     `yaml:"keys"`
	Log              LogConfig      `yaml:"log"`
	Observer         ObserverConfig `yaml:"observer"`
}

// WindowConfig contains presentation settings
type WindowConfig struct {
	Title   string `yaml:"title"`
	Backend string `yaml:"backend"` // sdl, ebiten
}

// PlaybackConfig contains pipeline settings
type PlaybackConfig struct {
	QueueCapacity    int `yaml:"queue_capacity"`
	RenderIntervalMS int `yaml:"render_interval_ms"`
	DequeueTimeoutMS int `yaml:"dequeue_timeout_ms"`
	PausePollMS      int `yaml:"pause_poll_ms"`
}

// KeysConfig names the control keys
type KeysConfig struct {
	Pause string `yaml:"pause"`
	Quit  string `yaml:"quit"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// ObserverConfig configures the frame digest tap
type ObserverConfig struct {
	DigestEvery int `yaml:"digest_every"` // 0 disables it
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		File:             "test.mp4",
		GenerateTestClip: true,
		StatusIntervalS:  5,
		Window: WindowConfig{
			Title:   "Video Player",
			Backend: BackendSDL,
		},
		Playback: PlaybackConfig{
			QueueCapacity:    10,
			RenderIntervalMS: 16,
			DequeueTimeoutMS: 100,
			PausePollMS:      100,
		},
		Keys: KeysConfig{
			Pause: "space",
			Quit:  "escape",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML configuration file over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// StatusInterval returns the status period
func (c *Config) StatusInterval() time.Duration {
	return time.Duration(c.StatusIntervalS) * time.Second
}

// RenderInterval returns the presenter tick
func (p PlaybackConfig) RenderInterval() time.Duration {
	return time.Duration(p.RenderIntervalMS) * time.Millisecond
}

// DequeueTimeout returns the presenter wait bound
func (p PlaybackConfig) DequeueTimeout() time.Duration {
	return time.Duration(p.DequeueTimeoutMS) * time.Millisecond
}

// PausePoll returns the paused producer poll period
func (p PlaybackConfig) PausePoll() time.Duration {
	return time.Duration(p.PausePollMS) * time.Millisecond
}
