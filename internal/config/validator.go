package config

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/erparts/billboard/player"
)

// Presentation backends
const (
	BackendSDL    = "sdl"
	BackendEbiten = "ebiten"
)

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {
	if cfg.File == "" {
		return fmt.Errorf("file is required")
	}

	switch cfg.Window.Backend {
	case BackendSDL, BackendEbiten:
	case "":
		cfg.Window.Backend = BackendSDL
	default:
		return fmt.Errorf("window.backend must be %q or %q, got %q", BackendSDL, BackendEbiten, cfg.Window.Backend)
	}

	if cfg.StatusIntervalS <= 0 {
		return fmt.Errorf("status_interval_s must be > 0")
	}

	if err := ValidatePlayback(cfg.Playback); err != nil {
		return fmt.Errorf("playback validation failed: %w", err)
	}

	pause, err := player.ParseKey(cfg.Keys.Pause)
	if err != nil {
		return fmt.Errorf("keys.pause: %w", err)
	}
	quit, err := player.ParseKey(cfg.Keys.Quit)
	if err != nil {
		return fmt.Errorf("keys.quit: %w", err)
	}
	if pause == quit {
		return fmt.Errorf("keys.pause and keys.quit must differ, both are %q", pause)
	}

	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}

	if cfg.Observer.DigestEvery < 0 {
		return fmt.Errorf("observer.digest_every must be >= 0")
	}

	return nil
}

// ValidatePlayback checks the pipeline settings
func ValidatePlayback(p PlaybackConfig) error {
	if p.QueueCapacity <= 0 {
		return fmt.Errorf("queue_capacity must be > 0, got %d", p.QueueCapacity)
	}
	if p.RenderIntervalMS <= 0 {
		return fmt.Errorf("render_interval_ms must be > 0, got %d", p.RenderIntervalMS)
	}
	if p.DequeueTimeoutMS <= 0 {
		return fmt.Errorf("dequeue_timeout_ms must be > 0, got %d", p.DequeueTimeoutMS)
	}
	if p.PausePollMS <= 0 {
		return fmt.Errorf("pause_poll_ms must be > 0, got %d", p.PausePollMS)
	}

	return nil
}
