package player

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultQueueCapacity is the number of converted frames buffered
	// between the producer and the presenter.
	DefaultQueueCapacity = 10
	// DefaultRenderInterval is the presenter tick, about 60 Hz.
	DefaultRenderInterval = 16 * time.Millisecond
	// DefaultDequeueTimeout bounds how long the presenter waits for a frame.
	DefaultDequeueTimeout = 100 * time.Millisecond
	// DefaultPausePoll is how often a paused producer checks its flags.
	DefaultPausePoll = 100 * time.Millisecond
	// DefaultTitle is the window title used when Play creates the surface.
	DefaultTitle = "Video Player"
)

// Options configures a Controller.
type Options struct {
	// Open opens media files. Required.
	Open OpenFunc
	// NewSurface creates the presentation surface. Required.
	NewSurface SurfaceFactory

	// Title of the window created by Play.
	Title string

	QueueCapacity  int
	RenderInterval time.Duration
	DequeueTimeout time.Duration
	PausePoll      time.Duration

	// PauseKey toggles pause, QuitKey stops playback.
	PauseKey Key
	QuitKey  Key

	// Logger receives diagnostics. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// withDefaults returns a copy of the options with zero values replaced.
func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = DefaultQueueCapacity
	}
	if o.RenderInterval <= 0 {
		o.RenderInterval = DefaultRenderInterval
	}
	if o.DequeueTimeout <= 0 {
		o.DequeueTimeout = DefaultDequeueTimeout
	}
	if o.PausePoll <= 0 {
		o.PausePoll = DefaultPausePoll
	}
	if o.PauseKey == KeyUnknown {
		o.PauseKey = KeySpace
	}
	if o.QuitKey == KeyUnknown {
		o.QuitKey = KeyEscape
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}

	return o
}
