package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/silbinarywolf/preferdiscretegpu"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/erparts/billboard"
	"github.com/erparts/billboard/internal/config"
	"github.com/erparts/billboard/player"
	"github.com/erparts/billboard/surface/ebitensurface"
	"github.com/erparts/billboard/surface/sdlsurface"
)

// livenessPoll is how often main checks whether playback ended.
const livenessPoll = 100 * time.Millisecond

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	file := flag.String("file", "", "Media file or URL to play")
	inputFormat := flag.String("input-format", "", "Force a demuxer or capture device, e.g. v4l2")
	backend := flag.String("backend", "", "Presentation backend: sdl or ebiten")
	logLevel := flag.String("log-level", "", "Log level: trace, debug, info, warn, error")
	digestEvery := flag.Int("digest-every", -1, "Log a frame digest every N frames, 0 disables")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logrus.WithError(err).Fatal("Cannot load configuration")
		}
		cfg = loaded
	}

	if *file != "" {
		cfg.File = *file
	} else if flag.NArg() > 0 {
		cfg.File = flag.Arg(0)
	}
	if *inputFormat != "" {
		cfg.InputFormat = *inputFormat
	}
	if *backend != "" {
		cfg.Window.Backend = *backend
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *digestEvery >= 0 {
		cfg.Observer.DigestEvery = *digestEvery
	}

	if err := config.Validate(cfg); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	log := newLogger(cfg.Log)

	code := 0
	switch cfg.Window.Backend {
	case config.BackendEbiten:
		display := ebitensurface.NewDisplay(640, 480, log)
		done := make(chan int, 1)
		go func() {
			defer display.Shutdown()
			done <- run(cfg, display.Factory(), log)
		}()

		if err := display.Run(cfg.Window.Title); err != nil {
			log.WithError(err).Error("Display failed")
		}
		code = <-done

	default:
		sdl.Main(func() {
			code = run(cfg, sdlsurface.Factory(log), log)
		})
	}

	os.Exit(code)
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	// libav stays quiet unless the player is debugging.
	if level >= logrus.DebugLevel {
		billboard.SetLogLevel(level)
	} else {
		billboard.SetLogLevel(logrus.ErrorLevel)
	}

	return log
}

type input int

const (
	inputFile input = iota
	inputNetwork
	// inputDevice is a capture device or a forced demuxer. It is passed
	// through untouched.
	inputDevice
)

func inputKind(cfg *config.Config) input {
	switch {
	case billboard.IsNetworkURL(cfg.File):
		return inputNetwork
	case cfg.InputFormat != "":
		return inputDevice
	default:
		return inputFile
	}
}

// run plays cfg.File until playback stops and the window is closed,
// and returns the process exit code.
func run(cfg *config.Config, surfaces player.SurfaceFactory, log *logrus.Logger) int {
	entry := log.WithFields(logrus.Fields{
		"function": "run",
		"file":     cfg.File,
	})

	switch inputKind(cfg) {
	case inputNetwork:
		if err := billboard.NetworkInitialize(); err != nil {
			entry.WithError(err).Error("Cannot initialize network")
			return 1
		}
		defer billboard.NetworkDeinitialize()
	case inputFile:
		if err := ensureClip(cfg.File, cfg.GenerateTestClip, log); err != nil {
			entry.WithError(err).Error("No video to play")
			return 1
		}
	}

	// ParseKey cannot fail after config.Validate.
	pauseKey, _ := player.ParseKey(cfg.Keys.Pause)
	quitKey, _ := player.ParseKey(cfg.Keys.Quit)

	ctrl, err := player.NewController(player.Options{
		Open:           billboard.Opener(billboard.Options{InputFormat: cfg.InputFormat}),
		NewSurface:     surfaces,
		Title:          cfg.Window.Title,
		QueueCapacity:  cfg.Playback.QueueCapacity,
		RenderInterval: cfg.Playback.RenderInterval(),
		DequeueTimeout: cfg.Playback.DequeueTimeout(),
		PausePoll:      cfg.Playback.PausePoll(),
		PauseKey:       pauseKey,
		QuitKey:        quitKey,
		Logger:         log,
	})
	if err != nil {
		entry.WithError(err).Error("Cannot create controller")
		return 1
	}
	defer ctrl.Close()

	if cfg.Observer.DigestEvery > 0 {
		ctrl.SetFrameObserver(newDigestObserver(cfg.Observer.DigestEvery, log).Observe)
	}

	if err := ctrl.Load(cfg.File); err != nil {
		entry.WithError(err).Error("Failed to load video")
		return 1
	}

	entry.WithFields(logrus.Fields{
		"pause": pauseKey,
		"quit":  quitKey,
	}).Info("Controls")

	if err := ctrl.Play(); err != nil {
		entry.WithError(err).Error("Failed to start playback")
		return 1
	}

	waitForEnd(ctrl, cfg.StatusInterval(), entry)

	stats := ctrl.Stats()
	entry.WithFields(logrus.Fields{
		"decoded":  stats.FramesDecoded,
		"rendered": stats.FramesRendered,
		"dropped":  stats.Queue.Dropped,
	}).Info("Playback finished")

	return 0
}

// waitForEnd reports status every interval until playback has stopped
// and the surface is closed. SIGINT and SIGTERM stop playback.
func waitForEnd(ctrl *player.Controller, interval time.Duration, log *logrus.Entry) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	poll := time.NewTicker(livenessPoll)
	defer poll.Stop()
	status := time.NewTicker(interval)
	defer status.Stop()

	for ctrl.IsPlaying() || ctrl.IsSurfaceOpen() {
		select {
		case sig := <-sigChan:
			log.WithField("signal", sig).Info("Received shutdown signal")
			ctrl.Stop()

		case <-status.C:
			log.WithFields(logrus.Fields{
				"state":       ctrl.State(),
				"playing":     ctrl.IsPlaying(),
				"paused":      ctrl.IsPaused(),
				"position_ms": ctrl.CurrentPositionMS(),
				"duration_ms": ctrl.DurationMS(),
				"queued":      ctrl.QueueLen(),
			}).Info("Status")

		case <-poll.C:
		}
	}
}
