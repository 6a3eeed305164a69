package player

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/erparts/billboard/yuv"
)

// present renders queued frames until stop is requested or the
// surface is closed.
func (c *Controller) present(s *session, surface Surface) {
	defer c.workerDone(s, "presenter")
	defer c.surfaceOpen.Store(false)

	log := c.log.WithFields(logrus.Fields{
		"function": "present",
		"session":  s.id,
	})
	log.Info("Presenter started")

	warned := false
	for !c.stopRequested.Load() && c.surfaceOpen.Load() {
		c.handleEvents(s, surface, log)

		if !c.paused.Load() {
			if frame, ok := c.queue.Pop(c.opts.DequeueTimeout); ok {
				if err := c.render(surface, frame); err != nil {
					c.renderErrors.Add(1)
					// A surface that fails once usually fails on every tick.
					if !warned {
						warned = true
						log.WithError(err).Warn("Cannot render frame, further failures are logged at debug level")
					} else {
						log.WithError(err).Debug("Cannot render frame")
					}
				}
			}
		}

		s.sleep(c.opts.RenderInterval)
	}

	log.WithField("frames", c.framesRendered.Load()).Info("Presenter stopped")
}

func (c *Controller) handleEvents(s *session, surface Surface, log *logrus.Entry) {
	if surface == nil {
		return
	}

	for _, ev := range surface.PollEvents() {
		switch ev.Type {
		case EventQuit, EventWindowClose:
			log.WithField("event", ev.Type).Info("Window closed")
			c.requestStop(s)

		case EventKeyDown:
			switch ev.Key {
			case c.opts.PauseKey:
				if paused, ok := c.togglePause(); ok {
					c.logPause(paused)
				}
			case c.opts.QuitKey:
				log.WithField("key", ev.Key).Info("Quit key pressed")
				c.requestStop(s)
			}
		}
	}
}

// render uploads and presents one frame.
func (c *Controller) render(surface Surface, frame *yuv.Frame) error {
	if surface == nil {
		return nil
	}

	if err := surface.Upload(frame); err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	if err := surface.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}

	c.framesRendered.Add(1)

	return nil
}
