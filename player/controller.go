package player

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/erparts/billboard/yuv"
)

// Controller plays one video stream at a time. It owns the Decoder, the
// Surface, the FrameQueue and the two worker goroutines of the current
// session.
//
// Control methods are safe for concurrent use. Stop, Pause,
// CloseSurface, Seek and the status queries never block, so they can be
// called from a frame observer.
type Controller struct {
	opts  Options
	log   logrus.FieldLogger
	queue *FrameQueue

	// mu serializes Load, Play, CreateSurface and Close. Workers, the
	// frame observer and the stop and pause paths never take it.
	mu      sync.Mutex
	decoder Decoder
	surface Surface
	closed  bool

	session atomic.Pointer[session]

	desc atomic.Pointer[StreamDescriptor]

	state         atomic.Int32
	playing       atomic.Bool
	paused        atomic.Bool
	stopRequested atomic.Bool
	surfaceOpen   atomic.Bool

	observer   atomic.Pointer[FrameObserver]
	seekIntent atomic.Int64

	framesDecoded  atomic.Uint64
	framesRendered atomic.Uint64
	decodeErrors   atomic.Uint64
	renderErrors   atomic.Uint64
}

// session is one Play: the pair of worker goroutines and their stop signal.
type session struct {
	id       string
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	active   atomic.Int32
}

func newSession() *session {
	return &session{
		id:   uuid.NewString(),
		stop: make(chan struct{}),
	}
}

// signal closes the stop channel, waking any sleeping worker.
func (s *session) signal() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// sleep waits for d or until the session is stopped. It reports
// false when it was woken by the stop signal.
func (s *session) sleep(d time.Duration) bool {
	if d <= 0 {
		return true
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-s.stop:
		return false
	}
}

// NewController returns a Controller in the Unloaded state.
func NewController(opts Options) (*Controller, error) {
	if opts.Open == nil {
		return nil, errors.New("player: Options.Open is required")
	}
	if opts.NewSurface == nil {
		return nil, errors.New("player: Options.NewSurface is required")
	}

	opts = opts.withDefaults()

	c := &Controller{
		opts:  opts,
		log:   opts.Logger,
		queue: NewFrameQueue(opts.QueueCapacity),
	}
	c.desc.Store(&StreamDescriptor{})
	c.state.Store(int32(StateUnloaded))

	return c, nil
}

// CreateSurface creates the presentation surface ahead of Play. It does
// nothing when a surface already exists.
func (c *Controller) CreateSurface(title string, width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.surface != nil {
		return nil
	}

	return c.createSurface(title, width, height)
}

// createSurface must be called with c.mu held.
func (c *Controller) createSurface(title string, width, height int) error {
	width, height = yuv.EvenSize(width, height)
	log := c.log.WithFields(logrus.Fields{
		"function": "createSurface",
		"title":    title,
		"width":    width,
		"height":   height,
	})

	surface, err := c.opts.NewSurface(title, width, height)
	if err != nil {
		if !errors.Is(err, ErrPresentationInit) {
			err = fmt.Errorf("%w: %w", ErrPresentationInit, err)
		}

		if surface == nil {
			log.WithError(err).Error("Cannot create surface")
			return err
		}

		log.WithError(err).Warn("Surface created without full rendering support")
	}

	c.surface = surface
	c.surfaceOpen.Store(true)
	log.Info("Surface created")

	return nil
}

// CloseSurface requests the workers to stop and marks the surface closed.
// The surface itself is destroyed by the next teardown.
func (c *Controller) CloseSurface() {
	c.requestStop(c.session.Load())
	c.surfaceOpen.Store(false)
}

// Load tears down the current session and opens the media at path. On
// failure the controller is left Unloaded with nothing retained.
func (c *Controller) Load(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.teardown()
	c.stopRequested.Store(false)
	c.seekIntent.Store(0)
	c.resetCounters()

	log := c.log.WithFields(logrus.Fields{
		"function": "Load",
		"path":     path,
	})
	log.Info("Loading video")

	dec, err := c.opts.Open(path)
	if err != nil {
		log.WithError(err).Error("Cannot load video")
		return fmt.Errorf("load %s: %w", path, err)
	}

	desc := dec.Stream()
	c.decoder = dec
	c.desc.Store(&desc)
	c.state.Store(int32(StateLoaded))

	log.WithFields(logrus.Fields{
		"width":       desc.Width,
		"height":      desc.Height,
		"fps":         desc.FrameRate,
		"duration_ms": desc.DurationMS,
		"frames":      desc.FrameCount,
		"bit_rate":    desc.BitRate,
		"aspect":      desc.AspectRatio,
		"codec":       desc.Codec,
		"format":      desc.Format,
	}).Info("Video loaded")

	log.WithFields(logrus.Fields{
		"codec":  desc.CodecLongName,
		"format": desc.FormatLongName,
	}).Debug("Container details")

	return nil
}

// Play starts the producer and presenter goroutines, creating the surface
// first when needed. It returns nil without restarting anything when
// playback is already running.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := c.log.WithField("function", "Play")

	if c.closed {
		return ErrClosed
	}
	if c.decoder == nil {
		log.Error("Load a video before playing")
		return ErrNotLoaded
	}
	if c.session.Load() != nil && c.State().active() {
		log.Info("Video is already playing")
		return nil
	}

	// A previous session may still be winding down after Stop.
	c.join()

	desc := c.Stream()
	if c.surface == nil {
		if err := c.createSurface(c.opts.Title, desc.Width, desc.Height); err != nil {
			return err
		}
	}

	c.queue.Reset()
	c.surfaceOpen.Store(true)
	c.stopRequested.Store(false)
	c.paused.Store(false)
	c.playing.Store(true)
	c.state.Store(int32(StatePlaying))

	s := newSession()
	s.active.Store(2)
	s.wg.Add(2)
	c.session.Store(s)

	go c.produce(s, c.decoder)
	go c.present(s, c.surface)

	log.WithField("session", s.id).Info("Playback started")

	return nil
}

// Pause toggles pause. It returns ErrNotPlaying unless playback is running.
func (c *Controller) Pause() error {
	paused, ok := c.togglePause()
	if !ok {
		return ErrNotPlaying
	}

	c.logPause(paused)

	return nil
}

// Stop asks both workers to stop and returns without waiting for them.
func (c *Controller) Stop() {
	c.requestStop(c.session.Load())
	c.log.WithField("function", "Stop").Info("Playback stop requested")
}

// Seek records the requested position. Decoding position is not changed.
func (c *Controller) Seek(ms int64) {
	c.seekIntent.Store(ms)
	c.log.WithFields(logrus.Fields{
		"function": "Seek",
		"position": ms,
	}).Info("Seek requested")
}

// SetFrameObserver registers the observer called for every produced
// frame, replacing the previous one. A nil observer removes it.
func (c *Controller) SetFrameObserver(observer FrameObserver) {
	if observer == nil {
		c.observer.Store(nil)
		return
	}

	c.observer.Store(&observer)
}

// Close tears the session down and releases every resource. The
// controller cannot be used afterwards.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.teardown()
	c.closed = true

	return nil
}

// teardown stops the workers and releases the surface, the decoder and
// the queued frames, in that order. It must be called with c.mu held.
func (c *Controller) teardown() {
	c.requestStop(c.session.Load())
	c.join()

	log := c.log.WithField("function", "teardown")

	if c.surface != nil {
		if err := c.surface.Close(); err != nil {
			log.WithError(err).Warn("Cannot close surface")
		}
		c.surface = nil
	}
	c.surfaceOpen.Store(false)

	if c.decoder != nil {
		if err := c.decoder.Close(); err != nil {
			log.WithError(err).Warn("Cannot close decoder")
		}
		c.decoder = nil
	}

	if n := c.queue.Drain(); n > 0 {
		log.WithField("frames", n).Debug("Discarded queued frames")
	}

	c.desc.Store(&StreamDescriptor{})
	c.playing.Store(false)
	c.paused.Store(false)
	c.state.Store(int32(StateUnloaded))
}

// join waits for the workers of the current session, if any.
// It must be called with c.mu held.
func (c *Controller) join() {
	s := c.session.Load()
	if s == nil {
		return
	}

	s.wg.Wait()
	c.session.CompareAndSwap(s, nil)
}

// requestStop raises the stop flag, wakes sleeping workers and any Pop
// waiting on the queue. It never takes c.mu.
func (c *Controller) requestStop(s *session) {
	c.stopRequested.Store(true)
	c.playing.Store(false)
	c.transition(StateStopping, StatePlaying, StatePaused)

	if s != nil {
		s.signal()
	}

	c.queue.Close()
}

// workerDone is deferred by both workers. The last one out moves the
// controller to Stopped.
func (c *Controller) workerDone(s *session, worker string) {
	if s.active.Add(-1) == 0 {
		c.playing.Store(false)
		c.paused.Store(false)
		c.transition(StateStopped, StateStopping, StatePlaying, StatePaused)

		c.log.WithFields(logrus.Fields{
			"function": "workerDone",
			"session":  s.id,
			"worker":   worker,
		}).Info("Playback stopped")
	}

	s.wg.Done()
}

// togglePause flips between Playing and Paused. ok is false when
// playback is not running.
func (c *Controller) togglePause() (paused, ok bool) {
	for {
		switch c.State() {
		case StatePlaying:
			if c.transition(StatePaused, StatePlaying) {
				c.paused.Store(true)
				return true, true
			}
		case StatePaused:
			if c.transition(StatePlaying, StatePaused) {
				c.paused.Store(false)
				return false, true
			}
		default:
			return c.paused.Load(), false
		}
	}
}

func (c *Controller) logPause(paused bool) {
	log := c.log.WithField("function", "Pause")
	if paused {
		log.Info("Paused")
	} else {
		log.Info("Resumed")
	}
}

// transition moves the state to `to` if it currently is one of `from`.
func (c *Controller) transition(to State, from ...State) bool {
	for {
		cur := State(c.state.Load())
		if !slices.Contains(from, cur) {
			return false
		}

		if c.state.CompareAndSwap(int32(cur), int32(to)) {
			return true
		}
	}
}

// State returns the current playback state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Stream returns the descriptor of the loaded stream.
func (c *Controller) Stream() StreamDescriptor {
	return *c.desc.Load()
}

// IsPlaying reports whether playback was started and not stopped.
func (c *Controller) IsPlaying() bool { return c.playing.Load() }

// IsPaused reports whether playback is paused.
func (c *Controller) IsPaused() bool { return c.paused.Load() }

// IsSurfaceOpen reports whether the presentation surface is open.
func (c *Controller) IsSurfaceOpen() bool { return c.surfaceOpen.Load() }

// DurationMS returns the stream duration in milliseconds.
func (c *Controller) DurationMS() int64 { return c.Stream().DurationMS }

// CurrentPositionMS always returns 0: the playback position is not tracked.
func (c *Controller) CurrentPositionMS() int64 { return 0 }

// SeekIntentMS returns the position passed to the last Seek.
func (c *Controller) SeekIntentMS() int64 { return c.seekIntent.Load() }

// Width returns the width of the loaded stream.
func (c *Controller) Width() int { return c.Stream().Width }

// Height returns the height of the loaded stream.
func (c *Controller) Height() int { return c.Stream().Height }

// FrameRate returns the average frame rate of the loaded stream.
func (c *Controller) FrameRate() float64 { return c.Stream().FrameRate }

// QueueLen returns the number of frames waiting to be rendered.
func (c *Controller) QueueLen() int { return c.queue.Len() }
