// Package ebitensurface presents frames in an ebiten window.
//
// ebiten owns the main goroutine: the program calls Display.Run from
// main and drives playback from other goroutines. Surfaces created by
// the factory hand their frames to the running Display.
package ebitensurface

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/erparts/billboard/player"
	"github.com/erparts/billboard/yuv"
)

// ErrShutdown is returned by the factory once the display has been shut down.
var ErrShutdown = errors.New("display is shut down")

var watchedKeys = map[ebiten.Key]player.Key{
	ebiten.KeySpace:  player.KeySpace,
	ebiten.KeyEscape: player.KeyEscape,
	ebiten.KeyEnter:  player.KeyEnter,
	ebiten.KeyP:      player.KeyP,
	ebiten.KeyQ:      player.KeyQ,
}

// Display is an ebiten.Game showing the frames of the attached Surface.
type Display struct {
	log logrus.FieldLogger

	mu       sync.Mutex
	surface  *Surface
	image    *ebiten.Image
	shutdown bool
	width    int
	height   int
}

var _ ebiten.Game = (*Display)(nil)

// NewDisplay returns a Display with a width x height layout until a
// surface is attached.
func NewDisplay(width, height int, log logrus.FieldLogger) *Display {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Display{
		log:    log.WithField("surface", "ebiten"),
		width:  width,
		height: height,
	}
}

// Run runs the game loop until Shutdown is called. It must be called
// from the main goroutine.
func (d *Display) Run(title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(d.size())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	err := ebiten.RunGame(d)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}

	return err
}

// Shutdown ends Run at the next update.
func (d *Display) Shutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.shutdown = true
}

// Factory returns a player.SurfaceFactory attaching surfaces to d.
func (d *Display) Factory() player.SurfaceFactory {
	return func(title string, width, height int) (player.Surface, error) {
		s, err := d.attach(title, width, height)
		if err != nil {
			return nil, err
		}

		return s, nil
	}
}

func (d *Display) attach(title string, width, height int) (*Surface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.shutdown {
		return nil, fmt.Errorf("%w: %w", player.ErrPresentationInit, ErrShutdown)
	}

	s := &Surface{display: d, width: width, height: height}
	d.surface = s
	d.width = width
	d.height = height
	if d.image != nil {
		d.image.Deallocate()
		d.image = nil
	}

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)

	d.log.WithFields(logrus.Fields{
		"title":  title,
		"width":  width,
		"height": height,
	}).Debug("Surface attached")

	return s, nil
}

func (d *Display) detach(s *Surface) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.surface == s {
		d.surface = nil
	}
}

func (d *Display) size() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.width, d.height
}

// Update collects input for the attached surface.
func (d *Display) Update() error {
	d.mu.Lock()
	surface := d.surface
	shutdown := d.shutdown
	d.mu.Unlock()

	if shutdown {
		return ebiten.Termination
	}

	var events []player.Event
	if ebiten.IsWindowBeingClosed() {
		events = append(events, player.Event{Type: player.EventWindowClose})
		if surface == nil {
			return ebiten.Termination
		}
	}

	for key, mapped := range watchedKeys {
		if inpututil.IsKeyJustPressed(key) {
			events = append(events, player.Event{Type: player.EventKeyDown, Key: mapped})
		}
	}

	if surface != nil && len(events) > 0 {
		surface.push(events)
	}

	return nil
}

// Draw draws the last presented frame, scaled to fit the screen.
func (d *Display) Draw(screen *ebiten.Image) {
	d.mu.Lock()
	surface := d.surface
	d.mu.Unlock()

	if surface == nil {
		return
	}

	d.mu.Lock()
	fresh := d.image == nil || d.image.Bounds().Dx() != surface.width || d.image.Bounds().Dy() != surface.height
	if fresh {
		if d.image != nil {
			d.image.Deallocate()
		}
		d.image = ebiten.NewImage(surface.width, surface.height)
	}
	img := d.image
	d.mu.Unlock()

	pix, ok := surface.presented(fresh)
	if !ok {
		return
	}
	if pix != nil {
		img.WritePixels(pix)
	}

	screen.DrawImage(img, fit(img.Bounds(), screen.Bounds()))
}

// Layout keeps the logical screen at the video size.
func (d *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := d.size()
	if w <= 0 || h <= 0 {
		return outsideWidth, outsideHeight
	}

	return w, h
}

// fit returns the options drawing src centered in dst at the largest
// scale that keeps its aspect ratio.
func fit(src, dst image.Rectangle) *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{}
	sw, sh := float64(src.Dx()), float64(src.Dy())
	dw, dh := float64(dst.Dx()), float64(dst.Dy())
	if sw == 0 || sh == 0 {
		return op
	}

	scale := dw / sw
	if s := dh / sh; s < scale {
		scale = s
	}

	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((dw-sw*scale)/2, (dh-sh*scale)/2)
	op.Filter = ebiten.FilterLinear

	return op
}

// Surface is the player.Surface attached to a Display.
type Surface struct {
	display       *Display
	width, height int

	mu      sync.Mutex
	events  []player.Event
	staged  *image.RGBA
	shown   *image.RGBA
	pending bool
	closed  bool
}

var _ player.Surface = (*Surface)(nil)

// PollEvents returns the input collected since the last call.
func (s *Surface) PollEvents() []player.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.events
	s.events = nil

	return events
}

func (s *Surface) push(events []player.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.events = append(s.events, events...)
	}
}

// Upload converts frame to RGBA into the staging buffer.
func (s *Surface) Upload(frame *yuv.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	if frame.Width != s.width || frame.Height != s.height {
		return fmt.Errorf("frame is %dx%d, surface is %dx%d", frame.Width, frame.Height, s.width, s.height)
	}

	s.staged = frame.RGBA(s.staged)

	return nil
}

// Present hands the staged frame to the display.
func (s *Surface) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.staged == nil {
		return nil
	}

	s.staged, s.shown = s.shown, s.staged
	s.pending = true

	return nil
}

// presented returns a copy of the shown pixels when a new frame was
// presented since the last call or when all is set, and nil pixels
// otherwise. ok is false until a first frame was presented.
func (s *Surface) presented(all bool) (pix []byte, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shown == nil {
		return nil, false
	}
	if !s.pending && !all {
		return nil, true
	}
	s.pending = false

	pix = make([]byte, len(s.shown.Pix))
	copy(pix, s.shown.Pix)

	return pix, true
}

// Close detaches the surface from the display.
func (s *Surface) Close() error {
	s.mu.Lock()
	s.closed = true
	s.events = nil
	s.mu.Unlock()

	s.display.detach(s)

	return nil
}
