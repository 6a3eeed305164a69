// Package sdlsurface presents frames in an SDL2 window through a
// streaming YV12 texture.
//
// Every SDL call is made through sdl.Do, so the program must run inside
// sdl.Main.
package sdlsurface

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/erparts/billboard/player"
	"github.com/erparts/billboard/yuv"
)

// Surface is a window, its renderer and a streaming texture sized to the
// video. When the renderer or the texture could not be created the
// surface still owns the window and Upload and Present do nothing.
type Surface struct {
	log logrus.FieldLogger

	mu       sync.Mutex
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	width    int32
	height   int32
	closed   bool
}

var _ player.Surface = (*Surface)(nil)

// Factory returns a player.SurfaceFactory creating SDL surfaces.
func Factory(log logrus.FieldLogger) player.SurfaceFactory {
	return func(title string, width, height int) (player.Surface, error) {
		s, err := Open(title, width, height, log)
		if s == nil {
			return nil, err
		}

		return s, err
	}
}

// Open initializes SDL video and creates the window, the renderer and the
// YV12 texture. It returns a nil Surface when no window could be created,
// and a partial Surface along with an error wrapping
// player.ErrPresentationInit when a later step failed.
func Open(title string, width, height int, log logrus.FieldLogger) (*Surface, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Surface{
		log:    log.WithField("surface", "sdl"),
		width:  int32(width),
		height: int32(height),
	}

	var err error
	sdl.Do(func() {
		err = s.open(title)
	})
	if s.window == nil {
		return nil, err
	}

	return s, err
}

// open must run on the main thread.
func (s *Surface) open(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("%w: couldn't initialize SDL video: %v", player.ErrPresentationInit, err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		s.width, s.height, sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return fmt.Errorf("%w: couldn't create window: %v", player.ErrPresentationInit, err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return fmt.Errorf("%w: couldn't create renderer: %v", player.ErrPresentationInit, err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_YV12), sdl.TEXTUREACCESS_STREAMING, s.width, s.height)
	if err != nil {
		return fmt.Errorf("%w: couldn't create texture: %v", player.ErrPresentationInit, err)
	}
	s.texture = texture

	s.log.WithFields(logrus.Fields{
		"width":  s.width,
		"height": s.height,
	}).Debug("SDL surface ready")

	return nil
}

// PollEvents drains the SDL event queue.
func (s *Surface) PollEvents() []player.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	var events []player.Event
	sdl.Do(func() {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			if e, ok := translate(ev); ok {
				events = append(events, e)
			}
		}
	})

	return events
}

func translate(ev sdl.Event) (player.Event, bool) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return player.Event{Type: player.EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_CLOSE {
			return player.Event{Type: player.EventWindowClose}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			return player.Event{Type: player.EventKeyDown, Key: mapKey(e.Keysym.Sym)}, true
		}
	}

	return player.Event{}, false
}

func mapKey(sym sdl.Keycode) player.Key {
	switch sym {
	case sdl.K_SPACE:
		return player.KeySpace
	case sdl.K_ESCAPE:
		return player.KeyEscape
	case sdl.K_RETURN:
		return player.KeyEnter
	case sdl.K_p:
		return player.KeyP
	case sdl.K_q:
		return player.KeyQ
	default:
		return player.KeyUnknown
	}
}

// Upload copies the three planes of frame into the texture.
func (s *Surface) Upload(frame *yuv.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.texture == nil {
		return nil
	}
	if int32(frame.Width) != s.width || int32(frame.Height) != s.height {
		return fmt.Errorf("frame is %dx%d, texture is %dx%d", frame.Width, frame.Height, s.width, s.height)
	}

	y, u, v := frame.Planes()

	var err error
	sdl.Do(func() {
		err = s.texture.UpdateYUV(nil, y, frame.Width, u, frame.Width/2, v, frame.Width/2)
	})

	return err
}

// Present clears the window and draws the texture letterboxed to the
// window size.
func (s *Surface) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.renderer == nil || s.texture == nil {
		return nil
	}

	var err error
	sdl.Do(func() {
		if err = s.renderer.Clear(); err != nil {
			return
		}

		outW, outH, oerr := s.renderer.GetOutputSize()
		if oerr != nil {
			err = oerr
			return
		}

		dst := letterbox(s.width, s.height, outW, outH)
		if err = s.renderer.Copy(s.texture, nil, &dst); err != nil {
			return
		}

		s.renderer.Present()
	})

	return err
}

// letterbox fits a w x h picture into the output, centered, keeping
// its aspect ratio.
func letterbox(w, h, outW, outH int32) sdl.Rect {
	if w <= 0 || h <= 0 || outW <= 0 || outH <= 0 {
		return sdl.Rect{W: outW, H: outH}
	}

	scale := float64(outW) / float64(w)
	if sh := float64(outH) / float64(h); sh < scale {
		scale = sh
	}

	rw := int32(float64(w) * scale)
	rh := int32(float64(h) * scale)

	return sdl.Rect{
		X: (outW - rw) / 2,
		Y: (outH - rh) / 2,
		W: rw,
		H: rh,
	}
}

// Close destroys the texture, the renderer and the window, in that order.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	sdl.Do(func() {
		if s.texture != nil {
			if err := s.texture.Destroy(); err != nil {
				errs = append(errs, err)
			}
			s.texture = nil
		}
		if s.renderer != nil {
			if err := s.renderer.Destroy(); err != nil {
				errs = append(errs, err)
			}
			s.renderer = nil
		}
		if s.window != nil {
			if err := s.window.Destroy(); err != nil {
				errs = append(errs, err)
			}
			s.window = nil
		}
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
	})

	s.log.Debug("SDL surface closed")

	return errors.Join(errs...)
}
