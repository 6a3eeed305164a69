package sdlsurface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/erparts/billboard/player"
	"github.com/erparts/billboard/yuv"
)

func TestLetterbox(t *testing.T) {
	tests := []struct {
		name             string
		w, h, outW, outH int32
		want             sdl.Rect
	}{
		{"exact", 640, 480, 640, 480, sdl.Rect{X: 0, Y: 0, W: 640, H: 480}},
		{"pillarbox", 640, 480, 1280, 480, sdl.Rect{X: 320, Y: 0, W: 640, H: 480}},
		{"letterbox", 640, 480, 640, 960, sdl.Rect{X: 0, Y: 240, W: 640, H: 480}},
		{"upscale", 320, 240, 1280, 960, sdl.Rect{X: 0, Y: 0, W: 1280, H: 960}},
		{"empty_source", 0, 0, 800, 600, sdl.Rect{W: 800, H: 600}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, letterbox(tt.w, tt.h, tt.outW, tt.outH))
		})
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		ev   sdl.Event
		want player.Event
		ok   bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, player.Event{Type: player.EventQuit}, true},
		{"window_close", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_CLOSE},
			player.Event{Type: player.EventWindowClose}, true},
		{"window_resize", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED},
			player.Event{}, false},
		{"space", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Sym: sdl.K_SPACE}},
			player.Event{Type: player.EventKeyDown, Key: player.KeySpace}, true},
		{"escape", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}},
			player.Event{Type: player.EventKeyDown, Key: player.KeyEscape}, true},
		{"key_up", &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Sym: sdl.K_SPACE}},
			player.Event{}, false},
		{"repeat", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Sym: sdl.K_SPACE}},
			player.Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.ev)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPartialSurfaceIsNoop(t *testing.T) {
	s := &Surface{width: 4, height: 4}
	frame := &yuv.Frame{Data: make([]byte, yuv.FrameSize(4, 4)), Width: 4, Height: 4}

	assert.NoError(t, s.Upload(frame))
	assert.NoError(t, s.Present())
}
