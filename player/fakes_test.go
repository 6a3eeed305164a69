package player

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/erparts/billboard/yuv"
)

const (
	videoIndex = 0
	audioIndex = 1
)

// closeSeq orders Close calls across fakes.
var closeSeq atomic.Int64

type fakePacket struct {
	index    int
	pts      int64
	released *atomic.Int64
}

func (p *fakePacket) StreamIndex() int { return p.index }
func (p *fakePacket) Release()         { p.released.Add(1) }

type fakePicture struct {
	pts           int64
	width, height int
}

func (p fakePicture) PTS() int64  { return p.pts }
func (p fakePicture) Width() int  { return p.width }
func (p fakePicture) Height() int { return p.height }

func (p fakePicture) PixelFormat() string { return "yuv420p" }

// PresentationOffset assumes the 1/90000 time base of newFakeDecoder.
func (p fakePicture) PresentationOffset() time.Duration {
	return time.Duration(p.pts) * time.Second / 90000
}

// fakeDecoder produces a finite stream of `frames` video packets, each
// followed by an audio packet, and one picture per video packet.
type fakeDecoder struct {
	desc   StreamDescriptor
	frames int64

	converterErr error
	sendErrEvery int64
	readErr      error

	mu      sync.Mutex
	pos     int64
	audio   bool
	pending []fakePicture
	planes  yuv.Planes

	converterOpen atomic.Bool
	closed        atomic.Bool
	closedSeq     atomic.Int64
	sent          atomic.Int64
	released      atomic.Int64
	rewinds       atomic.Int64
	converted     atomic.Int64
}

func newFakeDecoder(width, height int, fps float64, frames int64) *fakeDecoder {
	return &fakeDecoder{
		desc: StreamDescriptor{
			Index:      videoIndex,
			Width:      width,
			Height:     height,
			FrameRate:  fps,
			TimeBase:   Rational{Num: 1, Den: 90000},
			DurationMS: int64(float64(frames) / fps * 1000),
			FrameCount: frames,
			Codec:      "fake",
			Format:     "fakefmt",
		},
		frames: frames,
	}
}

func (d *fakeDecoder) Stream() StreamDescriptor { return d.desc }

func (d *fakeDecoder) ReadPacket() (Packet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readErr != nil {
		return nil, d.readErr
	}

	if d.audio {
		d.audio = false
		return &fakePacket{index: audioIndex, released: &d.released}, nil
	}

	if d.pos >= d.frames {
		return nil, io.EOF
	}

	pkt := &fakePacket{index: videoIndex, pts: d.pos, released: &d.released}
	d.pos++
	d.audio = true

	return pkt, nil
}

func (d *fakeDecoder) SendPacket(pkt Packet) error {
	n := d.sent.Add(1)
	if pkt.StreamIndex() != videoIndex {
		return errors.New("audio packet sent to video decoder")
	}
	if d.sendErrEvery > 0 && n%d.sendErrEvery == 0 {
		return errors.New("corrupt packet")
	}

	d.mu.Lock()
	d.pending = append(d.pending, fakePicture{
		pts:    pkt.(*fakePacket).pts,
		width:  d.desc.Width,
		height: d.desc.Height,
	})
	d.mu.Unlock()

	return nil
}

func (d *fakeDecoder) ReceivePicture() (Picture, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.pending) == 0 {
		return nil, false, nil
	}

	pic := d.pending[0]
	d.pending = d.pending[1:]

	return pic, true, nil
}

func (d *fakeDecoder) Rewind() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pos = 0
	d.audio = false
	d.rewinds.Add(1)

	return nil
}

func (d *fakeDecoder) OpenConverter(width, height int) error {
	if d.converterErr != nil {
		return d.converterErr
	}
	if d.converterOpen.Load() {
		return nil
	}

	// Padded strides, the way a converter with aligned rows returns them.
	stride := width + 32
	cStride := width/2 + 32
	d.planes = yuv.Planes{
		Data: [3][]byte{
			make([]byte, stride*height),
			make([]byte, cStride*height/2),
			make([]byte, cStride*height/2),
		},
		Stride: [3]int{stride, cStride, cStride},
	}
	d.converterOpen.Store(true)

	return nil
}

func (d *fakeDecoder) Convert(pic Picture) (yuv.Planes, error) {
	if !d.converterOpen.Load() {
		return yuv.Planes{}, errors.New("converter is not open")
	}

	d.converted.Add(1)
	d.planes.Data[0][0] = byte(pic.PTS())

	return d.planes, nil
}

func (d *fakeDecoder) Close() error {
	d.closed.Store(true)
	d.closedSeq.Store(closeSeq.Add(1))
	return nil
}

type fakeSurface struct {
	width, height int

	mu     sync.Mutex
	events []Event
	pts    []int64

	uploadErr error
	uploads   atomic.Int64
	presents  atomic.Int64
	closed    atomic.Bool
	closedSeq atomic.Int64
}

func (s *fakeSurface) inject(events ...Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, events...)
}

func (s *fakeSurface) PollEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.events
	s.events = nil

	return events
}

func (s *fakeSurface) Upload(frame *yuv.Frame) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}

	s.uploads.Add(1)
	s.mu.Lock()
	s.pts = append(s.pts, frame.PTS)
	s.mu.Unlock()

	return nil
}

func (s *fakeSurface) Present() error {
	s.presents.Add(1)
	return nil
}

func (s *fakeSurface) Close() error {
	s.closed.Store(true)
	s.closedSeq.Store(closeSeq.Add(1))
	return nil
}

func (s *fakeSurface) renderedPTS() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]int64(nil), s.pts...)
}

// harness wires a Controller to fakes and records everything it creates.
type harness struct {
	t    *testing.T
	c    *Controller
	hook *test.Hook

	mu       sync.Mutex
	decoders map[string]*fakeDecoder
	opened   []*fakeDecoder
	surfaces []*fakeSurface

	surfaceErr error
	surfaceNil bool
}

func newHarness(t *testing.T, mutate ...func(*Options)) *harness {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	h := &harness{
		t:        t,
		hook:     hook,
		decoders: map[string]*fakeDecoder{},
	}

	opts := Options{
		Open:           h.open,
		NewSurface:     h.newSurface,
		RenderInterval: 2 * time.Millisecond,
		DequeueTimeout: 20 * time.Millisecond,
		PausePoll:      5 * time.Millisecond,
		Logger:         logger,
	}
	for _, m := range mutate {
		m(&opts)
	}

	c, err := NewController(opts)
	require.NoError(t, err)
	h.c = c

	t.Cleanup(func() { _ = c.Close() })

	return h
}

// register makes path openable with the given decoder.
func (h *harness) register(path string, dec *fakeDecoder) *fakeDecoder {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.decoders[path] = dec
	return dec
}

func (h *harness) open(path string) (Decoder, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dec, ok := h.decoders[path]
	if !ok {
		return nil, ErrIO
	}

	h.opened = append(h.opened, dec)
	return dec, nil
}

func (h *harness) newSurface(title string, width, height int) (Surface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.surfaceNil {
		return nil, h.surfaceErr
	}

	s := &fakeSurface{width: width, height: height}
	h.surfaces = append(h.surfaces, s)

	return s, h.surfaceErr
}

func (h *harness) surface(i int) *fakeSurface {
	h.mu.Lock()
	defer h.mu.Unlock()

	require.Greater(h.t, len(h.surfaces), i)
	return h.surfaces[i]
}

func (h *harness) surfaceCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.surfaces)
}

// waitStopped waits until both workers have exited.
func (h *harness) waitStopped(timeout time.Duration) {
	h.t.Helper()

	require.Eventually(h.t, func() bool {
		return h.c.State() == StateStopped
	}, timeout, time.Millisecond)
}

// findEntry returns the first log entry with message msg, or nil.
func (h *harness) findEntry(msg string) *logrus.Entry {
	for _, entry := range h.hook.AllEntries() {
		if entry.Message == msg {
			return entry
		}
	}

	return nil
}
