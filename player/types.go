package player

import (
	"fmt"

	"github.com/erparts/billboard/yuv"
)

// Rational is a fraction such as a stream time base.
type Rational struct {
	Num int
	Den int
}

// Float returns the value of the fraction, or 0 when the denominator is 0.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}

	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// StreamDescriptor describes the selected video stream.
// It is derived once by Load and does not change until the next Load.
type StreamDescriptor struct {
	// Index is the index of the video stream inside the container.
	Index      int
	Width      int
	Height     int
	FrameRate  float64
	TimeBase   Rational
	DurationMS int64
	// FrameCount is the number of frames the container declares, or 0.
	FrameCount int64
	// BitRate is in bits per second, or 0 when unknown.
	BitRate int64
	// AspectRatio is the sample aspect ratio, zero when unknown.
	AspectRatio Rational
	// Codec is the short name of the decoder.
	Codec          string
	CodecLongName  string
	Format         string
	FormatLongName string
}

// Packet is a compressed packet read from the container.
type Packet interface {
	// StreamIndex returns the index of the stream the packet belongs to.
	StreamIndex() int
	// Release returns the packet data to the decoder.
	Release()
}

// Picture is a decoded picture. It is only valid until the
// next call to ReceivePicture.
type Picture interface {
	PTS() int64
	Width() int
	Height() int
}

// Decoder is an open decoding session for one media file: the demuxer,
// the video decoder and the conversion context.
//
// A Decoder is used by one goroutine at a time.
type Decoder interface {
	// Stream describes the selected video stream.
	Stream() StreamDescriptor
	// ReadPacket reads the next packet of any stream. It returns io.EOF
	// at the end of the input, and a nil packet with a nil error when
	// nothing is available yet.
	ReadPacket() (Packet, error)
	// SendPacket feeds a video packet to the decoder.
	SendPacket(pkt Packet) error
	// ReceivePicture drains the next decoded picture. ok is false when
	// the decoder needs more packets.
	ReceivePicture() (pic Picture, ok bool, err error)
	// Rewind seeks the video stream back to its start.
	Rewind() error
	// OpenConverter creates the conversion context from the source pixel
	// format to planar 4:2:0 at the given size. Calling it again
	// after a success is a no-op.
	OpenConverter(width, height int) error
	// Convert converts pic and returns views over the converted planes.
	// The views are valid until the next call to Convert.
	Convert(pic Picture) (yuv.Planes, error)
	// Close releases the conversion context, the decoder and the demuxer.
	Close() error
}

// OpenFunc opens a media file for decoding. On failure it must release
// everything it opened before returning.
type OpenFunc func(path string) (Decoder, error)

// EventType is the kind of an input or window event.
type EventType int

const (
	// EventQuit is an application quit request.
	EventQuit EventType = iota + 1
	// EventWindowClose is a request to close the window.
	EventWindowClose
	// EventKeyDown is a key press.
	EventKeyDown
)

// Key identifies a keyboard key.
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyEscape
	KeyEnter
	KeyP
	KeyQ
)

// Event is an input or window event reported by a Surface.
type Event struct {
	Type EventType
	Key  Key
}

// Surface is a window with a renderer and a streaming texture sized
// for the frames it will receive.
type Surface interface {
	// PollEvents returns the events received since the last call.
	PollEvents() []Event
	// Upload copies the planes of the frame into the texture.
	Upload(frame *yuv.Frame) error
	// Present clears the renderer, draws the texture over the whole
	// window and presents it.
	Present() error
	// Close destroys the texture, the renderer and the window.
	Close() error
}

// SurfaceFactory creates a Surface. It may return a non-nil Surface
// together with an error wrapping ErrPresentationInit when only part of
// the presentation resources could be created.
type SurfaceFactory func(title string, width, height int) (Surface, error)

// FrameObserver receives every produced frame: the packed planes, the
// frame size and the luma row width. It runs on the producer goroutine
// and must neither keep nor modify data.
type FrameObserver func(data []byte, width, height, pitch int)
