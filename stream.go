package billboard

// #cgo pkg-config: libavutil libavformat libavcodec
// #include <libavcodec/avcodec.h>
// #include <libavformat/avformat.h>
// #include <libavutil/avconfig.h>
import "C"
import (
	"fmt"
	"time"

	"github.com/erparts/billboard/player"
)

// StreamType is a type of
// a media stream.
type StreamType int

const (
	// StreamVideo denotes the stream keeping video frames.
	StreamVideo StreamType = C.AVMEDIA_TYPE_VIDEO
	// StreamAudio denotes the stream keeping audio frames.
	StreamAudio StreamType = C.AVMEDIA_TYPE_AUDIO
	// StreamSubtitle denotes the stream keeping subtitles.
	StreamSubtitle StreamType = C.AVMEDIA_TYPE_SUBTITLE
)

// String returns the string representation of
// stream type identifier.
func (streamType StreamType) String() string {
	switch streamType {
	case StreamVideo:
		return "video"

	case StreamAudio:
		return "audio"

	case StreamSubtitle:
		return "subtitle"

	default:
		return ""
	}
}

// Stream is an abstract media data stream.
type Stream interface {
	// Index returns the index
	// number of the stream.
	Index() int
	// Type returns the type
	// identifier of the stream.
	Type() StreamType
	// CodecName returns the
	// shortened name of the stream codec.
	CodecName() string
	// CodecLongName returns the
	// long name of the stream codec.
	CodecLongName() string
	// BitRate returns the stream
	// bitrate (in bps).
	BitRate() int64
	// Duration returns the time
	// duration of the stream
	Duration() time.Duration
	// TimeBase returns the numerator
	// and the denominator of the stream
	// time base fraction to convert
	// time duration in time base units
	// of the stream.
	TimeBase() (int, int)
	// FrameRate returns the average
	// frame rate (FPS) of the stream.
	FrameRate() (int, int)
	// FrameCount returns the total number
	// of frames in the stream.
	FrameCount() int64
	// Rewind rewinds the whole media to the
	// specified time location based on the stream.
	Rewind(time.Duration) error
}

// baseStream holds the information common for all media data streams.
type baseStream struct {
	media    *Media
	inner    *C.AVStream
	params   *C.AVCodecParameters
	codec    *C.AVCodec
	codecCtx *C.AVCodecContext
	frame    *C.AVFrame
	opened   bool
}

// Index returns the index of the stream.
func (s *baseStream) Index() int {
	return int(s.inner.index)
}

// Type returns the stream media data type.
func (s *baseStream) Type() StreamType {
	return StreamType(s.params.codec_type)
}

// CodecName returns the name of the codec that was used for encoding the stream.
func (s *baseStream) CodecName() string {
	if s.codec == nil || s.codec.name == nil {
		return ""
	}

	return C.GoString(s.codec.name)
}

// CodecLongName returns the long name of the codec that was used for encoding the stream.
func (s *baseStream) CodecLongName() string {
	if s.codec == nil || s.codec.long_name == nil {
		return ""
	}

	return C.GoString(s.codec.long_name)
}

// BitRate returns the bit rate of the stream (in bps).
func (s *baseStream) BitRate() int64 {
	return int64(s.params.bit_rate)
}

// Duration returns the duration of the stream, or 0 when it is unknown.
func (s *baseStream) Duration() time.Duration {
	dur := int64(s.inner.duration)
	if dur <= 0 {
		return 0
	}

	num, den := s.TimeBase()
	if den == 0 {
		return 0
	}

	return time.Duration(float64(dur) * float64(num) / float64(den) * float64(time.Second))
}

// TimeBase the numerator and the denominator of the stream time base factor fraction.
//
// All the duration values of the stream are multiplied by this factor to get duration
// in seconds.
func (s *baseStream) TimeBase() (int, int) {
	return int(s.inner.time_base.num),
		int(s.inner.time_base.den)
}

// FrameRate returns the average frame rate of the stream as a fraction.
// It falls back to the base frame rate when the average is unknown.
func (s *baseStream) FrameRate() (int, int) {
	if s.inner.avg_frame_rate.num > 0 && s.inner.avg_frame_rate.den > 0 {
		return int(s.inner.avg_frame_rate.num),
			int(s.inner.avg_frame_rate.den)
	}

	return int(s.inner.r_frame_rate.num),
		int(s.inner.r_frame_rate.den)
}

// FrameCount returns the total number of frames in the stream.
func (s *baseStream) FrameCount() int64 {
	return int64(s.inner.nb_frames)
}

// Rewind rewinds the stream to the specified time position, landing on
// the closest key frame before it.
//
// Decoders opened on the stream are flushed so that no picture from
// before the jump is returned afterwards.
func (s *baseStream) Rewind(t time.Duration) error {
	tmNum, tmDen := s.TimeBase()
	if tmNum == 0 {
		return fmt.Errorf("%w: stream %d has no time base", player.ErrDecode, s.Index())
	}

	factor := float64(tmDen) / float64(tmNum)
	dur := int64(t.Seconds() * factor)

	r := C.av_seek_frame(s.media.ctx,
		s.inner.index, rewindPosition(dur),
		C.AVSEEK_FLAG_BACKWARD)
	if r < 0 {
		return statusError(player.ErrDecode, r, "rewind the stream")
	}

	if s.codecCtx != nil {
		C.avcodec_flush_buffers(s.codecCtx)
	}

	return nil
}

// open opens the stream for decoding.
func (s *baseStream) open() error {
	if s.codec == nil {
		return fmt.Errorf("%w: stream %d", player.ErrUnsupportedCodec, s.Index())
	}

	s.codecCtx = C.avcodec_alloc_context3(s.codec)
	if s.codecCtx == nil {
		return fmt.Errorf("%w: couldn't open a codec context", player.ErrDecoderInit)
	}

	if r := C.avcodec_parameters_to_context(s.codecCtx, s.params); r < 0 {
		s.close()
		return statusError(player.ErrDecoderInit, r, "send codec parameters to the context")
	}

	if r := C.avcodec_open2(s.codecCtx, s.codec, nil); r < 0 {
		s.close()
		return statusError(player.ErrDecoderInit, r, "open the codec context")
	}

	s.frame = C.av_frame_alloc()
	if s.frame == nil {
		s.close()
		return fmt.Errorf("%w: couldn't allocate a new frame", player.ErrDecoderInit)
	}

	s.opened = true
	return nil
}

// send sends the packet to the codec context.
func (s *baseStream) send(pkt *C.AVPacket) error {
	if r := C.avcodec_send_packet(s.codecCtx, pkt); r < 0 {
		return statusError(player.ErrDecode, r, "send the packet to the codec context")
	}

	return nil
}

// receive obtains the next decoded frame into s.frame. ok is false
// when the codec needs more input.
func (s *baseStream) receive() (bool, error) {
	r := C.avcodec_receive_frame(s.codecCtx, s.frame)
	if r < 0 {
		switch ErrorType(r) {
		case ErrorAgain, ErrorEndOfFile:
			return false, nil
		}

		return false, statusError(player.ErrDecode, r, "receive the frame from the codec context")
	}

	return true, nil
}

// close closes the stream for decoding.
func (s *baseStream) close() {
	if s.frame != nil {
		C.av_frame_free(&s.frame)
		s.frame = nil
	}

	if s.codecCtx != nil {
		C.avcodec_free_context(&s.codecCtx)
		s.codecCtx = nil
	}

	s.opened = false
}
