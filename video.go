package billboard

// #cgo pkg-config: libavutil libavformat libavcodec libswscale
// #include <libavcodec/avcodec.h>
// #include <libavformat/avformat.h>
// #include <libavutil/avutil.h>
// #include <libavutil/frame.h>
// #include <libswscale/swscale.h>
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/erparts/billboard/player"
	"github.com/erparts/billboard/yuv"
)

// InterpolationAlgorithm is the scaling algorithm used by the converter.
type InterpolationAlgorithm int

const (
	InterpolationFastBilinear InterpolationAlgorithm = C.SWS_FAST_BILINEAR
	InterpolationBilinear     InterpolationAlgorithm = C.SWS_BILINEAR
	InterpolationBicubic      InterpolationAlgorithm = C.SWS_BICUBIC
	InterpolationPoint        InterpolationAlgorithm = C.SWS_POINT
	InterpolationArea         InterpolationAlgorithm = C.SWS_AREA
	InterpolationLanczos      InterpolationAlgorithm = C.SWS_LANCZOS
)

// frameAlign is the row alignment of converted planes.
const frameAlign = 32

// VideoStream is a stream holding video frames.
type VideoStream struct {
	baseStream
	swsCtx   *C.struct_SwsContext
	yuvFrame *C.AVFrame
	width    int
	height   int
}

// AspectRatio returns the fraction of the video stream frame aspect ratio (1/0 if unknown).
func (s *VideoStream) AspectRatio() (int, int) {
	return int(s.params.sample_aspect_ratio.num),
		int(s.params.sample_aspect_ratio.den)
}

// Width returns the width of the video stream frame.
func (s *VideoStream) Width() int {
	return int(s.params.width)
}

// Height returns the height of the video stream frame.
func (s *VideoStream) Height() int {
	return int(s.params.height)
}

// Open opens the video stream for decoding.
func (s *VideoStream) Open() error {
	return s.open()
}

// OpenConverter creates the conversion context that scales decoded
// pictures to width x height planar YUV 4:2:0. Calling it again once the
// converter exists does nothing.
func (s *VideoStream) OpenConverter(width, height int, alg InterpolationAlgorithm) error {
	if s.swsCtx != nil {
		return nil
	}
	if !s.opened {
		return fmt.Errorf("%w: the stream is not opened for decoding", player.ErrConversionInit)
	}
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return fmt.Errorf("%w: invalid output size %dx%d", player.ErrConversionInit, width, height)
	}

	s.yuvFrame = C.av_frame_alloc()
	if s.yuvFrame == nil {
		return fmt.Errorf("%w: couldn't allocate a new YUV frame", player.ErrConversionInit)
	}

	s.yuvFrame.format = C.AV_PIX_FMT_YUV420P
	s.yuvFrame.width = C.int(width)
	s.yuvFrame.height = C.int(height)

	if r := C.av_frame_get_buffer(s.yuvFrame, frameAlign); r < 0 {
		C.av_frame_free(&s.yuvFrame)
		return statusError(player.ErrConversionInit, r, "allocate the YUV frame buffers")
	}

	s.swsCtx = C.sws_getContext(s.codecCtx.width,
		s.codecCtx.height, s.codecCtx.pix_fmt,
		C.int(width), C.int(height),
		C.AV_PIX_FMT_YUV420P, C.int(alg), nil, nil, nil)
	if s.swsCtx == nil {
		C.av_frame_free(&s.yuvFrame)
		return fmt.Errorf("%w: couldn't create an SWS context", player.ErrConversionInit)
	}

	s.width = width
	s.height = height

	return nil
}

// SendPacket sends a packet read from the media to the decoder.
func (s *VideoStream) SendPacket(pkt *Packet) error {
	if pkt.inner == nil {
		return fmt.Errorf("%w: the packet was released", player.ErrDecode)
	}
	if pkt.streamIndex != s.Index() {
		return fmt.Errorf("%w: packet of stream %d sent to stream %d",
			player.ErrDecode, pkt.streamIndex, s.Index())
	}

	return s.send(pkt.inner)
}

// ReadVideoFrame returns the next decoded picture, or false when the
// decoder needs more packets.
func (s *VideoStream) ReadVideoFrame() (*VideoFrame, bool, error) {
	ok, err := s.receive()
	if err != nil || !ok {
		return nil, false, err
	}

	frame := newVideoFrame(s, int64(s.frame.pts),
		int(s.frame.width), int(s.frame.height), int(s.frame.format))

	return frame, true, nil
}

// Convert scales the most recently decoded picture into the converter
// output and returns views of its three planes. The views are reused by
// the next call.
func (s *VideoStream) Convert() (yuv.Planes, error) {
	if s.swsCtx == nil {
		return yuv.Planes{}, fmt.Errorf("%w: the converter is not open", player.ErrDecode)
	}

	r := C.sws_scale(s.swsCtx, &s.frame.data[0],
		&s.frame.linesize[0], 0,
		s.codecCtx.height,
		&s.yuvFrame.data[0],
		&s.yuvFrame.linesize[0])
	if r <= 0 {
		return yuv.Planes{}, statusError(player.ErrDecode, r, "convert the frame")
	}

	var planes yuv.Planes
	for i := 0; i < 3; i++ {
		rows := s.height
		if i > 0 {
			rows = s.height / 2
		}

		stride := int(s.yuvFrame.linesize[i])
		data := s.yuvFrame.data[i]
		if data == nil || stride <= 0 {
			return yuv.Planes{}, fmt.Errorf("%w: plane %d", yuv.ErrMissingPlane, i)
		}

		planes.Data[i] = unsafe.Slice((*byte)(unsafe.Pointer(data)), stride*rows)
		planes.Stride[i] = stride
	}

	return planes, nil
}

// Close closes the video stream for decoding.
func (s *VideoStream) Close() error {
	if s.swsCtx != nil {
		C.sws_freeContext(s.swsCtx)
		s.swsCtx = nil
	}

	if s.yuvFrame != nil {
		C.av_frame_free(&s.yuvFrame)
		s.yuvFrame = nil
	}

	s.close()

	return nil
}
