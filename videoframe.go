package billboard

// #cgo pkg-config: libavutil
// #include <libavutil/pixdesc.h>
import "C"
import (
	"time"
)

// VideoFrame is a decoded picture of a video stream. Its pixels stay in
// the decoder and are only valid until the next picture is received.
type VideoFrame struct {
	stream        Stream
	pts           int64
	width, height int
	format        int
}

// newVideoFrame creates a new video frame.
func newVideoFrame(stream Stream, pts int64, width, height, format int) *VideoFrame {
	return &VideoFrame{
		stream: stream,
		pts:    pts,
		width:  width,
		height: height,
		format: format,
	}
}

// PTS returns the presentation timestamp in stream time base units.
func (f *VideoFrame) PTS() int64 {
	return f.pts
}

// PresentationOffset returns the duration offset
// since the start of the media at which the frame
// should be played.
func (f *VideoFrame) PresentationOffset() time.Duration {
	tbNum, tbDen := f.stream.TimeBase()
	if tbDen == 0 {
		return 0
	}

	return time.Second * time.Duration(tbNum) * time.Duration(f.pts) / time.Duration(tbDen)
}

// Width returns the width of the decoded picture.
func (f *VideoFrame) Width() int {
	return f.width
}

// Height returns the height of the decoded picture.
func (f *VideoFrame) Height() int {
	return f.height
}

// PixelFormat returns the name of the decoder pixel format, or an empty
// string when libav does not know it.
func (f *VideoFrame) PixelFormat() string {
	name := C.av_get_pix_fmt_name(C.enum_AVPixelFormat(f.format))
	if name == nil {
		return ""
	}

	return C.GoString(name)
}
