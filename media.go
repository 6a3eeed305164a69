package billboard

// #cgo pkg-config: libavformat libavcodec libavutil libswscale libavdevice
// #include <stdlib.h>
// #include <libavcodec/avcodec.h>
// #include <libavformat/avformat.h>
// #include <libavutil/avconfig.h>
// #include <libswscale/swscale.h>
// #include <libavdevice/avdevice.h>
import "C"

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
	"unsafe"

	"github.com/erparts/billboard/player"
)

// Media is a media file containing video and other types of streams.
type Media struct {
	ctx     *C.AVFormatContext
	packet  *C.AVPacket
	opts    *Options
	streams []Stream
}

// Options contains the options for the media.
type Options struct {
	// InputFormat short name of the input format.
	InputFormat string

	// Timeout for NewMediaWithOptions when trying to connect to streams.
	Timeout time.Duration
}

// NewMediaWithOptions returns a new media container for the specified media file
// using the specified options.
//
// Errors wrap player.ErrIO when the file cannot be opened and
// player.ErrFormat when its stream information cannot be read.
func NewMediaWithOptions(filename string, opts *Options) (*Media, error) {
	media := &Media{
		ctx:  C.avformat_alloc_context(),
		opts: opts,
	}

	if media.ctx == nil {
		return nil, fmt.Errorf("%w: couldn't create a new media context", player.ErrIO)
	}

	var inputFormat *C.AVInputFormat
	var dict *C.AVDictionary
	defer C.av_dict_free(&dict)

	if opts != nil {
		if opts.InputFormat != "" {
			C.avdevice_register_all()

			cInputFormat := C.CString(opts.InputFormat)
			defer C.free(unsafe.Pointer(cInputFormat))
			inputFormat = C.av_find_input_format(cInputFormat)
			if inputFormat == nil {
				C.avformat_free_context(media.ctx)
				return nil, fmt.Errorf("%w: couldn't find input format %q", player.ErrFormat, opts.InputFormat)
			}
		}
		if opts.Timeout != 0 {
			cTimeout := C.CString(strconv.FormatInt(opts.Timeout.Microseconds(), 10))
			defer C.free(unsafe.Pointer(cTimeout))
			setOption(&dict, "stimeout", cTimeout) // rtsp
			setOption(&dict, "timeout", cTimeout)  // tcp/http
		}
	}

	fname := C.CString(filename)
	defer C.free(unsafe.Pointer(fname))

	// avformat_open_input frees the context on failure.
	if r := C.avformat_open_input(&media.ctx, fname, inputFormat, &dict); r < 0 {
		return nil, statusError(player.ErrIO, r, "open file "+filename)
	}

	if err := media.findStreams(); err != nil {
		media.Close()
		return nil, err
	}

	return media, nil
}

func setOption(dict **C.AVDictionary, key string, value *C.char) {
	cKey := C.CString(key)
	defer C.free(unsafe.Pointer(cKey))

	C.av_dict_set(dict, cKey, value, 0)
}

// Streams returns a slice of all the available media data streams.
func (m *Media) Streams() []Stream {
	streams := make([]Stream, len(m.streams))
	copy(streams, m.streams)

	return streams
}

// VideoStreams returns all the decodable video streams of the media file.
func (m *Media) VideoStreams() []*VideoStream {
	videoStreams := []*VideoStream{}

	for _, stream := range m.streams {
		if videoStream, ok := stream.(*VideoStream); ok {
			videoStreams = append(videoStreams, videoStream)
		}
	}

	return videoStreams
}

// Duration returns the overall duration
// of the media file, or 0 when it is unknown.
func (m *Media) Duration() time.Duration {
	dur := int64(m.ctx.duration)
	if dur <= 0 {
		return 0
	}

	return time.Duration(dur) * time.Second / time.Duration(TimeBase)
}

// FormatName returns the name of the media format.
func (m *Media) FormatName() string {
	if m.ctx.iformat.name == nil {
		return ""
	}

	return C.GoString(m.ctx.iformat.name)
}

// FormatLongName returns the long name
// of the media container.
func (m *Media) FormatLongName() string {
	if m.ctx.iformat.long_name == nil {
		return ""
	}

	return C.GoString(m.ctx.iformat.long_name)
}

// findStreams retrieves the stream information
// from the media container.
func (m *Media) findStreams() error {
	streams := []Stream{}

	if r := C.avformat_find_stream_info(m.ctx, nil); r < 0 {
		return statusError(player.ErrFormat, r, "find stream information")
	}

	innerStreams := unsafe.Slice(m.ctx.streams, m.ctx.nb_streams)

	for _, innerStream := range innerStreams {
		codecParams := innerStream.codecpar
		codec := C.avcodec_find_decoder(codecParams.codec_id)

		base := baseStream{
			media:  m,
			inner:  innerStream,
			params: codecParams,
			codec:  codec,
		}

		if codec != nil && codecParams.codec_type == C.AVMEDIA_TYPE_VIDEO {
			streams = append(streams, &VideoStream{baseStream: base})
			continue
		}

		streams = append(streams, &UnknownStream{baseStream: base})
	}

	m.streams = streams
	return nil
}

// OpenDecode opens the media container for decoding.
//
// CloseDecode() should be called afterwards.
func (m *Media) OpenDecode() error {
	m.packet = C.av_packet_alloc()

	if m.packet == nil {
		return fmt.Errorf("%w: couldn't allocate a new packet", player.ErrDecoderInit)
	}

	return nil
}

// ErrNoPacket is returned by ReadPacket when the demuxer has no packet
// ready yet and the call should be retried.
var ErrNoPacket = errors.New("no packet available")

// ReadPacket reads the next packet from the media.
//
// It returns io.EOF at the end of the input and ErrNoPacket when the
// demuxer asks to try again. The packet is valid until Release is called
// or the next packet is read.
func (m *Media) ReadPacket() (*Packet, error) {
	if r := C.av_read_frame(m.ctx, m.packet); r < 0 {
		switch ErrorType(r) {
		case ErrorAgain:
			return nil, ErrNoPacket
		case ErrorEndOfFile:
			return nil, io.EOF
		}

		return nil, statusError(player.ErrIO, r, "read the next packet")
	}

	return newPacket(m, m.packet), nil
}

// CloseDecode closes the media container for decoding.
func (m *Media) CloseDecode() error {
	if m.packet != nil {
		C.av_packet_free(&m.packet)
		m.packet = nil
	}

	return nil
}

// Close closes the media container.
func (m *Media) Close() {
	if m.ctx == nil {
		return
	}

	C.avformat_close_input(&m.ctx)
	m.ctx = nil
}
