package billboard

// #cgo pkg-config: libavcodec
// #include <libavcodec/avcodec.h>
import "C"

// Packet is a compressed data packet read from the media. It refers to
// the media's packet buffer, so only one Packet is valid at a time.
type Packet struct {
	media       *Media
	inner       *C.AVPacket
	streamIndex int
}

func newPacket(media *Media, inner *C.AVPacket) *Packet {
	return &Packet{
		media:       media,
		inner:       inner,
		streamIndex: int(inner.stream_index),
	}
}

// StreamIndex returns the index of the stream the packet belongs to.
func (p *Packet) StreamIndex() int {
	return p.streamIndex
}

// Release unreferences the packet data. It is safe to call more than once.
func (p *Packet) Release() {
	if p.inner == nil {
		return
	}

	C.av_packet_unref(p.inner)
	p.inner = nil
}
