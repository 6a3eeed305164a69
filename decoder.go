package billboard

import (
	"errors"
	"fmt"

	"github.com/erparts/billboard/player"
	"github.com/erparts/billboard/yuv"
)

// Decoder decodes the first video stream of a media file into planar
// YUV 4:2:0 pictures. It implements player.Decoder.
type Decoder struct {
	media  *Media
	stream *VideoStream
	desc   player.StreamDescriptor
	closed bool
}

var _ player.Decoder = (*Decoder)(nil)

// Opener returns a player.OpenFunc that opens media with opts. Network
// URLs get a connection timeout unless opts sets one.
func Opener(opts Options) player.OpenFunc {
	return func(path string) (player.Decoder, error) {
		dec, err := NewDecoder(path, opts)
		if err != nil {
			return nil, err
		}

		return dec, nil
	}
}

// NewDecoder opens path, selects its first decodable video stream and
// opens a decoder for it. Everything acquired is released on failure.
func NewDecoder(path string, opts Options) (*Decoder, error) {
	if opts.Timeout == 0 && IsNetworkURL(path) {
		opts.Timeout = networkTimeout
	}

	media, err := NewMediaWithOptions(path, &opts)
	if err != nil {
		return nil, err
	}

	stream, err := selectVideoStream(media)
	if err != nil {
		media.Close()
		return nil, err
	}

	if err := stream.Open(); err != nil {
		media.Close()
		return nil, err
	}

	if err := media.OpenDecode(); err != nil {
		stream.Close()
		media.Close()
		return nil, err
	}

	return &Decoder{
		media:  media,
		stream: stream,
		desc:   describe(media, stream),
	}, nil
}

func selectVideoStream(media *Media) (*VideoStream, error) {
	if streams := media.VideoStreams(); len(streams) > 0 {
		return streams[0], nil
	}

	for _, stream := range media.Streams() {
		if stream.Type() == StreamVideo {
			return nil, fmt.Errorf("%w: no decoder for video stream %d", player.ErrUnsupportedCodec, stream.Index())
		}
	}

	return nil, player.ErrStreamNotFound
}

func describe(media *Media, stream *VideoStream) player.StreamDescriptor {
	desc := player.StreamDescriptor{
		Index:          stream.Index(),
		Width:          stream.Width(),
		Height:         stream.Height(),
		DurationMS:     media.Duration().Milliseconds(),
		FrameCount:     stream.FrameCount(),
		BitRate:        stream.BitRate(),
		Codec:          stream.CodecName(),
		CodecLongName:  stream.CodecLongName(),
		Format:         media.FormatName(),
		FormatLongName: media.FormatLongName(),
	}

	if num, den := stream.FrameRate(); num > 0 && den > 0 {
		desc.FrameRate = float64(num) / float64(den)
	}

	num, den := stream.TimeBase()
	desc.TimeBase = player.Rational{Num: num, Den: den}

	if num, den := stream.AspectRatio(); num > 0 && den > 0 {
		desc.AspectRatio = player.Rational{Num: num, Den: den}
	}

	return desc
}

// Stream returns the descriptor of the decoded video stream.
func (d *Decoder) Stream() player.StreamDescriptor {
	return d.desc
}

// ReadPacket returns the next packet of any stream. A nil packet with a
// nil error means nothing was ready.
func (d *Decoder) ReadPacket() (player.Packet, error) {
	pkt, err := d.media.ReadPacket()
	if errors.Is(err, ErrNoPacket) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return pkt, nil
}

// SendPacket sends a packet returned by ReadPacket to the video decoder.
func (d *Decoder) SendPacket(pkt player.Packet) error {
	p, ok := pkt.(*Packet)
	if !ok || p.media != d.media {
		return fmt.Errorf("%w: foreign packet", player.ErrDecode)
	}

	return d.stream.SendPacket(p)
}

// ReceivePicture returns the next decoded picture, if any.
func (d *Decoder) ReceivePicture() (player.Picture, bool, error) {
	frame, ok, err := d.stream.ReadVideoFrame()
	if err != nil || !ok {
		return nil, false, err
	}

	return frame, true, nil
}

// Rewind seeks the media back to its start.
func (d *Decoder) Rewind() error {
	return d.stream.Rewind(0)
}

// OpenConverter creates the YUV 4:2:0 converter with bicubic scaling.
func (d *Decoder) OpenConverter(width, height int) error {
	return d.stream.OpenConverter(width, height, InterpolationBicubic)
}

// Convert converts pic, which must be the last picture returned by
// ReceivePicture.
func (d *Decoder) Convert(pic player.Picture) (yuv.Planes, error) {
	if _, ok := pic.(*VideoFrame); !ok {
		return yuv.Planes{}, fmt.Errorf("%w: foreign picture", player.ErrDecode)
	}

	return d.stream.Convert()
}

// Close releases the converter, the codec context and the media, in
// that order. It is safe to call more than once.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	err := d.stream.Close()
	if cerr := d.media.CloseDecode(); err == nil {
		err = cerr
	}
	d.media.Close()

	return err
}
