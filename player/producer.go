package player

import (
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/erparts/billboard/yuv"
)

const (
	// frameLogInterval is how many frames pass between two progress log lines.
	frameLogInterval = 30
	// retryDelay is the wait after the demuxer had no packet ready.
	retryDelay = 10 * time.Millisecond
)

// producer is the state of one decode goroutine.
type producer struct {
	c        *Controller
	s        *session
	dec      Decoder
	log      *logrus.Entry
	index    int
	width    int
	height   int
	interval time.Duration
	frames   uint64
}

// frameInterval returns the pacing delay between two frames,
// or 0 when the frame rate is unknown.
func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}

	return time.Duration(float64(time.Second) / fps)
}

// produce decodes the stream until stop is requested, looping back to
// the start at the end of the input.
func (c *Controller) produce(s *session, dec Decoder) {
	defer c.workerDone(s, "producer")

	desc := dec.Stream()
	width, height := yuv.EvenSize(desc.Width, desc.Height)

	p := &producer{
		c:   c,
		s:   s,
		dec: dec,
		log: c.log.WithFields(logrus.Fields{
			"function": "produce",
			"session":  s.id,
		}),
		index:    desc.Index,
		width:    width,
		height:   height,
		interval: frameInterval(desc.FrameRate),
	}

	if err := dec.OpenConverter(width, height); err != nil {
		p.log.WithError(err).Error("Cannot create conversion context, no frames will be produced")
		return
	}

	p.log.WithFields(logrus.Fields{
		"source_width":  desc.Width,
		"source_height": desc.Height,
		"target_width":  width,
		"target_height": height,
	}).Info("Producer started")

	p.run()

	p.log.WithField("frames", p.frames).Info("Producer stopped")
}

func (p *producer) run() {
	for !p.c.stopRequested.Load() {
		if p.c.paused.Load() {
			p.s.sleep(p.c.opts.PausePoll)
			continue
		}

		pkt, err := p.dec.ReadPacket()
		switch {
		case errors.Is(err, io.EOF):
			p.log.WithField("frames", p.frames).Info("End of stream, rewinding")
			if err := p.dec.Rewind(); err != nil {
				p.log.WithError(err).Error("Cannot rewind stream")
				return
			}
			continue

		case err != nil:
			p.log.WithError(err).Error("Cannot read packet")
			return

		case pkt == nil:
			p.s.sleep(retryDelay)
			continue
		}

		if pkt.StreamIndex() != p.index {
			pkt.Release()
			continue
		}

		err = p.dec.SendPacket(pkt)
		pkt.Release()
		if err != nil {
			p.c.decodeErrors.Add(1)
			p.log.WithError(err).Warn("Skipping packet")
			continue
		}

		p.drain()
	}
}

// drain emits every picture the decoder has ready.
func (p *producer) drain() {
	for !p.c.stopRequested.Load() {
		pic, ok, err := p.dec.ReceivePicture()
		if err != nil {
			p.c.decodeErrors.Add(1)
			p.log.WithError(err).Warn("Cannot receive picture")
			return
		}
		if !ok {
			return
		}

		p.emit(pic)
	}
}

// emit converts one picture, queues it, notifies the observer and
// sleeps for one frame interval.
func (p *producer) emit(pic Picture) {
	if p.frames == 0 {
		fields := logrus.Fields{
			"width":  pic.Width(),
			"height": pic.Height(),
		}
		if pf, ok := pic.(interface{ PixelFormat() string }); ok {
			fields["pixel_format"] = pf.PixelFormat()
		}
		if po, ok := pic.(interface{ PresentationOffset() time.Duration }); ok {
			fields["offset"] = po.PresentationOffset()
		}
		p.log.WithFields(fields).Debug("First picture decoded")
	}

	planes, err := p.dec.Convert(pic)
	if err != nil {
		p.c.decodeErrors.Add(1)
		p.log.WithError(err).Warn("Cannot convert picture")
		return
	}

	if p.frames == 0 {
		p.log.WithField("strides", planes.Stride).Debug("First picture converted")
	}

	frame, err := yuv.Pack(planes, p.width, p.height, pic.PTS())
	if err != nil {
		p.c.decodeErrors.Add(1)
		p.log.WithError(err).Error("Converted picture is unusable")
		return
	}

	p.c.framesDecoded.Add(1)
	p.c.queue.Push(frame)

	if observer := p.c.observer.Load(); observer != nil {
		(*observer)(frame.Data, frame.Width, frame.Height, frame.Width)
	}

	p.frames++
	if p.frames%frameLogInterval == 0 {
		p.log.WithField("frames", p.frames).Debug("Frames decoded")
	}

	p.s.sleep(p.interval)
}
