package main

import (
	"encoding/hex"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// digestObserver logs a BLAKE2b digest of every n-th produced frame.
type digestObserver struct {
	every  uint64
	frames atomic.Uint64
	log    *logrus.Entry
}

func newDigestObserver(every int, log logrus.FieldLogger) *digestObserver {
	return &digestObserver{
		every: uint64(every),
		log:   log.WithField("function", "digestObserver"),
	}
}

// Observe has the player.FrameObserver signature.
func (o *digestObserver) Observe(data []byte, width, height, pitch int) {
	n := o.frames.Add(1)
	if o.every == 0 || n%o.every != 0 {
		return
	}

	sum := blake2b.Sum256(data)
	o.log.WithFields(logrus.Fields{
		"frame":  n,
		"width":  width,
		"height": height,
		"pitch":  pitch,
		"digest": hex.EncodeToString(sum[:8]),
	}).Info("Frame digest")
}
