package player

import "errors"

// Load errors.
var (
	// ErrIO indicates the media file could not be opened.
	ErrIO = errors.New("cannot open media")

	// ErrFormat indicates container or stream metadata could not be read.
	ErrFormat = errors.New("cannot read stream information")

	// ErrStreamNotFound indicates the media has no video stream.
	ErrStreamNotFound = errors.New("no video stream found")

	// ErrUnsupportedCodec indicates no decoder is available for the video stream.
	ErrUnsupportedCodec = errors.New("unsupported codec")

	// ErrDecoderInit indicates the decoder could not be opened.
	ErrDecoderInit = errors.New("decoder initialization failed")
)

// Pipeline errors.
var (
	// ErrConversionInit indicates the scale/convert context could not be
	// created. It stops the producer.
	ErrConversionInit = errors.New("conversion initialization failed")

	// ErrDecode indicates a single packet or picture could not be decoded
	// or converted. The producer skips it and continues.
	ErrDecode = errors.New("decode failed")

	// ErrPresentationInit indicates the window, renderer or texture could
	// not be created.
	ErrPresentationInit = errors.New("presentation initialization failed")
)

// Control errors.
var (
	// ErrNotLoaded indicates Play was called before a successful Load.
	ErrNotLoaded = errors.New("no media loaded")

	// ErrNotPlaying indicates Pause was called while not playing.
	ErrNotPlaying = errors.New("not playing")

	// ErrClosed indicates the controller has been closed.
	ErrClosed = errors.New("controller closed")
)
