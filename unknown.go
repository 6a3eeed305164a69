package billboard

// UnknownStream is a stream this package does not decode: audio,
// subtitles, data, or a video stream without an available decoder.
type UnknownStream struct {
	baseStream
}

