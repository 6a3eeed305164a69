// Package player implements the playback pipeline of a single video stream.
//
// A Controller owns one decoding session and runs two goroutines while
// playing:
//
//	Decoder → convert → FrameQueue → Surface
//	(producer)                       (presenter)
//
// The producer reads packets, decodes pictures, converts them to packed
// planar 4:2:0 frames and pushes them into a bounded FrameQueue. The
// presenter polls window events, pops frames and renders them. When the
// queue is full new frames are dropped; when it is empty the presenter
// simply renders nothing for that tick.
//
// The playing, paused, stop-requested and surface-open flags are atomic
// liveness hints shared by the control caller and both goroutines. They are
// never used for mutual exclusion; only the FrameQueue is lock protected.
//
// Teardown always runs in the same order: signal stop, wake queue waiters,
// join both goroutines, close the Surface, close the Decoder, drain the queue.
package player
