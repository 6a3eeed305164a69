package player

import (
	"sync"
	"time"

	"github.com/erparts/billboard/yuv"
)

// QueueStats holds the counters of a FrameQueue.
type QueueStats struct {
	Pushed  uint64 // Frames accepted by Push.
	Dropped uint64 // Frames discarded because the queue was full or closed.
	Popped  uint64 // Frames handed out by Pop.
	Len     int    // Frames currently queued.
}

// FrameQueue is a bounded FIFO of converted frames handed from one
// producer to one consumer.
//
// Push never blocks: when the queue is full the frame is dropped.
// Pop waits up to a timeout for a frame. After Close both are rejected
// until Reset.
type FrameQueue struct {
	mu       sync.Mutex
	frames   []*yuv.Frame
	capacity int
	closed   bool
	stats    QueueStats

	// ready carries at most one wake-up for a waiting Pop.
	ready chan struct{}
	// done is closed by Close to wake every waiting Pop.
	done chan struct{}
}

// NewFrameQueue returns an open queue holding at most capacity frames.
func NewFrameQueue(capacity int) *FrameQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}

	return &FrameQueue{
		frames:   make([]*yuv.Frame, 0, capacity),
		capacity: capacity,
		ready:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Cap returns the capacity of the queue.
func (q *FrameQueue) Cap() int {
	return q.capacity
}

// Len returns the number of queued frames.
func (q *FrameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.frames)
}

// Stats returns a snapshot of the queue counters.
func (q *FrameQueue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats := q.stats
	stats.Len = len(q.frames)

	return stats
}

// Push appends the frame and wakes a waiting consumer. It reports
// false when the frame was dropped because the queue is full or closed.
// The caller must not use the frame after a successful Push.
func (q *FrameQueue) Push(frame *yuv.Frame) bool {
	q.mu.Lock()
	if q.closed || len(q.frames) >= q.capacity {
		q.stats.Dropped++
		q.mu.Unlock()
		return false
	}

	q.frames = append(q.frames, frame)
	q.stats.Pushed++
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}

	return true
}

// Pop removes and returns the oldest frame, waiting up to timeout for
// one to arrive. It returns false on timeout or when the queue is closed.
func (q *FrameQueue) Pop(timeout time.Duration) (*yuv.Frame, bool) {
	var timer *time.Timer

	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return nil, false
		}

		if len(q.frames) > 0 {
			frame := q.frames[0]
			q.frames[0] = nil
			q.frames = q.frames[1:]
			q.stats.Popped++
			q.mu.Unlock()

			if timer != nil {
				timer.Stop()
			}

			return frame, true
		}
		done := q.done
		q.mu.Unlock()

		if timer == nil {
			if timeout <= 0 {
				return nil, false
			}

			timer = time.NewTimer(timeout)
			defer timer.Stop()
		}

		select {
		case <-q.ready:
		case <-done:
			return nil, false
		case <-timer.C:
			return nil, false
		}
	}
}

// Close wakes every waiting Pop and rejects further Push and Pop calls.
// Queued frames stay in place until Drain or Reset.
func (q *FrameQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.done)
}

// Closed reports whether the queue has been closed.
func (q *FrameQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.closed
}

// Drain discards every queued frame and returns how many were discarded.
func (q *FrameQueue) Drain() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.frames)
	for i := range q.frames {
		q.frames[i] = nil
	}
	q.frames = q.frames[:0]

	return n
}

// Reset discards every queued frame and reopens the queue. It must not be
// called while a producer or consumer is still using the queue.
func (q *FrameQueue) Reset() {
	q.Drain()

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.closed = false
		q.done = make(chan struct{})
	}

	select {
	case <-q.ready:
	default:
	}
}

// ResetStats zeroes the queue counters.
func (q *FrameQueue) ResetStats() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.stats = QueueStats{}
}
