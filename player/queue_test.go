package player

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erparts/billboard/yuv"
)

func testFrame(pts int64) *yuv.Frame {
	return &yuv.Frame{
		Data:   make([]byte, yuv.FrameSize(2, 2)),
		Width:  2,
		Height: 2,
		PTS:    pts,
	}
}

func TestNewFrameQueue(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{"explicit", 3, 3},
		{"zero_uses_default", 0, DefaultQueueCapacity},
		{"negative_uses_default", -1, DefaultQueueCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewFrameQueue(tt.capacity)
			assert.Equal(t, tt.want, q.Cap())
			assert.Zero(t, q.Len())
			assert.False(t, q.Closed())
		})
	}
}

func TestFrameQueueFIFO(t *testing.T) {
	q := NewFrameQueue(4)

	for i := int64(0); i < 4; i++ {
		require.True(t, q.Push(testFrame(i)))
	}

	for i := int64(0); i < 4; i++ {
		frame, ok := q.Pop(time.Millisecond)
		require.True(t, ok)
		assert.Equal(t, i, frame.PTS)
	}

	assert.Zero(t, q.Len())
}

func TestFrameQueueDropsWhenFull(t *testing.T) {
	q := NewFrameQueue(DefaultQueueCapacity)

	for i := int64(0); i < 25; i++ {
		pushed := q.Push(testFrame(i))
		assert.Equal(t, i < DefaultQueueCapacity, pushed, "frame %d", i)
		assert.LessOrEqual(t, q.Len(), DefaultQueueCapacity)
	}

	stats := q.Stats()
	assert.Equal(t, uint64(DefaultQueueCapacity), stats.Pushed)
	assert.Equal(t, uint64(15), stats.Dropped)
	assert.Equal(t, DefaultQueueCapacity, stats.Len)

	// The oldest frames survive; the dropped ones are the newest.
	frame, ok := q.Pop(time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, int64(0), frame.PTS)
}

func TestFrameQueuePopTimeout(t *testing.T) {
	q := NewFrameQueue(2)

	start := time.Now()
	frame, ok := q.Pop(30 * time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.Nil(t, frame)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	assert.Less(t, elapsed, time.Second)

	frame, ok = q.Pop(0)
	assert.False(t, ok)
	assert.Nil(t, frame)
}

func TestFrameQueuePopWakesOnPush(t *testing.T) {
	q := NewFrameQueue(2)

	go func() {
		time.Sleep(10 * time.Millisecond)
		q.Push(testFrame(7))
	}()

	start := time.Now()
	frame, ok := q.Pop(time.Second)
	require.True(t, ok)
	assert.Equal(t, int64(7), frame.PTS)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestFrameQueueCloseWakesWaiters(t *testing.T) {
	q := NewFrameQueue(2)

	var wg sync.WaitGroup
	results := make(chan bool, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := q.Pop(5 * time.Second)
			results <- ok
		}()
	}

	time.Sleep(10 * time.Millisecond)
	start := time.Now()
	q.Close()
	wg.Wait()
	close(results)

	assert.Less(t, time.Since(start), time.Second)
	for ok := range results {
		assert.False(t, ok)
	}
}

func TestFrameQueueClosedRejects(t *testing.T) {
	q := NewFrameQueue(3)
	require.True(t, q.Push(testFrame(1)))

	q.Close()
	q.Close()

	assert.True(t, q.Closed())
	assert.False(t, q.Push(testFrame(2)))

	frame, ok := q.Pop(time.Millisecond)
	assert.False(t, ok)
	assert.Nil(t, frame)

	// Queued frames wait for Drain.
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 1, q.Drain())
	assert.Zero(t, q.Len())
	assert.Equal(t, uint64(1), q.Stats().Dropped)
}

func TestFrameQueueReset(t *testing.T) {
	q := NewFrameQueue(3)
	q.Push(testFrame(1))
	q.Push(testFrame(2))
	q.Close()

	q.Reset()

	assert.False(t, q.Closed())
	assert.Zero(t, q.Len())
	require.True(t, q.Push(testFrame(3)))

	frame, ok := q.Pop(time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, int64(3), frame.PTS)

	q.ResetStats()
	assert.Equal(t, QueueStats{}, q.Stats())
}

func TestFrameQueueConcurrentBound(t *testing.T) {
	q := NewFrameQueue(DefaultQueueCapacity)
	done := make(chan struct{})

	var maxLen int
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := int64(0); i < 2000; i++ {
			q.Push(testFrame(i))
			if n := q.Len(); n > maxLen {
				maxLen = n
			}
		}
		close(done)
	}()

	var popped []int64
	go func() {
		defer wg.Done()
		for {
			frame, ok := q.Pop(5 * time.Millisecond)
			if ok {
				popped = append(popped, frame.PTS)
				continue
			}

			select {
			case <-done:
				if q.Len() == 0 {
					return
				}
			default:
			}
		}
	}()

	wg.Wait()

	assert.LessOrEqual(t, maxLen, DefaultQueueCapacity)
	stats := q.Stats()
	assert.Equal(t, uint64(2000), stats.Pushed+stats.Dropped)
	assert.Equal(t, stats.Pushed, stats.Popped)
	assert.True(t, isIncreasing(popped), "frames must come out in push order")
}

func isIncreasing(values []int64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return false
		}
	}

	return true
}
