package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameInterval(t *testing.T) {
	tests := []struct {
		fps  float64
		want time.Duration
	}{
		{30, 33333333 * time.Nanosecond},
		{25, 40 * time.Millisecond},
		{60, 16666666 * time.Nanosecond},
		{0, 0},
		{-1, 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, float64(tt.want), float64(frameInterval(tt.fps)), 1, "fps %v", tt.fps)
	}
}

func TestSessionSleepWakesOnStop(t *testing.T) {
	s := newSession()
	assert.NotEmpty(t, s.id)
	assert.True(t, s.sleep(0))
	assert.True(t, s.sleep(time.Millisecond))

	go func() {
		time.Sleep(10 * time.Millisecond)
		s.signal()
		s.signal()
	}()

	start := time.Now()
	assert.False(t, s.sleep(5*time.Second))
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, s.sleep(time.Second), "a stopped session never sleeps")
}
