package billboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNetworkURL(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"test.mp4", false},
		{"/videos/lobby.mkv", false},
		{"file:///videos/lobby.mkv", false},
		{"rtsp://camera.local/stream", true},
		{"https://example.com/clip.mp4", true},
		{"://broken", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNetworkURL(tt.path), tt.path)
	}
}

func TestErrorType(t *testing.T) {
	assert.NotEmpty(t, ErrorEndOfFile.Error())
	assert.NotEqual(t, ErrorAgain.Error(), ErrorEndOfFile.Error())
}
