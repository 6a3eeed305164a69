package billboard

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erparts/billboard/player"
)

func TestOpenerErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.mp4")

	tests := []struct {
		name string
		path string
		opts Options
		want error
	}{
		{"missing_file", missing, Options{}, player.ErrIO},
		{"unknown_input_format", missing, Options{InputFormat: "no-such-format"}, player.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := Opener(tt.opts)(tt.path)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, dec)
		})
	}
}
