package yuv

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvenSize(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		wantW, wantH   int
	}{
		{"already_even", 640, 480, 640, 480},
		{"odd_width", 641, 480, 642, 480},
		{"odd_height", 640, 359, 640, 360},
		{"both_odd", 1, 1, 2, 2},
		{"zero", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := EvenSize(tt.width, tt.height)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
			assert.Zero(t, w%2)
			assert.Zero(t, h%2)
		})
	}
}

// stridedPlanes builds planes where every row is padded up to
// stride bytes with 0xFF and every visible byte carries its plane value.
func stridedPlanes(width, height, pad int, values [3]byte) Planes {
	var planes Planes

	for i := 0; i < 3; i++ {
		rowWidth, rows := width, height
		if i > 0 {
			rowWidth, rows = width/2, height/2
		}

		stride := rowWidth + pad
		plane := bytes.Repeat([]byte{0xFF}, stride*rows)
		for y := 0; y < rows; y++ {
			for x := 0; x < rowWidth; x++ {
				plane[y*stride+x] = values[i]
			}
		}

		planes.Data[i] = plane
		planes.Stride[i] = stride
	}

	return planes
}

func TestPackStripsStride(t *testing.T) {
	planes := stridedPlanes(8, 4, 24, [3]byte{10, 20, 30})

	frame, err := Pack(planes, 8, 4, 42)
	require.NoError(t, err)

	assert.Equal(t, 8, frame.Width)
	assert.Equal(t, 4, frame.Height)
	assert.Equal(t, int64(42), frame.PTS)
	require.Len(t, frame.Data, FrameSize(8, 4))

	y, u, v := frame.Planes()
	assert.Equal(t, bytes.Repeat([]byte{10}, 32), y)
	assert.Equal(t, bytes.Repeat([]byte{20}, 8), u)
	assert.Equal(t, bytes.Repeat([]byte{30}, 8), v)
	assert.NotContains(t, frame.Data, byte(0xFF))
}

func TestPackTightPlanes(t *testing.T) {
	planes := stridedPlanes(4, 2, 0, [3]byte{1, 2, 3})

	frame, err := Pack(planes, 4, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 3, 3}, frame.Data)
}

func TestPackErrors(t *testing.T) {
	valid := stridedPlanes(4, 4, 0, [3]byte{1, 2, 3})

	missing := valid
	missing.Data[2] = nil

	narrow := valid
	narrow.Stride[0] = 2

	short := valid
	short.Data[1] = short.Data[1][:3]

	tests := []struct {
		name   string
		planes Planes
		width  int
		height int
		is     error
	}{
		{"missing_plane", missing, 4, 4, ErrMissingPlane},
		{"odd_width", valid, 3, 4, nil},
		{"zero_height", valid, 4, 0, nil},
		{"stride_too_small", narrow, 4, 4, nil},
		{"plane_too_short", short, 4, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Pack(tt.planes, tt.width, tt.height, 0)
			require.Error(t, err)
			assert.Nil(t, frame)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestFrameRGBA(t *testing.T) {
	frame, err := Pack(stridedPlanes(4, 4, 8, [3]byte{128, 128, 128}), 4, 4, 0)
	require.NoError(t, err)

	img := frame.RGBA(nil)
	require.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())

	for i := 0; i < len(img.Pix); i += 4 {
		assert.Equal(t, []byte{128, 128, 128, 255}, img.Pix[i:i+4])
	}

	// The destination is reused when the size matches.
	again := frame.RGBA(img)
	assert.Same(t, img, again)

	other := frame.RGBA(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	assert.Equal(t, image.Rect(0, 0, 4, 4), other.Bounds())
}
