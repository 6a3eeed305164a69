// Package yuv holds the planar 4:2:0 picture layout shared by the decoder
// and the presenters.
package yuv

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ErrMissingPlane is returned by Pack when one of
// the three converted planes is nil.
var ErrMissingPlane = errors.New("converted plane is nil")

// Planes is a strided view over the three planes of a converted
// picture. The memory usually belongs to the converter and is
// only valid until its next conversion.
type Planes struct {
	Data   [3][]byte
	Stride [3]int
}

// Frame is a converted picture: Y, U and V planes packed
// back to back with no padding between rows.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	PTS    int64
}

// EvenSize rounds both dimensions up to the nearest even value,
// as required by 4:2:0 chroma subsampling.
func EvenSize(width, height int) (int, int) {
	return (width + 1) &^ 1, (height + 1) &^ 1
}

// FrameSize returns the packed size in bytes of a
// width x height picture.
func FrameSize(width, height int) int {
	ySize := width * height
	return ySize + ySize/2
}

// Pack copies the planes row by row into a new tightly packed
// frame, dropping the per-row padding the converter may add.
func Pack(planes Planes, width, height int, pts int64) (*Frame, error) {
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	for i, plane := range planes.Data {
		if plane == nil {
			return nil, fmt.Errorf("%w: plane %d", ErrMissingPlane, i)
		}
	}

	data := make([]byte, FrameSize(width, height))
	dst := data

	for i := 0; i < 3; i++ {
		rowWidth, rows := width, height
		if i > 0 {
			rowWidth, rows = width/2, height/2
		}

		stride := planes.Stride[i]
		if stride < rowWidth {
			return nil, fmt.Errorf("plane %d: stride %d is less than row width %d", i, stride, rowWidth)
		}

		src := planes.Data[i]
		if len(src) < stride*(rows-1)+rowWidth {
			return nil, fmt.Errorf("plane %d: %d bytes is too short for %d rows", i, len(src), rows)
		}

		for y := 0; y < rows; y++ {
			copy(dst, src[y*stride:y*stride+rowWidth])
			dst = dst[rowWidth:]
		}
	}

	return &Frame{
		Data:   data,
		Width:  width,
		Height: height,
		PTS:    pts,
	}, nil
}

// Planes returns the Y, U and V planes of the frame.
func (f *Frame) Planes() (y, u, v []byte) {
	ySize := f.Width * f.Height
	cSize := ySize / 4

	return f.Data[:ySize],
		f.Data[ySize : ySize+cSize],
		f.Data[ySize+cSize : ySize+2*cSize]
}

// YCbCr wraps the frame data into an image without copying it.
func (f *Frame) YCbCr() *image.YCbCr {
	y, u, v := f.Planes()

	return &image.YCbCr{
		Y:              y,
		Cb:             u,
		Cr:             v,
		YStride:        f.Width,
		CStride:        f.Width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, f.Width, f.Height),
	}
}

// RGBA converts the frame into dst, allocating a new image when dst
// is nil or has the wrong size.
func (f *Frame) RGBA(dst *image.RGBA) *image.RGBA {
	bounds := image.Rect(0, 0, f.Width, f.Height)
	if dst == nil || dst.Bounds() != bounds {
		dst = image.NewRGBA(bounds)
	}

	draw.Draw(dst, bounds, f.YCbCr(), image.Point{}, draw.Src)

	return dst
}
