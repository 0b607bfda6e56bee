package texture

import (
	"image"

	"golang.org/x/image/draw"
)

// ResizeNearest returns src resampled to width x height with
// nearest-neighbour sampling. Images already at the target size are only
// converted, never resampled.
func ResizeNearest(src image.Image, width, height int) (*image.NRGBA, error) {
	b := src.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return ToNRGBA(src), nil
	}
	dst, err := NewCanvas(width, height)
	if err != nil {
		return nil, err
	}
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}
