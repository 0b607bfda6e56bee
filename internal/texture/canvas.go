// Package texture provides pixel buffers, image decoding and the strict
// alpha-mask compositor that turns a painted image into a final texture.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// MaxCanvasSide is the largest width or height a canvas may have.
const MaxCanvasSide = 16384

// Texture errors.
var (
	// ErrCanvas means a pixel buffer could not be created.
	ErrCanvas = errors.New("canvas unavailable")
	// ErrDecode means an external image failed to load or decode.
	ErrDecode = errors.New("image decode failed")
)

// NewCanvas allocates a fully transparent RGBA pixel buffer. Each caller
// owns the returned buffer; nothing is shared between calls.
func NewCanvas(width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 || width > MaxCanvasSide || height > MaxCanvasSide {
		return nil, fmt.Errorf("%w: size %dx%d", ErrCanvas, width, height)
	}
	return image.NewNRGBA(image.Rect(0, 0, width, height)), nil
}

// ToNRGBA converts any image to a non-premultiplied RGBA buffer whose
// bounds start at the origin. Straight (non-premultiplied) channels keep the
// painted RGB intact under partial alpha.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return out
}

// CountOpaque returns the number of pixels with non-zero alpha.
func CountOpaque(img *image.NRGBA) int {
	b := img.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] != 0 {
				n++
			}
		}
	}
	return n
}
