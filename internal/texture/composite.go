package texture

import (
	"image"
)

// Composite masks a painted image by a template's alpha channel.
//
// The result has the template's size; raw is resampled (nearest neighbour)
// when its size differs. Where the template alpha is zero the output is
// transparent black; everywhere else it is raw's RGB with alpha 255. It is a
// hard binary mask, never a blend.
func Composite(raw, template image.Image) (*image.NRGBA, error) {
	mask := ToNRGBA(template)
	w, h := mask.Rect.Dx(), mask.Rect.Dy()

	paint, err := ResizeNearest(raw, w, h)
	if err != nil {
		return nil, err
	}
	out, err := NewCanvas(w, h)
	if err != nil {
		return nil, err
	}

	for y := 0; y < h; y++ {
		mrow := mask.Pix[y*mask.Stride : y*mask.Stride+w*4]
		prow := paint.Pix[y*paint.Stride : y*paint.Stride+w*4]
		orow := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for i := 0; i < len(mrow); i += 4 {
			if mrow[i+3] == 0 {
				// NewCanvas is zeroed; leave transparent black.
				continue
			}
			orow[i] = prow[i]
			orow[i+1] = prow[i+1]
			orow[i+2] = prow[i+2]
			orow[i+3] = 255
		}
	}
	return out, nil
}
