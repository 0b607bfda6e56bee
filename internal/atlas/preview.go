package atlas

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Faultbox/voxelsmith/internal/texture"
)

// previewScale is how much a small template is enlarged before labels are
// drawn. Larger templates get less, down to 1, so the preview side stays
// within previewMaxSide.
const (
	previewScale   = 4
	previewMaxSide = 4096
)

func previewScaleFor(side int) int {
	s := previewScale
	for s > 1 && side*s > previewMaxSide {
		s /= 2
	}
	return s
}

// labelText picks what to print in a w by h face: the full label when it
// fits, otherwise just the face name.
func labelText(r Region, face font.Face, w, h int) (string, int, bool) {
	if face.Metrics().Height.Ceil()+2 > h {
		return "", 0, false
	}
	for _, text := range []string{r.Label, r.Face.String()} {
		if text == "" {
			continue
		}
		if width := font.MeasureString(face, text).Ceil(); width+2 <= w {
			return text, width, true
		}
	}
	return "", 0, false
}

// Annotate returns an enlarged copy of the template with each face label
// printed inside its rectangle, for people to inspect. Faces too small for
// any text stay blank. The result is never fed to the compositor.
func Annotate(t *Template) (*image.NRGBA, error) {
	src := t.Image
	b := src.Bounds()
	scale := previewScaleFor(max(b.Dx(), b.Dy()))
	out, err := texture.NewCanvas(b.Dx()*scale, b.Dy()*scale)
	if err != nil {
		return nil, err
	}
	draw.Draw(out, out.Bounds(), image.NewUniform(color.NRGBA{A: 255}), image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(out, out.Bounds(), src, b, draw.Over, nil)

	face := basicfont.Face7x13
	for _, r := range t.Regions {
		rect := image.Rect(r.Rect.Min.X*scale, r.Rect.Min.Y*scale,
			r.Rect.Max.X*scale, r.Rect.Max.Y*scale)

		text, width, ok := labelText(r, face, rect.Dx(), rect.Dy())
		if !ok {
			continue
		}
		d := &font.Drawer{
			Dst:  out,
			Src:  image.NewUniform(labelInk(r.Color)),
			Face: face,
			Dot: fixed.P(
				rect.Min.X+(rect.Dx()-width)/2,
				rect.Min.Y+(rect.Dy()+face.Metrics().Ascent.Ceil())/2,
			),
		}
		d.DrawString(text)
	}
	return out, nil
}

// labelInk picks black or white text for legibility on c.
func labelInk(c color.NRGBA) color.NRGBA {
	lum := 299*int(c.R) + 587*int(c.G) + 114*int(c.B)
	if lum > 128*1000 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
}
