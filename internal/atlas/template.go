package atlas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/Faultbox/voxelsmith/internal/texture"
	"github.com/Faultbox/voxelsmith/pkg/formats"
)

// Face is one side of a cube in box-UV order.
type Face int

// Faces in the order they are drawn and assigned key colors.
const (
	FaceTop Face = iota
	FaceBottom
	FaceFront
	FaceRight
	FaceLeft
	FaceBack
)

// Faces lists every face in drawing order.
var Faces = [6]Face{FaceTop, FaceBottom, FaceFront, FaceRight, FaceLeft, FaceBack}

var faceNames = [...]string{
	FaceTop:    "top",
	FaceBottom: "bottom",
	FaceFront:  "front",
	FaceRight:  "right",
	FaceLeft:   "left",
	FaceBack:   "back",
}

// String returns the face name used in labels.
func (f Face) String() string {
	if f >= 0 && int(f) < len(faceNames) {
		return faceNames[f]
	}
	return fmt.Sprintf("face(%d)", int(f))
}

// FaceRect returns the rectangle of face f relative to the footprint's
// top-left corner, for scaled cube dimensions sw, sh, sd.
//
//	    sd    sw    sd    sw
//	  +-----+-----+-----+
//	sd|     | top |bottom|
//	  +-----+-----+-----+-----+
//	sh|right|front|left |back |
//	  +-----+-----+-----+-----+
func FaceRect(f Face, sw, sh, sd float64) (x, y, w, h float64) {
	switch f {
	case FaceTop:
		return sd, 0, sw, sd
	case FaceBottom:
		return sd + sw, 0, sw, sd
	case FaceFront:
		return sd, sd, sw, sh
	case FaceRight:
		return 0, sd, sd, sh
	case FaceLeft:
		return sd + sw, sd, sd, sh
	case FaceBack:
		return 2*sd + sw, sd, sw, sh
	}
	return 0, 0, 0, 0
}

// pixelRect floors the origin and ceils the extent so neighbouring faces
// never leave unfilled gaps.
func pixelRect(x, y, w, h float64) image.Rectangle {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	return image.Rect(x0, y0, x0+int(math.Ceil(w)), y0+int(math.Ceil(h)))
}

// Region is one drawn face.
type Region struct {
	Label string
	Color color.NRGBA
	Rect  image.Rectangle // clipped to the canvas
	Bone  int
	Cube  int
	Face  Face
}

// ColorMap maps "#RRGGBB" key colors to "<bone>.<face>" labels.
type ColorMap map[string]string

// Template is a rendered color-keyed atlas.
type Template struct {
	Image   *image.NRGBA
	Colors  ColorMap
	Regions []Region // in drawing order
	Layout  *Layout
}

// FaceCount returns the number of faces drawn.
func (t *Template) FaceCount() int {
	return len(t.Regions)
}

// Wrapped reports whether more faces were drawn than there are distinct key
// colors, in which case some colors are shared.
func (t *Template) Wrapped() bool {
	return len(t.Regions) > ColorCapacity
}

// Label returns the semantic label for a face. Bones owning several cubes
// get the cube index appended to the bone name.
func Label(m *formats.Model, bone, cube int, f Face) string {
	b := &m.Bones[bone]
	if len(b.Cubes) > 1 {
		return fmt.Sprintf("%s_%d.%s", b.Name, cube, f)
	}
	return fmt.Sprintf("%s.%s", b.Name, f)
}

// Render draws the six key-colored faces of every cube in layout order.
//
// Render takes ownership of m for the duration of the call and rewrites it:
// every cube's UV becomes its placement, and the texture size becomes the
// layout resolution, so the geometry re-exports consistently with the atlas.
func Render(m *formats.Model, layout *Layout) (*Template, error) {
	img, err := texture.NewCanvas(layout.Resolution, layout.Resolution)
	if err != nil {
		return nil, err
	}

	t := &Template{
		Image:   img,
		Colors:  make(ColorMap, len(layout.Items)*len(Faces)),
		Regions: make([]Region, 0, len(layout.Items)*len(Faces)),
		Layout:  layout,
	}

	s := layout.Scale
	faceIndex := 0
	for i, it := range layout.Items {
		pos := layout.Placements[i]
		cube := &m.Bones[it.Bone].Cubes[it.Cube]
		cube.UV = [2]int{pos.X, pos.Y}

		sw, sh, sd := it.Size[0]*s, it.Size[1]*s, it.Size[2]*s
		for _, f := range Faces {
			fx, fy, fw, fh := FaceRect(f, sw, sh, sd)
			r := pixelRect(float64(pos.X)+fx, float64(pos.Y)+fy, fw, fh).Intersect(img.Rect)

			c := KeyColor(faceIndex)
			faceIndex++
			label := Label(m, it.Bone, it.Cube, f)
			t.Colors[Hex(c)] = label
			t.Regions = append(t.Regions, Region{
				Label: label,
				Color: c,
				Rect:  r,
				Bone:  it.Bone,
				Cube:  it.Cube,
				Face:  f,
			})
			draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
		}
	}

	m.TextureWidth = layout.Resolution
	m.TextureHeight = layout.Resolution
	return t, nil
}

// Generate packs m and renders its template in one call.
func Generate(m *formats.Model, opts Options) (*Template, error) {
	layout, err := Pack(m, opts)
	if err != nil {
		return nil, err
	}
	return Render(m, layout)
}
