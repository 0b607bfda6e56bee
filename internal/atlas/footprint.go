package atlas

import (
	"math"

	"github.com/Faultbox/voxelsmith/pkg/formats"
)

// ScaleFactor returns max(1, resolution/baseWidth): how many atlas pixels
// one model texel occupies.
func ScaleFactor(resolution, baseWidth int) float64 {
	if baseWidth <= 0 {
		baseWidth = formats.DefaultTextureWidth
	}
	s := float64(resolution) / float64(baseWidth)
	if s < 1 {
		return 1
	}
	return s
}

// Footprint returns the unfolded box-UV size of a cube of size (w, h, d) at
// scale s: width ceil(2*(d+w)*s), height ceil((d+h)*s).
func Footprint(size [3]float64, s float64) (width, height int) {
	w, h, d := size[0], size[1], size[2]
	return int(math.Ceil(2 * (d + w) * s)), int(math.Ceil((d + h) * s))
}

// Item is one cube queued for packing.
type Item struct {
	Bone     int // index into Model.Bones
	Cube     int // index into Bone.Cubes
	BoneName string
	Size     [3]float64
	W, H     int // footprint at the current scale
}

// collectItems lists every cube in bone-then-cube encounter order.
func collectItems(m *formats.Model) []Item {
	items := make([]Item, 0, m.CubeCount())
	for bi := range m.Bones {
		b := &m.Bones[bi]
		for ci := range b.Cubes {
			items = append(items, Item{
				Bone:     bi,
				Cube:     ci,
				BoneName: b.Name,
				Size:     b.Cubes[ci].Size,
			})
		}
	}
	return items
}

// measure recomputes every footprint at scale s.
func measure(items []Item, s float64) {
	for i := range items {
		items[i].W, items[i].H = Footprint(items[i].Size, s)
	}
}
