package atlas

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/Faultbox/voxelsmith/pkg/formats"
)

// DefaultMaxResolution is the hard ceiling on the atlas side length.
const DefaultMaxResolution = 4096

// Packing errors.
var (
	ErrCapacity          = errors.New("model too complex to pack automatically")
	ErrInvalidResolution = errors.New("invalid target resolution")
)

// Options controls packing.
type Options struct {
	TargetResolution int // first canvas size tried
	MaxResolution    int // ceiling; zero or anything above DefaultMaxResolution means DefaultMaxResolution

	// OnAttempt, when set, is called after each canvas size is tried.
	OnAttempt func(resolution int, fit bool)
}

// Layout is the result of a successful packing run.
type Layout struct {
	Resolution int           // final square canvas side
	BaseWidth  int           // native texture width the scale was derived from
	Scale      float64       // atlas pixels per model texel
	Items      []Item        // cubes sorted by footprint height, tallest first
	Placements []image.Point // top-left corner of Items[i]'s footprint
	Attempts   int           // canvas sizes tried, including the successful one
}

// Rect returns the footprint rectangle of item i in atlas pixels.
func (l *Layout) Rect(i int) image.Rectangle {
	p := l.Placements[i]
	return image.Rect(p.X, p.Y, p.X+l.Items[i].W, p.Y+l.Items[i].H)
}

// sortItems orders items by footprint height, tallest first. The sort is
// stable so equal heights keep bone-then-cube encounter order.
func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].H > items[j].H
	})
}

// ShelfPack places items left to right in rows on a canvas x canvas square,
// opening a new row when an item does not fit the remaining width. It
// returns false if any item would cross the canvas edge. No rotation, no
// best-fit: the same items always get the same placements.
func ShelfPack(items []Item, canvas int) ([]image.Point, bool) {
	placements := make([]image.Point, 0, len(items))
	x, y, rowHeight := 0, 0, 0
	for _, it := range items {
		if it.W > canvas {
			return nil, false
		}
		if x+it.W > canvas {
			x = 0
			y += rowHeight
			rowHeight = 0
		}
		if y+it.H > canvas {
			return nil, false
		}
		placements = append(placements, image.Point{X: x, Y: y})
		x += it.W
		if it.H > rowHeight {
			rowHeight = it.H
		}
	}
	return placements, true
}

// Pack lays out every cube of m. It starts at the target resolution and,
// whenever the shelf packer fails, doubles the canvas, rescales every
// footprint and retries, up to the resolution ceiling.
func Pack(m *formats.Model, opts Options) (*Layout, error) {
	maxRes := opts.MaxResolution
	if maxRes <= 0 || maxRes > DefaultMaxResolution {
		maxRes = DefaultMaxResolution
	}
	if opts.TargetResolution <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, opts.TargetResolution)
	}
	if opts.TargetResolution > maxRes {
		return nil, fmt.Errorf("%w: target resolution %d exceeds ceiling %d", ErrCapacity, opts.TargetResolution, maxRes)
	}

	base := m.BaseTextureWidth()
	items := collectItems(m)
	order := make([]Item, len(items))

	attempts := 0
	for res := opts.TargetResolution; res <= maxRes; res *= 2 {
		attempts++
		scale := ScaleFactor(res, base)

		copy(order, items)
		measure(order, scale)
		sortItems(order)

		placements, ok := ShelfPack(order, res)
		if opts.OnAttempt != nil {
			opts.OnAttempt(res, ok)
		}
		if ok {
			return &Layout{
				Resolution: res,
				BaseWidth:  base,
				Scale:      scale,
				Items:      order,
				Placements: placements,
				Attempts:   attempts,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %d cubes do not fit a %dx%d atlas", ErrCapacity, len(items), maxRes, maxRes)
}
