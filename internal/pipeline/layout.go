package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/Faultbox/voxelsmith/internal/atlas"
	"github.com/Faultbox/voxelsmith/pkg/formats"
)

// LayoutFile records how a template was laid out. It travels with the
// rewritten geometry because the box-UV scale cannot be recovered from the
// geometry alone once its texture size has been replaced.
const LayoutFile = "layout.json"

// ErrLayout reports an unreadable or inconsistent layout record.
var ErrLayout = errors.New("invalid layout record")

// Manifest is the JSON form of a packed template.
type Manifest struct {
	Resolution       int           `json:"resolution"`
	BaseTextureWidth int           `json:"base_texture_width"`
	Scale            float64       `json:"scale"`
	Islands          []IslandEntry `json:"islands"`
	Faces            []FaceEntry   `json:"faces"`
}

// IslandEntry is the footprint of one cube.
type IslandEntry struct {
	Bone string `json:"bone"`
	Cube int    `json:"cube"`
	Rect [4]int `json:"rect"` // x0, y0, x1, y1
}

// FaceEntry is one drawn face.
type FaceEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Rect  [4]int `json:"rect"`
}

func rectArray(r image.Rectangle) [4]int {
	return [4]int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}

// NewManifest describes a rendered template.
func NewManifest(t *atlas.Template) *Manifest {
	l := t.Layout
	man := &Manifest{
		Resolution:       l.Resolution,
		BaseTextureWidth: l.BaseWidth,
		Scale:            l.Scale,
		Islands:          make([]IslandEntry, 0, len(l.Items)),
		Faces:            make([]FaceEntry, 0, len(t.Regions)),
	}
	for i, it := range l.Items {
		man.Islands = append(man.Islands, IslandEntry{Bone: it.BoneName, Cube: it.Cube, Rect: rectArray(l.Rect(i))})
	}
	for _, r := range t.Regions {
		man.Faces = append(man.Faces, FaceEntry{Label: r.Label, Color: atlas.Hex(r.Color), Rect: rectArray(r.Rect)})
	}
	return man
}

// ColorMap rebuilds the key color to label table, normalizing color case.
func (m *Manifest) ColorMap() (atlas.ColorMap, error) {
	out := make(atlas.ColorMap, len(m.Faces))
	for _, f := range m.Faces {
		c, err := atlas.ParseHex(f.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: face %s: %v", ErrLayout, f.Label, err)
		}
		out[atlas.Hex(c)] = f.Label
	}
	return out, nil
}

// LoadManifest reads and checks a layout record.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var man Manifest
	if err := json.Unmarshal(data, &man); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayout, path, err)
	}
	if man.Resolution <= 0 || man.Scale < 1 {
		return nil, fmt.Errorf("%w: %s: resolution %d, scale %g", ErrLayout, path, man.Resolution, man.Scale)
	}
	if _, err := man.ColorMap(); err != nil {
		return nil, err
	}
	return &man, nil
}

// UVSource says where the box-UV scale of a geometry's UV offsets comes from.
type UVSource struct {
	GeoPath    string  // geometry file; a layout record beside it is picked up
	LayoutPath string  // explicit layout record
	Scale      float64 // explicit scale, wins over everything else
	Native     bool    // hand-made UVs at scale 1
}

// ResolveUVScale returns the scale the primary model's UV offsets were laid
// out with, and how it was found. Without a scale, a layout record or
// Native, the model is packed like the template command would and its UVs
// are rewritten.
func ResolveUVScale(doc *formats.Document, src UVSource, opts TemplateOptions) (float64, string, error) {
	if src.Scale > 0 {
		return src.Scale, "flag", nil
	}
	m := doc.Primary()

	if src.LayoutPath != "" {
		man, err := LoadManifest(src.LayoutPath)
		if err != nil {
			return 0, "", err
		}
		if man.Resolution != m.BaseTextureWidth() {
			return 0, "", fmt.Errorf("%w: %s is for a %d texture, geometry declares %d",
				ErrLayout, src.LayoutPath, man.Resolution, m.BaseTextureWidth())
		}
		return man.Scale, src.LayoutPath, nil
	}
	if src.GeoPath != "" {
		path := filepath.Join(filepath.Dir(src.GeoPath), LayoutFile)
		if man, err := LoadManifest(path); err == nil && man.Resolution == m.BaseTextureWidth() {
			return man.Scale, path, nil
		}
	}
	if src.Native {
		return 1, "native", nil
	}

	result, err := GenerateTemplate(doc, opts)
	if err != nil {
		return 0, "", err
	}
	return result.Template.Layout.Scale, "packed", nil
}
