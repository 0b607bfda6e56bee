// Package formats provides parsers for voxel model file formats.
// GEO is the Bedrock-style "minecraft:geometry" JSON document describing a
// bone/cube hierarchy and its native texture size.
package formats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultTextureWidth is used as the base texture width when a geometry
// does not declare one.
const DefaultTextureWidth = 64

// NoParent marks a root bone in Bone.ParentIndex.
const NoParent = -1

// Geometry errors. Every validation failure unwraps to ErrInvalidGeometry.
var (
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrNoGeometry      = errors.New("no geometry found")
	ErrMalformedGeo    = errors.New("malformed geometry document")
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidCubeSize = errors.New("cube size must be positive")
	ErrDuplicateBone   = errors.New("duplicate bone name")
	ErrUnknownParent   = errors.New("unknown parent bone")
	ErrParentCycle     = errors.New("bone parent cycle")
)

// ValidationError describes where a geometry document failed validation.
type ValidationError struct {
	Path string // JSON path of the offending element, e.g. "bones[2].cubes[0].size"
	Msg  string
	Err  error // one of the Err* sentinels
}

func (e *ValidationError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Path, e.Err, e.Msg)
}

// Unwrap exposes both the specific sentinel and ErrInvalidGeometry.
func (e *ValidationError) Unwrap() []error {
	return []error{e.Err, ErrInvalidGeometry}
}

func invalid(path string, err error, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Err: err, Msg: fmt.Sprintf(format, args...)}
}

// Cube is an axis-aligned box owned by a bone.
type Cube struct {
	Origin   [3]float64
	Size     [3]float64 // w, h, d; all components > 0
	UV       [2]int     // box-UV offset, rewritten by the template renderer
	Inflate  float64
	Mirror   *bool
	Pivot    *[3]float64
	Rotation *[3]float64
}

// Bone is a named node in the model hierarchy.
type Bone struct {
	Name        string
	Parent      string // parent bone name, empty for roots
	ParentIndex int    // resolved index into Model.Bones, NoParent for roots
	Pivot       [3]float64
	Rotation    *[3]float64
	Mirror      bool
	Cubes       []Cube
}

// Model is a single geometry entry.
type Model struct {
	Identifier          string
	TextureWidth        int
	TextureHeight       int
	VisibleBoundsWidth  float64
	VisibleBoundsHeight float64
	VisibleBoundsOffset *[3]float64
	Bones               []Bone
}

// Document is a parsed geometry file. Only the first model takes part in
// texture generation; the rest are carried through re-serialization.
type Document struct {
	FormatVersion string
	Models        []*Model
}

// Primary returns the model the pipeline operates on.
func (d *Document) Primary() *Model {
	return d.Models[0]
}

// BaseTextureWidth returns the declared native texture width, falling back
// to DefaultTextureWidth.
func (m *Model) BaseTextureWidth() int {
	if m.TextureWidth <= 0 {
		return DefaultTextureWidth
	}
	return m.TextureWidth
}

// CubeCount returns the total number of cubes across all bones.
func (m *Model) CubeCount() int {
	n := 0
	for i := range m.Bones {
		n += len(m.Bones[i].Cubes)
	}
	return n
}

// Depth returns the number of ancestors of bone i.
func (m *Model) Depth(i int) int {
	depth := 0
	for p := m.Bones[i].ParentIndex; p != NoParent; p = m.Bones[p].ParentIndex {
		depth++
	}
	return depth
}

// Children returns the indices of the direct children of bone i, in
// document order. Pass NoParent to get the roots.
func (m *Model) Children(i int) []int {
	var out []int
	for j := range m.Bones {
		if m.Bones[j].ParentIndex == i {
			out = append(out, j)
		}
	}
	return out
}

// Wire types. Required arrays are pointers so that absence can be told apart
// from a zero value.
type geoFileJSON struct {
	FormatVersion string             `json:"format_version,omitempty"`
	Geometries    []*geoGeometryJSON `json:"minecraft:geometry"`
}

type geoGeometryJSON struct {
	Description *geoDescriptionJSON `json:"description"`
	Bones       []*geoBoneJSON      `json:"bones"`
}

type geoDescriptionJSON struct {
	Identifier          string      `json:"identifier,omitempty"`
	TextureWidth        int         `json:"texture_width,omitempty"`
	TextureHeight       int         `json:"texture_height,omitempty"`
	VisibleBoundsWidth  float64     `json:"visible_bounds_width,omitempty"`
	VisibleBoundsHeight float64     `json:"visible_bounds_height,omitempty"`
	VisibleBoundsOffset *[3]float64 `json:"visible_bounds_offset,omitempty"`
}

type geoBoneJSON struct {
	Name     *string        `json:"name"`
	Parent   string         `json:"parent,omitempty"`
	Pivot    *[3]float64    `json:"pivot"`
	Rotation *[3]float64    `json:"rotation,omitempty"`
	Mirror   bool           `json:"mirror,omitempty"`
	Cubes    []*geoCubeJSON `json:"cubes,omitempty"`
}

type geoCubeJSON struct {
	Origin   *[3]float64 `json:"origin"`
	Size     *[3]float64 `json:"size"`
	UV       [2]int      `json:"uv"`
	Inflate  float64     `json:"inflate,omitempty"`
	Mirror   *bool       `json:"mirror,omitempty"`
	Pivot    *[3]float64 `json:"pivot,omitempty"`
	Rotation *[3]float64 `json:"rotation,omitempty"`
}

// ParseGeo parses and validates a geometry document.
// Unknown fields, missing required fields, non-positive cube sizes,
// duplicate bone names, unknown parents and parent cycles are rejected.
func ParseGeo(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var raw geoFileJSON
	if err := dec.Decode(&raw); err != nil {
		return nil, &ValidationError{Path: "$", Err: ErrMalformedGeo, Msg: err.Error()}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, invalid("$", ErrMalformedGeo, "trailing data after document")
	}
	if len(raw.Geometries) == 0 || raw.Geometries[0] == nil {
		return nil, &ValidationError{Path: "minecraft:geometry", Err: ErrNoGeometry}
	}

	doc := &Document{FormatVersion: raw.FormatVersion}
	for gi, g := range raw.Geometries {
		path := fmt.Sprintf("minecraft:geometry[%d]", gi)
		m, err := modelFromJSON(path, g)
		if err != nil {
			return nil, err
		}
		if err := m.resolveParents(path); err != nil {
			return nil, err
		}
		doc.Models = append(doc.Models, m)
	}
	return doc, nil
}

// LoadGeo reads and parses a geometry file from disk.
func LoadGeo(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading geometry: %w", err)
	}
	return ParseGeo(data)
}

func modelFromJSON(path string, g *geoGeometryJSON) (*Model, error) {
	if g == nil {
		return nil, invalid(path, ErrNoGeometry, "null geometry entry")
	}
	if g.Description == nil {
		return nil, invalid(path+".description", ErrMissingField, "description")
	}
	d := g.Description
	if d.TextureWidth < 0 || d.TextureHeight < 0 {
		return nil, invalid(path+".description", ErrMalformedGeo, "negative texture size %dx%d", d.TextureWidth, d.TextureHeight)
	}
	m := &Model{
		Identifier:          d.Identifier,
		TextureWidth:        d.TextureWidth,
		TextureHeight:       d.TextureHeight,
		VisibleBoundsWidth:  d.VisibleBoundsWidth,
		VisibleBoundsHeight: d.VisibleBoundsHeight,
		VisibleBoundsOffset: d.VisibleBoundsOffset,
		Bones:               make([]Bone, 0, len(g.Bones)),
	}

	for bi, b := range g.Bones {
		bpath := fmt.Sprintf("%s.bones[%d]", path, bi)
		if b == nil {
			return nil, invalid(bpath, ErrMalformedGeo, "null bone")
		}
		if b.Name == nil || *b.Name == "" {
			return nil, invalid(bpath+".name", ErrMissingField, "name")
		}
		if b.Pivot == nil {
			return nil, invalid(bpath+".pivot", ErrMissingField, "pivot")
		}
		bone := Bone{
			Name:        *b.Name,
			Parent:      b.Parent,
			ParentIndex: NoParent,
			Pivot:       *b.Pivot,
			Rotation:    b.Rotation,
			Mirror:      b.Mirror,
		}
		for ci, c := range b.Cubes {
			cpath := fmt.Sprintf("%s.cubes[%d]", bpath, ci)
			if c == nil {
				return nil, invalid(cpath, ErrMalformedGeo, "null cube")
			}
			if c.Origin == nil {
				return nil, invalid(cpath+".origin", ErrMissingField, "origin")
			}
			if c.Size == nil {
				return nil, invalid(cpath+".size", ErrMissingField, "size")
			}
			for axis, v := range c.Size {
				if v <= 0 {
					return nil, invalid(cpath+".size", ErrInvalidCubeSize, "component %d is %g", axis, v)
				}
			}
			bone.Cubes = append(bone.Cubes, Cube{
				Origin:   *c.Origin,
				Size:     *c.Size,
				UV:       c.UV,
				Inflate:  c.Inflate,
				Mirror:   c.Mirror,
				Pivot:    c.Pivot,
				Rotation: c.Rotation,
			})
		}
		m.Bones = append(m.Bones, bone)
	}
	return m, nil
}

// EncodeGeo serializes the document back to indented JSON, including any UV
// offsets and texture size rewritten since parsing.
func EncodeGeo(doc *Document) ([]byte, error) {
	raw := geoFileJSON{FormatVersion: doc.FormatVersion}
	for _, m := range doc.Models {
		g := &geoGeometryJSON{
			Description: &geoDescriptionJSON{
				Identifier:          m.Identifier,
				TextureWidth:        m.TextureWidth,
				TextureHeight:       m.TextureHeight,
				VisibleBoundsWidth:  m.VisibleBoundsWidth,
				VisibleBoundsHeight: m.VisibleBoundsHeight,
				VisibleBoundsOffset: m.VisibleBoundsOffset,
			},
			Bones: make([]*geoBoneJSON, 0, len(m.Bones)),
		}
		for i := range m.Bones {
			b := &m.Bones[i]
			name := b.Name
			pivot := b.Pivot
			jb := &geoBoneJSON{
				Name:     &name,
				Parent:   b.Parent,
				Pivot:    &pivot,
				Rotation: b.Rotation,
				Mirror:   b.Mirror,
			}
			for j := range b.Cubes {
				c := &b.Cubes[j]
				origin, size := c.Origin, c.Size
				jb.Cubes = append(jb.Cubes, &geoCubeJSON{
					Origin:   &origin,
					Size:     &size,
					UV:       c.UV,
					Inflate:  c.Inflate,
					Mirror:   c.Mirror,
					Pivot:    c.Pivot,
					Rotation: c.Rotation,
				})
			}
			g.Bones = append(g.Bones, jb)
		}
		raw.Geometries = append(raw.Geometries, g)
	}
	return json.MarshalIndent(&raw, "", "  ")
}
