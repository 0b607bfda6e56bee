// Package mesh converts a geometry's cube hierarchy into portable meshes:
// OBJ text, binary glTF and STL.
package mesh

import (
	"github.com/Faultbox/voxelsmith/pkg/formats"
	vmath "github.com/Faultbox/voxelsmith/pkg/math"
)

// DefaultUnitScale converts model texels to mesh units (16 texels per unit).
const DefaultUnitScale = 1.0 / 16

// Quad is a face given as four 1-based vertex indices.
type Quad [4]int

// boxFaces is the winding table for a box whose 8 corners are numbered
//
//	0:(x0,y0,z0) 1:(x1,y0,z0) 2:(x1,y1,z0) 3:(x0,y1,z0)
//	4:(x0,y0,z1) 5:(x1,y0,z1) 6:(x1,y1,z1) 7:(x0,y1,z1)
//
// in the order front, back, top, bottom, right, left.
var boxFaces = [6][4]int{
	{3, 2, 1, 0},
	{4, 5, 6, 7},
	{3, 7, 6, 2},
	{0, 1, 5, 4},
	{1, 2, 6, 5},
	{4, 7, 3, 0},
}

// Group is the geometry of one bone.
type Group struct {
	Name  string
	Faces []Quad
}

// Mesh is an indexed quad mesh. Vertices are shared by all groups and face
// indices are 1-based.
type Mesh struct {
	Vertices []vmath.Vec3
	Groups   []Group
}

// boxCorners returns the 8 corners of a cube in boxFaces numbering.
func boxCorners(c *formats.Cube) [8]vmath.Vec3 {
	lo := vmath.V3(c.Origin)
	hi := lo.Add(vmath.V3(c.Size))
	return [8]vmath.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}
}

// Build converts every cube into 8 scaled vertices and 6 quads, in
// bone-then-cube order. Bones without cubes produce no group. m is only read.
func Build(m *formats.Model, unitScale float64) *Mesh {
	if unitScale == 0 {
		unitScale = DefaultUnitScale
	}
	out := &Mesh{Vertices: make([]vmath.Vec3, 0, m.CubeCount()*8)}

	next := 1 // 1-based index of the next vertex
	for bi := range m.Bones {
		b := &m.Bones[bi]
		if len(b.Cubes) == 0 {
			continue
		}
		g := Group{Name: b.Name, Faces: make([]Quad, 0, len(b.Cubes)*6)}
		for ci := range b.Cubes {
			for _, v := range boxCorners(&b.Cubes[ci]) {
				out.Vertices = append(out.Vertices, v.Scale(unitScale))
			}
			for _, f := range boxFaces {
				g.Faces = append(g.Faces, Quad{next + f[0], next + f[1], next + f[2], next + f[3]})
			}
			next += 8
		}
		out.Groups = append(out.Groups, g)
	}
	return out
}

// FaceCount returns the number of quads across all groups.
func (m *Mesh) FaceCount() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.Faces)
	}
	return n
}
