package mesh

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/voxelsmith/internal/atlas"
	"github.com/Faultbox/voxelsmith/pkg/formats"
	vmath "github.com/Faultbox/voxelsmith/pkg/math"
)

// GLTFOptions controls glTF export.
type GLTFOptions struct {
	// UnitScale converts texels to meters. Zero means DefaultUnitScale.
	UnitScale float64
	// UVScale is the box-UV scale the cube UV offsets were laid out with:
	// the atlas scale factor for generated templates, 1 for hand-made ones.
	// Zero means 1.
	UVScale float64
	// Texture is an optional PNG embedded as the base color map.
	Texture []byte
}

// faceCorners lists, per face, the corner indices (boxCorners numbering) in
// top-left, top-right, bottom-right, bottom-left order as seen from outside.
var faceCorners = [6][4]int{
	atlas.FaceTop:    {3, 2, 6, 7},
	atlas.FaceBottom: {1, 0, 4, 5},
	atlas.FaceFront:  {2, 3, 0, 1},
	atlas.FaceRight:  {6, 2, 1, 5},
	atlas.FaceLeft:   {3, 7, 4, 0},
	atlas.FaceBack:   {7, 6, 5, 4},
}

var faceNormals = [6][3]float32{
	atlas.FaceTop:    {0, 1, 0},
	atlas.FaceBottom: {0, -1, 0},
	atlas.FaceFront:  {0, 0, -1},
	atlas.FaceRight:  {1, 0, 0},
	atlas.FaceLeft:   {-1, 0, 0},
	atlas.FaceBack:   {0, 0, 1},
}

// primitive is the flat vertex data of one bone.
type primitive struct {
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32
	indices   []uint32
}

// appendCube adds 4 vertices and 2 triangles per face. Texture coordinates
// come from the cube's box-UV island.
func (p *primitive) appendCube(c *formats.Cube, unitScale, uvScale float64, texW, texH float64) {
	corners := boxCorners(c)

	for _, f := range atlas.Faces {
		fu0, fv0, fu1, fv1 := FaceUV(c, f, uvScale, texW, texH)
		u0, v0, u1, v1 := float32(fu0), float32(fv0), float32(fu1), float32(fv1)

		base := uint32(len(p.positions))
		for _, ci := range faceCorners[f] {
			p.positions = append(p.positions, corners[ci].Scale(unitScale).Array())
			p.normals = append(p.normals, faceNormals[f])
		}
		p.uvs = append(p.uvs, [2]float32{u0, v0}, [2]float32{u1, v0}, [2]float32{u1, v1}, [2]float32{u0, v1})
		// TL, BL, BR and TL, BR, TR wind counter-clockwise from outside.
		p.indices = append(p.indices, base, base+3, base+2, base, base+2, base+1)
	}
}

// FaceUV returns the normalized texture rectangle of face f of c, for a box-UV
// island laid out at uvScale on a texW x texH texture.
func FaceUV(c *formats.Cube, f atlas.Face, uvScale, texW, texH float64) (u0, v0, u1, v1 float64) {
	sw, sh, sd := c.Size[0]*uvScale, c.Size[1]*uvScale, c.Size[2]*uvScale
	x, y, w, h := atlas.FaceRect(f, sw, sh, sd)
	u0 = (float64(c.UV[0]) + x) / texW
	v0 = (float64(c.UV[1]) + y) / texH
	return u0, v0, u0 + w/texW, v0 + h/texH
}

// BuildGLTF converts a model into a glTF document with one node per bone,
// parented like the bone hierarchy. Bones with cubes carry a mesh.
func BuildGLTF(m *formats.Model, opts GLTFOptions) (*gltf.Document, error) {
	unitScale := opts.UnitScale
	if unitScale == 0 {
		unitScale = DefaultUnitScale
	}
	uvScale := opts.UVScale
	if uvScale == 0 {
		uvScale = 1
	}
	texW := float64(m.BaseTextureWidth())
	texH := float64(m.TextureHeight)
	if texH <= 0 {
		texH = texW
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = objGenerator
	if m.Identifier != "" {
		doc.Scenes[0].Name = m.Identifier
	}

	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float32{1, 1, 1, 1},
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(1),
	}
	material := &gltf.Material{Name: "skin", PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaMask}
	if len(opts.Texture) > 0 {
		img, err := modeler.WriteImage(doc, "texture", "image/png", bytes.NewReader(opts.Texture))
		if err != nil {
			return nil, fmt.Errorf("embedding texture: %w", err)
		}
		doc.Samplers = []*gltf.Sampler{{
			MagFilter: gltf.MagNearest,
			MinFilter: gltf.MinNearest,
			WrapS:     gltf.WrapClampToEdge,
			WrapT:     gltf.WrapClampToEdge,
		}}
		doc.Textures = []*gltf.Texture{{Sampler: gltf.Index(0), Source: gltf.Index(img)}}
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: 0}
	}
	doc.Materials = []*gltf.Material{material}

	// Bone nodes share indices with m.Bones.
	for bi := range m.Bones {
		b := &m.Bones[bi]
		node := &gltf.Node{Name: b.Name}
		if len(b.Cubes) > 0 {
			var p primitive
			for ci := range b.Cubes {
				p.appendCube(&b.Cubes[ci], unitScale, uvScale, texW, texH)
			}
			prim := &gltf.Primitive{
				Attributes: map[string]uint32{
					gltf.POSITION:   modeler.WritePosition(doc, p.positions),
					gltf.NORMAL:     modeler.WriteNormal(doc, p.normals),
					gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, p.uvs),
				},
				Indices:  gltf.Index(modeler.WriteIndices(doc, p.indices)),
				Material: gltf.Index(0),
			}
			doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: b.Name, Primitives: []*gltf.Primitive{prim}})
			node.Mesh = gltf.Index(uint32(len(doc.Meshes) - 1))
		}
		doc.Nodes = append(doc.Nodes, node)
	}
	for bi := range m.Bones {
		parent := m.Bones[bi].ParentIndex
		if parent == formats.NoParent {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(bi))
			continue
		}
		doc.Nodes[parent].Children = append(doc.Nodes[parent].Children, uint32(bi))
	}
	return doc, nil
}

// SaveGLB writes the model as a binary glTF file.
func SaveGLB(path string, m *formats.Model, opts GLTFOptions) error {
	doc, err := BuildGLTF(m, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("writing glb: %w", err)
	}
	return nil
}

// Bounds returns the scaled axis-aligned bounds of all cubes. ok is false
// for a model without cubes.
func Bounds(m *formats.Model, unitScale float64) (lo, hi vmath.Vec3, ok bool) {
	if unitScale == 0 {
		unitScale = DefaultUnitScale
	}
	for bi := range m.Bones {
		for ci := range m.Bones[bi].Cubes {
			c := &m.Bones[bi].Cubes[ci]
			clo := vmath.V3(c.Origin)
			chi := clo.Add(vmath.V3(c.Size))
			if !ok {
				lo, hi, ok = clo, chi, true
				continue
			}
			lo, hi = lo.Min(clo), hi.Max(chi)
		}
	}
	return lo.Scale(unitScale), hi.Scale(unitScale), ok
}
