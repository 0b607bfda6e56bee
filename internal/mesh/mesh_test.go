package mesh

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/unixpickle/model3d/model3d"

	"github.com/Faultbox/voxelsmith/pkg/formats"
)

func box(origin, size [3]float64) formats.Cube {
	return formats.Cube{Origin: origin, Size: size}
}

func singleCube() *formats.Model {
	return &formats.Model{
		Identifier: "geometry.box",
		Bones: []formats.Bone{
			{Name: "body", ParentIndex: formats.NoParent, Cubes: []formats.Cube{box([3]float64{-5, 6, -3}, [3]float64{10, 12, 6})}},
		},
	}
}

func lines(text, prefix string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if strings.HasPrefix(l, prefix) {
			out = append(out, l)
		}
	}
	return out
}

func TestExportOBJ_SingleCube(t *testing.T) {
	text := ExportOBJ(singleCube())

	if !strings.HasPrefix(text, "# Exported from VoxelSmith\n# Geometry: geometry.box\n\n") {
		t.Errorf("unexpected header:\n%s", text)
	}
	v := lines(text, "v ")
	f := lines(text, "f ")
	if len(v) != 8 {
		t.Fatalf("expected 8 vertex lines, got %d", len(v))
	}
	if len(f) != 6 {
		t.Fatalf("expected 6 face lines, got %d", len(f))
	}
	if o := lines(text, "o "); len(o) != 1 || o[0] != "o body" {
		t.Errorf("expected single group marker, got %v", o)
	}

	wantV := []string{
		"v -0.3125 0.375 -0.1875",
		"v 0.3125 0.375 -0.1875",
		"v 0.3125 1.125 -0.1875",
		"v -0.3125 1.125 -0.1875",
		"v -0.3125 0.375 0.1875",
		"v 0.3125 0.375 0.1875",
		"v 0.3125 1.125 0.1875",
		"v -0.3125 1.125 0.1875",
	}
	for i := range wantV {
		if v[i] != wantV[i] {
			t.Errorf("vertex %d = %q, want %q", i, v[i], wantV[i])
		}
	}

	wantF := []string{
		"f 4 3 2 1",
		"f 5 6 7 8",
		"f 4 8 7 3",
		"f 1 2 6 5",
		"f 2 3 7 6",
		"f 5 8 4 1",
	}
	for i := range wantF {
		if f[i] != wantF[i] {
			t.Errorf("face %d = %q, want %q", i, f[i], wantF[i])
		}
	}
}

func TestBuild_IndexOffsetAndGroups(t *testing.T) {
	m := &formats.Model{Bones: []formats.Bone{
		{Name: "root", ParentIndex: formats.NoParent},
		{Name: "arm", ParentIndex: 0, Cubes: []formats.Cube{
			box([3]float64{0, 0, 0}, [3]float64{1, 1, 1}),
			box([3]float64{0, 1, 0}, [3]float64{1, 1, 1}),
		}},
		{Name: "empty", ParentIndex: 0},
		{Name: "leg", ParentIndex: 0, Cubes: []formats.Cube{box([3]float64{2, 0, 0}, [3]float64{1, 2, 1})}},
	}}

	mesh := Build(m, DefaultUnitScale)

	if len(mesh.Vertices) != 24 {
		t.Errorf("expected 24 vertices, got %d", len(mesh.Vertices))
	}
	if mesh.FaceCount() != 18 {
		t.Errorf("expected 18 faces, got %d", mesh.FaceCount())
	}
	if len(mesh.Groups) != 2 {
		t.Fatalf("expected groups for bones with cubes only, got %d", len(mesh.Groups))
	}
	if mesh.Groups[0].Name != "arm" || mesh.Groups[1].Name != "leg" {
		t.Errorf("unexpected group names %q, %q", mesh.Groups[0].Name, mesh.Groups[1].Name)
	}

	tests := []struct {
		group, face int
		want        Quad
	}{
		{0, 0, Quad{4, 3, 2, 1}},
		{0, 6, Quad{12, 11, 10, 9}},
		{1, 0, Quad{20, 19, 18, 17}},
		{1, 5, Quad{21, 24, 20, 17}},
	}
	for _, tt := range tests {
		if got := mesh.Groups[tt.group].Faces[tt.face]; got != tt.want {
			t.Errorf("group %d face %d = %v, want %v", tt.group, tt.face, got, tt.want)
		}
	}

	for _, g := range mesh.Groups {
		for _, f := range g.Faces {
			for _, idx := range f {
				if idx < 1 || idx > len(mesh.Vertices) {
					t.Fatalf("face index %d out of range", idx)
				}
			}
		}
	}
}

func TestExportOBJ_NoCubes(t *testing.T) {
	m := &formats.Model{Identifier: "geometry.empty", Bones: []formats.Bone{{Name: "root", ParentIndex: formats.NoParent}}}
	text := ExportOBJ(m)

	if len(lines(text, "v ")) != 0 || len(lines(text, "f ")) != 0 || len(lines(text, "o ")) != 0 {
		t.Errorf("expected header only, got:\n%s", text)
	}
}

func TestExportOBJ_DoesNotMutate(t *testing.T) {
	m := singleCube()
	m.Bones[0].Cubes[0].UV = [2]int{3, 4}
	before := m.Bones[0].Cubes[0]

	ExportOBJ(m)

	if m.Bones[0].Cubes[0] != before {
		t.Errorf("cube changed: %+v -> %+v", before, m.Bones[0].Cubes[0])
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{0.0625, "0.0625"},
		{-0.3125, "-0.3125"},
		{1.5 / 16, "0.09375"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildGLTF(t *testing.T) {
	m := singleCube()
	m.TextureWidth, m.TextureHeight = 64, 64
	m.Bones = append([]formats.Bone{{Name: "root", ParentIndex: formats.NoParent}}, m.Bones...)
	m.Bones[1].ParentIndex = 0

	doc, err := BuildGLTF(m, GLTFOptions{})
	if err != nil {
		t.Fatalf("BuildGLTF failed: %v", err)
	}

	if len(doc.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(doc.Nodes))
	}
	if doc.Nodes[0].Mesh != nil {
		t.Error("expected empty bone node without mesh")
	}
	if len(doc.Nodes[0].Children) != 1 || doc.Nodes[0].Children[0] != 1 {
		t.Errorf("expected body under root, got %v", doc.Nodes[0].Children)
	}
	if len(doc.Scenes[0].Nodes) != 1 || doc.Scenes[0].Nodes[0] != 0 {
		t.Errorf("expected root as the only scene node, got %v", doc.Scenes[0].Nodes)
	}
	if len(doc.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(doc.Meshes))
	}

	prim := doc.Meshes[0].Primitives[0]
	pos := doc.Accessors[prim.Attributes[gltf.POSITION]]
	if pos.Count != 24 {
		t.Errorf("expected 24 positions, got %d", pos.Count)
	}
	idx := doc.Accessors[*prim.Indices]
	if idx.Count != 36 {
		t.Errorf("expected 36 indices, got %d", idx.Count)
	}
	if len(doc.Textures) != 0 {
		t.Errorf("expected no texture, got %d", len(doc.Textures))
	}
}

func TestAppendCube_UVs(t *testing.T) {
	c := box([3]float64{0, 0, 0}, [3]float64{8, 8, 8})
	c.UV = [2]int{0, 0}

	var p primitive
	p.appendCube(&c, DefaultUnitScale, 1, 64, 64)

	if len(p.positions) != 24 || len(p.uvs) != 24 || len(p.normals) != 24 {
		t.Fatalf("expected 24 vertices, got %d/%d/%d", len(p.positions), len(p.uvs), len(p.normals))
	}
	// Top face is the first face: x 8..16, y 0..8 on a 64 texture.
	want := [4][2]float32{{0.125, 0}, {0.25, 0}, {0.25, 0.125}, {0.125, 0.125}}
	for i := range want {
		if p.uvs[i] != want[i] {
			t.Errorf("top uv %d = %v, want %v", i, p.uvs[i], want[i])
		}
	}
	for _, uv := range p.uvs {
		if uv[0] < 0 || uv[0] > 1 || uv[1] < 0 || uv[1] > 1 {
			t.Fatalf("uv %v outside texture", uv)
		}
	}

	// Every triangle must face along its normal.
	for tri := 0; tri < len(p.indices); tri += 3 {
		a, b, c := p.positions[p.indices[tri]], p.positions[p.indices[tri+1]], p.positions[p.indices[tri+2]]
		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		want := p.normals[p.indices[tri]]
		if n[0]*want[0]+n[1]*want[1]+n[2]*want[2] <= 0 {
			t.Errorf("triangle %d winds against normal %v", tri/3, want)
		}
	}
}

func TestSaveGLB_RoundTrip(t *testing.T) {
	doc, err := formats.ParseGeo(formats.DwarfGeo())
	if err != nil {
		t.Fatalf("ParseGeo failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out", "dwarf.glb")

	if err := SaveGLB(path, doc.Primary(), GLTFOptions{}); err != nil {
		t.Fatalf("SaveGLB failed: %v", err)
	}

	loaded, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("gltf.Open failed: %v", err)
	}
	if len(loaded.Nodes) != 8 {
		t.Errorf("expected 8 bone nodes, got %d", len(loaded.Nodes))
	}
	if len(loaded.Meshes) != 7 {
		t.Errorf("expected 7 meshes, got %d", len(loaded.Meshes))
	}
}

func TestWriteSTL_Volume(t *testing.T) {
	m := &formats.Model{Bones: []formats.Bone{
		{Name: "a", ParentIndex: formats.NoParent, Cubes: []formats.Cube{
			box([3]float64{0, 0, 0}, [3]float64{16, 16, 16}),
			box([3]float64{32, 0, 0}, [3]float64{16, 32, 16}),
		}},
	}}

	var buf bytes.Buffer
	if err := WriteSTL(&buf, m, DefaultUnitScale); err != nil {
		t.Fatalf("WriteSTL failed: %v", err)
	}

	tris, err := model3d.ReadSTL(&buf)
	if err != nil {
		t.Fatalf("ReadSTL failed: %v", err)
	}
	if len(tris) != 24 {
		t.Errorf("expected 24 triangles, got %d", len(tris))
	}
	vol := model3d.NewMeshTriangles(tris).Volume()
	if math.Abs(vol-3) > 1e-4 {
		t.Errorf("expected volume 3, got %f", vol)
	}
}

func TestBounds(t *testing.T) {
	lo, hi, ok := Bounds(singleCube(), 1)
	if !ok {
		t.Fatal("expected bounds")
	}
	if lo.X != -5 || lo.Y != 6 || lo.Z != -3 || hi.X != 5 || hi.Y != 18 || hi.Z != 3 {
		t.Errorf("unexpected bounds %v %v", lo, hi)
	}

	if _, _, ok := Bounds(&formats.Model{}, 1); ok {
		t.Error("expected no bounds for empty model")
	}
}
