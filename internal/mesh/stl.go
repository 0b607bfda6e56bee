package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/unixpickle/model3d/model3d"

	"github.com/Faultbox/voxelsmith/pkg/formats"
)

// Solid returns every cube as a closed box mesh, scaled by unitScale.
// Cubes are not unioned, so overlapping cubes overlap in the result.
func Solid(m *formats.Model, unitScale float64) *model3d.Mesh {
	if unitScale == 0 {
		unitScale = DefaultUnitScale
	}
	out := model3d.NewMesh()
	for bi := range m.Bones {
		for ci := range m.Bones[bi].Cubes {
			c := &m.Bones[bi].Cubes[ci]
			lo := model3d.XYZ(c.Origin[0], c.Origin[1], c.Origin[2])
			hi := lo.Add(model3d.XYZ(c.Size[0], c.Size[1], c.Size[2]))
			out.AddMesh(model3d.NewMeshRect(lo, hi))
		}
	}
	return out.Scale(unitScale)
}

// WriteSTL writes the model's cubes as binary STL.
func WriteSTL(w io.Writer, m *formats.Model, unitScale float64) error {
	return model3d.WriteSTL(w, Solid(m, unitScale).TriangleSlice())
}

// SaveSTL writes the model's cubes to an STL file.
func SaveSTL(path string, m *formats.Model, unitScale float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating stl: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := WriteSTL(bw, m, unitScale); err != nil {
		f.Close()
		return fmt.Errorf("writing stl: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing stl: %w", err)
	}
	return f.Close()
}

// SaveOBJ writes the model to an OBJ file.
func SaveOBJ(path string, m *formats.Model, unitScale float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating obj: %w", err)
	}
	if err := WriteOBJ(f, Build(m, unitScale), m.Identifier); err != nil {
		f.Close()
		return fmt.Errorf("writing obj: %w", err)
	}
	return f.Close()
}
