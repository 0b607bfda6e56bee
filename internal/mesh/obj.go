package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/voxelsmith/pkg/formats"
)

// objGenerator is written into the OBJ header comment.
const objGenerator = "VoxelSmith"

// WriteOBJ writes m as Wavefront OBJ text: "v x y z" vertex lines,
// "o name" group markers and "f i j k l" quads. Vertex lines of a group
// precede its faces.
func WriteOBJ(w io.Writer, m *Mesh, identifier string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Exported from %s\n", objGenerator)
	fmt.Fprintf(bw, "# Geometry: %s\n\n", identifier)

	vi := 0
	for _, g := range m.Groups {
		fmt.Fprintf(bw, "o %s\n", g.Name)
		// Each cube owns 8 vertices followed by its 6 faces.
		for start := 0; start < len(g.Faces); start += 6 {
			for k := 0; k < 8; k++ {
				v := m.Vertices[vi]
				fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
				vi++
			}
			for _, f := range g.Faces[start : start+6] {
				fmt.Fprintf(bw, "f %d %d %d %d\n", f[0], f[1], f[2], f[3])
			}
		}
	}
	return bw.Flush()
}

// ExportOBJ converts a model to OBJ text with the default unit scale.
func ExportOBJ(m *formats.Model) string {
	var sb strings.Builder
	// strings.Builder never fails to write.
	_ = WriteOBJ(&sb, Build(m, DefaultUnitScale), m.Identifier)
	return sb.String()
}

// formatFloat prints the shortest representation, without a trailing ".0".
func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
