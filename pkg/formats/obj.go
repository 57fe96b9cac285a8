package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Faultbox/patchstitch/pkg/stitch"
)

// WriteOBJ writes m as a Wavefront OBJ object. Face indices are 1-based and
// carry texture indices when the mesh has UVs.
func WriteOBJ(w io.Writer, m *stitch.Mesh, name string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# patchstitch: %d vertices, %d triangles\n", m.VertexCount(), m.TriangleCount())
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}

	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2])
	}

	hasUV := len(m.UVs) == len(m.Positions) && len(m.UVs) > 0
	if hasUV {
		for _, uv := range m.UVs {
			fmt.Fprintf(bw, "vt %g %g\n", uv[0], uv[1])
		}
	}

	for i := range m.TriangleCount() {
		t := m.Triangle(i)
		a, b, c := t[0]+1, t[1]+1, t[2]+1
		if hasUV {
			fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
	}

	return bw.Flush()
}

// SaveOBJ writes m to path, creating the parent directory if needed.
func SaveOBJ(path string, m *stitch.Mesh, name string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(f, m, name); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
