package stitch

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/patchstitch/pkg/math"
)

// flat creates a flat patch covering [l,r]x[lo,up].
func flat(l, r, lo, up float32) Patch {
	return NewPatch(math.Rect{Left: l, Right: r, Lower: lo, Upper: up}, nil)
}

// scenarioB is a coarse patch whose left edge borders two finer patches.
// The coarse patch comes first so its triangles lead the index buffer.
func scenarioB() []Patch {
	return []Patch{
		flat(0.5, 1, 0, 1),
		flat(0, 0.5, 0, 0.25),
		flat(0, 0.5, 0.25, 0.5),
	}
}

// indexOfUV returns the output index whose UV is uv, or -1.
func indexOfUV(t *testing.T, m *Mesh, uv mgl32.Vec2) int {
	t.Helper()
	if m.UVs == nil {
		t.Fatal("mesh has no UVs; enable IncludeUVs")
	}
	for i, got := range m.UVs {
		if got == uv {
			return i
		}
	}
	return -1
}

// checkIndices fails if any index is out of range.
func checkIndices(t *testing.T, m *Mesh) {
	t.Helper()
	if len(m.Indices)%3 != 0 {
		t.Fatalf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			t.Fatalf("index %d = %d out of range (%d vertices)", i, idx, len(m.Positions))
		}
	}
}

// signedArea returns twice the signed area of triangle abc.
func signedArea(a, b, c mgl32.Vec2) float32 {
	return (b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// edgeKey is an undirected edge between two output vertices.
type edgeKey [2]uint32

func undirected(a, b uint32) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// edgeUse counts how many triangles in tris use each undirected edge.
func edgeUse(tris [][3]uint32) map[edgeKey]int {
	use := make(map[edgeKey]int)
	for _, tri := range tris {
		use[undirected(tri[0], tri[1])]++
		use[undirected(tri[1], tri[2])]++
		use[undirected(tri[2], tri[0])]++
	}
	return use
}

func triangles(m *Mesh, from, to int) [][3]uint32 {
	var out [][3]uint32
	for i := from; i < to; i++ {
		out = append(out, m.Triangle(i))
	}
	return out
}
