// Package stitch joins independently tessellated quad patches into a single
// crack-free indexed triangle mesh.
//
// Patches are axis-aligned in UV space. Where a neighbor is subdivided more
// finely than a patch, the neighbor's boundary samples are inserted into the
// patch's outline before it is triangulated, so both sides of a shared edge
// end up with the same vertices.
package stitch

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/patchstitch/pkg/math"
)

// Vertex is a patch corner or an inserted boundary sample.
type Vertex struct {
	Position    mgl32.Vec3
	UV          mgl32.Vec2
	Boundary    bool
	GlobalIndex int // -1 until assigned
	Side        int // 0-3, boundary run the vertex belongs to while stitching
}

// NewVertex returns an unindexed vertex.
func NewVertex(pos mgl32.Vec3, uv mgl32.Vec2) Vertex {
	return Vertex{Position: pos, UV: uv, GlobalIndex: -1}
}

// Patch is an axis-aligned quad in UV space.
// Corners: [0]=(minX,minY), [1]=(minX,maxY), [2]=(maxX,maxY), [3]=(maxX,minY).
type Patch [4]Vertex

// NewPatch builds a patch covering r. pos evaluates the 3D position of a UV
// coordinate; nil places the patch flat on the XY plane.
func NewPatch(r math.Rect, pos func(uv mgl32.Vec2) mgl32.Vec3) Patch {
	if pos == nil {
		pos = func(uv mgl32.Vec2) mgl32.Vec3 { return mgl32.Vec3{uv[0], uv[1], 0} }
	}
	uvs := [4]mgl32.Vec2{
		{r.Left, r.Lower},
		{r.Left, r.Upper},
		{r.Right, r.Upper},
		{r.Right, r.Lower},
	}
	var p Patch
	for i, uv := range uvs {
		p[i] = NewVertex(pos(uv), uv)
	}
	return p
}

// indexExtents returns the extents as read by the boundary indexer.
func (p *Patch) indexExtents() math.Rect {
	return math.Rect{
		Left:  p[1].UV[0],
		Right: p[3].UV[0],
		Lower: p[0].UV[1],
		Upper: p[2].UV[1],
	}
}

// stitchExtents returns the extents as read while assembling the outline.
// For axis-aligned patches it equals indexExtents.
func (p *Patch) stitchExtents() math.Rect {
	return math.Rect{
		Left:  p[0].UV[0],
		Right: p[2].UV[0],
		Lower: p[3].UV[1],
		Upper: p[1].UV[1],
	}
}

// Edge names one of the four patch boundary edges.
type Edge int

// Patch edges.
const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// String returns the edge name.
func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	}
	return fmt.Sprintf("Edge(%d)", int(e))
}

// VertexRange describes one boundary edge of a patch.
type VertexRange struct {
	Start, End  float32 // interval along the edge, Start <= End
	StartCorner int     // corner index at Start
	EndCorner   int     // corner index at End
	Patch       int     // index of the owning patch
}

// NormalsType selects the winding of emitted triangles.
type NormalsType int

// Winding modes.
const (
	NormalsForward NormalsType = iota
	NormalsBackward
	NormalsBoth // double-sided export
)

// String returns the name used in configuration files.
func (n NormalsType) String() string {
	switch n {
	case NormalsForward:
		return "forward"
	case NormalsBackward:
		return "backward"
	case NormalsBoth:
		return "both"
	}
	return fmt.Sprintf("NormalsType(%d)", int(n))
}

// ParseNormalsType parses "forward", "backward" or "both".
func ParseNormalsType(s string) (NormalsType, error) {
	switch s {
	case "forward", "":
		return NormalsForward, nil
	case "backward":
		return NormalsBackward, nil
	case "both":
		return NormalsBoth, nil
	}
	return NormalsForward, fmt.Errorf("unknown normals type %q", s)
}

// Seam selects the UV axes on which the surface closes on itself.
type Seam uint8

// Seam flags.
const (
	SeamX Seam = 1 << iota // closed along x (u wraps from 1 to 0)
	SeamY                  // closed along y

	SeamNone Seam = 0
)

// String returns the wrapped axes: "none", "x", "y" or "xy".
func (s Seam) String() string {
	switch s {
	case SeamNone:
		return "none"
	case SeamX:
		return "x"
	case SeamY:
		return "y"
	case SeamX | SeamY:
		return "xy"
	}
	return fmt.Sprintf("Seam(%d)", uint8(s))
}

// ProgressFunc receives the completed fraction of a run, in [0,1].
type ProgressFunc func(fraction float64)

// Options configures a Stitcher.
type Options struct {
	Seams      Seam
	MapUV      bool // materialize positions with math.SphereRemap
	Normals    NormalsType
	IncludeUVs bool
	Progress   ProgressFunc
	Logger     *zap.Logger
}

// Stats summarizes a run.
type Stats struct {
	Patches   int
	Vertices  int
	Inserted  int // neighbor samples added to patch outlines
	Triangles int
	Discarded int // outlines abandoned by the ear clipper
}

// Mesh is the stitched output.
type Mesh struct {
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2 // nil unless Options.IncludeUVs
	Indices   []uint32     // triangle list
}

// VertexCount returns the number of output vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]uint32 {
	return [3]uint32{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
}

// Bounds returns the axis-aligned bounding box of the positions.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Positions) == 0 {
		return min, max
	}
	min, max = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for k := range 3 {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max
}
