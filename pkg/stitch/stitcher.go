package stitch

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/patchstitch/pkg/math"
)

// Progress milestones reported during Run.
const (
	progressIndexed = 0.25
	progressFilled  = 0.5
)

// node is one vertex of a patch outline. local is its position on the
// patch's own boundary; it differs from v.UV only for samples pulled across
// a seam.
type node struct {
	v     Vertex
	local mgl32.Vec2
}

// Stitcher builds the stitched mesh for one export. It is not safe for
// concurrent use and Run is meant to be called once.
type Stitcher struct {
	input  []Patch
	tables *BoundaryTables
	opts   Options
	log    *zap.Logger

	patches []Patch
	indexOf map[math.UVKey]int
	mesh    *Mesh
	stats   Stats

	outline []node
	local   []mgl32.Vec2
	ring    ring
}

// New returns a Stitcher over patches. tables must have been built from the
// same patches. Neither is modified.
func New(patches []Patch, tables *BoundaryTables, opts Options) *Stitcher {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Stitcher{
		input:  patches,
		tables: tables,
		opts:   opts,
		log:    log,
	}
}

// Stitch indexes patches and runs a Stitcher over them.
func Stitch(patches []Patch, opts Options) (*Mesh, Stats) {
	s := New(patches, BuildBoundaryTables(patches), opts)
	m := s.Run()
	return m, s.Stats()
}

// Stats returns the counters of the last run.
func (s *Stitcher) Stats() Stats {
	return s.stats
}

// Run clears the output and rebuilds it from the patches.
func (s *Stitcher) Run() *Mesh {
	s.patches = append(s.patches[:0], s.input...)
	s.indexOf = make(map[math.UVKey]int)
	s.mesh = &Mesh{}
	if s.opts.IncludeUVs {
		s.mesh.UVs = []mgl32.Vec2{}
	}
	s.stats = Stats{Patches: len(s.patches)}

	s.assignGlobalIndices()
	s.report(progressIndexed)

	s.fillPositions()
	s.report(progressFilled)

	n := len(s.patches)
	mark := 1
	for i := range s.patches {
		s.stitchPatch(i)
		for mark < 3 && (i+1)*3 >= mark*n {
			s.report(progressFilled + float64(mark)/6)
			mark++
		}
	}
	for ; mark < 3; mark++ {
		s.report(progressFilled + float64(mark)/6)
	}

	s.stats.Vertices = len(s.mesh.Positions)
	s.stats.Triangles = s.mesh.TriangleCount()
	s.report(1)

	s.log.Debug("stitch complete",
		zap.Int("patches", s.stats.Patches),
		zap.Int("vertices", s.stats.Vertices),
		zap.Int("inserted", s.stats.Inserted),
		zap.Int("triangles", s.stats.Triangles),
		zap.Int("discarded", s.stats.Discarded))

	return s.mesh
}

func (s *Stitcher) report(f float64) {
	if s.opts.Progress != nil {
		s.opts.Progress(f)
	}
}

// assignGlobalIndices gives every distinct UV the next free index, in patch
// and corner order.
func (s *Stitcher) assignGlobalIndices() {
	next := 0
	for p := range s.patches {
		for c := range s.patches[p] {
			v := &s.patches[p][c]
			key := math.KeyOf(v.UV)
			idx, ok := s.indexOf[key]
			if !ok {
				idx = next
				s.indexOf[key] = idx
				next++
			}
			v.GlobalIndex = idx
		}
	}
}

// fillPositions writes each index's position the first time it is seen.
// Indices were handed out in the same order, so the first sighting of an
// index is always the next slot.
func (s *Stitcher) fillPositions() {
	for p := range s.patches {
		for _, v := range s.patches[p] {
			if v.GlobalIndex >= len(s.mesh.Positions) {
				s.appendVertex(v)
			}
		}
	}
}

func (s *Stitcher) appendVertex(v Vertex) {
	pos := v.Position
	if s.opts.MapUV {
		pos = math.SphereRemap(v.UV)
	}
	s.mesh.Positions = append(s.mesh.Positions, pos)
	if s.opts.IncludeUVs {
		s.mesh.UVs = append(s.mesh.UVs, v.UV)
	}
}

// resolve returns the global index of an outline vertex, registering it if
// its UV has not been seen.
func (s *Stitcher) resolve(n *node) int {
	if n.v.GlobalIndex >= 0 {
		return n.v.GlobalIndex
	}
	key := math.KeyOf(n.v.UV)
	if idx, ok := s.indexOf[key]; ok {
		n.v.GlobalIndex = idx
		return idx
	}
	idx := len(s.mesh.Positions)
	s.indexOf[key] = idx
	s.appendVertex(n.v)
	n.v.GlobalIndex = idx
	return idx
}

func (s *Stitcher) stitchPatch(i int) {
	s.buildOutline(i)
	s.collapseDuplicates()

	s.local = s.local[:0]
	for _, n := range s.outline {
		s.local = append(s.local, n.local)
	}

	left := clip(s.local, &s.ring, s.emit)
	if left > 0 {
		s.stats.Discarded++
		s.log.Warn("ear clipping gave up on patch outline",
			zap.Int("patch", i),
			zap.Int("outline", len(s.outline)),
			zap.Int("remaining", left))
	}
}

func (s *Stitcher) emit(a, b, c int) {
	ia := uint32(s.resolve(&s.outline[a]))
	ib := uint32(s.resolve(&s.outline[b]))
	ic := uint32(s.resolve(&s.outline[c]))

	switch s.opts.Normals {
	case NormalsBackward:
		s.mesh.Indices = append(s.mesh.Indices, ic, ib, ia)
	case NormalsBoth:
		s.mesh.Indices = append(s.mesh.Indices, ia, ib, ic, ic, ib, ia)
	default:
		s.mesh.Indices = append(s.mesh.Indices, ia, ib, ic)
	}
}

// buildOutline assembles the boundary of patch i: each corner followed by the
// samples finer neighbors place strictly inside the edge leading to the next
// corner.
func (s *Stitcher) buildOutline(i int) {
	p := &s.patches[i]
	r := p.stitchExtents()

	for c := range p {
		p[c].Side = 3 - c
		p[c].Boundary = true
	}

	s.outline = s.outline[:0]

	s.addCorner(p[0])
	s.addRun(EdgeRight, s.wrap(SeamX, r.Left), r.InsideY, false, p[0].Side,
		func(end float32) mgl32.Vec2 { return mgl32.Vec2{r.Left, end} })

	s.addCorner(p[1])
	s.addRun(EdgeBottom, s.wrap(SeamY, r.Upper), r.InsideX, false, p[1].Side,
		func(end float32) mgl32.Vec2 { return mgl32.Vec2{end, r.Upper} })

	s.addCorner(p[2])
	s.addRun(EdgeLeft, s.wrap(SeamX, r.Right), r.InsideY, true, p[2].Side,
		func(end float32) mgl32.Vec2 { return mgl32.Vec2{r.Right, end} })

	s.addCorner(p[3])
	s.addRun(EdgeTop, s.wrap(SeamY, r.Lower), r.InsideX, true, p[3].Side,
		func(end float32) mgl32.Vec2 { return mgl32.Vec2{end, r.Lower} })
}

func (s *Stitcher) addCorner(v Vertex) {
	s.outline = append(s.outline, node{v: v, local: v.UV})
}

// addRun appends the neighbor samples filed under key in the table for e whose
// end lies inside the current edge, sorted by end.
func (s *Stitcher) addRun(e Edge, key float32, inside func(float32) bool, descending bool, side int, at func(float32) mgl32.Vec2) {
	ranges := s.tables.Lookup(e, key)
	if len(ranges) == 0 {
		return
	}

	var picked []VertexRange
	for _, vr := range ranges {
		if inside(vr.End) {
			picked = append(picked, vr)
		}
	}
	sort.SliceStable(picked, func(a, b int) bool {
		return picked[a].End < picked[b].End
	})

	for k := range picked {
		vr := picked[k]
		if descending {
			vr = picked[len(picked)-1-k]
		}
		v := s.patches[vr.Patch][vr.EndCorner]
		v.GlobalIndex = -1
		v.Boundary = true
		v.Side = side
		s.outline = append(s.outline, node{v: v, local: at(vr.End)})
		s.stats.Inserted++
	}
}

// wrap swaps a seam coordinate for the opposite one when the surface is
// closed along axis, so edges on the seam find their neighbors across it.
func (s *Stitcher) wrap(axis Seam, key float32) float32 {
	if s.opts.Seams&axis == 0 {
		return key
	}
	switch key {
	case 0:
		return 1
	case 1:
		return 0
	}
	return key
}

// collapseDuplicates drops outline vertices whose UV repeats the previous
// one, including the wrap from last to first.
func (s *Stitcher) collapseDuplicates() {
	if len(s.outline) == 0 {
		return
	}
	out := s.outline[:1]
	for _, n := range s.outline[1:] {
		if math.KeyOf(n.v.UV) == math.KeyOf(out[len(out)-1].v.UV) {
			s.stats.Inserted -= boolInt(n.v.GlobalIndex < 0)
			continue
		}
		out = append(out, n)
	}
	for len(out) > 1 && math.KeyOf(out[len(out)-1].v.UV) == math.KeyOf(out[0].v.UV) {
		s.stats.Inserted -= boolInt(out[len(out)-1].v.GlobalIndex < 0)
		out = out[:len(out)-1]
	}
	s.outline = out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
