package tessellate

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/patchstitch/pkg/math"
	"github.com/Faultbox/patchstitch/pkg/stitch"
)

// LODFunc returns the wanted subdivision depth for a cell centred at c.
type LODFunc func(c mgl32.Vec2) int

// UniformLOD subdivides every cell to depth.
func UniformLOD(depth int) LODFunc {
	return func(mgl32.Vec2) int { return depth }
}

// RadialLOD is finest at focus and drops one level every 1/(1.5*maxDepth) of
// UV distance.
func RadialLOD(focus mgl32.Vec2, maxDepth int) LODFunc {
	return func(c mgl32.Vec2) int {
		d := c.Sub(focus).Len()
		level := maxDepth - int(d*float32(maxDepth)*1.5)
		if level < 0 {
			return 0
		}
		return level
	}
}

// Domain is the full UV square.
var Domain = math.Rect{Left: 0, Right: 1, Lower: 0, Upper: 1}

// Tessellate subdivides the unit square as a quadtree, splitting a cell while
// its depth is below both maxDepth and lod at its centre. Leaves are emitted
// depth first in quadrant order.
func Tessellate(s Surface, lod LODFunc, maxDepth int) []stitch.Patch {
	var patches []stitch.Patch
	var walk func(r math.Rect, depth int)
	walk = func(r math.Rect, depth int) {
		if depth < maxDepth && depth < lod(r.Center()) {
			for _, q := range r.Quadrants() {
				walk(q, depth+1)
			}
			return
		}
		patches = append(patches, stitch.NewPatch(r, s.Eval))
	}
	walk(Domain, 0)
	return patches
}

// Depths returns the number of patches at each quadtree depth, derived from
// patch size.
func Depths(patches []stitch.Patch) map[int]int {
	out := make(map[int]int)
	for _, p := range patches {
		w := p[2].UV[0] - p[0].UV[0]
		depth := 0
		for w < 1 && depth < 32 {
			w *= 2
			depth++
		}
		out[depth]++
	}
	return out
}
