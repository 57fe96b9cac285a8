package stitch

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/patchstitch/pkg/math"
)

// maxClipAttempts bounds the number of consecutive rejected ears before the
// rest of an outline is dropped.
const maxClipAttempts = 1000

// ring is a doubly linked cycle over polygon slots, stored as index arrays so
// unlinking a vertex never moves the others.
type ring struct {
	next, prev []int
	size       int
}

func (r *ring) reset(n int) {
	r.next = r.next[:0]
	r.prev = r.prev[:0]
	for i := range n {
		r.next = append(r.next, (i+1)%n)
		r.prev = append(r.prev, (i+n-1)%n)
	}
	r.size = n
}

func (r *ring) remove(i int) {
	p, n := r.prev[i], r.next[i]
	r.next[p] = n
	r.prev[n] = p
	r.size--
}

// collinearWithout reports whether every vertex but skip shares one x or one y.
func (r *ring) collinearWithout(pts []mgl32.Vec2, skip int) bool {
	first := r.next[skip]
	sameX, sameY := true, true
	for i := r.next[first]; i != skip; i = r.next[i] {
		sameX = sameX && pts[i][0] == pts[first][0]
		sameY = sameY && pts[i][1] == pts[first][1]
		if !sameX && !sameY {
			return false
		}
	}
	return true
}

// clip triangulates the outline pts by ear clipping, calling emit with the
// slot indices of each triangle. A triplet is rejected when its three points
// are axis-collinear, or when cutting it would flatten the rest of the
// outline onto one line. It returns the number of slots left unresolved when
// maxClipAttempts consecutive triplets are rejected; 0 means the outline was
// fully consumed.
func clip(pts []mgl32.Vec2, r *ring, emit func(a, b, c int)) int {
	if len(pts) < 3 {
		return 0
	}
	r.reset(len(pts))

	cur := 0
	attempts := 0
	for r.size > 2 {
		a := cur
		b := r.next[a]
		c := r.next[b]

		if math.AxisCollinear(pts[a], pts[b], pts[c]) || r.flattens(pts, a, b, c) {
			attempts++
			if attempts >= maxClipAttempts {
				return r.size
			}
			cur = b
			continue
		}

		emit(a, b, c)
		r.remove(b)
		attempts = 0
		cur = c
	}
	return 0
}

// flattens reports whether removing b leaves three or more collinear points.
// That can only happen when a and c already share a coordinate.
func (r *ring) flattens(pts []mgl32.Vec2, a, b, c int) bool {
	if r.size <= 3 {
		return false
	}
	if pts[a][0] != pts[c][0] && pts[a][1] != pts[c][1] {
		return false
	}
	return r.collinearWithout(pts, b)
}
