package stitch

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// clipAll runs clip and returns the emitted triangles and the leftover count.
func clipAll(pts []mgl32.Vec2) ([][3]int, int) {
	var r ring
	var tris [][3]int
	left := clip(pts, &r, func(a, b, c int) {
		tris = append(tris, [3]int{a, b, c})
	})
	return tris, left
}

func TestClip(t *testing.T) {
	tests := []struct {
		name string
		pts  []mgl32.Vec2
		area float32
	}{
		{
			name: "square",
			pts:  []mgl32.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
			area: 1,
		},
		{
			name: "one sample on the left",
			pts:  []mgl32.Vec2{{0, 0}, {0, 0.5}, {0, 1}, {1, 1}, {1, 0}},
			area: 1,
		},
		{
			name: "two samples on the left",
			pts:  []mgl32.Vec2{{0, 0}, {0, 0.25}, {0, 0.5}, {0, 1}, {1, 1}, {1, 0}},
			area: 1,
		},
		{
			name: "many samples on one side",
			pts: []mgl32.Vec2{
				{0, 0}, {0, 0.125}, {0, 0.25}, {0, 0.375}, {0, 0.5},
				{0, 0.625}, {0, 0.75}, {0, 0.875}, {0, 1}, {1, 1}, {1, 0},
			},
			area: 1,
		},
		{
			name: "samples on opposite sides",
			pts: []mgl32.Vec2{
				{0, 0}, {0, 0.5}, {0, 1}, {1, 1}, {1, 0.75}, {1, 0.5}, {1, 0.25}, {1, 0},
			},
			area: 1,
		},
		{
			name: "samples on every side",
			pts: []mgl32.Vec2{
				{0, 0}, {0, 0.5}, {0, 1}, {0.5, 1}, {1, 1}, {1, 0.5}, {1, 0}, {0.5, 0},
			},
			area: 1,
		},
		{
			name: "triangle",
			pts:  []mgl32.Vec2{{0, 0}, {0, 1}, {1, 1}},
			area: 0.5,
		},
		{
			name: "sample on a triangle base",
			pts:  []mgl32.Vec2{{0, 0}, {1, 1}, {2, 0}, {1, 0}},
			area: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tris, left := clipAll(tt.pts)
			if left != 0 {
				t.Fatalf("clip gave up with %d vertices left", left)
			}
			if len(tris) != len(tt.pts)-2 {
				t.Fatalf("expected %d triangles, got %d", len(tt.pts)-2, len(tris))
			}

			var area float32
			for _, tri := range tris {
				a := signedArea(tt.pts[tri[0]], tt.pts[tri[1]], tt.pts[tri[2]])
				if a == 0 {
					t.Errorf("degenerate triangle %v", tri)
				}
				area += abs32(a) / 2
			}
			if area != tt.area {
				t.Errorf("triangles cover %v, want %v", area, tt.area)
			}
		})
	}
}

func TestClip_KeepsOrientation(t *testing.T) {
	pts := []mgl32.Vec2{{0, 0}, {0, 0.5}, {0, 1}, {1, 1}, {1, 0.5}, {1, 0}}
	tris, _ := clipAll(pts)

	// The outline runs clockwise, so every ear does too.
	for _, tri := range tris {
		if signedArea(pts[tri[0]], pts[tri[1]], pts[tri[2]]) >= 0 {
			t.Errorf("triangle %v is not clockwise", tri)
		}
	}
}

func TestClip_DefersCutThatFlattensRest(t *testing.T) {
	// Cutting (0,1,2) first would leave 0, 2 and 3 on y=0 with no ear left.
	pts := []mgl32.Vec2{{0, 0}, {1, 1}, {2, 0}, {1, 0}}
	tris, left := clipAll(pts)

	if left != 0 {
		t.Fatalf("clip gave up with %d vertices left", left)
	}
	want := [][3]int{{1, 2, 3}, {3, 0, 1}}
	if len(tris) != len(want) {
		t.Fatalf("got %v, want %v", tris, want)
	}
	for i := range want {
		if tris[i] != want[i] {
			t.Errorf("triangle %d = %v, want %v", i, tris[i], want[i])
		}
	}
}

func TestRing_Flattens(t *testing.T) {
	pts := []mgl32.Vec2{{0, 0}, {1, 1}, {2, 0}, {1, 0}}
	var r ring
	r.reset(len(pts))

	if !r.flattens(pts, 0, 1, 2) {
		t.Error("removing 1 leaves 0, 2, 3 collinear")
	}
	if r.flattens(pts, 1, 2, 3) {
		t.Error("removing 2 leaves a proper triangle")
	}

	r.remove(3)
	if r.flattens(pts, 0, 1, 2) {
		t.Error("a three-vertex ring never flattens")
	}
}

func TestClip_CollinearGivesUp(t *testing.T) {
	pts := []mgl32.Vec2{{0, 0}, {0, 0.5}, {0, 1}, {0, 0.75}}
	tris, left := clipAll(pts)

	if len(tris) != 0 {
		t.Errorf("expected no triangles, got %v", tris)
	}
	if left != len(pts) {
		t.Errorf("expected %d vertices left, got %d", len(pts), left)
	}
}

func TestClip_TooSmall(t *testing.T) {
	for _, pts := range [][]mgl32.Vec2{nil, {{0, 0}}, {{0, 0}, {1, 1}}} {
		tris, left := clipAll(pts)
		if len(tris) != 0 || left != 0 {
			t.Errorf("%d points: got %d triangles, %d left", len(pts), len(tris), left)
		}
	}
}

func TestRing(t *testing.T) {
	var r ring
	r.reset(4)
	r.remove(1)

	if r.size != 3 {
		t.Errorf("size = %d, want 3", r.size)
	}
	if r.next[0] != 2 || r.prev[2] != 0 {
		t.Errorf("0 and 2 should be linked: next[0]=%d prev[2]=%d", r.next[0], r.prev[2])
	}

	// Reuse keeps no state from the previous polygon.
	r.reset(3)
	if r.size != 3 || r.next[2] != 0 || r.prev[0] != 2 {
		t.Errorf("reset(3) gave next=%v prev=%v", r.next, r.prev)
	}
}

func TestRing_CollinearWithout(t *testing.T) {
	pts := []mgl32.Vec2{{0, 0}, {0, 0.5}, {0, 1}, {1, 1}}
	var r ring
	r.reset(len(pts))

	if !r.collinearWithout(pts, 3) {
		t.Error("dropping (1,1) should leave a vertical line")
	}
	if r.collinearWithout(pts, 1) {
		t.Error("dropping (0,0.5) should leave a triangle")
	}
}
