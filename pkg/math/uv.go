// Package math provides UV-space helpers for patch stitching.
package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// UVKey identifies a UV coordinate by the exact bit pattern of its components.
// Two coordinates share a key only if both components are bit-identical,
// except that -0 and +0 are folded together.
type UVKey uint64

// KeyOf returns the identity key of uv.
func KeyOf(uv mgl32.Vec2) UVKey {
	return UVKey(uint64(bits(uv[0]))<<32 | uint64(bits(uv[1])))
}

// UV returns the coordinate encoded in the key.
func (k UVKey) UV() mgl32.Vec2 {
	return mgl32.Vec2{
		math.Float32frombits(uint32(k >> 32)),
		math.Float32frombits(uint32(k)),
	}
}

func bits(f float32) uint32 {
	if f == 0 {
		return 0
	}
	return math.Float32bits(f)
}

// AxisCollinear reports whether a, b and c all share an x or all share a y.
// Points on a common diagonal are not considered collinear.
func AxisCollinear(a, b, c mgl32.Vec2) bool {
	return (a[0] == b[0] && b[0] == c[0]) || (a[1] == b[1] && b[1] == c[1])
}

// StrictlyBetween reports whether lo < v < hi.
func StrictlyBetween(v, lo, hi float32) bool {
	return lo < v && v < hi
}

// IsNaN reports whether either component of uv is NaN.
func IsNaN(uv mgl32.Vec2) bool {
	return uv[0] != uv[0] || uv[1] != uv[1]
}
