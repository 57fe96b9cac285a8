package math

import "github.com/go-gl/mathgl/mgl32"

// Rect is an axis-aligned rectangle in UV space.
type Rect struct {
	Left, Right  float32 // x extent
	Lower, Upper float32 // y extent
}

// Width returns the x extent.
func (r Rect) Width() float32 {
	return r.Right - r.Left
}

// Height returns the y extent.
func (r Rect) Height() float32 {
	return r.Upper - r.Lower
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() mgl32.Vec2 {
	return mgl32.Vec2{(r.Left + r.Right) / 2, (r.Lower + r.Upper) / 2}
}

// InsideX reports whether x lies strictly between Left and Right.
func (r Rect) InsideX(x float32) bool {
	return StrictlyBetween(x, r.Left, r.Right)
}

// InsideY reports whether y lies strictly between Lower and Upper.
func (r Rect) InsideY(y float32) bool {
	return StrictlyBetween(y, r.Lower, r.Upper)
}

// Quadrants splits r into four equal children ordered
// lower-left, upper-left, upper-right, lower-right.
func (r Rect) Quadrants() [4]Rect {
	mx := (r.Left + r.Right) / 2
	my := (r.Lower + r.Upper) / 2
	return [4]Rect{
		{Left: r.Left, Right: mx, Lower: r.Lower, Upper: my},
		{Left: r.Left, Right: mx, Lower: my, Upper: r.Upper},
		{Left: mx, Right: r.Right, Lower: my, Upper: r.Upper},
		{Left: mx, Right: r.Right, Lower: r.Lower, Upper: my},
	}
}
