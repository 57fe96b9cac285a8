// Package tessellate subdivides the UV domain into patches at varying levels
// of detail, standing in for the GPU tessellation pass.
package tessellate

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/patchstitch/pkg/stitch"
)

// Surface maps the unit UV square to 3D.
type Surface interface {
	Eval(uv mgl32.Vec2) mgl32.Vec3
	// Seams reports the axes on which the surface closes on itself.
	Seams() stitch.Seam
}

// Plane is a flat sheet in the XZ plane.
type Plane struct {
	Width, Depth float32
}

// Eval implements Surface.
func (p Plane) Eval(uv mgl32.Vec2) mgl32.Vec3 {
	return mgl32.Vec3{uv[0] * p.Width, 0, uv[1] * p.Depth}
}

// Seams implements Surface.
func (p Plane) Seams() stitch.Seam {
	return stitch.SeamNone
}

// Cylinder wraps u around the Y axis.
type Cylinder struct {
	Radius, Height float32
}

// Eval implements Surface.
func (c Cylinder) Eval(uv mgl32.Vec2) mgl32.Vec3 {
	sin, cos := math.Sincos(float64(uv[0]) * 2 * math.Pi)
	return mgl32.Vec3{c.Radius * float32(cos), uv[1] * c.Height, c.Radius * float32(sin)}
}

// Seams implements Surface.
func (c Cylinder) Seams() stitch.Seam {
	return stitch.SeamX
}

// Torus wraps u around the Y axis and v around the tube.
type Torus struct {
	Major, Minor float32
}

// Eval implements Surface.
func (t Torus) Eval(uv mgl32.Vec2) mgl32.Vec3 {
	su, cu := math.Sincos(float64(uv[0]) * 2 * math.Pi)
	sv, cv := math.Sincos(float64(uv[1]) * 2 * math.Pi)
	ring := float64(t.Major) + float64(t.Minor)*cv
	return mgl32.Vec3{
		float32(ring * cu),
		t.Minor * float32(sv),
		float32(ring * su),
	}
}

// Seams implements Surface.
func (t Torus) Seams() stitch.Seam {
	return stitch.SeamX | stitch.SeamY
}

// SurfaceByName returns a unit-sized surface: "plane", "cylinder" or "torus".
func SurfaceByName(name string) (Surface, error) {
	switch name {
	case "plane":
		return Plane{Width: 1, Depth: 1}, nil
	case "cylinder":
		return Cylinder{Radius: 0.5, Height: 1}, nil
	case "torus":
		return Torus{Major: 1, Minor: 0.35}, nil
	}
	return nil, fmt.Errorf("unknown surface %q", name)
}
