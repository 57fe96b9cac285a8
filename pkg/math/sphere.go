package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// sphereSweep is the fraction of a full turn (in units of pi) the v axis
// covers when remapped. It stays short of 2 so the two v seams do not meet.
const sphereSweep = 1.9

// SphereRemap maps a UV coordinate onto the analytic preview shape used in
// place of tessellated positions: x passes through, v sweeps a circle in YZ.
func SphereRemap(uv mgl32.Vec2) mgl32.Vec3 {
	angle := float64(uv[1]) * math.Pi * sphereSweep
	return mgl32.Vec3{
		uv[0],
		float32(math.Sin(angle)),
		float32(math.Cos(angle)),
	}
}
