// Package preview rasterizes a stitched mesh in UV space so T-junction repair
// can be inspected without a renderer.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/Faultbox/patchstitch/pkg/stitch"
)

// ErrUnsupportedFormat is returned by Save for extensions other than .png
// and .webp.
var ErrUnsupportedFormat = errors.New("unsupported preview format")

var (
	background = color.NRGBA{R: 24, G: 24, B: 28, A: 255}
	edgeColor  = color.NRGBA{R: 240, G: 240, B: 240, A: 255}
	palette    = []color.NRGBA{
		{R: 66, G: 133, B: 244, A: 255},
		{R: 52, G: 168, B: 83, A: 255},
		{R: 251, G: 188, B: 5, A: 255},
		{R: 234, G: 67, B: 53, A: 255},
		{R: 171, G: 71, B: 188, A: 255},
		{R: 0, G: 172, B: 193, A: 255},
	}
)

// Options controls rendering.
type Options struct {
	Size      int     // output is Size x Size pixels
	LineWidth float32 // edge width in pixels, 0 disables edges
}

// DefaultOptions returns a 512px image with 1px edges.
func DefaultOptions() Options {
	return Options{Size: 512, LineWidth: 1}
}

// Render draws every triangle of m, filled with a rotating palette colour and
// outlined. Vertices are placed by UV when the mesh carries UVs; otherwise
// positions are projected onto their two widest axes and scaled to fill the
// image.
func Render(m *stitch.Mesh, opts Options) *image.NRGBA {
	size := opts.Size
	if size <= 0 {
		size = DefaultOptions().Size
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	pts, ok := project(m, float32(size))
	if len(pts) == 0 {
		return img
	}
	drawable := func(tri [3]uint32) bool {
		return ok[tri[0]] && ok[tri[1]] && ok[tri[2]]
	}

	z := vector.NewRasterizer(size, size)
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		if !drawable(tri) {
			continue
		}
		a, b, c := pts[tri[0]], pts[tri[1]], pts[tri[2]]

		z.Reset(size, size)
		z.MoveTo(a[0], a[1])
		z.LineTo(b[0], b[1])
		z.LineTo(c[0], c[1])
		z.ClosePath()
		z.Draw(img, img.Bounds(), image.NewUniform(palette[i%len(palette)]), image.Point{})
	}

	if opts.LineWidth > 0 {
		edges := image.NewUniform(edgeColor)
		for i := 0; i < m.TriangleCount(); i++ {
			tri := m.Triangle(i)
			if !drawable(tri) {
				continue
			}
			z.Reset(size, size)
			for k := range 3 {
				stroke(z, pts[tri[k]], pts[tri[(k+1)%3]], opts.LineWidth)
			}
			z.Draw(img, img.Bounds(), edges, image.Point{})
		}
	}
	return img
}

// project maps mesh vertices to pixel coordinates, v pointing up. ok[i] is
// false for vertices whose coordinates are not finite; triangles using them
// are not drawn. Finite points far outside the image are clamped so the
// rasterizer only ever sees small coordinates.
func project(m *stitch.Mesh, size float32) (pts []mgl32.Vec2, ok []bool) {
	n := m.VertexCount()
	if n == 0 {
		return nil, nil
	}

	pts = make([]mgl32.Vec2, n)
	if m.UVs != nil {
		copy(pts, m.UVs)
	} else {
		lo, hi := finiteBounds(m.Positions)
		ext := hi.Sub(lo)
		u, v := widestAxes(ext)
		w, h := ext[u], ext[v]
		if w == 0 {
			w = 1
		}
		if h == 0 {
			h = 1
		}
		for i, p := range m.Positions {
			pts[i] = mgl32.Vec2{(p[u] - lo[u]) / w, (p[v] - lo[v]) / h}
		}
	}

	// Keep a half pixel margin so edges on the border stay visible.
	scale := size - 1
	ok = make([]bool, n)
	for i, p := range pts {
		q := mgl32.Vec2{0.5 + p[0]*scale, 0.5 + (1-p[1])*scale}
		if !finite(q[0]) || !finite(q[1]) {
			continue
		}
		pts[i] = mgl32.Vec2{clamp(q[0], -size, 2*size), clamp(q[1], -size, 2*size)}
		ok[i] = true
	}
	return pts, ok
}

// finiteBounds is Mesh.Bounds restricted to fully finite positions.
func finiteBounds(ps []mgl32.Vec3) (lo, hi mgl32.Vec3) {
	first := true
	for _, p := range ps {
		if !finite(p[0]) || !finite(p[1]) || !finite(p[2]) {
			continue
		}
		if first {
			lo, hi = p, p
			first = false
			continue
		}
		for k := range 3 {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

func clamp(f, lo, hi float32) float32 {
	return max(lo, min(f, hi))
}

// widestAxes returns the two axes of largest extent, in axis order.
func widestAxes(ext mgl32.Vec3) (int, int) {
	narrow := 0
	for k := 1; k < 3; k++ {
		if ext[k] < ext[narrow] {
			narrow = k
		}
	}
	switch narrow {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	}
	return 0, 1
}

// stroke adds the segment a-b as a quad of the given width.
func stroke(z *vector.Rasterizer, a, b mgl32.Vec2, width float32) {
	d := b.Sub(a)
	if d.Len() == 0 {
		return
	}
	n := mgl32.Vec2{-d[1], d[0]}.Normalize().Mul(width / 2)

	z.MoveTo(a[0]+n[0], a[1]+n[1])
	z.LineTo(b[0]+n[0], b[1]+n[1])
	z.LineTo(b[0]-n[0], b[1]-n[1])
	z.LineTo(a[0]-n[0], a[1]-n[1])
	z.ClosePath()
}

// Encode writes img as PNG or WebP depending on format ("png" or "webp").
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "webp":
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Save renders m and writes it to path, choosing the encoder by extension.
func Save(path string, m *stitch.Mesh, opts Options) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format != "png" && format != "webp" {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, Render(m, opts), format); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
