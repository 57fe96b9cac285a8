package export

import (
	"bufio"
	"errors"
	stdmath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/patchstitch/internal/config"
	"github.com/Faultbox/patchstitch/internal/logger"
	"github.com/Faultbox/patchstitch/internal/tessellate"
	"github.com/Faultbox/patchstitch/pkg/formats"
	"github.com/Faultbox/patchstitch/pkg/math"
	"github.com/Faultbox/patchstitch/pkg/stitch"
)

// testConfig returns a config that writes into a temp dir and generates a
// uniform plane of the given depth.
func testConfig(t *testing.T, depth int) *config.Config {
	t.Helper()
	logger.InitNop()

	cfg := config.Default()
	cfg.Input.Depth = depth
	cfg.Input.Radial = false
	cfg.Output.Path = filepath.Join(t.TempDir(), "out", "mesh.obj")
	return cfg
}

func countOBJLines(t *testing.T, path string) (v, vt, f int) {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()

	sc := bufio.NewScanner(file)
	for sc.Scan() {
		switch {
		case strings.HasPrefix(sc.Text(), "v "):
			v++
		case strings.HasPrefix(sc.Text(), "vt "):
			vt++
		case strings.HasPrefix(sc.Text(), "f "):
			f++
		}
	}
	return v, vt, f
}

func TestRunGeneratedPlane(t *testing.T) {
	cfg := testConfig(t, 2)

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Source != "surface:plane" {
		t.Errorf("source = %q", res.Source)
	}
	if res.Stats.Patches != 16 {
		t.Errorf("expected 16 patches, got %d", res.Stats.Patches)
	}
	if res.Mesh.VertexCount() != 25 {
		t.Errorf("expected 25 vertices, got %d", res.Mesh.VertexCount())
	}
	if res.Mesh.TriangleCount() != 32 {
		t.Errorf("expected 32 triangles, got %d", res.Mesh.TriangleCount())
	}
	if res.Seams != stitch.SeamNone {
		t.Errorf("plane should not wrap, got %v", res.Seams)
	}

	v, vt, f := countOBJLines(t, res.Output)
	if v != 25 || vt != 0 || f != 32 {
		t.Errorf("OBJ has v=%d vt=%d f=%d, want 25/0/32", v, vt, f)
	}
}

func TestRunGeneratedTorusWraps(t *testing.T) {
	cfg := testConfig(t, 2)
	cfg.Input.Surface = "torus"

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Seams != stitch.SeamX|stitch.SeamY {
		t.Errorf("torus seams = %v", res.Seams)
	}
	// Uniform grids have no T-junctions, across the seams or elsewhere.
	if res.Stats.Inserted != 0 {
		t.Errorf("expected no inserted vertices, got %d", res.Stats.Inserted)
	}
	if res.Mesh.TriangleCount() != 32 {
		t.Errorf("expected 32 triangles, got %d", res.Mesh.TriangleCount())
	}
}

func TestRunPatchFile(t *testing.T) {
	cfg := testConfig(t, 0)

	s, _ := tessellate.SurfaceByName("plane")
	patches := tessellate.Tessellate(s, tessellate.RadialLOD(mgl32.Vec2{0.1, 0.1}, 3), 3)

	in := filepath.Join(t.TempDir(), "in.ptch")
	if err := formats.WritePatchFile(in, patches, formats.GPULayout); err != nil {
		t.Fatalf("WritePatchFile: %v", err)
	}
	cfg.Input.PatchFile = in
	cfg.Stitch.IncludeUVs = true
	cfg.Stitch.Normals = "both"

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Source != in {
		t.Errorf("source = %q, want %q", res.Source, in)
	}
	if res.Stats.Patches != len(patches) {
		t.Errorf("expected %d patches, got %d", len(patches), res.Stats.Patches)
	}
	if res.Stats.Inserted == 0 {
		t.Error("mixed-depth input should insert T-junction vertices")
	}
	if res.Stats.Discarded != 0 {
		t.Errorf("unexpected discards: %d", res.Stats.Discarded)
	}

	v, vt, f := countOBJLines(t, res.Output)
	if v != res.Mesh.VertexCount() || vt != v {
		t.Errorf("OBJ has v=%d vt=%d, mesh has %d vertices", v, vt, res.Mesh.VertexCount())
	}
	if f != res.Mesh.TriangleCount() || f%2 != 0 {
		t.Errorf("OBJ has %d faces, mesh has %d triangles", f, res.Mesh.TriangleCount())
	}
}

func TestRunHeaderlessBuffer(t *testing.T) {
	cfg := testConfig(t, 0)

	patches := []stitch.Patch{
		stitch.NewPatch(math.Rect{Left: 0, Right: 0.5, Lower: 0, Upper: 1}, nil),
		stitch.NewPatch(math.Rect{Left: 0.5, Right: 1, Lower: 0, Upper: 1}, nil),
	}
	raw, err := formats.EncodePatches(patches, formats.GPULayout)
	if err != nil {
		t.Fatalf("EncodePatches: %v", err)
	}
	in := filepath.Join(t.TempDir(), "readback.bin")
	if err := os.WriteFile(in, raw, 0644); err != nil {
		t.Fatal(err)
	}

	cfg.Input.PatchFile = in
	cfg.Input.Layout = "gpu"

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Mesh.VertexCount() != 6 || res.Mesh.TriangleCount() != 4 {
		t.Errorf("got %d vertices, %d triangles; want 6, 4",
			res.Mesh.VertexCount(), res.Mesh.TriangleCount())
	}
}

func TestRunValidationIsNotFatal(t *testing.T) {
	cfg := testConfig(t, 0)
	cfg.Debug.Validate = true

	patches := []stitch.Patch{
		stitch.NewPatch(math.Rect{Left: 0, Right: 1, Lower: 0, Upper: 1}, nil),
		stitch.NewPatch(math.Rect{Left: 1, Right: 1, Lower: 0, Upper: 1}, nil),
	}
	in := filepath.Join(t.TempDir(), "bad.ptch")
	if err := formats.WritePatchFile(in, patches, formats.DefaultLayout); err != nil {
		t.Fatalf("WritePatchFile: %v", err)
	}
	cfg.Input.PatchFile = in

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !errors.Is(res.Invalid, stitch.ErrDegeneratePatch) {
		t.Errorf("expected ErrDegeneratePatch, got %v", res.Invalid)
	}
	if _, err := os.Stat(res.Output); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestRunWritesPreview(t *testing.T) {
	cfg := testConfig(t, 2)
	cfg.Output.Preview = filepath.Join(filepath.Dir(cfg.Output.Path), "mesh.webp")
	cfg.Output.PreviewSize = 64

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Preview != cfg.Output.Preview {
		t.Errorf("preview = %q", res.Preview)
	}
	info, err := os.Stat(res.Preview)
	if err != nil {
		t.Fatalf("preview not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("empty preview file")
	}
}

func TestRunPreviewWithNonFiniteInput(t *testing.T) {
	nan := float32(stdmath.NaN())

	tests := []struct {
		name  string
		uvs   bool
		spoil func(p *stitch.Patch)
	}{
		{"NaN UV", true, func(p *stitch.Patch) { p[2].UV[1] = nan }},
		{"NaN position", false, func(p *stitch.Patch) { p[2].Position[1] = nan }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, 0)
			cfg.Debug.Validate = true
			cfg.Stitch.IncludeUVs = tt.uvs
			cfg.Output.Preview = filepath.Join(filepath.Dir(cfg.Output.Path), "mesh.png")
			cfg.Output.PreviewSize = 32

			patches := []stitch.Patch{
				stitch.NewPatch(math.Rect{Left: 0, Right: 0.5, Lower: 0, Upper: 1}, nil),
				stitch.NewPatch(math.Rect{Left: 0.5, Right: 1, Lower: 0, Upper: 1}, nil),
			}
			tt.spoil(&patches[1])

			in := filepath.Join(t.TempDir(), "nan.ptch")
			if err := formats.WritePatchFile(in, patches, formats.DefaultLayout); err != nil {
				t.Fatalf("WritePatchFile: %v", err)
			}
			cfg.Input.PatchFile = in

			res, err := Run(cfg)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if _, err := os.Stat(res.Preview); err != nil {
				t.Errorf("preview not written: %v", err)
			}
			if tt.uvs && !errors.Is(res.Invalid, stitch.ErrNaNUV) {
				t.Errorf("expected ErrNaNUV from validation, got %v", res.Invalid)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config, string)
		want   error
	}{
		{
			name:   "missing patch file",
			mutate: func(c *config.Config, dir string) { c.Input.PatchFile = filepath.Join(dir, "nope.ptch") },
			want:   os.ErrNotExist,
		},
		{
			name: "truncated buffer",
			mutate: func(c *config.Config, dir string) {
				path := filepath.Join(dir, "short.bin")
				os.WriteFile(path, make([]byte, 30), 0644)
				c.Input.PatchFile = path
			},
			want: formats.ErrTruncatedPatchData,
		},
		{
			name: "bad container version",
			mutate: func(c *config.Config, dir string) {
				path := filepath.Join(dir, "v9.ptch")
				data := append([]byte("PTCH\x09\x00"), make([]byte, 16)...)
				os.WriteFile(path, data, 0644)
				c.Input.PatchFile = path
			},
			want: formats.ErrUnsupportedPatchVersion,
		},
		{
			name:   "unknown normals",
			mutate: func(c *config.Config, _ string) { c.Stitch.Normals = "outward" },
		},
		{
			name:   "unknown surface",
			mutate: func(c *config.Config, _ string) { c.Input.Surface = "klein" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, 1)
			tt.mutate(cfg, t.TempDir())

			_, err := Run(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
