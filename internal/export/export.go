// Package export runs one patch-to-mesh export: load, validate, stitch, write.
package export

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/patchstitch/internal/config"
	"github.com/Faultbox/patchstitch/internal/logger"
	"github.com/Faultbox/patchstitch/internal/preview"
	"github.com/Faultbox/patchstitch/internal/tessellate"
	"github.com/Faultbox/patchstitch/pkg/formats"
	"github.com/Faultbox/patchstitch/pkg/stitch"
)

// Result describes a finished export.
type Result struct {
	Source   string // patch file path, or "surface:<name>" for generated input
	Output   string
	Preview  string // empty when no preview was requested
	Seams    stitch.Seam
	Stats    stitch.Stats
	Mesh     *stitch.Mesh
	Invalid  error // validation findings, nil when clean or not requested
	Duration time.Duration
}

// Run executes the export described by cfg.
func Run(cfg *config.Config) (*Result, error) {
	start := time.Now()
	res := &Result{Output: cfg.Output.Path}

	patches, seams, err := loadPatches(cfg, res)
	if err != nil {
		return nil, err
	}
	res.Seams = seams
	logger.Info("patches loaded",
		zap.String("source", res.Source),
		zap.Int("patches", len(patches)))

	if cfg.Debug.Validate {
		if err := stitch.Validate(patches); err != nil {
			res.Invalid = err
			logger.Warn("patch validation failed, stitching anyway", zap.Error(err))
		}
	}

	normals, err := stitch.ParseNormalsType(cfg.Stitch.Normals)
	if err != nil {
		return nil, err
	}

	opts := stitch.Options{
		Seams:      seams,
		MapUV:      cfg.Stitch.MapUV,
		Normals:    normals,
		IncludeUVs: cfg.Stitch.IncludeUVs,
		Progress:   progressLogger(),
		Logger:     logger.Named("stitch"),
	}

	tables := stitch.BuildBoundaryTables(patches)
	logger.Debug("boundary tables built", zap.Int("ranges", tables.Len()))

	s := stitch.New(patches, tables, opts)
	res.Mesh = s.Run()
	res.Stats = s.Stats()

	if res.Stats.Discarded > 0 {
		logger.Warn("some patch outlines were not fully triangulated",
			zap.Int("discarded", res.Stats.Discarded))
	}

	if err := formats.SaveOBJ(cfg.Output.Path, res.Mesh, cfg.Output.Name); err != nil {
		return nil, fmt.Errorf("saving mesh: %w", err)
	}

	if path := cfg.Output.Preview; path != "" {
		popts := preview.DefaultOptions()
		popts.Size = cfg.Output.PreviewSize
		if err := preview.Save(path, res.Mesh, popts); err != nil {
			return nil, fmt.Errorf("saving preview: %w", err)
		}
		res.Preview = path
		logger.Debug("preview written", zap.String("path", path), zap.Int("size", popts.Size))
	}

	res.Duration = time.Since(start)
	logger.Info("export complete",
		zap.String("output", res.Output),
		zap.Int("vertices", res.Mesh.VertexCount()),
		zap.Int("triangles", res.Mesh.TriangleCount()),
		zap.Int("inserted", res.Stats.Inserted),
		zap.Duration("took", res.Duration))

	return res, nil
}

// loadPatches reads the configured patch file, or tessellates the configured
// surface when none is set. Generated closed surfaces add their own seams.
func loadPatches(cfg *config.Config, res *Result) ([]stitch.Patch, stitch.Seam, error) {
	seams := cfg.Seams()

	if path := cfg.Input.PatchFile; path != "" {
		res.Source = path
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, fmt.Errorf("reading patches: %w", err)
		}
		if formats.IsPatchFile(data) {
			pf, err := formats.ParsePatchFile(data)
			if err != nil {
				return nil, 0, fmt.Errorf("parsing %s: %w", path, err)
			}
			logger.Debug("patch file header",
				zap.Stringer("version", pf.Version),
				zap.Int("stride", pf.Layout.Stride))
			return pf.Patches, seams, nil
		}

		// Headerless readback buffer.
		layout, err := formats.LayoutByName(cfg.Input.Layout)
		if err != nil {
			return nil, 0, err
		}
		patches, err := formats.DecodePatches(data, layout)
		if err != nil {
			return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
		}
		return patches, seams, nil
	}

	surface, err := tessellate.SurfaceByName(cfg.Input.Surface)
	if err != nil {
		return nil, 0, err
	}
	res.Source = "surface:" + cfg.Input.Surface

	lod := tessellate.UniformLOD(cfg.Input.Depth)
	if cfg.Input.Radial {
		lod = tessellate.RadialLOD(mgl32.Vec2{cfg.Input.FocusU, cfg.Input.FocusV}, cfg.Input.Depth)
	}
	patches := tessellate.Tessellate(surface, lod, cfg.Input.Depth)

	for depth, n := range tessellate.Depths(patches) {
		logger.Debug("generated patches", zap.Int("depth", depth), zap.Int("count", n))
	}
	return patches, seams | surface.Seams(), nil
}

func progressLogger() stitch.ProgressFunc {
	log := logger.Named("progress")
	return func(f float64) {
		log.Debug("stitching", zap.Float64("fraction", f))
	}
}
