// Package config handles export configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/patchstitch/pkg/stitch"
)

// ErrInvalidConfig is wrapped by every error Validate reports.
var ErrInvalidConfig = errors.New("invalid config")

// MaxDepth bounds the generated quadtree depth.
const MaxDepth = 10

// Config holds all export settings.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Stitch  StitchConfig  `yaml:"stitch"`
	Output  OutputConfig  `yaml:"output"`
	Debug   DebugConfig   `yaml:"debug"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig selects where patches come from. A non-empty PatchFile wins;
// otherwise the built-in tessellator generates them.
type InputConfig struct {
	PatchFile string  `yaml:"patch_file"`
	Layout    string  `yaml:"layout"` // "packed" or "gpu", for headerless buffers
	Surface   string  `yaml:"surface"`
	Depth     int     `yaml:"depth"`
	Radial    bool    `yaml:"radial"`
	FocusU    float32 `yaml:"focus_u"`
	FocusV    float32 `yaml:"focus_v"`
}

// StitchConfig mirrors stitch.Options.
type StitchConfig struct {
	LoopX      bool   `yaml:"loop_x"`
	LoopY      bool   `yaml:"loop_y"`
	MapUV      bool   `yaml:"map_uv"`
	Normals    string `yaml:"normals"`
	IncludeUVs bool   `yaml:"include_uvs"`
}

// OutputConfig holds where the mesh is written.
type OutputConfig struct {
	Path        string `yaml:"path"`
	Name        string `yaml:"name"`
	Preview     string `yaml:"preview"` // .png or .webp, empty disables
	PreviewSize int    `yaml:"preview_size"`
}

// DebugConfig holds diagnostic switches.
type DebugConfig struct {
	Validate bool `yaml:"validate"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Layout:  "packed",
			Surface: "plane",
			Depth:   3,
			Radial:  true,
			FocusU:  0.5,
			FocusV:  0.5,
		},
		Stitch: StitchConfig{
			Normals: "forward",
		},
		Output: OutputConfig{
			Path:        "mesh.obj",
			Name:        "patchstitch",
			PreviewSize: 512,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Seams converts the loop switches to stitch seam flags.
func (c *Config) Seams() stitch.Seam {
	s := stitch.SeamNone
	if c.Stitch.LoopX {
		s |= stitch.SeamX
	}
	if c.Stitch.LoopY {
		s |= stitch.SeamY
	}
	return s
}

// Validate checks values that cannot be fixed up silently.
func (c *Config) Validate() error {
	var errs []error
	if _, err := stitch.ParseNormalsType(c.Stitch.Normals); err != nil {
		errs = append(errs, fmt.Errorf("%w: stitch.normals: %v", ErrInvalidConfig, err))
	}
	switch c.Input.Layout {
	case "", "packed", "gpu":
	default:
		errs = append(errs, fmt.Errorf("%w: input.layout %q", ErrInvalidConfig, c.Input.Layout))
	}
	if c.Input.PatchFile == "" {
		if c.Input.Depth < 0 || c.Input.Depth > MaxDepth {
			errs = append(errs, fmt.Errorf("%w: input.depth %d outside [0,%d]", ErrInvalidConfig, c.Input.Depth, MaxDepth))
		}
		if c.Input.FocusU < 0 || c.Input.FocusU > 1 || c.Input.FocusV < 0 || c.Input.FocusV > 1 {
			errs = append(errs, fmt.Errorf("%w: input focus (%g, %g) outside the unit square", ErrInvalidConfig, c.Input.FocusU, c.Input.FocusV))
		}
	}
	if c.Output.Path == "" {
		errs = append(errs, fmt.Errorf("%w: output.path is empty", ErrInvalidConfig))
	}
	if c.Output.Preview != "" {
		switch strings.ToLower(filepath.Ext(c.Output.Preview)) {
		case ".png", ".webp":
		default:
			errs = append(errs, fmt.Errorf("%w: output.preview %q must end in .png or .webp", ErrInvalidConfig, c.Output.Preview))
		}
		if c.Output.PreviewSize <= 0 {
			errs = append(errs, fmt.Errorf("%w: output.preview_size %d", ErrInvalidConfig, c.Output.PreviewSize))
		}
	}
	return errors.Join(errs...)
}
