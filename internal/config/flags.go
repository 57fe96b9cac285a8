package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging and patch validation")
	flagIn       = flag.String("in", "", "Input PTCH patch file (empty: generate)")
	flagSurface  = flag.String("surface", "", "Surface to generate: plane, cylinder, torus")
	flagDepth    = flag.Int("depth", -1, "Maximum quadtree depth for generated patches")
	flagOut      = flag.String("out", "", "Output OBJ path")
	flagPreview  = flag.String("preview", "", "Write a UV-space preview image (.png or .webp)")
	flagLoopX    = flag.Bool("loop-x", false, "Wrap the mesh across u=0/u=1")
	flagLoopY    = flag.Bool("loop-y", false, "Wrap the mesh across v=0/v=1")
	flagMapUV    = flag.Bool("map-uv", false, "Replace positions with the sphere remap of UV")
	flagNormals  = flag.String("normals", "", "Triangle winding: forward, backward, both")
	flagUVs      = flag.Bool("uvs", false, "Write texture coordinates")
	flagValidate = flag.Bool("validate", false, "Validate patches before stitching")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Debug.Validate = true
	}
	if *flagIn != "" {
		cfg.Input.PatchFile = *flagIn
	}
	if *flagSurface != "" {
		cfg.Input.Surface = *flagSurface
	}
	if *flagDepth >= 0 {
		cfg.Input.Depth = *flagDepth
	}
	if *flagOut != "" {
		cfg.Output.Path = *flagOut
	}
	if *flagPreview != "" {
		cfg.Output.Preview = *flagPreview
	}
	if *flagLoopX {
		cfg.Stitch.LoopX = true
	}
	if *flagLoopY {
		cfg.Stitch.LoopY = true
	}
	if *flagMapUV {
		cfg.Stitch.MapUV = true
	}
	if *flagNormals != "" {
		cfg.Stitch.Normals = *flagNormals
	}
	if *flagUVs {
		cfg.Stitch.IncludeUVs = true
	}
	if *flagValidate {
		cfg.Debug.Validate = true
	}
}
