// patchgen is a CLI utility for producing and inspecting PTCH patch buffers.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/patchstitch/internal/tessellate"
	"github.com/Faultbox/patchstitch/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "grid":
		cmdGrid(args)
	case "info":
		cmdInfo(args)
	case "list", "ls":
		cmdList(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`patchgen - patch buffer utility

Usage:
  patchgen <command> [options]

Commands:
  grid [options] <out.ptch>   Tessellate a surface and write its patches
  info <file.ptch>            Show header and depth histogram
  list [-n N] <file.ptch>     Print patch UV rectangles

Grid options:
  -surface plane|cylinder|torus
  -depth N          maximum quadtree depth (default 4)
  -focus-u, -focus-v  radial LOD focus (default 0.5, 0.5)
  -uniform          subdivide every cell to -depth
  -layout packed|gpu

Examples:
  patchgen grid -surface torus -depth 5 torus.ptch
  patchgen info torus.ptch`)
}

func cmdGrid(args []string) {
	fs := flag.NewFlagSet("grid", flag.ExitOnError)
	surfaceName := fs.String("surface", "plane", "Surface to tessellate")
	depth := fs.Int("depth", 4, "Maximum quadtree depth")
	focusU := fs.Float64("focus-u", 0.5, "Radial LOD focus u")
	focusV := fs.Float64("focus-v", 0.5, "Radial LOD focus v")
	uniform := fs.Bool("uniform", false, "Uniform subdivision")
	layoutName := fs.String("layout", "packed", "Corner record layout")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: patchgen grid [options] <out.ptch>")
		os.Exit(1)
	}

	surface, err := tessellate.SurfaceByName(*surfaceName)
	if err != nil {
		fatal(err)
	}
	layout, err := formats.LayoutByName(*layoutName)
	if err != nil {
		fatal(err)
	}

	lod := tessellate.RadialLOD(mgl32.Vec2{float32(*focusU), float32(*focusV)}, *depth)
	if *uniform {
		lod = tessellate.UniformLOD(*depth)
	}
	patches := tessellate.Tessellate(surface, lod, *depth)

	if err := formats.WritePatchFile(fs.Arg(0), patches, layout); err != nil {
		fatal(err)
	}
	fmt.Printf("Wrote %d patches to %s (seams: %v)\n", len(patches), fs.Arg(0), surface.Seams())
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: patchgen info <file.ptch>")
		os.Exit(1)
	}

	pf, err := formats.LoadPatchFile(args[0])
	if err != nil {
		fatal(err)
	}

	fmt.Printf("File:    %s\n", args[0])
	fmt.Printf("Version: %s\n", pf.Version)
	fmt.Printf("Layout:  stride %d, position @%d, uv @%d\n",
		pf.Layout.Stride, pf.Layout.PositionOffset, pf.Layout.UVOffset)
	fmt.Printf("Patches: %d\n", len(pf.Patches))
	fmt.Println()
	fmt.Println("Patches by depth:")

	depths := tessellate.Depths(pf.Patches)
	keys := make([]int, 0, len(depths))
	for d := range depths {
		keys = append(keys, d)
	}
	sort.Ints(keys)
	for _, d := range keys {
		fmt.Printf("  %-4d %d\n", d, depths[d])
	}
}

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N patches (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: patchgen list [-n N] <file.ptch>")
		os.Exit(1)
	}

	pf, err := formats.LoadPatchFile(fs.Arg(0))
	if err != nil {
		fatal(err)
	}

	for i, p := range pf.Patches {
		if *limit > 0 && i >= *limit {
			break
		}
		fmt.Printf("%5d  u [%g, %g]  v [%g, %g]\n", i,
			p[0].UV[0], p[2].UV[0], p[0].UV[1], p[2].UV[1])
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
