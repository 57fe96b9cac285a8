// Package main is the entry point for the patchstitch exporter.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/patchstitch/internal/config"
	"github.com/Faultbox/patchstitch/internal/export"
	"github.com/Faultbox/patchstitch/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	res, err := export.Run(cfg)
	if err != nil {
		logger.Error("export failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	fmt.Printf("%s -> %s: %d patches, %d vertices (%d inserted), %d triangles\n",
		res.Source, res.Output, res.Stats.Patches,
		res.Mesh.VertexCount(), res.Stats.Inserted, res.Mesh.TriangleCount())
	if res.Stats.Discarded > 0 {
		fmt.Printf("warning: %d patch outlines were only partly triangulated\n", res.Stats.Discarded)
	}
}
