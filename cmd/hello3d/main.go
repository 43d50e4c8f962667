// Package main is the entry point for the Hello3D OBJ viewer.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/hello3d/internal/config"
	"github.com/Faultbox/hello3d/internal/logger"
	"github.com/Faultbox/hello3d/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Hello3D ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if cfg.WriteConfig != "" {
		if err := cfg.SaveTo(cfg.WriteConfig); err != nil {
			logger.Error("failed to write config", zap.String("path", cfg.WriteConfig), zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config written", zap.String("path", cfg.WriteConfig))
		return
	}

	if cfg.OpenDialog || len(cfg.Scene.Models) == 0 {
		path, err := pickModel()
		switch {
		case errors.Is(err, dialog.ErrCancelled):
			logger.Info("no model selected")
		case err != nil:
			logger.Warn("file dialog failed", zap.Error(err))
		default:
			cfg.AddModels(path)
		}
	}
	if len(cfg.Scene.Models) == 0 {
		fmt.Fprintln(os.Stderr, "usage: hello3d [flags] model.obj ...")
		os.Exit(2)
	}

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func pickModel() (string, error) {
	return dialog.File().
		Filter("Wavefront OBJ", "obj").
		Filter("All Files", "*").
		Title("Open Model").
		Load()
}
