// Package main is the headless river mesh generator. It samples each
// rail in the rail set, generates the river and bank meshes, and writes
// them as OBJ files.
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/rivergen/internal/config"
	"github.com/Faultbox/rivergen/internal/event"
	"github.com/Faultbox/rivergen/internal/export"
	"github.com/Faultbox/rivergen/internal/logger"
	"github.com/Faultbox/rivergen/internal/rail"
	"github.com/Faultbox/rivergen/internal/river"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.River.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== rivergen ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("generation failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("generation finished")
}

func run(cfg *config.Config) error {
	bus := event.NewBus()
	manager := rail.NewManager(bus)

	if err := manager.LoadFile(cfg.Data.RailsFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		// No rail set on disk: start from a default circular rail so a
		// bare invocation still produces output.
		logger.Warn("rail set not found, using a default circle",
			zap.String("path", cfg.Data.RailsFile))
		manager.Add(rail.Circle("main", 100, 12))
	}

	sink, err := export.NewOBJSink(cfg.Data.OutputDir)
	if err != nil {
		return err
	}

	system := river.NewSystem(&cfg.River, manager, sink)

	rivers, err := river.LoadRecords(cfg.Data.RiversFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		// No river records either: one river per rail, fresh seeds.
		for i, name := range manager.Names() {
			rivers = append(rivers, &river.River{
				Name:       name,
				RailName:   name,
				RandomSeed: int64(i + 1),
			})
		}
	}

	for _, r := range rivers {
		if err := system.Add(r); err != nil {
			return err
		}
		logger.Info("generated river",
			zap.String("river", r.Name),
			zap.String("rail", r.RailName),
			zap.Int64("seed", r.RandomSeed),
		)
	}

	// Persist the records so the next run (or the viewer) reproduces
	// the exact same meshes.
	return river.SaveRecords(cfg.Data.RiversFile, system.Rivers())
}
