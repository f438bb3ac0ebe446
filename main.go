package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/navpreett/3D-Particle-Simulation/config"
	"github.com/navpreett/3D-Particle-Simulation/runner"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	ticks := flag.Int64("ticks", 3600, "Number of ticks to run")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for state snapshot files")
	snapshotEvery := flag.Int64("snapshot-every", 0, "Save a state snapshot every N ticks (0 = final state only)")
	resume := flag.String("resume", "", "Resume from a state snapshot file")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	r, err := runner.New(cfg, runner.Options{
		Seed:          *seed,
		LogStats:      *logStats,
		OutputDir:     *outputDir,
		SnapshotDir:   *snapshotDir,
		SnapshotEvery: *snapshotEvery,
		Resume:        *resume,
	})
	if err != nil {
		slog.Error("failed to build runner", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"particles", cfg.Particles.Count,
		"types", cfg.Particles.Types,
		"ticks", *ticks,
		"seed", *seed,
		"boundary", cfg.World.Boundary,
	)

	// Stop cleanly between ticks on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := r.Run(ctx, *ticks)
	if closeErr := r.Close(); runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		slog.Error("simulation failed", "error", runErr)
		os.Exit(1)
	}
}
