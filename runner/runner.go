// Package runner drives the headless simulation loop: it builds a
// simulation from config, advances it at a fixed dt, and feeds the
// telemetry collectors between ticks.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/navpreett/3D-Particle-Simulation/config"
	"github.com/navpreett/3D-Particle-Simulation/particle"
	"github.com/navpreett/3D-Particle-Simulation/sim"
	"github.com/navpreett/3D-Particle-Simulation/telemetry"
)

// Options configures a run beyond what the config file carries.
type Options struct {
	// Seed seeds particle placement and matrix randomization;
	// 0 derives one from the clock.
	Seed int64
	// LogStats emits window stats and perf through slog at each
	// window flush.
	LogStats bool
	// OutputDir enables CSV output and the resolved-config dump;
	// empty disables file output.
	OutputDir string
	// SnapshotDir is where periodic state snapshots go; empty
	// disables them.
	SnapshotDir string
	// SnapshotEvery saves a state snapshot every N ticks when
	// SnapshotDir is set; 0 saves only the final state.
	SnapshotEvery int64
	// Resume restores simulation state from a snapshot file before
	// the first tick.
	Resume string
}

// Runner owns a simulation and its telemetry collaborators for the
// lifetime of one run.
type Runner struct {
	cfg  *config.Config
	opts Options
	sim  *sim.Simulation
	dt   float32
	rng  *rand.Rand

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	detector  *telemetry.RegimeDetector
	output    *telemetry.OutputManager
}

// ParamsFromConfig translates the yaml-facing config into simulation
// parameters. The rng is used only when the attraction matrix is
// configured as random.
func ParamsFromConfig(cfg *config.Config, rng *rand.Rand) (sim.Params, error) {
	boundary, err := sim.ParseBoundary(cfg.World.Boundary)
	if err != nil {
		return sim.Params{}, err
	}

	var m particle.Matrix
	if cfg.Attraction.Random {
		m = particle.RandomMatrix(cfg.Particles.Types, rng)
	} else {
		rows := make([][]float32, len(cfg.Attraction.Rows))
		for a, row := range cfg.Attraction.Rows {
			rows[a] = make([]float32, len(row))
			for b, v := range row {
				rows[a][b] = float32(v)
			}
		}
		m, err = particle.MatrixFromRows(rows)
		if err != nil {
			return sim.Params{}, fmt.Errorf("attraction config: %w", err)
		}
	}

	return sim.Params{
		WorldSize:    float32(cfg.World.Size),
		EffectRadius: float32(cfg.Physics.EffectRadius),
		Friction:     float32(cfg.Physics.Friction),
		ForceScale:   float32(cfg.Physics.ForceScale),
		Beta:         float32(cfg.Physics.Beta),
		Boundary:     boundary,
		Gravity: particle.Vec3{
			X: float32(cfg.Physics.Gravity.X),
			Y: float32(cfg.Physics.Gravity.Y),
			Z: float32(cfg.Physics.Gravity.Z),
		},
		Attraction: m,
	}, nil
}

// New builds a runner from a validated config. The returned runner
// must be closed to stop the worker pool and flush CSV output.
func New(cfg *config.Config, opts Options) (*Runner, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	params, err := ParamsFromConfig(cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("building params: %w", err)
	}

	s, err := sim.New(params, sim.Options{
		Particles: cfg.Particles.Count,
		Seed:      seed,
		Workers:   cfg.Workers,
	})
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:       cfg,
		opts:      opts,
		sim:       s,
		dt:        float32(cfg.Physics.DT),
		rng:       rng,
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Physics.DT),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		detector:  telemetry.NewRegimeDetector(cfg.Telemetry.RegimeHistorySize),
	}

	if opts.Resume != "" {
		if err := r.restore(opts.Resume); err != nil {
			s.Close()
			return nil, err
		}
	}

	r.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := r.output.WriteConfig(cfg); err != nil {
		r.Close()
		return nil, fmt.Errorf("writing resolved config: %w", err)
	}

	return r, nil
}

// restore loads a state snapshot and replaces the simulation state
// with it.
func (r *Runner) restore(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	params, err := snap.SimParams()
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	if err := r.sim.Restore(params, snap.Particles, snap.Tick); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	r.collector.Reset(snap.Tick)
	slog.Info("resumed from snapshot", "path", path, "tick", snap.Tick, "particles", len(snap.Particles))
	return nil
}

// Run advances the simulation by ticks complete ticks or until the
// context is cancelled. Cancellation is observed between ticks only;
// a started tick always finishes.
func (r *Runner) Run(ctx context.Context, ticks int64) error {
	start := time.Now()
	startTick := r.sim.Tick()
	target := startTick + ticks

	for r.sim.Tick() < target {
		select {
		case <-ctx.Done():
			slog.Info("run interrupted", "tick", r.sim.Tick())
			return r.finish(startTick, start)
		default:
		}

		if err := r.sim.Step(r.dt); err != nil {
			return fmt.Errorf("tick %d: %w", r.sim.Tick(), err)
		}
		r.observeTick()

		if err := r.betweenTicks(); err != nil {
			return err
		}
	}

	return r.finish(startTick, start)
}

// observeTick feeds the completed tick into the collectors.
func (r *Runner) observeTick() {
	stats := r.sim.LastTick()
	r.perf.Record(telemetry.PerfSample{
		Total:      stats.Total,
		BuildIndex: stats.BuildIndex,
		Forces:     stats.Forces,
		Integrate:  stats.Integrate,
	})
	r.collector.Observe(stats.Interactions)
}

// betweenTicks runs the Idle-state work: window flushes, matrix
// shaking, and periodic snapshots. All simulation mutation happens
// here, never during a tick.
func (r *Runner) betweenTicks() error {
	tick := r.sim.Tick()

	if r.collector.ShouldFlush(tick) {
		r.flushWindow(tick)
	}

	if every := int64(r.cfg.Attraction.ShakeEvery); every > 0 && tick%every == 0 {
		m := r.sim.Params().Attraction
		m.Randomize(r.rng)
		if err := r.sim.SetAttraction(m); err != nil {
			return fmt.Errorf("shaking attraction matrix: %w", err)
		}
		slog.Info("attraction matrix shaken", "tick", tick)
	}

	if r.opts.SnapshotDir != "" && r.opts.SnapshotEvery > 0 && tick%r.opts.SnapshotEvery == 0 {
		if _, err := r.saveSnapshot(); err != nil {
			slog.Error("snapshot failed", "tick", tick, "error", err)
		}
	}

	return nil
}

// flushWindow closes the current stats window and routes the results
// to the log, the CSV files, and the regime detector.
func (r *Runner) flushWindow(tick int64) {
	snap := r.sim.Snapshot()
	stats := r.collector.Flush(tick, snap.Particles, len(snap.Colors))
	perfStats := r.perf.Stats()

	if r.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := r.output.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := r.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, regime := range r.detector.Check(stats) {
		regime.LogRegime()
		if err := r.output.WriteRegime(regime); err != nil {
			slog.Error("failed to write regime", "error", err)
		}
	}
}

// finish saves the final snapshot and logs the run summary.
func (r *Runner) finish(startTick int64, start time.Time) error {
	if r.opts.SnapshotDir != "" {
		path, err := r.saveSnapshot()
		if err != nil {
			return fmt.Errorf("final snapshot: %w", err)
		}
		slog.Info("final snapshot saved", "path", path)
	}

	elapsed := time.Since(start)
	ticks := r.sim.Tick() - startTick
	perTick := time.Duration(0)
	if ticks > 0 {
		perTick = elapsed / time.Duration(ticks)
	}
	slog.Info("run complete",
		"ticks", ticks,
		"particles", r.sim.Count(),
		"elapsed", elapsed.Round(time.Millisecond).String(),
		"avg_tick_us", perTick.Microseconds(),
	)
	return nil
}

// saveSnapshot writes the full simulation state to the snapshot dir.
func (r *Runner) saveSnapshot() (string, error) {
	snapshot := telemetry.NewStateSnapshot(r.sim.Params(), r.sim.Snapshot())
	return telemetry.SaveSnapshot(snapshot, r.opts.SnapshotDir)
}

// Sim exposes the underlying simulation for between-tick inspection
// and mutation.
func (r *Runner) Sim() *sim.Simulation { return r.sim }

// Close stops the worker pool and closes CSV output, gathering the
// first error.
func (r *Runner) Close() error {
	r.sim.Close()
	return r.output.Close()
}
