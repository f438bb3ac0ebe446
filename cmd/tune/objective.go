package main

import (
	"math"
	"math/rand"
	"sync"

	"github.com/navpreett/3D-Particle-Simulation/config"
	"github.com/navpreett/3D-Particle-Simulation/runner"
	"github.com/navpreett/3D-Particle-Simulation/sim"
	"github.com/navpreett/3D-Particle-Simulation/telemetry"
)

// Evaluator runs headless simulations and scores a parameter vector.
// Lower is better: the score rewards sustained motion in a healthy
// speed band plus emergent structure (interactions per particle),
// and penalizes frozen or exploded populations.
type Evaluator struct {
	params   *ParamVector
	maxTicks int64
	seeds    []int64
	baseCfg  *config.Config

	mu       sync.Mutex
	lastLoss float64
}

// NewEvaluator creates an evaluator over the given seeds. Every seed
// runs the full tick budget; the final loss averages across seeds so
// a lucky initial placement cannot dominate.
func NewEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *Evaluator {
	return &Evaluator{
		params:   params,
		maxTicks: maxTicks,
		seeds:    seeds,
		baseCfg:  baseCfg,
	}
}

// LastLoss returns the loss from the most recent Evaluate call.
func (e *Evaluator) LastLoss() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastLoss
}

// Evaluate computes the loss for a raw (denormalized) parameter
// vector. Seeds run in parallel; each owns its own simulation.
func (e *Evaluator) Evaluate(raw []float64) float64 {
	losses := make([]float64, len(e.seeds))
	var wg sync.WaitGroup

	for i, seed := range e.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			losses[idx] = e.runSeed(raw, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, l := range losses {
		total += l
	}
	loss := total / float64(len(losses))

	e.mu.Lock()
	e.lastLoss = loss
	e.mu.Unlock()

	return loss
}

// runSeed runs one simulation to the tick budget and scores its
// window stats stream.
func (e *Evaluator) runSeed(raw []float64, seed int64) float64 {
	cfg := *e.baseCfg
	e.params.ApplyToConfig(&cfg, raw)

	rng := rand.New(rand.NewSource(seed))
	prm, err := runner.ParamsFromConfig(&cfg, rng)
	if err != nil {
		return 1e9
	}
	s, err := sim.New(prm, sim.Options{Particles: cfg.Particles.Count, Seed: seed, Workers: cfg.Workers})
	if err != nil {
		return 1e9
	}
	defer s.Close()

	collector := telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Physics.DT)
	dt := float32(cfg.Physics.DT)

	var windows []telemetry.WindowStats
	for s.Tick() < e.maxTicks {
		if err := s.Step(dt); err != nil {
			return 1e9
		}
		collector.Observe(s.LastTick().Interactions)
		if collector.ShouldFlush(s.Tick()) {
			snap := s.Snapshot()
			windows = append(windows, collector.Flush(s.Tick(), snap.Particles, len(snap.Colors)))
		}
	}

	return scoreWindows(windows, float64(prm.WorldSize))
}

// scoreWindows converts a run's window stats into a loss. The target
// is a population whose mean speed sits around 1% of the world size
// per second with at least one accepted neighbor pair per particle.
func scoreWindows(windows []telemetry.WindowStats, worldSize float64) float64 {
	if len(windows) == 0 {
		return 1e9
	}

	// Score only the settled half of the run; early transients say
	// little about the long-term regime.
	settled := windows[len(windows)/2:]
	targetSpeed := worldSize * 0.01

	var loss float64
	for _, w := range settled {
		// Motion term: log-distance from the target speed, so freeze
		// and blow-up are punished symmetrically.
		speed := w.SpeedMean
		if speed < 1e-6 {
			speed = 1e-6
		}
		motion := math.Abs(math.Log(speed / targetSpeed))

		// Structure term: below one interaction per particle the
		// population is a gas; credit saturates at ten.
		perParticle := 0.0
		if w.Particles > 0 {
			perParticle = w.InteractionsPerTick / float64(w.Particles)
		}
		structure := 1.0 - math.Min(perParticle, 10)/10

		loss += motion + structure
	}
	return loss / float64(len(settled))
}
