package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/navpreett/3D-Particle-Simulation/particle"
)

// WindowStats holds aggregated statistics for a stats window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Particles int `csv:"particles"`
	Types     int `csv:"types"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Mean kinetic energy per particle (unit mass)
	KineticMean float64 `csv:"kinetic_mean"`

	// Neighbor pairs accepted by the force pass, averaged over the window
	InteractionsPerTick float64 `csv:"interactions_per_tick"`
}

// ComputeWindowStats aggregates one window: the speed distribution of
// the population at window end plus the per-tick interaction average.
// ticks is the number of ticks the interaction total was accumulated
// over.
func ComputeWindowStats(windowStart, windowEnd int64, simTime float64, particles []particle.Particle, types int, interactions, ticks int64) WindowStats {
	stats := WindowStats{
		WindowStartTick: windowStart,
		WindowEndTick:   windowEnd,
		SimTimeSec:      simTime,
		Particles:       len(particles),
		Types:           types,
	}
	if ticks > 0 {
		stats.InteractionsPerTick = float64(interactions) / float64(ticks)
	}

	n := len(particles)
	if n == 0 {
		return stats
	}

	speeds := make([]float64, n)
	var kinetic float64
	for i := range particles {
		v := float64(particles[i].Velocity.Length())
		speeds[i] = v
		kinetic += 0.5 * v * v
	}
	stats.KineticMean = kinetic / float64(n)

	stats.SpeedMean = stat.Mean(speeds, nil)
	if n > 1 {
		stats.SpeedStd = stat.StdDev(speeds, nil)
	}

	sort.Float64s(speeds)
	stats.SpeedP10 = stat.Quantile(0.10, stat.Empirical, speeds, nil)
	stats.SpeedP50 = stat.Quantile(0.50, stat.Empirical, speeds, nil)
	stats.SpeedP90 = stat.Quantile(0.90, stat.Empirical, speeds, nil)
	stats.SpeedMax = speeds[n-1]

	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("types", s.Types),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("kinetic_mean", s.KineticMean),
		slog.Float64("interactions_per_tick", s.InteractionsPerTick),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"speed_max", s.SpeedMax,
		"kinetic_mean", s.KineticMean,
		"interactions_per_tick", s.InteractionsPerTick,
	)
}
