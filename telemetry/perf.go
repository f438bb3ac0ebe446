package telemetry

import (
	"log/slog"
	"time"
)

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	Total      time.Duration
	BuildIndex time.Duration
	Forces     time.Duration
	Integrate  time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
	}
}

// Record adds one completed tick's timings to the window.
func (p *PerfCollector) Record(s PerfSample) {
	p.samples[p.writeIndex] = s
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase percentages of total tick time
	BuildIndexPct float64
	ForcesPct     float64
	IntegratePct  float64

	// Throughput
	TicksPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{}
	}

	var total, build, forces, integrate time.Duration
	var minTick, maxTick time.Duration

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.Total
		build += s.BuildIndex
		forces += s.Forces
		integrate += s.Integrate

		if i == 0 || s.Total < minTick {
			minTick = s.Total
		}
		if s.Total > maxTick {
			maxTick = s.Total
		}
	}

	avgTick := total / time.Duration(p.sampleCount)

	stats := PerfStats{
		AvgTickDuration: avgTick,
		MinTickDuration: minTick,
		MaxTickDuration: maxTick,
	}
	if total > 0 {
		stats.BuildIndexPct = float64(build) / float64(total) * 100
		stats.ForcesPct = float64(forces) / float64(total) * 100
		stats.IntegratePct = float64(integrate) / float64(total) * 100
	}
	if avgTick > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(avgTick)
	}

	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf",
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
		"build_index_pct", int(s.BuildIndexPct*10)/10.0,
		"forces_pct", int(s.ForcesPct*10)/10.0,
		"integrate_pct", int(s.IntegratePct*10)/10.0,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Float64("build_index_pct", s.BuildIndexPct),
		slog.Float64("forces_pct", s.ForcesPct),
		slog.Float64("integrate_pct", s.IntegratePct),
	)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     int64   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	BuildIndexPct float64 `csv:"build_index_pct"`
	ForcesPct     float64 `csv:"forces_pct"`
	IntegratePct  float64 `csv:"integrate_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		BuildIndexPct: s.BuildIndexPct,
		ForcesPct:     s.ForcesPct,
		IntegratePct:  s.IntegratePct,
	}
}
