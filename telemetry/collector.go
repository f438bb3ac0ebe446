package telemetry

import "github.com/navpreett/3D-Particle-Simulation/particle"

// Collector accumulates per-tick counters within stats windows and
// produces WindowStats.
type Collector struct {
	windowTicks int64
	dt          float64

	// Current window tracking
	windowStartTick int64
	ticks           int64
	interactions    int64
}

// NewCollector creates a new stats collector.
// windowTicks: ticks per stats window
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: int64(windowTicks),
		dt:          dt,
	}
}

// Observe records one completed tick and its accepted neighbor pairs.
func (c *Collector) Observe(interactions int64) {
	c.ticks++
	c.interactions += interactions
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the particle population at window end and the
// number of distinct types.
func (c *Collector) Flush(currentTick int64, particles []particle.Particle, types int) WindowStats {
	stats := ComputeWindowStats(
		c.windowStartTick,
		currentTick,
		float64(currentTick)*c.dt,
		particles,
		types,
		c.interactions,
		c.ticks,
	)

	// Reset for next window
	c.windowStartTick = currentTick
	c.ticks = 0
	c.interactions = 0

	return stats
}

// Reset realigns the window to start at tick and drops accumulated
// counters. Used after restoring a saved state.
func (c *Collector) Reset(tick int64) {
	c.windowStartTick = tick
	c.ticks = 0
	c.interactions = 0
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
