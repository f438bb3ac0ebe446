// Package sim implements the particle-life tick over a
// double-buffered particle store: spatial index construction,
// neighbor force accumulation, and integration, each phase running
// data-parallel on a persistent worker pool.
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/navpreett/3D-Particle-Simulation/particle"
)

// TickStats reports where the last tick spent its time and how many
// neighbor pairs passed the distance filter.
type TickStats struct {
	Tick         int64
	Particles    int
	BuildIndex   time.Duration
	Forces       time.Duration
	Integrate    time.Duration
	Total        time.Duration
	Interactions int64
}

// Snapshot is an immutable copy of simulation state, safe to retain
// across future ticks.
type Snapshot struct {
	Tick      int64
	Particles []particle.Particle
	Colors    []particle.Color
	Stats     TickStats
}

// Options configures simulation construction.
type Options struct {
	// Particles is the initial population size.
	Particles int
	// Seed seeds particle placement; 0 derives one from the clock.
	Seed int64
	// Workers sizes the worker pool; 0 uses GOMAXPROCS.
	Workers int
}

// Simulation owns the double-buffered particle store and advances it
// one tick at a time. Methods are not safe for concurrent use:
// parameters and population may only be mutated between Step calls,
// and a tick reads them as immutable snapshots.
type Simulation struct {
	params   Params
	current  []particle.Particle
	previous []particle.Particle
	forces   []particle.Vec3
	index    spatialIndex
	pool     *workerPool
	// pairCounts has one slot per worker so the force pass counts
	// accepted pairs without touching shared memory.
	pairCounts []int64
	colors     []particle.Color
	rng        *rand.Rand
	tick       int64
	last       TickStats
}

// New constructs a simulation populated with randomly placed
// particles of random type and zero velocity.
func New(params Params, opts Options) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("simulation params: %w", err)
	}
	if opts.Particles < 0 {
		return nil, fmt.Errorf("particle count must be non-negative, got %d", opts.Particles)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	pool := newWorkerPool(opts.Workers)
	s := &Simulation{
		params:     params,
		pool:       pool,
		pairCounts: make([]int64, pool.numWorkers),
		colors:     particle.Palette(params.Attraction.K),
		rng:        rand.New(rand.NewSource(seed)),
	}
	s.current = make([]particle.Particle, opts.Particles)
	s.previous = make([]particle.Particle, opts.Particles)
	for i := range s.current {
		s.current[i] = s.randomParticle()
	}
	return s, nil
}

// Close stops the worker pool. The simulation must not be stepped
// after Close.
func (s *Simulation) Close() {
	s.pool.stopWorkers()
}

// Step advances the simulation one tick of dt seconds. On a parameter
// violation the tick is rejected and no state changes.
func (s *Simulation) Step(dt float32) error {
	if err := s.params.Validate(); err != nil {
		return fmt.Errorf("tick %d rejected: %w", s.tick, err)
	}

	n := len(s.current)
	stats := TickStats{Tick: s.tick, Particles: n}
	if n == 0 {
		s.tick++
		s.last = stats
		return nil
	}

	src := s.current
	dst := s.previous
	start := time.Now()

	s.index.build(src, 1/s.params.EffectRadius, s.pool)
	stats.BuildIndex = time.Since(start)

	mark := time.Now()
	s.forces = resizeVec3(s.forces, n)
	clear(s.pairCounts)
	s.pool.forEach(n, func(i0, i1, worker int) {
		var accepted int64
		for i := i0; i < i1; i++ {
			f, pairs := forceOn(i, src, &s.index, &s.params)
			s.forces[i] = f
			accepted += pairs
		}
		s.pairCounts[worker] += accepted
	})
	for _, c := range s.pairCounts {
		stats.Interactions += c
	}
	stats.Forces = time.Since(mark)

	mark = time.Now()
	s.pool.forEach(n, func(i0, i1, _ int) {
		for i := i0; i < i1; i++ {
			next := src[i]
			integrate(&next, s.forces[i], &s.params, dt)
			dst[i] = next
		}
	})
	stats.Integrate = time.Since(mark)

	s.current, s.previous = dst, src
	stats.Total = time.Since(start)
	s.tick++
	s.last = stats
	return nil
}

// SetParams replaces the simulation parameters between ticks. The
// type count cannot change once constructed; use Restore to load a
// different universe.
func (s *Simulation) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("set params: %w", err)
	}
	if p.Attraction.K != s.params.Attraction.K {
		return fmt.Errorf("set params: type count is fixed at %d, got %d", s.params.Attraction.K, p.Attraction.K)
	}
	s.params = p
	return nil
}

// SetAttraction replaces the attraction table between ticks, keeping
// the type count.
func (s *Simulation) SetAttraction(m particle.Matrix) error {
	p := s.params
	p.Attraction = m
	return s.SetParams(p)
}

// Params returns a copy of the current parameters with its own
// attraction storage, so callers can tweak and pass it back to
// SetParams.
func (s *Simulation) Params() Params {
	p := s.params
	p.Attraction = p.Attraction.Clone()
	return p
}

// Resize grows or truncates the population to n between ticks. Grown
// slots are filled with randomly placed particles.
func (s *Simulation) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("particle count must be non-negative, got %d", n)
	}
	cur := len(s.current)
	switch {
	case n < cur:
		s.current = s.current[:n]
		s.previous = s.previous[:n]
	case n > cur:
		s.current = growParticles(s.current, n)
		s.previous = growParticles(s.previous, n)
		for i := cur; i < n; i++ {
			s.current[i] = s.randomParticle()
		}
	}
	return nil
}

// Snapshot copies the current authoritative state.
func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Tick:      s.tick,
		Particles: append([]particle.Particle(nil), s.current...),
		Colors:    append([]particle.Color(nil), s.colors...),
		Stats:     s.last,
	}
}

// Restore replaces the whole simulation state between ticks: the
// parameters (the type count may differ from the current one), the
// particle array, and the tick counter.
func (s *Simulation) Restore(params Params, particles []particle.Particle, tick int64) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	k := params.Attraction.K
	for i := range particles {
		if int(particles[i].Type) >= k {
			return fmt.Errorf("restore: particle %d has type %d, want < %d", i, particles[i].Type, k)
		}
	}
	s.params = params
	s.colors = particle.Palette(k)
	s.current = append(s.current[:0], particles...)
	s.previous = resizeParticles(s.previous, len(particles))
	s.tick = tick
	s.last = TickStats{}
	return nil
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int64 { return s.tick }

// Count returns the current population size.
func (s *Simulation) Count() int { return len(s.current) }

// LastTick reports timing and interaction counts for the most recent
// tick.
func (s *Simulation) LastTick() TickStats { return s.last }

// randomParticle places a particle uniformly in the domain with zero
// velocity and a random type.
func (s *Simulation) randomParticle() particle.Particle {
	w := s.params.WorldSize
	return particle.Particle{
		Position: particle.Vec3{
			X: (s.rng.Float32() - 0.5) * w,
			Y: (s.rng.Float32() - 0.5) * w,
			Z: (s.rng.Float32() - 0.5) * w,
		},
		Type: uint8(s.rng.Intn(s.params.Attraction.K)),
	}
}

func resizeVec3(s []particle.Vec3, n int) []particle.Vec3 {
	if cap(s) < n {
		return make([]particle.Vec3, n)
	}
	return s[:n]
}

func resizeParticles(s []particle.Particle, n int) []particle.Particle {
	if cap(s) < n {
		return make([]particle.Particle, n)
	}
	return s[:n]
}

func growParticles(s []particle.Particle, n int) []particle.Particle {
	if cap(s) >= n {
		return s[:n]
	}
	out := make([]particle.Particle, n)
	copy(out, s)
	return out
}
