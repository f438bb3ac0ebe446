package sim

import (
	"fmt"

	"github.com/navpreett/3D-Particle-Simulation/particle"
)

// Boundary selects how the domain faces are resolved.
type Boundary uint8

const (
	// Periodic wraps positions at the faces and lets particles
	// interact across opposite sides of the domain.
	Periodic Boundary = iota
	// Solid clamps positions at the faces and cancels the outward
	// velocity component.
	Solid
)

func (b Boundary) String() string {
	switch b {
	case Periodic:
		return "periodic"
	case Solid:
		return "solid"
	default:
		return fmt.Sprintf("boundary(%d)", uint8(b))
	}
}

// ParseBoundary maps a config string to a boundary mode.
func ParseBoundary(s string) (Boundary, error) {
	switch s {
	case "periodic":
		return Periodic, nil
	case "solid":
		return Solid, nil
	default:
		return 0, fmt.Errorf("unknown boundary mode %q (want periodic or solid)", s)
	}
}

// Params is the between-ticks simulation configuration. A tick reads
// it as an immutable snapshot; mutate only through SetParams or
// SetAttraction while no tick is running.
//
// The type count is Attraction.K and is fixed for the life of a
// Simulation; coefficient values are freely mutable between ticks.
type Params struct {
	// WorldSize is the edge length of the cubic domain centered on
	// the origin.
	WorldSize float32
	// EffectRadius is the interaction cutoff. The neighbor search
	// assumes WorldSize >= 2*EffectRadius so one wrap image per axis
	// suffices.
	EffectRadius float32
	// Friction is the damping coefficient applied as a clamped
	// subtraction each tick.
	Friction float32
	// ForceScale multiplies the accumulated interaction force.
	ForceScale float32
	// Beta is the normalized distance where repulsion hands over to
	// the attraction profile, in (0, 1).
	Beta float32
	// Boundary picks periodic wrap or solid walls.
	Boundary Boundary
	// Gravity is a constant acceleration, usually zero.
	Gravity particle.Vec3
	// Attraction is the K×K type coupling table.
	Attraction particle.Matrix
}

// Validate rejects parameter sets the tick pipeline cannot run.
func (p *Params) Validate() error {
	if p.WorldSize <= 0 {
		return fmt.Errorf("world size must be positive, got %v", p.WorldSize)
	}
	if p.EffectRadius <= 0 {
		return fmt.Errorf("effect radius must be positive, got %v", p.EffectRadius)
	}
	if p.WorldSize < 2*p.EffectRadius {
		return fmt.Errorf("world size %v cannot hold two effect radii (%v)", p.WorldSize, p.EffectRadius)
	}
	if p.Friction < 0 {
		return fmt.Errorf("friction must be non-negative, got %v", p.Friction)
	}
	if p.ForceScale < 0 {
		return fmt.Errorf("force scale must be non-negative, got %v", p.ForceScale)
	}
	if p.Beta <= 0 || p.Beta >= 1 {
		return fmt.Errorf("beta must be in (0, 1), got %v", p.Beta)
	}
	if p.Boundary > Solid {
		return fmt.Errorf("unknown boundary mode %d", p.Boundary)
	}
	if err := p.Attraction.Validate(); err != nil {
		return fmt.Errorf("attraction matrix: %w", err)
	}
	return nil
}
