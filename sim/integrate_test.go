package sim

import (
	"testing"

	"github.com/navpreett/3D-Particle-Simulation/particle"
)

func integrateParams(boundary Boundary, friction float32) Params {
	return Params{
		WorldSize:    10,
		EffectRadius: 2,
		Friction:     friction,
		ForceScale:   1,
		Beta:         0.3,
		Boundary:     boundary,
		Attraction:   particle.NewMatrix(1),
	}
}

func TestIntegratePeriodicWrap(t *testing.T) {
	prm := integrateParams(Periodic, 0)
	p := particle.Particle{
		Position: particle.Vec3{X: 4.9},
		Velocity: particle.Vec3{X: 1},
	}
	integrate(&p, particle.Vec3{}, &prm, 1)

	approx(t, "pos.X", p.Position.X, -4.1, 1e-5)
	approx(t, "vel.X", p.Velocity.X, 1, 1e-6)
}

func TestIntegratePeriodicWrapLowSide(t *testing.T) {
	prm := integrateParams(Periodic, 0)
	p := particle.Particle{
		Position: particle.Vec3{X: -4.9},
		Velocity: particle.Vec3{X: -1},
	}
	integrate(&p, particle.Vec3{}, &prm, 1)

	approx(t, "pos.X", p.Position.X, 4.1, 1e-5)
}

func TestIntegrateSolidWallClamp(t *testing.T) {
	prm := integrateParams(Solid, 0)
	p := particle.Particle{
		Position: particle.Vec3{X: 4.9, Y: -4.9, Z: 1},
		Velocity: particle.Vec3{X: 1, Y: -1, Z: 0.5},
	}
	integrate(&p, particle.Vec3{}, &prm, 1)

	approx(t, "pos.X", p.Position.X, 5, 0)
	approx(t, "vel.X", p.Velocity.X, 0, 0)
	approx(t, "pos.Y", p.Position.Y, -5, 0)
	approx(t, "vel.Y", p.Velocity.Y, 0, 0)
	approx(t, "pos.Z", p.Position.Z, 1.5, 1e-6)
	approx(t, "vel.Z", p.Velocity.Z, 0.5, 1e-6)
}

func TestResolveAxisKeepsInwardVelocity(t *testing.T) {
	cases := []struct {
		name             string
		pos, vel         float32
		wantPos, wantVel float32
	}{
		{"high side outward", 5.4, 0.3, 5, 0},
		{"high side inward", 5.4, -0.3, 5, -0.3},
		{"low side outward", -5.4, -0.3, -5, 0},
		{"low side inward", -5.4, 0.3, -5, 0.3},
		{"interior untouched", 3.1, -2, 3.1, -2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos, vel := resolveAxis(tc.pos, tc.vel, 5, 10, true)
			if pos != tc.wantPos || vel != tc.wantVel {
				t.Errorf("resolveAxis(%v, %v) = (%v, %v), want (%v, %v)",
					tc.pos, tc.vel, pos, vel, tc.wantPos, tc.wantVel)
			}
		})
	}
}

func TestIntegrateDampingStopsWithoutReversing(t *testing.T) {
	prm := integrateParams(Periodic, 30)
	p := particle.Particle{
		Position: particle.Vec3{X: 1},
		Velocity: particle.Vec3{X: 2},
	}
	integrate(&p, particle.Vec3{}, &prm, 0.1)

	if p.Velocity != (particle.Vec3{}) {
		t.Errorf("velocity = %+v, want zero when damping exceeds speed", p.Velocity)
	}
	approx(t, "pos.X", p.Position.X, 1, 0)
}

func TestIntegrateDampingDecay(t *testing.T) {
	prm := integrateParams(Periodic, 5)
	p := particle.Particle{Velocity: particle.Vec3{X: 1}}
	integrate(&p, particle.Vec3{}, &prm, 0.01)

	approx(t, "vel.X", p.Velocity.X, 0.95, 1e-5)
	approx(t, "pos.X", p.Position.X, 0.0095, 1e-6)
}

func TestIntegrateGravity(t *testing.T) {
	prm := integrateParams(Periodic, 0)
	prm.Gravity = particle.Vec3{Y: -10}
	p := particle.Particle{}
	integrate(&p, particle.Vec3{}, &prm, 0.1)

	approx(t, "vel.Y", p.Velocity.Y, -1, 1e-5)
	approx(t, "pos.Y", p.Position.Y, -0.1, 1e-5)
}

func TestIntegrateForceScaling(t *testing.T) {
	prm := integrateParams(Periodic, 0)
	prm.ForceScale = 2
	p := particle.Particle{}
	integrate(&p, particle.Vec3{X: 1}, &prm, 0.5)

	// dv = force * force_scale * effect_radius * dt = 1*2*2*0.5
	approx(t, "vel.X", p.Velocity.X, 2, 1e-5)
	approx(t, "pos.X", p.Position.X, 1, 1e-5)
}
