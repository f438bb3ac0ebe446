package sim

import (
	"github.com/navpreett/3D-Particle-Simulation/particle"
)

// integrate advances one particle by dt under its accumulated force:
// force and gravity first, then friction as a clamped subtraction
// that can stop the particle but never reverse it, then the position
// update and per-axis boundary resolution.
func integrate(p *particle.Particle, force particle.Vec3, prm *Params, dt float32) {
	v := p.Velocity.Add(force.Scale(prm.ForceScale * prm.EffectRadius * dt))
	v = v.Add(prm.Gravity.Scale(dt))

	dv := v.Scale(prm.Friction * dt)
	if dv.LengthSq() > v.LengthSq() {
		v = particle.Vec3{}
	} else {
		v = v.Sub(dv)
	}

	pos := p.Position.Add(v.Scale(dt))

	half := prm.WorldSize / 2
	solid := prm.Boundary == Solid
	pos.X, v.X = resolveAxis(pos.X, v.X, half, prm.WorldSize, solid)
	pos.Y, v.Y = resolveAxis(pos.Y, v.Y, half, prm.WorldSize, solid)
	pos.Z, v.Z = resolveAxis(pos.Z, v.Z, half, prm.WorldSize, solid)

	p.Position = pos
	p.Velocity = v
}

// resolveAxis applies the boundary rule to one axis after the
// position update. Periodic shifts by one domain width; Solid clamps
// to the face and cancels the outward velocity component.
func resolveAxis(pos, vel, half, size float32, solid bool) (float32, float32) {
	if pos > half {
		if solid {
			return half, min(vel, 0)
		}
		return pos - size, vel
	}
	if pos < -half {
		if solid {
			return -half, max(vel, 0)
		}
		return pos + size, vel
	}
	return pos, vel
}
