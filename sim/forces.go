package sim

import (
	"github.com/navpreett/3D-Particle-Simulation/particle"
)

// forceKernel maps a normalized distance in (0, 1) and an attraction
// coefficient to a force magnitude. Below beta the kernel is a
// type-independent repulsion ramp from -1 at contact to 0 at beta;
// from beta to 1 it is a triangular profile that peaks at the
// coefficient's full value midway and vanishes at both ends.
func forceKernel(r, attraction, beta float32) float32 {
	if r < beta {
		return r/beta - 1
	}
	if r < 1 {
		return attraction * (1 - abs32(2*r-1-beta)/(1-beta))
	}
	return 0
}

// forceOn accumulates the net interaction force on particle i from
// every neighbor within the effect radius, reading only src. Under
// periodic boundaries the particle is searched at all 27 domain
// images so interactions cross the wrap; solid walls use the zero
// image only. Returns the force and the number of pairs that passed
// the distance filter.
func forceOn(i int, src []particle.Particle, idx *spatialIndex, prm *Params) (particle.Vec3, int64) {
	self := &src[i]
	radius := prm.EffectRadius
	invRadius := 1 / radius
	maxSq := radius * radius
	beta := prm.Beta
	k := prm.Attraction.K
	row := prm.Attraction.Coef[int(self.Type)*k : int(self.Type)*k+k]

	steps := [3]float32{-prm.WorldSize, 0, prm.WorldSize}
	lo, hi := 0, 2
	if prm.Boundary == Solid {
		lo, hi = 1, 1
	}

	var fx, fy, fz float32
	var pairs int64
	for oi := lo; oi <= hi; oi++ {
		for oj := lo; oj <= hi; oj++ {
			for ok := lo; ok <= hi; ok++ {
				baseX := self.Position.X + steps[oi]
				baseY := self.Position.Y + steps[oj]
				baseZ := self.Position.Z + steps[ok]
				cx := cellCoord(baseX, invRadius)
				cy := cellCoord(baseY, invRadius)
				cz := cellCoord(baseZ, invRadius)

				for dx := int32(-1); dx <= 1; dx++ {
					for dy := int32(-1); dy <= 1; dy++ {
						for dz := int32(-1); dz <= 1; dz++ {
							start, end := idx.bucket(cx+dx, cy+dy, cz+dz)
							for slot := start; slot < end; slot++ {
								j := idx.indices[slot]
								if int(j) == i {
									continue
								}
								q := &src[j]
								rx := q.Position.X - baseX
								ry := q.Position.Y - baseY
								rz := q.Position.Z - baseZ
								sqDist := rx*rx + ry*ry + rz*rz
								if sqDist <= 0 || sqDist >= maxSq {
									continue
								}
								dist := sqrt32(sqDist)
								mag := forceKernel(dist*invRadius, row[q.Type], beta)
								scale := mag / dist
								fx += rx * scale
								fy += ry * scale
								fz += rz * scale
								pairs++
							}
						}
					}
				}
			}
		}
	}
	return particle.Vec3{X: fx, Y: fy, Z: fz}, pairs
}
