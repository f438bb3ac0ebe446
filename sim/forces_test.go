package sim

import (
	"testing"

	"github.com/navpreett/3D-Particle-Simulation/particle"
)

func approx(t *testing.T, name string, got, want, eps float32) {
	t.Helper()
	if abs32(got-want) > eps {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, eps)
	}
}

func TestForceKernel(t *testing.T) {
	cases := []struct {
		name       string
		r          float32
		attraction float32
		beta       float32
		want       float32
		eps        float32
	}{
		{"repulsion at contact", 0.1, 1.0, 0.3, -2.0 / 3.0, 1e-4},
		{"repulsion ignores attraction sign", 0.1, -1.0, 0.3, -2.0 / 3.0, 1e-4},
		{"repulsion ignores attraction scale", 0.1, 5.0, 0.3, -2.0 / 3.0, 1e-4},
		{"zero at transition", 0.3, 1.0, 0.3, 0, 1e-6},
		{"peak reproduces coefficient", 0.65, 0.8, 0.3, 0.8, 1e-5},
		{"negative peak", 0.65, -0.4, 0.3, -0.4, 1e-5},
		{"zero at cutoff", 1.0, 1.0, 0.3, 0, 0},
		{"zero beyond cutoff", 1.5, 1.0, 0.3, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			approx(t, "forceKernel", forceKernel(tc.r, tc.attraction, tc.beta), tc.want, tc.eps)
		})
	}
}

func TestForceKernelNearCutoffStaysSmall(t *testing.T) {
	got := forceKernel(0.999, 1.0, 0.3)
	if got <= 0 || got > 0.01 {
		t.Errorf("forceKernel(0.999) = %v, want a small positive value", got)
	}
}

func pairParams(boundary Boundary, coef float32) Params {
	m := particle.NewMatrix(1)
	m.Set(0, 0, coef)
	return Params{
		WorldSize:    10,
		EffectRadius: 2,
		Friction:     0,
		ForceScale:   1,
		Beta:         0.3,
		Boundary:     boundary,
		Attraction:   m,
	}
}

func buildIndex(t *testing.T, ps []particle.Particle, prm *Params) (*spatialIndex, *workerPool) {
	t.Helper()
	pool := newWorkerPool(2)
	t.Cleanup(pool.stopWorkers)
	idx := &spatialIndex{}
	idx.build(ps, 1/prm.EffectRadius, pool)
	return idx, pool
}

func TestForceNewtonSymmetry(t *testing.T) {
	prm := pairParams(Periodic, 0.8)
	ps := []particle.Particle{
		{Position: particle.Vec3{X: 0, Y: 0, Z: 0}},
		{Position: particle.Vec3{X: 1.0, Y: 0.5, Z: -0.3}},
	}
	idx, _ := buildIndex(t, ps, &prm)

	f0, pairs0 := forceOn(0, ps, idx, &prm)
	f1, pairs1 := forceOn(1, ps, idx, &prm)

	if pairs0 != 1 || pairs1 != 1 {
		t.Fatalf("pair counts = %d, %d, want 1, 1", pairs0, pairs1)
	}
	approx(t, "f0.X + f1.X", f0.X+f1.X, 0, 1e-6)
	approx(t, "f0.Y + f1.Y", f0.Y+f1.Y, 0, 1e-6)
	approx(t, "f0.Z + f1.Z", f0.Z+f1.Z, 0, 1e-6)
	if f0.LengthSq() == 0 {
		t.Error("force is zero, want a nonzero interaction")
	}
}

func TestForceLoneParticle(t *testing.T) {
	prm := pairParams(Periodic, 1)
	ps := []particle.Particle{{Position: particle.Vec3{X: 1, Y: 2, Z: 3}}}
	idx, _ := buildIndex(t, ps, &prm)

	f, pairs := forceOn(0, ps, idx, &prm)
	if f != (particle.Vec3{}) || pairs != 0 {
		t.Errorf("lone particle force = %+v with %d pairs, want zero and 0", f, pairs)
	}
}

func TestForceCoincidentParticlesExcluded(t *testing.T) {
	prm := pairParams(Periodic, 1)
	at := particle.Vec3{X: 0.5, Y: -0.5, Z: 1}
	ps := []particle.Particle{{Position: at}, {Position: at}}
	idx, _ := buildIndex(t, ps, &prm)

	for i := range ps {
		f, pairs := forceOn(i, ps, idx, &prm)
		if f != (particle.Vec3{}) || pairs != 0 {
			t.Errorf("coincident particle %d: force = %+v, pairs = %d, want zero and 0", i, f, pairs)
		}
		if f.X != f.X || f.Y != f.Y || f.Z != f.Z {
			t.Errorf("coincident particle %d produced NaN force", i)
		}
	}
}

func TestForceAcrossPeriodicWrap(t *testing.T) {
	prm := pairParams(Periodic, 1)
	ps := []particle.Particle{
		{Position: particle.Vec3{X: 4.9}},
		{Position: particle.Vec3{X: -4.9}},
	}
	idx, _ := buildIndex(t, ps, &prm)

	// Wrapped separation is 0.2, normalized r = 0.1, inside the
	// repulsive ramp: each particle is pushed away from the shared
	// face.
	f0, pairs0 := forceOn(0, ps, idx, &prm)
	if pairs0 != 1 {
		t.Fatalf("pairs = %d, want 1 (exactly one wrap image in range)", pairs0)
	}
	approx(t, "f0.X", f0.X, -2.0/3.0, 1e-3)
	approx(t, "f0.Y", f0.Y, 0, 1e-6)
	approx(t, "f0.Z", f0.Z, 0, 1e-6)

	f1, _ := forceOn(1, ps, idx, &prm)
	approx(t, "f1.X", f1.X, 2.0/3.0, 1e-3)
}

func TestForceNoWrapUnderSolidWalls(t *testing.T) {
	prm := pairParams(Solid, 1)
	ps := []particle.Particle{
		{Position: particle.Vec3{X: 4.9}},
		{Position: particle.Vec3{X: -4.9}},
	}
	idx, _ := buildIndex(t, ps, &prm)

	f, pairs := forceOn(0, ps, idx, &prm)
	if pairs != 0 || f != (particle.Vec3{}) {
		t.Errorf("solid walls: force = %+v, pairs = %d, want zero and 0", f, pairs)
	}
}
