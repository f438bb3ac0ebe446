package sim

import (
	"sync/atomic"

	"github.com/navpreett/3D-Particle-Simulation/particle"
)

// spatialIndex maps hashed grid cells to contiguous runs of particle
// indices. It is rebuilt from scratch every tick by a three-phase
// counting sort. Buckets form a hash table over cells rather than a
// literal grid: distinct cells may share a bucket, so queries must
// distance-filter every candidate.
type spatialIndex struct {
	// starts holds bucket start offsets into indices, with a sentinel
	// end offset at starts[n].
	starts []int32
	// indices holds particle indices grouped by bucket.
	indices []int32
	// cursors is scratch for the count and scatter phases.
	cursors []int32
	n       int
}

// build populates the index from the particle array. The count and
// scatter passes run on the pool with per-bucket atomics; the prefix
// sum between them is sequential.
func (s *spatialIndex) build(particles []particle.Particle, invRadius float32, pool *workerPool) {
	n := len(particles)
	s.n = n
	if n == 0 {
		s.starts = s.starts[:0]
		s.indices = s.indices[:0]
		return
	}

	s.starts = resizeInt32(s.starts, n+1)
	s.indices = resizeInt32(s.indices, n)
	s.cursors = resizeInt32(s.cursors, n)
	clear(s.cursors)

	pool.forEach(n, func(start, end, _ int) {
		for i := start; i < end; i++ {
			b := s.bucketOf(particles[i].Position, invRadius)
			atomic.AddInt32(&s.cursors[b], 1)
		}
	})

	// Prefix-sum counts into start offsets, leaving each cursor at
	// its bucket's first free slot for the scatter pass.
	var sum int32
	for b := 0; b < n; b++ {
		c := s.cursors[b]
		s.starts[b] = sum
		s.cursors[b] = sum
		sum += c
	}
	s.starts[n] = sum

	pool.forEach(n, func(start, end, _ int) {
		for i := start; i < end; i++ {
			b := s.bucketOf(particles[i].Position, invRadius)
			slot := atomic.AddInt32(&s.cursors[b], 1) - 1
			s.indices[slot] = int32(i)
		}
	})
}

// bucket returns the index range [start, end) of particles whose cell
// hashes to the bucket of cell (cx, cy, cz).
func (s *spatialIndex) bucket(cx, cy, cz int32) (int32, int32) {
	b := hashCell(cx, cy, cz) % uint32(s.n)
	return s.starts[b], s.starts[b+1]
}

// bucketOf hashes a position straight to its bucket.
func (s *spatialIndex) bucketOf(p particle.Vec3, invRadius float32) int32 {
	h := hashCell(
		cellCoord(p.X, invRadius),
		cellCoord(p.Y, invRadius),
		cellCoord(p.Z, invRadius),
	)
	return int32(h % uint32(s.n))
}

// hashCell diffuses integer cell coordinates into an unsigned hash:
// a large-prime XOR fold with a final avalanche mix so mod-N
// bucketing stays uniform for adjacent cells.
func hashCell(x, y, z int32) uint32 {
	h := uint32(x)*73856093 ^ uint32(y)*19349663 ^ uint32(z)*83492791
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return h
}

// resizeInt32 returns s with length n, reusing capacity when it can.
func resizeInt32(s []int32, n int) []int32 {
	if cap(s) < n {
		return make([]int32, n)
	}
	return s[:n]
}
