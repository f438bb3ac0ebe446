package particle

import (
	"fmt"
	"math/rand"
)

// Matrix is the K×K attraction table in row-major order.
// Coef[a*K+b] is the influence of type b on a particle of type a; the
// table need not be symmetric. Values conventionally sit in [-1, 1].
type Matrix struct {
	K    int
	Coef []float32
}

// NewMatrix returns a zero matrix for k types.
func NewMatrix(k int) Matrix {
	return Matrix{K: k, Coef: make([]float32, k*k)}
}

// RandomMatrix returns a matrix with coefficients drawn uniformly
// from [-1, 1).
func RandomMatrix(k int, rng *rand.Rand) Matrix {
	m := NewMatrix(k)
	m.Randomize(rng)
	return m
}

// MatrixFromRows builds a matrix from square row data.
func MatrixFromRows(rows [][]float32) (Matrix, error) {
	k := len(rows)
	if k == 0 {
		return Matrix{}, fmt.Errorf("attraction rows are empty")
	}
	m := NewMatrix(k)
	for a, row := range rows {
		if len(row) != k {
			return Matrix{}, fmt.Errorf("attraction row %d has %d values, want %d", a, len(row), k)
		}
		copy(m.Coef[a*k:(a+1)*k], row)
	}
	return m, nil
}

// At returns the influence of type b on type a.
func (m Matrix) At(a, b int) float32 { return m.Coef[a*m.K+b] }

// Set assigns the influence of type b on type a.
func (m *Matrix) Set(a, b int, v float32) { m.Coef[a*m.K+b] = v }

// Randomize redraws every coefficient uniformly from [-1, 1).
func (m *Matrix) Randomize(rng *rand.Rand) {
	for i := range m.Coef {
		m.Coef[i] = rng.Float32()*2 - 1
	}
}

// Clone returns a deep copy sharing no storage.
func (m Matrix) Clone() Matrix {
	return Matrix{K: m.K, Coef: append([]float32(nil), m.Coef...)}
}

// Validate checks the shape invariant. The upper bound on K comes
// from Particle.Type being a uint8.
func (m Matrix) Validate() error {
	if m.K < 1 {
		return fmt.Errorf("type count must be at least 1, got %d", m.K)
	}
	if m.K > 256 {
		return fmt.Errorf("type count must be at most 256, got %d", m.K)
	}
	if len(m.Coef) != m.K*m.K {
		return fmt.Errorf("attraction table has %d values, want %d for %d types", len(m.Coef), m.K*m.K, m.K)
	}
	return nil
}
