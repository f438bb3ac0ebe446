package sim

import "math"

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// cellCoord maps one position component to its grid cell. Cells are
// effect-radius sized, so a neighbor search never spans more than the
// adjacent cell in each direction.
func cellCoord(v, invRadius float32) int32 {
	return int32(math.Floor(float64(v) * float64(invRadius)))
}
