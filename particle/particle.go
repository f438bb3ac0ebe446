// Package particle defines the shared particle data model: the
// particle itself, the attraction matrix coupling its types, and the
// per-type color palette snapshot consumers use.
package particle

// Particle is one point particle. Type selects the attraction matrix
// row and the palette entry and stays in [0, K).
type Particle struct {
	Position Vec3  `json:"position"`
	Velocity Vec3  `json:"velocity"`
	Type     uint8 `json:"type"`
}
