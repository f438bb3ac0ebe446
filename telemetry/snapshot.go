package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/navpreett/3D-Particle-Simulation/particle"
	"github.com/navpreett/3D-Particle-Simulation/sim"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// StateSnapshot holds the complete simulation state for resume.
type StateSnapshot struct {
	Version int       `json:"version"`
	Tick    int64     `json:"tick"`
	SavedAt time.Time `json:"saved_at"`

	World WorldState `json:"world"`

	Particles []particle.Particle `json:"particles"`
}

// WorldState holds the parameter set the particles were advanced under.
type WorldState struct {
	Size         float32       `json:"size"`
	Boundary     string        `json:"boundary"`
	EffectRadius float32       `json:"effect_radius"`
	Friction     float32       `json:"friction"`
	ForceScale   float32       `json:"force_scale"`
	Beta         float32       `json:"beta"`
	Gravity      particle.Vec3 `json:"gravity"`
	Types        int           `json:"types"`
	Attraction   []float32     `json:"attraction"` // row-major, types x types
}

// NewStateSnapshot captures a simulation's parameters and particle state.
func NewStateSnapshot(prm sim.Params, snap sim.Snapshot) *StateSnapshot {
	return &StateSnapshot{
		Version: SnapshotVersion,
		Tick:    snap.Tick,
		SavedAt: time.Now().UTC(),
		World: WorldState{
			Size:         prm.WorldSize,
			Boundary:     prm.Boundary.String(),
			EffectRadius: prm.EffectRadius,
			Friction:     prm.Friction,
			ForceScale:   prm.ForceScale,
			Beta:         prm.Beta,
			Gravity:      prm.Gravity,
			Types:        prm.Attraction.K,
			Attraction:   append([]float32(nil), prm.Attraction.Coef...),
		},
		Particles: snap.Particles,
	}
}

// SimParams reconstructs the simulation parameters from the snapshot.
func (s *StateSnapshot) SimParams() (sim.Params, error) {
	boundary, err := sim.ParseBoundary(s.World.Boundary)
	if err != nil {
		return sim.Params{}, fmt.Errorf("snapshot world: %w", err)
	}

	m := particle.Matrix{
		K:    s.World.Types,
		Coef: append([]float32(nil), s.World.Attraction...),
	}
	if err := m.Validate(); err != nil {
		return sim.Params{}, fmt.Errorf("snapshot attraction: %w", err)
	}

	return sim.Params{
		WorldSize:    s.World.Size,
		EffectRadius: s.World.EffectRadius,
		Friction:     s.World.Friction,
		ForceScale:   s.World.ForceScale,
		Beta:         s.World.Beta,
		Boundary:     boundary,
		Gravity:      s.World.Gravity,
		Attraction:   m,
	}, nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *StateSnapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("state_%d.json", snapshot.Tick)
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk and checks its version.
func LoadSnapshot(path string) (*StateSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot StateSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
