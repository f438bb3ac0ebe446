// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Attraction AttractionConfig `yaml:"attraction"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Workers    int              `yaml:"workers"` // 0 = one worker per CPU
}

// WorldConfig holds the cubic domain dimensions.
type WorldConfig struct {
	Size     float64 `yaml:"size"`
	Boundary string  `yaml:"boundary"` // "periodic" or "solid"
}

// ParticlesConfig holds population parameters.
type ParticlesConfig struct {
	Count int `yaml:"count"`
	Types int `yaml:"types"`
}

// PhysicsConfig holds simulation physics parameters.
type PhysicsConfig struct {
	DT           float64       `yaml:"dt"`
	EffectRadius float64       `yaml:"effect_radius"`
	Friction     float64       `yaml:"friction"`
	ForceScale   float64       `yaml:"force_scale"`
	Beta         float64       `yaml:"beta"`
	Gravity      GravityConfig `yaml:"gravity"`
}

// GravityConfig holds the constant acceleration applied to every particle.
type GravityConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// AttractionConfig selects the attraction matrix: explicit rows, or a
// random matrix when random is true (rows are then ignored).
type AttractionConfig struct {
	Random     bool        `yaml:"random"`
	ShakeEvery int         `yaml:"shake_every"` // ticks between re-randomizations, 0 disables
	Rows       [][]float64 `yaml:"rows"`        // rows[a][b] is the pull type b exerts on type a
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow       int `yaml:"stats_window"`        // ticks per stats window
	PerfWindow        int `yaml:"perf_window"`         // ticks kept by the perf collector
	RegimeHistorySize int `yaml:"regime_history_size"` // windows kept by the regime detector
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate reports the first malformed parameter.
func (c *Config) Validate() error {
	if c.World.Size <= 0 {
		return fmt.Errorf("world.size must be positive, got %v", c.World.Size)
	}
	if b := c.World.Boundary; b != "periodic" && b != "solid" {
		return fmt.Errorf("world.boundary must be \"periodic\" or \"solid\", got %q", b)
	}
	if c.Particles.Count < 0 {
		return fmt.Errorf("particles.count must be non-negative, got %d", c.Particles.Count)
	}
	if c.Particles.Types < 1 || c.Particles.Types > 256 {
		return fmt.Errorf("particles.types must be in [1, 256], got %d", c.Particles.Types)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Physics.EffectRadius <= 0 {
		return fmt.Errorf("physics.effect_radius must be positive, got %v", c.Physics.EffectRadius)
	}
	if c.World.Size < 2*c.Physics.EffectRadius {
		return fmt.Errorf("world.size %v cannot hold two effect radii (%v)", c.World.Size, c.Physics.EffectRadius)
	}
	if c.Physics.Friction < 0 {
		return fmt.Errorf("physics.friction must be non-negative, got %v", c.Physics.Friction)
	}
	if c.Physics.ForceScale < 0 {
		return fmt.Errorf("physics.force_scale must be non-negative, got %v", c.Physics.ForceScale)
	}
	if b := c.Physics.Beta; b <= 0 || b >= 1 {
		return fmt.Errorf("physics.beta must be in (0, 1), got %v", b)
	}
	if c.Attraction.ShakeEvery < 0 {
		return fmt.Errorf("attraction.shake_every must be non-negative, got %d", c.Attraction.ShakeEvery)
	}
	if !c.Attraction.Random {
		if len(c.Attraction.Rows) != c.Particles.Types {
			return fmt.Errorf("attraction.rows has %d rows, want one per type (%d)", len(c.Attraction.Rows), c.Particles.Types)
		}
		for i, row := range c.Attraction.Rows {
			if len(row) != c.Particles.Types {
				return fmt.Errorf("attraction.rows[%d] has %d entries, want %d", i, len(row), c.Particles.Types)
			}
		}
	}
	if c.Telemetry.StatsWindow < 1 {
		return fmt.Errorf("telemetry.stats_window must be at least 1, got %d", c.Telemetry.StatsWindow)
	}
	if c.Telemetry.PerfWindow < 1 {
		return fmt.Errorf("telemetry.perf_window must be at least 1, got %d", c.Telemetry.PerfWindow)
	}
	if c.Telemetry.RegimeHistorySize < 1 {
		return fmt.Errorf("telemetry.regime_history_size must be at least 1, got %d", c.Telemetry.RegimeHistorySize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
