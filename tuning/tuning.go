// Package tuning holds the gameplay tuning parameters for the castle demo.
// Values ship with sensible defaults and can be overridden from a YAML file;
// the runner can hot-reload the file through Watcher.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config collects every tunable constant in one place. The compliance and
// breaking threshold are gameplay tuning parameters, not structural
// constants; nothing in the castle subsystem hard-codes them.
type Config struct {
	// GridUnit is the world-unit size of one indexing cell.
	GridUnit int `yaml:"grid_unit"`

	// BaseMass is the mass of a block covering ReferenceArea; other blocks
	// scale by sqrt(area / reference_area).
	BaseMass      float64 `yaml:"base_mass"`
	ReferenceArea float64 `yaml:"reference_area"`

	// Compliance is the inverse stiffness of a mortar joint, mapped onto
	// the solver's error bias (fraction of positional error remaining after
	// one second). Near zero is rigid; 1.0 is fully soft.
	Compliance float64 `yaml:"compliance"`

	// LinearDamping/AngularDamping bleed velocity off block bodies each
	// second to suppress joint vibration.
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`

	// BreakingImpulse is the impulse magnitude at or above which every
	// joint attached to the hit block is severed.
	BreakingImpulse float64 `yaml:"breaking_impulse"`

	Gravity float64 `yaml:"gravity"`

	// Fireball projectile parameters.
	FireballMass     float64 `yaml:"fireball_mass"`
	FireballRadius   float64 `yaml:"fireball_radius"`
	FireballSpeed    float64 `yaml:"fireball_speed"`
	FireballTTL      int     `yaml:"fireball_ttl"`
	ExplosionRadius  float64 `yaml:"explosion_radius"`
	ExplosionImpulse float64 `yaml:"explosion_impulse"`
}

// Default returns the baseline tuning used when no file is supplied.
func Default() Config {
	return Config{
		GridUnit:         16,
		BaseMass:         100,
		ReferenceArea:    16 * 16,
		Compliance:       0.00001,
		LinearDamping:    0.1,
		AngularDamping:   0.1,
		BreakingImpulse:  5000,
		Gravity:          -100,
		FireballMass:     3000,
		FireballRadius:   8,
		FireballSpeed:    900,
		FireballTTL:      120,
		ExplosionRadius:  64,
		ExplosionImpulse: 9000,
	}
}

// LoadFile reads a YAML tuning file over the defaults. Fields absent from
// the file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("tuning: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("tuning: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("tuning: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c Config) Validate() error {
	if c.GridUnit <= 0 {
		return fmt.Errorf("grid_unit must be positive, got %d", c.GridUnit)
	}
	if c.BaseMass <= 0 {
		return fmt.Errorf("base_mass must be positive, got %v", c.BaseMass)
	}
	if c.Compliance < 0 || c.Compliance > 1 {
		return fmt.Errorf("compliance must be in [0, 1], got %v", c.Compliance)
	}
	if c.BreakingImpulse <= 0 {
		return fmt.Errorf("breaking_impulse must be positive, got %v", c.BreakingImpulse)
	}
	return nil
}
