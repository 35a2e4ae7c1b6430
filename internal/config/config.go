package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/snowball/internal/climate"
	"github.com/san-kum/snowball/internal/solver"
	"github.com/san-kum/snowball/internal/sweep"
)

type Config struct {
	InitialTemp     float64      `yaml:"initial_temp"`
	SolarMultiplier float64      `yaml:"solar_multiplier"`
	MaxIterations   int          `yaml:"max_iterations"`
	Tolerance       float64      `yaml:"tolerance"`
	StepFactor      float64      `yaml:"step_factor"`
	Sweep           SweepConfig  `yaml:"sweep"`
	Planet          PlanetConfig `yaml:"planet"`
}

type SweepConfig struct {
	MinMultiplier float64 `yaml:"min_multiplier"`
	MaxMultiplier float64 `yaml:"max_multiplier"`
	Steps         int     `yaml:"steps"`
	WarmSeed      float64 `yaml:"warm_seed"`
	ColdSeed      float64 `yaml:"cold_seed"`
	Policy        string  `yaml:"policy"`
}

// PlanetConfig overrides the reference parameterization. Zero values
// mean "keep the default"; every physical default is non-zero.
type PlanetConfig struct {
	SolarConstant      float64 `yaml:"solar_constant"`
	AlphaWater         float64 `yaml:"alpha_water"`
	AlphaIce           float64 `yaml:"alpha_ice"`
	TFreeze            float64 `yaml:"t_freeze"`
	TransitionWidth    float64 `yaml:"transition_width"`
	EpsilonBase        float64 `yaml:"epsilon_base"`
	EpsilonSensitivity float64 `yaml:"epsilon_sensitivity"`
}

func DefaultConfig() *Config {
	return &Config{
		InitialTemp:     solver.DefaultInitialTemp,
		SolarMultiplier: 1.0,
		MaxIterations:   solver.DefaultMaxIterations,
		Tolerance:       solver.DefaultTolerance,
		StepFactor:      solver.DefaultStepFactor,
		Sweep: SweepConfig{
			MinMultiplier: sweep.DefaultMinMultiplier,
			MaxMultiplier: sweep.DefaultMaxMultiplier,
			Steps:         sweep.DefaultSteps,
			WarmSeed:      sweep.DefaultWarmSeed,
			ColdSeed:      sweep.DefaultColdSeed,
			Policy:        "prefer-warm",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params applies the planet overrides on top of the defaults.
func (c *Config) Params() climate.Params {
	p := climate.DefaultParams()
	o := c.Planet
	if o.SolarConstant != 0 {
		p.SolarConstant = o.SolarConstant
	}
	if o.AlphaWater != 0 {
		p.AlphaWater = o.AlphaWater
	}
	if o.AlphaIce != 0 {
		p.AlphaIce = o.AlphaIce
	}
	if o.TFreeze != 0 {
		p.TFreeze = o.TFreeze
	}
	if o.TransitionWidth != 0 {
		p.TransitionWidth = o.TransitionWidth
	}
	if o.EpsilonBase != 0 {
		p.EpsilonBase = o.EpsilonBase
	}
	if o.EpsilonSensitivity != 0 {
		p.EpsilonSensitivity = o.EpsilonSensitivity
	}
	return p
}

// Solver builds a solver from the configured iteration budget.
// Values pass through verbatim: defaults come from DefaultConfig, so
// an explicit zero reaches Solve and fails its validation there.
func (c *Config) Solver() *solver.Solver {
	s := solver.New()
	s.MaxIterations = c.MaxIterations
	s.Tolerance = c.Tolerance
	s.StepFactor = c.StepFactor
	return s
}

// SweepConfig translates the yaml block into a sweep.Config.
func (c *Config) SweepConfig() (sweep.Config, error) {
	policy, err := sweep.ParsePolicy(c.Sweep.Policy)
	if err != nil {
		return sweep.Config{}, err
	}

	sc := sweep.Config{
		Multipliers: climate.Linspace(c.Sweep.MinMultiplier, c.Sweep.MaxMultiplier, c.Sweep.Steps),
		WarmSeed:    c.Sweep.WarmSeed,
		ColdSeed:    c.Sweep.ColdSeed,
		Policy:      policy,
	}
	if sc.WarmSeed == 0 {
		sc.WarmSeed = sweep.DefaultWarmSeed
	}
	if sc.ColdSeed == 0 {
		sc.ColdSeed = sweep.DefaultColdSeed
	}
	return sc, nil
}
