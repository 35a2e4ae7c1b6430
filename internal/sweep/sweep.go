// Package sweep characterizes the equilibrium curve: it runs the
// solver across a range of solar multipliers from both a warm and a
// cold seed, picks a branch per an explicit policy, and locates the
// critical multiplier below which the chosen equilibrium freezes.
package sweep

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/snowball/internal/climate"
	"github.com/san-kum/snowball/internal/solver"
)

const (
	DefaultMinMultiplier = 0.85
	DefaultMaxMultiplier = 1.05
	DefaultSteps         = 20
	DefaultWarmSeed      = 288.0
	DefaultColdSeed      = 230.0
)

// BranchPolicy selects which converged branch represents a sweep
// point when both seeds converge. Preferring the warm branch traces
// the hysteresis of an initially warm planet as the sun dims.
type BranchPolicy int

const (
	PreferWarm BranchPolicy = iota
	PreferCold
)

func (p BranchPolicy) String() string {
	switch p {
	case PreferWarm:
		return "prefer-warm"
	case PreferCold:
		return "prefer-cold"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps config/CLI names to a policy.
func ParsePolicy(name string) (BranchPolicy, error) {
	switch name {
	case "", "prefer-warm":
		return PreferWarm, nil
	case "prefer-cold":
		return PreferCold, nil
	default:
		return 0, fmt.Errorf("unknown branch policy: %s", name)
	}
}

type Config struct {
	Multipliers []float64 // monotonically increasing
	WarmSeed    float64
	ColdSeed    float64
	Policy      BranchPolicy
}

// DefaultConfig covers 0.85 to 1.05 in 20 steps, wide enough to
// bracket the Snowball transition on both sides.
func DefaultConfig() Config {
	return Config{
		Multipliers: climate.Linspace(DefaultMinMultiplier, DefaultMaxMultiplier, DefaultSteps),
		WarmSeed:    DefaultWarmSeed,
		ColdSeed:    DefaultColdSeed,
		Policy:      PreferWarm,
	}
}

// Point is one sweep sample. Valid false marks a missing data point:
// neither seed converged for that multiplier.
type Point struct {
	Multiplier  float64
	Temperature float64
	Valid       bool
	Branch      string // "warm" or "cold", which seed produced it
	Warm        solver.Result
	Cold        solver.Result
}

func (c Config) validate() error {
	if len(c.Multipliers) == 0 {
		return fmt.Errorf("no multipliers to sweep")
	}
	for i, m := range c.Multipliers {
		if m <= 0 {
			return fmt.Errorf("multiplier %d is not positive: %f", i, m)
		}
		if i > 0 && m <= c.Multipliers[i-1] {
			return fmt.Errorf("multipliers must be strictly increasing at index %d", i)
		}
	}
	return nil
}

// Run evaluates every multiplier. Points are independent, so they run
// concurrently; each goroutine gets its own solver so observer state
// never crosses runs. The result is ordered by multiplier.
func Run(ctx context.Context, m *climate.Model, newSolver func() *solver.Solver, cfg Config) ([]Point, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if newSolver == nil {
		newSolver = solver.New
	}

	points := make([]Point, len(cfg.Multipliers))
	errs := make([]error, len(cfg.Multipliers))

	var wg sync.WaitGroup
	for i, mult := range cfg.Multipliers {
		wg.Add(1)
		go func(idx int, mult float64) {
			defer wg.Done()
			points[idx], errs[idx] = solvePoint(ctx, m, newSolver(), mult, cfg)
		}(i, mult)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

func solvePoint(ctx context.Context, m *climate.Model, s *solver.Solver, mult float64, cfg Config) (Point, error) {
	if err := ctx.Err(); err != nil {
		return Point{}, err
	}
	warm, err := s.Solve(m, cfg.WarmSeed, mult)
	if err != nil {
		return Point{}, err
	}
	if err := ctx.Err(); err != nil {
		return Point{}, err
	}
	cold, err := s.Solve(m, cfg.ColdSeed, mult)
	if err != nil {
		return Point{}, err
	}

	pt := Point{Multiplier: mult, Warm: warm, Cold: cold}

	first, second := warm, cold
	firstName, secondName := "warm", "cold"
	if cfg.Policy == PreferCold {
		first, second = cold, warm
		firstName, secondName = "cold", "warm"
	}

	switch {
	case first.Converged:
		pt.Temperature, pt.Valid, pt.Branch = first.Temperature, true, firstName
	case second.Converged:
		pt.Temperature, pt.Valid, pt.Branch = second.Temperature, true, secondName
	}
	return pt, nil
}

// CriticalMultiplier returns the lowest multiplier whose chosen
// equilibrium sits below freezing, the Snowball onset. ok is false
// when no valid point freezes.
func CriticalMultiplier(points []Point, tFreeze float64) (float64, bool) {
	for _, pt := range points {
		if pt.Valid && pt.Temperature < tFreeze {
			return pt.Multiplier, true
		}
	}
	return 0, false
}
