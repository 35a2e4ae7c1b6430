// Package solver finds equilibrium temperatures of an energy balance
// model by relaxation: the temperature is nudged proportionally to the
// net flux until the imbalance falls inside tolerance.
package solver

import (
	"fmt"
	"math"

	"github.com/san-kum/snowball/internal/climate"
)

const (
	DefaultInitialTemp   = 288.0
	DefaultMaxIterations = 1000
	DefaultTolerance     = 0.01 // W m^-2
	DefaultStepFactor    = 0.1  // K per (W m^-2) of imbalance
)

// Observer receives every solver iteration, for live views and traces.
type Observer interface {
	OnIteration(iter int, temperature, balance float64)
}

// Solver drives a climate.Model toward a balance zero-crossing.
//
// StepFactor and the temperature clamp make this a crude
// gradient-following fixed-point iteration: which equilibrium is
// reached depends on the starting temperature, which is what exposes
// the warm/frozen bistability. Changing StepFactor changes which
// branch is found.
type Solver struct {
	StepFactor    float64
	MaxIterations int
	Tolerance     float64

	observers []Observer
}

func New() *Solver {
	return &Solver{
		StepFactor:    DefaultStepFactor,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Result is the outcome of one solver run. Converged false means the
// iteration budget ran out before the tolerance was met, not that no
// equilibrium exists; callers must check the flag.
type Result struct {
	Temperature float64 // K, always within the model's [TMin, TMax]
	Converged   bool
	Iterations  int
	Balance     float64 // W m^-2 at the returned temperature
}

// CelsiusTemperature converts the result for reporting.
func (r Result) CelsiusTemperature(p climate.Params) float64 {
	return r.Temperature - p.TFreeze
}

func (s *Solver) validate() error {
	if s.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %f", s.Tolerance)
	}
	if s.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", s.MaxIterations)
	}
	if s.StepFactor <= 0 {
		return fmt.Errorf("step factor must be positive, got %f", s.StepFactor)
	}
	return nil
}

// Solve relaxes from initialTemp toward an equilibrium at the given
// solar multiplier. Deterministic: identical inputs yield identical
// results. The returned temperature is clamped into the model's hard
// bounds at every step, which keeps the quartic emission term from
// overflowing on runaway trajectories.
func (s *Solver) Solve(m *climate.Model, initialTemp, solarMultiplier float64) (Result, error) {
	if err := s.validate(); err != nil {
		return Result{}, err
	}

	p := m.Params()
	temp := p.ClampTemperature(initialTemp)

	var balance float64
	for i := 0; i < s.MaxIterations; i++ {
		balance = m.Balance(temp, solarMultiplier)

		for _, o := range s.observers {
			o.OnIteration(i, temp, balance)
		}

		if math.Abs(balance) < s.Tolerance {
			return Result{Temperature: temp, Converged: true, Iterations: i, Balance: balance}, nil
		}

		temp = p.ClampTemperature(temp + s.StepFactor*balance)
	}

	return Result{
		Temperature: temp,
		Converged:   false,
		Iterations:  s.MaxIterations,
		Balance:     m.Balance(temp, solarMultiplier),
	}, nil
}
