package climate

import (
	"fmt"
	"math"
)

// Model evaluates the energy balance for one parameterization. All
// methods are pure; a Model is safe for concurrent use as long as
// SetParam is not called while evaluations are in flight.
type Model struct {
	params Params
}

func New(params Params) *Model {
	return &Model{params: params}
}

// NewDefault returns a model with the reference Earth parameters.
func NewDefault() *Model {
	return New(DefaultParams())
}

func (m *Model) Params() Params { return m.params }

// Albedo returns the planetary albedo at temperature t (K). The tanh
// blend keeps the result strictly between AlphaWater and AlphaIce,
// with higher albedo at lower temperature.
func (m *Model) Albedo(t float64) float64 {
	p := m.params
	return p.AlphaWater + (p.AlphaIce-p.AlphaWater)*0.5*(1-math.Tanh((t-p.TFreeze)/p.TransitionWidth))
}

// Greenhouse returns the effective emissivity at temperature t (K):
// a weak linear increase above the freezing point, clipped into
// [EpsilonMin, EpsilonMax]. The clip rarely binds in the planetary
// range but guards runaway trajectories.
func (m *Model) Greenhouse(t float64) float64 {
	p := m.params
	eps := p.EpsilonBase + p.EpsilonSensitivity*(t-p.TFreeze)
	if eps < p.EpsilonMin {
		return p.EpsilonMin
	}
	if eps > p.EpsilonMax {
		return p.EpsilonMax
	}
	return eps
}

// Balance returns the net radiative flux (W m^-2) at temperature t for
// the given solar multiplier. Positive means warming, negative
// cooling; zeros are equilibria.
func (m *Model) Balance(t, solarMultiplier float64) float64 {
	p := m.params
	s := p.SolarConstant * solarMultiplier
	energyIn := (1 - m.Albedo(t)) * s / 4
	energyOut := m.Greenhouse(t) * p.StefanBoltzmann * t * t * t * t
	return energyIn - energyOut
}

// GetParams exposes the tunable parameters by name.
func (m *Model) GetParams() map[string]float64 {
	p := m.params
	return map[string]float64{
		"solar_constant":      p.SolarConstant,
		"alpha_water":         p.AlphaWater,
		"alpha_ice":           p.AlphaIce,
		"t_freeze":            p.TFreeze,
		"transition_width":    p.TransitionWidth,
		"epsilon_base":        p.EpsilonBase,
		"epsilon_sensitivity": p.EpsilonSensitivity,
	}
}

func (m *Model) SetParam(name string, v float64) error {
	switch name {
	case "solar_constant":
		m.params.SolarConstant = v
	case "alpha_water":
		m.params.AlphaWater = v
	case "alpha_ice":
		m.params.AlphaIce = v
	case "t_freeze":
		m.params.TFreeze = v
	case "transition_width":
		m.params.TransitionWidth = v
	case "epsilon_base":
		m.params.EpsilonBase = v
	case "epsilon_sensitivity":
		m.params.EpsilonSensitivity = v
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
