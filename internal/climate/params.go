package climate

// Params holds the physical constants and feedback parameters of the
// energy balance model. Values are bound at model construction so that
// several configurations can run side by side.
type Params struct {
	SolarConstant   float64 // W m^-2
	StefanBoltzmann float64 // W m^-2 K^-4

	AlphaWater      float64 // open-water albedo
	AlphaIce        float64 // ice albedo
	TFreeze         float64 // K, center of the ice transition
	TransitionWidth float64 // K, width of the tanh blend

	EpsilonBase        float64 // emissivity at the freezing point
	EpsilonSensitivity float64 // per Kelvin
	EpsilonMin         float64
	EpsilonMax         float64

	TMin float64 // K, hard lower bound on any temperature
	TMax float64 // K, hard upper bound
}

// DefaultParams returns the reference Earth parameterization.
func DefaultParams() Params {
	return Params{
		SolarConstant:      1365,
		StefanBoltzmann:    5.67e-8,
		AlphaWater:         0.3,
		AlphaIce:           0.6,
		TFreeze:            273.15,
		TransitionWidth:    10,
		EpsilonBase:        0.61,
		EpsilonSensitivity: 0.0001,
		EpsilonMin:         0.5,
		EpsilonMax:         0.8,
		TMin:               150,
		TMax:               400,
	}
}

// ClampTemperature forces t into the physically meaningful range.
func (p Params) ClampTemperature(t float64) float64 {
	if t < p.TMin {
		return p.TMin
	}
	if t > p.TMax {
		return p.TMax
	}
	return t
}
