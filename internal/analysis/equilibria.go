// Package analysis locates and classifies the equilibria of an energy
// balance model by scanning a balance curve for sign changes.
package analysis

import (
	"fmt"

	"github.com/san-kum/snowball/internal/climate"
)

const (
	// Reference exploration range for the balance curve.
	DefaultTMin    = 200.0
	DefaultTMax    = 320.0
	DefaultSamples = 200
)

// Curve is a sampled balance-vs-temperature relation at a fixed solar
// multiplier.
type Curve struct {
	SolarMultiplier float64
	Temperatures    climate.Series
	Balances        climate.Series
}

// BalanceCurve samples the model across [tMin, tMax] with n points.
func BalanceCurve(m *climate.Model, solarMultiplier, tMin, tMax float64, n int) (*Curve, error) {
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", n)
	}
	if tMax <= tMin {
		return nil, fmt.Errorf("invalid temperature range [%f, %f]", tMin, tMax)
	}

	temps := climate.Linspace(tMin, tMax, n)
	return &Curve{
		SolarMultiplier: solarMultiplier,
		Temperatures:    temps,
		Balances:        m.BalanceSeries(temps, solarMultiplier),
	}, nil
}

// Equilibrium is a zero-crossing of the balance curve. Stable means
// the balance falls through zero: a small warming cools back, a small
// cooling warms back.
type Equilibrium struct {
	Temperature float64
	Stable      bool
}

// Equilibria returns every zero-crossing of the curve in temperature
// order, interpolating linearly between the bracketing samples. An
// exact zero at a sample is attributed to the preceding interval and
// counted once.
func (c *Curve) Equilibria() []Equilibrium {
	var eqs []Equilibrium

	for i := 1; i < len(c.Balances); i++ {
		b0, b1 := c.Balances[i-1], c.Balances[i]
		if !signChange(b0, b1) {
			continue
		}

		t0, t1 := c.Temperatures[i-1], c.Temperatures[i]
		frac := b0 / (b0 - b1)
		eqs = append(eqs, Equilibrium{
			Temperature: t0 + frac*(t1-t0),
			Stable:      b0 > b1,
		})
	}
	return eqs
}

func signChange(a, b float64) bool {
	return (a > 0 && b <= 0) || (a < 0 && b >= 0)
}
