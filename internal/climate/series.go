package climate

import (
	"math"

	"github.com/san-kum/snowball/internal/compute"
)

// Series is an ordered sequence of values, used both for temperature
// inputs and for the element-wise results of the feedback and balance
// functions.
type Series []float64

func (s Series) Clone() Series {
	c := make(Series, len(s))
	copy(c, s)
	return c
}

func (s Series) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) Series {
	if n <= 1 {
		return Series{lo}
	}
	s := make(Series, n)
	step := (hi - lo) / float64(n-1)
	for i := range s {
		s[i] = lo + float64(i)*step
	}
	return s
}

// AlbedoSeries applies Albedo to every temperature in temps.
func (m *Model) AlbedoSeries(temps Series) Series {
	return compute.GetBackend().Map(temps, m.Albedo)
}

// GreenhouseSeries applies Greenhouse to every temperature in temps.
func (m *Model) GreenhouseSeries(temps Series) Series {
	return compute.GetBackend().Map(temps, m.Greenhouse)
}

// BalanceSeries applies Balance to every temperature in temps at a
// fixed solar multiplier. Callers scan the result for sign changes to
// locate all equilibria, not just one.
func (m *Model) BalanceSeries(temps Series, solarMultiplier float64) Series {
	return compute.GetBackend().Map(temps, func(t float64) float64 {
		return m.Balance(t, solarMultiplier)
	})
}
