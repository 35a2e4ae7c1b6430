package sweep

import (
	"fmt"

	"github.com/san-kum/snowball/internal/climate"
	"github.com/san-kum/snowball/internal/solver"
)

// Threshold describes the frozen/warm transition found in a sweep.
type Threshold struct {
	// Critical is the lowest swept multiplier whose chosen
	// equilibrium is below freezing (the reported Snowball onset).
	Critical float64
	// FrozenBelow and WarmAbove bracket the transition: the highest
	// frozen multiplier and the lowest warm one above it.
	FrozenBelow float64
	WarmAbove   float64
}

// FindThreshold scans sweep points for the transition bracket.
func FindThreshold(points []Point, tFreeze float64) (Threshold, bool) {
	critical, ok := CriticalMultiplier(points, tFreeze)
	if !ok {
		return Threshold{}, false
	}

	th := Threshold{Critical: critical, FrozenBelow: critical}
	for _, pt := range points {
		if !pt.Valid {
			continue
		}
		if pt.Temperature < tFreeze {
			th.FrozenBelow = pt.Multiplier
		} else if pt.Multiplier > th.FrozenBelow && th.WarmAbove == 0 {
			th.WarmAbove = pt.Multiplier
		}
	}
	if th.WarmAbove == 0 {
		// Everything swept is frozen; no bracket to refine.
		th.WarmAbove = th.FrozenBelow
	}
	return th, true
}

// RefineThreshold bisects the transition bracket: the multiplier at
// which a warm-seeded solve first stays above freezing. Points outside
// a frozen/warm bracket refine nothing and are returned as-is.
func RefineThreshold(m *climate.Model, s *solver.Solver, th Threshold, warmSeed float64, iterations int) (Threshold, error) {
	if iterations <= 0 {
		return th, fmt.Errorf("refinement iterations must be positive, got %d", iterations)
	}
	if th.WarmAbove <= th.FrozenBelow {
		return th, nil
	}

	tFreeze := m.Params().TFreeze
	lo, hi := th.FrozenBelow, th.WarmAbove

	for i := 0; i < iterations; i++ {
		mid := (lo + hi) / 2
		res, err := s.Solve(m, warmSeed, mid)
		if err != nil {
			return th, err
		}
		if res.Converged && res.Temperature >= tFreeze {
			hi = mid
		} else {
			lo = mid
		}
	}

	th.FrozenBelow = lo
	th.WarmAbove = hi
	return th, nil
}
