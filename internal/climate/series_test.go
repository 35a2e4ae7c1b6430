package climate

import (
	"math"
	"testing"
)

func TestLinspace(t *testing.T) {
	s := Linspace(200, 320, 200)

	if len(s) != 200 {
		t.Fatalf("expected 200 samples, got %d", len(s))
	}
	if s[0] != 200 || math.Abs(s[len(s)-1]-320) > 1e-9 {
		t.Errorf("endpoints = %f, %f, want 200, 320", s[0], s[len(s)-1])
	}
}

func TestSeriesMatchesScalar(t *testing.T) {
	m := NewDefault()
	temps := Linspace(150, 400, 1000)

	albedos := m.AlbedoSeries(temps)
	epsilons := m.GreenhouseSeries(temps)
	balances := m.BalanceSeries(temps, 0.95)

	for i, temp := range temps {
		if albedos[i] != m.Albedo(temp) {
			t.Fatalf("albedo series diverges from scalar at %f K", temp)
		}
		if epsilons[i] != m.Greenhouse(temp) {
			t.Fatalf("greenhouse series diverges from scalar at %f K", temp)
		}
		if balances[i] != m.Balance(temp, 0.95) {
			t.Fatalf("balance series diverges from scalar at %f K", temp)
		}
	}
}

func TestSeriesIsValid(t *testing.T) {
	if !(Series{1, 2, 3}).IsValid() {
		t.Error("finite series reported invalid")
	}
	if (Series{1, math.NaN()}).IsValid() {
		t.Error("NaN series reported valid")
	}
	if (Series{math.Inf(1)}).IsValid() {
		t.Error("Inf series reported valid")
	}
}

func TestSeriesClone(t *testing.T) {
	s := Series{1, 2}
	c := s.Clone()
	c[0] = 9
	if s[0] != 1 {
		t.Error("clone aliases original storage")
	}
}
