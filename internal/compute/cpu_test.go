package compute

import (
	"math"
	"testing"
)

func TestCPUMapSerial(t *testing.T) {
	b := NewCPUBackend()

	xs := []float64{1, 2, 3, 4}
	out := b.Map(xs, func(x float64) float64 { return x * x })

	want := []float64{1, 4, 9, 16}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %f, want %f", i, out[i], want[i])
		}
	}
}

func TestCPUMapParallelMatchesSerial(t *testing.T) {
	b := NewCPUBackend()

	xs := make([]float64, 4096)
	for i := range xs {
		xs[i] = float64(i) * 0.1
	}

	f := func(x float64) float64 { return math.Sin(x) + x*0.5 }

	out := b.Map(xs, f)
	if len(out) != len(xs) {
		t.Fatalf("expected %d results, got %d", len(xs), len(out))
	}

	for i, x := range xs {
		if out[i] != f(x) {
			t.Fatalf("out[%d] = %f, want %f", i, out[i], f(x))
		}
	}
}

func TestCPUMapEmpty(t *testing.T) {
	b := NewCPUBackend()
	out := b.Map(nil, func(x float64) float64 { return x })
	if len(out) != 0 {
		t.Errorf("expected empty result, got %d elements", len(out))
	}
}
