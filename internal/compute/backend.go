// Package compute provides the element-wise evaluation backend for
// temperature series. Every element is independent, so large series
// are mapped in parallel across worker goroutines.
package compute

// Backend applies a scalar function over a slice element-wise.
type Backend interface {
	Name() string
	Map(xs []float64, f func(float64) float64) []float64
}

var activeBackend Backend = NewCPUBackend()

func SetBackend(b Backend) { activeBackend = b }

func GetBackend() Backend { return activeBackend }
