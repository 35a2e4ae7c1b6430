package compute

import (
	"runtime"
	"sync"
)

// serialCutoff is the series length below which goroutine fan-out
// costs more than it saves.
const serialCutoff = 256

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{workers: runtime.NumCPU()}
}

func (c *CPUBackend) Name() string { return "cpu" }

func (c *CPUBackend) Map(xs []float64, f func(float64) float64) []float64 {
	n := len(xs)
	out := make([]float64, n)

	if n < serialCutoff || c.workers < 2 {
		for i, x := range xs {
			out[i] = f(x)
		}
		return out
	}

	var wg sync.WaitGroup
	chunkSize := (n + c.workers - 1) / c.workers

	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			start := worker * chunkSize
			end := start + chunkSize
			if end > n {
				end = n
			}

			for i := start; i < end; i++ {
				out[i] = f(xs[i])
			}
		}(w)
	}

	wg.Wait()
	return out
}
