package tracer

import (
	"fmt"
	"runtime"
)

// Config controls one photon tracing pass
type Config struct {
	PhotonsPerPass       int   // Photons emitted per pass across all lights
	MaxDepth             int   // Maximum bounce count a stored photon may have
	NumWorkers           int   // Number of parallel workers (0 = use CPU count)
	Seed                 int64 // Base seed; worker i uses Seed + i
	RussianRouletteDepth int   // Bounce after which paths are terminated probabilistically
	BatchSize            int   // Photons buffered per worker before handing off to the index
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		PhotonsPerPass:       100000,
		MaxDepth:             8,
		NumWorkers:           0, // Auto-detect CPU count
		Seed:                 1,
		RussianRouletteDepth: 3,
		BatchSize:            1024,
	}
}

// Validate rejects configurations that cannot trace
func (c Config) Validate() error {
	if c.PhotonsPerPass < 0 {
		return fmt.Errorf("photons per pass must be non-negative, got %d", c.PhotonsPerPass)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must be non-negative, got %d", c.MaxDepth)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("worker count must be non-negative, got %d", c.NumWorkers)
	}
	return nil
}

// workers resolves the worker count for n photons
func (c Config) workers(n int) int {
	workers := c.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	return max(workers, 1)
}

func (c Config) batchSize() int {
	if c.BatchSize <= 0 {
		return DefaultConfig().BatchSize
	}
	return c.BatchSize
}
