// Package catalog stands in for the external materials-catalog service
// that SPEC_FULL.md explicitly excludes re-specifying: the engine only
// ever consumes a resolved scalar n(λ) per gap. Client is a minimal,
// in-memory, pure-function lookup seeded with a handful of named glasses
// so example systems load standalone without a live service.
package catalog

import (
	"fmt"
	"sync"
)

// dispersionFormula is a Cauchy two-term approximation n(λ) = A + B/λ²,
// adequate for the core's scalar-index consumption (the real catalog
// service would use a full Sellmeier fit; that fidelity belongs there, not
// here).
type dispersionFormula struct {
	A, B float64
}

func (f dispersionFormula) indexAt(wavelengthMicrons float64) float64 {
	return f.A + f.B/(wavelengthMicrons*wavelengthMicrons)
}

// builtinGlasses seeds a handful of common optical glasses by catalog key,
// enough to load the canonical testdata fixtures without a live service.
var builtinGlasses = map[string]dispersionFormula{
	"N-BK7":  {A: 1.5046, B: 0.00420},
	"N-SF11": {A: 1.7447, B: 0.01340},
	"F2":     {A: 1.6034, B: 0.00919},
	"SF5":    {A: 1.6572, B: 0.01173},
	"LAK9":   {A: 1.6909, B: 0.00900},
	"BAK1":   {A: 1.5615, B: 0.00530},
	"SK16":   {A: 1.6127, B: 0.00524},
}

// Client is a read-only, memoized materials lookup. Build one with
// NewClient; the zero value has no glasses and no cache map.
type Client struct {
	mu      sync.Mutex
	cache   map[string]map[float64]float64
	glasses map[string]dispersionFormula
}

// NewClient returns a Client seeded with the built-in glass set.
func NewClient() *Client {
	return &Client{
		cache:   make(map[string]map[float64]float64),
		glasses: builtinGlasses,
	}
}

// IndexAt resolves n(λ) for the named catalog key, memoizing the result
// per (key, wavelength) pair. Returns an error the builder surfaces as
// model.MaterialUnknown when key isn't in the catalog.
func (c *Client) IndexAt(key string, wavelengthMicrons float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if byWavelength, ok := c.cache[key]; ok {
		if n, ok := byWavelength[wavelengthMicrons]; ok {
			return n, nil
		}
	} else {
		c.cache[key] = make(map[float64]float64)
	}

	formula, ok := c.glasses[key]
	if !ok {
		return 0, fmt.Errorf("unknown catalog material %q", key)
	}

	n := formula.indexAt(wavelengthMicrons)
	c.cache[key][wavelengthMicrons] = n
	return n, nil
}

// Known reports whether key names a seeded catalog entry.
func (c *Client) Known(key string) bool {
	_, ok := c.glasses[key]
	return ok
}
