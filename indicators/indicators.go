// Package indicators provides technical analysis indicators over bars.
package indicators

import "github.com/rustyeddy/orb/market"

// Indicator computes a single streaming value from bars.
// It is deterministic and only ever sees bars it was handed.
type Indicator interface {
	// Name returns a stable identifier like "ATR(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next closed bar and updates internal state.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current value, or 0 before Ready.
	Value() float64
}

// Run feeds bs through ind after a Reset and returns the final value.
// ok is false when the bars did not cover the warmup.
func Run(ind Indicator, bs market.Bars) (v float64, ok bool) {
	ind.Reset()
	for _, b := range bs {
		ind.Update(b)
	}
	return ind.Value(), ind.Ready()
}
