package filter

import (
	"fmt"
	"time"

	"github.com/rustyeddy/orb/session"
)

// PreRangeWidth measures the high-low width, in ticks, of the Lookback
// before the range open. It passes when MinTicks <= width and, if MaxTicks
// is set, width <= MaxTicks.
type PreRangeWidth struct {
	Lookback time.Duration
	MinTicks float64
	MaxTicks float64

	// Offset moves the window end relative to the range open. Anything
	// positive reaches past the open and is rejected by the guard.
	Offset time.Duration
}

func (PreRangeWidth) sealed() {}
func (PreRangeWidth) Kind() Kind { return KindPreRangeWidth }
func (p PreRangeWidth) Name() string {
	return fmt.Sprintf("pre_range_width(%s)", p.Lookback)
}

func (p PreRangeWidth) Span(sess session.Config, day session.Day) (time.Time, time.Time) {
	end := sess.Window(day).Open.Add(p.Offset)
	return end.Add(-p.Lookback), end
}

func (p PreRangeWidth) Compute(in Input) Feature {
	start, end := p.Span(in.Session, in.Day)
	f := Feature{Name: p.Name(), Kind: p.Kind(), Start: start, End: end}

	bs := in.Bars.Between(start, end)
	consume(&f, bs)
	high, low, ok := bs.Extremes()
	if !ok || in.TickSize <= 0 {
		return f
	}

	f.Value = (high - low) / in.TickSize
	f.Pass = f.Value >= p.MinTicks && (p.MaxTicks <= 0 || f.Value <= p.MaxTicks)
	return f
}
