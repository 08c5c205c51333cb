package filter

import (
	"fmt"
	"time"

	"github.com/rustyeddy/orb/indicators"
	"github.com/rustyeddy/orb/session"
)

// PreRangeATR is the ATR(Period), in ticks, of the bars in the Lookback
// before the range open. It is undefined until the window holds Period+1
// bars, and passes on the same MinTicks/MaxTicks rule as PreRangeWidth.
type PreRangeATR struct {
	Period   int
	Lookback time.Duration
	MinTicks float64
	MaxTicks float64
	Offset   time.Duration
}

func (PreRangeATR) sealed() {}
func (PreRangeATR) Kind() Kind { return KindPreRangeATR }
func (p PreRangeATR) Name() string {
	return fmt.Sprintf("pre_range_atr(%d,%s)", p.Period, p.Lookback)
}

func (p PreRangeATR) Span(sess session.Config, day session.Day) (time.Time, time.Time) {
	end := sess.Window(day).Open.Add(p.Offset)
	return end.Add(-p.Lookback), end
}

func (p PreRangeATR) Compute(in Input) Feature {
	start, end := p.Span(in.Session, in.Day)
	f := Feature{Name: p.Name(), Kind: p.Kind(), Start: start, End: end}

	bs := in.Bars.Between(start, end)
	v, ok := indicators.Run(indicators.NewATR(p.Period), bs)
	if !ok || in.TickSize <= 0 {
		return f
	}
	consume(&f, bs)

	f.Value = v / in.TickSize
	f.Pass = f.Value >= p.MinTicks && (p.MaxTicks <= 0 || f.Value <= p.MaxTicks)
	return f
}
