package filter

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/orb/indicators"
	"github.com/rustyeddy/orb/session"
)

// PreRangeTrend is the distance, in ticks, of the last close before the
// range open from the moving average of the Period closes ending there.
// Value is signed: positive above the average. It passes when
// MinTicks <= |Value| and, if MaxTicks is set, |Value| <= MaxTicks.
type PreRangeTrend struct {
	Period   int
	Lookback time.Duration
	MinTicks float64
	MaxTicks float64
	Offset   time.Duration
	EMA      bool // exponential instead of simple average
}

func (PreRangeTrend) sealed() {}
func (PreRangeTrend) Kind() Kind { return KindPreRangeTrend }
func (p PreRangeTrend) Name() string {
	avg := "sma"
	if p.EMA {
		avg = "ema"
	}
	return fmt.Sprintf("pre_range_trend(%s%d,%s)", avg, p.Period, p.Lookback)
}

func (p PreRangeTrend) Span(sess session.Config, day session.Day) (time.Time, time.Time) {
	end := sess.Window(day).Open.Add(p.Offset)
	return end.Add(-p.Lookback), end
}

func (p PreRangeTrend) Compute(in Input) Feature {
	start, end := p.Span(in.Session, in.Day)
	f := Feature{Name: p.Name(), Kind: p.Kind(), Start: start, End: end}

	bs := in.Bars.Between(start, end)
	if in.TickSize <= 0 {
		return f
	}
	avg := indicators.MA
	if p.EMA {
		avg = indicators.EMA
	}
	v, err := avg(bs, p.Period)
	if err != nil {
		return f
	}
	consume(&f, bs)

	f.Value = (bs[len(bs)-1].Close - v) / in.TickSize
	dist := math.Abs(f.Value)
	f.Pass = dist >= p.MinTicks && (p.MaxTicks <= 0 || dist <= p.MaxTicks)
	return f
}
