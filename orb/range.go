// Package orb builds opening ranges and detects breakouts from them.
package orb

import (
	"time"

	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/session"
)

// OpeningRange is the high/low of the bars inside one day's anchor window.
// It is only created when the window holds at least one bar.
type OpeningRange struct {
	Day        session.Day
	Instrument string
	Anchor     session.Clock
	Duration   time.Duration

	Open  time.Time // window open (inclusive)
	Close time.Time // window close (exclusive)

	High float64
	Low  float64

	Bars        int       // bars inside the window
	LastBarTime time.Time // open time of the last bar inside the window
}

// Degenerate reports a zero-width range.
func (r OpeningRange) Degenerate() bool {
	return r.High == r.Low
}

// Width is High - Low.
func (r OpeningRange) Width() float64 {
	return r.High - r.Low
}

// Mid is the range midpoint.
func (r OpeningRange) Mid() float64 {
	return (r.High + r.Low) / 2
}

// Edge returns the boundary a breakout in dir crosses.
func (r OpeningRange) Edge(dir market.Direction) float64 {
	if dir == market.Down {
		return r.Low
	}
	return r.High
}

// BuildRange computes the range over bars with w.Open <= Time < w.Close.
// bars must be filtered to one instrument and sorted ascending; they are
// neither sorted nor deduplicated here. ok is false when the window holds no
// bars (holidays, data gaps); that is an expected condition.
func BuildRange(bars market.Bars, w session.Window) (r OpeningRange, ok bool) {
	in := bars.Between(w.Open, w.Close)
	high, low, ok := in.Extremes()
	if !ok {
		return OpeningRange{}, false
	}

	return OpeningRange{
		Day:         w.Day,
		Open:        w.Open,
		Close:       w.Close,
		Duration:    w.Close.Sub(w.Open),
		High:        high,
		Low:         low,
		Bars:        len(in),
		LastBarTime: in[len(in)-1].Time,
	}, true
}

// BuildRangeForDay resolves the window for day through sess, replacing its
// anchor and duration, and builds the range for instrument.
func BuildRangeForDay(bars market.Bars, instrument string, day session.Day, anchor session.Clock, duration time.Duration, sess session.Config) (OpeningRange, bool) {
	sess.Anchor = anchor
	sess.Duration = duration

	r, ok := BuildRange(bars, sess.Window(day))
	if !ok {
		return OpeningRange{}, false
	}
	r.Instrument = instrument
	r.Anchor = anchor
	return r, true
}
