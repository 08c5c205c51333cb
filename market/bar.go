package market

import (
	"sort"
	"time"
)

// Bar is one OHLCV bar. Time is the bar's open instant in UTC.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Direction of a breakout or trade.
type Direction int8

const (
	Up   Direction = +1
	Down Direction = -1
)

// Sign returns +1 for Up and -1 for Down.
func (d Direction) Sign() float64 {
	return float64(d)
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	default:
		return "NONE"
	}
}

// Bars is an ascending, instrument-filtered bar sequence.
type Bars []Bar

// Between returns the sub-slice with from <= Time < to. The receiver must be
// sorted ascending; no copy is made.
func (bs Bars) Between(from, to time.Time) Bars {
	lo := sort.Search(len(bs), func(i int) bool { return !bs[i].Time.Before(from) })
	hi := sort.Search(len(bs), func(i int) bool { return !bs[i].Time.Before(to) })
	if hi < lo {
		hi = lo
	}
	return bs[lo:hi]
}

// IndexFrom returns the index of the first bar with Time >= t, or len(bs).
func (bs Bars) IndexFrom(t time.Time) int {
	return sort.Search(len(bs), func(i int) bool { return !bs[i].Time.Before(t) })
}

// Sorted reports whether the bars are strictly ascending by time.
func (bs Bars) Sorted() bool {
	for i := 1; i < len(bs); i++ {
		if !bs[i-1].Time.Before(bs[i].Time) {
			return false
		}
	}
	return true
}

// Normalize returns a copy of bs sorted ascending by time with duplicate
// timestamps removed. The first occurrence of a timestamp wins.
func (bs Bars) Normalize() Bars {
	out := make(Bars, len(bs))
	copy(out, bs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	if len(out) < 2 {
		return out
	}
	kept := out[:1]
	for _, b := range out[1:] {
		if b.Time.Equal(kept[len(kept)-1].Time) {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

// Extremes returns the highest high and lowest low. ok is false for an
// empty slice.
func (bs Bars) Extremes() (high, low float64, ok bool) {
	if len(bs) == 0 {
		return 0, 0, false
	}
	high, low = bs[0].High, bs[0].Low
	for _, b := range bs[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, true
}
