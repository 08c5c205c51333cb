// Package filter computes the conditioning features that decide whether a
// day's setup is simulated at all. Every feature carries the window it was
// computed over so the temporal guard can check it mechanically.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/session"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindPreRangeWidth
	KindPriorSessionSweep
	KindPreRangeATR
	KindPreRangeTrend
)

func (k Kind) String() string {
	switch k {
	case KindPreRangeWidth:
		return "pre_range_width"
	case KindPriorSessionSweep:
		return "prior_session_sweep"
	case KindPreRangeATR:
		return "pre_range_atr"
	case KindPreRangeTrend:
		return "pre_range_trend"
	default:
		return ""
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pre_range_width":
		return KindPreRangeWidth, nil
	case "prior_session_sweep":
		return KindPriorSessionSweep, nil
	case "pre_range_atr":
		return KindPreRangeATR, nil
	case "pre_range_trend":
		return KindPreRangeTrend, nil
	default:
		return KindUnknown, fmt.Errorf("unknown filter kind %q (supported: pre_range_width, prior_session_sweep, pre_range_atr, pre_range_trend)", s)
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return fmt.Errorf("kind: %w", err)
	}
	*k = v
	return nil
}

// Input is everything a filter may look at for one trading day.
type Input struct {
	Bars     market.Bars // ascending; may include bars after the range open
	Session  session.Config
	Day      session.Day
	TickSize float64
}

// Filter is the closed set of supported conditioning features.
type Filter interface {
	Name() string
	Kind() Kind
	// Span is the [start, end) window the feature reads.
	Span(sess session.Config, day session.Day) (start, end time.Time)
	Compute(in Input) Feature

	sealed()
}

// Feature is one computed conditioning value.
type Feature struct {
	Name  string
	Kind  Kind
	Start time.Time // window start, inclusive
	End   time.Time // window end, exclusive

	Bars       int       // bars consumed
	MaxBarTime time.Time // latest bar consumed; zero when Bars == 0

	Value float64
	Pass  bool
}

// Defined reports whether the feature saw any data.
func (f Feature) Defined() bool {
	return f.Bars > 0
}

func consume(f *Feature, bs market.Bars) {
	f.Bars += len(bs)
	if len(bs) > 0 && bs[len(bs)-1].Time.After(f.MaxBarTime) {
		f.MaxBarTime = bs[len(bs)-1].Time
	}
}
