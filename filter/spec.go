package filter

import (
	"fmt"
	"time"

	"github.com/rustyeddy/orb/session"
)

// Spec is the configuration form of a filter.
type Spec struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// pre_range_width, pre_range_atr, pre_range_trend
	Period          int     `json:"period,omitempty" yaml:"period,omitempty"`
	EMA             bool    `json:"ema,omitempty" yaml:"ema,omitempty"`
	LookbackMinutes int     `json:"lookback_minutes,omitempty" yaml:"lookback_minutes,omitempty"`
	MinTicks        float64 `json:"min_ticks,omitempty" yaml:"min_ticks,omitempty"`
	MaxTicks        float64 `json:"max_ticks,omitempty" yaml:"max_ticks,omitempty"`
	OffsetMinutes   int     `json:"offset_minutes,omitempty" yaml:"offset_minutes,omitempty"`

	// prior_session_sweep
	SessionStart string `json:"session_start,omitempty" yaml:"session_start,omitempty"`
	SessionEnd   string `json:"session_end,omitempty" yaml:"session_end,omitempty"`
	Side         Side   `json:"side,omitempty" yaml:"side,omitempty"`
}

// Build turns s into its Filter. prefix names the config path for errors.
func (s Spec) Build(prefix string) (Filter, error) {
	switch s.Kind {
	case KindPreRangeWidth:
		if s.LookbackMinutes <= 0 {
			return nil, fmt.Errorf("%s.lookback_minutes must be positive", prefix)
		}
		if s.MinTicks < 0 || s.MaxTicks < 0 {
			return nil, fmt.Errorf("%s.min_ticks/max_ticks must not be negative", prefix)
		}
		if s.MaxTicks > 0 && s.MaxTicks < s.MinTicks {
			return nil, fmt.Errorf("%s.max_ticks must be >= min_ticks", prefix)
		}
		return PreRangeWidth{
			Lookback: time.Duration(s.LookbackMinutes) * time.Minute,
			MinTicks: s.MinTicks,
			MaxTicks: s.MaxTicks,
			Offset:   time.Duration(s.OffsetMinutes) * time.Minute,
		}, nil

	case KindPreRangeATR:
		if s.Period <= 0 {
			return nil, fmt.Errorf("%s.period must be positive", prefix)
		}
		if s.LookbackMinutes <= 0 {
			return nil, fmt.Errorf("%s.lookback_minutes must be positive", prefix)
		}
		if s.MinTicks < 0 || s.MaxTicks < 0 {
			return nil, fmt.Errorf("%s.min_ticks/max_ticks must not be negative", prefix)
		}
		if s.MaxTicks > 0 && s.MaxTicks < s.MinTicks {
			return nil, fmt.Errorf("%s.max_ticks must be >= min_ticks", prefix)
		}
		return PreRangeATR{
			Period:   s.Period,
			Lookback: time.Duration(s.LookbackMinutes) * time.Minute,
			MinTicks: s.MinTicks,
			MaxTicks: s.MaxTicks,
			Offset:   time.Duration(s.OffsetMinutes) * time.Minute,
		}, nil

	case KindPreRangeTrend:
		if s.Period <= 0 {
			return nil, fmt.Errorf("%s.period must be positive", prefix)
		}
		if s.LookbackMinutes <= 0 {
			return nil, fmt.Errorf("%s.lookback_minutes must be positive", prefix)
		}
		if s.MinTicks < 0 || s.MaxTicks < 0 {
			return nil, fmt.Errorf("%s.min_ticks/max_ticks must not be negative", prefix)
		}
		if s.MaxTicks > 0 && s.MaxTicks < s.MinTicks {
			return nil, fmt.Errorf("%s.max_ticks must be >= min_ticks", prefix)
		}
		return PreRangeTrend{
			Period:   s.Period,
			Lookback: time.Duration(s.LookbackMinutes) * time.Minute,
			MinTicks: s.MinTicks,
			MaxTicks: s.MaxTicks,
			Offset:   time.Duration(s.OffsetMinutes) * time.Minute,
			EMA:      s.EMA,
		}, nil

	case KindPriorSessionSweep:
		start, err := session.ParseClock(s.SessionStart)
		if err != nil {
			return nil, fmt.Errorf("%s.session_start: %w", prefix, err)
		}
		end, err := session.ParseClock(s.SessionEnd)
		if err != nil {
			return nil, fmt.Errorf("%s.session_end: %w", prefix, err)
		}
		return PriorSessionSweep{Start: start, End: end, Side: s.Side}, nil

	default:
		return nil, fmt.Errorf("%s.kind is required", prefix)
	}
}

// BuildAll builds every spec, naming the failing index.
func BuildAll(specs []Spec) ([]Filter, error) {
	out := make([]Filter, 0, len(specs))
	for i, s := range specs {
		f, err := s.Build(fmt.Sprintf("filters[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
