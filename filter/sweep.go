package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/orb/session"
)

type Side int

const (
	SideEither Side = iota
	SideHigh
	SideLow
)

func (s Side) String() string {
	switch s {
	case SideHigh:
		return "high"
	case SideLow:
		return "low"
	default:
		return "either"
	}
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "either":
		return SideEither, nil
	case "high":
		return SideHigh, nil
	case "low":
		return SideLow, nil
	default:
		return SideEither, fmt.Errorf("unknown sweep side %q (supported: high, low, either)", s)
	}
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return fmt.Errorf("side: %w", err)
	}
	*s = v
	return nil
}

// PriorSessionSweep takes the high/low of an earlier session (e.g. London)
// and asks whether the bars between that session's end and the range open
// traded beyond it. Value is 1 for a high sweep, -1 for a low sweep, 2 for
// both, 0 for neither.
type PriorSessionSweep struct {
	Start session.Clock
	End   session.Clock
	Side  Side
}

func (PriorSessionSweep) sealed() {}
func (PriorSessionSweep) Kind() Kind { return KindPriorSessionSweep }
func (p PriorSessionSweep) Name() string {
	return fmt.Sprintf("prior_session_sweep(%s-%s,%s)", p.Start, p.End, p.Side)
}

// Span covers the session and the gap up to the range open. A session end
// configured past the open stretches the span past it too.
func (p PriorSessionSweep) Span(sess session.Config, day session.Day) (time.Time, time.Time) {
	from, sessEnd := sess.Span(day, p.Start, p.End)
	end := sess.Window(day).Open
	if sessEnd.After(end) {
		end = sessEnd
	}
	return from, end
}

func (p PriorSessionSweep) Compute(in Input) Feature {
	from, sessEnd := in.Session.Span(in.Day, p.Start, p.End)
	_, end := p.Span(in.Session, in.Day)
	f := Feature{Name: p.Name(), Kind: p.Kind(), Start: from, End: end}

	sessBars := in.Bars.Between(from, sessEnd)
	consume(&f, sessBars)
	high, low, ok := sessBars.Extremes()
	if !ok {
		return f
	}

	after := in.Bars.Between(sessEnd, end)
	consume(&f, after)

	var sweptHigh, sweptLow bool
	for _, b := range after {
		if b.High > high {
			sweptHigh = true
		}
		if b.Low < low {
			sweptLow = true
		}
	}

	switch {
	case sweptHigh && sweptLow:
		f.Value = 2
	case sweptHigh:
		f.Value = 1
	case sweptLow:
		f.Value = -1
	}

	switch p.Side {
	case SideHigh:
		f.Pass = sweptHigh
	case SideLow:
		f.Pass = sweptLow
	default:
		f.Pass = sweptHigh || sweptLow
	}
	return f
}
