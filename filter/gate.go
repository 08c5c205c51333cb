package filter

import (
	"time"

	"github.com/rustyeddy/orb/guard"
	"github.com/rustyeddy/orb/session"
)

// Decision is the combined verdict of every filter for one day.
type Decision struct {
	Pass     bool
	Features []Feature
	Blocked  string // name of the first feature that failed, if any
}

// Gate computes every filter and runs each through the temporal guard
// before any of them may block the day. A *guard.TemporalViolation is
// returned as soon as one feature's window or data reaches the range open.
// A feature with no data blocks the day.
func Gate(filters []Filter, in Input) (Decision, error) {
	open := in.Session.Window(in.Day).Open
	d := Decision{Pass: true}

	for _, flt := range filters {
		f := flt.Compute(in)
		if err := guard.CheckWindow(f.Name, f.Start, f.End, open); err != nil {
			return Decision{}, err
		}
		if f.Defined() {
			if err := guard.AssertNoLookahead(f.Name, f.MaxBarTime, open); err != nil {
				return Decision{}, err
			}
		}
		d.Features = append(d.Features, f)
		if d.Pass && (!f.Defined() || !f.Pass) {
			d.Pass = false
			d.Blocked = f.Name
		}
	}
	return d, nil
}

// Earliest returns the earliest window start across filters for day, or
// the range open when there are none. Bar loading starts here.
func Earliest(filters []Filter, sess session.Config, day session.Day) time.Time {
	earliest := sess.Window(day).Open
	for _, flt := range filters {
		if start, _ := flt.Span(sess, day); start.Before(earliest) {
			earliest = start
		}
	}
	return earliest
}
