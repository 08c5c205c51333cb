// Package session maps trading-day labels to UTC instants. Range building,
// breakout scanning, exits and feature windows all derive their bounds from
// Config.Window so they agree on which calendar date an anchor belongs to.
package session

import (
	"fmt"
	"time"
)

// Config describes the daily opening-range schedule of one venue.
type Config struct {
	Location *time.Location
	Anchor   Clock
	Duration time.Duration

	// AnchorDayOffset shifts the anchor's calendar date relative to the
	// trading-day label: 1 puts a 00:30 anchor on the day after the label.
	AnchorDayOffset int

	// ScanEnd bounds breakout detection: first occurrence strictly after
	// the range close.
	ScanEnd Clock

	// ExitEnd bounds the outcome simulation the same way. Nil means ScanEnd.
	ExitEnd *Clock
}

// Window is the resolved set of instants for one trading day.
type Window struct {
	Day     Day
	Open    time.Time // range open, inclusive
	Close   time.Time // range close, exclusive
	ScanEnd time.Time // breakout scan bound, exclusive
	ExitEnd time.Time // simulation bound, exclusive
}

func (c Config) Validate() error {
	if c.Location == nil {
		return fmt.Errorf("session.timezone is required")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("session.duration_minutes must be positive")
	}
	if c.Duration >= 24*time.Hour {
		return fmt.Errorf("session.duration_minutes must be less than a day")
	}

	// An end clock equal to the range close resolves a full day later and
	// would scan the next session's range.
	closeAt := (c.Anchor.sinceMidnight() + c.Duration) % (24 * time.Hour)
	if c.ScanEnd.sinceMidnight() == closeAt {
		return fmt.Errorf("session.scan_end %s equals the range close; it must be later in the session", c.ScanEnd)
	}
	if c.ExitEnd != nil && c.ExitEnd.sinceMidnight() == closeAt {
		return fmt.Errorf("session.exit_end %s equals the range close; it must be later in the session", *c.ExitEnd)
	}
	return nil
}

// Window resolves day into UTC instants. It is the only place that turns
// a trading-day label into a time range.
func (c Config) Window(day Day) Window {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}

	open := c.Anchor.On(day.AddDays(c.AnchorDayOffset), loc)
	closeAt := open.Add(c.Duration)

	scanEnd := c.ScanEnd.Next(closeAt, loc)
	exitEnd := scanEnd
	if c.ExitEnd != nil {
		exitEnd = c.ExitEnd.Next(closeAt, loc)
	}

	return Window{
		Day:     day,
		Open:    open.UTC(),
		Close:   closeAt.UTC(),
		ScanEnd: scanEnd.UTC(),
		ExitEnd: exitEnd.UTC(),
	}
}

// Local returns the instant of clock c on the anchor's calendar date, or the
// calendar date before it when c is later in the day than the anchor. Used
// for feature windows that precede the range open.
func (c Config) Local(day Day, at Clock) time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	anchorDay := day.AddDays(c.AnchorDayOffset)
	t := at.On(anchorDay, loc)
	if t.After(c.Anchor.On(anchorDay, loc)) {
		t = at.On(anchorDay.AddDays(-1), loc)
	}
	return t.UTC()
}

// Span resolves a [start, end) clock window for day: start via Local, end at
// the first occurrence of the end clock strictly after start. An end clock
// past the anchor therefore lands after the range open.
func (c Config) Span(day Day, start, end Clock) (time.Time, time.Time) {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	from := c.Local(day, start)
	return from, end.Next(from, loc).UTC()
}
