package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func mustClock(t *testing.T, s string) Clock {
	t.Helper()
	c, err := ParseClock(s)
	require.NoError(t, err)
	return c
}

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestWindowRegularSession(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Location: newYork(t),
		Anchor:   mustClock(t, "09:30"),
		Duration: 15 * time.Minute,
		ScanEnd:  mustClock(t, "16:00"),
	}
	require.NoError(t, cfg.Validate())

	w := cfg.Window(Day{2024, time.March, 5})
	assert.Equal(t, utc(2024, 3, 5, 14, 30), w.Open)
	assert.Equal(t, utc(2024, 3, 5, 14, 45), w.Close)
	assert.Equal(t, utc(2024, 3, 5, 21, 0), w.ScanEnd)
	assert.Equal(t, w.ScanEnd, w.ExitEnd)
}

func TestWindowAcrossDST(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Location: newYork(t),
		Anchor:   mustClock(t, "09:30"),
		Duration: 30 * time.Minute,
		ScanEnd:  mustClock(t, "16:00"),
	}

	w := cfg.Window(Day{2024, time.March, 11})
	assert.Equal(t, utc(2024, 3, 11, 13, 30), w.Open)
	assert.Equal(t, utc(2024, 3, 11, 14, 0), w.Close)
}

func TestWindowScanEndNextDay(t *testing.T) {
	t.Parallel()

	exit := mustClock(t, "15:00")
	cfg := Config{
		Location: newYork(t),
		Anchor:   mustClock(t, "09:30"),
		Duration: 15 * time.Minute,
		ScanEnd:  mustClock(t, "02:00"),
		ExitEnd:  &exit,
	}

	w := cfg.Window(Day{2024, time.March, 5})
	assert.Equal(t, utc(2024, 3, 6, 7, 0), w.ScanEnd)
	assert.Equal(t, utc(2024, 3, 5, 20, 0), w.ExitEnd)
}

func TestWindowOvernightAnchor(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Location:        newYork(t),
		Anchor:          mustClock(t, "00:30"),
		Duration:        30 * time.Minute,
		AnchorDayOffset: 1,
		ScanEnd:         mustClock(t, "02:00"),
	}

	w := cfg.Window(Day{2024, time.March, 5})
	assert.Equal(t, Day{2024, time.March, 5}, w.Day)
	assert.Equal(t, utc(2024, 3, 6, 5, 30), w.Open)
	assert.Equal(t, utc(2024, 3, 6, 6, 0), w.Close)
	assert.Equal(t, utc(2024, 3, 6, 7, 0), w.ScanEnd, "02:00 after a 00:30 anchor stays on the anchor date")
}

func TestWindowScanEndEqualsClose(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Location: time.UTC,
		Anchor:   mustClock(t, "08:00"),
		Duration: time.Hour,
		ScanEnd:  mustClock(t, "09:00"),
	}

	// Window stays total, but the configuration is rejected.
	w := cfg.Window(Day{2024, time.March, 5})
	assert.Equal(t, utc(2024, 3, 6, 9, 0), w.ScanEnd)
	assert.ErrorContains(t, cfg.Validate(), "session.scan_end 09:00 equals the range close")

	exit := mustClock(t, "09:00")
	cfg.ScanEnd = mustClock(t, "16:00")
	cfg.ExitEnd = &exit
	assert.ErrorContains(t, cfg.Validate(), "session.exit_end 09:00 equals the range close")

	// Wraps past midnight.
	late := Config{Location: time.UTC, Anchor: mustClock(t, "23:30"), Duration: 30 * time.Minute, ScanEnd: mustClock(t, "00:00")}
	assert.ErrorContains(t, late.Validate(), "session.scan_end")
	late.ScanEnd = mustClock(t, "02:00")
	assert.NoError(t, late.Validate())
}

func TestLocalAndSpan(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Location: newYork(t),
		Anchor:   mustClock(t, "09:30"),
		Duration: 15 * time.Minute,
		ScanEnd:  mustClock(t, "16:00"),
	}
	day := Day{2024, time.March, 5}

	assert.Equal(t, utc(2024, 3, 4, 23, 0), cfg.Local(day, mustClock(t, "18:00")))

	from, to := cfg.Span(day, mustClock(t, "03:00"), mustClock(t, "08:00"))
	assert.Equal(t, utc(2024, 3, 5, 8, 0), from)
	assert.Equal(t, utc(2024, 3, 5, 13, 0), to)

	_, to = cfg.Span(day, mustClock(t, "08:00"), mustClock(t, "10:00"))
	assert.True(t, to.After(cfg.Window(day).Open))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.ErrorContains(t, Config{Duration: time.Minute}.Validate(), "session.timezone")
	assert.ErrorContains(t, Config{Location: time.UTC}.Validate(), "session.duration_minutes")
	assert.ErrorContains(t, Config{Location: time.UTC, Duration: 25 * time.Hour}.Validate(), "less than a day")
}

func TestDays(t *testing.T) {
	t.Parallel()

	from, err := ParseDay("2024-03-08")
	require.NoError(t, err)
	to, err := ParseDay("2024-03-12")
	require.NoError(t, err)

	days := Days(from, to)
	require.Len(t, days, 3)
	assert.Equal(t, "2024-03-08", days[0].String())
	assert.Equal(t, "2024-03-11", days[1].String())
	assert.Equal(t, "2024-03-12", days[2].String())

	assert.Empty(t, Days(to, from))
	assert.Equal(t, Day{2024, time.March, 1}, Day{2024, time.February, 29}.AddDays(1))

	_, err = ParseDay("2024/03/08")
	assert.Error(t, err)
}

func TestTextRoundTrip(t *testing.T) {
	t.Parallel()

	var c Clock
	require.NoError(t, c.UnmarshalText([]byte("07:05")))
	b, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "07:05", string(b))
	assert.Error(t, c.UnmarshalText([]byte("7pm")))

	var d Day
	require.NoError(t, d.UnmarshalText([]byte("2024-03-05")))
	assert.Equal(t, Day{2024, time.March, 5}, d)
	require.NoError(t, d.UnmarshalText(nil))
	assert.True(t, d.IsZero())
}
