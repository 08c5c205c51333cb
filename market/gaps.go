package market

import (
	"fmt"
	"io"
	"time"
)

type GapKind string

const (
	GapMinor      GapKind = "minor"
	GapSuspicious GapKind = "suspicious"
	GapWeekend    GapKind = "weekend"
)

// Gap is a run of missing bars between two present bars.
type Gap struct {
	After   time.Time // open time of the last bar before the gap
	Missing int       // number of missing intervals
	Kind    GapKind
}

type GapStats struct {
	Expected       int
	Present        int
	Missing        int
	GapCount       int
	WeekendGaps    int
	SuspiciousGaps int
	LongestGap     int
	LongestGapKind GapKind
}

// FindGaps walks ascending bars and reports every interval where consecutive
// bars are more than one timeframe apart.
func FindGaps(bars Bars, tf time.Duration) []Gap {
	if tf <= 0 || len(bars) < 2 {
		return nil
	}

	var gaps []Gap
	for i := 1; i < len(bars); i++ {
		step := bars[i].Time.Sub(bars[i-1].Time)
		missing := int(step/tf) - 1
		if missing <= 0 {
			continue
		}
		gaps = append(gaps, Gap{
			After:   bars[i-1].Time,
			Missing: missing,
			Kind:    classifyGap(bars[i-1].Time.Add(tf), time.Duration(missing)*tf),
		})
	}
	return gaps
}

func classifyGap(start time.Time, length time.Duration) GapKind {
	wd := start.UTC().Weekday()

	// Weekend-ish if gap >= 24h and starts Fri/Sat/Sun (UTC heuristic)
	if length >= 24*time.Hour {
		if wd == time.Friday || wd == time.Saturday || wd == time.Sunday {
			return GapWeekend
		}
		return GapSuspicious
	}

	if length >= 10*time.Minute {
		return GapSuspicious
	}
	return GapMinor
}

// GapReport summarizes the gaps in bars for timeframe tf.
func GapReport(bars Bars, tf time.Duration) GapStats {
	var s GapStats
	s.Present = len(bars)
	for _, g := range FindGaps(bars, tf) {
		s.GapCount++
		s.Missing += g.Missing
		if g.Missing > s.LongestGap {
			s.LongestGap = g.Missing
			s.LongestGapKind = g.Kind
		}
		switch g.Kind {
		case GapWeekend:
			s.WeekendGaps++
		case GapSuspicious:
			s.SuspiciousGaps++
		}
	}
	s.Expected = s.Present + s.Missing
	return s
}

func PrintGapStats(w io.Writer, s GapStats, first, last time.Time) {
	fmt.Fprintln(w, "---- Bar Gap Stats ----")
	fmt.Fprintf(w, "Range: %s → %s\n", first.Format(time.RFC3339), last.Format(time.RFC3339))
	fmt.Fprintf(w, "        Expected Bars: %d\n", s.Expected)
	fmt.Fprintf(w, "         Present Bars: %d\n", s.Present)
	fmt.Fprintf(w, "         Missing Bars: %d\n", s.Missing)
	fmt.Fprintf(w, "           Total Gaps: %d\n", s.GapCount)
	fmt.Fprintf(w, "         Weekend Gaps: %d\n", s.WeekendGaps)
	fmt.Fprintf(w, "      Suspicious Gaps: %d\n", s.SuspiciousGaps)
	fmt.Fprintf(w, "Longest Gap: %d bars (%s)\n", s.LongestGap, s.LongestGapKind)
	fmt.Fprintln(w, "-----------------------")
}
