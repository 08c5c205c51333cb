package market

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFindGaps(t *testing.T) {
	t.Parallel()

	// Wednesday
	start := time.Date(2024, 3, 6, 14, 0, 0, 0, time.UTC)
	bs := Bars{
		{Time: start},
		{Time: start.Add(time.Minute)},
		{Time: start.Add(3 * time.Minute)},  // 1 missing, minor
		{Time: start.Add(20 * time.Minute)}, // 16 missing, suspicious
	}

	gaps := FindGaps(bs, time.Minute)
	if assert.Len(t, gaps, 2) {
		assert.Equal(t, 1, gaps[0].Missing)
		assert.Equal(t, GapMinor, gaps[0].Kind)
		assert.Equal(t, 16, gaps[1].Missing)
		assert.Equal(t, GapSuspicious, gaps[1].Kind)
	}

	s := GapReport(bs, time.Minute)
	assert.Equal(t, 4, s.Present)
	assert.Equal(t, 17, s.Missing)
	assert.Equal(t, 21, s.Expected)
	assert.Equal(t, 2, s.GapCount)
	assert.Equal(t, 1, s.SuspiciousGaps)
	assert.Equal(t, 16, s.LongestGap)
	assert.Equal(t, GapSuspicious, s.LongestGapKind)

	var buf bytes.Buffer
	PrintGapStats(&buf, s, bs[0].Time, bs[len(bs)-1].Time)
	assert.Contains(t, buf.String(), "Missing Bars: 17")
}

func TestFindGapsWeekend(t *testing.T) {
	t.Parallel()

	fri := time.Date(2024, 3, 8, 21, 0, 0, 0, time.UTC)
	sun := time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC)
	gaps := FindGaps(Bars{{Time: fri.Add(-time.Hour)}, {Time: sun}}, time.Hour)
	if assert.Len(t, gaps, 1) {
		assert.Equal(t, GapWeekend, gaps[0].Kind)
	}

	assert.Nil(t, FindGaps(Bars{{Time: fri}}, time.Hour))
	assert.Nil(t, FindGaps(Bars{{Time: fri}, {Time: sun}}, 0))
}
