package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRunOrg(t *testing.T) {
	t.Parallel()

	run := sampleRun("RUN1", time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC))
	results := []ResultRecord{
		sampleResult("R1", "RUN1", "2024-03-04", "LOSS"),
		sampleResult("R2", "RUN1", "2024-03-05", "NO_DECISION"),
	}

	var b strings.Builder
	require.NoError(t, WriteRunOrg(&b, run, results))
	out := b.String()

	assert.True(t, strings.HasPrefix(out, "* ORB BACKTEST: ES M5\n"))
	assert.Contains(t, out, ":RUN_ID:      RUN1\n")
	assert.Contains(t, out, ":NO_DECISION: 1\n")
	assert.Contains(t, out, "- Win Rate:  *40.00%*")
	assert.Contains(t, out, "| 2024-03-04 | rr=2 conf=1 dur=15 stop=full anchor=entry | UP | 100.6 | 100.25 | 101.3 | LOSS | 14:55 | -1.00 |")
	assert.Contains(t, out, "| NO_DECISION | - | 0.00 |")
	assert.Contains(t, out, "[2024-04-10 Wed 09:00]")
}

func TestWriteRunOrgWithoutResults(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	require.NoError(t, WriteRunOrg(&b, RunRecord{RunID: "X", Instrument: "NQ"}, nil))
	assert.Contains(t, b.String(), "(timeframe?)")
	assert.NotContains(t, b.String(), "** Trades")
}
